package convert

import (
	"github.com/bawdo/gosbee/managers"
	"github.com/bawdo/gosbee/nodes"
)

// ToInsert builds an INSERT INTO target (...) SELECT ... statement from
// source. If columns is empty, the column list is inferred from source's
// select-list names (ColumnsNotInferrableError if any projection is a
// wildcard or unaliased expression). If columns is given explicitly, it
// must be a subset of the select-list names; the select list is rewritten
// to match the declared column order.
func ToInsert(source *nodes.SelectCore, target nodes.Node, columns []string) (*nodes.InsertStatement, error) {
	names, err := selectListNames(source)
	if err != nil && len(columns) == 0 {
		return nil, err
	}

	if len(columns) == 0 {
		columns = names
	} else if err == nil {
		reordered, err := reorderSelectList(source, names, columns)
		if err != nil {
			return nil, err
		}
		source = reordered
	}
	// When the select list itself isn't inferrable but the caller supplied
	// explicit columns, we trust the caller's order and pass the select
	// list through unchanged -- there is nothing to reorder against.

	m := managers.NewInsertManager(target).
		Columns(attributeColumns(columns)...).
		FromSelect(&managers.SelectManager{Core: source})
	return m.Statement, nil
}
