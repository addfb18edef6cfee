package convert

import (
	"github.com/bawdo/gosbee/managers"
	"github.com/bawdo/gosbee/nodes"
)

// ToUpdate builds an UPDATE target SET ... FROM (source) AS src WHERE
// target.<pk> = src.<pk> statement. primaryKeys must be non-empty and must
// all exist in source's select list. If updatable is empty, every
// non-key select-list column is used; NoUpdatableColumnsError if that set
// is empty. source's own WITH clause, if any, is lifted onto the UPDATE;
// the select list is reordered (keys first, then updatables) for
// readability.
func ToUpdate(source *nodes.SelectCore, target nodes.Node, sourceAlias string, primaryKeys []string, updatable []string) (*nodes.UpdateStatement, error) {
	if sourceAlias == "" {
		sourceAlias = "src"
	}
	if len(primaryKeys) == 0 {
		return nil, &MissingPrimaryKeyError{Column: ""}
	}

	names, err := selectListNames(source)
	if err != nil {
		return nil, err
	}
	for _, pk := range primaryKeys {
		if indexOf(names, pk) == -1 {
			return nil, &MissingPrimaryKeyError{Column: pk}
		}
	}

	if len(updatable) == 0 {
		isKey := make(map[string]bool, len(primaryKeys))
		for _, pk := range primaryKeys {
			isKey[pk] = true
		}
		for _, n := range names {
			if !isKey[n] {
				updatable = append(updatable, n)
			}
		}
	}
	if len(updatable) == 0 {
		return nil, &NoUpdatableColumnsError{}
	}

	ordered := append(append([]string{}, primaryKeys...), updatable...)
	reordered, err := reorderSelectList(source, names, ordered)
	if err != nil {
		return nil, err
	}

	ctes := reordered.CTEs
	lifted := *reordered
	lifted.CTEs = nil

	srcAlias := &nodes.TableAlias{Relation: &lifted, AliasName: sourceAlias}
	srcTable := nodes.NewTable(sourceAlias)

	m := managers.NewUpdateManager(target).From(srcAlias).WithCTEs(ctes...)
	for _, col := range updatable {
		m.Set(nodes.NewAttribute(nil, col), srcTable.Col(col))
	}
	for _, pk := range primaryKeys {
		m.Where(qualify(target, pk).Eq(srcTable.Col(pk)))
	}

	return m.Statement, nil
}
