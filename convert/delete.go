package convert

import (
	"github.com/bawdo/gosbee/managers"
	"github.com/bawdo/gosbee/nodes"
)

// ToDelete builds a DELETE FROM target WHERE EXISTS (SELECT 1 FROM (src)
// WHERE target.<pk> = src.<pk> AND ...) statement. Correlated EXISTS is
// used instead of USING for dialect portability. primaryKeys must be
// non-empty and must all exist in source's select list; source's own WITH
// clause, if any, is lifted onto the DELETE.
func ToDelete(source *nodes.SelectCore, target nodes.Node, sourceAlias string, primaryKeys []string) (*nodes.DeleteStatement, error) {
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

	ctes := source.CTEs
	stripped := *source
	stripped.CTEs = nil

	srcAlias := &nodes.TableAlias{Relation: &stripped, AliasName: sourceAlias}
	srcTable := nodes.NewTable(sourceAlias)

	var wheres []nodes.Node
	for _, pk := range primaryKeys {
		wheres = append(wheres, qualify(target, pk).Eq(srcTable.Col(pk)))
	}

	subquery := &nodes.SelectCore{
		From:        srcAlias,
		Projections: []nodes.Node{nodes.Literal(1)},
		Wheres:      wheres,
	}

	m := managers.NewDeleteManager(target).
		Where(nodes.Exists(subquery)).
		WithCTEs(ctes...)
	return m.Statement, nil
}
