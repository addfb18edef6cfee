package convert

import "github.com/bawdo/gosbee/collect"
import "github.com/bawdo/gosbee/nodes"

// InsertValuesToUnionAll rewrites a VALUES (row1), (row2), ... row source
// into SELECT row1 UNION ALL SELECT row2 ... , preserving column order.
// columns names the first branch's projections (SELECT v1 AS col1, ...);
// later branches inherit those names positionally, matching how every SQL
// dialect actually resolves a UNION ALL chain's output names. A zero-row
// values list requires an explicit column list and emits
// SELECT <nulls> WHERE 1 = 0 instead of a UNION ALL chain.
func InsertValuesToUnionAll(values *nodes.ValuesQuery, columns []string) (nodes.Node, error) {
	if len(values.Rows) == 0 {
		if len(columns) == 0 {
			return nil, &ColumnsNotInferrableError{Reason: "a zero-row VALUES list needs an explicit column list to synthesize its empty-result shape"}
		}
		projections := make([]nodes.Node, len(columns))
		for i, c := range columns {
			projections[i] = nodes.Literal(nil).(*nodes.LiteralNode).As(c)
		}
		return &nodes.SelectCore{
			Projections: projections,
			Wheres:      []nodes.Node{nodes.NewComparisonNode(nodes.Literal(1), nodes.Literal(0), nodes.OpEq)},
		}, nil
	}

	selects := make([]*nodes.SelectCore, len(values.Rows))
	for i, row := range values.Rows {
		selects[i] = &nodes.SelectCore{Projections: rowProjections(row, columns, i == 0)}
	}

	var result nodes.Node = selects[0]
	for i := 1; i < len(selects); i++ {
		result = &nodes.SetOperationNode{Left: result, Right: selects[i], Type: nodes.UnionAll}
	}
	return result, nil
}

func rowProjections(row []nodes.Node, columns []string, named bool) []nodes.Node {
	out := make([]nodes.Node, len(row))
	for i, v := range row {
		if named && i < len(columns) && columns[i] != "" {
			out[i] = nodes.NewAliasNode(v, columns[i])
		} else {
			out[i] = v
		}
	}
	return out
}

// UnionAllToInsertValues is the reverse of InsertValuesToUnionAll: it
// flattens a left-associated UNION ALL chain (or a bare SELECT, for a
// single-row case) back into an InsertStatement with a literal VALUES
// source, column names taken from the first branch's select list. A single
// branch shaped SELECT <nulls> WHERE 1 = 0 round-trips to a zero-row
// InsertStatement instead of a one-row VALUES (NULL, ...).
func UnionAllToInsertValues(q nodes.Node, target nodes.Node) (*nodes.InsertStatement, error) {
	branches, err := flattenUnionAll(q)
	if err != nil {
		return nil, err
	}

	names, err := selectListNames(branches[0])
	if err != nil {
		return nil, err
	}

	if len(branches) == 1 && isEmptyResultShape(branches[0]) {
		return &nodes.InsertStatement{
			Into:    target,
			Columns: attributeColumns(names),
			Values:  [][]nodes.Node{},
		}, nil
	}

	rows := make([][]nodes.Node, len(branches))
	for i, b := range branches {
		values := collect.CollectSelectValues(b)
		row := make([]nodes.Node, len(values))
		for j, v := range values {
			row[j] = unwrapAlias(v)
		}
		rows[i] = row
	}

	return &nodes.InsertStatement{
		Into:    target,
		Columns: attributeColumns(names),
		Values:  rows,
	}, nil
}

func flattenUnionAll(n nodes.Node) ([]*nodes.SelectCore, error) {
	switch v := n.(type) {
	case *nodes.SelectCore:
		return []*nodes.SelectCore{v}, nil
	case *nodes.SetOperationNode:
		if v.Type != nodes.UnionAll {
			return nil, &ColumnsNotInferrableError{Reason: "UnionAllToInsertValues only accepts a UNION ALL chain"}
		}
		left, err := flattenUnionAll(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := flattenUnionAll(v.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	default:
		return nil, &ColumnsNotInferrableError{Reason: "expected a SELECT or a UNION ALL chain of SELECTs"}
	}
}

func unwrapAlias(n nodes.Node) nodes.Node {
	if a, ok := n.(*nodes.AliasNode); ok {
		return a.Expr
	}
	return n
}

func isEmptyResultShape(core *nodes.SelectCore) bool {
	if len(core.Wheres) != 1 {
		return false
	}
	cmp, ok := core.Wheres[0].(*nodes.ComparisonNode)
	if !ok || cmp.Op != nodes.OpEq {
		return false
	}
	left, lok := cmp.Left.(*nodes.LiteralNode)
	right, rok := cmp.Right.(*nodes.LiteralNode)
	if !lok || !rok {
		return false
	}
	l, lok2 := left.Value.(int)
	r, rok2 := right.Value.(int)
	return lok2 && rok2 && l == 1 && r == 0
}
