package convert

import "github.com/bawdo/gosbee/nodes"

// Fixture is a caller-supplied in-memory table that shadows a real table
// reference for the duration of one conversion. It materializes as a
// leading CTE named after the table it stands in for: a VALUES list when it
// carries rows, or SELECT <nulls> WHERE 1 = 0 when it is declared empty (so
// the shape of the result set is still known even with zero rows).
type Fixture struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// cte renders the fixture as a WITH entry, column-named so downstream
// references resolve the same way they would against the real table.
func (f Fixture) cte() *nodes.CTENode {
	if len(f.Rows) == 0 {
		projections := make([]nodes.Node, len(f.Columns))
		for i, col := range f.Columns {
			projections[i] = nodes.Literal(nil).(*nodes.LiteralNode).As(col)
		}
		empty := &nodes.SelectCore{
			Projections: projections,
			Wheres:      []nodes.Node{nodes.NewComparisonNode(nodes.Literal(1), nodes.Literal(0), nodes.OpEq)},
		}
		return &nodes.CTENode{Name: f.Name, Query: empty, Columns: f.Columns}
	}

	rows := make([][]nodes.Node, len(f.Rows))
	for i, row := range f.Rows {
		vals := make([]nodes.Node, len(row))
		for j, v := range row {
			vals[j] = nodes.Literal(v)
		}
		rows[i] = vals
	}
	return &nodes.CTENode{Name: f.Name, Query: &nodes.ValuesQuery{Rows: rows}, Columns: f.Columns}
}

// findFixture returns the fixture standing in for table, if any.
func findFixture(fixtures []Fixture, table string) (Fixture, bool) {
	for _, f := range fixtures {
		if f.Name == table {
			return f, true
		}
	}
	return Fixture{}, false
}
