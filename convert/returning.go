package convert

import "github.com/bawdo/gosbee/nodes"

// ColumnResolver answers which columns a named table exposes, used to
// expand a RETURNING * against the table's real definition. The same
// contract as inject.ColumnResolver, duplicated here so convert does not
// import inject for a one-method function type.
type ColumnResolver func(table string) ([]string, error)

// MissingFixturePolicy governs ToSelectReturning's behavior when a
// RETURNING * needs expanding and neither a fixture nor the resolver can
// supply the target table's columns.
type MissingFixturePolicy int

const (
	// PolicyError returns MissingFixtureError.
	PolicyError MissingFixturePolicy = iota
	// PolicyIgnore leaves RETURNING * unexpanded in the emitted SELECT.
	PolicyIgnore
)

// returningMutation is satisfied by the three statement shapes that may
// carry a RETURNING clause.
type returningMutation interface {
	target() nodes.Node
	returning() []nodes.Node
	ctes() []*nodes.CTENode
	wheres() []nodes.Node
}

type insertMutation struct{ *nodes.InsertStatement }

func (m insertMutation) target() nodes.Node      { return m.Into }
func (m insertMutation) returning() []nodes.Node { return m.Returning }
func (m insertMutation) ctes() []*nodes.CTENode  { return m.CTEs }
func (m insertMutation) wheres() []nodes.Node    { return nil }

type updateMutation struct{ *nodes.UpdateStatement }

func (m updateMutation) target() nodes.Node      { return m.Table }
func (m updateMutation) returning() []nodes.Node { return m.Returning }
func (m updateMutation) ctes() []*nodes.CTENode  { return m.CTEs }
func (m updateMutation) wheres() []nodes.Node    { return m.Wheres }

type deleteMutation struct{ *nodes.DeleteStatement }

func (m deleteMutation) target() nodes.Node      { return m.From }
func (m deleteMutation) returning() []nodes.Node { return m.Returning }
func (m deleteMutation) ctes() []*nodes.CTENode  { return m.CTEs }
func (m deleteMutation) wheres() []nodes.Node    { return m.Wheres }

// asMutation adapts one of *nodes.InsertStatement / *nodes.UpdateStatement /
// *nodes.DeleteStatement to the common shape ToSelectReturning needs.
func asMutation(stmt nodes.Node) (returningMutation, bool) {
	switch s := stmt.(type) {
	case *nodes.InsertStatement:
		return insertMutation{s}, true
	case *nodes.UpdateStatement:
		return updateMutation{s}, true
	case *nodes.DeleteStatement:
		return deleteMutation{s}, true
	default:
		return nil, false
	}
}

// ToSelectReturning rewrites an INSERT/UPDATE/DELETE's RETURNING clause into
// the equivalent standalone SELECT: FROM the mutation's own target
// reference, unchanged, so any WHERE the mutation carried (UPDATE/DELETE)
// keeps resolving against the same qualifier; the mutation's own WITH
// clause is preserved on the SELECT. A fixture matching the target's table
// name is injected as a leading CTE of the same name, which shadows the
// real table for the rest of the query without needing a new alias.
// RETURNING * is expanded against a matching fixture's columns first, then
// the resolver; when RETURNING is absent entirely the SELECT becomes
// `SELECT count(*) AS count`. Qualified columns in RETURNING that reference
// anything other than the target are ColumnUnresolvedError.
func ToSelectReturning(stmt nodes.Node, resolver ColumnResolver, fixtures []Fixture, policy MissingFixturePolicy) (*nodes.SelectCore, error) {
	mutation, ok := asMutation(stmt)
	if !ok {
		return nil, &ColumnsNotInferrableError{Reason: "ToSelectReturning requires an InsertStatement, UpdateStatement, or DeleteStatement"}
	}

	target := mutation.target()
	tableName := nodes.TableSourceName(target)

	ctes := append([]*nodes.CTENode{}, mutation.ctes()...)
	if fixture, found := findFixture(fixtures, tableName); found {
		ctes = append(ctes, fixture.cte())
	}

	columns, colErr := resolveColumns(tableName, fixtures, resolver)

	returning := mutation.returning()
	if len(returning) == 0 {
		return &nodes.SelectCore{
			From:        target,
			Projections: []nodes.Node{nodes.NewNamedFunction("count", nodes.Star()).As("count")},
			Wheres:      mutation.wheres(),
			CTEs:        ctes,
		}, nil
	}

	projections := make([]nodes.Node, 0, len(returning))
	for _, item := range returning {
		expanded, err := expandReturningItem(item, tableName, target, columns, colErr, policy)
		if err != nil {
			return nil, err
		}
		projections = append(projections, expanded...)
	}

	return &nodes.SelectCore{
		From:        target,
		Projections: projections,
		Wheres:      mutation.wheres(),
		CTEs:        ctes,
	}, nil
}

// resolveColumns prefers a fixture's declared columns over the resolver,
// since a fixture is a deliberate stand-in for the real table definition.
func resolveColumns(table string, fixtures []Fixture, resolver ColumnResolver) ([]string, error) {
	if fixture, found := findFixture(fixtures, table); found {
		return fixture.Columns, nil
	}
	if resolver != nil {
		return resolver(table)
	}
	return nil, nil
}

// expandReturningItem handles one RETURNING projection: a bare or qualified
// star expands to every resolved column qualified to target; an Attribute
// qualified to anything other than the mutation's own target is
// ColumnUnresolvedError; anything else (unqualified attribute, literal,
// expression) passes through as-is.
func expandReturningItem(item nodes.Node, tableName string, target nodes.Node, columns []string, colErr error, policy MissingFixturePolicy) ([]nodes.Node, error) {
	switch n := item.(type) {
	case *nodes.StarNode:
		if n.Table != nil && n.Table.Name != tableName {
			return nil, &ColumnUnresolvedError{Table: n.Table.Name}
		}
		return expandStar(target, tableName, columns, colErr, policy)
	case *nodes.Attribute:
		if n.Relation == nil {
			return []nodes.Node{n}, nil
		}
		if nodes.RelationName(n.Relation) != tableName {
			return nil, &ColumnUnresolvedError{Table: nodes.RelationName(n.Relation)}
		}
		return []nodes.Node{n}, nil
	default:
		return []nodes.Node{item}, nil
	}
}

func expandStar(target nodes.Node, tableName string, columns []string, colErr error, policy MissingFixturePolicy) ([]nodes.Node, error) {
	if len(columns) == 0 {
		if colErr != nil {
			return nil, colErr
		}
		if policy == PolicyError {
			return nil, &MissingFixtureError{Table: tableName}
		}
		return []nodes.Node{nodes.Star()}, nil
	}
	out := make([]nodes.Node, len(columns))
	for i, c := range columns {
		out[i] = qualify(target, c)
	}
	return out, nil
}
