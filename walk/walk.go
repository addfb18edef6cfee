// Package walk generalizes the Accept/Visitor double-dispatch idiom the
// teacher library uses for SQL codegen (nodes.Node.Accept(nodes.Visitor))
// into a read-only AST-walking protocol for the collect/cte/inject
// packages: a Walker only implements the hooks it cares about, the walk
// tracks a visited-set so a CTE subtree shared by several references is
// never traversed twice, and the fixed traversal order is
// FROM -> WHERE -> GROUP BY -> HAVING -> ORDER BY -> SELECT. Below the
// clause level, expression trees (AND/OR, comparisons, function calls,
// CASE, ...) descend generically via nodes.Children.
package walk

import "github.com/bawdo/gosbee/nodes"

// Walker receives callbacks during a Walk. Every method is optional —
// embed NoopWalker and override only the hooks of interest (partial
// interest), the same shape as plugins.BaseTransformer in the teacher
// library.
type Walker interface {
	// EnterSelect is called once per SelectCore before its clauses are
	// walked. Returning false skips walking into this SelectCore (but
	// sibling/ancestor walking continues).
	EnterSelect(core *nodes.SelectCore) bool
	// LeaveSelect is called after a SelectCore's clauses have been walked.
	LeaveSelect(core *nodes.SelectCore)
	// VisitNode is called for every node encountered in clause order,
	// including the SelectCore itself first.
	VisitNode(n nodes.Node, clause Clause)
}

// Clause tags which part of a SelectCore a visited node came from.
type Clause int

const (
	ClauseSelf Clause = iota
	ClauseFrom
	ClauseJoin
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseOrderBy
	ClauseSelectList
	ClauseCTE
)

// NoopWalker is embedded by callers that only want a subset of hooks.
type NoopWalker struct{}

func (NoopWalker) EnterSelect(*nodes.SelectCore) bool { return true }
func (NoopWalker) LeaveSelect(*nodes.SelectCore)      {}
func (NoopWalker) VisitNode(nodes.Node, Clause)       {}

// Walk traverses root (a *nodes.SelectCore, *nodes.SetOperationNode,
// *nodes.InsertStatement, *nodes.UpdateStatement, or *nodes.DeleteStatement)
// calling w's hooks. It is safe to call Walk directly on any node — the
// visited-set is created fresh per top-level call (the "root-visit flag")
// so reusing the same Walker across multiple independent trees never
// leaks state between them.
func Walk(root nodes.Node, w Walker) {
	v := &visit{w: w, seen: map[nodes.Node]bool{}}
	v.walk(root)
}

type visit struct {
	w    Walker
	seen map[nodes.Node]bool
}

func (v *visit) walk(n nodes.Node) {
	if n == nil {
		return
	}
	if v.seen[n] {
		return
	}
	v.seen[n] = true

	switch t := n.(type) {
	case *nodes.SelectCore:
		v.walkSelectCore(t)
	case *nodes.SetOperationNode:
		v.w.VisitNode(t, ClauseSelf)
		v.walk(t.Left)
		v.walk(t.Right)
	case *nodes.InsertStatement:
		v.w.VisitNode(t, ClauseSelf)
		for _, cte := range t.CTEs {
			v.walkCTE(cte)
		}
		v.walk(t.Select)
	case *nodes.UpdateStatement:
		v.w.VisitNode(t, ClauseSelf)
		for _, cte := range t.CTEs {
			v.walkCTE(cte)
		}
		for _, w := range t.Wheres {
			v.walk(w)
		}
	case *nodes.DeleteStatement:
		v.w.VisitNode(t, ClauseSelf)
		for _, cte := range t.CTEs {
			v.walkCTE(cte)
		}
		for _, w := range t.Wheres {
			v.walk(w)
		}
	default:
		v.w.VisitNode(n, ClauseSelf)
		for _, c := range nodes.Children(n) {
			v.walk(c)
		}
	}
}

func (v *visit) walkCTE(cte *nodes.CTENode) {
	v.w.VisitNode(cte, ClauseCTE)
	v.walk(cte.Query)
}

func (v *visit) walkSelectCore(core *nodes.SelectCore) {
	v.w.VisitNode(core, ClauseSelf)

	if !v.w.EnterSelect(core) {
		return
	}

	for _, cte := range core.CTEs {
		v.walkCTE(cte)
	}

	// FROM
	if core.From != nil {
		v.w.VisitNode(core.From, ClauseFrom)
		v.walkSource(core.From)
	}
	for _, j := range core.Joins {
		v.w.VisitNode(j, ClauseJoin)
		v.walkSource(j.Right)
		if j.On != nil {
			v.walk(j.On)
		}
	}

	// WHERE
	for _, w := range core.Wheres {
		v.w.VisitNode(w, ClauseWhere)
		v.walk(w)
	}

	// GROUP BY
	for _, g := range core.Groups {
		v.w.VisitNode(g, ClauseGroupBy)
		v.walk(g)
	}

	// HAVING
	for _, h := range core.Havings {
		v.w.VisitNode(h, ClauseHaving)
		v.walk(h)
	}

	// ORDER BY
	for _, o := range core.Orders {
		v.w.VisitNode(o, ClauseOrderBy)
		v.walk(o)
	}

	// SELECT list
	for _, p := range core.Projections {
		v.w.VisitNode(p, ClauseSelectList)
		v.walk(p)
	}

	v.w.LeaveSelect(core)
}

// walkSource descends into a FROM/JOIN source that may itself be a
// subquery (wrapped in a TableAlias or GroupingNode).
func (v *visit) walkSource(n nodes.Node) {
	switch t := n.(type) {
	case *nodes.TableAlias:
		v.walk(t.Relation)
	case *nodes.GroupingNode:
		v.walk(t.Expr)
	case *nodes.SelectCore, *nodes.SetOperationNode:
		v.walk(t)
	}
}
