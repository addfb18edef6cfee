// Package cte builds a dependency graph over a query's CTEs (and its main
// body, represented as a synthetic MAIN_QUERY node) and answers topological-
// order / cycle questions over it. It is grounded on the CTE plumbing
// already in nodes.CTENode/SelectCore.CTEs and on the collect package's
// walk-based collectors, expressed in gosbee's plain-struct, no-global-state
// idiom rather than as a stateful analyzer object.
package cte

import (
	"errors"
	"fmt"

	"github.com/bawdo/gosbee/collect"
	"github.com/bawdo/gosbee/nodes"
)

// MainQueryName is the synthetic graph node standing in for the query's
// own body (outside any CTE).
const MainQueryName = "MAIN_QUERY"

// NodeKind distinguishes a CTE node from the synthetic main-query node.
type NodeKind int

const (
	KindCTE NodeKind = iota
	KindMainQuery
)

// ErrNotAnalyzed is returned by every Graph query method when called on a
// Graph that was never built by Build.
var ErrNotAnalyzed = errors.New("cte: query has not been analyzed")

// CircularReferenceError reports a CTE dependency cycle. CTE names the node
// that was re-entered while still in progress — the cycle's entry point.
type CircularReferenceError struct {
	CTE string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular CTE dependency at %q", e.CTE)
}

// Graph is the dependency graph of one query: one node per CTE plus
// MainQueryName, with an edge A -> B whenever A's body references B as a
// table source.
type Graph struct {
	nodes    map[string]NodeKind
	edges    map[string][]string // source-order list of names referenced
	cteOrder []string            // CTE names in first-encounter (source) order
	built    bool
}

// Build analyzes root (typically a *nodes.SelectCore with a WITH clause)
// and returns its dependency graph. Edge targets that are not in the CTE
// map (real tables) are dropped silently, per spec: they denote external
// tables, not CTE dependencies.
func Build(root nodes.Node) *Graph {
	g := &Graph{
		nodes: map[string]NodeKind{MainQueryName: KindMainQuery},
		edges: map[string][]string{},
		built: true,
	}

	ctes := collect.CollectCTEs(root)
	for _, name := range ctes.Names() {
		g.nodes[name] = KindCTE
		g.cteOrder = append(g.cteOrder, name)
	}

	for _, name := range ctes.Names() {
		body := ctes.All()[name].Query
		g.edges[name] = collect.CollectCTETableReferences(stripCTEs(body))
	}
	g.edges[MainQueryName] = collect.CollectCTETableReferences(stripCTEs(root))

	return g
}

// stripCTEs returns a shallow copy of n with its own CTEs field cleared, so
// collecting n's direct table references doesn't also walk into (and
// double-count edges from) CTE bodies nested inside it — those become
// their own graph nodes with their own edges instead.
func stripCTEs(n nodes.Node) nodes.Node {
	switch t := n.(type) {
	case *nodes.SelectCore:
		cp := *t
		cp.CTEs = nil
		return &cp
	case *nodes.InsertStatement:
		cp := *t
		cp.CTEs = nil
		return &cp
	case *nodes.UpdateStatement:
		cp := *t
		cp.CTEs = nil
		return &cp
	case *nodes.DeleteStatement:
		cp := *t
		cp.CTEs = nil
		return &cp
	default:
		return n
	}
}

func (g *Graph) ensureBuilt() error {
	if g == nil || !g.built {
		return ErrNotAnalyzed
	}
	return nil
}

// TopologicalOrder returns CTE names ordered so that every CTE appears
// after all CTEs it depends on (dependencies before dependents). It is a
// three-color (white/gray/black) depth-first search seeded from
// MainQueryName, then from any CTE unreached from the main query, each in
// source order, for a deterministic result. A dependency cycle is reported
// as *CircularReferenceError naming the re-entered CTE.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.ensureBuilt(); err != nil {
		return nil, err
	}

	const (
		white = iota
		gray
		black
	)
	color := map[string]int{}
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return &CircularReferenceError{CTE: name}
		}
		color[name] = gray
		for _, dep := range g.edges[name] {
			if _, ok := g.nodes[dep]; !ok {
				continue // external table, not a CTE dependency
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[name] = black
		if name != MainQueryName {
			order = append(order, name)
		}
		return nil
	}

	if err := visit(MainQueryName); err != nil {
		return nil, err
	}
	for _, name := range g.cteOrder {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// HasCircularDependency is sugar over TopologicalOrder failing with a
// CircularReferenceError.
func (g *Graph) HasCircularDependency() bool {
	_, err := g.TopologicalOrder()
	var circ *CircularReferenceError
	return errors.As(err, &circ)
}

// DependenciesOf returns the CTE/main-query names that name directly
// references as a table source, in source order.
func (g *Graph) DependenciesOf(name string) ([]string, error) {
	if err := g.ensureBuilt(); err != nil {
		return nil, err
	}
	var deps []string
	for _, d := range g.edges[name] {
		if _, ok := g.nodes[d]; ok {
			deps = append(deps, d)
		}
	}
	return deps, nil
}

// DependentsOf returns every node that directly references name as a table
// source, in graph node order (MAIN_QUERY first, then CTEs in source order).
func (g *Graph) DependentsOf(name string) ([]string, error) {
	if err := g.ensureBuilt(); err != nil {
		return nil, err
	}
	var dependents []string
	for _, candidate := range append([]string{MainQueryName}, g.cteOrder...) {
		for _, dep := range g.edges[candidate] {
			if dep == name {
				dependents = append(dependents, candidate)
				break
			}
		}
	}
	return dependents, nil
}

// MainQueryDependencies returns the CTE names the query's own body (outside
// any CTE) references directly.
func (g *Graph) MainQueryDependencies() ([]string, error) {
	return g.DependenciesOf(MainQueryName)
}

// NodesByType returns every graph node name of the given kind, in source
// order for KindCTE, or the single MainQueryName for KindMainQuery.
func (g *Graph) NodesByType(kind NodeKind) ([]string, error) {
	if err := g.ensureBuilt(); err != nil {
		return nil, err
	}
	if kind == KindMainQuery {
		return []string{MainQueryName}, nil
	}
	return append([]string{}, g.cteOrder...), nil
}
