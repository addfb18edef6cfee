package cte

import (
	"errors"
	"testing"

	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/parser"
)

func mustParse(t *testing.T, sql string) nodes.Query {
	t.Helper()
	q, err := parser.ParseQuery(sql)
	if err != nil {
		t.Fatalf("parse %q: %v", sql, err)
	}
	return q
}

func TestGraphLinearDependencyOrder(t *testing.T) {
	q := mustParse(t, `WITH a AS (SELECT * FROM users), b AS (SELECT * FROM a) SELECT * FROM b`)
	g := Build(q)

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
	if g.HasCircularDependency() {
		t.Error("expected no circular dependency")
	}
}

func TestGraphCircularDependency(t *testing.T) {
	q := mustParse(t, `WITH a AS (SELECT * FROM b), b AS (SELECT * FROM a) SELECT * FROM a`)
	g := Build(q)

	if !g.HasCircularDependency() {
		t.Fatal("expected circular dependency")
	}

	_, err := g.TopologicalOrder()
	var circ *CircularReferenceError
	if !errors.As(err, &circ) {
		t.Fatalf("expected CircularReferenceError, got %v", err)
	}
	if circ.CTE != "a" {
		t.Errorf("expected cycle entry 'a' (deterministic by source order), got %q", circ.CTE)
	}
}

func TestGraphMainQueryDependencies(t *testing.T) {
	q := mustParse(t, `WITH a AS (SELECT * FROM users) SELECT * FROM a`)
	g := Build(q)

	deps, err := g.MainQueryDependencies()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 || deps[0] != "a" {
		t.Fatalf("expected [a], got %v", deps)
	}
}

func TestGraphDependentsOf(t *testing.T) {
	q := mustParse(t, `WITH a AS (SELECT * FROM users), b AS (SELECT * FROM a) SELECT * FROM b`)
	g := Build(q)

	dependents, err := g.DependentsOf("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dependents) != 1 || dependents[0] != "b" {
		t.Fatalf("expected [b], got %v", dependents)
	}
}

func TestGraphIgnoresExternalTableEdges(t *testing.T) {
	q := mustParse(t, `WITH a AS (SELECT * FROM users) SELECT * FROM a JOIN posts ON a.id = posts.user_id`)
	g := Build(q)

	deps, err := g.MainQueryDependencies()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 || deps[0] != "a" {
		t.Fatalf("expected only the CTE dependency [a], external table dropped, got %v", deps)
	}
}

func TestGraphNodesByType(t *testing.T) {
	q := mustParse(t, `WITH a AS (SELECT * FROM users), b AS (SELECT * FROM a) SELECT * FROM b`)
	g := Build(q)

	ctes, err := g.NodesByType(KindCTE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctes) != 2 || ctes[0] != "a" || ctes[1] != "b" {
		t.Fatalf("expected [a b], got %v", ctes)
	}

	main, err := g.NodesByType(KindMainQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(main) != 1 || main[0] != MainQueryName {
		t.Fatalf("expected [MAIN_QUERY], got %v", main)
	}
}

func TestGraphNotAnalyzed(t *testing.T) {
	var g *Graph
	if _, err := g.TopologicalOrder(); !errors.Is(err, ErrNotAnalyzed) {
		t.Fatalf("expected ErrNotAnalyzed, got %v", err)
	}
}
