// Package collect implements the read-only structural collectors used by
// the CTE analyzer, the dynamic injectors, and the alias renamer to answer
// "what tables/columns/values does this query touch" without re-rendering
// SQL. It builds on the walk package and generalizes the table-collection
// precedent already in the teacher library (plugins.CollectTables).
package collect

import (
	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/walk"
)

// TableSource describes one FROM/JOIN source found in a query.
type TableSource struct {
	// Name is the underlying table name, or "" for a derived table/subquery
	// or function source.
	Name string
	// Alias is the alias this source is referred to as, or Name if unaliased.
	Alias string
	// Node is the underlying relation node (*nodes.Table, *nodes.TableAlias, ...).
	Node nodes.Node
	// Selectable is true for plain tables/aliased tables, false for
	// function sources and derived tables, when selectable_only filtering
	// is requested.
	Selectable bool
}

// TableSourceCollector walks a query and records every FROM/JOIN table
// source it touches. SelectableOnly, when true, excludes function sources
// and derived-table subqueries, keeping only plain tables — mirroring the
// "selectable_only" flag from the spec's collector contract.
type TableSourceCollector struct {
	walk.NoopWalker
	SelectableOnly bool

	sources []TableSource
	seen    map[string]bool
}

// NewTableSourceCollector creates a collector ready for use with walk.Walk.
func NewTableSourceCollector(selectableOnly bool) *TableSourceCollector {
	return &TableSourceCollector{SelectableOnly: selectableOnly, seen: map[string]bool{}}
}

func (c *TableSourceCollector) VisitNode(n nodes.Node, clause walk.Clause) {
	if clause != walk.ClauseFrom && clause != walk.ClauseJoin {
		return
	}
	var rel nodes.Node
	switch t := n.(type) {
	case *nodes.JoinNode:
		rel = t.Right
	default:
		rel = n
	}
	c.record(rel)
}

func (c *TableSourceCollector) record(rel nodes.Node) {
	switch t := rel.(type) {
	case *nodes.Table:
		c.add(TableSource{Name: t.Name, Alias: t.Name, Node: t, Selectable: true})
	case *nodes.TableAlias:
		switch inner := t.Relation.(type) {
		case *nodes.Table:
			c.add(TableSource{Name: inner.Name, Alias: t.AliasName, Node: t, Selectable: true})
		case *nodes.NamedFunctionNode:
			c.add(TableSource{Name: "", Alias: t.AliasName, Node: t, Selectable: false})
		default:
			c.add(TableSource{Name: "", Alias: t.AliasName, Node: t, Selectable: false})
		}
	}
}

func (c *TableSourceCollector) add(s TableSource) {
	key := s.Alias
	if key == "" {
		key = s.Name
	}
	if c.seen[key] {
		return
	}
	if c.SelectableOnly && !s.Selectable {
		return
	}
	c.seen[key] = true
	c.sources = append(c.sources, s)
}

// Sources returns the collected table sources in encounter order.
func (c *TableSourceCollector) Sources() []TableSource { return c.sources }

// CollectTableSources is a convenience entry point: walk root and return
// its table sources.
func CollectTableSources(root nodes.Node, selectableOnly bool) []TableSource {
	c := NewTableSourceCollector(selectableOnly)
	walk.Walk(root, c)
	return c.Sources()
}

// ColumnReferenceCollector records every nodes.Attribute encountered, once
// per occurrence in the tree; repeated references to the same column are
// kept, not merged. Qualifier gives an Attribute's display qualifier.
type ColumnReferenceCollector struct {
	walk.NoopWalker
	refs []*nodes.Attribute
}

// NewColumnReferenceCollector creates a collector ready for use with walk.Walk.
func NewColumnReferenceCollector() *ColumnReferenceCollector {
	return &ColumnReferenceCollector{}
}

func (c *ColumnReferenceCollector) VisitNode(n nodes.Node, clause walk.Clause) {
	// Clause-level entries are reported once with their clause tag and again
	// as ClauseSelf when walked; counting only ClauseSelf sees each node once.
	if clause != walk.ClauseSelf {
		return
	}
	if attr, ok := n.(*nodes.Attribute); ok {
		c.refs = append(c.refs, attr)
	}
}

// References returns every Attribute found, in encounter order.
func (c *ColumnReferenceCollector) References() []*nodes.Attribute { return c.refs }

// Qualifier returns the display qualifier for an Attribute: the relation's
// name if resolved, otherwise the joined Namespace path, or "" if neither.
func Qualifier(attr *nodes.Attribute) string {
	if attr.Relation != nil {
		return nodes.RelationName(attr.Relation)
	}
	if len(attr.Namespace) > 0 {
		return attr.Namespace[len(attr.Namespace)-1]
	}
	return ""
}

// CollectColumnReferences is a convenience entry point.
func CollectColumnReferences(root nodes.Node) []*nodes.Attribute {
	c := NewColumnReferenceCollector()
	walk.Walk(root, c)
	return c.References()
}

// SelectValueCollector records every projection expression in a query's
// top-level SELECT list (not those of nested subqueries), in position
// order. It is used by the alias renamer to find the column a new name
// would shadow, and by the JSON query builder to inspect projected shape.
type SelectValueCollector struct {
	walk.NoopWalker
	depth  int
	Values []nodes.Node
}

// NewSelectValueCollector creates a collector ready for use with walk.Walk.
func NewSelectValueCollector() *SelectValueCollector {
	return &SelectValueCollector{}
}

func (c *SelectValueCollector) EnterSelect(core *nodes.SelectCore) bool {
	c.depth++
	return true
}

func (c *SelectValueCollector) LeaveSelect(core *nodes.SelectCore) {
	c.depth--
}

func (c *SelectValueCollector) VisitNode(n nodes.Node, clause walk.Clause) {
	if clause == walk.ClauseSelectList && c.depth == 1 {
		c.Values = append(c.Values, n)
	}
}

// CollectSelectValues is a convenience entry point.
func CollectSelectValues(core *nodes.SelectCore) []nodes.Node {
	c := NewSelectValueCollector()
	walk.Walk(core, c)
	return c.Values
}

// CTETableReferenceCollector records, for the CTE whose Query is being
// walked, which other table sources (including other CTE names) it
// references. It is the building block the cte package's dependency graph
// is constructed from.
type CTETableReferenceCollector struct {
	walk.NoopWalker
	refs []string
	seen map[string]bool
}

// NewCTETableReferenceCollector creates a collector ready for use with walk.Walk.
func NewCTETableReferenceCollector() *CTETableReferenceCollector {
	return &CTETableReferenceCollector{seen: map[string]bool{}}
}

func (c *CTETableReferenceCollector) VisitNode(n nodes.Node, clause walk.Clause) {
	if clause != walk.ClauseFrom && clause != walk.ClauseJoin {
		return
	}
	var rel nodes.Node
	if j, ok := n.(*nodes.JoinNode); ok {
		rel = j.Right
	} else {
		rel = n
	}
	name := nodes.TableSourceName(rel)
	if name == "" {
		if t, ok := rel.(*nodes.Table); ok {
			name = t.Name
		}
	}
	if name == "" || c.seen[name] {
		return
	}
	c.seen[name] = true
	c.refs = append(c.refs, name)
}

// References returns the distinct table/CTE names referenced, in
// encounter order.
func (c *CTETableReferenceCollector) References() []string { return c.refs }

// CollectCTETableReferences is a convenience entry point.
func CollectCTETableReferences(root nodes.Node) []string {
	c := NewCTETableReferenceCollector()
	walk.Walk(root, c)
	return c.References()
}

// CTECollector records every nodes.CTENode reachable from root, keyed by
// name, including CTEs nested inside other CTEs' queries.
type CTECollector struct {
	walk.NoopWalker
	byName map[string]*nodes.CTENode
	order  []string
}

// NewCTECollector creates a collector ready for use with walk.Walk.
func NewCTECollector() *CTECollector {
	return &CTECollector{byName: map[string]*nodes.CTENode{}}
}

func (c *CTECollector) VisitNode(n nodes.Node, clause walk.Clause) {
	if clause != walk.ClauseCTE {
		return
	}
	cte, ok := n.(*nodes.CTENode)
	if !ok {
		return
	}
	if _, exists := c.byName[cte.Name]; !exists {
		c.order = append(c.order, cte.Name)
	}
	c.byName[cte.Name] = cte
}

// All returns every collected CTE keyed by name.
func (c *CTECollector) All() map[string]*nodes.CTENode { return c.byName }

// Names returns CTE names in first-encounter order.
func (c *CTECollector) Names() []string { return c.order }

// CollectCTEs is a convenience entry point.
func CollectCTEs(root nodes.Node) *CTECollector {
	c := NewCTECollector()
	walk.Walk(root, c)
	return c
}
