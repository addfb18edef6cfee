package jsonquery

import (
	"fmt"
	"sort"

	"github.com/bawdo/gosbee/nodes"
)

// Build performs the progressive CTE synthesis: an origin_query CTE
// wrapping source unchanged, one CTE per object-typed nested entity whose
// whole ancestor chain is object relationships (parent before child), one
// CTE per array-typed nested entity anywhere in the tree (deepest first),
// and a final SelectCore shaping the root's jsonb column. jsonb must be
// true; Build returns JsonbRequiredError otherwise (decision 4).
//
// Each array CTE groups by every column the rest of the tree still needs
// once this array's own subtree has been folded into its aggregate --
// every other entity's declared columns plus every already-generated
// json_<x> column -- rather than a literal "parent key set", since nothing
// short of a schema tells us which of those columns functionally depend on
// which (decision 8). This over-groups relative to the minimal key but
// never drops a column a later step needs.
func Build(source *nodes.SelectCore, m Mapping, jsonb bool) (*nodes.SelectCore, error) {
	if !jsonb {
		return nil, &JsonbRequiredError{}
	}

	ctes := []*nodes.CTENode{{Name: "origin_query", Query: source}}
	generated := map[string]string{} // entity id -> column name already materialized in a CTE

	current := "origin_query"
	for _, e := range topObjectOrder(m) {
		colName := fmt.Sprintf("json_%s", e.Name)
		expr, err := objectExpr(e, m, generated)
		if err != nil {
			return nil, err
		}
		cteName := fmt.Sprintf("json_%s_cte", e.Name)
		ctes = append(ctes, &nodes.CTENode{
			Name: cteName,
			Query: &nodes.SelectCore{
				From:        nodes.NewTable(current),
				Projections: []nodes.Node{nodes.Star(), expr.As(colName)},
			},
		})
		generated[e.ID] = colName
		current = cteName
	}

	for _, e := range deepestFirstArrayOrder(m) {
		colName := e.PropertyName
		expr, err := objectExpr(e, m, generated)
		if err != nil {
			return nil, err
		}
		groupCols := groupColumnsExcluding(e, m, generated)
		projections := make([]nodes.Node, 0, len(groupCols)+1)
		groups := make([]nodes.Node, 0, len(groupCols))
		for _, col := range groupCols {
			projections = append(projections, nodes.NewAttribute(nil, col))
			groups = append(groups, nodes.NewAttribute(nil, col))
		}
		projections = append(projections, nodes.NewNamedFunction("jsonb_agg", expr).As(colName))

		cteName := fmt.Sprintf("json_%s_cte", e.Name)
		ctes = append(ctes, &nodes.CTENode{
			Name: cteName,
			Query: &nodes.SelectCore{
				From:        nodes.NewTable(current),
				Projections: projections,
				Groups:      groups,
			},
		})
		generated[e.ID] = colName
		current = cteName
	}

	rootExpr, err := objectExpr(m.RootEntity, m, generated)
	if err != nil {
		return nil, err
	}

	final := &nodes.SelectCore{From: nodes.NewTable(current), CTEs: ctes}
	if m.ResultFormat == ResultArray {
		final.Projections = []nodes.Node{nodes.NewNamedFunction("jsonb_agg", rootExpr).As(m.RootName + "_array")}
	} else {
		final.Projections = []nodes.Node{rootExpr.As(m.RootName)}
		final.Limit = nodes.Literal(1)
	}
	return final, nil
}

// objectExpr builds the jsonb_build_object(...) call for e: one 'key', value
// pair per column, plus one 'key', value pair per direct child. A child
// already present in generated (a prior top-level object/array CTE column)
// is referenced by column name; a child not yet generated -- an object
// entity hanging off an array ancestor, built inline rather than as its own
// CTE -- is recursively expanded in place.
func objectExpr(e Entity, m Mapping, generated map[string]string) (*nodes.NamedFunctionNode, error) {
	var args []nodes.Node
	for _, col := range e.Columns {
		args = append(args, nodes.Literal(col.JSONKey), nodes.NewAttribute(nil, col.SourceColumn))
	}
	for _, child := range m.childrenOf(e.ID) {
		var valueExpr nodes.Node
		if colName, ok := generated[child.ID]; ok {
			valueExpr = nodes.NewAttribute(nil, colName)
		} else if child.RelationshipType == RelObject {
			inline, err := objectExpr(child, m, generated)
			if err != nil {
				return nil, err
			}
			valueExpr = inline
		} else {
			return nil, &MappingValidationError{Entity: child.ID, Reason: "array entity was not generated before its parent needed it"}
		}
		args = append(args, nodes.Literal(child.PropertyName), valueExpr)
	}
	return nodes.NewNamedFunction("jsonb_build_object", args...), nil
}

// topObjectOrder returns every object-typed entity whose entire ancestor
// chain up to the root passes through object relationships only, in
// parent-before-child order. Object entities nested under an array ancestor
// are excluded here -- they are built inline by objectExpr when their
// owning array CTE is generated instead.
func topObjectOrder(m Mapping) []Entity {
	var order []Entity
	visited := map[string]bool{m.RootEntity.ID: true}
	queue := []string{m.RootEntity.ID}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range m.childrenOf(parent) {
			if child.RelationshipType != RelObject || visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			order = append(order, child)
			queue = append(queue, child.ID)
		}
	}
	return order
}

// deepestFirstArrayOrder returns every array-typed entity in the tree,
// ordered from deepest to shallowest so a parent array's aggregation can
// reference a child array's already-generated column.
func deepestFirstArrayOrder(m Mapping) []Entity {
	byID := m.byID()
	depth := func(id string) int {
		d := 0
		for cur := id; ; {
			e, ok := byID[cur]
			if !ok || e.ParentID == "" {
				return d
			}
			d++
			cur = e.ParentID
		}
	}
	var arrays []Entity
	for _, e := range m.NestedEntities {
		if e.RelationshipType == RelArray {
			arrays = append(arrays, e)
		}
	}
	sort.SliceStable(arrays, func(i, j int) bool {
		return depth(arrays[i].ID) > depth(arrays[j].ID)
	})
	return arrays
}

// subtreeIDs returns rootID and every entity reachable from it by
// following parent_id downward.
func subtreeIDs(rootID string, m Mapping) map[string]bool {
	set := map[string]bool{rootID: true}
	for changed := true; changed; {
		changed = false
		for _, e := range m.NestedEntities {
			if set[e.ParentID] && !set[e.ID] {
				set[e.ID] = true
				changed = true
			}
		}
	}
	return set
}

// groupColumnsExcluding returns, in a stable sorted order, every source
// column and every already-generated json_<x> column belonging to an
// entity outside e's own subtree -- the columns e's array CTE must carry
// through its GROUP BY so later steps can still reach them.
func groupColumnsExcluding(e Entity, m Mapping, generated map[string]string) []string {
	excluded := subtreeIDs(e.ID, m)
	seen := map[string]bool{}
	var cols []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}
	for _, other := range m.allEntities() {
		if excluded[other.ID] {
			continue
		}
		for _, col := range other.Columns {
			add(col.SourceColumn)
		}
		if genCol, ok := generated[other.ID]; ok {
			add(genCol)
		}
	}
	sort.Strings(cols)
	return cols
}
