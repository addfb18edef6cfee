package inject

import "github.com/bawdo/gosbee/nodes"

// SortEntry describes one ORDER BY item. Go maps don't preserve insertion
// order, so unlike spec.md's wire shape ({column -> {...}}), callers pass an
// ordered slice — the natural Go adaptation that still appends items "in
// insertion order" per spec.
type SortEntry struct {
	Column     string
	Desc       bool
	NullsFirst bool
	NullsLast  bool
}

// Sort appends one OrderingNode per entry, in slice order, to the target
// query's ORDER BY clause. It refuses a set-operation query outright — the
// caller must wrap it as a subquery first, per spec.md.
func Sort(query nodes.Query, entries []SortEntry, opts ...Option) (nodes.Query, error) {
	core, ok := query.(*nodes.SelectCore)
	if !ok {
		return nil, &SortUnsupportedQueryError{}
	}
	resolve := columnResolverFor(core)
	for _, e := range entries {
		dir := nodes.Asc
		if e.Desc {
			dir = nodes.Desc
		}
		nulls := nodes.NullsDefault
		switch {
		case e.NullsFirst:
			nulls = nodes.NullsFirst
		case e.NullsLast:
			nulls = nodes.NullsLast
		}
		core.Orders = append(core.Orders, nodes.NewOrderingNode(resolve(e.Column), dir, nulls))
	}
	return core, nil
}
