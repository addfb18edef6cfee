package decompose

import "github.com/bawdo/gosbee/nodes"

// hasAggregate reports whether any of the query's SELECT/HAVING/ORDER BY
// expressions contains an aggregate call. GROUP BY alone already makes a
// query eligible regardless of this check; this only covers the
// "aggregate function with no GROUP BY" half of the eligibility rule.
func hasAggregate(q *nodes.SelectCore) bool {
	return anyIn(q.Projections, isAggregate) ||
		anyIn(q.Havings, isAggregate) ||
		anyIn(q.Orders, isAggregate)
}

// hasWindowFunction reports whether any expression anywhere in the query
// carries a window function. Its presence rejects decomposition outright:
// a window function's frame must see the original, ungrouped rows, and
// rewriting its arguments to reference detail_data's (already-filtered,
// already-joined but otherwise identical) rows would silently change which
// rows are visible to PARTITION BY/ORDER BY.
func hasWindowFunction(q *nodes.SelectCore) bool {
	return anyIn(q.Projections, isWindow) ||
		anyIn(q.Wheres, isWindow) ||
		anyIn(q.Groups, isWindow) ||
		anyIn(q.Havings, isWindow) ||
		anyIn(q.Orders, isWindow)
}

func isAggregate(n nodes.Node) bool {
	_, ok := n.(*nodes.AggregateNode)
	return ok
}

func isWindow(n nodes.Node) bool {
	switch n.(type) {
	case *nodes.WindowFuncNode, *nodes.OverNode:
		return true
	default:
		return false
	}
}

func anyIn(exprs []nodes.Node, pred func(nodes.Node) bool) bool {
	for _, e := range exprs {
		if contains(e, pred) {
			return true
		}
	}
	return false
}

func contains(n nodes.Node, pred func(nodes.Node) bool) bool {
	if n == nil {
		return false
	}
	if pred(n) {
		return true
	}
	for _, c := range nodes.Children(n) {
		if contains(c, pred) {
			return true
		}
	}
	return false
}
