package decompose

import "github.com/bawdo/gosbee/nodes"

// requalifyAll clones each expression in exprs, rewriting every column
// reference to point at detail instead of whatever table it originally
// named.
func requalifyAll(exprs []nodes.Node, detail *nodes.Table) []nodes.Node {
	if exprs == nil {
		return nil
	}
	out := make([]nodes.Node, len(exprs))
	for i, e := range exprs {
		out[i] = requalify(e, detail)
	}
	return out
}

// requalify deep-clones an expression tree, replacing every Attribute's
// Relation with detail and leaving every other leaf (literals, bind
// parameters, stars, raw SQL) shared, since those carry no table qualifier
// to rewrite and are themselves immutable. Node kinds with no meaningful
// appearance in a GROUP BY/HAVING/ORDER BY/SELECT list of a query already
// confirmed free of window functions (MergeStatement, set operations, ...)
// fall through unchanged.
func requalify(n nodes.Node, detail *nodes.Table) nodes.Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *nodes.Attribute:
		a := nodes.NewAttribute(detail, t.Name)
		a.TypeName = t.TypeName
		return a
	case *nodes.AggregateNode:
		agg := nodes.NewAggregateNode(t.Func, requalify(t.Expr, detail))
		agg.Distinct = t.Distinct
		if t.Filter != nil {
			agg.Filter = requalify(t.Filter, detail)
		}
		return agg
	case *nodes.NamedFunctionNode:
		fn := nodes.NewNamedFunction(t.Name, requalifyAll(t.Args, detail)...)
		fn.Distinct = t.Distinct
		return fn
	case *nodes.ComparisonNode:
		return nodes.NewComparisonNode(requalify(t.Left, detail), requalify(t.Right, detail), t.Op)
	case *nodes.AndNode:
		return nodes.NewAndNode(requalify(t.Left, detail), requalify(t.Right, detail))
	case *nodes.OrNode:
		return nodes.NewOrNode(requalify(t.Left, detail), requalify(t.Right, detail))
	case *nodes.NotNode:
		return nodes.NewNotNode(requalify(t.Expr, detail))
	case *nodes.InfixNode:
		return nodes.NewInfixNode(requalify(t.Left, detail), requalify(t.Right, detail), t.Op)
	case *nodes.UnaryMathNode:
		return nodes.NewUnaryMathNode(requalify(t.Expr, detail), t.Op)
	case *nodes.UnaryNode:
		return nodes.NewUnaryNode(requalify(t.Expr, detail), t.Op)
	case *nodes.InNode:
		return nodes.NewInNode(requalify(t.Expr, detail), requalifyAll(t.Vals, detail), t.Negate)
	case *nodes.BetweenNode:
		return nodes.NewBetweenNode(requalify(t.Expr, detail), requalify(t.Low, detail), requalify(t.High, detail), t.Negate)
	case *nodes.GroupingNode:
		return nodes.NewGroupingNode(requalify(t.Expr, detail))
	case *nodes.CaseNode:
		c := nodes.NewCase()
		if t.Operand != nil {
			c.Operand = requalify(t.Operand, detail)
		}
		for _, w := range t.Whens {
			c.Whens = append(c.Whens, nodes.CaseWhen{
				Condition: requalify(w.Condition, detail),
				Result:    requalify(w.Result, detail),
			})
		}
		if t.ElseVal != nil {
			c.ElseVal = requalify(t.ElseVal, detail)
		}
		return c
	case *nodes.AliasNode:
		return nodes.NewAliasNode(requalify(t.Expr, detail), t.Name)
	case *nodes.OrderingNode:
		return nodes.NewOrderingNode(requalify(t.Expr, detail), t.Direction, t.Nulls)
	case *nodes.CastedNode:
		if v, ok := t.Value.(nodes.Node); ok {
			return nodes.NewCasted(requalify(v, detail), t.TypeName)
		}
		return t
	case *nodes.TupleNode:
		return &nodes.TupleNode{Elems: requalifyAll(t.Elems, detail)}
	case *nodes.ArrayNode:
		return &nodes.ArrayNode{Elems: requalifyAll(t.Elems, detail)}
	default:
		return n
	}
}
