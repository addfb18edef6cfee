package nodes

// NewAndNode creates an AndNode with its Combinable self pointer set, for
// callers outside this package (e.g. the parser) that need to build a
// logical AND without going through an existing node's .And() method.
func NewAndNode(left, right Node) *AndNode {
	n := &AndNode{Left: left, Right: right}
	n.self = n
	return n
}

// NewOrNode creates an OrNode with its Combinable self pointer set.
func NewOrNode(left, right Node) *OrNode {
	n := &OrNode{Left: left, Right: right}
	n.self = n
	return n
}

// NewNotNode creates a NotNode with its Combinable self pointer set.
func NewNotNode(expr Node) *NotNode {
	n := &NotNode{Expr: expr}
	n.self = n
	return n
}

// NewGroupingNode creates a GroupingNode with its Combinable self pointer set.
func NewGroupingNode(expr Node) *GroupingNode {
	n := &GroupingNode{Expr: expr}
	n.self = n
	return n
}

// NewUnaryNode creates a UnaryNode with its Combinable self pointer set.
func NewUnaryNode(expr Node, op UnaryOp) *UnaryNode {
	n := &UnaryNode{Expr: expr, Op: op}
	n.self = n
	return n
}

// NewInNode creates an InNode with its Combinable self pointer set.
func NewInNode(expr Node, vals []Node, negate bool) *InNode {
	n := &InNode{Expr: expr, Vals: vals, Negate: negate}
	n.self = n
	return n
}

// NewBetweenNode creates a BetweenNode with its Combinable self pointer set.
func NewBetweenNode(expr, low, high Node, negate bool) *BetweenNode {
	n := &BetweenNode{Expr: expr, Low: low, High: high, Negate: negate}
	n.self = n
	return n
}

// NewOrderingNode creates an OrderingNode with its Combinable self pointer set.
func NewOrderingNode(expr Node, dir OrderDirection, nulls NullsDirection) *OrderingNode {
	n := &OrderingNode{Expr: expr, Direction: dir, Nulls: nulls}
	n.self = n
	return n
}
