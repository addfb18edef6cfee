package convert

import "github.com/bawdo/gosbee/nodes"
import "github.com/bawdo/gosbee/collect"

// selectListNames returns the output name of every top-level projection of
// core, in position order. An unaliased expression or a star projection has
// no name and yields ColumnsNotInferrableError.
func selectListNames(core *nodes.SelectCore) ([]string, error) {
	values := collect.CollectSelectValues(core)
	names := make([]string, len(values))
	for i, v := range values {
		name, ok := projectionName(v)
		if !ok {
			return nil, &ColumnsNotInferrableError{Reason: "select list contains a wildcard or an unnamed expression"}
		}
		names[i] = name
	}
	return names, nil
}

func projectionName(n nodes.Node) (string, bool) {
	switch v := n.(type) {
	case *nodes.Attribute:
		return v.Name, true
	case *nodes.AliasNode:
		return v.Name, true
	default:
		return "", false
	}
}

// indexOf returns the index of name within names, or -1.
func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// reorderSelectList returns a shallow copy of core whose projections have
// been reordered to match columns, by name, against names (core's own
// current select-list names).
func reorderSelectList(core *nodes.SelectCore, names []string, columns []string) (*nodes.SelectCore, error) {
	reordered := make([]nodes.Node, len(columns))
	originalValues := collect.CollectSelectValues(core)
	for i, col := range columns {
		idx := indexOf(names, col)
		if idx == -1 {
			return nil, &ColumnsNotInferrableError{Reason: "column \"" + col + "\" is not in the select list"}
		}
		reordered[i] = originalValues[idx]
	}
	clone := *core
	clone.Projections = reordered
	return &clone, nil
}

// qualify resolves name against rel if rel is a *nodes.Table or
// *nodes.TableAlias, falling back to an unqualified Attribute otherwise.
func qualify(rel nodes.Node, name string) *nodes.Attribute {
	switch t := rel.(type) {
	case *nodes.Table:
		return t.Col(name)
	case *nodes.TableAlias:
		return t.Col(name)
	default:
		return nodes.NewAttribute(nil, name)
	}
}

// attributeColumns wraps each name as an unqualified *nodes.Attribute,
// matching how VisitInsertStatement/VisitMergeStatement render a column list.
func attributeColumns(names []string) []nodes.Node {
	out := make([]nodes.Node, len(names))
	for i, n := range names {
		out[i] = nodes.NewAttribute(nil, n)
	}
	return out
}

// andChainable is satisfied by every Node that embeds Combinable, which is
// every condition convert ever builds through qualify(...).Eq(...).
type andChainable interface {
	And(nodes.Node) *nodes.AndNode
}

// andNode folds cond onto acc with AND, returning cond unchanged when acc is
// nil (the first condition in a chain).
func andNode(acc nodes.Node, cond nodes.Node) nodes.Node {
	if acc == nil {
		return cond
	}
	return acc.(andChainable).And(cond)
}
