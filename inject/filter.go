// Package inject generalizes plugins/softdelete's single hard-coded
// predicate injector into the full dynamic condition grammar of spec.md
// §4.4: Filter appends WHERE predicates decoded from a caller-supplied
// state map, Sort appends ORDER BY items, Paginate sets LIMIT/OFFSET, and
// BindParameters writes values into named placeholders already present in
// the query.
package inject

import (
	"fmt"
	"sort"

	"github.com/bawdo/gosbee/nodes"
)

// Filter decodes state (logical parameter name -> condition descriptor)
// and appends the resulting predicates to the WHERE clause of the upstream
// query that owns each descriptor's column, with AND semantics. State keys
// are processed in sorted order so repeated calls with the same input
// produce identical SQL.
func Filter(query nodes.Query, state map[string]any, opts ...Option) (nodes.Query, error) {
	cfg := newOptions(opts)

	if len(state) == 0 {
		if !cfg.allowAllUndefined {
			return nil, &AllParametersUndefinedError{}
		}
		return query, nil
	}

	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		clauses, err := Decode(key, state[key])
		if err != nil {
			return nil, err
		}
		if err := applyClauses(query, clauses, cfg); err != nil {
			return nil, err
		}
	}
	return query, nil
}

func applyClauses(query nodes.Query, clauses []Clause, cfg *options) error {
	branches := branchesOf(query)
	if len(branches) == 0 {
		return fmt.Errorf("inject: query has no SELECT to filter")
	}
	for _, c := range clauses {
		applied := false
		for _, candidates := range branches {
			target := chooseTarget(candidates, c, cfg)
			if target == nil {
				continue
			}
			appendClause(target, c)
			applied = true
		}
		if !applied && !cfg.skipColumnValidation {
			return &ColumnNotFoundError{Column: primaryColumn(c)}
		}
	}
	return nil
}

// appendClause appends c's predicate(s) to target's WHERE list. A top-level
// And group is flattened into one Wheres entry per sub-clause rather than
// one combined AndNode, matching how every other Wheres entry is already
// combined with AND at render time (visitors.writeClause joins Wheres with
// " AND ") — per spec.md: "the AND branch appends each sub-condition
// individually." A nested And (inside an Or) still needs to render as one
// node, which buildNode handles by chaining AndNode directly.
func appendClause(target *nodes.SelectCore, c Clause) {
	resolve := columnResolverFor(target)
	if c.Kind == ClauseAnd {
		for _, sub := range c.Sub {
			target.Wheres = append(target.Wheres, buildNode(resolve, sub))
		}
		return
	}
	target.Wheres = append(target.Wheres, buildNode(resolve, c))
}

// buildNode renders one decoded Clause as a predicate node. Or/And groups
// recurse and combine their Sub entries; Or wraps the OR chain in a
// GroupingNode per spec.md's "the OR branch is wrapped in parentheses."
func buildNode(resolve func(string) *nodes.Attribute, c Clause) nodes.Node {
	switch c.Kind {
	case ClauseIsNull:
		return resolve(c.Column).IsNull()
	case ClauseEq:
		return nodes.NewComparisonNode(resolve(c.Column), nodes.NewNamedBindParam(c.ParamName, c.Value), nodes.OpEq)
	case ClauseCompare:
		return nodes.NewComparisonNode(resolve(c.Column), nodes.NewNamedBindParam(c.ParamName, c.Value), c.Op)
	case ClauseLike:
		return nodes.NewComparisonNode(resolve(c.Column), nodes.NewNamedBindParam(c.ParamName, c.Value), nodes.OpLike)
	case ClauseILike:
		left := nodes.Lower(resolve(c.Column))
		right := nodes.Lower(nodes.NewNamedBindParam(c.ParamName, c.Value))
		return nodes.NewComparisonNode(left, right, nodes.OpLike)
	case ClauseIn:
		vals := make([]nodes.Node, len(c.Values))
		for i, v := range c.Values {
			vals[i] = nodes.NewNamedBindParam(c.ParamNames[i], v)
		}
		return nodes.NewInNode(resolve(c.Column), vals, false)
	case ClauseAny:
		wrapped := nodes.NewNamedFunction("ANY", nodes.NewNamedBindParam(c.ParamName, c.Value))
		return nodes.NewComparisonNode(resolve(c.Column), wrapped, nodes.OpEq)
	case ClauseOr:
		return nodes.NewGroupingNode(chainOr(resolve, c.Sub))
	case ClauseAnd:
		return chainAnd(resolve, c.Sub)
	default:
		panic(fmt.Sprintf("inject: unreachable clause kind %d", c.Kind))
	}
}

func chainOr(resolve func(string) *nodes.Attribute, subs []Clause) nodes.Node {
	var result nodes.Node
	for _, s := range subs {
		n := buildNode(resolve, s)
		if result == nil {
			result = n
			continue
		}
		result = nodes.NewOrNode(result, n)
	}
	return result
}

func chainAnd(resolve func(string) *nodes.Attribute, subs []Clause) nodes.Node {
	var result nodes.Node
	for _, s := range subs {
		n := buildNode(resolve, s)
		if result == nil {
			result = n
			continue
		}
		result = nodes.NewAndNode(result, n)
	}
	return result
}
