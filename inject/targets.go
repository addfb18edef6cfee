package inject

import (
	"strings"

	"github.com/bawdo/gosbee/collect"
	"github.com/bawdo/gosbee/nodes"
)

// candidateSelects returns root's own SelectCore (if it is one) followed by
// every derived-table subquery reachable through its FROM/JOIN sources, in
// outer-to-inner order — the search order spec.md's "highest SimpleSelect"
// column-ownership rule walks.
func candidateSelects(root nodes.Node) []*nodes.SelectCore {
	var out []*nodes.SelectCore
	var visit func(n nodes.Node)
	visit = func(n nodes.Node) {
		core, ok := n.(*nodes.SelectCore)
		if !ok {
			return
		}
		out = append(out, core)
		for _, src := range collect.CollectTableSources(core, false) {
			if alias, ok := src.Node.(*nodes.TableAlias); ok {
				if sub, ok := alias.Relation.(*nodes.SelectCore); ok {
					visit(sub)
				}
			}
		}
	}
	visit(root)
	return out
}

// branchesOf splits query into the independent candidate chains a
// descriptor is searched against: the two sides of a set operation, or a
// single chain for a plain SELECT.
func branchesOf(query nodes.Query) [][]*nodes.SelectCore {
	if set, ok := query.(*nodes.SetOperationNode); ok {
		return [][]*nodes.SelectCore{candidateSelects(set.Left), candidateSelects(set.Right)}
	}
	return [][]*nodes.SelectCore{candidateSelects(query)}
}

// chooseTarget picks which candidate SelectCore clause c's predicate should
// be appended to. Without a ColumnResolver there is no catalog to consult,
// so the outermost candidate is used unconditionally, per the "highest
// SimpleSelect" rule defaulting to the query itself. With a resolver, the
// first (outermost) candidate whose table sources expose every column c
// names is preferred; if none do, the outermost candidate is still used
// when column validation is skipped, otherwise none is chosen.
func chooseTarget(candidates []*nodes.SelectCore, c Clause, cfg *options) *nodes.SelectCore {
	if len(candidates) == 0 {
		return nil
	}
	if cfg.columnResolver == nil {
		return candidates[0]
	}
	needed := columns([]Clause{c})
	for _, core := range candidates {
		if coreExposesAll(core, needed, cfg) {
			return core
		}
	}
	if cfg.skipColumnValidation {
		return candidates[0]
	}
	return nil
}

func coreExposesAll(core *nodes.SelectCore, cols []string, cfg *options) bool {
	for _, col := range cols {
		if !coreExposesOne(core, col, cfg) {
			return false
		}
	}
	return true
}

func coreExposesOne(core *nodes.SelectCore, col string, cfg *options) bool {
	for _, src := range collect.CollectTableSources(core, true) {
		exposed, err := cfg.columnResolver(src.Name)
		if err != nil {
			continue
		}
		for _, e := range exposed {
			if columnsMatch(e, col, cfg.caseInsensitive) {
				return true
			}
		}
	}
	return false
}

func columnsMatch(a, b string, caseInsensitive bool) bool {
	if !caseInsensitive {
		return a == b
	}
	return normalizeColumn(a) == normalizeColumn(b)
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// columnAttribute is satisfied by *nodes.Table and *nodes.TableAlias, both
// of which expose a fluent Col(name) constructor.
type columnAttribute interface {
	Col(name string) *nodes.Attribute
}

// columnResolverFor builds the function that turns a clause's target column
// name into an Attribute qualified by target's sole table source, or left
// unqualified when target joins more than one source (there is no schema
// to say which one owns the column).
func columnResolverFor(target *nodes.SelectCore) func(string) *nodes.Attribute {
	sources := collect.CollectTableSources(target, false)
	var sole columnAttribute
	if len(sources) == 1 {
		if rel, ok := sources[0].Node.(columnAttribute); ok {
			sole = rel
		}
	}
	return func(name string) *nodes.Attribute {
		if sole != nil {
			return sole.Col(name)
		}
		return nodes.NewAttribute(nil, name)
	}
}
