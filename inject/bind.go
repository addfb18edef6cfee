package inject

import (
	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/walk"
)

// BindParameters walks every named BindParamNode reachable from query
// (including LIMIT/OFFSET, which a plain walk.Walk doesn't otherwise visit)
// and writes the matching value from values in place, by name. Because
// nodes are shared by pointer throughout the tree, mutating Value here is
// visible wherever that node is rendered afterward.
//
// With RequireAllParameters(true), a named placeholder that appears in the
// query but has no entry in values is reported as MissingParameterError
// rather than silently left unbound.
func BindParameters(query nodes.Query, values map[string]any, opts ...Option) (nodes.Query, error) {
	cfg := newOptions(opts)

	w := &bindWalker{values: values}
	walk.Walk(query, w)

	if cfg.requireAllParameters {
		for _, name := range w.seen {
			if _, ok := values[name]; !ok {
				return nil, &MissingParameterError{Name: name}
			}
		}
	}
	return query, nil
}

type bindWalker struct {
	walk.NoopWalker
	values map[string]any
	seen   []string
}

func (w *bindWalker) EnterSelect(core *nodes.SelectCore) bool {
	w.apply(core.Limit)
	w.apply(core.Offset)
	return true
}

func (w *bindWalker) VisitNode(n nodes.Node, _ walk.Clause) {
	w.apply(n)
}

func (w *bindWalker) apply(n nodes.Node) {
	p, ok := n.(*nodes.BindParamNode)
	if !ok || p.Name == "" {
		return
	}
	w.seen = append(w.seen, p.Name)
	if v, ok := w.values[p.Name]; ok {
		p.Value = v
	}
}
