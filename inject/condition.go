package inject

import (
	"fmt"
	"sort"

	"github.com/bawdo/gosbee/nodes"
)

// ClauseKind distinguishes the predicate shapes a condition descriptor can
// decode into.
type ClauseKind int

const (
	ClauseEq ClauseKind = iota
	ClauseCompare
	ClauseLike
	ClauseILike
	ClauseIn
	ClauseAny
	ClauseIsNull
	ClauseOr
	ClauseAnd
)

// Clause is one decoded predicate, or (for Or/And) a nested group of them.
// It is an intermediate representation between the caller's raw
// map[string]any state and the nodes.Node predicate Filter appends to a
// query's WHERE clause.
type Clause struct {
	Kind ClauseKind
	// Column is the target column name, after any "column" override.
	// Unused (zero) for Or/And, whose Sub entries each carry their own.
	Column string
	// ParamName is the generated bind-parameter name, per spec.md's
	// <base>[_suffix] scheme. Unused for Or/And/IsNull.
	ParamName string
	// Value is the scalar operand for Eq/Compare/Like/ILike/Any.
	Value any
	// Values/ParamNames hold one entry per element for ClauseIn.
	Values     []any
	ParamNames []string
	// Op is the comparison operator for ClauseCompare.
	Op nodes.ComparisonOp
	// Sub holds the nested clauses of an Or/And group.
	Sub []Clause
}

var operatorOrder = []string{
	"=", "!=", "<>", "<", "<=", ">", ">=",
	"min", "max", "like", "ilike", "in", "any", "or", "and",
}

// Decode turns one state-map entry (logical parameter name -> raw
// descriptor) into the clause(s) it describes. name is both the default
// target column and the base for generated parameter names.
func Decode(name string, raw any) ([]Clause, error) {
	return decodeAt(name, name, raw)
}

func decodeAt(column, paramBase string, raw any) ([]Clause, error) {
	switch v := raw.(type) {
	case nil:
		return []Clause{{Kind: ClauseIsNull, Column: column}}, nil
	case map[string]any:
		return decodeRecord(column, paramBase, v)
	case []any:
		return []Clause{decodeIn(column, paramBase, v)}, nil
	default:
		return []Clause{{Kind: ClauseEq, Column: column, ParamName: paramBase, Value: v}}, nil
	}
}

func decodeRecord(column, paramBase string, rec map[string]any) ([]Clause, error) {
	if raw, ok := rec["column"]; ok {
		name, ok := raw.(string)
		if !ok || name == "" {
			return nil, &InvalidConditionError{Name: paramBase, Reason: `"column" override must be a non-empty string`}
		}
		column = name
	}

	handled := map[string]bool{"column": true}
	var clauses []Clause
	for _, op := range operatorOrder {
		val, ok := rec[op]
		if !ok {
			continue
		}
		handled[op] = true
		decoded, err := decodeOperator(column, paramBase, op, val)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, decoded...)
	}

	var unknown []string
	for k := range rec {
		if !handled[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnsupportedOperatorError{Op: unknown[0], Name: paramBase}
	}
	return clauses, nil
}

func decodeOperator(column, paramBase, op string, val any) ([]Clause, error) {
	switch op {
	case "=":
		return []Clause{{Kind: ClauseEq, Column: column, ParamName: paramBase, Value: val}}, nil
	case "!=", "<>":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_ne", Value: val, Op: nodes.OpNotEq}}, nil
	case "<":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_lt", Value: val, Op: nodes.OpLt}}, nil
	case "<=":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_lte", Value: val, Op: nodes.OpLtEq}}, nil
	case ">":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_gt", Value: val, Op: nodes.OpGt}}, nil
	case ">=":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_gte", Value: val, Op: nodes.OpGtEq}}, nil
	case "min":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_min", Value: val, Op: nodes.OpGtEq}}, nil
	case "max":
		return []Clause{{Kind: ClauseCompare, Column: column, ParamName: paramBase + "_max", Value: val, Op: nodes.OpLtEq}}, nil
	case "like":
		return []Clause{{Kind: ClauseLike, Column: column, ParamName: paramBase + "_like", Value: val}}, nil
	case "ilike":
		return []Clause{{Kind: ClauseILike, Column: column, ParamName: paramBase + "_ilike", Value: val}}, nil
	case "in":
		items, ok := val.([]any)
		if !ok {
			return nil, &InvalidConditionError{Name: paramBase, Reason: `"in" requires a list`}
		}
		return []Clause{decodeIn(column, paramBase, items)}, nil
	case "any":
		return []Clause{{Kind: ClauseAny, Column: column, ParamName: paramBase + "_any", Value: val}}, nil
	case "or":
		items, ok := val.([]any)
		if !ok {
			return nil, &InvalidConditionError{Name: paramBase, Reason: `"or" requires a list`}
		}
		sub, err := decodeSubList(column, paramBase+"_or", items)
		if err != nil {
			return nil, err
		}
		return []Clause{{Kind: ClauseOr, Sub: sub}}, nil
	case "and":
		items, ok := val.([]any)
		if !ok {
			return nil, &InvalidConditionError{Name: paramBase, Reason: `"and" requires a list`}
		}
		sub, err := decodeSubList(column, paramBase+"_and", items)
		if err != nil {
			return nil, err
		}
		return []Clause{{Kind: ClauseAnd, Sub: sub}}, nil
	default:
		return nil, fmt.Errorf("inject: unreachable operator %q", op)
	}
}

func decodeIn(column, paramBase string, items []any) Clause {
	names := make([]string, len(items))
	for i := range items {
		names[i] = fmt.Sprintf("%s_in_%d", paramBase, i)
	}
	return Clause{Kind: ClauseIn, Column: column, Values: items, ParamNames: names}
}

// decodeSubList decodes each entry of an or/and list as its own descriptor,
// defaulting to column unless the entry overrides it, and naming generated
// parameters "<base>_<i>[_<op>]" per spec.md's <base>_or_<i>_<op> scheme.
func decodeSubList(column, base string, items []any) ([]Clause, error) {
	var out []Clause
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, &InvalidConditionError{Name: base, Reason: "list entries must be condition records"}
		}
		itemBase := fmt.Sprintf("%s_%d", base, i)
		clauses, err := decodeAt(column, itemBase, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, clauses...)
	}
	return out, nil
}

// columns returns every distinct column named by clauses, including those
// nested inside Or/And groups.
func columns(clauses []Clause) []string {
	seen := map[string]bool{}
	var out []string
	var walk func([]Clause)
	walk = func(cs []Clause) {
		for _, c := range cs {
			if c.Column != "" && !seen[c.Column] {
				seen[c.Column] = true
				out = append(out, c.Column)
			}
			if len(c.Sub) > 0 {
				walk(c.Sub)
			}
		}
	}
	walk(clauses)
	return out
}

// primaryColumn returns a representative column name for an error message,
// descending into Or/And groups when the clause itself doesn't name one.
func primaryColumn(c Clause) string {
	if c.Column != "" {
		return c.Column
	}
	for _, sub := range c.Sub {
		if col := primaryColumn(sub); col != "" {
			return col
		}
	}
	return ""
}
