package convert

import "github.com/bawdo/gosbee/nodes"

// MatchedAction is the action taken for a MERGE's WHEN MATCHED arm.
type MatchedAction int

const (
	MatchedDoNothing MatchedAction = iota
	MatchedUpdate
	MatchedDelete
)

// NotMatchedAction is the action taken for a MERGE's WHEN NOT MATCHED arm.
type NotMatchedAction int

const (
	NotMatchedDoNothing NotMatchedAction = iota
	NotMatchedInsert
)

// NotMatchedBySourceAction is the action taken for a MERGE's WHEN NOT
// MATCHED BY SOURCE arm.
type NotMatchedBySourceAction int

const (
	NotMatchedBySourceDoNothing NotMatchedBySourceAction = iota
	NotMatchedBySourceDelete
)

// MergeOptions describes the per-branch actions and optional explicit
// column lists for ToMerge.
type MergeOptions struct {
	Matched            MatchedAction
	NotMatched         NotMatchedAction
	NotMatchedBySource NotMatchedBySourceAction
	UpdatableColumns   []string // explicit SET column list for MatchedUpdate; inferred (non-key columns) if empty
	InsertColumns      []string // explicit column list for NotMatchedInsert; inferred (all columns) if empty
}

// ToMerge builds a MERGE INTO target USING (source) AS src ON target.<pk> =
// src.<pk> ... statement. primaryKeys must be non-empty and must all exist
// in source's select list. UpdatableColumns must be non-empty when
// Matched = MatchedUpdate, else NoUpdatableColumnsError.
func ToMerge(source *nodes.SelectCore, target nodes.Node, sourceAlias string, primaryKeys []string, opts MergeOptions) (*nodes.MergeStatement, error) {
	if sourceAlias == "" {
		sourceAlias = "src"
	}
	if len(primaryKeys) == 0 {
		return nil, &MissingPrimaryKeyError{Column: ""}
	}

	names, err := selectListNames(source)
	if err != nil {
		return nil, err
	}
	for _, pk := range primaryKeys {
		if indexOf(names, pk) == -1 {
			return nil, &MissingPrimaryKeyError{Column: pk}
		}
	}

	isKey := make(map[string]bool, len(primaryKeys))
	for _, pk := range primaryKeys {
		isKey[pk] = true
	}

	srcAlias := &nodes.TableAlias{Relation: source, AliasName: sourceAlias}
	srcTable := nodes.NewTable(sourceAlias)

	var on nodes.Node
	for _, pk := range primaryKeys {
		cond := qualify(target, pk).Eq(srcTable.Col(pk))
		on = andNode(on, cond)
	}

	var clauses []*nodes.MergeWhenClause

	switch opts.Matched {
	case MatchedUpdate:
		updatable := opts.UpdatableColumns
		if len(updatable) == 0 {
			for _, n := range names {
				if !isKey[n] {
					updatable = append(updatable, n)
				}
			}
		}
		if len(updatable) == 0 {
			return nil, &NoUpdatableColumnsError{}
		}
		var assignments []*nodes.AssignmentNode
		for _, col := range updatable {
			assignments = append(assignments, &nodes.AssignmentNode{
				Left:  nodes.NewAttribute(nil, col),
				Right: srcTable.Col(col),
			})
		}
		clauses = append(clauses, &nodes.MergeWhenClause{Matched: true, Action: nodes.MergeUpdate, Assignments: assignments})
	case MatchedDelete:
		clauses = append(clauses, &nodes.MergeWhenClause{Matched: true, Action: nodes.MergeDelete})
	case MatchedDoNothing:
		clauses = append(clauses, &nodes.MergeWhenClause{Matched: true, Action: nodes.MergeDoNothing})
	}

	switch opts.NotMatched {
	case NotMatchedInsert:
		insertCols := opts.InsertColumns
		if len(insertCols) == 0 {
			insertCols = names
		}
		var vals []nodes.Node
		for _, col := range insertCols {
			vals = append(vals, srcTable.Col(col))
		}
		clauses = append(clauses, &nodes.MergeWhenClause{
			Matched: false,
			Action:  nodes.MergeInsert,
			Columns: attributeColumns(insertCols),
			Values:  vals,
		})
	case NotMatchedDoNothing:
		// omitted: nothing to do for the default no-op branch
	}

	switch opts.NotMatchedBySource {
	case NotMatchedBySourceDelete:
		clauses = append(clauses, &nodes.MergeWhenClause{Matched: false, BySource: true, Action: nodes.MergeDelete})
	case NotMatchedBySourceDoNothing:
		// omitted: nothing to do for the default no-op branch
	}

	return &nodes.MergeStatement{
		Into:    target,
		Using:   srcAlias,
		On:      on,
		Clauses: clauses,
	}, nil
}
