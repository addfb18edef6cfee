// Package jsonquery builds a nested JSON projection on top of an existing
// SELECT by chaining one CTE per level of the output's entity tree: an
// "origin_query" CTE wrapping the source unchanged, one CTE per object-typed
// nested entity (parent before child), one CTE per array-typed nested entity
// (deepest first), and a final SELECT that shapes the root's jsonb column.
//
// It targets PostgreSQL's jsonb_build_object/jsonb_agg exclusively; Build
// returns JsonbRequiredError when its jsonb argument is false (see DESIGN.md
// decision 4).
package jsonquery

import "fmt"

// RelationshipType says whether a nested entity contributes a single nested
// object or an array of them to its parent's JSON shape.
type RelationshipType int

const (
	RelObject RelationshipType = iota
	RelArray
)

// ResultFormat controls whether Build collapses every root row into one
// JSON array (ResultArray) or selects the root's JSON object directly with
// LIMIT 1, so at most one row comes back (ResultSingle).
type ResultFormat int

const (
	ResultArray ResultFormat = iota
	ResultSingle
)

// ColumnMapping pairs one JSON output key with the source SELECT column it
// is drawn from. A slice rather than a map: map iteration order in Go is
// randomized, and the generated jsonb_build_object(...) call must list keys
// in the caller's declared order every time it's built.
type ColumnMapping struct {
	JSONKey      string
	SourceColumn string
}

// Entity is one node of the output tree: the root entity, or a nested
// object/array entity joined in beneath a parent.
type Entity struct {
	ID               string
	Name             string
	Columns          []ColumnMapping
	ParentID         string // "" for the root entity
	PropertyName     string // JSON key this entity appears under on its parent
	RelationshipType RelationshipType
}

// Mapping is the normalized entity tree Build operates on, whichever wire
// format (model-driven or legacy flat, see wire.go) the caller started from.
type Mapping struct {
	RootName       string
	RootEntity     Entity
	NestedEntities []Entity
	ResultFormat   ResultFormat
}

// MappingValidationError names the entity and rule that Validate rejected.
type MappingValidationError struct {
	Entity string
	Reason string
}

func (e *MappingValidationError) Error() string {
	return fmt.Sprintf("jsonquery: invalid mapping at %q: %s", e.Entity, e.Reason)
}

// JsonbRequiredError is returned when Build is called with jsonb false,
// since it only emits PostgreSQL's jsonb functions.
type JsonbRequiredError struct{}

func (e *JsonbRequiredError) Error() string {
	return "jsonquery: plain json() has no stable row ordering for this builder; jsonb is required"
}

func (m Mapping) allEntities() []Entity {
	out := make([]Entity, 0, len(m.NestedEntities)+1)
	out = append(out, m.RootEntity)
	out = append(out, m.NestedEntities...)
	return out
}

func (m Mapping) byID() map[string]Entity {
	out := make(map[string]Entity, len(m.NestedEntities)+1)
	for _, e := range m.allEntities() {
		out[e.ID] = e
	}
	return out
}

func (m Mapping) childrenOf(parentID string) []Entity {
	var out []Entity
	for _, e := range m.NestedEntities {
		if e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out
}

// Validate enforces spec's four invariants: every source column must
// belong to the root query's own SELECT output, every parent_id must
// resolve and the entity set must form a tree rooted at the root entity,
// no entity may have more than one direct array child, and siblings under
// the same parent must have distinct property names.
func Validate(m Mapping, selectColumns []string) error {
	known := make(map[string]bool, len(selectColumns))
	for _, c := range selectColumns {
		known[c] = true
	}
	for _, e := range m.allEntities() {
		for _, col := range e.Columns {
			if !known[col.SourceColumn] {
				return &MappingValidationError{
					Entity: e.ID,
					Reason: fmt.Sprintf("column %q is not in the root query's select list", col.SourceColumn),
				}
			}
		}
	}

	ids := m.byID()
	if m.RootEntity.ID == "" {
		return &MappingValidationError{Entity: m.RootName, Reason: "root entity has no id"}
	}

	arrayChildren := map[string]int{}
	siblingNames := map[string]map[string]bool{}
	for _, e := range m.NestedEntities {
		if e.ParentID == "" {
			return &MappingValidationError{Entity: e.ID, Reason: "nested entity has no parent_id"}
		}
		if _, ok := ids[e.ParentID]; !ok {
			return &MappingValidationError{Entity: e.ID, Reason: fmt.Sprintf("parent_id %q does not resolve to a known entity", e.ParentID)}
		}
		if e.PropertyName == "" {
			return &MappingValidationError{Entity: e.ID, Reason: "nested entity has no property_name"}
		}
		if e.RelationshipType == RelArray {
			arrayChildren[e.ParentID]++
			if arrayChildren[e.ParentID] > 1 {
				return &MappingValidationError{Entity: e.ParentID, Reason: "more than one direct array child"}
			}
		}
		if siblingNames[e.ParentID] == nil {
			siblingNames[e.ParentID] = map[string]bool{}
		}
		if siblingNames[e.ParentID][e.PropertyName] {
			return &MappingValidationError{Entity: e.ID, Reason: fmt.Sprintf("property name %q is already used by a sibling", e.PropertyName)}
		}
		siblingNames[e.ParentID][e.PropertyName] = true
	}

	reachable := map[string]bool{m.RootEntity.ID: true}
	for changed := true; changed; {
		changed = false
		for _, e := range m.NestedEntities {
			if reachable[e.ParentID] && !reachable[e.ID] {
				reachable[e.ID] = true
				changed = true
			}
		}
	}
	for _, e := range m.allEntities() {
		if !reachable[e.ID] {
			return &MappingValidationError{Entity: e.ID, Reason: "entity is not reachable from the root entity via parent_id"}
		}
	}

	return nil
}
