package jsonquery

import (
	"fmt"
	"sort"
)

// InvalidWireFormatError reports a caller-supplied model-driven or
// legacy-flat record that NormalizeModelDriven/NormalizeLegacyFlat could
// not turn into a Mapping.
type InvalidWireFormatError struct {
	Field  string
	Reason string
}

func (e *InvalidWireFormatError) Error() string {
	return fmt.Sprintf("jsonquery: invalid wire format at %q: %s", e.Field, e.Reason)
}

// ModelDrivenInput is the hierarchical wire format: a field is either a bare
// column name, {column, type}, or a nested {type: object|array, from,
// structure} relationship. Values in Structure are expected to already be
// decoded from JSON into Go's map[string]any/[]any/string shapes.
type ModelDrivenInput struct {
	RootName string
	TypeInfo map[string]string
	Structure map[string]any
}

// NormalizeModelDriven walks a model-driven Structure and allocates one
// Entity per nested relationship found, in sorted key order. Root-level
// column fields typed "string" in TypeInfo are returned separately as
// protectedStringFields (fields inside nested entities are not listed),
// mirroring spec.md §6's "hoisting type=string fields" rule -- callers that
// render literals differently for strings than other scalars use this list
// to decide how to quote a field's value.
func NormalizeModelDriven(in ModelDrivenInput) (Mapping, []string, error) {
	var protected []string
	nextID := 0
	newID := func(name string) string {
		nextID++
		if name != "" {
			return name
		}
		return fmt.Sprintf("entity_%d", nextID)
	}

	root := Entity{ID: newID("root"), Name: "root"}
	var nested []Entity

	keys := sortedKeys(in.Structure)
	for _, field := range keys {
		raw := in.Structure[field]
		switch v := raw.(type) {
		case string:
			root.Columns = append(root.Columns, ColumnMapping{JSONKey: field, SourceColumn: v})
		case map[string]any:
			if relType, ok := v["type"].(string); ok && (relType == "object" || relType == "array") {
				child, childNested, err := normalizeModelDrivenEntity(field, root.ID, v, &nextID)
				if err != nil {
					return Mapping{}, nil, err
				}
				nested = append(nested, child)
				nested = append(nested, childNested...)
				continue
			}
			col, ok := v["column"].(string)
			if !ok {
				return Mapping{}, nil, &InvalidWireFormatError{Field: field, Reason: "expected a column name or {column, type}"}
			}
			root.Columns = append(root.Columns, ColumnMapping{JSONKey: field, SourceColumn: col})
		default:
			return Mapping{}, nil, &InvalidWireFormatError{Field: field, Reason: "unrecognized structure entry"}
		}
		if in.TypeInfo[field] == "string" {
			protected = append(protected, field)
		}
	}

	return Mapping{
		RootName:       in.RootName,
		RootEntity:     root,
		NestedEntities: nested,
	}, protected, nil
}

func normalizeModelDrivenEntity(propertyName, parentID string, v map[string]any, nextID *int) (Entity, []Entity, error) {
	relType, _ := v["type"].(string)
	structure, _ := v["structure"].(map[string]any)
	if structure == nil {
		return Entity{}, nil, &InvalidWireFormatError{Field: propertyName, Reason: "relationship is missing its structure"}
	}

	*nextID++
	e := Entity{
		ID:           fmt.Sprintf("entity_%d", *nextID),
		Name:         propertyName,
		ParentID:     parentID,
		PropertyName: propertyName,
	}
	if relType == "array" {
		e.RelationshipType = RelArray
	} else {
		e.RelationshipType = RelObject
	}

	var nested []Entity
	for _, field := range sortedKeys(structure) {
		raw := structure[field]
		switch child := raw.(type) {
		case string:
			e.Columns = append(e.Columns, ColumnMapping{JSONKey: field, SourceColumn: child})
		case map[string]any:
			if childType, ok := child["type"].(string); ok && (childType == "object" || childType == "array") {
				grandchild, grandnested, err := normalizeModelDrivenEntity(field, e.ID, child, nextID)
				if err != nil {
					return Entity{}, nil, err
				}
				nested = append(nested, grandchild)
				nested = append(nested, grandnested...)
				continue
			}
			col, ok := child["column"].(string)
			if !ok {
				return Entity{}, nil, &InvalidWireFormatError{Field: field, Reason: "expected a column name or {column, type}"}
			}
			e.Columns = append(e.Columns, ColumnMapping{JSONKey: field, SourceColumn: col})
		default:
			return Entity{}, nil, &InvalidWireFormatError{Field: field, Reason: "unrecognized structure entry"}
		}
	}
	return e, nested, nil
}

// LegacyFlatInput is the flat wire format: one flat column list for the
// root plus a map of relationship name -> {type: hasMany|hasOne, columns}.
type LegacyFlatInput struct {
	RootName      string
	Columns       map[string]string // json_key -> source_column
	Relationships map[string]LegacyRelationship
}

type LegacyRelationship struct {
	Type    string // "hasMany" or "hasOne"
	Columns map[string]string
}

// NormalizeLegacyFlat converts the flat legacy wire format into a Mapping:
// one root entity carrying Columns, and one nested entity per relationship
// (hasMany -> array, hasOne -> object).
func NormalizeLegacyFlat(in LegacyFlatInput) (Mapping, error) {
	root := Entity{ID: "root", Name: "root"}
	for _, key := range sortedKeys(anyMap(in.Columns)) {
		root.Columns = append(root.Columns, ColumnMapping{JSONKey: key, SourceColumn: in.Columns[key]})
	}

	var nested []Entity
	for _, name := range sortedKeys(anyMap2(in.Relationships)) {
		rel := in.Relationships[name]
		e := Entity{
			ID:           name,
			Name:         name,
			ParentID:     root.ID,
			PropertyName: name,
		}
		switch rel.Type {
		case "hasMany":
			e.RelationshipType = RelArray
		case "hasOne":
			e.RelationshipType = RelObject
		default:
			return Mapping{}, &InvalidWireFormatError{Field: name, Reason: fmt.Sprintf("unknown relationship type %q", rel.Type)}
		}
		for _, key := range sortedKeys(anyMap(rel.Columns)) {
			e.Columns = append(e.Columns, ColumnMapping{JSONKey: key, SourceColumn: rel.Columns[key]})
		}
		nested = append(nested, e)
	}

	return Mapping{RootName: in.RootName, RootEntity: root, NestedEntities: nested}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func anyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func anyMap2(m map[string]LegacyRelationship) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
