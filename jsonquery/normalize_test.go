package jsonquery

import (
	"errors"
	"testing"
)

func TestNormalizeDispatchesTypedModelDrivenInput(t *testing.T) {
	in := ModelDrivenInput{
		RootName:  "user",
		Structure: map[string]any{"id": "id"},
	}
	m, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.RootName != "user" {
		t.Errorf("expected RootName %q, got %q", "user", m.RootName)
	}
}

func TestNormalizeDispatchesTypedLegacyFlatInput(t *testing.T) {
	in := LegacyFlatInput{
		RootName: "user",
		Columns:  map[string]string{"id": "id"},
	}
	m, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.RootName != "user" {
		t.Errorf("expected RootName %q, got %q", "user", m.RootName)
	}
}

func TestNormalizeFingerprintsDecodedModelDrivenJSON(t *testing.T) {
	raw := map[string]any{
		"rootName": "user",
		"typeInfo": map[string]any{"id": "string"},
		"structure": map[string]any{
			"id": "id",
			"orders": map[string]any{
				"type":      "array",
				"structure": map[string]any{"total": "order_total"},
			},
		},
	}
	m, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.NestedEntities) != 1 || m.NestedEntities[0].Name != "orders" {
		t.Fatalf("expected one orders nested entity, got %+v", m.NestedEntities)
	}
}

func TestNormalizeFingerprintsDecodedLegacyFlatJSON(t *testing.T) {
	raw := map[string]any{
		"rootName": "user",
		"columns":  map[string]any{"id": "id"},
		"relationships": map[string]any{
			"orders": map[string]any{
				"type":    "hasMany",
				"columns": map[string]any{"total": "order_total"},
			},
		},
	}
	m, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.NestedEntities) != 1 || m.NestedEntities[0].RelationshipType != RelArray {
		t.Fatalf("expected one array-typed nested entity, got %+v", m.NestedEntities)
	}
}

func TestNormalizeRejectsAmbiguousShape(t *testing.T) {
	_, err := Normalize(map[string]any{"foo": "bar"})
	var we *InvalidWireFormatError
	if !errors.As(err, &we) {
		t.Fatalf("expected InvalidWireFormatError, got %v", err)
	}
}

func TestNormalizeRejectsUnrecognizedType(t *testing.T) {
	_, err := Normalize(42)
	var we *InvalidWireFormatError
	if !errors.As(err, &we) {
		t.Fatalf("expected InvalidWireFormatError, got %v", err)
	}
}
