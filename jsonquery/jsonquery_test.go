package jsonquery

import (
	"errors"
	"testing"

	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/visitors"
)

func toSQL(t *testing.T, core *nodes.SelectCore) string {
	t.Helper()
	return core.Accept(visitors.NewPostgresVisitor(visitors.WithoutParams()))
}

func TestValidateRejectsUnknownColumn(t *testing.T) {
	m := Mapping{RootEntity: Entity{ID: "root", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}}}
	err := Validate(m, []string{"name"})
	var ve *MappingValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected MappingValidationError, got %v", err)
	}
}

func TestValidateRejectsUnresolvedParent(t *testing.T) {
	m := Mapping{
		RootEntity: Entity{ID: "root", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "profile", ParentID: "missing", PropertyName: "profile", RelationshipType: RelObject},
		},
	}
	err := Validate(m, []string{"id"})
	var ve *MappingValidationError
	if !errors.As(err, &ve) || ve.Entity != "profile" {
		t.Fatalf("expected MappingValidationError on profile, got %v", err)
	}
}

func TestValidateRejectsTwoArrayChildren(t *testing.T) {
	m := Mapping{
		RootEntity: Entity{ID: "root", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "orders", ParentID: "root", PropertyName: "orders", RelationshipType: RelArray},
			{ID: "reviews", ParentID: "root", PropertyName: "reviews", RelationshipType: RelArray},
		},
	}
	err := Validate(m, []string{"id"})
	var ve *MappingValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected MappingValidationError, got %v", err)
	}
}

func TestValidateRejectsDuplicateSiblingPropertyNames(t *testing.T) {
	m := Mapping{
		RootEntity: Entity{ID: "root", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "a", ParentID: "root", PropertyName: "extra", RelationshipType: RelObject},
			{ID: "b", ParentID: "root", PropertyName: "extra", RelationshipType: RelObject},
		},
	}
	err := Validate(m, []string{"id"})
	var ve *MappingValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected MappingValidationError, got %v", err)
	}
}

func TestValidateRejectsUnreachableEntity(t *testing.T) {
	m := Mapping{
		RootEntity: Entity{ID: "root", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "a", ParentID: "b", PropertyName: "a", RelationshipType: RelObject},
			{ID: "b", ParentID: "a", PropertyName: "b", RelationshipType: RelObject},
		},
	}
	err := Validate(m, []string{"id"})
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestValidateAcceptsWellFormedMapping(t *testing.T) {
	m := Mapping{
		RootEntity: Entity{ID: "root", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "profile", ParentID: "root", PropertyName: "profile", RelationshipType: RelObject,
				Columns: []ColumnMapping{{JSONKey: "bio", SourceColumn: "bio"}}},
			{ID: "orders", ParentID: "root", PropertyName: "orders", RelationshipType: RelArray,
				Columns: []ColumnMapping{{JSONKey: "total", SourceColumn: "order_total"}}},
		},
	}
	if err := Validate(m, []string{"id", "bio", "order_total"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRejectsNonJsonb(t *testing.T) {
	source := &nodes.SelectCore{From: nodes.NewTable("users")}
	_, err := Build(source, Mapping{}, false)
	var je *JsonbRequiredError
	if !errors.As(err, &je) {
		t.Fatalf("expected JsonbRequiredError, got %v", err)
	}
}

func TestBuildRootOnlySingle(t *testing.T) {
	source := &nodes.SelectCore{
		From: nodes.NewTable("users"),
		Projections: []nodes.Node{
			nodes.NewTable("users").Col("id"),
			nodes.NewTable("users").Col("name"),
		},
	}
	m := Mapping{
		RootName: "user",
		RootEntity: Entity{
			ID: "root", Name: "user",
			Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}, {JSONKey: "name", SourceColumn: "name"}},
		},
		ResultFormat: ResultSingle,
	}
	result, err := Build(source, m, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `WITH "origin_query" AS (SELECT "users"."id", "users"."name" FROM "users") ` +
		`SELECT jsonb_build_object('id', "id", 'name', "name") AS "user" FROM "origin_query" LIMIT 1`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestBuildRootOnlyArray(t *testing.T) {
	source := &nodes.SelectCore{From: nodes.NewTable("users"), Projections: []nodes.Node{nodes.NewTable("users").Col("id")}}
	m := Mapping{
		RootName:     "user",
		RootEntity:   Entity{ID: "root", Name: "user", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		ResultFormat: ResultArray,
	}
	result, err := Build(source, m, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `WITH "origin_query" AS (SELECT "users"."id" FROM "users") ` +
		`SELECT jsonb_agg(jsonb_build_object('id', "id")) AS "user_array" FROM "origin_query"`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestBuildObjectEntityCTE(t *testing.T) {
	source := &nodes.SelectCore{
		From: nodes.NewTable("users"),
		Projections: []nodes.Node{
			nodes.NewTable("users").Col("id"),
			nodes.NewTable("users").Col("bio"),
		},
	}
	m := Mapping{
		RootName:   "user",
		RootEntity: Entity{ID: "root", Name: "user", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "profile", Name: "profile", ParentID: "root", PropertyName: "profile", RelationshipType: RelObject,
				Columns: []ColumnMapping{{JSONKey: "bio", SourceColumn: "bio"}}},
		},
		ResultFormat: ResultSingle,
	}
	result, err := Build(source, m, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `WITH "origin_query" AS (SELECT "users"."id", "users"."bio" FROM "users"), ` +
		`"json_profile_cte" AS (SELECT *, jsonb_build_object('bio', "bio") AS "json_profile" FROM "origin_query") ` +
		`SELECT jsonb_build_object('id', "id", 'profile', "json_profile") AS "user" FROM "json_profile_cte" LIMIT 1`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestBuildArrayEntityCTE(t *testing.T) {
	source := &nodes.SelectCore{
		From: nodes.NewTable("users"),
		Projections: []nodes.Node{
			nodes.NewTable("users").Col("id"),
			nodes.NewTable("orders").Col("total"),
		},
	}
	m := Mapping{
		RootName:   "user",
		RootEntity: Entity{ID: "root", Name: "user", Columns: []ColumnMapping{{JSONKey: "id", SourceColumn: "id"}}},
		NestedEntities: []Entity{
			{ID: "orders", Name: "orders", ParentID: "root", PropertyName: "orders", RelationshipType: RelArray,
				Columns: []ColumnMapping{{JSONKey: "total", SourceColumn: "total"}}},
		},
		ResultFormat: ResultSingle,
	}
	result, err := Build(source, m, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `WITH "origin_query" AS (SELECT "users"."id", "orders"."total" FROM "users"), ` +
		`"json_orders_cte" AS (SELECT "id", jsonb_agg(jsonb_build_object('total', "total")) AS "orders" ` +
		`FROM "origin_query" GROUP BY "id") ` +
		`SELECT jsonb_build_object('id', "id", 'orders', "orders") AS "user" FROM "json_orders_cte" LIMIT 1`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestNormalizeLegacyFlatHasManyAndHasOne(t *testing.T) {
	in := LegacyFlatInput{
		RootName: "user",
		Columns:  map[string]string{"id": "id"},
		Relationships: map[string]LegacyRelationship{
			"orders": {Type: "hasMany", Columns: map[string]string{"total": "order_total"}},
			"profile": {Type: "hasOne", Columns: map[string]string{"bio": "bio"}},
		},
	}
	m, err := NormalizeLegacyFlat(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.NestedEntities) != 2 {
		t.Fatalf("expected 2 nested entities, got %d", len(m.NestedEntities))
	}
	byName := map[string]Entity{}
	for _, e := range m.NestedEntities {
		byName[e.Name] = e
	}
	if byName["orders"].RelationshipType != RelArray {
		t.Errorf("expected orders to be RelArray")
	}
	if byName["profile"].RelationshipType != RelObject {
		t.Errorf("expected profile to be RelObject")
	}
}

func TestNormalizeLegacyFlatRejectsUnknownRelationshipType(t *testing.T) {
	in := LegacyFlatInput{
		Columns: map[string]string{"id": "id"},
		Relationships: map[string]LegacyRelationship{
			"orders": {Type: "manyToMany", Columns: map[string]string{"total": "order_total"}},
		},
	}
	_, err := NormalizeLegacyFlat(in)
	var we *InvalidWireFormatError
	if !errors.As(err, &we) {
		t.Fatalf("expected InvalidWireFormatError, got %v", err)
	}
}

func TestNormalizeModelDrivenNestedStructure(t *testing.T) {
	in := ModelDrivenInput{
		RootName: "user",
		TypeInfo: map[string]string{"id": "string"},
		Structure: map[string]any{
			"id": "id",
			"profile": map[string]any{
				"type": "object",
				"structure": map[string]any{
					"bio": "bio",
				},
			},
			"orders": map[string]any{
				"type": "array",
				"structure": map[string]any{
					"total": "order_total",
				},
			},
		},
	}
	m, protected, err := NormalizeModelDriven(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(protected) != 1 || protected[0] != "id" {
		t.Errorf("expected protected string fields [id], got %v", protected)
	}
	if len(m.RootEntity.Columns) != 1 || m.RootEntity.Columns[0].SourceColumn != "id" {
		t.Errorf("expected root to carry the id column, got %+v", m.RootEntity.Columns)
	}
	if len(m.NestedEntities) != 2 {
		t.Fatalf("expected 2 nested entities, got %d", len(m.NestedEntities))
	}
}

func TestNormalizeModelDrivenRejectsMissingStructure(t *testing.T) {
	in := ModelDrivenInput{
		Structure: map[string]any{
			"orders": map[string]any{"type": "array"},
		},
	}
	_, _, err := NormalizeModelDriven(in)
	var we *InvalidWireFormatError
	if !errors.As(err, &we) {
		t.Fatalf("expected InvalidWireFormatError, got %v", err)
	}
}
