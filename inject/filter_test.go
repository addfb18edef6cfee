package inject

import (
	"errors"
	"testing"

	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/visitors"
)

func toSQL(t *testing.T, q nodes.Query) string {
	t.Helper()
	return q.Accept(visitors.NewPostgresVisitor(visitors.WithoutParams()))
}

func TestFilterSimpleValueEquals(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{"status": "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."status" = 'active'`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterNilIsNull(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{"deleted_at": nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterArrayIsIn(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{"id": []any{1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."id" IN (1, 2, 3)`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterMinMaxRange(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"age": map[string]any{"min": 18, "max": 65},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."age" >= 18 AND "users"."age" <= 65`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterLikeAndComparisonOperators(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"name": map[string]any{"like": "%smith%"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."name" LIKE '%smith%'`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterILikeSynthesizedViaLower(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"name": map[string]any{"ilike": "%smith%"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE LOWER("users"."name") LIKE LOWER('%smith%')`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterAnyOperator(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"id": map[string]any{"any": 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."id" = ANY(5)`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterColumnOverride(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"status_filter": map[string]any{"column": "status", "=": "active"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."status" = 'active'`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterOrBranchIsParenthesized(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"status": map[string]any{
			"or": []any{
				map[string]any{"=": "active"},
				map[string]any{"=": "pending"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE ("users"."status" = 'active' OR "users"."status" = 'pending')`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterAndBranchAppendsEachSubConditionIndividually(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"status": map[string]any{
			"and": []any{
				map[string]any{"!=": "banned"},
				map[string]any{"!=": "deleted"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	core2 := result.(*nodes.SelectCore)
	if len(core2.Wheres) != 2 {
		t.Fatalf("expected 2 separate Wheres entries (implicit AND), got %d", len(core2.Wheres))
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."status" != 'banned' AND "users"."status" != 'deleted'`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterOrNestingAndIsCombinedNotFlattened(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{
		"status": map[string]any{
			"or": []any{
				map[string]any{
					"and": []any{
						map[string]any{"column": "role", "=": "admin"},
						map[string]any{"=": "active"},
					},
				},
				map[string]any{"=": "guest"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE ("users"."role" = 'admin' AND "users"."status" = 'active' OR "users"."status" = 'guest')`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestFilterUnsupportedOperatorRejected(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	_, err := Filter(core, map[string]any{"status": map[string]any{"startswith": "a"}})
	var unsupported *UnsupportedOperatorError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOperatorError, got %v", err)
	}
	if unsupported.Op != "startswith" {
		t.Errorf("expected op 'startswith', got %q", unsupported.Op)
	}
}

func TestFilterEmptyStateRejectedByDefault(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	_, err := Filter(core, map[string]any{})
	var undefined *AllParametersUndefinedError
	if !errors.As(err, &undefined) {
		t.Fatalf("expected AllParametersUndefinedError, got %v", err)
	}
}

func TestFilterEmptyStateAllowed(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Filter(core, map[string]any{}, AllowAllUndefined(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.(*nodes.SelectCore).Wheres) != 0 {
		t.Error("expected no WHERE clauses appended")
	}
}

func TestFilterColumnNotFoundWithResolver(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}
	resolver := func(table string) ([]string, error) {
		return []string{"id", "status"}, nil
	}

	_, err := Filter(core, map[string]any{"nonexistent": "x"},
		SkipColumnValidation(false), WithColumnResolver(resolver))
	var notFound *ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
}

func TestFilterCaseInsensitiveColumnMatch(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}
	resolver := func(table string) ([]string, error) {
		return []string{"full_name"}, nil
	}

	_, err := Filter(core, map[string]any{"FullName": "x"},
		SkipColumnValidation(false), WithColumnResolver(resolver), CaseInsensitiveMatch(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFilterPreservesExistingWheres(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		From:   users,
		Wheres: []nodes.Node{users.Col("active").Eq(true)},
	}

	result, err := Filter(core, map[string]any{"status": "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."active" = TRUE AND "users"."status" = 'active'`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestSortAppendsInOrder(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Sort(core, []SortEntry{
		{Column: "name"},
		{Column: "created_at", Desc: true, NullsLast: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" ORDER BY "users"."name" ASC, "users"."created_at" DESC NULLS LAST`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestSortRejectsSetOperation(t *testing.T) {
	core := &nodes.SelectCore{From: nodes.NewTable("users")}
	set := &nodes.SetOperationNode{Left: core, Right: core}

	_, err := Sort(set, []SortEntry{{Column: "id"}})
	var unsupported *SortUnsupportedQueryError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected SortUnsupportedQueryError, got %v", err)
	}
}

func TestPaginateSetsLimitAndOffset(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Paginate(core, 3, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" LIMIT 20 OFFSET 40`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestPaginateOmitsOffsetOnFirstPage(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	result, err := Paginate(core, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" LIMIT 20`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestPaginateRejectsExistingLimit(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users, Limit: nodes.NewBindParam(10)}

	_, err := Paginate(core, 1, 20)
	var conflict *PaginationConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected PaginationConflictError, got %v", err)
	}
}

func TestBindParametersWritesNamedValues(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		From:   users,
		Wheres: []nodes.Node{nodes.NewComparisonNode(users.Col("status"), nodes.NewNamedBindParam("status", nil), nodes.OpEq)},
	}

	result, err := BindParameters(core, map[string]any{"status": "premium"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" WHERE "users"."status" = 'premium'`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestBindParametersBindsLimitAndOffset(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}
	paginated, err := Paginate(core, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := BindParameters(paginated, map[string]any{"page_size": 10, "offset": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := toSQL(t, result)
	want := `SELECT * FROM "users" LIMIT 10 OFFSET 10`
	if got != want {
		t.Errorf("expected:\n  %s\ngot:\n  %s", want, got)
	}
}

func TestBindParametersRequireAllParametersReportsMissing(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		From:   users,
		Wheres: []nodes.Node{nodes.NewComparisonNode(users.Col("status"), nodes.NewNamedBindParam("status", nil), nodes.OpEq)},
	}

	_, err := BindParameters(core, map[string]any{}, RequireAllParameters(true))
	var missing *MissingParameterError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingParameterError, got %v", err)
	}
	if missing.Name != "status" {
		t.Errorf("expected missing param 'status', got %q", missing.Name)
	}
}
