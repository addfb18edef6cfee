package gosbee

import (
	"github.com/bawdo/gosbee/convert"
	"github.com/bawdo/gosbee/cte"
	"github.com/bawdo/gosbee/decompose"
	"github.com/bawdo/gosbee/inject"
	"github.com/bawdo/gosbee/jsonquery"
	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/parser"
	"github.com/bawdo/gosbee/rename"
)

// This file is the thin delegation layer the fluent builder re-exports in
// gosbee.go never needed: one function per rewrite operation, each calling
// straight into the package that implements it. Nothing here holds state
// or makes a decision a subpackage doesn't already make; a caller who wants
// more control than a wrapper offers imports that subpackage directly.

// ParseSQL parses sql text into this module's own AST.
func ParseSQL(sql string) (nodes.Query, error) {
	return parser.ParseQuery(sql)
}

// ValidateSQL reports whether sql parses without error.
func ValidateSQL(sql string) bool {
	_, err := parser.ParseQuery(sql)
	return err == nil
}

// BuildOptions bundles the optional rewrite steps build_query applies in
// order: filter, then sort, then paginate, then serialize to JSON.
type BuildOptions struct {
	Filter  map[string]any
	Sort    []inject.SortEntry
	Page    *Paging
	Mapping *jsonquery.Mapping
	JSONB   bool
	Options []inject.Option
}

// Paging holds build_query's paging option.
type Paging struct {
	Page     int
	PageSize int
}

// BuildQuery parses sqlText and applies every rewrite step present in opts,
// in the fixed order the options struct documents.
func BuildQuery(sqlText string, opts BuildOptions) (nodes.Query, error) {
	query, err := parser.ParseQuery(sqlText)
	if err != nil {
		return nil, err
	}

	if opts.Filter != nil {
		query, err = inject.Filter(query, opts.Filter, opts.Options...)
		if err != nil {
			return nil, err
		}
	}
	if len(opts.Sort) > 0 {
		query, err = inject.Sort(query, opts.Sort, opts.Options...)
		if err != nil {
			return nil, err
		}
	}
	if opts.Page != nil {
		query, err = inject.Paginate(query, opts.Page.Page, opts.Page.PageSize, opts.Options...)
		if err != nil {
			return nil, err
		}
	}
	if opts.Mapping != nil {
		core, ok := query.(*nodes.SelectCore)
		if !ok {
			return nil, &SerializeUnsupportedQueryError{}
		}
		built, err := jsonquery.Build(core, *opts.Mapping, opts.JSONB)
		if err != nil {
			return nil, err
		}
		query = built
	}

	return query, nil
}

// SerializeUnsupportedQueryError is returned by BuildQuery when a JSON
// mapping is supplied for a query that isn't a plain SELECT core.
type SerializeUnsupportedQueryError struct{}

func (e *SerializeUnsupportedQueryError) Error() string {
	return "cannot serialize to JSON: query is not a SELECT"
}

// BuildFiltered applies filter conditions to query.
func BuildFiltered(query nodes.Query, filter map[string]any, opts ...inject.Option) (nodes.Query, error) {
	return inject.Filter(query, filter, opts...)
}

// BuildSorted applies ORDER BY entries to query.
func BuildSorted(query nodes.Query, entries []inject.SortEntry, opts ...inject.Option) (nodes.Query, error) {
	return inject.Sort(query, entries, opts...)
}

// BuildPaginated applies LIMIT/OFFSET to query.
func BuildPaginated(query nodes.Query, page, pageSize int, opts ...inject.Option) (nodes.Query, error) {
	return inject.Paginate(query, page, pageSize, opts...)
}

// BuildSerialized rewrites source into a JSON-shaping query per mapping.
func BuildSerialized(source *nodes.SelectCore, mapping jsonquery.Mapping, jsonb bool) (*nodes.SelectCore, error) {
	return jsonquery.Build(source, mapping, jsonb)
}

// JSONBuild is BuildSerialized's spec-literal name.
func JSONBuild(source *nodes.SelectCore, mapping jsonquery.Mapping, jsonb bool) (*nodes.SelectCore, error) {
	return jsonquery.Build(source, mapping, jsonb)
}

// JSONBuildFromWire accepts a mapping in either wire format json_build's
// callers may send (model-driven or legacy-flat, typed or decoded from
// JSON) and normalizes it before building.
func JSONBuildFromWire(source *nodes.SelectCore, wireMapping any, jsonb bool) (*nodes.SelectCore, error) {
	mapping, err := jsonquery.Normalize(wireMapping)
	if err != nil {
		return nil, err
	}
	return jsonquery.Build(source, *mapping, jsonb)
}

// AnalyzeCTEs builds the CTE dependency graph for root.
func AnalyzeCTEs(root nodes.Node) *cte.Graph {
	return cte.Build(root)
}

// ExecutionOrder returns root's CTEs in dependency-respecting order.
func ExecutionOrder(root nodes.Node) ([]string, error) {
	return cte.Build(root).TopologicalOrder()
}

// ToInsert converts a SELECT into an INSERT ... SELECT against target.
func ToInsert(source *nodes.SelectCore, target nodes.Node, columns []string) (*nodes.InsertStatement, error) {
	return convert.ToInsert(source, target, columns)
}

// ToUpdate converts a SELECT into an UPDATE ... FROM source.
func ToUpdate(source *nodes.SelectCore, target nodes.Node, sourceAlias string, primaryKeys, updatable []string) (*nodes.UpdateStatement, error) {
	return convert.ToUpdate(source, target, sourceAlias, primaryKeys, updatable)
}

// ToDelete converts a SELECT into a DELETE ... WHERE EXISTS (correlated
// subquery over source).
func ToDelete(source *nodes.SelectCore, target nodes.Node, sourceAlias string, primaryKeys []string) (*nodes.DeleteStatement, error) {
	return convert.ToDelete(source, target, sourceAlias, primaryKeys)
}

// ToMerge converts a SELECT into a MERGE against target.
func ToMerge(source *nodes.SelectCore, target nodes.Node, sourceAlias string, primaryKeys []string, opts convert.MergeOptions) (*nodes.MergeStatement, error) {
	return convert.ToMerge(source, target, sourceAlias, primaryKeys, opts)
}

// ToSelectReturning converts a DML statement's RETURNING clause into an
// equivalent standalone SELECT.
func ToSelectReturning(stmt nodes.Node, resolver convert.ColumnResolver, fixtures []convert.Fixture, policy convert.MissingFixturePolicy) (*nodes.SelectCore, error) {
	return convert.ToSelectReturning(stmt, resolver, fixtures, policy)
}

// RenameAlias renames the identifier at pos within sql to newName.
func RenameAlias(sql string, pos rename.Position, newName string, opts ...rename.Option) rename.Result {
	return rename.Rename(sql, pos, newName, opts...)
}

// DecomposeJoinAggregation extracts q's join+aggregation into a detail_data
// CTE, reporting the outcome instead of throwing.
func DecomposeJoinAggregation(q *nodes.SelectCore) decompose.Result {
	return decompose.Analyze(q)
}

// BindParameters substitutes named bind parameters in query with values.
func BindParameters(query nodes.Query, values map[string]any, opts ...inject.Option) (nodes.Query, error) {
	return inject.BindParameters(query, values, opts...)
}
