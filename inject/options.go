package inject

// options configures Filter/Sort/Paginate/BindParameters.
type options struct {
	allowAllUndefined    bool
	skipColumnValidation bool
	caseInsensitive      bool
	columnResolver       ColumnResolver
	requireAllParameters bool
}

// ColumnResolver answers which columns a named table exposes, the schema
// introspection hook spec.md leaves as an external dependency. When nil,
// column-ownership resolution falls back to "the outermost candidate
// SELECT" and column-existence validation is skipped regardless of
// SkipColumnValidation, since there is no catalog to validate against.
type ColumnResolver func(table string) ([]string, error)

// Option configures a call to Filter, Sort, Paginate, or BindParameters.
type Option func(*options)

// AllowAllUndefined permits an empty state map to pass through Filter
// unchanged instead of returning AllParametersUndefinedError.
func AllowAllUndefined(v bool) Option {
	return func(o *options) { o.allowAllUndefined = v }
}

// SkipColumnValidation disables (true, the default) or enables (false)
// ColumnNotFoundError when a descriptor names a column no source exposes.
// Has no effect unless WithColumnResolver is also supplied.
func SkipColumnValidation(v bool) Option {
	return func(o *options) { o.skipColumnValidation = v }
}

// CaseInsensitiveMatch enables case- and underscore-insensitive matching
// between descriptor column names and schema column names.
func CaseInsensitiveMatch(v bool) Option {
	return func(o *options) { o.caseInsensitive = v }
}

// WithColumnResolver supplies the schema introspection hook used to locate
// the upstream query owning a column and, when column validation is
// enabled, to check a descriptor's column actually exists.
func WithColumnResolver(r ColumnResolver) Option {
	return func(o *options) { o.columnResolver = r }
}

// RequireAllParameters makes BindParameters return MissingParameterError
// for any named placeholder left unbound after binding.
func RequireAllParameters(v bool) Option {
	return func(o *options) { o.requireAllParameters = v }
}

func newOptions(opts []Option) *options {
	cfg := &options{skipColumnValidation: true}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}
