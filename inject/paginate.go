package inject

import "github.com/bawdo/gosbee/nodes"

// Paginate sets LIMIT :page_size OFFSET :offset on a simple SELECT, deriving
// offset from (page-1)*pageSize and omitting OFFSET entirely when it would
// be zero. It rejects a query that already carries a LIMIT or OFFSET.
func Paginate(query nodes.Query, page, pageSize int, opts ...Option) (nodes.Query, error) {
	core, ok := query.(*nodes.SelectCore)
	if !ok {
		return nil, &SortUnsupportedQueryError{}
	}
	if core.Limit != nil || core.Offset != nil {
		return nil, &PaginationConflictError{}
	}

	core.Limit = nodes.NewNamedBindParam("page_size", pageSize)
	if offset := (page - 1) * pageSize; offset != 0 {
		core.Offset = nodes.NewNamedBindParam("offset", offset)
	}
	return core, nil
}
