package core

const (
	DefaultPageSize = 6
	MaxPageSize     = 100

	maxInt = int(^uint(0) >> 1)
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page     int
	PageSize int
}

func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

// Validate rejects pages whose offset does not fit in an int.
func (p Pagination) Validate() error {
	if p.Page > maxInt/p.PageSize {
		return ErrInvalidPage
	}
	return nil
}

type PageInfo struct {
	Page        int  `json:"page"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPageInfo describes page `p` of `count` results.
// The first page always exists, even when empty; any other page past the end is ErrInvalidPage.
func NewPageInfo(p Pagination, count int) (PageInfo, error) {
	numPages := (count + p.PageSize - 1) / p.PageSize
	if numPages < 1 {
		numPages = 1
	}
	if p.Page > numPages {
		return PageInfo{}, ErrInvalidPage
	}
	return PageInfo{
		Page:        p.Page,
		NumPages:    numPages,
		Count:       count,
		HasNext:     p.Page < numPages,
		HasPrevious: p.Page > 1,
	}, nil
}
