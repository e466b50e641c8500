package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		count   int
		want    PageInfo
		wantErr error
	}{
		{name: "empty first page", page: 1, count: 0, want: PageInfo{Page: 1, NumPages: 1}},
		{name: "empty second page", page: 2, count: 0, wantErr: ErrInvalidPage},
		{name: "exact fit", page: 1, count: 6, want: PageInfo{Page: 1, NumPages: 1, Count: 6}},
		{name: "has next", page: 1, count: 7, want: PageInfo{Page: 1, NumPages: 2, Count: 7, HasNext: true}},
		{name: "last page", page: 2, count: 7, want: PageInfo{Page: 2, NumPages: 2, Count: 7, HasPrevious: true}},
		{name: "out of range", page: 3, count: 7, wantErr: ErrInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPageInfo(NewPagination(tt.page, 6), tt.count)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: DefaultPageSize}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, PageSize: MaxPageSize}, NewPagination(3, 1000))
	assert.Equal(t, 12, NewPagination(3, 6).Offset())
}

func TestPagination_Validate(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantErr  error
	}{
		{name: "first page", page: 1, pageSize: 6},
		{name: "last page before overflow", page: maxInt / 6, pageSize: 6},
		{name: "offset overflows", page: maxInt/6 + 1, pageSize: 6, wantErr: ErrInvalidPage},
		{name: "huge page", page: 3074457345618258603, pageSize: 6, wantErr: ErrInvalidPage},
		{name: "huge page at max size", page: maxInt, pageSize: MaxPageSize, wantErr: ErrInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantErr, p.Validate())
			if tt.wantErr == nil {
				assert.GreaterOrEqual(t, p.Offset(), 0)
			}
		})
	}
}
