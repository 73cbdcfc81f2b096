package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name     string
		total    int
		page     int
		returned int
		want     Pagination
	}{
		{
			name: "first of two pages", total: 150, page: 1, returned: 100,
			want: Pagination{Total: 150, LastPage: 2, PerPage: 100, CurrentPage: 1,
				PrevPage: nil, NextPage: intPtr(2), From: 1, To: 100},
		},
		{
			name: "last short page", total: 150, page: 2, returned: 50,
			want: Pagination{Total: 150, LastPage: 2, PerPage: 100, CurrentPage: 2,
				PrevPage: intPtr(1), NextPage: nil, From: 101, To: 150},
		},
		{
			name: "single exact page", total: 100, page: 1, returned: 100,
			want: Pagination{Total: 100, LastPage: 1, PerPage: 100, CurrentPage: 1,
				From: 1, To: 100},
		},
		{
			name: "no results", total: 0, page: 1, returned: 0,
			want: Pagination{Total: 0, LastPage: 0, PerPage: 100, CurrentPage: 1},
		},
		{
			name: "page past the end", total: 150, page: 7, returned: 0,
			want: Pagination{Total: 150, LastPage: 2, PerPage: 100, CurrentPage: 7},
		},
		{
			name: "middle page", total: 250, page: 2, returned: 100,
			want: Pagination{Total: 250, LastPage: 3, PerPage: 100, CurrentPage: 2,
				PrevPage: intPtr(1), NextPage: intPtr(3), From: 101, To: 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.total, tt.page, 100, tt.returned))
		})
	}
}

// Walking every page of a result set must visit each row exactly once and
// the in-range bound arithmetic must hold page by page.
func TestPaginateWalksWholeResultSet(t *testing.T) {
	const perPage = 100
	for _, total := range []int{0, 1, 99, 100, 101, 250, 1000} {
		lastPage := 0
		if total > 0 {
			lastPage = (total + perPage - 1) / perPage
		}
		seen := 0
		for page := 1; page <= lastPage; page++ {
			returned := perPage
			if rem := total - (page-1)*perPage; rem < perPage {
				returned = rem
			}
			p := Paginate(total, page, perPage, returned)
			require.Equal(t, total, p.Total)
			require.Equal(t, lastPage, p.LastPage)
			require.Equal(t, returned, p.To-p.From+1, "total=%d page=%d", total, page)
			if rem := total - p.From + 1; rem < perPage {
				require.Equal(t, rem, p.To-p.From+1)
			} else {
				require.Equal(t, perPage, p.To-p.From+1)
			}
			seen += p.To - p.From + 1
		}
		require.Equal(t, total, seen, "total=%d", total)

		// One past the end: zeroed bounds, truthful totals.
		p := Paginate(total, lastPage+1, perPage, 0)
		require.Zero(t, p.From)
		require.Zero(t, p.To)
		require.Nil(t, p.PrevPage)
		require.Nil(t, p.NextPage)
		require.Equal(t, total, p.Total)
	}
}
