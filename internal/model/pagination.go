package model

// Pagination describes where a page of rows sits inside the full filtered
// result set.  From/To are 1-based inclusive row indexes; both are 0 when
// the page is out of range or there are no results at all.  PrevPage and
// NextPage are null on the first/last page respectively.
type Pagination struct {
	Total       int  `json:"total"`
	LastPage    int  `json:"lastPage"`
	PerPage     int  `json:"perPage"`
	CurrentPage int  `json:"currentPage"`
	PrevPage    *int `json:"prevPage"`
	NextPage    *int `json:"nextPage"`
	From        int  `json:"from"`
	To          int  `json:"to"`
}

// Paginate computes page metadata for a result set of total rows, viewed at
// the given 1-based page with perPage rows per page, of which returned rows
// were actually fetched.  The count query and the data query share one
// filter predicate, so total is authoritative even when the requested page
// is past the end; an out-of-range page keeps the true total/lastPage and
// zeroes the bounds.
func Paginate(total, page, perPage, returned int) Pagination {
	p := Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
	}
	if total > 0 {
		p.LastPage = (total + perPage - 1) / perPage
	}
	if total == 0 || page > p.LastPage || returned == 0 {
		return p
	}
	p.From = (page-1)*perPage + 1
	p.To = p.From + returned - 1
	if page > 1 {
		prev := page - 1
		p.PrevPage = &prev
	}
	if page < p.LastPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}
