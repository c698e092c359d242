package core

import "time"

// ViewState is the complete input of the public search view. It is a value:
// transitions return a new state rather than mutating the old one.
type ViewState struct {
	Query string
	Page  int
}

// WithQuery starts a new search on page 1.
func (v ViewState) WithQuery(query string) ViewState {
	return ViewState{Query: query, Page: 1}
}

// WithPage moves to another page of the same search.
func (v ViewState) WithPage(page int) ViewState {
	return ViewState{Query: v.Query, Page: page}
}

// SearchView is everything needed to render one public search result page.
type SearchView struct {
	State     ViewState
	Header    Header
	Page      Page
	FetchedAt time.Time
	Stale     bool // data comes from an earlier fetch because the latest failed
}

// BuildView derives the search view for state from a dataset. The requested
// page is clamped into range.
func BuildView(ds Dataset, state ViewState, pageSize int) SearchView {
	results := Expand(ds.Records, state.Query)
	page := ClampPage(state.Page, TotalPages(len(results), pageSize))
	state.Page = page

	return SearchView{
		State:  state,
		Header: ds.Header,
		Page:   Paginate(results, pageSize, page),
	}
}
