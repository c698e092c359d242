package core

import "testing"

func TestViewState_Transitions(t *testing.T) {
	s := ViewState{Query: "alice", Page: 3}

	next := s.WithQuery("bob")
	if next.Query != "bob" || next.Page != 1 {
		t.Errorf("WithQuery() = %+v, want {bob 1}", next)
	}
	if s.Query != "alice" || s.Page != 3 {
		t.Errorf("WithQuery() mutated the receiver: %+v", s)
	}

	paged := s.WithPage(2)
	if paged.Query != "alice" || paged.Page != 2 {
		t.Errorf("WithPage() = %+v, want {alice 2}", paged)
	}
}

func TestBuildView_ScenarioA(t *testing.T) {
	ds := scenarioA(t)
	view := BuildView(ds, ViewState{Query: "alice", Page: 1}, DefaultPageSize)

	if view.Page.TotalRows != 3 || view.Page.TotalPages != 1 {
		t.Errorf("TotalRows = %d, TotalPages = %d, want 3, 1", view.Page.TotalRows, view.Page.TotalPages)
	}
	if len(view.Header) != 3 {
		t.Errorf("Header = %v, want 3 columns", view.Header)
	}
}

func TestBuildView_ClampsPage(t *testing.T) {
	ds := Dataset{Header: Header{"Invoice"}, Records: numbered(200)}

	view := BuildView(ds, ViewState{Query: ShowAll, Page: 9}, DefaultPageSize)
	if view.State.Page != 3 {
		t.Errorf("State.Page = %d, want 3", view.State.Page)
	}
	if len(view.Page.Rows) != 62 {
		t.Errorf("len(Rows) = %d, want 62", len(view.Page.Rows))
	}

	none := BuildView(ds, ViewState{Query: "no such value", Page: 4}, DefaultPageSize)
	if none.State.Page != 1 || len(none.Page.Rows) != 0 {
		t.Errorf("no results: page %d with %d rows, want page 1 with 0 rows", none.State.Page, len(none.Page.Rows))
	}
}

// Identity: showall with page size >= count returns the records unchanged.
func TestBuildView_ShowAllIdentity(t *testing.T) {
	ds := Dataset{Header: Header{"Invoice"}, Records: numbered(50)}
	view := BuildView(ds, ViewState{Query: ShowAll, Page: 1}, 50)

	if len(view.Page.Rows) != 50 {
		t.Fatalf("len(Rows) = %d, want 50", len(view.Page.Rows))
	}
	for i, rec := range view.Page.Rows {
		if rec.Row != ds.Records[i].Row {
			t.Errorf("row %d = %d, want %d", i, rec.Row, ds.Records[i].Row)
		}
	}
}
