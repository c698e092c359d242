package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/store"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func ledger(n int) core.Dataset {
	header := core.Header{"Consumer Name", "Invoice"}
	ds := core.Dataset{Header: header}
	for i := 1; i <= n; i++ {
		ds.Records = append(ds.Records, core.NewRecord(i, header, []string{"<b>Ann & Co</b>", "INV"}))
	}
	return ds
}

func TestDashboard_EscapesAndSeparates(t *testing.T) {
	view := core.BuildView(ledger(6), core.ViewState{}.WithQuery("showall"), core.DefaultPageSize)
	body := render(t, Dashboard(DashboardData{Searched: true, View: view}))

	if strings.Contains(body, "<b>Ann") {
		t.Error("cell value rendered unescaped")
	}
	if !strings.Contains(body, "&lt;b&gt;Ann &amp; Co&lt;/b&gt;") {
		t.Error("escaped cell value missing")
	}
	// six rows, one separator between the two blocks and none after the last
	if got := strings.Count(body, `class="separator"`); got != 1 {
		t.Errorf("separator rows = %d, want 1", got)
	}
	if !strings.Contains(body, `colspan="3"`) {
		t.Error("separator does not span the Sl. No column plus the header")
	}
	if strings.Contains(body, `class="pager"`) {
		t.Error("pager rendered for a single page")
	}
}

func TestDashboard_FormOnly(t *testing.T) {
	body := render(t, Dashboard(DashboardData{}))

	if !strings.Contains(body, `name="q"`) {
		t.Error("search form missing")
	}
	if strings.Contains(body, `class="ledger"`) || strings.Contains(body, "No matching records") {
		t.Error("results rendered before a search")
	}
}

func TestDashboard_Pager(t *testing.T) {
	view := core.BuildView(ledger(core.DefaultPageSize+1), core.ViewState{Query: "showall", Page: 2}, core.DefaultPageSize)
	body := render(t, Dashboard(DashboardData{Searched: true, View: view}))

	if !strings.Contains(body, `href="/?page=1&amp;q=showall"`) {
		t.Errorf("previous link missing:\n%s", body)
	}
	if strings.Contains(body, ">Next<") {
		t.Error("next link rendered on the last page")
	}
	if !strings.Contains(body, "Page 2 of 2") {
		t.Error("page position missing")
	}
}

func TestAdmin_LinksAndRuns(t *testing.T) {
	ds := ledger(1)
	data := AdminData{
		User:    "admin",
		Query:   "a&b",
		Header:  ds.Header,
		Records: ds.Records,
		Formats: []string{"png", "pdf"},
		Runs: []store.RunSummary{{
			Format:    "png",
			User:      "admin",
			Succeeded: 3,
			Failed:    1,
			StartedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
			Duration:  1500 * time.Millisecond,
		}},
	}
	body := render(t, Admin(data))

	for _, want := range []string{
		`href="/admin/invoices.zip?format=pdf&amp;q=a%26b"`,
		`href="/admin/invoice/1?format=png"`,
		"15/10/2026 09:30",
		"1.5s",
		"Log out",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAdmin_HistoryDisabled(t *testing.T) {
	body := render(t, Admin(AdminData{}))
	if strings.Contains(body, "Recent exports") {
		t.Error("history section rendered without a history store")
	}

	body = render(t, Admin(AdminData{Runs: []store.RunSummary{}}))
	if !strings.Contains(body, "No exports yet.") {
		t.Error("empty history notice missing")
	}
}

func TestErrorPage(t *testing.T) {
	msg := core.MapError(core.ErrEmptyQuery)
	body := render(t, ErrorPage(msg))

	if !strings.Contains(body, "Please enter a value to search") || !strings.Contains(body, "VAL001") {
		t.Errorf("error page missing message or code:\n%s", body)
	}
}

func TestLogin_KeepsUsername(t *testing.T) {
	body := render(t, Login(LoginData{Username: `x"y`}))
	if !strings.Contains(body, `value="x&#34;y"`) {
		t.Errorf("username not kept escaped:\n%s", body)
	}
}
