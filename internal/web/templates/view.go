// Package templates holds the templ components of the dashboard. Edit the
// .templ sources and run `templ generate`; the *_templ.go files are generated.
package templates

import (
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/store"
)

// stampLayout formats fetch and export times on the pages.
const stampLayout = "02/01/2006 15:04"

// DashboardData is the public search page.
type DashboardData struct {
	Searched bool // a search was submitted
	View     core.SearchView
	Message  *core.UserMessage
}

// showResults reports whether the result area is drawn. A failed search
// still shows results when they come from an earlier snapshot.
func (d DashboardData) showResults() bool {
	return d.Searched && (d.Message == nil || d.View.Stale)
}

// AdminData is the admin table page.
type AdminData struct {
	User      string
	Query     string
	Header    core.Header
	Records   []core.Record
	Stale     bool
	FetchedAt time.Time
	Message   *core.UserMessage
	Formats   []string
	Runs      []store.RunSummary // nil when export history is disabled
}

// LoginData is the admin login form.
type LoginData struct {
	Username string
	Message  *core.UserMessage
}

// link builds path?query with the non-empty params.
func link(path string, params ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(params); i += 2 {
		if params[i+1] != "" {
			q.Set(params[i], params[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func pageLink(v core.SearchView, page int) string {
	return link("/", "q", v.State.Query, "page", strconv.Itoa(page))
}

func invoiceLink(row int, format string) string {
	return link("/admin/invoice/"+strconv.Itoa(row), "format", format)
}
