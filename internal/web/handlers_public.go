package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/logging"
	"github.com/JonMunkholm/ledgerview/internal/web/templates"
)

// handleDashboard renders the public search page. Without a q parameter
// only the form is shown; a blank q is rejected before any fetch.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	data := templates.DashboardData{}
	status := http.StatusOK

	if query.Has("q") {
		state := core.ViewState{}.WithQuery(query.Get("q")).WithPage(parseIntParam(r, "page", 1))
		view, err := s.Service.Search(ctx, state)
		data.Searched = true
		data.View = view
		if err != nil {
			logging.FromContext(ctx).Warn("search failed", "query", state.Query, "stale", view.Stale, "error", err)
			data.Message = userMessage(err)
			if !view.Stale {
				status = statusFor(err)
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Dashboard(data).Render(ctx, w)
}

// recordsResponse is the JSON form of one search result page.
type recordsResponse struct {
	Query      string            `json:"query"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	TotalRows  int               `json:"totalRows"`
	Header     []string          `json:"header"`
	Rows       []recordRow       `json:"rows"`
	Stale      bool              `json:"stale,omitempty"`
	FetchedAt  time.Time         `json:"fetchedAt"`
	Warning    *core.UserMessage `json:"warning,omitempty"`
}

type recordRow struct {
	SlNo           int         `json:"slNo"`
	Fields         core.Record `json:"fields"`
	SeparatorAfter bool        `json:"separatorAfter,omitempty"`
}

// handleRecordsAPI serves the public search as JSON.
func (s *Server) handleRecordsAPI(w http.ResponseWriter, r *http.Request) {
	state := core.ViewState{}.WithQuery(r.URL.Query().Get("q")).WithPage(parseIntParam(r, "page", 1))

	view, err := s.Service.Search(r.Context(), state)
	if err != nil && !view.Stale {
		respondError(w, r, err, statusFor(err))
		return
	}

	resp := recordsResponse{
		Query:      view.State.Query,
		Page:       view.State.Page,
		PageSize:   view.Page.Size,
		TotalPages: view.Page.TotalPages,
		TotalRows:  view.Page.TotalRows,
		Header:     view.Header,
		Rows:       make([]recordRow, len(view.Page.Rows)),
		Stale:      view.Stale,
		FetchedAt:  view.FetchedAt,
		Warning:    userMessage(err),
	}
	if resp.Header == nil {
		resp.Header = []string{}
	}
	for i, rec := range view.Page.Rows {
		resp.Rows[i] = recordRow{SlNo: rec.Row, Fields: rec, SeparatorAfter: view.Page.SeparatorAfter(i)}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness and export capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"exports": s.Service.ExportLimiter().Status(),
		"history": s.History != nil,
	})
}
