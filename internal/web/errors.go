package web

// errors.go renders every handler error the same way: the technical error
// is logged with the request ID, and the client gets the core.MapError
// message and code as JSON for API and zip requests, or as an HTML page.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/sheet"
	"github.com/JonMunkholm/ledgerview/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the user-facing form of it.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if wantsJSON(r) {
		writeJSON(w, statusCode, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorPage(userMsg).Render(r.Context(), w)
}

// statusFor picks the HTTP status for an error returned by core or export.
func statusFor(err error) int {
	var fe *sheet.FetchError
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyExports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &fe):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	// A failed zip download is read by scripts more often than by people.
	return strings.HasSuffix(r.URL.Path, ".zip") && !strings.Contains(r.Header.Get("Accept"), "text/html")
}

// userMessage returns a pointer for templates, or nil for a nil error.
func userMessage(err error) *core.UserMessage {
	if err == nil {
		return nil
	}
	msg := core.MapError(err)
	return &msg
}
