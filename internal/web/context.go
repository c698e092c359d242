package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/ledgerview/internal/invoice"
	mw "github.com/JonMunkholm/ledgerview/internal/web/middleware"
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// formatParam reads ?format=, falling back to the server default.
func (s *Server) formatParam(r *http.Request) (invoice.Format, error) {
	v := strings.TrimSpace(r.URL.Query().Get("format"))
	if v == "" {
		return s.defaultFormat, nil
	}
	return invoice.ParseFormat(v)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
