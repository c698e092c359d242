package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/ledgerview/internal/auth"
	"github.com/JonMunkholm/ledgerview/internal/core"
)

// SessionCookie is the name of the admin session cookie.
const SessionCookie = "ledgerview_session"

// RequireAdmin rejects requests without a live admin session. Browsers are
// redirected to loginPath; API and zip requests get a 401.
// The session user is added to the request context.
func RequireAdmin(sessions *auth.Sessions, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(SessionCookie); err == nil {
				token = c.Value
			}

			sess, ok := sessions.Lookup(token)
			if !ok {
				slog.Debug("auth: no admin session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				if wantsHTML(r) {
					http.Redirect(w, r, loginPath, http.StatusSeeOther)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"login required","code":"AUTH001"}`))
				return
			}

			ctx := core.ContextWithUser(r.Context(), sess.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
