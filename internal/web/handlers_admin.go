package web

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/logging"
	"github.com/JonMunkholm/ledgerview/internal/store"
	mw "github.com/JonMunkholm/ledgerview/internal/web/middleware"
	"github.com/JonMunkholm/ledgerview/internal/web/templates"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mw.SessionCookie); err == nil {
		if _, ok := s.Sessions.Lookup(c.Value); ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
	}
	templates.Login(templates.LoginData{}).Render(r.Context(), w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, fmt.Errorf("parse login form: %w", err), http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")

	sess, err := s.Sessions.Login(username, r.PostForm.Get("password"))
	if err != nil {
		logging.FromContext(r.Context()).Warn("admin login failed", "username", username, "ip", r.RemoteAddr)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		templates.Login(templates.LoginData{Username: username, Message: userMessage(err)}).Render(r.Context(), w)
		return
	}

	logging.FromContext(r.Context()).Info("admin signed in", "username", sess.User)
	setSessionCookie(w, r, sess.Token, int(s.Sessions.TTL().Seconds()))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mw.SessionCookie); err == nil {
		s.Sessions.Logout(c.Value)
	}
	setSessionCookie(w, r, "", -1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAdmin renders the admin table filtered by ?q=.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	snap, records, err := s.Service.AdminRecords(ctx, query)
	data := templates.AdminData{
		User:      core.UserFromContext(ctx),
		Query:     query,
		Header:    snap.Header,
		Records:   records,
		Stale:     snap.Stale,
		FetchedAt: snap.FetchedAt,
		Message:   userMessage(err),
		Formats:   s.formats(),
	}

	if s.History != nil {
		runs, herr := s.History.Recent(ctx, store.DefaultRecentLimit)
		if herr != nil {
			logging.FromContext(ctx).Warn("failed to load export history", "error", herr)
		} else {
			data.Runs = runs
		}
	}

	status := http.StatusOK
	if err != nil && !snap.Stale {
		status = statusFor(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Admin(data).Render(ctx, w)
}

// handleInvoice renders the invoice for one ledger row.
func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rowParam := chi.URLParam(r, "row")
	row, err := strconv.Atoi(rowParam)
	if err != nil || row < 1 {
		respondError(w, r, fmt.Errorf("invalid row %q", rowParam), http.StatusBadRequest)
		return
	}

	format, err := s.formatParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	renderer, ok := s.Renderers[format]
	if !ok {
		respondError(w, r, fmt.Errorf("unknown invoice format %q", format), http.StatusBadRequest)
		return
	}

	rec, err := s.Service.AdminRecord(ctx, row)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	out, err := renderer.Render(ctx, rec, time.Now())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(ctx).Info("invoice rendered", "row", row, "file", out.Filename, "bytes", len(out.Data))
	writeAttachment(w, out.ContentType, out.Filename, out.Data)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
