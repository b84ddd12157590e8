// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/bug-tracker/cliparse"
	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/session"
	"github.com/danielhkuo/bug-tracker/store"
	"github.com/danielhkuo/bug-tracker/validation"
	"github.com/danielhkuo/bug-tracker/views"
)

// Deps are the collaborators every handler needs
type Deps struct {
	Store    *store.Store
	Sessions *session.Manager
	Views    *views.Renderer
	Config   cliparse.Config
}

// base carries Deps plus the helpers shared by all handlers
type base struct {
	store    *store.Store
	sessions *session.Manager
	views    *views.Renderer
	validate *validation.Validator
	cfg      cliparse.Config
}

func newBase(d Deps) base {
	return base{
		store:    d.Store,
		sessions: d.Sessions,
		views:    d.Views,
		validate: validation.New(),
		cfg:      d.Config,
	}
}

// page returns the fields every view model carries
func (b *base) page(r *http.Request) models.Page {
	return models.Page{
		CSRFToken: session.CSRFToken(r.Context()),
		User:      session.CurrentUser(r.Context()),
	}
}

// requireUser returns the logged-in user. Otherwise it logs the session out,
// redirects to / and returns nil.
func (b *base) requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	if user := session.CurrentUser(r.Context()); user != nil {
		return user
	}
	if err := b.sessions.Logout(r); err != nil {
		slog.Error("failed to clear session user", "error", err)
	}
	middleware.SeeOther(w, r, "/")
	return nil
}

// checkCSRF rejects a state-changing post whose csrf_token does not match
// the session. Disabled by -enforce-csrf=false.
func (b *base) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	if !b.cfg.EnforceCSRF {
		return true
	}
	if err := session.ValidCSRF(r); err != nil {
		slog.Warn("csrf token rejected", "path", r.URL.Path, "ip", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusForbidden, "invalid CSRF token")
		return false
	}
	return true
}

// bind decodes and validates a form, answering 400 with the field's message
// when it is invalid.
func (b *base) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := b.validate.Bind(r, dst)
	if err == nil {
		return true
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Message)
		return false
	}
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form")
	return false
}

// pathID parses a numeric path parameter. Malformed ids are reported as not found.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
