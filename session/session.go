// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/bug-tracker/auth"
	"github.com/danielhkuo/bug-tracker/cliparse"
	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/store"
)

// CookieName carries the session id
const CookieName = "bugtracker_session"

// AnonymousTTL caps the lifetime of sessions nobody has logged into yet.
const AnonymousTTL = time.Hour

// State is what Attach puts in the request context.
type State struct {
	Session *models.Session
	User    *models.User // nil when anonymous
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying st.
func NewContext(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext returns the session state attached to ctx, or nil.
func FromContext(ctx context.Context) *State {
	st, _ := ctx.Value(ctxKey{}).(*State)
	return st
}

// CurrentUser returns the logged-in user, or nil when anonymous.
func CurrentUser(ctx context.Context) *models.User {
	if st := FromContext(ctx); st != nil {
		return st.User
	}
	return nil
}

// CSRFToken returns the session's CSRF token, or "" outside a session.
func CSRFToken(ctx context.Context) string {
	if st := FromContext(ctx); st != nil && st.Session != nil {
		return st.Session.CSRFToken
	}
	return ""
}

type Manager struct {
	store   *store.Store
	ttl     time.Duration
	anonTTL time.Duration
	secure  bool
	now     func() time.Time
}

func NewManager(s *store.Store, cfg cliparse.Config) *Manager {
	return &Manager{
		store:   s,
		ttl:     cfg.SessionTTL,
		anonTTL: min(AnonymousTTL, cfg.SessionTTL),
		secure:  cfg.CookieSecure,
		now:     time.Now,
	}
}

// Attach loads the session named by the cookie, starting a new one when it is
// missing or expired, and resolves the logged-in user.
func (m *Manager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := m.load(r)
		if err != nil {
			slog.Error("failed to load session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load session")
			return
		}
		if st == nil {
			sess, err := m.create(r.Context(), nil, m.anonTTL)
			if err != nil {
				slog.Error("failed to create session", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
				return
			}
			m.setCookie(w, sess)
			st = &State{Session: sess}
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), st)))
	})
}

func (m *Manager) load(r *http.Request) (*State, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	sess, err := m.store.GetSession(r.Context(), cookie.Value, m.now())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st := &State{Session: sess}
	if sess.UserID == nil {
		return st, nil
	}

	user, err := m.store.GetUserByID(r.Context(), *sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	st.User = user
	return st, nil
}

func (m *Manager) create(ctx context.Context, userID *int64, ttl time.Duration) (*models.Session, error) {
	token, err := auth.GenerateCSRFToken()
	if err != nil {
		return nil, err
	}
	now := m.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CSRFToken: token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := m.store.CreateSession(ctx, *sess); err != nil {
		return nil, err
	}
	slog.Debug("session created", "expires_at", sess.ExpiresAt)
	return sess, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, sess *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login replaces the request's session with a new one belonging to userID,
// with a new id, CSRF token and the full TTL. The old session is deleted so
// an id handed out before login is worthless after it.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	st := FromContext(r.Context())
	if st == nil || st.Session == nil {
		return errors.New("no session attached to request")
	}

	sess, err := m.create(r.Context(), &userID, m.ttl)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := m.store.DeleteSession(r.Context(), st.Session.ID); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.setCookie(w, sess)
	st.Session = sess
	return nil
}

// Logout clears the user from the request's session. The session and its
// CSRF token stay.
func (m *Manager) Logout(r *http.Request) error {
	st := FromContext(r.Context())
	if st == nil || st.Session == nil {
		return nil
	}
	if err := m.store.SetSessionUser(r.Context(), st.Session.ID, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	st.Session.UserID = nil
	st.User = nil
	return nil
}

// ValidCSRF checks the csrf_token form field against the session token.
func ValidCSRF(r *http.Request) error {
	return auth.ValidateCSRFToken(CSRFToken(r.Context()), r.PostFormValue(models.FieldCSRFToken))
}

// RunJanitor deletes expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.store.DeleteExpiredSessions(ctx, m.now())
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("failed to delete expired sessions", "error", err)
				}
				continue
			}
			if n > 0 {
				slog.Info("expired sessions deleted", "count", n)
			}
		}
	}
}
