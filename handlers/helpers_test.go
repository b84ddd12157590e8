// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/bug-tracker/cliparse"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/session"
	"github.com/danielhkuo/bug-tracker/store"
	"github.com/danielhkuo/bug-tracker/testutil"
	"github.com/danielhkuo/bug-tracker/views"
)

const testCSRF = "c2Vzc2lvbjE="

type testEnv struct {
	t     *testing.T
	conn  *sql.DB
	cfg   cliparse.Config
	store *store.Store
	deps  Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, conn, cfg := testutil.SetupTestStore(t)
	rd, err := views.New()
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	return &testEnv{
		t:     t,
		conn:  conn,
		cfg:   cfg,
		store: s,
		deps: Deps{
			Store:    s,
			Sessions: session.NewManager(s, cfg),
			Views:    rd,
			Config:   cfg,
		},
	}
}

// request builds a request carrying a stored session whose CSRF token is
// testCSRF, logged in as userID unless it is 0.
func (e *testEnv) request(method, target string, form url.Values, userID int64) (*http.Request, *session.State) {
	e.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	now := time.Now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		CSRFToken: testCSRF,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if userID != 0 {
		sess.UserID = &userID
	}
	if err := e.store.CreateSession(context.Background(), *sess); err != nil {
		e.t.Fatalf("Failed to create session: %v", err)
	}

	st := &session.State{Session: sess}
	if userID != 0 {
		user, err := e.store.GetUserByID(context.Background(), userID)
		if err != nil {
			e.t.Fatalf("Failed to load user %d: %v", userID, err)
		}
		st.User = user
	}

	return req.WithContext(session.NewContext(req.Context(), st)), st
}

// serve runs h and returns the recorded response
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// serveJSON runs h asking for the view model as JSON and decodes it into dst
func serveJSON(t *testing.T, h http.HandlerFunc, req *http.Request, dst any) {
	t.Helper()
	req.Header.Set("Accept", "application/json")
	w := serve(h, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("Failed to decode response: %v. Body: %s", err, w.Body.String())
	}
}

// withCSRF adds the session token to a form
func withCSRF(form url.Values) url.Values {
	form.Set(models.FieldCSRFToken, testCSRF)
	return form
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	testutil.AssertStatus(t, w, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}
