// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/bug-tracker/testutil"
)

func TestSubscribe_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTagHandler(env.deps)
	userID := testutil.CreateTestUser(t, env.conn, "alice")
	testutil.CreateTestBug(t, env.conn, env.cfg, userID, "Crash", time.Time{}, "ui")

	for range 2 {
		req, _ := env.request(http.MethodPost, "/subscribetag", withCSRF(url.Values{"tag_name": {"ui"}}), userID)
		w := serve(handler.Subscribe, req)
		assertRedirect(t, w, "/")
	}

	n := testutil.CountRows(t, env.conn, `SELECT COUNT(*) FROM user_tag_subscription WHERE user_id = $1`, userID)
	if n != 1 {
		t.Errorf("Expected 1 subscription row, got %d", n)
	}
}

func TestSubscribe_UnknownTag(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTagHandler(env.deps)
	userID := testutil.CreateTestUser(t, env.conn, "alice")

	req, _ := env.request(http.MethodPost, "/subscribetag", withCSRF(url.Values{"tag_name": {"nope"}}), userID)
	w := serve(handler.Subscribe, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	testutil.AssertBody(t, w.Body.String(), "Tag not found")
	if n := testutil.CountRows(t, env.conn, `SELECT COUNT(*) FROM tags`); n != 0 {
		t.Errorf("Subscribing must not create tags, got %d", n)
	}
}

func TestSubscribe_MissingTag(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTagHandler(env.deps)
	userID := testutil.CreateTestUser(t, env.conn, "alice")

	req, _ := env.request(http.MethodPost, "/subscribetag", withCSRF(url.Values{}), userID)
	w := serve(handler.Subscribe, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertBody(t, w.Body.String(), "No tag provided")
}

func TestSubscribe_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTagHandler(env.deps)

	req, _ := env.request(http.MethodPost, "/subscribetag", withCSRF(url.Values{"tag_name": {"ui"}}), 0)
	w := serve(handler.Subscribe, req)

	assertRedirect(t, w, "/")
}
