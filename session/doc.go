// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps server-side sessions in the database and exposes the
current session and user to handlers through the request context.

# Middleware

Manager.Attach reads the bugtracker_session cookie. A missing, unknown or
expired session is replaced by a new one with a random UUID and a fresh CSRF
token. Handlers then read:

	user := session.CurrentUser(r.Context())   // nil when anonymous
	token := session.CSRFToken(r.Context())

# Login State

	err := mgr.Login(w, r, userID)
	err = mgr.Logout(r)

Sessions start anonymous and live at most AnonymousTTL. Login swaps the
session for a new one (new id, cookie and CSRF token, full SESSION_TTL) and
deletes the old row. Logout keeps the session so the CSRF token stays stable
for its lifetime.

# CSRF

ValidCSRF compares the posted csrf_token field to the session's token.

# Expiry

Sessions expire after SESSION_TTL. RunJanitor deletes expired rows
periodically; expired sessions are ignored by Attach regardless.
*/
package session
