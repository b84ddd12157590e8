// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and CSRF token utilities.

# Passwords

Passwords are hashed with bcrypt using a fresh salt and a configurable cost:

	hash, err := auth.HashPassword(password, cfg.BcryptCost)
	err = auth.CheckPassword(hash, password)

When a login names a user that does not exist, CheckDummyPassword runs a
comparison against a throwaway hash so the response time does not reveal
whether the account exists.

# CSRF Tokens

Each session carries one CSRF token, 8 random bytes in standard base64:

	token, err := auth.GenerateCSRFToken()
	err = auth.ValidateCSRFToken(session.CSRFToken, r.PostFormValue("csrf_token"))

The token is generated once per session and reused for its lifetime.
Comparison is constant time.
*/
package auth
