// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p             PORT           Server port (default: 3318)
	-d             DATABASE_URL   Database URL (default for sqlite: file:bugtracker.db)
	-t             DATABASE_TYPE  sqlite or postgres (default: sqlite)
	-log-level     LOG_LEVEL      debug, info, warn, error (default: info)
	-log-format    LOG_FORMAT     text or json (default: text)
	-log-file      LOG_FILE       rotated log file, in addition to stdout
	-cookie-secure COOKIE_SECURE  Secure flag on the session cookie (default: false)
	-session-ttl   SESSION_TTL    session lifetime (default: 720h)
	-enforce-csrf  ENFORCE_CSRF   check csrf_token on authenticated POSTs (default: true)
	-bcrypt-cost   BCRYPT_COST    password hash cost (default: 10)
	-login-rps     LOGIN_RPS      login attempts per second per client (default: 1)
	-login-burst   LOGIN_BURST    login attempt burst per client (default: 10)
	-trust-proxy   TRUST_PROXY    client IP from X-Forwarded-For/X-Real-IP (default: false)
	-env-file                     .env file to load (default: .env)

CLI flags take precedence over environment variables, which take precedence
over values loaded from the .env file.

# Validation

ParseFlags returns an error if:

  - DATABASE_TYPE is neither sqlite nor postgres
  - DATABASE_URL is missing for postgres
  - a numeric, boolean or duration value does not parse
  - the bcrypt cost is outside 4-31
*/
package cliparse
