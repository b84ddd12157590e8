// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the bug tracker.

# Route Registration

NewRouter wires the store, templates, session manager and metrics into a
single http.Handler:

	handler, err := router.NewRouter(db, cfg)

# Endpoints

Operations (no session):

	GET /health  - Database ping, 200 "OK" or 503
	GET /metrics - Prometheus metrics

Accounts:

	POST /login        - Log in (rate limited per client IP)
	POST /createuser   - Register and log in (rate limited per client IP)
	GET  /logout       - Log out
	GET  /registeruser - Registration form
	GET  /userprefs    - Profile form and subscriptions
	POST /updateuser   - Update profile
	POST /subscribetag - Follow a tag

Bugs:

	GET  /                - Home: own bugs and bugs in followed tags
	GET  /registerbug     - New bug form
	POST /createbug       - Create a bug
	GET  /bugs/{bugid}    - Bug detail
	GET  /buglist         - All bugs, newest first
	GET  /searchbug       - Bugs whose title contains ?searchterm=

Milestones:

	GET  /milestonelist            - Milestones with bug counts
	GET  /addmilestone             - New milestone form
	POST /createmilestone          - Create a milestone
	GET  /milestone/{milestoneid}  - Milestone with its bugs

About:

	GET /about

# Middleware

Every route gets chi's RequestID and Recoverer, plus RealIP when the config
trusts a reverse proxy. Application routes
also run inside session.Manager.Attach and are wrapped with
middleware.WithLogging and Metrics.Instrument, labelled by mux pattern.
*/
package router
