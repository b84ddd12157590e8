// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the bug tracker.

# Handler Types

Each handler embeds a shared base built from Deps (store, session manager,
template renderer, config):

  - AuthHandler: login, logout, registration, profile update
  - BugHandler: home page, bug creation, detail, list and search
  - MilestoneHandler: milestone list, creation and detail
  - TagHandler: tag subscriptions
  - PageHandler: about page and health check

Handlers are created via constructor functions that accept Deps:

	bugHandler := handlers.NewBugHandler(deps)

# Sessions

Every request arrives with a session attached by session.Manager.Attach.
Pages other than /, /about and /registeruser need a logged-in user; without
one the session is logged out and the client is sent to / with a 303.

# Forms

Forms are bound and validated with the validation package. The first
missing field is answered with 400 and a fixed message, for example:

	POST /createbug   (no bug_title) → 400 "No bug title provided"
	POST /createuser  (confirm differs) → 400 "Password and confirmation do not match."

Authenticated POSTs must echo the session's csrf_token field or get 403.
Successful POSTs answer 303:

	POST /login, /createuser, /updateuser, /subscribetag → /
	POST /createbug       → /bugs/{bugid}
	POST /createmilestone → /milestone/{milestoneid}

# Views

Pages render through views.Renderer. Sending Accept: application/json
returns the page's view model (models.IndexPage, models.BugListPage, ...)
instead of HTML.
*/
package handlers
