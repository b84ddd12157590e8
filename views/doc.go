// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders page view models with html/template.

Templates are embedded from templates/. Each page defines "title" and
"content" and is parsed together with layout.html, which holds the navigation
and the shared "buglinks" table.

	rd, err := views.New()
	rd.Render(w, r, views.BugList, models.BugListPage{...})

Requests sending Accept: application/json get the view model as JSON
instead, keyed by the models' json tags.
*/
package views
