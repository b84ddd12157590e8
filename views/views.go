// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page templates, by the name handlers render
const (
	Index         = "index.html"
	RegisterUser  = "registeruser.html"
	RegisterBug   = "registerbug.html"
	UserPrefs     = "userprefs.html"
	BugList       = "buglist.html"
	About         = "about.html"
	BugInfo       = "bugInfo.html"
	MilestoneList = "milestonelist.html"
	AddMilestone  = "addmilestone.html"
	MilestoneInfo = "milestoneInfo.html"
)

var funcs = template.FuncMap{
	"date": formatDate,
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02 15:04")
	case *time.Time:
		if t != nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return ""
}

// Renderer holds one parsed template set per page, each combined with the layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page template.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimPrefix(file, "templates/")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page as HTML, or the view model as JSON when the
// client asks for application/json. Rendering happens into a buffer so a
// template error still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode view model", "page", name, "error", err)
		}
		return
	}

	tmpl, ok := rd.pages[name]
	if !ok {
		slog.Error("unknown template", "page", name)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "page", name, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "page", name, "error", err)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Accept"), "application/json")
}
