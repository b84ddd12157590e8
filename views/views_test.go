// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/bug-tracker/models"
)

func TestRender_AllPages(t *testing.T) {
	rd, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	user := &models.User{ID: 1, Name: "alice", Email: "a@example.com", DisplayName: "Alice"}
	page := models.Page{CSRFToken: "tok+en/=", User: user}
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	milestoneID := int64(3)
	bug := models.Bug{
		ID: 7, Title: "Crash on save", Body: "Steps...", Status: "open",
		CreateDate: created, UserID: 1, MilestoneID: &milestoneID, Tags: []string{"ui", "db"},
	}

	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{Index, models.IndexPage{Page: page, UserBugs: []models.Bug{bug}, TagBugs: []models.Bug{}},
			[]string{"Welcome, Alice", "/bugs/7", "ui db", "No bugs.", `action="/subscribetag"`}},
		{Index, models.IndexPage{Page: models.Page{CSRFToken: "tok"}},
			[]string{`action="/login"`, `name="username"`}},
		{RegisterUser, models.Page{CSRFToken: "tok"}, []string{`action="/createuser"`, `name="confirm"`}},
		{RegisterBug, page, []string{`action="/createbug"`, `name="bug_tags"`}},
		{UserPrefs, models.UserPrefsPage{Page: page, Subscriptions: []string{"ui"}},
			[]string{`action="/updateuser"`, `value="alice"`, "<li>ui</li>"}},
		{BugList, models.BugListPage{Page: page, SearchTerm: "Crash", Bugs: []models.BugRow{
			{ID: 7, Title: "Crash on save", Status: "open", CreateDate: created, Tags: "ui db"},
		}}, []string{"Crash on save", "2024-05-01 09:30", `value="Crash"`}},
		{About, page, []string{"About"}},
		{BugInfo, models.BugInfoPage{Page: page, Bug: models.BugDetail{Bug: bug, TagLine: "ui db"}},
			[]string{"#7 Crash on save", `href="/milestone/3"`, `<span class="tag">db</span>`}},
		{MilestoneList, models.MilestoneListPage{Page: page, Milestones: []models.Milestone{
			{ID: 3, Name: "v1", Description: "First", BugCount: 0},
		}}, []string{`href="/milestone/3"`, "<td>0</td>"}},
		{AddMilestone, page, []string{`action="/createmilestone"`}},
		{MilestoneInfo, models.MilestoneInfoPage{Page: page, Milestone: models.MilestoneDetail{
			ID: 3, Name: "v1", Description: "First", Bugs: []models.Bug{bug},
		}}, []string{"<h1>v1</h1>", "/bugs/7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rd.Render(w, httptest.NewRequest("GET", "/", nil), tt.name, tt.data)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Expected text/html, got %s", ct)
			}
			body := w.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("page %s missing %q", tt.name, want)
				}
			}
		})
	}
}

func TestRender_EscapesContent(t *testing.T) {
	rd, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	w := httptest.NewRecorder()
	rd.Render(w, httptest.NewRequest("GET", "/", nil), BugInfo, models.BugInfoPage{
		Page: models.Page{CSRFToken: "t", User: &models.User{DisplayName: "x"}},
		Bug:  models.BugDetail{Bug: models.Bug{ID: 1, Title: "<script>alert(1)</script>"}},
	})

	if strings.Contains(w.Body.String(), "<script>alert(1)</script>") {
		t.Error("bug title was not escaped")
	}
}

func TestRender_CSRFField(t *testing.T) {
	rd, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	w := httptest.NewRecorder()
	rd.Render(w, httptest.NewRequest("GET", "/", nil), AddMilestone, models.Page{CSRFToken: "ab+c/d=="})

	if !strings.Contains(w.Body.String(), `name="csrf_token" value="ab&#43;c/d=="`) {
		t.Errorf("csrf field not rendered as expected: %s", w.Body.String())
	}
}

func TestRender_JSON(t *testing.T) {
	rd, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	rd.Render(w, req, Index, models.IndexPage{
		Page:     models.Page{CSRFToken: "tok"},
		UserBugs: []models.Bug{},
		TagBugs:  []models.Bug{},
	})

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"csrf_token", "userBugs", "tagBugs"} {
		if _, ok := got[key]; !ok {
			t.Errorf("JSON view model missing key %q: %v", key, got)
		}
	}
}

func TestRender_UnknownPage(t *testing.T) {
	rd, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	w := httptest.NewRecorder()
	rd.Render(w, httptest.NewRequest("GET", "/", nil), "missing.html", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}
