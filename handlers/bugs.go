// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/session"
	"github.com/danielhkuo/bug-tracker/store"
	"github.com/danielhkuo/bug-tracker/views"
)

type BugHandler struct {
	base
}

func NewBugHandler(d Deps) *BugHandler {
	return &BugHandler{base: newBase(d)}
}

// Index handles GET /
// Anonymous visitors get empty lists and the login form.
func (h *BugHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := models.IndexPage{
		Page:     h.page(r),
		UserBugs: []models.Bug{},
		TagBugs:  []models.Bug{},
	}

	if user := session.CurrentUser(r.Context()); user != nil {
		var err error
		data.UserBugs, err = h.store.ListUserBugs(r.Context(), user.ID)
		if err != nil {
			slog.Error("failed to load user bugs", "user_id", user.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load bugs")
			return
		}
		data.TagBugs, err = h.store.ListSubscribedTagBugs(r.Context(), user.ID)
		if err != nil {
			slog.Error("failed to load subscribed bugs", "user_id", user.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load bugs")
			return
		}
	}

	h.views.Render(w, r, views.Index, data)
}

// CreateBug handles POST /createbug
func (h *BugHandler) CreateBug(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	if !h.checkCSRF(w, r) {
		return
	}

	var form models.BugForm
	if !h.bind(w, r, &form) {
		return
	}

	bugID, err := h.store.CreateBug(r.Context(), models.Bug{
		Title:      form.Title,
		Body:       form.Body,
		Status:     form.Status,
		CreateDate: time.Now(),
		UserID:     user.ID,
		Tags:       models.SplitTags(form.Tags),
	})
	if err != nil {
		slog.Error("failed to create bug", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create bug")
		return
	}

	slog.Info("bug created", "bug_id", bugID, "user_id", user.ID)
	middleware.SeeOther(w, r, fmt.Sprintf("/bugs/%d", bugID))
}

// BugInfo handles GET /bugs/{bugid}
func (h *BugHandler) BugInfo(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}

	bugID, ok := pathID(r, "bugid")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Bug not found")
		return
	}

	bug, err := h.store.GetBug(r.Context(), bugID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Bug not found")
		return
	}
	if err != nil {
		slog.Error("failed to load bug", "bug_id", bugID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load bug")
		return
	}

	h.views.Render(w, r, views.BugInfo, models.BugInfoPage{
		Page: h.page(r),
		Bug:  models.BugDetail{Bug: *bug, TagLine: bug.TagString()},
	})
}

// BugList handles GET /buglist
func (h *BugHandler) BugList(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}

	bugs, err := h.store.ListBugs(r.Context())
	if err != nil {
		slog.Error("failed to list bugs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load bugs")
		return
	}

	h.views.Render(w, r, views.BugList, models.BugListPage{
		Page: h.page(r),
		Bugs: bugRows(bugs),
	})
}

// Search handles GET /searchbug?searchterm=
func (h *BugHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}

	term := r.URL.Query().Get(models.FieldSearch)
	bugs, err := h.store.SearchBugs(r.Context(), term)
	if err != nil {
		slog.Error("failed to search bugs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to search bugs")
		return
	}

	h.views.Render(w, r, views.BugList, models.BugListPage{
		Page:       h.page(r),
		SearchTerm: term,
		Bugs:       bugRows(bugs),
	})
}

// RegisterBugPage handles GET /registerbug
func (h *BugHandler) RegisterBugPage(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}
	h.views.Render(w, r, views.RegisterBug, h.page(r))
}

func bugRows(bugs []models.Bug) []models.BugRow {
	rows := make([]models.BugRow, 0, len(bugs))
	for _, b := range bugs {
		rows = append(rows, models.BugRow{
			ID:         b.ID,
			Title:      b.Title,
			Status:     b.Status,
			CreateDate: b.CreateDate,
			Tags:       b.TagString(),
		})
	}
	return rows
}
