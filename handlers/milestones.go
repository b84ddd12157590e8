// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/store"
	"github.com/danielhkuo/bug-tracker/views"
)

type MilestoneHandler struct {
	base
}

func NewMilestoneHandler(d Deps) *MilestoneHandler {
	return &MilestoneHandler{base: newBase(d)}
}

// List handles GET /milestonelist
func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}

	milestones, err := h.store.ListMilestones(r.Context())
	if err != nil {
		slog.Error("failed to list milestones", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load milestones")
		return
	}

	h.views.Render(w, r, views.MilestoneList, models.MilestoneListPage{
		Page:       h.page(r),
		Milestones: milestones,
	})
}

// AddPage handles GET /addmilestone
func (h *MilestoneHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}
	h.views.Render(w, r, views.AddMilestone, h.page(r))
}

// Create handles POST /createmilestone
func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	if !h.checkCSRF(w, r) {
		return
	}

	var form models.MilestoneForm
	if !h.bind(w, r, &form) {
		return
	}

	id, err := h.store.CreateMilestone(r.Context(), form.Name, form.Description)
	if err != nil {
		slog.Error("failed to create milestone", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create milestone")
		return
	}

	slog.Info("milestone created", "milestone_id", id, "user_id", user.ID)
	middleware.SeeOther(w, r, fmt.Sprintf("/milestone/%d", id))
}

// Detail handles GET /milestone/{milestoneid}
func (h *MilestoneHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}

	id, ok := pathID(r, "milestoneid")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Milestone not found")
		return
	}

	m, err := h.store.GetMilestone(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Milestone not found")
		return
	}
	if err != nil {
		slog.Error("failed to load milestone", "milestone_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load milestone")
		return
	}

	bugs, err := h.store.MilestoneBugs(r.Context(), id)
	if err != nil {
		slog.Error("failed to load milestone bugs", "milestone_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load milestone")
		return
	}

	h.views.Render(w, r, views.MilestoneInfo, models.MilestoneInfoPage{
		Page: h.page(r),
		Milestone: models.MilestoneDetail{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Bugs:        bugs,
		},
	})
}
