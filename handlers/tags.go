// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/store"
)

type TagHandler struct {
	base
}

func NewTagHandler(d Deps) *TagHandler {
	return &TagHandler{base: newBase(d)}
}

// Subscribe handles POST /subscribetag
// Only existing tags can be followed; tags come into being when a bug uses them.
func (h *TagHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	if !h.checkCSRF(w, r) {
		return
	}

	var form models.SubscribeForm
	if !h.bind(w, r, &form) {
		return
	}

	tagID, err := h.store.TagID(r.Context(), form.Tag)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Tag not found")
		return
	}
	if err != nil {
		slog.Error("failed to look up tag", "tag", form.Tag, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	if err := h.store.Subscribe(r.Context(), user.ID, tagID); err != nil {
		slog.Error("failed to subscribe", "user_id", user.ID, "tag_id", tagID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	slog.Info("tag subscribed", "user_id", user.ID, "tag_id", tagID)
	middleware.SeeOther(w, r, "/")
}
