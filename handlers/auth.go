// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bug-tracker/auth"
	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/store"
	"github.com/danielhkuo/bug-tracker/views"
)

const msgBadCredentials = "invalid username or password"

type AuthHandler struct {
	base
}

func NewAuthHandler(d Deps) *AuthHandler {
	return &AuthHandler{base: newBase(d)}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form models.LoginForm
	if !h.bind(w, r, &form) {
		return
	}

	user, err := h.store.GetUserByName(r.Context(), form.Username)
	if errors.Is(err, store.ErrNotFound) {
		// Same cost as a real comparison so unknown names are not revealed by timing
		auth.CheckDummyPassword(form.Password, h.cfg.BcryptCost)
		middleware.ErrorResponse(w, http.StatusBadRequest, msgBadCredentials)
		return
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, form.Password); err != nil {
		slog.Info("login failed", "user_id", user.ID, "ip", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusBadRequest, msgBadCredentials)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		slog.Error("failed to store session user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	middleware.SeeOther(w, r, "/")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r); err != nil {
		slog.Error("failed to log out", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	middleware.SeeOther(w, r, "/")
}

// CreateUser handles POST /createuser
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var form models.UserForm
	if !h.bind(w, r, &form) {
		return
	}

	taken, err := h.store.UserNameTaken(r.Context(), form.Username, 0)
	if err != nil {
		slog.Error("failed to check user name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusBadRequest, "User already exists with the user name: "+form.Username)
		return
	}

	hash, err := auth.HashPassword(form.Password, h.cfg.BcryptCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	userID, err := h.store.CreateUser(r.Context(), models.User{
		Name:         form.Username,
		Email:        form.Email,
		DisplayName:  form.DisplayName,
		PasswordHash: hash,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent registration
		middleware.ErrorResponse(w, http.StatusBadRequest, "User already exists with the user name: "+form.Username)
		return
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := h.sessions.Login(w, r, userID); err != nil {
		slog.Error("failed to store session user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "user_id", userID)
	middleware.SeeOther(w, r, "/")
}

// UpdateUser handles POST /updateuser
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	if !h.checkCSRF(w, r) {
		return
	}

	var form models.UserForm
	if !h.bind(w, r, &form) {
		return
	}

	taken, err := h.store.UserNameTaken(r.Context(), form.Username, user.ID)
	if err != nil {
		slog.Error("failed to check user name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusBadRequest, "User already exists with the user name: "+form.Username)
		return
	}

	hash, err := auth.HashPassword(form.Password, h.cfg.BcryptCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	err = h.store.UpdateUser(r.Context(), models.User{
		ID:           user.ID,
		Name:         form.Username,
		Email:        form.Email,
		DisplayName:  form.DisplayName,
		PasswordHash: hash,
	})
	if err != nil {
		slog.Error("failed to update user", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	slog.Info("user updated", "user_id", user.ID)
	middleware.SeeOther(w, r, "/")
}

// RegisterUserPage handles GET /registeruser
func (h *AuthHandler) RegisterUserPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, views.RegisterUser, h.page(r))
}

// UserPrefsPage handles GET /userprefs
func (h *AuthHandler) UserPrefsPage(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	subs, err := h.store.Subscriptions(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load subscriptions", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	h.views.Render(w, r, views.UserPrefs, models.UserPrefsPage{
		Page:          h.page(r),
		Subscriptions: subs,
	})
}
