// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/validation"
)

func TestValidator_UserForm(t *testing.T) {
	v := validation.New()

	valid := models.UserForm{
		Username: "alice", Email: "a@example.com", DisplayName: "Alice",
		Password: "pw", Confirm: "pw",
	}

	tests := []struct {
		name    string
		mutate  func(f *models.UserForm)
		wantMsg string
	}{
		{"valid", func(f *models.UserForm) {}, ""},
		{"missing username", func(f *models.UserForm) { f.Username = "" }, "No user name provided"},
		{"missing email", func(f *models.UserForm) { f.Email = "" }, "No email provided"},
		{"missing display name", func(f *models.UserForm) { f.DisplayName = "" }, "No display name provided"},
		{"missing password", func(f *models.UserForm) { f.Password = ""; f.Confirm = "" }, "No password provided"},
		{"confirm mismatch", func(f *models.UserForm) { f.Confirm = "other" }, "Password and confirmation do not match."},
		{"first missing field wins", func(f *models.UserForm) { f.Email = ""; f.Username = "" }, "No user name provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := v.Validate(f)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestValidator_FieldName(t *testing.T) {
	v := validation.New()

	err := v.Validate(models.MilestoneForm{Name: "v1"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "milestone_description", verr.Field)
	assert.Equal(t, "No milestone description provided", verr.Error())
}

func TestValidator_Bind(t *testing.T) {
	v := validation.New()

	form := url.Values{
		"bug_title":  {"Crash"},
		"bug_status": {"open"},
		"bug_body":   {"It crashes"},
		"bug_tags":   {"ui db"},
		"ignored":    {"x"},
	}
	req := httptest.NewRequest(http.MethodPost, "/createbug", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var bug models.BugForm
	require.NoError(t, v.Bind(req, &bug))
	assert.Equal(t, models.BugForm{Title: "Crash", Status: "open", Body: "It crashes", Tags: "ui db"}, bug)
}

func TestValidator_BindMissingField(t *testing.T) {
	v := validation.New()

	req := httptest.NewRequest(http.MethodPost, "/subscribetag", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var sub models.SubscribeForm
	err := v.Bind(req, &sub)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No tag provided", verr.Message)
}

func TestValidator_BindRejectsNonPointer(t *testing.T) {
	v := validation.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)

	err := v.Bind(req, models.LoginForm{})
	require.Error(t, err)
	var verr *validation.Error
	assert.False(t, errors.As(err, &verr))
}
