// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid CSRF token")
)

// csrfTokenBytes is the amount of randomness behind each CSRF token.
const csrfTokenBytes = 8

// HashPassword hashes a password with a fresh salt at the given bcrypt cost
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a password against a stored bcrypt hash
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// CheckDummyPassword burns the same time as CheckPassword against a hash of
// the given cost. Call it when the user does not exist so login failures take
// the same time either way. It always returns ErrInvalidPassword.
func CheckDummyPassword(password string, cost int) error {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	})
	bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return ErrInvalidPassword
}

// GenerateCSRFToken creates a random per-session token, standard base64 encoded
func GenerateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ValidateCSRFToken checks a submitted token against the session's token
func ValidateCSRFToken(expected, submitted string) error {
	if expected == "" || !hmac.Equal([]byte(expected), []byte(submitted)) {
		return ErrInvalidToken
	}
	return nil
}
