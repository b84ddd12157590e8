// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package validation binds form posts to structs and validates them with
// go-playground/validator. The msg struct tag of the first failing field
// becomes the *Error message handlers send back as a 400.
package validation
