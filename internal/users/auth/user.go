// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for authentication,
session issuance, and password lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/phamduc/sachly/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Sachly bookstore.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string       `json:"full_name"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Profile is the public projection of a [User] returned by the API.
//
// It deliberately exposes only the four presentation fields, keeping
// identifiers and timestamps out of client payloads.
type Profile struct {
	Role      sec.UserRole `json:"role"`
	Username  string       `json:"username"`
	FullName  string       `json:"full_name"`
	AvatarURL string       `json:"avatar_url,omitempty"`
}

// ToProfile converts a full [User] entity into its public [Profile] projection.
func (user *User) ToProfile() Profile {
	return Profile{
		Role:      user.Role,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "full_name"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)
