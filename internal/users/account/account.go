// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package account handles the user account lifecycle: registration, profile
management, avatar uploads, and administrative user listing.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Storage: PostgreSQL repository over the store.useraccount table.
  - Assets: Avatar images are written to the static directory before the
    owning record is updated, so a failed write never leaves a broken URL.
*/
package account

import (
	"context"
	"io"

	"github.com/phamduc/sachly/internal/users/auth"
)

// # Listing Support

// ListFilter narrows the administrative user listing.
//
// Name matches against both username and full name, case-insensitively.
// Role filters by exact role when non-empty.
type ListFilter struct {
	Name string
	Role string
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: dberr.ErrDuplicate on username collision, or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves a user record by their unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		List returns a page of accounts matching the filter, plus the total count.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: The page of matching accounts
		  - int: Total number of matching accounts (ignoring pagination)
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter, limit, offset int) ([]*auth.User, int, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdateAvatar replaces only the avatar URL of an account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - avatarURL: string

		Returns:
		  - error: Storage failures
	*/
	UpdateAvatar(context context.Context, userID, avatarURL string) error

	/*
		Delete removes an account and, via cascading constraints, its cart
		lines and ratings.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - bool: true if a row was removed, false if the account was already gone
		  - error: Storage failures
	*/
	Delete(context context.Context, id string) (bool, error)
}

// # Asset Storage Contract

// FileStore persists uploaded files and returns their public URL.
type FileStore interface {
	Save(subDir, filename string, content io.Reader) (string, error)
}
