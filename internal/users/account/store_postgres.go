// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package account (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - store.useraccount: Master identity and profile data.

# Error Mapping

Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
domain-friendly [apperr.AppError] types via [dberr.Wrap] to avoid leaking
storage implementation details.
*/
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phamduc/sachly/internal/platform/dberr"
	"github.com/phamduc/sachly/internal/platform/postgres"
	"github.com/phamduc/sachly/internal/users/auth"
)

// # Repository Implementation

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool postgres.PgxPool
}

// NewAccountRepository creates a new Postgres implementation for account management.
func NewAccountRepository(pool postgres.PgxPool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new user record into the store.useraccount table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. Username collisions surface as [dberr.ErrDuplicate].

Parameters:
  - context: context.Context
  - user: *auth.User (Entity to persist)

Returns:
  - error: Conflict, constraint violations, or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO store.useraccount (
			id, username, email, passwordhash, fullname, avatarurl, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.AvatarURL,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "account_create")
	}

	return nil
}

/*
FindByID retrieves a user record by primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT id, username, email, passwordhash, fullname, avatarurl, role, createdat, updatedat
		FROM store.useraccount
		WHERE id = $1`

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "account_find_by_id")
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	const query = `
		SELECT id, username, email, passwordhash, fullname, avatarurl, role, createdat, updatedat
		FROM store.useraccount
		WHERE username = $1`

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "account_find_by_username")
	}

	return user, nil
}

/*
List returns a page of accounts matching the filter plus the total match count.

Description: Filters by partial name (username OR full name, case-insensitive)
and exact role. Results are ordered by creation time so UUIDv7 primary keys
keep the listing stable across pages.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - limit: int
  - offset: int

Returns:
  - []*auth.User: The requested page
  - int: Total matching rows
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter, limit, offset int) ([]*auth.User, int, error) {

	// Build the shared WHERE clause for both the page and the count query.
	conditions := []string{"TRUE"}
	arguments := []any{}

	if filter.Name != "" {
		arguments = append(arguments, "%"+filter.Name+"%")
		position := len(arguments)
		conditions = append(conditions,
			fmt.Sprintf("(username ILIKE $%d OR fullname ILIKE $%d)", position, position))
	}

	if filter.Role != "" {
		arguments = append(arguments, filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(arguments)))
	}

	whereClause := strings.Join(conditions, " AND ")

	// 1. Total count for pagination metadata
	countQuery := "SELECT COUNT(*) FROM store.useraccount WHERE " + whereClause

	var total int
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "account_list_count")
	}

	// 2. The requested page
	pageQuery := fmt.Sprintf(`
		SELECT id, username, email, passwordhash, fullname, avatarurl, role, createdat, updatedat
		FROM store.useraccount
		WHERE %s
		ORDER BY createdat, id
		LIMIT $%d OFFSET $%d`,
		whereClause, len(arguments)+1, len(arguments)+2)

	arguments = append(arguments, limit, offset)

	rows, err := repository.pool.Query(context, pageQuery, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "account_list_page")
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.FullName,
			&user.AvatarURL,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "account_list_scan")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "account_list_rows")
	}

	return users, total, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE store.useraccount
		SET email = $2, fullname = $3, avatarurl = $4, updatedat = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "account_update")
	}

	return nil
}

/*
UpdateAvatar replaces only the avatar URL for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - avatarURL: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UpdateAvatar(context context.Context, userID, avatarURL string) error {
	const query = `
		UPDATE store.useraccount
		SET avatarurl = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, avatarURL, time.Now())
	if err != nil {
		return dberr.Wrap(err, "account_update_avatar")
	}

	return nil
}

/*
Delete removes an account row.

Description: Cart lines and ratings owned by the account are removed by the
ON DELETE CASCADE constraints, so no orphaned references survive.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - bool: true if a row was removed, false when the account was already gone
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) (bool, error) {
	const query = "DELETE FROM store.useraccount WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "account_delete")
	}

	return tag.RowsAffected() > 0, nil
}
