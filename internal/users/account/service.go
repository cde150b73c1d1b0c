// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phamduc/sachly/internal/platform/apperr"
	"github.com/phamduc/sachly/internal/platform/constants"
	"github.com/phamduc/sachly/internal/platform/sec"
	"github.com/phamduc/sachly/internal/users/auth"
	"github.com/phamduc/sachly/pkg/pagination"
	"github.com/phamduc/sachly/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that registration, profile updates, and avatar persistence
// follow established business constraints.
type Service struct {
	accountRepository AccountRepository
	fileStore         FileStore
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, fileStore FileStore, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		fileStore:         fileStore,
		logger:            logger,
	}
}

// # Registration

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. New accounts always receive
the standard "user" role; administrators are provisioned via migrations.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *auth.User: Created entity
  - error: Conflict (if the username is taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*auth.User, error) {

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_register_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Role:         sec.RoleUser,
	}

	// The unique index on username is the single source of truth for
	// duplicates. A racing INSERT surfaces as Conflict, not a 500.
	if err := service.accountRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("Username is already taken")
		}
		return nil, fmt.Errorf("account_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))

	return user, nil
}

// # Profile Management

/*
GetProfile retrieves the account of a user by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user account
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	Email    *string
	FullName *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user account
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Administration

/*
List returns a page of public profiles matching the filter.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - params: pagination.Params

Returns:
  - []auth.Profile: The page of public projections
  - pagination.Meta: Pagination metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter ListFilter, params pagination.Params) ([]auth.Profile, pagination.Meta, error) {
	users, total, err := service.accountRepository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	profiles := make([]auth.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.ToProfile())
	}

	return profiles, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Delete removes a user account.

Description: Deleting is idempotent. Removing an account that does not exist
is reported as already-removed rather than an error, so retried DELETE calls
behave identically to the first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - bool: true if the account existed and was removed on this call
  - error: Storage failures
*/
func (service *Service) Delete(context context.Context, userID string) (bool, error) {
	removed, err := service.accountRepository.Delete(context, userID)
	if err != nil {
		return false, fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if removed {
		service.logger.Info("user_deleted", slog.String("user_id", userID))
	}

	return removed, nil
}

// # Avatar Upload

/*
UpdateAvatar stores a new avatar image and links it to the account.

Description: The file is written to the static directory FIRST; only after a
successful write is the account record updated. A failed write therefore
never leaves a dangling avatar URL.

Parameters:
  - context: context.Context
  - userID: string
  - filename: string (Original client file name)
  - content: io.Reader (Uploaded bytes)

Returns:
  - string: The public avatar URL
  - error: apperr.StorageIO on write failures, or storage errors
*/
func (service *Service) UpdateAvatar(context context.Context, userID, filename string, content io.Reader) (string, error) {

	// The account must exist before any bytes hit the disk.
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return "", fmt.Errorf("account_service_avatar_lookup_failed: %w", err)
	}

	avatarURL, err := service.fileStore.Save(constants.AvatarDir, filename, content)
	if err != nil {
		return "", apperr.StorageIO(err)
	}

	if err := service.accountRepository.UpdateAvatar(context, user.ID, avatarURL); err != nil {
		return "", fmt.Errorf("account_service_avatar_update_failed: %w", err)
	}

	service.logger.Info("user_avatar_updated",
		slog.String("user_id", user.ID),
		slog.String("avatar_url", avatarURL),
	)

	return avatarURL, nil
}
