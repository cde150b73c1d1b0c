// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package auth implements the core identity and access management (IAM) system.

It handles secure password verification and the session lifecycle via
RSA-signed JWT access and refresh tokens delivered in cookies.

Architecture:

  - Service: Orchestrates business logic (Login, Refresh, ChangePassword).
  - Repository: Abstracted interface for Postgres user lookups.
  - Security: Leverages Bcrypt hashing and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phamduc/sachly/internal/platform/apperr"
	"github.com/phamduc/sachly/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and checking session tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT access token for the given user.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the given user.
	GenerateRefreshToken(userID, username, role string, timeToLive time.Duration) (string, error)

	// VerifyRefreshToken validates a refresh token and returns its claims.
	VerifyRefreshToken(tokenStr string) (*sec.AuthClaims, error)
}

// TokenPair bundles the two session tokens issued on a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing or login
// logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		logger:         logger,
	}
}

// # Login Flow

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Username string
	Password string
}

/*
Login authenticates a user by username and password and issues a session.

Description: Verifies credentials, silently upgrades weak password hashes,
and issues a fresh access/refresh token pair.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *User: The authenticated account
  - *TokenPair: Signed access and refresh tokens
  - error: apperr.InvalidCredentials or storage errors

# Enumeration Safety

An unknown username and a wrong password return the exact same error so
the endpoint cannot be used to probe which accounts exist.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, *TokenPair, error) {

	// Resolve the account. Not-found collapses into InvalidCredentials.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil, apperr.InvalidCredentials()
		}
		return nil, nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// Constant-time bcrypt comparison.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, nil, apperr.InvalidCredentials()
	}

	// Transparent hash upgrade: re-persist with the current cost on success.
	// A failure here must not block the login.
	if sec.NeedsRehash(user.PasswordHash) {
		if upgraded, hashErr := sec.HashPassword(input.Password); hashErr == nil {
			if updateErr := service.userRepository.UpdatePassword(context, user.ID, upgraded); updateErr != nil {
				service.logger.Warn("password_hash_upgrade_failed",
					slog.String("user_id", user.ID),
					slog.Any("error", updateErr),
				)
			} else {
				service.logger.Info("password_hash_upgraded", slog.String("user_id", user.ID))
			}
		}
	}

	tokens, err := service.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	return user, tokens, nil
}

// issueTokens signs a fresh access/refresh token pair for the user.
func (service *Service) issueTokens(user *User) (*TokenPair, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateRefreshToken(
		user.ID, user.Username, string(user.Role), RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// # Session Renewal

/*
Refresh exchanges a valid refresh token for a new access token.

Description: Verifies the refresh token signature, kind, and expiry, then
re-resolves the account so a renewed token always carries the CURRENT role.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: A freshly signed access token
  - error: apperr.InvalidSession or storage errors
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (string, error) {
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.InvalidSession("Invalid or expired refresh token")
	}

	// Re-read the account: a deleted user must not be able to renew, and a
	// role change takes effect on the next refresh.
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.InvalidSession("Session account no longer exists")
		}
		return "", fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_sign_failed: %w", err)
	}

	return accessToken, nil
}

// # Password Lifecycle

/*
ChangePassword replaces the password for the authenticated user.

Description: Re-verifies the current password before persisting a new hash.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: apperr.InvalidCredentials, not found, or storage errors
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_lookup_failed: %w", err)
	}

	// The current password must match before any change is accepted.
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.InvalidCredentials()
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, newHash); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	service.logger.Info("user_password_changed", slog.String("user_id", user.ID))

	return nil
}
