// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package auth provides the HTTP delivery layer for session management.

It implements the gateway for the authentication lifecycle: login, session
renewal, logout, and password changes.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Both session tokens travel in HttpOnly cookies, never in bodies.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/sachly/internal/platform/apperr"
	"github.com/phamduc/sachly/internal/platform/constants"
	"github.com/phamduc/sachly/internal/platform/middleware"
	"github.com/phamduc/sachly/internal/platform/request"
	"github.com/phamduc/sachly/internal/platform/respond"
	"github.com/phamduc/sachly/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements session-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session entry and exit points (Login, Refresh,
// Logout, Password change). Account creation lives in the account package.
type Handler struct {
	authService *Service

	// secureCookies toggles the Secure attribute on session cookies.
	// Disabled in development so plain-HTTP localhost flows keep working.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// RegisterRoutes mounts the session endpoints onto the given router.
//
// # Endpoints
//   - POST   /login           : Authenticates and sets both session cookies.
//   - POST   /refresh         : Renews the access token cookie.
//   - DELETE /logout          : Clears both session cookies.
//   - PUT    /change-password : Replaces the caller's password.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Delete("/logout", handler.logout)
		r.Put("/change-password", handler.changePassword)
	})
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// # Endpoint Implementations

/*
login authenticates a user and establishes a cookie session.

POST /login

Description: Validates credentials, then sets the access and refresh token
cookies and returns the public profile.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: Profile: The authenticated user's public profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: INVALID_CREDENTIALS: Unknown username or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, req *http.Request) {
	var input loginRequest

	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, tokens, err := handler.authService.Login(req.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	handler.setSessionCookies(writer, tokens)
	respond.OK(writer, user.ToProfile())
}

/*
refresh renews the access token using the refresh token cookie.

POST /refresh

Description: Reads the refresh cookie, verifies it, and replaces only the
access token cookie. The refresh cookie is left untouched so the overall
session window never silently extends.

Response:
  - 200: {message}: Confirmation payload
  - 401: INVALID_SESSION: Missing, expired, or malformed refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, req *http.Request) {
	cookie, err := req.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, req, apperr.InvalidSession("Refresh token is missing"))
		return
	}

	accessToken, err := handler.authService.Refresh(req.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	handler.setCookie(writer, constants.AccessTokenCookieName, accessToken, int(AccessTokenTTL.Seconds()))
	respond.OK(writer, map[string]string{"message": "Token refreshed"})
}

/*
logout terminates the cookie session.

DELETE /logout

Description: Expires both session cookies. Signed tokens already issued remain
cryptographically valid until their natural expiry; there is no server-side
revocation list.

Response:
  - 200: {message}: Confirmation payload
  - 401: UNAUTHORIZED: No active session
*/
func (handler *Handler) logout(writer http.ResponseWriter, req *http.Request) {
	handler.clearSessionCookies(writer)
	respond.OK(writer, map[string]string{"message": "Logged out"})
}

/*
changePassword replaces the authenticated user's password.

PUT /change-password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: {message}: Confirmation payload
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: INVALID_CREDENTIALS: Current password does not match
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input changePasswordRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.authService.ChangePassword(req.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Password changed"})
}

// # Cookie Management

// setSessionCookies writes both session cookies after a successful login.
func (handler *Handler) setSessionCookies(writer http.ResponseWriter, tokens *TokenPair) {
	handler.setCookie(writer, constants.AccessTokenCookieName, tokens.AccessToken, int(AccessTokenTTL.Seconds()))
	handler.setCookie(writer, constants.RefreshTokenCookieName, tokens.RefreshToken, int(RefreshTokenTTL.Seconds()))
}

// clearSessionCookies expires both session cookies immediately.
func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	handler.setCookie(writer, constants.AccessTokenCookieName, "", -1)
	handler.setCookie(writer, constants.RefreshTokenCookieName, "", -1)
}

// setCookie writes a single HttpOnly session cookie.
func (handler *Handler) setCookie(writer http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
