// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package account provides the HTTP delivery layer for account management.

It implements the RESTful interface for registration, profile access, avatar
uploads, and administrative user listing.

# Security

Everything except registration requires an active authentication session
provided by the RequireAuth middleware; editing or deleting another user's
account additionally requires the admin role.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/sachly/internal/platform/middleware"
	"github.com/phamduc/sachly/internal/platform/request"
	"github.com/phamduc/sachly/internal/platform/respond"
	"github.com/phamduc/sachly/internal/platform/sec"
	"github.com/phamduc/sachly/internal/platform/validate"
	"github.com/phamduc/sachly/internal/users/auth"
	"github.com/phamduc/sachly/pkg/pagination"
)

// maxAvatarUploadBytes bounds the in-memory portion of multipart parsing.
const maxAvatarUploadBytes = 8 << 20 // 8 MiB

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes mounts the account domain's endpoints onto the given router.
//
// # Endpoints
//   - POST   /register : Creates a new account (public).
//   - GET    /me       : Returns the caller's profile.
//   - PUT    /me       : Partially updates the caller's profile.
//   - POST   /avatar   : Uploads a new avatar image.
//   - GET    /         : Lists accounts (filterable, paginated).
//   - PUT    /{id}     : Updates another user's profile (admin only).
//   - DELETE /{id}     : Removes an account (admin only).
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// Public endpoint
	router.Post("/register", handler.register)

	// Authenticated endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", handler.list)
		r.Get("/me", handler.getMe)
		r.Put("/me", handler.updateMe)
		r.Post("/avatar", handler.uploadAvatar)
	})

	// Administrative endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Put("/{id}", handler.updateUser)
		r.Delete("/{id}", handler.deleteUser)
	})
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// updateProfileRequest defines the expected JSON payload for profile updates.
// Absent fields are left unchanged.
type updateProfileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// validate checks the provided fields only, since absent ones keep their
// current values.
func (payload *updateProfileRequest) validate() error {
	validator := &validate.Validator{}
	if payload.Email != nil {
		validator.Required(auth.FieldEmail, *payload.Email).
			Email(auth.FieldEmail, *payload.Email)
	}
	if payload.FullName != nil {
		validator.Required(auth.FieldFullName, *payload.FullName)
	}
	return validator.Err()
}

// # Registration

/*
register handles the creation of a new user account.

POST /user/register

Description: Validates input, persists a new user profile, and returns its
public projection.

Request:
  - Body: registerRequest (Username, Password, FullName)

Response:
  - 201: Profile: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: CONFLICT: Username already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, req *http.Request) {
	var input registerRequest

	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		MinLen(auth.FieldUsername, input.Username, auth.MinUsernameLength).
		MaxLen(auth.FieldUsername, input.Username, auth.MaxUsernameLength).
		Username(auth.FieldUsername, input.Username).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, auth.MinPasswordLength).
		Required(auth.FieldFullName, input.FullName)

	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.accountService.Register(req.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, user.ToProfile())
}

// # Profile Endpoints

/*
getMe returns the profile of the authenticated user.

GET /user/me

Response:
  - 200: Profile: The caller's public profile
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.accountService.GetProfile(req.Context(), userID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user.ToProfile())
}

/*
updateMe applies a partial profile update for the authenticated user.

PUT /user/me

Request:
  - Body: updateProfileRequest (Email, FullName)

Response:
  - 200: Profile: The updated public profile
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updateProfileRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(req.Context(), userID, UpdateProfileInput{
		Email:    input.Email,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user.ToProfile())
}

// # Administration Endpoints

/*
list returns a filtered, paginated page of public profiles.

GET /user?name=&role=&skip=&limit=

Response:
  - 200: []Profile + pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	params := pagination.FromRequest(req)

	filter := ListFilter{
		Name: req.URL.Query().Get("name"),
		Role: req.URL.Query().Get("role"),
	}

	if filter.Role != "" && !sec.UserRole(filter.Role).IsValid() {
		respond.Error(writer, req, validate.RequiredError("role", "Unknown role"))
		return
	}

	profiles, meta, err := handler.accountService.List(req.Context(), filter, params)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, profiles, meta)
}

/*
updateUser applies a partial profile update to any account (admin only).

PUT /user/{id}

Description: Same delta semantics as the self-service endpoint. A missing
target account fails with 404 rather than creating one.

Response:
  - 200: Profile: The updated public profile
  - 403: FORBIDDEN: Caller is not an admin
  - 404: NOT_FOUND: No such account
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, req *http.Request) {
	id := request.ID(req, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updateProfileRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(req.Context(), id, UpdateProfileInput{
		Email:    input.Email,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user.ToProfile())
}

/*
deleteUser removes an account (admin only).

DELETE /user/{id}

Description: Deletion is idempotent; repeating the call after success yields
the same response shape with removed=false.

Response:
  - 200: {removed}: Whether an account was removed on this call
  - 403: FORBIDDEN: Caller is not an admin
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, req *http.Request) {
	id := request.ID(req, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	removed, err := handler.accountService.Delete(req.Context(), id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]bool{"removed": removed})
}

// # Avatar Upload

/*
uploadAvatar stores a new avatar image for the authenticated user.

POST /user/avatar (multipart/form-data, field "file")

Response:
  - 200: {avatar_url}: The public URL of the stored image
  - 400: VALIDATION_ERROR: Missing file field
  - 500: STORAGE_IO: The file could not be written
*/
func (handler *Handler) uploadAvatar(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := req.ParseMultipartForm(maxAvatarUploadBytes); err != nil {
		respond.Error(writer, req, validate.RequiredError("file", "Multipart form data is required"))
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respond.Error(writer, req, validate.RequiredError("file", "An image file is required"))
		return
	}
	defer file.Close()

	avatarURL, err := handler.accountService.UpdateAvatar(req.Context(), userID, header.Filename, file)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]string{"avatar_url": avatarURL})
}
