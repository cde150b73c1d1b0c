// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package cart provides the HTTP delivery layer for the shopping cart.

# Security

Every endpoint operates on the AUTHENTICATED user's cart; the user ID always
comes from the session claims, never from the URL or payload.
*/
package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/sachly/internal/platform/middleware"
	"github.com/phamduc/sachly/internal/platform/request"
	"github.com/phamduc/sachly/internal/platform/respond"
	"github.com/phamduc/sachly/internal/platform/validate"
)

// Handler implements the HTTP layer for cart management.
type Handler struct {
	cartService *Service
}

// NewHandler constructs a new cart [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{cartService: service}
}

// Routes returns a [chi.Router] configured with the cart domain's endpoints.
//
// # Endpoints
//   - GET    /         : Returns the caller's cart.
//   - POST   /         : Adds or replaces a cart line.
//   - DELETE /{bookId} : Removes one book from the cart.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.items)
	router.Post("/", handler.setLine)
	router.Delete("/{bookId}", handler.removeLine)

	return router
}

// # Request Payloads

type setLineRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// # Endpoint Implementations

/*
items returns the caller's cart with book details.

GET /user/cart

Response:
  - 200: []CartItem: Cart contents in insertion order
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) items(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	items, err := handler.cartService.Items(req.Context(), userID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, items)
}

/*
setLine adds a book to the cart or replaces its quantity.

POST /user/cart

Request:
  - Body: setLineRequest (BookID, Quantity)

Response:
  - 200: {message}: Confirmation payload
  - 400: VALIDATION_ERROR: Missing book_id or non-positive quantity
  - 404: NOT_FOUND: The referenced book does not exist
*/
func (handler *Handler) setLine(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input setLineRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldBookID, input.BookID).
		UUID(FieldBookID, input.BookID).
		Positive(FieldQuantity, input.Quantity)

	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.cartService.SetLine(req.Context(), userID, SetLineInput{
		BookID:   input.BookID,
		Quantity: input.Quantity,
	}); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Cart updated"})
}

/*
removeLine deletes one book from the cart.

DELETE /user/cart/{bookId}

Description: Idempotent; re-issuing the call after success yields removed=false.

Response:
  - 200: {removed}: Whether a line was removed on this call
*/
func (handler *Handler) removeLine(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	bookID := request.ID(req, "bookId")

	validator := &validate.Validator{}
	validator.UUID(FieldBookID, bookID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	removed, err := handler.cartService.RemoveLine(req.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]bool{"removed": removed})
}
