// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phamduc/sachly/internal/platform/middleware"
	"github.com/phamduc/sachly/internal/platform/request"
	"github.com/phamduc/sachly/internal/platform/respond"
	"github.com/phamduc/sachly/internal/platform/sec"
	"github.com/phamduc/sachly/internal/platform/validate"
	"github.com/phamduc/sachly/pkg/pagination"
)

// maxCoverUploadBytes bounds the in-memory portion of multipart parsing.
const maxCoverUploadBytes = 8 << 20 // 8 MiB

// releaseDateLayout is the wire format for release dates.
const releaseDateLayout = "2006-01-02"

// Handler implements the HTTP layer for the catalog.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// RegisterRoutes mounts the catalog endpoints onto the given router.
//
// # Endpoints
//   - GET    /          : Lists books (filterable, paginated, public).
//   - GET    /{id}      : Returns one book (public).
//   - GET    /rate/{id} : Returns the rating summary for a book (public).
//   - PUT    /rate/{id} : Submits the caller's rating for a book.
//   - POST   /          : Adds a book (admin only).
//   - PUT    /{id}      : Partially updates a book (admin only).
//   - DELETE /{id}      : Removes a book (admin only).
//   - POST   /cover     : Uploads a cover image (admin only).
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// Public browsing endpoints. The static /rate prefix is registered
	// before the {id} wildcard so chi routes it correctly.
	router.Get("/", handler.list)
	router.Get("/rate/{id}", handler.getRatingSummary)
	router.Get("/{id}", handler.getByID)

	// Authenticated endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Put("/rate/{id}", handler.submitRating)
	})

	// Administrative endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))

		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.deleteBook)
		r.Post("/cover", handler.uploadCover)
	})
}

// # Request Payloads

type createBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"release_date"`
	PageCount   int     `json:"page_count"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

// updateBookRequest defines the expected JSON payload for partial updates.
// Absent fields are left unchanged.
type updateBookRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Description *string  `json:"description"`
	ReleaseDate *string  `json:"release_date"`
	PageCount   *int     `json:"page_count"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
}

// # Catalog Endpoints

/*
list returns a filtered, paginated page of books.

GET /books?title=&author=&category=&skip=&limit=

Response:
  - 200: []Book + pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	params := pagination.FromRequest(req)

	filter := ListFilter{
		Title:    req.URL.Query().Get("title"),
		Author:   req.URL.Query().Get("author"),
		Category: req.URL.Query().Get("category"),
	}

	page, meta, err := handler.bookService.List(req.Context(), filter, params)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, page, meta)
}

/*
getByID returns one catalog record.

GET /books/{id}

Response:
  - 200: Book: The requested record
  - 404: NOT_FOUND: No such book
*/
func (handler *Handler) getByID(writer http.ResponseWriter, req *http.Request) {
	id := request.ID(req, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	book, err := handler.bookService.Get(req.Context(), id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, book)
}

/*
create adds a new title to the catalog (admin only).

POST /books

Request:
  - Body: createBookRequest

Response:
  - 201: Book: The created record
  - 400: VALIDATION_ERROR: Bad input
  - 409: CONFLICT: Title already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	var input createBookRequest

	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldAuthor, input.Author).
		Required(FieldReleaseDate, input.ReleaseDate).
		Positive(FieldPageCount, input.PageCount).
		Required(FieldCategory, input.Category).
		Custom(FieldPrice, input.Price < 0, "Must not be negative")

	releaseDate, err := time.Parse(releaseDateLayout, input.ReleaseDate)
	if input.ReleaseDate != "" && err != nil {
		validator.Custom(FieldReleaseDate, true, "Must be a date in YYYY-MM-DD format")
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	book, err := handler.bookService.Create(req.Context(), CreateInput{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		ReleaseDate: releaseDate,
		PageCount:   input.PageCount,
		Category:    input.Category,
		Price:       input.Price,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, book)
}

/*
update applies a partial update to a catalog record (admin only).

PUT /books/{id}

Description: Only provided fields change. A missing record fails with 404
rather than creating one.

Response:
  - 200: Book: The updated record
  - 404: NOT_FOUND: No such book
  - 409: CONFLICT: New title already exists
*/
func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	id := request.ID(req, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updateBookRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	serviceInput := UpdateInput{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		PageCount:   input.PageCount,
		Category:    input.Category,
		Price:       input.Price,
	}

	fieldValidator := &validate.Validator{}
	if input.Title != nil {
		fieldValidator.Required(FieldTitle, *input.Title)
	}
	if input.Author != nil {
		fieldValidator.Required(FieldAuthor, *input.Author)
	}
	if input.PageCount != nil {
		fieldValidator.Positive(FieldPageCount, *input.PageCount)
	}
	if input.Price != nil {
		fieldValidator.Custom(FieldPrice, *input.Price < 0, "Must not be negative")
	}
	if input.ReleaseDate != nil {
		releaseDate, err := time.Parse(releaseDateLayout, *input.ReleaseDate)
		if err != nil {
			fieldValidator.Custom(FieldReleaseDate, true, "Must be a date in YYYY-MM-DD format")
		} else {
			serviceInput.ReleaseDate = &releaseDate
		}
	}

	if err := fieldValidator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	book, err := handler.bookService.Update(req.Context(), id, serviceInput)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, book)
}

/*
deleteBook removes a catalog record (admin only).

DELETE /books/{id}

Description: Deletion is idempotent; repeating the call after success yields
the same response shape with removed=false.

Response:
  - 200: {removed}: Whether a record was removed on this call
  - 403: FORBIDDEN: Caller is not an admin
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, req *http.Request) {
	id := request.ID(req, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	removed, err := handler.bookService.Delete(req.Context(), id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]bool{"removed": removed})
}

// # Cover Upload

/*
uploadCover stores a new cover image for a book (admin only).

POST /books/cover (multipart/form-data, fields "book_id" and "file")

Response:
  - 200: {cover_url}: The public URL of the stored image
  - 400: VALIDATION_ERROR: Missing fields
  - 404: NOT_FOUND: No such book
  - 500: STORAGE_IO: The file could not be written
*/
func (handler *Handler) uploadCover(writer http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxCoverUploadBytes); err != nil {
		respond.Error(writer, req, validate.RequiredError("file", "Multipart form data is required"))
		return
	}

	bookID := req.FormValue(FieldBookID)

	validator := &validate.Validator{}
	validator.Required(FieldBookID, bookID).UUID(FieldBookID, bookID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respond.Error(writer, req, validate.RequiredError("file", "An image file is required"))
		return
	}
	defer file.Close()

	coverURL, err := handler.bookService.UpdateCover(req.Context(), bookID, header.Filename, file)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]string{"cover_url": coverURL})
}
