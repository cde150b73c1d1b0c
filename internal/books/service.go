// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phamduc/sachly/internal/platform/apperr"
	"github.com/phamduc/sachly/internal/platform/constants"
	"github.com/phamduc/sachly/pkg/pagination"
	"github.com/phamduc/sachly/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for the catalog and its ratings.
type Service struct {
	bookRepository   BookRepository
	ratingRepository RatingRepository
	ratingCache      RatingCache
	fileStore        FileStore
	logger           *slog.Logger
}

// NewService constructs a new catalog [Service] with its dependencies.
func NewService(
	bookRepo BookRepository,
	ratingRepo RatingRepository,
	ratingCache RatingCache,
	fileStore FileStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		bookRepository:   bookRepo,
		ratingRepository: ratingRepo,
		ratingCache:      ratingCache,
		fileStore:        fileStore,
		logger:           logger,
	}
}

// # Catalog CRUD

// CreateInput holds the data required to add a new title to the catalog.
type CreateInput struct {
	Title       string
	Author      string
	Description string
	ReleaseDate time.Time
	PageCount   int
	Category    string
	Price       float64
}

/*
Create adds a new title to the catalog.

Description: Title uniqueness is enforced by the storage index; a racing
duplicate surfaces as Conflict, never a 500, and the existing record is
left untouched.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Book: Created entity
  - error: Conflict (if the title is taken) or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Book, error) {
	book := &Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		ReleaseDate: input.ReleaseDate,
		PageCount:   input.PageCount,
		Category:    input.Category,
		Price:       input.Price,
	}

	if err := service.bookRepository.Create(context, book); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("A book with this title already exists")
		}
		return nil, fmt.Errorf("book_service_create_failed: %w", err)
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
	)

	return book, nil
}

/*
Get retrieves one catalog record by ID.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - *Book: The hydrated record
  - error: Not found or execution failures
*/
func (service *Service) Get(context context.Context, bookID string) (*Book, error) {
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return nil, fmt.Errorf("book_service_get_failed: %w", err)
	}
	return book, nil
}

/*
List returns a page of catalog records matching the filter.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - params: pagination.Params

Returns:
  - []*Book: The page of records
  - pagination.Meta: Pagination metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter ListFilter, params pagination.Params) ([]*Book, pagination.Meta, error) {
	page, total, err := service.bookRepository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("book_service_list_failed: %w", err)
	}

	return page, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateInput defines the mutable subset of catalog fields.
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Title       *string
	Author      *string
	Description *string
	ReleaseDate *time.Time
	PageCount   *int
	Category    *string
	Price       *float64
}

/*
Update applies a partial set of changes to a catalog record.

Description: Fetches the current state, overrides the provided fields only,
and persists the result. Updating a record that does not exist fails with
NotFound rather than creating one.

Parameters:
  - context: context.Context
  - bookID: string
  - input: UpdateInput

Returns:
  - *Book: The updated record
  - error: NotFound, Conflict (title collision), or storage failures
*/
func (service *Service) Update(context context.Context, bookID string, input UpdateInput) (*Book, error) {
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return nil, fmt.Errorf("book_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.ReleaseDate != nil {
		book.ReleaseDate = *input.ReleaseDate
	}
	if input.PageCount != nil {
		book.PageCount = *input.PageCount
	}
	if input.Category != nil {
		book.Category = *input.Category
	}
	if input.Price != nil {
		book.Price = *input.Price
	}

	if err := service.bookRepository.Update(context, book); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("A book with this title already exists")
		}
		return nil, fmt.Errorf("book_service_update_failed: %w", err)
	}

	service.logger.Info("book_updated", slog.String("book_id", bookID))

	return book, nil
}

/*
Delete removes a catalog record.

Description: Deleting is idempotent; removing an absent book reports
already-removed rather than an error. The cached rating summary is dropped
alongside the record.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - bool: true if the record existed and was removed on this call
  - error: Storage failures
*/
func (service *Service) Delete(context context.Context, bookID string) (bool, error) {
	removed, err := service.bookRepository.Delete(context, bookID)
	if err != nil {
		return false, fmt.Errorf("book_service_delete_failed: %w", err)
	}

	if removed {
		service.invalidateSummary(context, bookID)
		service.logger.Info("book_deleted", slog.String("book_id", bookID))
	}

	return removed, nil
}

// # Cover Upload

/*
UpdateCover stores a new cover image and links it to the catalog record.

Description: The file is written to the static directory FIRST; only after a
successful write is the record updated, so a failed write never leaves the
record pointing at a missing file.

Parameters:
  - context: context.Context
  - bookID: string
  - filename: string (Original client file name)
  - content: io.Reader (Uploaded bytes)

Returns:
  - string: The public cover URL
  - error: NotFound, apperr.StorageIO on write failures, or storage errors
*/
func (service *Service) UpdateCover(context context.Context, bookID, filename string, content io.Reader) (string, error) {

	// The record must exist before any bytes hit the disk.
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return "", fmt.Errorf("book_service_cover_lookup_failed: %w", err)
	}

	coverURL, err := service.fileStore.Save(constants.BookCoverDir, filename, content)
	if err != nil {
		return "", apperr.StorageIO(err)
	}

	if err := service.bookRepository.UpdateCover(context, book.ID, coverURL); err != nil {
		return "", fmt.Errorf("book_service_cover_update_failed: %w", err)
	}

	service.logger.Info("book_cover_updated",
		slog.String("book_id", book.ID),
		slog.String("cover_url", coverURL),
	)

	return coverURL, nil
}
