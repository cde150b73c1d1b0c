// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package books implements the catalog domain: book records, cover images,
and member ratings.

# Architecture

The package follows the same layering as the users domain: entities and
repository contracts here, a Postgres implementation behind them, a service
layer owning the business rules, and a chi HTTP delivery layer on top. Rating
summaries are additionally cached in Redis; the cache is an accelerator, not
a source of truth, and every cache failure degrades to a database read.
*/
package books

import (
	"context"
	"io"
	"time"
)

// # Domain Entities

// Book represents one title in the Sachly catalog.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	ReleaseDate time.Time `json:"release_date"`
	PageCount   int       `json:"page_count"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation in the catalog domain.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldReleaseDate = "release_date"
	FieldPageCount   = "page_count"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldBookID      = "book_id"
	FieldScore       = "score"
	FieldComment     = "comment"
)

// # Listing

// ListFilter narrows catalog listings. Empty fields match everything;
// string fields are case-insensitive substring matches.
type ListFilter struct {
	Title    string
	Author   string
	Category string
}

// # Storage Contracts

/*
BookRepository defines the persistence contract for catalog records.

Implementations must map storage-level failures to [apperr.AppError] values:
duplicate titles surface as Conflict, missing rows as NotFound.
*/
type BookRepository interface {
	Create(context context.Context, book *Book) error
	FindByID(context context.Context, id string) (*Book, error)
	List(context context.Context, filter ListFilter, limit, offset int) ([]*Book, int, error)
	Update(context context.Context, book *Book) error
	UpdateCover(context context.Context, bookID, coverURL string) error
	Delete(context context.Context, id string) (bool, error)
}

// FileStore persists uploaded cover images and returns their public URL.
type FileStore interface {
	Save(subDir, filename string, content io.Reader) (string, error)
}
