// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"context"
	"time"
)

// # Rating Entities

// Score bounds for a single rating.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one member's opinion of one book.
//
// The (BookID, UserID) pair is the logical identity: a member resubmitting a
// rating replaces their previous entry instead of adding a second one.
type Rating struct {
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingComment is a rating annotated with the submitting member's display
// name, ready for presentation.
type RatingComment struct {
	FullName  string    `json:"full_name"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingSummary is the aggregate view returned for a book.
//
// A book with no ratings yields {0, empty list}, never an error.
type RatingSummary struct {
	AverageRate float64         `json:"average_rate"`
	Comments    []RatingComment `json:"comments"`
}

// # Storage Contracts

/*
RatingRepository defines the persistence contract for book ratings.

Upsert must be a single atomic statement keyed by (book, user): an identical
resubmission is a no-op, a changed one replaces the stored entry in place so
its position in the creation order is preserved.
*/
type RatingRepository interface {
	Upsert(context context.Context, rating *Rating) error
	ListForBook(context context.Context, bookID string) ([]RatingComment, error)
}

/*
RatingCache caches computed rating summaries.

A (nil, false, nil) Get result means "not cached". Implementations never
return stale data after Invalidate succeeds; callers treat every error as a
cache miss.
*/
type RatingCache interface {
	Get(context context.Context, bookID string) (*RatingSummary, bool, error)
	Set(context context.Context, bookID string, summary *RatingSummary) error
	Invalidate(context context.Context, bookID string) error
}
