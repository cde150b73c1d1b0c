// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"context"
	"fmt"
	"log/slog"
)

// # Rating Operations

// SubmitRatingInput holds one member's rating of one book.
type SubmitRatingInput struct {
	Score   int
	Comment string
}

/*
SubmitRating records or replaces the caller's rating for a book.

Description: The storage layer performs the merge atomically: a first
submission appends, a changed resubmission replaces the stored entry in
place, and an identical resubmission changes nothing. The cached summary is
invalidated after every write; a cache failure is logged and swallowed
because the next read recomputes from the database anyway.

Parameters:
  - context: context.Context
  - bookID: string
  - userID: string
  - input: SubmitRatingInput

Returns:
  - error: NotFound when the book does not exist, or storage failures
*/
func (service *Service) SubmitRating(context context.Context, bookID, userID string, input SubmitRatingInput) error {
	rating := &Rating{
		BookID:  bookID,
		UserID:  userID,
		Score:   input.Score,
		Comment: input.Comment,
	}

	if err := service.ratingRepository.Upsert(context, rating); err != nil {
		return fmt.Errorf("book_service_submit_rating_failed: %w", err)
	}

	service.invalidateSummary(context, bookID)

	service.logger.Info("book_rating_submitted",
		slog.String("book_id", bookID),
		slog.String("user_id", userID),
		slog.Int("score", input.Score),
	)

	return nil
}

/*
RatingSummary returns the aggregate rating view for a book.

Description: Serves from the Redis cache when possible; every cache failure
degrades to a database read. A book with no ratings yields an average of 0
and an empty comment list, not an error. The book must exist.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - *RatingSummary: Average score plus annotated comments
  - error: NotFound when the book does not exist, or storage failures
*/
func (service *Service) RatingSummary(context context.Context, bookID string) (*RatingSummary, error) {

	if cached, found, err := service.ratingCache.Get(context, bookID); err != nil {
		service.logger.Warn("rating_cache_read_failed",
			slog.String("book_id", bookID),
			slog.String("error", err.Error()),
		)
	} else if found {
		return cached, nil
	}

	// Unknown books must 404 instead of reporting an empty summary.
	if _, err := service.bookRepository.FindByID(context, bookID); err != nil {
		return nil, fmt.Errorf("book_service_rating_summary_lookup_failed: %w", err)
	}

	comments, err := service.ratingRepository.ListForBook(context, bookID)
	if err != nil {
		return nil, fmt.Errorf("book_service_rating_summary_failed: %w", err)
	}

	summary := &RatingSummary{
		AverageRate: averageScore(comments),
		Comments:    comments,
	}

	if err := service.ratingCache.Set(context, bookID, summary); err != nil {
		service.logger.Warn("rating_cache_write_failed",
			slog.String("book_id", bookID),
			slog.String("error", err.Error()),
		)
	}

	return summary, nil
}

// averageScore computes the arithmetic mean; zero ratings yield 0.
func averageScore(comments []RatingComment) float64 {
	if len(comments) == 0 {
		return 0
	}

	sum := 0
	for _, comment := range comments {
		sum += comment.Score
	}

	return float64(sum) / float64(len(comments))
}

// invalidateSummary drops the cached summary, logging but tolerating failure.
func (service *Service) invalidateSummary(context context.Context, bookID string) {
	if err := service.ratingCache.Invalidate(context, bookID); err != nil {
		service.logger.Warn("rating_cache_invalidate_failed",
			slog.String("book_id", bookID),
			slog.String("error", err.Error()),
		)
	}
}
