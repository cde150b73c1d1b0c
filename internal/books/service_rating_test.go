// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/sachly/internal/books"
	"github.com/phamduc/sachly/internal/platform/apperr"
)

// submit is a shorthand for a rating submission in tests.
func submit(t *testing.T, fixture *testFixture, bookID, userID string, score int, comment string) {
	t.Helper()
	err := fixture.service.SubmitRating(context.Background(), bookID, userID, books.SubmitRatingInput{
		Score:   score,
		Comment: comment,
	})
	require.NoError(t, err)
}

// # Merge Semantics

/*
TestService_SubmitRating_IdenticalResubmission verifies an identical
resubmission leaves the rating sequence unchanged.
*/
func TestService_SubmitRating_IdenticalResubmission(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	submit(t, fixture, created.ID, "user-1", 4, "ok")
	submit(t, fixture, created.ID, "user-1", 4, "ok")

	summary, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)

	require.Len(t, summary.Comments, 1)
	assert.Equal(t, 4, summary.Comments[0].Score)
	assert.Equal(t, "ok", summary.Comments[0].Comment)
}

/*
TestService_SubmitRating_ReplacesInPlace verifies a changed resubmission
replaces the previous entry at its original position.
*/
func TestService_SubmitRating_ReplacesInPlace(t *testing.T) {
	fixture := newFixture()
	fixture.ratingRepo.fullNames["user-1"] = "Duc Pham"
	fixture.ratingRepo.fullNames["user-2"] = "Mai Tran"
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	submit(t, fixture, created.ID, "user-1", 4, "ok")
	submit(t, fixture, created.ID, "user-2", 2, "meh")
	submit(t, fixture, created.ID, "user-1", 5, "better")

	summary, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)

	require.Len(t, summary.Comments, 2)

	// user-1's rating keeps its original first position
	assert.Equal(t, "Duc Pham", summary.Comments[0].FullName)
	assert.Equal(t, 5, summary.Comments[0].Score)
	assert.Equal(t, "better", summary.Comments[0].Comment)
	assert.Equal(t, "Mai Tran", summary.Comments[1].FullName)
}

// # Aggregation

/*
TestService_RatingSummary_Average verifies the mean of [3, 5] is 4.0.
*/
func TestService_RatingSummary_Average(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	submit(t, fixture, created.ID, "user-1", 3, "fine")
	submit(t, fixture, created.ID, "user-2", 5, "great")

	summary, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, summary.AverageRate, 0.0001)
}

/*
TestService_RatingSummary_NoRatings verifies zero ratings yield {0, empty},
not an error.
*/
func TestService_RatingSummary_NoRatings(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	summary, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)

	assert.Zero(t, summary.AverageRate)
	assert.Empty(t, summary.Comments)
}

/*
TestService_RatingSummary_UnknownBook verifies a missing book yields 404
instead of an empty summary.
*/
func TestService_RatingSummary_UnknownBook(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.RatingSummary(context.Background(), "01900000-0000-7000-8000-000000000000")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// # Cache Behavior

/*
TestService_RatingSummary_ServedFromCache verifies the second read skips the
repositories entirely.
*/
func TestService_RatingSummary_ServedFromCache(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)
	submit(t, fixture, created.ID, "user-1", 4, "ok")

	first, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)

	// Drop the book behind the cache's back: a cache hit must not notice.
	_, err = fixture.bookRepo.Delete(ctx, created.ID)
	require.NoError(t, err)

	second, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AverageRate, second.AverageRate)
}

/*
TestService_SubmitRating_InvalidatesCache verifies a write drops the cached
summary so the next read sees the new score.
*/
func TestService_SubmitRating_InvalidatesCache(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	submit(t, fixture, created.ID, "user-1", 2, "meh")

	summary, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, summary.AverageRate, 0.0001)

	submit(t, fixture, created.ID, "user-1", 5, "grew on me")

	summary, err = fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, summary.AverageRate, 0.0001)
	assert.GreaterOrEqual(t, fixture.cache.invalidations, 1)
}

/*
TestService_RatingSummary_CacheFailureDegrades verifies a broken cache never
breaks the read path.
*/
func TestService_RatingSummary_CacheFailureDegrades(t *testing.T) {
	fixture := newFixture()
	fixture.cache.getErr = errors.New("redis: connection refused")
	fixture.cache.setErr = errors.New("redis: connection refused")
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)
	submit(t, fixture, created.ID, "user-1", 3, "fine")

	summary, err := fixture.service.RatingSummary(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, summary.AverageRate, 0.0001)
}
