// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/sachly/internal/books"
	"github.com/phamduc/sachly/internal/platform/apperr"
	"github.com/phamduc/sachly/internal/platform/dberr"
	"github.com/phamduc/sachly/pkg/pagination"
)

// # Test Doubles

// stubBookRepo is an in-memory BookRepository for service tests.
type stubBookRepo struct {
	booksByID map[string]*books.Book
	order     []string // insertion order for stable listing
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{booksByID: make(map[string]*books.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, book *books.Book) error {
	for _, existing := range r.booksByID {
		if existing.Title == book.Title {
			return dberr.ErrDuplicate
		}
	}
	stored := *book
	r.booksByID[book.ID] = &stored
	r.order = append(r.order, book.ID)
	return nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*books.Book, error) {
	if b, ok := r.booksByID[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, apperr.NotFound("Book")
}

func (r *stubBookRepo) List(_ context.Context, filter books.ListFilter, limit, offset int) ([]*books.Book, int, error) {
	matched := []*books.Book{}
	for _, id := range r.order {
		b := r.booksByID[id]
		if filter.Title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(filter.Author)) {
			continue
		}
		if filter.Category != "" && !strings.Contains(strings.ToLower(b.Category), strings.ToLower(filter.Category)) {
			continue
		}
		matched = append(matched, b)
	}

	total := len(matched)
	if offset >= total {
		return []*books.Book{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *stubBookRepo) Update(_ context.Context, book *books.Book) error {
	for id, existing := range r.booksByID {
		if id != book.ID && existing.Title == book.Title {
			return dberr.ErrDuplicate
		}
	}
	stored := *book
	r.booksByID[book.ID] = &stored
	return nil
}

func (r *stubBookRepo) UpdateCover(_ context.Context, bookID, coverURL string) error {
	if b, ok := r.booksByID[bookID]; ok {
		b.CoverURL = coverURL
	}
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.booksByID[id]; !ok {
		return false, nil
	}
	delete(r.booksByID, id)
	return true, nil
}

// memoryRatingRepo mirrors the guarded-upsert semantics of the real table,
// including position preservation on replacement.
type memoryRatingRepo struct {
	ratings   []*books.Rating   // submission order
	fullNames map[string]string // userID -> display name
}

func newMemoryRatingRepo() *memoryRatingRepo {
	return &memoryRatingRepo{fullNames: make(map[string]string)}
}

func (r *memoryRatingRepo) Upsert(_ context.Context, rating *books.Rating) error {
	for _, existing := range r.ratings {
		if existing.BookID != rating.BookID || existing.UserID != rating.UserID {
			continue
		}
		if existing.Score == rating.Score && existing.Comment == rating.Comment {
			return nil // identical resubmission: no-op
		}
		// Replace in place, keep the original createdat
		existing.Score = rating.Score
		existing.Comment = rating.Comment
		existing.UpdatedAt = time.Now()
		return nil
	}

	stored := *rating
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.ratings = append(r.ratings, &stored)
	return nil
}

func (r *memoryRatingRepo) ListForBook(_ context.Context, bookID string) ([]books.RatingComment, error) {
	comments := []books.RatingComment{}
	for _, rating := range r.ratings {
		if rating.BookID != bookID {
			continue
		}
		comments = append(comments, books.RatingComment{
			FullName:  r.fullNames[rating.UserID],
			Score:     rating.Score,
			Comment:   rating.Comment,
			CreatedAt: rating.CreatedAt,
		})
	}
	return comments, nil
}

// stubRatingCache records cache traffic and can inject failures.
type stubRatingCache struct {
	entries map[string]*books.RatingSummary

	getErr        error
	setErr        error
	invalidations int
}

func newStubRatingCache() *stubRatingCache {
	return &stubRatingCache{entries: make(map[string]*books.RatingSummary)}
}

func (c *stubRatingCache) Get(_ context.Context, bookID string) (*books.RatingSummary, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	summary, ok := c.entries[bookID]
	return summary, ok, nil
}

func (c *stubRatingCache) Set(_ context.Context, bookID string, summary *books.RatingSummary) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[bookID] = summary
	return nil
}

func (c *stubRatingCache) Invalidate(_ context.Context, bookID string) error {
	c.invalidations++
	delete(c.entries, bookID)
	return nil
}

// stubFileStore records saves without touching the disk.
type stubFileStore struct {
	saved   []string
	saveErr error
}

func (s *stubFileStore) Save(subDir, filename string, _ io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := "/static/" + subDir + "/" + filename
	s.saved = append(s.saved, url)
	return url, nil
}

type testFixture struct {
	bookRepo   *stubBookRepo
	ratingRepo *memoryRatingRepo
	cache      *stubRatingCache
	files      *stubFileStore
	service    *books.Service
}

func newFixture() *testFixture {
	fixture := &testFixture{
		bookRepo:   newStubBookRepo(),
		ratingRepo: newMemoryRatingRepo(),
		cache:      newStubRatingCache(),
		files:      &stubFileStore{},
	}
	fixture.service = books.NewService(
		fixture.bookRepo,
		fixture.ratingRepo,
		fixture.cache,
		fixture.files,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return fixture
}

func dune() books.CreateInput {
	return books.CreateInput{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: "Spice and sand.",
		ReleaseDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		PageCount:   412,
		Category:    "Science Fiction",
		Price:       9.99,
	}
}

// # Catalog CRUD

/*
TestService_Create_DuplicateTitle verifies the second "Dune" yields Conflict
and the first record is unaffected.
*/
func TestService_Create_DuplicateTitle(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	first, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	_, err = fixture.service.Create(ctx, dune())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)

	// The original record is untouched
	kept, err := fixture.service.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", kept.Author)
	assert.Equal(t, 412, kept.PageCount)
}

/*
TestService_Update_Partial verifies only provided fields change and a missing
record fails with NOT_FOUND.
*/
func TestService_Update_Partial(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	newPrice := 12.50
	updated, err := fixture.service.Update(ctx, created.ID, books.UpdateInput{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 12.50, updated.Price)
	assert.Equal(t, "Dune", updated.Title) // untouched

	_, err = fixture.service.Update(ctx, "01900000-0000-7000-8000-000000000000", books.UpdateInput{Price: &newPrice})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Delete_Idempotent verifies repeated deletion reports already-gone.
*/
func TestService_Delete_Idempotent(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	removed, err := fixture.service.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = fixture.service.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

/*
TestService_List_Filters verifies case-insensitive substring filtering.
*/
func TestService_List_Filters(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	_, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	hyperion := dune()
	hyperion.Title = "Hyperion"
	hyperion.Author = "Dan Simmons"
	_, err = fixture.service.Create(ctx, hyperion)
	require.NoError(t, err)

	params := pagination.Params{Page: 1, Limit: 20}

	page, meta, err := fixture.service.List(ctx, books.ListFilter{Author: "herbert"}, params)
	require.NoError(t, err)

	assert.Equal(t, 1, meta.Total)
	require.Len(t, page, 1)
	assert.Equal(t, "Dune", page[0].Title)
}

// # Cover Upload

/*
TestService_UpdateCover verifies the write-file-then-update-record ordering.
*/
func TestService_UpdateCover(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	coverURL, err := fixture.service.UpdateCover(ctx, created.ID, "dune.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/static/bookscover/dune.jpg", coverURL)

	stored, err := fixture.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, coverURL, stored.CoverURL)
}

/*
TestService_UpdateCover_WriteFailure verifies a failed write surfaces as
STORAGE_IO and never dirties the record.
*/
func TestService_UpdateCover_WriteFailure(t *testing.T) {
	fixture := newFixture()
	fixture.files.saveErr = io.ErrUnexpectedEOF
	ctx := context.Background()

	created, err := fixture.service.Create(ctx, dune())
	require.NoError(t, err)

	_, err = fixture.service.UpdateCover(ctx, created.ID, "dune.jpg", strings.NewReader("jpeg bytes"))
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "STORAGE_IO", ae.Code)

	stored, err := fixture.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CoverURL)
}
