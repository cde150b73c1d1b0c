// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phamduc/sachly/internal/platform/dberr"
	"github.com/phamduc/sachly/internal/platform/postgres"
)

// # Book Repository

// PostgresBookRepository implements [BookRepository] using pgx.
type PostgresBookRepository struct {
	pool postgres.PgxPool
}

// NewBookRepository creates a new Postgres implementation for the catalog.
func NewBookRepository(pool postgres.PgxPool) *PostgresBookRepository {
	return &PostgresBookRepository{pool: pool}
}

/*
Create persists a new catalog record into the store.book table.

Description: Title collisions hit the unique index and surface as
[dberr.ErrDuplicate]; the existing record is never touched.

Parameters:
  - context: context.Context
  - book: *Book (Entity to persist)

Returns:
  - error: Conflict, constraint violations, or connectivity errors
*/
func (repository *PostgresBookRepository) Create(context context.Context, book *Book) error {
	const query = `
		INSERT INTO store.book (
			id, title, author, description, releasedate, pagecount, category, price, coverurl, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.ReleaseDate,
		book.PageCount,
		book.Category,
		book.Price,
		book.CoverURL,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "book_create")
	}

	return nil
}

/*
FindByID retrieves a catalog record by primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Book: Hydrated catalog entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresBookRepository) FindByID(context context.Context, id string) (*Book, error) {
	const query = `
		SELECT id, title, author, description, releasedate, pagecount, category, price, coverurl, createdat, updatedat
		FROM store.book
		WHERE id = $1`

	book := &Book{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.ReleaseDate,
		&book.PageCount,
		&book.Category,
		&book.Price,
		&book.CoverURL,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "book_find_by_id")
	}

	return book, nil
}

/*
List returns a page of catalog records matching the filter plus the total
match count.

Description: Title, author, and category are case-insensitive substring
filters; absent filters match everything. Ordering by creation time keeps
pages stable because primary keys are UUIDv7.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - limit: int
  - offset: int

Returns:
  - []*Book: The requested page
  - int: Total matching rows
  - error: Execution errors
*/
func (repository *PostgresBookRepository) List(context context.Context, filter ListFilter, limit, offset int) ([]*Book, int, error) {

	// Build the shared WHERE clause for both the page and the count query.
	conditions := []string{"TRUE"}
	arguments := []any{}

	addSubstring := func(column, value string) {
		if value == "" {
			return
		}
		arguments = append(arguments, "%"+value+"%")
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", column, len(arguments)))
	}

	addSubstring("title", filter.Title)
	addSubstring("author", filter.Author)
	addSubstring("category", filter.Category)

	whereClause := strings.Join(conditions, " AND ")

	// 1. Total count for pagination metadata
	countQuery := "SELECT COUNT(*) FROM store.book WHERE " + whereClause

	var total int
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "book_list_count")
	}

	// 2. The requested page
	pageQuery := fmt.Sprintf(`
		SELECT id, title, author, description, releasedate, pagecount, category, price, coverurl, createdat, updatedat
		FROM store.book
		WHERE %s
		ORDER BY createdat, id
		LIMIT $%d OFFSET $%d`,
		whereClause, len(arguments)+1, len(arguments)+2)

	arguments = append(arguments, limit, offset)

	rows, err := repository.pool.Query(context, pageQuery, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "book_list_page")
	}
	defer rows.Close()

	page := []*Book{}
	for rows.Next() {
		book := &Book{}
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.ReleaseDate,
			&book.PageCount,
			&book.Category,
			&book.Price,
			&book.CoverURL,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "book_list_scan")
		}
		page = append(page, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "book_list_rows")
	}

	return page, total, nil
}

/*
Update persists changes to a catalog record's mutable fields.

Description: Renaming a book onto an existing title hits the unique index
and surfaces as [dberr.ErrDuplicate].

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: Conflict or update failures
*/
func (repository *PostgresBookRepository) Update(context context.Context, book *Book) error {
	const query = `
		UPDATE store.book
		SET title = $2, author = $3, description = $4, releasedate = $5,
		    pagecount = $6, category = $7, price = $8, updatedat = $9
		WHERE id = $1`

	book.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.ReleaseDate,
		book.PageCount,
		book.Category,
		book.Price,
		book.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "book_update")
	}

	return nil
}

/*
UpdateCover replaces only the cover URL for a specific book.

Parameters:
  - context: context.Context
  - bookID: string
  - coverURL: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresBookRepository) UpdateCover(context context.Context, bookID, coverURL string) error {
	const query = `
		UPDATE store.book
		SET coverurl = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, bookID, coverURL, time.Now())
	if err != nil {
		return dberr.Wrap(err, "book_update_cover")
	}

	return nil
}

/*
Delete removes a catalog record.

Description: Cart lines and ratings referencing the book are removed by the
ON DELETE CASCADE constraints, so member carts never carry orphaned lines.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - bool: true if a row was removed, false when the book was already gone
  - error: Execution errors
*/
func (repository *PostgresBookRepository) Delete(context context.Context, id string) (bool, error) {
	const query = "DELETE FROM store.book WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "book_delete")
	}

	return tag.RowsAffected() > 0, nil
}
