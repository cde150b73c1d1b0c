// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"context"
	"time"

	"github.com/phamduc/sachly/internal/platform/dberr"
	"github.com/phamduc/sachly/internal/platform/postgres"
)

// # Rating Repository

// PostgresRatingRepository implements [RatingRepository] using pgx.
type PostgresRatingRepository struct {
	pool postgres.PgxPool
}

// NewRatingRepository creates a new Postgres implementation for book ratings.
func NewRatingRepository(pool postgres.PgxPool) *PostgresRatingRepository {
	return &PostgresRatingRepository{pool: pool}
}

/*
Upsert inserts or replaces a member's rating in a single atomic statement.

Description: The composite primary key (bookid, userid) carries the merge
semantics. The DO UPDATE branch is guarded by IS DISTINCT FROM so an
identical resubmission touches no row at all: createdat and updatedat are
preserved and the rating keeps its position in the creation order. Two
concurrent submissions for the same pair serialize on the index, so no
read-modify-write race exists.

Parameters:
  - context: context.Context
  - rating: *Rating

Returns:
  - error: apperr.NotFound when the book does not exist, or execution errors
*/
func (repository *PostgresRatingRepository) Upsert(context context.Context, rating *Rating) error {
	const query = `
		INSERT INTO store.bookrating (bookid, userid, score, comment, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (bookid, userid) DO UPDATE
		SET score = EXCLUDED.score, comment = EXCLUDED.comment, updatedat = EXCLUDED.updatedat
		WHERE store.bookrating.score IS DISTINCT FROM EXCLUDED.score
		   OR store.bookrating.comment IS DISTINCT FROM EXCLUDED.comment`

	now := time.Now()
	_, err := repository.pool.Exec(context, query,
		rating.BookID,
		rating.UserID,
		rating.Score,
		rating.Comment,
		now,
	)

	if err != nil {
		return dberr.Wrap(err, "rating_upsert")
	}

	return nil
}

/*
ListForBook returns every rating for a book, annotated with the submitting
member's display name.

Description: Ordered by submission time so a replaced rating, which keeps
its original createdat, stays at its original position.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - []RatingComment: All ratings in submission order (empty, not nil, when none)
  - error: Execution errors
*/
func (repository *PostgresRatingRepository) ListForBook(context context.Context, bookID string) ([]RatingComment, error) {
	const query = `
		SELECT u.fullname, r.score, r.comment, r.createdat
		FROM store.bookrating r
		JOIN store.useraccount u ON u.id = r.userid
		WHERE r.bookid = $1
		ORDER BY r.createdat, r.userid`

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "rating_list")
	}
	defer rows.Close()

	comments := []RatingComment{}
	for rows.Next() {
		var comment RatingComment
		if err := rows.Scan(
			&comment.FullName,
			&comment.Score,
			&comment.Comment,
			&comment.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "rating_list_scan")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "rating_list_rows")
	}

	return comments, nil
}
