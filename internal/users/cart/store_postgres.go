// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package cart

import (
	"context"
	"time"

	"github.com/phamduc/sachly/internal/platform/dberr"
	"github.com/phamduc/sachly/internal/platform/postgres"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool postgres.PgxPool
}

// NewRepository creates a new Postgres implementation for cart storage.
func NewRepository(pool postgres.PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Upsert inserts or replaces a cart line in one atomic statement.

Description: The composite (userid, bookid) primary key plus ON CONFLICT
guarantees at most one line per pair regardless of concurrency. Re-setting an
existing line replaces the quantity but keeps the original addedat, so the
line keeps its position in the cart ordering.

Parameters:
  - context: context.Context
  - line: *CartLine

Returns:
  - error: apperr.NotFound when the book does not exist (FK violation),
    or storage failures
*/
func (repository *PostgresRepository) Upsert(context context.Context, line *CartLine) error {
	const query = `
		INSERT INTO store.cartline (userid, bookid, quantity, addedat)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (userid, bookid)
		DO UPDATE SET quantity = EXCLUDED.quantity`

	if line.AddedAt.IsZero() {
		line.AddedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		line.UserID,
		line.BookID,
		line.Quantity,
		line.AddedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "cart_upsert")
	}

	return nil
}

/*
Items returns the user's cart joined with book presentation fields.

Description: Ordered by the time each line was FIRST added (replacing a
quantity does not move the line), with bookid as a tiebreaker for stability.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*CartItem: Cart contents, empty slice when the cart is empty
  - error: Storage failures
*/
func (repository *PostgresRepository) Items(context context.Context, userID string) ([]*CartItem, error) {
	const query = `
		SELECT c.bookid, b.title, b.author, b.price, b.coverurl, c.quantity, c.addedat
		FROM store.cartline c
		JOIN store.book b ON b.id = c.bookid
		WHERE c.userid = $1
		ORDER BY c.addedat, c.bookid`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "cart_items")
	}
	defer rows.Close()

	items := []*CartItem{}
	for rows.Next() {
		item := &CartItem{}
		if err := rows.Scan(
			&item.BookID,
			&item.Title,
			&item.Author,
			&item.Price,
			&item.CoverURL,
			&item.Quantity,
			&item.AddedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "cart_items_scan")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "cart_items_rows")
	}

	return items, nil
}

/*
Remove deletes a single cart line.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - bool: true if a line was removed on this call
  - error: Storage failures
*/
func (repository *PostgresRepository) Remove(context context.Context, userID, bookID string) (bool, error) {
	const query = "DELETE FROM store.cartline WHERE userid = $1 AND bookid = $2"

	tag, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return false, dberr.Wrap(err, "cart_remove")
	}

	return tag.RowsAffected() > 0, nil
}
