// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package cart

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/sachly/internal/platform/apperr"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewRepository(mock), mock
}

/*
TestPostgresRepository_Upsert verifies the single-statement upsert path.
*/
func TestPostgresRepository_Upsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer mock.Close()
	ctx := context.Background()

	line := &CartLine{UserID: "user-1", BookID: "book-1", Quantity: 3, AddedAt: time.Now()}

	mock.ExpectExec(`INSERT INTO store\.cartline .+ ON CONFLICT \(userid, bookid\)`).
		WithArgs(line.UserID, line.BookID, line.Quantity, line.AddedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(ctx, line))
	require.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Upsert_UnknownBook verifies the FK violation maps to NOT_FOUND.
*/
func TestPostgresRepository_Upsert_UnknownBook(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer mock.Close()
	ctx := context.Background()

	line := &CartLine{UserID: "user-1", BookID: "ghost", Quantity: 1, AddedAt: time.Now()}

	mock.ExpectExec(`INSERT INTO store\.cartline`).
		WithArgs(line.UserID, line.BookID, line.Quantity, line.AddedAt).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	err := repo.Upsert(ctx, line)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Items verifies row scanning and ordering plumbing.
*/
func TestPostgresRepository_Items(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer mock.Close()
	ctx := context.Background()

	addedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT c\.bookid, b\.title, b\.author, b\.price, b\.coverurl, c\.quantity, c\.addedat`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"bookid", "title", "author", "price", "coverurl", "quantity", "addedat"}).
			AddRow("book-1", "Dune", "Frank Herbert", 9.99, "/static/bookscover/dune.jpg", 2, addedAt).
			AddRow("book-2", "Hyperion", "Dan Simmons", 7.50, "", 1, addedAt.Add(time.Minute)),
		)

	items, err := repo.Items(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Dune", items[0].Title)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "book-2", items[1].BookID)
	require.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Remove verifies the removed flag tracks RowsAffected.
*/
func TestPostgresRepository_Remove(t *testing.T) {
	repo, mock := newMockRepo(t)
	defer mock.Close()
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM store\.cartline WHERE userid = \$1 AND bookid = \$2`).
		WithArgs("user-1", "book-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	removed, err := repo.Remove(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.True(t, removed)

	// Second removal hits zero rows
	mock.ExpectExec(`DELETE FROM store\.cartline WHERE userid = \$1 AND bookid = \$2`).
		WithArgs("user-1", "book-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	removed, err = repo.Remove(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}
