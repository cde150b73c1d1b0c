// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package cart implements the per-user shopping cart.

A cart is not a standalone aggregate: it is the set of cart lines owned by a
user, each pointing at a book. Setting a line for a book the user already has
replaces the quantity in place, so the cart can never hold two lines for the
same book.

# Architecture

  - Entities: CartLine (owned state), CartItem (read view joined with books).
  - Storage: PostgreSQL with a composite (userid, bookid) primary key; the
    upsert is a single atomic INSERT ... ON CONFLICT statement.
*/
package cart

import (
	"context"
	"time"
)

// # Domain Entities

// CartLine is one book entry in a user's cart.
type CartLine struct {
	UserID   string    `json:"user_id"`
	BookID   string    `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// CartItem is the read model returned to clients: a cart line joined with
// the book's presentation fields.
type CartItem struct {
	BookID   string    `json:"book_id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Price    float64   `json:"price"`
	CoverURL string    `json:"cover_url,omitempty"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// # Field Identifiers

const (
	FieldBookID   = "book_id"
	FieldQuantity = "quantity"
)

// # Repository Contract

// Repository defines the persistence contract for cart lines.
type Repository interface {

	/*
		Upsert inserts a cart line or replaces the quantity of an existing
		line for the same (user, book) pair.

		The write is a single atomic statement; concurrent upserts for the
		same pair can never produce duplicate lines.

		Parameters:
		  - context: context.Context
		  - line: *CartLine

		Returns:
		  - error: apperr.NotFound if the book does not exist, or storage failures
	*/
	Upsert(context context.Context, line *CartLine) error

	/*
		Items returns the user's cart joined with book details, ordered by
		the time each line was first added.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*CartItem: The cart contents (empty slice for an empty cart)
		  - error: Storage failures
	*/
	Items(context context.Context, userID string) ([]*CartItem, error)

	/*
		Remove deletes the cart line for a specific book.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string

		Returns:
		  - bool: true if a line was removed, false if none existed
		  - error: Storage failures
	*/
	Remove(context context.Context, userID, bookID string) (bool, error)
}
