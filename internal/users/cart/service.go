// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phamduc/sachly/internal/platform/apperr"
)

// # Service Layer

// Service orchestrates business logic for the shopping cart.
type Service struct {
	cartRepository Repository
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(cartRepo Repository, logger *slog.Logger) *Service {
	return &Service{cartRepository: cartRepo, logger: logger}
}

// SetLineInput holds the payload for adding or replacing a cart line.
type SetLineInput struct {
	BookID   string
	Quantity int
}

/*
SetLine adds a book to the user's cart, or replaces the quantity of the
existing line for that book.

Description: Setting the same book twice leaves exactly one line holding the
latest quantity. The storage layer makes the whole operation a single atomic
statement, so this holds under concurrency too.

Parameters:
  - context: context.Context
  - userID: string
  - input: SetLineInput

Returns:
  - error: apperr.NotFound when the book does not exist, or storage failures
*/
func (service *Service) SetLine(context context.Context, userID string, input SetLineInput) error {
	line := &CartLine{
		UserID:   userID,
		BookID:   input.BookID,
		Quantity: input.Quantity,
	}

	if err := service.cartRepository.Upsert(context, line); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Book")
		}
		return fmt.Errorf("cart_service_set_line_failed: %w", err)
	}

	service.logger.Info("cart_line_set",
		slog.String("user_id", userID),
		slog.String("book_id", input.BookID),
		slog.Int("quantity", input.Quantity),
	)

	return nil
}

/*
Items returns the user's cart contents with book details.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*CartItem: Cart contents in insertion order
  - error: Storage failures
*/
func (service *Service) Items(context context.Context, userID string) ([]*CartItem, error) {
	items, err := service.cartRepository.Items(context, userID)
	if err != nil {
		return nil, fmt.Errorf("cart_service_items_failed: %w", err)
	}
	return items, nil
}

/*
RemoveLine deletes a single book from the user's cart.

Description: Removal is idempotent; removing a book that is not in the cart
reports removed=false rather than failing.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - bool: true if a line was removed on this call
  - error: Storage failures
*/
func (service *Service) RemoveLine(context context.Context, userID, bookID string) (bool, error) {
	removed, err := service.cartRepository.Remove(context, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("cart_service_remove_line_failed: %w", err)
	}

	if removed {
		service.logger.Info("cart_line_removed",
			slog.String("user_id", userID),
			slog.String("book_id", bookID),
		)
	}

	return removed, nil
}
