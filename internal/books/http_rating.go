// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package books

import (
	"net/http"

	"github.com/phamduc/sachly/internal/platform/request"
	"github.com/phamduc/sachly/internal/platform/respond"
	"github.com/phamduc/sachly/internal/platform/validate"
)

// # Rating Payloads

type submitRatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// # Rating Endpoints

/*
getRatingSummary returns the aggregate rating view for a book.

GET /books/rate/{id}

Description: A book with no ratings yields average_rate 0 and an empty
comment list.

Response:
  - 200: RatingSummary: Average score plus annotated comments
  - 404: NOT_FOUND: No such book
*/
func (handler *Handler) getRatingSummary(writer http.ResponseWriter, req *http.Request) {
	id := request.ID(req, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	summary, err := handler.bookService.RatingSummary(req.Context(), id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, summary)
}

/*
submitRating records or replaces the caller's rating for a book.

PUT /books/rate/{id}

Description: Resubmitting with identical score and comment is a no-op;
resubmitting with different values replaces the previous rating in place.

Request:
  - Body: submitRatingRequest (Score 1-5, Comment)

Response:
  - 204: Rating recorded
  - 400: VALIDATION_ERROR: Score out of range
  - 404: NOT_FOUND: No such book
*/
func (handler *Handler) submitRating(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	id := request.ID(req, "id")

	var input submitRatingRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.UUID("id", id).
		Range(FieldScore, input.Score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.bookService.SubmitRating(req.Context(), id, userID, SubmitRatingInput{
		Score:   input.Score,
		Comment: input.Comment,
	}); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}
