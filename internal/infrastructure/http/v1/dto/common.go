// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// --- Pagination ---

// PageQuery contains limit/offset query parameters.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page converts to the domain page; zero limit means the default page size.
func (p PageQuery) Page() domain.Page {
	return domain.Page{Limit: p.Limit, Offset: p.Offset}.Normalize()
}

// PeriodQuery is a created-at window: from inclusive, to exclusive.
type PeriodQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate rejects an inverted window.
func (p PeriodQuery) Validate() error {
	if p.From != nil && p.To != nil && !p.From.Before(*p.To) {
		return apperror.NewValidation("from must be before to").
			WithDetail("from", p.From).
			WithDetail("to", p.To)
	}
	return nil
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OptionalID parses an optional id field.
func OptionalID(field string, s *string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := id.ParseField(field, *s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
