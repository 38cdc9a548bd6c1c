package handler

import (
	"errors"
	"strconv"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/pkg/apperror"
	"booknest.app/bookreviewapi/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindError converts a binding failure into the right error kind: schema
// violations carry every field message, anything else (malformed JSON, type
// mismatches) is a plain bad request.
func bindError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return apperror.Validation(validation.FormatValidationError(validationErrors), err)
	}

	return apperror.BadRequest("Invalid request body")
}

// parsePagination reads page and a limit query parameter (the key varies by
// endpoint), applying the defaults and bounds shared by every list endpoint.
// Non-numeric values fall back to the defaults.
func parsePagination(c *gin.Context, limitKey string) (dto.PageQuery, error) {
	page, limit := 1, 10

	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := c.Query(limitKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	if page < 1 {
		return dto.PageQuery{}, apperror.BadRequest("Page must be at least 1")
	}
	if limit < 1 || limit > 50 {
		return dto.PageQuery{}, apperror.BadRequest("Limit must be between 1 and 50")
	}

	return dto.PageQuery{Page: page, Limit: limit}, nil
}
