package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "gearguard/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T             `json:"list"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type PaginationMeta struct {
	TotalCount uint64 `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// SuccessOne returns a single object wrapped in the standard envelope.
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T, total uint64, page, limit int) error {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}

	if list == nil {
		list = make([]T, 0)
	}

	body := ListBody[T]{
		List: list,
		Pagination: &PaginationMeta{
			TotalCount: total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
		},
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    body,
	})
}

// ErrorResponse translates an error into the JSON envelope. HttpError carries
// its own code and user-facing message; sentinel errors are mapped through
// apperrors.StatusCodes; validator errors are a 400.
func ErrorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	msg := err.Error()

	var httpErr *apperrors.HttpError
	var invalidInput *apperrors.InvalidInputError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		msg = httpErr.Message
	case errors.As(err, &invalidInput):
		code = http.StatusBadRequest
		msg = invalidInput.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
	default:
		for sentinel, statusCode := range apperrors.StatusCodes {
			if errors.Is(err, sentinel) {
				code = statusCode
				msg = sentinel.Error()
				break
			}
		}
	}

	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
