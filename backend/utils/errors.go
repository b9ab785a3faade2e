package utils

import (
	stderrors "errors"

	"coursehub/backend/apperr"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to the HTTP status it should surface as.
func StatusFor(err error) int {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	switch apperr.KindOf(err) {
	case apperr.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.ErrForbidden:
		return fiber.StatusForbidden
	case apperr.ErrNotFound:
		return fiber.StatusNotFound
	case apperr.ErrNotCompleted:
		return fiber.StatusUnprocessableEntity
	case apperr.ErrInvalidInput:
		return fiber.StatusBadRequest
	case apperr.ErrConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes the JSON envelope for err. Store failures are not
// echoed to the client.
func RespondError(c *fiber.Ctx, err error) error {
	var fields apperr.FieldErrors
	if stderrors.As(err, &fields) {
		return ValidationError(c, fields)
	}
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		return InternalServerError(c, "Internal server error")
	}
	return Error(c, status, err)
}
