// file: internals/helpers/errors.go
package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorStatus binds a domain sentinel to the HTTP status it surfaces as.
type ErrorStatus struct {
	Err    error
	Status int
}

// FromServiceError turns a service error into a *fiber.Error using table.
// Unmapped errors become a 500 with a generic message; the cause is logged.
func FromServiceError(err error, table ...ErrorStatus) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	var ve *FieldErrors
	if errors.As(err, &fe) || errors.As(err, &ve) {
		return err
	}
	for _, m := range table {
		if errors.Is(err, m.Err) {
			return fiber.NewError(m.Status, err.Error())
		}
	}
	log.Printf("[HTTP] unhandled error: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
}

// ErrorHandler is the app-wide fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *FieldErrors
	if errors.As(err, &ve) {
		return JsonValidationError(c, ve.Fields)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[HTTP] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}
