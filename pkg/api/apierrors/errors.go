// Package apierrors defines the failures a request can end in and how each is rendered.
package apierrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ValidationError is returned for malformed or missing request input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is returned when no fix is stored for a device.
// AvailableDevices is included in the response when set.
type NotFoundError struct {
	Message          string
	AvailableDevices []string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// InternalError wraps an unexpected failure
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// Status returns the HTTP status matching err
func Status(err error) int {
	var validationError *ValidationError
	var notFoundError *NotFoundError
	var fiberError *fiber.Error

	switch {
	case errors.As(err, &validationError):
		return fiber.StatusBadRequest
	case errors.As(err, &notFoundError):
		return fiber.StatusNotFound
	case errors.As(err, &fiberError):
		return fiberError.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// Body returns the JSON body sent to the client for err
func Body(err error) fiber.Map {
	var validationError *ValidationError
	var notFoundError *NotFoundError
	var fiberError *fiber.Error

	switch {
	case errors.As(err, &validationError):
		return fiber.Map{
			"error": validationError.Message,
		}
	case errors.As(err, &notFoundError):
		body := fiber.Map{
			"error": notFoundError.Message,
		}
		if notFoundError.AvailableDevices != nil {
			body["available_devices"] = notFoundError.AvailableDevices
		}
		return body
	case errors.As(err, &fiberError) && fiberError.Code < fiber.StatusInternalServerError:
		return fiber.Map{
			"error": fiberError.Message,
		}
	default:
		return fiber.Map{
			"error":   "Internal server error",
			"details": err.Error(),
		}
	}
}
