// file: internals/helpers/json_response.go
package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/configs"
)

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	ErrorCode string            `json:"error_code,omitempty"`
	Error     string            `json:"error,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

// JsonError: error generic (bukan validasi)
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.NewError(status).Message
	}

	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonInternal logs err and answers 500. The underlying error text is only
// exposed outside production.
func JsonInternal(c *fiber.Ctx, message string, err error) error {
	log.Printf("[ERROR] %s %s: %s: %v", c.Method(), c.OriginalURL(), message, err)
	resp := ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(fiber.StatusInternalServerError),
	}
	if err != nil && !configs.IsProduction() {
		resp.Error = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

// JsonValidationError: error validasi (400) dengan detail per field.
func JsonValidationError(c *fiber.Ctx, err error) error {
	var own *ValidationError
	if errors.As(err, &own) {
		resp := ErrorResponse{
			Success:   false,
			Message:   own.Error(),
			ErrorCode: statusToErrorCode(fiber.StatusBadRequest),
		}
		if len(own.Fields) > 0 {
			resp.Errors = make(map[string]string, len(own.Fields))
			for _, f := range own.Fields {
				resp.Errors[f.Field] = f.Error
			}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success:   false,
		Message:   "validation failed",
		ErrorCode: statusToErrorCode(fiber.StatusBadRequest),
		Errors:    fields,
	})
}

/* ===============================
   JSON responses (success)
=================================*/

// JsonOK: 200 dengan payload apa adanya (kontrak REST tidak memakai envelope).
func JsonOK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// JsonCreated: 201 (POST)
func JsonCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// JsonList: 200 list; nil slices are written as [].
func JsonList[T any](c *fiber.Ctx, data []T) error {
	if data == nil {
		data = []T{}
	}
	return c.Status(fiber.StatusOK).JSON(data)
}

// JsonDeleted: 200 dengan pesan + id yang dihapus.
func JsonDeleted(c *fiber.Ctx, message string, id any) error {
	if strings.TrimSpace(message) == "" {
		message = "deleted"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"id":      id,
	})
}
