package response

import (
	"errors"

	apperrors "cardfields/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// DomainError writes a classified error with its code and the status the
// code maps to.
func DomainError(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(err error) int {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		return fiber.StatusInternalServerError
	}
	switch de.Code {
	case apperrors.CodeConfiguration, apperrors.CodeConflictingCallbacks, apperrors.CodeUnsupportedAction:
		return fiber.StatusBadRequest
	case apperrors.CodeFieldsUnavailable, apperrors.CodeInvalidVaultToken:
		return fiber.StatusUnprocessableEntity
	case apperrors.CodeUpstreamRejection:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
