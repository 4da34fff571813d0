package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/apperror"
	"gesso-pos/pkg/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. AppErrors keep their
// status; fiber errors (unknown route, bad method) map to their code; anything
// else is logged and hidden behind a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()

	if appErr, ok := apperror.AsAppError(err); ok {
		if appErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error(ctx, "request failed", "code", appErr.Code, "error", appErr.Err, "path", c.Path())
		}
		return c.Status(appErr.HTTPStatus).JSON(ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperror.CodeInternal
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = apperror.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = apperror.CodeValidation
		case fiber.StatusUnauthorized:
			code = apperror.CodeUnauthorized
		case fiber.StatusForbidden:
			code = apperror.CodeForbidden
		}
		return c.Status(fiberErr.Code).JSON(ErrorResponse{Code: code, Message: fiberErr.Message})
	}

	logger.Error(ctx, "unhandled error", "error", err, "path", c.Path(), "method", c.Method())
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Code:    apperror.CodeInternal,
		Message: "Internal server error",
	})
}
