package server

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type errorBody struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// ErrorHandler translates domain errors into HTTP responses. Validation
// failures surface per-field messages; rich errors map by category so
// handlers never pick status codes themselves.
func ErrorHandler(logger Logger, debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": errorBody{
					Message:  "validation failed",
					TextCode: "VALIDATION_ERROR",
				},
				"fields": verrs,
			})
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			if debug {
				fmt.Println("================")
				fmt.Println(print.MaybePrettyJSON(richErr))
				fmt.Println("================")
			}

			status := statusFromError(richErr)
			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed", "status", status, "error", err)
			}

			return c.Status(status).JSON(errorResponse{
				Error: errorBody{
					Message:  richErr.Message,
					TextCode: richErr.TextCode,
				},
			})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(errorResponse{
				Error: errorBody{Message: ferr.Message},
			})
		}

		logger.Error("unhandled error", "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error: errorBody{Message: "internal server error"},
		})
	}
}

func statusFromError(err *goerrors.Error) int {
	switch err.Code {
	case goerrors.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case goerrors.CodeForbidden:
		return fiber.StatusForbidden
	case goerrors.CodeNotFound:
		return fiber.StatusNotFound
	case goerrors.CodeConflict:
		return fiber.StatusConflict
	case goerrors.CodeBadRequest:
		return fiber.StatusBadRequest
	}

	switch err.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	}

	return fiber.StatusInternalServerError
}
