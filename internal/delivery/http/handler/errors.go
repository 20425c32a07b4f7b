package handler

import (
	"errors"
	"net/http"

	"github.com/VladKovDev/tguser-api/internal/auth"
	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/services"
	"github.com/VladKovDev/tguser-api/internal/services/validation"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Problem is the body of every error response.
type Problem struct {
	Status     int         `json:"status"`
	Title      string      `json:"title"`
	Detail     string      `json:"detail"`
	Violations []Violation `json:"violations,omitempty"`
}

type Violation struct {
	PropertyPath string `json:"propertyPath"`
	Message      string `json:"message"`
	Expected     string `json:"expected,omitempty"`
	Actual       string `json:"actual,omitempty"`
}

// ErrorHandler renders handler errors as Problem bodies. Unknown errors are
// logged and answered with a generic 500.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		p := toProblem(err)
		if p.Status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		if p.Status == http.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return c.Status(p.Status).JSON(p)
	}
}

func toProblem(err error) Problem {
	var verr *entity.ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return Problem{
			Status: http.StatusBadRequest,
			Title:  "An error occurred",
			Detail: verr.Message,
			Violations: []Violation{{
				PropertyPath: verr.Field,
				Message:      verr.Message,
				Expected:     verr.Expected,
				Actual:       verr.Actual,
			}},
		}
	case errors.Is(err, validation.ErrMalformedBody):
		return problem(http.StatusBadRequest, "Syntax error")
	case errors.Is(err, services.ErrInvalidPage):
		return problem(http.StatusBadRequest, "Page should not be less than 1")
	case auth.IsUnauthorized(err):
		return problem(http.StatusUnauthorized, unauthorizedDetail(err))
	case errors.Is(err, entity.ErrNotFound):
		return problem(http.StatusNotFound, "Not Found")
	case errors.Is(err, entity.ErrConflict):
		return problem(http.StatusConflict, "A telegram user with this telegramId already exists.")
	case errors.As(err, &ferr):
		return problem(ferr.Code, ferr.Message)
	default:
		return problem(http.StatusInternalServerError, "Internal Server Error")
	}
}

func problem(status int, detail string) Problem {
	return Problem{Status: status, Title: "An error occurred", Detail: detail}
}

func unauthorizedDetail(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials."
	case errors.Is(err, auth.ErrTokenNotFound):
		return "Token not found"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Expired Token"
	case errors.Is(err, auth.ErrRevokedToken):
		return "Revoked Token"
	default:
		return "Invalid Token"
	}
}
