package handler

import (
	"encoding/json"
	"net/http"

	"github.com/VladKovDev/tguser-api/internal/auth"
	"github.com/VladKovDev/tguser-api/internal/delivery/http/middleware"
	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/services/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(auth *auth.Service) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Login handles POST /authentication_token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return validation.ErrMalformedBody
	}
	if req.Email == "" {
		return entity.Required("email", validation.TypeString)
	}
	if req.Password == "" {
		return entity.Required("password", validation.TypeString)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(TokenResponse{Token: token})
}

// Logout handles DELETE /authentication_token. It must run behind middleware.Bearer.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return entity.ErrUnauthorized
	}
	if err := h.auth.Revoke(c.UserContext(), claims); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
