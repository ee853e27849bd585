package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/api/response"
	"github.com/flightroutes/flightroutes/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /v1/auth/login - exchange operator credentials for a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Username == "" || input.Password == "" {
		response.BadRequest(w, r, "username and password are required", []models.FieldError{
			{Field: "username", Message: "required"},
			{Field: "password", Message: "required"},
		})
		return
	}

	session, err := h.service.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid credentials")
			return
		}
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.LoginResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   models.Timestamp(session.ExpiresAt),
		Role:        session.Role,
	})
}
