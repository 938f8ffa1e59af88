package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"parkhouse/internal/entities"
	"parkhouse/internal/httperr"
	"parkhouse/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, req entities.RegisterRequest) (*entities.UserResponse, error)
	Login(ctx context.Context, req entities.LoginRequest) (string, error)
}

type AuthHandler struct {
	Service AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.Service.Register(r.Context(), req)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	token, err := h.Service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.TokenResponse{Token: token})
}
