package httpapi

import (
	"errors"
	"net/http"

	"campushub.org/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	RefID    string `json:"ref_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req registerRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	cred, err := a.auth.Register(r.Context(), req.Email, req.Password, req.Role, req.RefID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			writeDetail(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, auth.ErrInvalidInput):
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		default:
			handleStoreError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": cred.ID})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req loginRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	token, _, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}
