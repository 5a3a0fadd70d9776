package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// LoginHandler godoc
// @Summary Exchange admin credentials for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if tokenIssuer == nil || userRepo == nil {
		writeMessage(w, r, http.StatusNotFound, "authentication is disabled")
		return
	}

	var creds UserLogin
	if err := readJSON(w, r, &creds); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeMessage(w, r, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := userRepo.GetByUsername(creds.Username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			writeMessage(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		internalError(w, r, "could not fetch user", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		writeMessage(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := tokenIssuer.GenerateToken(user)
	if err != nil {
		internalError(w, r, "failed to generate token", err)
		return
	}
	respond(w, r, http.StatusOK, LoginResult{Token: token})
}

// HealthHandler reports that the process is serving.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
