package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openfell/telemetry-core/internal/auth"
)

// registerRequest is the payload for POST /register.
type registerRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// loginRequest is the payload for POST /login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest is the payload for POST /refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// changePasswordRequest is the payload for PATCH /change_password.
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// handleRegister creates a new user account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Username == "" || req.FirstName == "" || req.LastName == "" ||
		req.Email == "" || req.Password == "" {
		writeBadRequest(w, "username, firstName, lastName, email and password are required")
		return
	}
	if !auth.IsValidUsername(req.Username) {
		writeBadRequest(w, "username may only contain letters, digits, dots, hyphens and underscores")
		return
	}

	user := &auth.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		s.logger.Error("hashing password", "error", err)
		writeInternalError(w, "could not create user")
		return
	}

	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrDuplicateIdentity) {
			writeBadRequest(w, "username or email already registered")
			return
		}
		s.logger.Error("creating user", "error", err)
		writeInternalError(w, "could not create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// handleLogin verifies credentials and issues an access/refresh token pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, err := s.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// same response as a wrong password, no account probing
			writeUnauthorized(w, "invalid username or password")
			return
		}
		s.logger.Error("looking up user", "error", err)
		writeInternalError(w, "could not log in")
		return
	}

	if !user.Check(req.Password) {
		writeUnauthorized(w, "invalid username or password")
		return
	}

	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		s.logger.Error("issuing access token", "error", err)
		writeInternalError(w, "could not log in")
		return
	}
	refreshToken, err := s.tokens.IssueRefresh(user)
	if err != nil {
		s.logger.Error("issuing refresh token", "error", err)
		writeInternalError(w, "could not log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// handleRefresh exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated. The token travels as bearer
// auth; a JSON body with refreshToken is accepted as a fallback.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		writeUnauthorized(w, "missing refresh token")
		return
	}

	accessToken, err := s.tokens.Refresh(token)
	if err != nil {
		writeUnauthorized(w, "invalid or expired refresh token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": accessToken,
	})
}

// handleProfile returns the authenticated user's account.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	user, err := s.users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// token outlived the account
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("loading profile", "error", err)
		writeInternalError(w, "could not load profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleChangePassword updates the authenticated user's password after
// re-verifying the old one.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeBadRequest(w, "oldPassword and newPassword are required")
		return
	}

	user, err := s.users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// token outlived the account
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("loading user for password change", "error", err)
		writeInternalError(w, "could not change password")
		return
	}

	if !user.Check(req.OldPassword) {
		writeUnauthorized(w, "old password is incorrect")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		s.logger.Error("hashing new password", "error", err)
		writeInternalError(w, "could not change password")
		return
	}
	if err := s.users.UpdatePassword(r.Context(), user.ID, user.PasswordHash); err != nil {
		s.logger.Error("storing new password", "error", err)
		writeInternalError(w, "could not change password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "password updated",
	})
}
