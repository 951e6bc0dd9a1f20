package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RikiBob/test-task-for-dzen-code/internal/audit"
	"github.com/RikiBob/test-task-for-dzen-code/internal/identity/service"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
	"github.com/RikiBob/test-task-for-dzen-code/internal/telemetry"
)

type registerRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Picture  string `json:"picture"`
}

// handleRegister creates a user and signs the new user in on the calling
// device, so the client leaves with a full token pair.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fp := fingerprint(r)
	res, err := s.auth.Register(r.Context(), req.UserName, req.Email, req.Password, req.Picture, fp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered), errors.Is(err, service.ErrUserNameTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, session.ErrStoreUnavailable):
			s.serverError(w, "register", err)
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	s.logAudit(r, res.UserID, audit.ActionRegister, "user", "")
	telemetry.EmitAsync(s.emitter, r.Context(), telemetry.NewEvent(telemetry.EventRegistration, res.UserID, fp))

	s.setTokenCookies(w, res.AccessToken, res.RefreshToken)
	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		UserID:       res.UserID,
		UserName:     res.UserName,
	})
}

// handleDeleteAccount removes the authenticated user and ends the session on
// the calling device.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserID(r.Context())
	fp := fingerprint(r)
	if err := s.auth.DeleteAccount(r.Context(), userID, fp); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.serverError(w, "delete account", err)
		return
	}

	s.logAudit(r, userID, audit.ActionDeleteAccount, "user", "")
	telemetry.EmitAsync(s.emitter, r.Context(), telemetry.NewEvent(telemetry.EventAccountDeleted, userID, fp))

	clearTokenCookies(w)
	w.WriteHeader(http.StatusNoContent)
}
