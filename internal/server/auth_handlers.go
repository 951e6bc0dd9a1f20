package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/RikiBob/test-task-for-dzen-code/internal/audit"
	"github.com/RikiBob/test-task-for-dzen-code/internal/identity/service"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
	"github.com/RikiBob/test-task-for-dzen-code/internal/telemetry"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
}

// handleLogin authenticates with email/password and opens a session for the
// calling device. A prior session on the same device is superseded.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fp := fingerprint(r)
	res, err := s.auth.Login(r.Context(), req.Email, req.Password, fp)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			s.logAudit(r, "", audit.ActionLoginFailure, "session", "")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.serverError(w, "login", err)
		return
	}

	s.logAudit(r, res.UserID, audit.ActionLogin, "session", "")
	telemetry.EmitAsync(s.emitter, r.Context(), telemetry.NewEvent(telemetry.EventSessionCreated, res.UserID, fp))

	s.setTokenCookies(w, res.AccessToken, res.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		UserID:       res.UserID,
		UserName:     res.UserName,
	})
}

// handleRefresh exchanges a live refresh token for a new access token. The
// refresh token itself is not rotated. Any verification or lookup failure is
// reported as one generic 401; store faults are 500, never 401.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.Body != nil {
		// Body is optional when the cookie carries the token.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	token := refreshTokenFromRequest(r, req.RefreshToken)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	fp := fingerprint(r)
	res, err := s.auth.Refresh(r.Context(), token, fp)
	if err != nil {
		if session.IsUnauthenticated(err) {
			s.logAudit(r, "", audit.ActionRefreshDenied, "session", "")
			telemetry.EmitAsync(s.emitter, r.Context(), telemetry.NewEvent(telemetry.EventRenewalDenied, "", fp))
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.serverError(w, "refresh", err)
		return
	}

	telemetry.EmitAsync(s.emitter, r.Context(), telemetry.NewEvent(telemetry.EventSessionRenewed, res.UserID, fp))

	s.setTokenCookies(w, res.AccessToken, "")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: res.AccessToken,
		UserID:      res.UserID,
		UserName:    res.UserName,
	})
}

// handleLogout ends the session for the authenticated subject on the calling
// device and clears the token cookies. Logging out twice succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserID(r.Context())
	fp := fingerprint(r)
	if err := s.auth.Logout(r.Context(), userID, fp); err != nil {
		s.serverError(w, "logout", err)
		return
	}

	s.logAudit(r, userID, audit.ActionLogout, "session", "")
	telemetry.EmitAsync(s.emitter, r.Context(), telemetry.NewEvent(telemetry.EventSessionEnded, userID, fp))

	clearTokenCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// logAudit records one audit event; no-op when no audit logger is configured.
func (s *Server) logAudit(r *http.Request, userID, action, resource, metadata string) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(r.Context(), userID, action, resource, metadata)
}

// serverError logs err and writes a generic 500. Store faults land here so
// infrastructure trouble is never mistaken for a bad credential.
func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("server: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
