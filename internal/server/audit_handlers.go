package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RikiBob/test-task-for-dzen-code/internal/audit/domain"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type auditLogResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// handleListAudit returns the authenticated user's audit trail, newest first.
// limit and offset come from query parameters.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditLogs == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	userID, _ := GetUserID(r.Context())
	limit := queryInt(r, "limit", auditDefaultLimit)
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	logs, err := s.auditLogs.ListByUser(r.Context(), userID, int32(limit), int32(offset))
	if err != nil {
		s.serverError(w, "list audit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": toAuditResponses(logs)})
}

func toAuditResponses(logs []*domain.AuditLog) []auditLogResponse {
	out := make([]auditLogResponse, 0, len(logs))
	for _, a := range logs {
		out = append(out, auditLogResponse{
			ID:        a.ID,
			Action:    a.Action,
			Resource:  a.Resource,
			IP:        a.IP,
			Metadata:  a.Metadata,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
