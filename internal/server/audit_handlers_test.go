package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	auditdomain "github.com/RikiBob/test-task-for-dzen-code/internal/audit/domain"
	"github.com/RikiBob/test-task-for-dzen-code/internal/identity/service"
	"github.com/RikiBob/test-task-for-dzen-code/internal/security"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*auditdomain.AuditLog
}

func (r *memAuditRepo) GetByID(ctx context.Context, id string) (*auditdomain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.entries {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *memAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*auditdomain.AuditLog
	for _, a := range r.entries {
		if a.UserID == userID {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if int(offset) >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if int(limit) < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memAuditRepo) Create(ctx context.Context, a *auditdomain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, a)
	return nil
}

func TestListAudit(t *testing.T) {
	repo := &memAuditRepo{}
	codec := security.NewTestCodec([]byte("test-secret"), nil)
	sessions := session.NewManager(codec, session.NewMemoryStore(), 15*time.Minute, 24*time.Hour)
	auth := service.NewAuthService(newMemUserRepo(), security.NewHasher(4), sessions)
	srv := New(Config{
		Auth:       auth,
		Sessions:   sessions,
		AuditLogs:  repo,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	h := srv.Router()
	res, _ := register(t, h)

	base := time.Now().UTC()
	for i, action := range []string{"auth.login", "auth.logout", "auth.login"} {
		_ = repo.Create(context.Background(), &auditdomain.AuditLog{
			ID: string(rune('a' + i)), UserID: res.UserID, Action: action,
			Resource: "session", IP: "127.0.0.1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// Another user's entries must not leak.
	_ = repo.Create(context.Background(), &auditdomain.AuditLog{
		ID: "x", UserID: "someone-else", Action: "auth.login",
		Resource: "session", CreatedAt: base,
	})

	rec := doJSON(t, h, http.MethodGet, "/audit?limit=2", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+res.AccessToken)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Entries []auditLogResponse `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 (limit)", len(body.Entries))
	}
	if body.Entries[0].CreatedAt.Before(body.Entries[1].CreatedAt) {
		t.Error("entries should be newest first")
	}
	for _, e := range body.Entries {
		if e.ID == "x" {
			t.Error("other user's entry leaked")
		}
	}
}

func TestListAudit_Unauthenticated(t *testing.T) {
	srv := newTestServer(t, serverOpts{})
	rec := doJSON(t, srv.Router(), http.MethodGet, "/audit", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestListAudit_NotConfigured(t *testing.T) {
	srv := newTestServer(t, serverOpts{})
	h := srv.Router()
	res, _ := register(t, h)

	rec := doJSON(t, h, http.MethodGet, "/audit", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+res.AccessToken)
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when audit store not configured", rec.Code)
	}
}
