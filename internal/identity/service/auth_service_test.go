package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RikiBob/test-task-for-dzen-code/internal/security"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
	userdomain "github.com/RikiBob/test-task-for-dzen-code/internal/user/domain"
)

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*userdomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*userdomain.User)}
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUserName(ctx context.Context, userName string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.UserName == userName {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *memUserRepo) {
	t.Helper()
	userRepo := newMemUserRepo()
	hasher := security.NewHasher(4)
	codec := security.NewTestCodec([]byte("test-secret"), nil)
	sessions := session.NewManager(codec, session.NewMemoryStore(), 15*time.Minute, 24*time.Hour)
	return NewAuthService(userRepo, hasher, sessions), userRepo
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice", "alice@example.com", "password123", "", "agent-A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.UserID == "" {
		t.Fatal("expected user_id")
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("Register should open a session and return tokens")
	}
	if res.UserName != "alice" {
		t.Errorf("UserName = %q, want %q", res.UserName, "alice")
	}

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "otherpass123", "", "agent-A")
	if err != ErrEmailAlreadyRegistered {
		t.Errorf("duplicate email: want ErrEmailAlreadyRegistered, got %v", err)
	}
	_, err = svc.Register(ctx, "alice", "alice2@example.com", "otherpass123", "", "agent-A")
	if err != ErrUserNameTaken {
		t.Errorf("duplicate user name: want ErrUserNameTaken, got %v", err)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bad-email", "password123", "", ""); err == nil {
		t.Error("invalid email should fail")
	}
	if _, err := svc.Register(ctx, "", "b@b.co", "password123", "", ""); err == nil {
		t.Error("empty user name should fail")
	}
	if _, err := svc.Register(ctx, "bob", "b@b.co", "short", "", ""); err == nil {
		t.Error("short password should fail")
	}
}

func TestAuthService_LoginAndRefreshAndLogout(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, "alice", "alice@example.com", "password123", "", "agent-A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	loginRes, err := svc.Login(ctx, "alice@example.com", "password123", "agent-A")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginRes.AccessToken == "" || loginRes.RefreshToken == "" {
		t.Fatal("Login should return tokens")
	}
	if loginRes.UserID != reg.UserID {
		t.Errorf("Login user: got %q, want %q", loginRes.UserID, reg.UserID)
	}

	refreshRes, err := svc.Refresh(ctx, loginRes.RefreshToken, "agent-A")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshRes.AccessToken == "" {
		t.Fatal("Refresh should return a new access token")
	}
	if refreshRes.RefreshToken != "" {
		t.Error("Refresh should not rotate the refresh token")
	}
	if refreshRes.UserID != reg.UserID || refreshRes.UserName != "alice" {
		t.Errorf("Refresh identity: got %q %q", refreshRes.UserID, refreshRes.UserName)
	}

	if err := svc.Logout(ctx, reg.UserID, "agent-A"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = svc.Refresh(ctx, loginRes.RefreshToken, "agent-A")
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Refresh after logout: want ErrSessionNotFound, got %v", err)
	}
	// Logout again is a no-op.
	if err := svc.Logout(ctx, reg.UserID, "agent-A"); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, _ = svc.Register(ctx, "alice", "alice@example.com", "password123", "", "")

	_, err := svc.Login(ctx, "alice@example.com", "wrongpass123", "agent-A")
	if err != ErrInvalidCredentials {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login(ctx, "nobody@example.com", "password123", "agent-A")
	if err != ErrInvalidCredentials {
		t.Errorf("unknown email: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginSupersedesPriorSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, _ = svc.Register(ctx, "alice", "alice@example.com", "password123", "", "agent-A")

	first, err := svc.Login(ctx, "alice@example.com", "password123", "agent-A")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	if _, err := svc.Login(ctx, "alice@example.com", "password123", "agent-A"); err != nil {
		t.Fatalf("second Login: %v", err)
	}

	_, err = svc.Refresh(ctx, first.RefreshToken, "agent-A")
	if !errors.Is(err, session.ErrSessionMismatch) {
		t.Errorf("Refresh with superseded token: want ErrSessionMismatch, got %v", err)
	}
}

func TestAuthService_Refresh_EmptyToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, err := svc.Refresh(context.Background(), "", "agent-A")
	if !errors.Is(err, security.ErrTokenMalformed) {
		t.Errorf("empty token: want ErrTokenMalformed, got %v", err)
	}
}

func TestAuthService_Refresh_WrongDevice(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	reg, _ := svc.Register(ctx, "alice", "alice@example.com", "password123", "", "agent-A")

	_, err := svc.Refresh(ctx, reg.RefreshToken, "agent-B")
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("wrong device: want ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc, userRepo := newTestAuthService(t)
	ctx := context.Background()
	reg, _ := svc.Register(ctx, "alice", "alice@example.com", "password123", "", "agent-A")

	if err := svc.DeleteAccount(ctx, reg.UserID, "agent-A"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if u, _ := userRepo.GetByID(ctx, reg.UserID); u != nil {
		t.Error("user row should be gone")
	}
	_, err := svc.Refresh(ctx, reg.RefreshToken, "agent-A")
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Refresh after delete: want ErrSessionNotFound, got %v", err)
	}

	if err := svc.DeleteAccount(ctx, reg.UserID, "agent-A"); err != ErrUserNotFound {
		t.Errorf("second DeleteAccount: want ErrUserNotFound, got %v", err)
	}
}
