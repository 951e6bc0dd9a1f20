package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RikiBob/test-task-for-dzen-code/internal/security"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
	userdomain "github.com/RikiBob/test-task-for-dzen-code/internal/user/domain"
)

// Sentinel errors for auth service; handler maps them to HTTP status codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUserNameTaken          = errors.New("user name already taken")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
)

// AuthResult holds the outcome of Register, Login, or Refresh.
type AuthResult struct {
	UserID       string
	UserName     string
	AccessToken  string
	RefreshToken string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByUserName(ctx context.Context, userName string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	Delete(ctx context.Context, id string) error
}

// AuthService implements password-only register, login, refresh, logout, and
// account deletion on top of the session manager.
type AuthService struct {
	userRepo UserRepo
	hasher   *security.Hasher
	sessions *session.Manager
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(userRepo UserRepo, hasher *security.Hasher, sessions *session.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
	}
}

// Register creates a user with the given user name, email, and password, and
// opens a session for the caller's device so the client is signed in
// immediately after sign-up.
func (s *AuthService) Register(ctx context.Context, userName, email, password, picture, fingerprint string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	userName = strings.TrimSpace(userName)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUserName(userName); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	existing, err = s.userRepo.GetByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserNameTaken
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		UserName:     userName,
		Email:        email,
		PasswordHash: hashed,
		Picture:      strings.TrimSpace(picture),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	pair, err := s.sessions.Create(ctx, user.ID, user.UserName, fingerprint)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:       user.ID,
		UserName:     user.UserName,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Login authenticates with email/password and opens a session for the
// caller's device. A prior session on the same device is superseded.
func (s *AuthService) Login(ctx context.Context, email, password, fingerprint string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	pair, err := s.sessions.Create(ctx, user.ID, user.UserName, fingerprint)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:       user.ID,
		UserName:     user.UserName,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh validates the refresh token against the live session for the
// caller's device and returns a new access token. The refresh token is not
// rotated; the client keeps using the one it holds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, fingerprint string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, security.ErrTokenMalformed
	}
	accessToken, err := s.sessions.Renew(ctx, refreshToken, fingerprint)
	if err != nil {
		return nil, err
	}
	claims, err := s.sessions.Inspect(refreshToken)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:      claims.Subject,
		UserName:    claims.Label,
		AccessToken: accessToken,
	}, nil
}

// Logout ends the session for (subject, fingerprint). Logging out an absent
// session succeeds.
func (s *AuthService) Logout(ctx context.Context, subject, fingerprint string) error {
	return s.sessions.End(ctx, subject, fingerprint)
}

// DeleteAccount removes the user row and ends the session on the calling
// device. Sessions on other devices die when their store TTL lapses.
func (s *AuthService) DeleteAccount(ctx context.Context, subject, fingerprint string) error {
	user, err := s.userRepo.GetByID(ctx, subject)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.Delete(ctx, subject); err != nil {
		return err
	}
	return s.sessions.End(ctx, subject, fingerprint)
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validateUserName(userName string) error {
	if userName == "" {
		return errors.New("user name is required")
	}
	if len(userName) > 64 {
		return errors.New("user name must be at most 64 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
