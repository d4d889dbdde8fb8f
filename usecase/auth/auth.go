// Package auth implements credential verification and session issuance.
// Login is the single place a role is read to seed a token, and there it is
// only ever a cache; every later privileged action re-validates through the
// guard.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/internal/validation"
	"github.com/skillmart/backend/pkg/password"
	"github.com/skillmart/backend/pkg/token"
	"github.com/skillmart/backend/repository"
	"github.com/skillmart/backend/usecase"
)

// Credentials is the login schema. It is checked before any storage lookup.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Registration is the signup schema.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResult carries the issued bearer token alongside the session record
// and the identity summary returned to the client.
type LoginResult struct {
	Token   string
	Session *domain.Session
	User    domain.UserSummary
}

type UseCase struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	audit      usecase.AuditRecorder
	logger     *zap.Logger
	secret     []byte
	sessionTTL time.Duration
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	audit usecase.AuditRecorder,
	logger *zap.Logger,
	secret []byte,
	sessionTTL time.Duration,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UseCase{
		users:      users,
		sessions:   sessions,
		audit:      audit,
		logger:     logger,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

const loginRoute = "/api/v1/auth/login"

// Login verifies credentials and issues a session plus bearer token.
// Structurally invalid input fails before any storage lookup. Unknown email,
// password-less accounts and wrong passwords are indistinguishable in the
// returned error; the distinction lives in the audit trail only.
func (uc *UseCase) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if issues := validation.Check(creds); issues != nil {
		return nil, issues
	}

	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.recordFailure("", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() {
		uc.recordFailure(user.ID, "password login not configured")
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(creds.Password, *user.PasswordHash) {
		uc.recordFailure(user.ID, "password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	signed, err := token.Generate(uc.secret, user, session.ID, uc.sessionTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:   signed,
		Session: session,
		User:    user.Summary(),
	}, nil
}

// Register creates an identity with a hashed credential and the default role.
func (uc *UseCase) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	if issues := validation.Check(reg); issues != nil {
		return nil, issues
	}

	digest, err := password.Hash(reg.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(reg.Email)),
		Username:     strings.TrimSpace(reg.Username),
		PasswordHash: &digest,
		Role:         domain.RoleCustomer,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes the session behind the token.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrSessionNotFound
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// RefreshSession extends a live session.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(uc.sessionTTL.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(uc.sessionTTL)
	return session, nil
}

func (uc *UseCase) recordFailure(userID, reason string) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(domain.AuditLogEntry{
		UserID: userID,
		Route:  loginRoute,
		Action: domain.AuditAuthFailure,
		Reason: reason,
	})
}
