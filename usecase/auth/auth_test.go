package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/internal/validation"
	"github.com/skillmart/backend/pkg/password"
	"github.com/skillmart/backend/pkg/token"
)

type countingUserRepo struct {
	byEmail map[string]*domain.User
	lookups int
}

func (r *countingUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.lookups++
	for _, user := range r.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *countingUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.lookups++
	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *countingUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.byEmail == nil {
		r.byEmail = map[string]*domain.User{}
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailTaken
	}
	user.ID = "created"
	r.byEmail[user.Email] = user
	return nil
}

func (r *countingUserRepo) Upsert(context.Context, *domain.User) error { return nil }
func (r *countingUserRepo) UpdateRole(context.Context, string, domain.Role) error {
	return nil
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func (r *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	if r.sessions == nil {
		r.sessions = map[string]*domain.Session{}
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) Extend(context.Context, string, int) error { return nil }

type captureRecorder struct {
	entries []domain.AuditLogEntry
}

func (c *captureRecorder) Record(entry domain.AuditLogEntry) {
	c.entries = append(c.entries, entry)
}

const testSecret = "test-secret-test-secret-12345678"

func seededRepo(t *testing.T, email, plaintext string, role domain.Role) *countingUserRepo {
	t.Helper()
	digest, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &countingUserRepo{byEmail: map[string]*domain.User{
		email: {ID: "u1", Email: email, Username: "tester", PasswordHash: &digest, Role: role},
	}}
}

func newUseCase(users *countingUserRepo, sessions *memSessionRepo, rec *captureRecorder) *UseCase {
	return New(users, sessions, rec, nil, []byte(testSecret), time.Hour)
}

func TestLoginInvalidPayloadSkipsStorage(t *testing.T) {
	users := &countingUserRepo{}
	uc := newUseCase(users, &memSessionRepo{}, &captureRecorder{})

	_, err := uc.Login(context.Background(), Credentials{Email: "not-an-email", Password: "short"})
	var issues validation.Issues
	if !errors.As(err, &issues) {
		t.Fatalf("expected validation issues, got %v", err)
	}
	if users.lookups != 0 {
		t.Fatalf("expected zero storage lookups, got %d", users.lookups)
	}
}

func TestLoginPasswordTooShortRejected(t *testing.T) {
	uc := newUseCase(&countingUserRepo{}, &memSessionRepo{}, &captureRecorder{})

	_, err := uc.Login(context.Background(), Credentials{Email: "a@b.com", Password: "1234567"})
	var issues validation.Issues
	if !errors.As(err, &issues) {
		t.Fatalf("expected validation issues, got %v", err)
	}
}

func TestLoginUnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	users := seededRepo(t, "known@example.com", "correct-horse", domain.RoleCustomer)
	rec := &captureRecorder{}
	uc := newUseCase(users, &memSessionRepo{}, rec)

	_, errUnknown := uc.Login(context.Background(), Credentials{Email: "ghost@example.com", Password: "whatever-long"})
	_, errWrong := uc.Login(context.Background(), Credentials{Email: "known@example.com", Password: "wrong-password"})

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) || !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Fatalf("expected generic credential error, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("error text leaks which factor failed: %q vs %q", errUnknown, errWrong)
	}

	// The distinction lives in the audit trail.
	if len(rec.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(rec.entries))
	}
	if rec.entries[0].Reason == rec.entries[1].Reason {
		t.Fatalf("audit reasons should differ, both %q", rec.entries[0].Reason)
	}
	for _, entry := range rec.entries {
		if entry.Action != domain.AuditAuthFailure {
			t.Fatalf("expected AUTH_FAILURE, got %s", entry.Action)
		}
	}
}

func TestLoginIssuesSessionWithAdvisoryRole(t *testing.T) {
	users := seededRepo(t, "seller@example.com", "correct-horse", domain.RoleSeller)
	sessions := &memSessionRepo{}
	uc := newUseCase(users, sessions, &captureRecorder{})

	result, err := uc.Login(context.Background(), Credentials{Email: "Seller@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Session.Role != domain.RoleSeller {
		t.Fatalf("session carries role %s", result.Session.Role)
	}
	if _, ok := sessions.sessions[result.Session.ID]; !ok {
		t.Fatalf("session not persisted")
	}

	claims, err := token.Parse([]byte(testSecret), result.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != "u1" || claims.SessionID != result.Session.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Role != string(domain.RoleSeller) {
		t.Fatalf("advisory role claim missing, got %q", claims.Role)
	}
}

func TestLoginPasswordlessAccount(t *testing.T) {
	users := &countingUserRepo{byEmail: map[string]*domain.User{
		"sso@example.com": {ID: "u2", Email: "sso@example.com", Role: domain.RoleCustomer},
	}}
	rec := &captureRecorder{}
	uc := newUseCase(users, &memSessionRepo{}, rec)

	_, err := uc.Login(context.Background(), Credentials{Email: "sso@example.com", Password: "irrelevant-pw"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected generic credential error, got %v", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].UserID != "u2" {
		t.Fatalf("expected audit entry for u2, got %+v", rec.entries)
	}
}

func TestRegisterHashesAndDefaultsRole(t *testing.T) {
	users := &countingUserRepo{}
	uc := newUseCase(users, &memSessionRepo{}, &captureRecorder{})

	user, err := uc.Register(context.Background(), Registration{
		Email:    "New@Example.com",
		Username: "newbie",
		Password: "long-enough-pw",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected default role, got %s", user.Role)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == nil || *user.PasswordHash == "long-enough-pw" {
		t.Fatalf("password stored without hashing")
	}
	if !password.Verify("long-enough-pw", *user.PasswordHash) {
		t.Fatalf("stored digest does not verify")
	}
}

func TestRefreshSessionExpired(t *testing.T) {
	sessions := &memSessionRepo{sessions: map[string]*domain.Session{
		"s1": {ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)},
	}}
	uc := newUseCase(&countingUserRepo{}, sessions, &captureRecorder{})

	if _, err := uc.RefreshSession(context.Background(), "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
	if _, ok := sessions.sessions["s1"]; ok {
		t.Fatalf("expired session should be deleted")
	}
}
