package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
)

type stubUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUserRepo) Create(context.Context, *domain.User) error  { return nil }
func (s *stubUserRepo) Upsert(context.Context, *domain.User) error  { return nil }
func (s *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	if user, ok := s.users[id]; ok {
		user.Role = role
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type captureRecorder struct {
	entries []domain.AuditLogEntry
}

func (c *captureRecorder) Record(entry domain.AuditLogEntry) {
	c.entries = append(c.entries, entry)
}

func TestAuthorizeDeniedWithSingleAuditEntry(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleCustomer},
	}}
	rec := &captureRecorder{}
	g := New(repo, rec, nil)

	_, err := g.Authorize(context.Background(), "u1",
		domain.NewRoleSet(domain.RoleAdmin, domain.RoleWriter),
		Options{Route: "/api/v1/courses"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.Action != domain.AuditDeniedAccess {
		t.Fatalf("expected DENIED_ACCESS, got %s", entry.Action)
	}
	if entry.Reason != "required roles: ADMIN, WRITER" {
		t.Fatalf("unexpected reason %q", entry.Reason)
	}
	if entry.UserID != "u1" || entry.Role != domain.RoleCustomer || entry.Route != "/api/v1/courses" {
		t.Fatalf("entry missing context: %+v", entry)
	}
}

func TestAuthorizeReflectsRoleChangeImmediately(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleAdmin},
	}}
	g := New(repo, &captureRecorder{}, nil)
	required := domain.NewRoleSet(domain.RoleAdmin)

	if _, err := g.Authorize(context.Background(), "u1", required, Options{Route: "/api/v1/admin/audit"}); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}

	// Demote between calls; the next check must see the stored role, not
	// anything cached from the first decision.
	if err := repo.UpdateRole(context.Background(), "u1", domain.RoleCustomer); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if _, err := g.Authorize(context.Background(), "u1", required, Options{Route: "/api/v1/admin/audit"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden after demotion, got %v", err)
	}
}

func TestAuthorizeEmptyRoleSetNeverAllows(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleAdmin},
	}}
	g := New(repo, &captureRecorder{}, nil)

	_, err := g.Authorize(context.Background(), "u1", nil, Options{Route: "/x"})
	if !errors.Is(err, domain.ErrEmptyRoleSet) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !domain.IsDomainError(err, domain.ErrCodeConfig) {
		t.Fatalf("expected CONFIG code, got %v", err)
	}
}

func TestAuthorizeMissingSubject(t *testing.T) {
	rec := &captureRecorder{}
	g := New(&stubUserRepo{}, rec, nil)

	_, err := g.Authorize(context.Background(), "", domain.NewRoleSet(domain.RoleAdmin), Options{Route: "/x"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.AuditAuthFailure {
		t.Fatalf("expected AUTH_FAILURE entry, got %+v", rec.entries)
	}
}

func TestAuthorizeUnknownSubject(t *testing.T) {
	rec := &captureRecorder{}
	g := New(&stubUserRepo{users: map[string]*domain.User{}}, rec, nil)

	_, err := g.Authorize(context.Background(), "ghost", domain.NewRoleSet(domain.RoleAdmin), Options{Route: "/x"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.AuditAuthFailure {
		t.Fatalf("expected AUTH_FAILURE entry, got %+v", rec.entries)
	}
}

func TestAuthorizeUnknownStoredRole(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.Role("SUPERUSER")},
	}}
	rec := &captureRecorder{}
	g := New(repo, rec, nil)

	_, err := g.Authorize(context.Background(), "u1", domain.NewRoleSet(domain.RoleAdmin), Options{Route: "/x"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.AuditRoleValidationFailed {
		t.Fatalf("expected ROLE_VALIDATION_FAILED entry, got %+v", rec.entries)
	}
}

func TestAuthorizeSuccessLogging(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleSeller},
	}}
	rec := &captureRecorder{}
	g := New(repo, rec, nil)
	required := domain.NewRoleSet(domain.RoleSeller, domain.RoleAdmin)

	user, err := g.Authorize(context.Background(), "u1", required, Options{Route: "/api/v1/products"})
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}
	if len(rec.entries) != 0 {
		t.Fatalf("plain read should not log, got %+v", rec.entries)
	}

	if _, err := g.Authorize(context.Background(), "u1", required, Options{Route: "/api/v1/products", LogOnSuccess: true}); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.AuditAllowedAccess {
		t.Fatalf("expected ALLOWED_ACCESS entry, got %+v", rec.entries)
	}
}

func TestAuthorizeWithNilRecorder(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleCustomer},
	}}
	g := New(repo, nil, nil)

	// The decision must come back even with no audit sink wired.
	if _, err := g.Authorize(context.Background(), "u1", domain.NewRoleSet(domain.RoleAdmin), Options{Route: "/x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := g.Authorize(context.Background(), "u1", domain.NewRoleSet(domain.RoleCustomer), Options{Route: "/x", LogOnSuccess: true}); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}
