// Package guard implements the authoritative, storage-backed role check
// performed immediately before every privileged operation. The role is
// re-read from persistent storage on each call; the advisory role claim
// carried on tokens and sessions is never an input here.
package guard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
	"github.com/skillmart/backend/usecase"
)

type Guard struct {
	users  repository.UserRepository
	audit  usecase.AuditRecorder
	logger *zap.Logger
}

// Options tune a single authorization call.
type Options struct {
	// Route is the resource recorded on audit entries.
	Route string
	// LogOnSuccess appends an ALLOWED_ACCESS entry when the call passes.
	// Enabled for privileged writes, skipped for plain reads.
	LogOnSuccess bool
}

func New(users repository.UserRepository, audit usecase.AuditRecorder, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		users:  users,
		audit:  audit,
		logger: logger,
	}
}

// Authorize resolves the identity behind subjectID, re-reads its role from
// storage and checks membership against required. Membership in any one of
// the required roles suffices. An empty required set is a configuration
// error and never degrades to allow-all. Audit entries are emitted
// fire-and-forget; their persistence cannot affect the decision.
func (g *Guard) Authorize(ctx context.Context, subjectID string, required domain.RoleSet, opts Options) (*domain.User, error) {
	if required.Empty() {
		g.logger.Error("authorization guard misconfigured", zap.String("route", opts.Route))
		return nil, domain.ErrEmptyRoleSet
	}

	if subjectID == "" {
		g.record(domain.AuditLogEntry{
			Route:  opts.Route,
			Action: domain.AuditAuthFailure,
			Reason: "no identity resolved",
		})
		return nil, domain.ErrUnauthenticated
	}

	user, err := g.users.GetByID(ctx, subjectID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			g.record(domain.AuditLogEntry{
				UserID: subjectID,
				Route:  opts.Route,
				Action: domain.AuditAuthFailure,
				Reason: "identity not found",
			})
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "role lookup failed", err)
	}

	if !user.Role.Valid() {
		g.record(domain.AuditLogEntry{
			UserID: user.ID,
			Role:   user.Role,
			Route:  opts.Route,
			Action: domain.AuditRoleValidationFailed,
			Reason: fmt.Sprintf("stored role %q is not a known role", user.Role),
		})
		return nil, domain.ErrForbidden
	}

	if !required.Contains(user.Role) {
		g.record(domain.AuditLogEntry{
			UserID: user.ID,
			Role:   user.Role,
			Route:  opts.Route,
			Action: domain.AuditDeniedAccess,
			Reason: fmt.Sprintf("required roles: %s", required),
		})
		return nil, domain.ErrForbidden
	}

	if opts.LogOnSuccess {
		g.record(domain.AuditLogEntry{
			UserID: user.ID,
			Role:   user.Role,
			Route:  opts.Route,
			Action: domain.AuditAllowedAccess,
			Reason: fmt.Sprintf("required roles: %s", required),
		})
	}

	return user, nil
}

func (g *Guard) record(entry domain.AuditLogEntry) {
	if g.audit == nil {
		return
	}
	g.audit.Record(entry)
}
