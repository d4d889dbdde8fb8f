// Package auditlog is the read side of the audit sink, used for security
// review. These are reporting aids, not transactional primitives: any storage
// failure degrades to an empty or zeroed result instead of propagating, so a
// broken query can never take down an operator dashboard.
package auditlog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
)

type UseCase struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

func New(repo repository.AuditRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		repo:   repo,
		logger: logger,
	}
}

// ListByUser returns a user's recent entries, newest first.
func (uc *UseCase) ListByUser(ctx context.Context, userID string, sinceDays int, action domain.AuditAction, limit int) []domain.AuditLogEntry {
	return uc.list(ctx, repository.AuditFilter{
		UserID: userID,
		Action: action,
		Since:  since(sinceDays),
		Limit:  limit,
	})
}

// ListByRole returns recent entries recorded under the given role.
func (uc *UseCase) ListByRole(ctx context.Context, role domain.Role, sinceDays, limit int) []domain.AuditLogEntry {
	return uc.list(ctx, repository.AuditFilter{
		Role:  role,
		Since: since(sinceDays),
		Limit: limit,
	})
}

// ListByRoute returns recent entries for one route.
func (uc *UseCase) ListByRoute(ctx context.Context, route string, sinceDays, limit int) []domain.AuditLogEntry {
	return uc.list(ctx, repository.AuditFilter{
		Route: route,
		Since: since(sinceDays),
		Limit: limit,
	})
}

// Summarize aggregates denial activity over the window.
func (uc *UseCase) Summarize(ctx context.Context, sinceDays int) domain.AuditSummary {
	summary, err := uc.repo.Summarize(ctx, since(sinceDays))
	if err != nil {
		uc.logger.Warn("audit summary failed", zap.Error(err))
		return domain.AuditSummary{}
	}
	return summary
}

func (uc *UseCase) list(ctx context.Context, filter repository.AuditFilter) []domain.AuditLogEntry {
	entries, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Warn("audit read failed", zap.Error(err))
		return nil
	}
	return entries
}

func since(days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}
