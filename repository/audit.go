package repository

import (
	"context"
	"time"

	"github.com/skillmart/backend/domain"
)

// AuditFilter narrows audit reads. Zero values leave the dimension open.
type AuditFilter struct {
	UserID string
	Role   domain.Role
	Route  string
	Action domain.AuditAction
	Since  time.Time
	Limit  int
}

// AuditRepository persists the append-only audit trail. Entries are immutable
// once written; SoftDeleteOlderThan exists for retention sweeps only.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditLogEntry, error)
	Summarize(ctx context.Context, since time.Time) (domain.AuditSummary, error)
	SoftDeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
