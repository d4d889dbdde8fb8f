package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/repository"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation of AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) repository.AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	if entry == nil {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.CreatedBy == "" {
		entry.CreatedBy = entry.UserID
	}

	const query = `
	INSERT INTO audit_log (id, user_id, role, route, action, reason, created_by, created_at)
	VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		string(entry.Role),
		entry.Route,
		string(entry.Action),
		entry.Reason,
		entry.CreatedBy,
		entry.CreatedAt,
	)
	return err
}

func (r *auditRepository) List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditLogEntry, error) {
	const query = `
	SELECT id, COALESCE(user_id, ''), COALESCE(role, ''), route, action, reason, COALESCE(created_by, ''), deleted, created_at
	FROM audit_log
	WHERE deleted = FALSE
	  AND ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR role = $2)
	  AND ($3 = '' OR route = $3)
	  AND ($4 = '' OR action = $4)
	  AND created_at >= $5
	ORDER BY created_at DESC, id DESC
	LIMIT $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.Role),
		filter.Route,
		string(filter.Action),
		sinceOrEpoch(filter.Since),
		clampLimit(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditLogEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *auditRepository) Summarize(ctx context.Context, since time.Time) (domain.AuditSummary, error) {
	var summary domain.AuditSummary

	const totalQuery = `
	SELECT COUNT(*)
	FROM audit_log
	WHERE deleted = FALSE AND action = $1 AND created_at >= $2
	`
	if err := r.pool.QueryRow(ctx, totalQuery, string(domain.AuditDeniedAccess), sinceOrEpoch(since)).Scan(&summary.TotalDenials); err != nil {
		return domain.AuditSummary{}, err
	}

	byRole, err := r.groupDenials(ctx, since, "COALESCE(role, '')")
	if err != nil {
		return domain.AuditSummary{}, err
	}
	byRoute, err := r.groupDenials(ctx, since, "route")
	if err != nil {
		return domain.AuditSummary{}, err
	}

	summary.CountsByRole = byRole
	summary.CountsByRoute = byRoute
	summary.TopRoles = topKeys(byRole)
	summary.TopRoutes = topKeys(byRoute)
	return summary, nil
}

// groupDenials ranks denial counts by the given dimension. Ties are broken
// by the earliest occurrence so the ordering is stable across runs.
func (r *auditRepository) groupDenials(ctx context.Context, since time.Time, dimension string) ([]domain.AuditCount, error) {
	query := `
	SELECT ` + dimension + ` AS dim, COUNT(*) AS cnt
	FROM audit_log
	WHERE deleted = FALSE AND action = $1 AND created_at >= $2
	GROUP BY dim
	ORDER BY cnt DESC, MIN(created_at) ASC
	`
	rows, err := r.pool.Query(ctx, query, string(domain.AuditDeniedAccess), sinceOrEpoch(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.AuditCount
	for rows.Next() {
		var c domain.AuditCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *auditRepository) SoftDeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	const query = `
	UPDATE audit_log
	SET deleted = TRUE
	WHERE deleted = FALSE AND created_at < $1
	`
	tag, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanAuditEntry(row pgx.Row) (*domain.AuditLogEntry, error) {
	var entry domain.AuditLogEntry
	var role, action string

	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&role,
		&entry.Route,
		&action,
		&entry.Reason,
		&entry.CreatedBy,
		&entry.Deleted,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}

	entry.Role = domain.Role(role)
	entry.Action = domain.AuditAction(action)
	return &entry, nil
}

func topKeys(counts []domain.AuditCount) []string {
	limit := len(counts)
	if limit > 5 {
		limit = 5
	}
	keys := make([]string, 0, limit)
	for _, c := range counts[:limit] {
		keys = append(keys, c.Key)
	}
	return keys
}

func sinceOrEpoch(since time.Time) time.Time {
	if since.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return since
}
