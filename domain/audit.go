package domain

import "time"

// AuditAction classifies an access or authentication event.
type AuditAction string

const (
	AuditAllowedAccess        AuditAction = "ALLOWED_ACCESS"
	AuditDeniedAccess         AuditAction = "DENIED_ACCESS"
	AuditAuthFailure          AuditAction = "AUTH_FAILURE"
	AuditRoleValidationFailed AuditAction = "ROLE_VALIDATION_FAILED"
	AuditFeatureDenied        AuditAction = "FEATURE_DENIED"
)

// AuditLogEntry is an append-only record of an access decision or
// authentication event. Entries are never updated; Deleted supports
// retention policies only. UserID and Role are empty for unauthenticated
// events.
type AuditLogEntry struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id,omitempty"`
	Role      Role        `json:"role,omitempty"`
	Route     string      `json:"route"`
	Action    AuditAction `json:"action"`
	Reason    string      `json:"reason,omitempty"`
	CreatedBy string      `json:"created_by,omitempty"`
	Deleted   bool        `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuditCount is a grouped tally used by the summary report.
type AuditCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// AuditSummary aggregates denial activity for security review. Counts are
// ranked by descending count, ties broken by insertion order.
type AuditSummary struct {
	TotalDenials  int64        `json:"total_denials"`
	CountsByRole  []AuditCount `json:"counts_by_role"`
	CountsByRoute []AuditCount `json:"counts_by_route"`
	TopRoles      []string     `json:"top_roles"`
	TopRoutes     []string     `json:"top_routes"`
}
