package usecase

import "github.com/skillmart/backend/domain"

// AuditRecorder abstracts the audit sink so use cases stay storage-agnostic.
// Record is fire-and-forget: implementations absorb every failure.
type AuditRecorder interface {
	Record(entry domain.AuditLogEntry)
}
