package monitor

import "time"

// Status is a point-in-time snapshot of dependency health. SpillDepth is the
// number of audit entries parked in the spill buffer awaiting replay.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Spill      bool      `json:"audit_spill"`
	SpillDepth int       `json:"audit_spill_depth"`
	LastCheck  time.Time `json:"last_check"`
}
