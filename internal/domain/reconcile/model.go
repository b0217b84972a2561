package reconcile

import "time"

// TickReport resume una pasada de reconciliación.
type TickReport struct {
	StartedAt time.Time
	Duration  time.Duration

	DinosScanned int
	CellsScanned int

	HungerWrites int
	RepairWrites int
	StatusWrites int

	Failures int
}

// Writes es el total de escrituras de estado derivado.
func (r TickReport) Writes() int {
	return r.HungerWrites + r.RepairWrites + r.StatusWrites
}
