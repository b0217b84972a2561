package reconcile

import (
	"time"

	"dino-park/internal/domain/park"
)

// digested: la digestión de la última comida terminó.
// Nunca alimentado o ya hambriento no cuenta: el hambre se limpia solo con un evento de alimentación.
func digested(d park.Dino, now time.Time) bool {
	if d.IsHungry {
		return false
	}
	end, ok := d.DigestedAt()
	return ok && !now.Before(end)
}

// maintenanceOverdue: venció el mantenimiento y aún no se marcó la reparación.
func maintenanceOverdue(c park.GridCell, now time.Time) bool {
	return c.MaintenanceDue != nil && !c.RepairRequired && !now.Before(*c.MaintenanceDue)
}

// cellStatus: sin ocupantes NA; un carnívoro hambriento vuelve la celda Unsafe.
func cellStatus(occupants []park.Dino) park.GridStatus {
	if len(occupants) == 0 {
		return park.GridStatusNA
	}
	for _, d := range occupants {
		if d.Carnivore() && d.IsHungry {
			return park.GridStatusUnsafe
		}
	}
	return park.GridStatusSafe
}
