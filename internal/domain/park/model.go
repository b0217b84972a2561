package park

import "time"

// Dino es el registro persistido de un dinosaurio.
type Dino struct {
	ID                     int64
	Name                   string
	Species                string
	Gender                 string
	DigestionPeriodInHours int
	Herbivore              bool

	// Time es el instante del evento dino_added.
	Time   time.Time
	ParkID int64

	Location *string // nil = fuera de la grilla
	LastFed  *time.Time
	IsHungry bool
}

// Carnivore es lo contrario de Herbivore; se expone para legibilidad en las reglas.
func (d Dino) Carnivore() bool { return !d.Herbivore }

// DigestedAt devuelve cuándo termina la digestión de la última comida.
// ok=false si nunca fue alimentado.
func (d Dino) DigestedAt() (time.Time, bool) {
	if d.LastFed == nil {
		return time.Time{}, false
	}
	return d.LastFed.Add(time.Duration(d.DigestionPeriodInHours) * time.Hour), true
}

// GridCell es una celda de la grilla del parque.
type GridCell struct {
	Location string

	LastVisited     *time.Time
	MaintenanceDue  *time.Time
	RepairRequired  bool
	LastMaintenance *time.Time

	Status GridStatus
}
