package park

import "time"

type GridStatus string

const (
	GridStatusNA     GridStatus = "NA"
	GridStatusSafe   GridStatus = "Safe"
	GridStatusUnsafe GridStatus = "Unsafe"
)

// maintenanceDays es el plazo entre una visita/mantenimiento y el siguiente servicio.
const maintenanceDays = 30

// NextMaintenance calcula la fecha de mantenimiento a partir del instante de un evento.
func NextMaintenance(from time.Time) time.Time {
	return from.AddDate(0, 0, maintenanceDays)
}
