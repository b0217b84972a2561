package park

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/grid", listGridHandler(svc))
		ar.Get("/dinos", listDinosHandler(svc))
	})
}

// gridCellResponse es una celda tal como la consume el dashboard.
type gridCellResponse struct {
	Location        string     `json:"location"`
	LastVisited     *time.Time `json:"lastVisited"`
	MaintenanceDue  *time.Time `json:"maintenanceDue"`
	RepairRequired  bool       `json:"repair_required"`
	LastMaintenance *time.Time `json:"lastMaintenance"`
	GridStatus      GridStatus `json:"grid_status" enums:"NA,Safe,Unsafe"`
}

// dinoResponse es un dinosaurio tal como lo consume el dashboard.
type dinoResponse struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Species                string     `json:"species"`
	Gender                 string     `json:"gender"`
	DigestionPeriodInHours int        `json:"digestion_period_in_hours"`
	Herbivore              bool       `json:"herbivore"`
	Time                   time.Time  `json:"time"`
	ParkID                 int64      `json:"park_id"`
	Location               *string    `json:"location"`
	LastFed                *time.Time `json:"lastFed"`
	IsHungry               bool       `json:"is_hungry"`
}

// listGridHandler godoc
// @Summary Estado de la grilla
// @Description Devuelve las 416 celdas con su estado de seguridad y mantenimiento.
// @Tags park
// @Produce json
// @Success 200 {array} gridCellResponse
// @Failure 500 {string} string "internal error"
// @Router /api/grid [get]
func listGridHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cells, err := svc.ListGrid(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]gridCellResponse, 0, len(cells))
		for _, c := range cells {
			out = append(out, gridCellResponse{
				Location:        c.Location,
				LastVisited:     c.LastVisited,
				MaintenanceDue:  c.MaintenanceDue,
				RepairRequired:  c.RepairRequired,
				LastMaintenance: c.LastMaintenance,
				GridStatus:      c.Status,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listDinosHandler godoc
// @Summary Dinosaurios del parque
// @Description Lista los dinosaurios registrados, ordenados por id.
// @Tags park
// @Produce json
// @Success 200 {array} dinoResponse
// @Failure 500 {string} string "internal error"
// @Router /api/dinos [get]
func listDinosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dinos, err := svc.ListDinos(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]dinoResponse, 0, len(dinos))
		for _, d := range dinos {
			out = append(out, dinoResponse{
				ID:                     d.ID,
				Name:                   d.Name,
				Species:                d.Species,
				Gender:                 d.Gender,
				DigestionPeriodInHours: d.DigestionPeriodInHours,
				Herbivore:              d.Herbivore,
				Time:                   d.Time,
				ParkID:                 d.ParkID,
				Location:               d.Location,
				LastFed:                d.LastFed,
				IsHungry:               d.IsHungry,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
