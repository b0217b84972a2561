package ingest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dino-park/internal/domain/events"
)

// maxBodyBytes acota el tamaño de un lote recibido por HTTP.
const maxBodyBytes = 8 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/event", postEventHandler(svc))
}

// acceptedResponse confirma que el lote quedó encolado para publicar.
type acceptedResponse struct {
	Message  string `json:"message"`
	BatchID  string `json:"batch_id"`
	Accepted int    `json:"accepted"`
}

// postEventHandler godoc
// @Summary Ingresar eventos del parque
// @Description Recibe un evento o un arreglo de eventos. El lote se ordena por `time` y se publica en segundo plano, un evento a la vez. Elementos con campos de tipo incorrecto, kinds desconocidos o `time` inválido se descartan al ordenar; el resto del lote sigue.
// @Tags ingest
// @Accept json
// @Produce json
// @Param payload body []events.Event true "Evento o arreglo de eventos"
// @Success 202 {object} acceptedResponse
// @Failure 400 {string} string "invalid json"
// @Failure 503 {string} string "queue unavailable"
// @Router /event [post]
func postEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		evs, err := events.DecodeBatch(body)
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.Submit(r.Context(), evs)
		if err != nil {
			if errors.Is(err, ErrQueueUnavailable) {
				http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusAccepted, acceptedResponse{
			Message:  "Events accepted for processing",
			BatchID:  rec.BatchID,
			Accepted: rec.Accepted,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
