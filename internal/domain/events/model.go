package events

import "time"

// Event es un evento de dominio tal como llega por el gateway.
// Los campos específicos de cada kind van planos en el mismo objeto.
type Event struct {
	Kind Kind   `json:"kind"`
	Time string `json:"time"`

	ID         int64 `json:"id,omitempty"`
	DinosaurID int64 `json:"dinosaur_id,omitempty"`

	Name                   string `json:"name,omitempty"`
	Species                string `json:"species,omitempty"`
	Gender                 string `json:"gender,omitempty"`
	DigestionPeriodInHours int    `json:"digestion_period_in_hours,omitempty"`
	Herbivore              bool   `json:"herbivore,omitempty"`
	ParkID                 int64  `json:"park_id,omitempty"`

	Location string `json:"location,omitempty"`

	// DecodeErr queda seteado cuando el elemento no pudo decodificarse; no viaja por el bus.
	DecodeErr error `json:"-"`
}

// DinoID resuelve el id del dinosaurio: dinosaur_id si viene, si no id.
func (e Event) DinoID() int64 {
	if e.DinosaurID != 0 {
		return e.DinosaurID
	}
	return e.ID
}

// Fields devuelve los campos que identifican al evento en logs.
func (e Event) Fields() map[string]any {
	f := map[string]any{
		"kind": string(e.Kind),
		"time": e.Time,
	}
	if e.ID != 0 {
		f["id"] = e.ID
	}
	if e.DinosaurID != 0 {
		f["dinosaur_id"] = e.DinosaurID
	}
	if e.Location != "" {
		f["location"] = e.Location
	}
	return f
}

// Envelope es lo que viaja por el bus: el evento más su posición en el lote.
// Seq es solo diagnóstico: cada topic tiene su propio consumidor y los handlers
// no reordenan por Seq, así que el orden solo se garantiza dentro de un topic.
type Envelope struct {
	BatchID string    `json:"batch_id"`
	Seq     int       `json:"seq"`
	At      time.Time `json:"at"`
	Event   Event     `json:"event"`
}
