package ingest

import "dino-park/internal/domain/events"

// Receipt confirma que un lote entró en la cola.
type Receipt struct {
	BatchID  string
	Accepted int
}

// Report resume el despacho de un lote.
type Report struct {
	BatchID    string
	Published  int
	Failed     int
	Unroutable int
	Invalid    int
}

type batch struct {
	id     string
	events []events.Event
}
