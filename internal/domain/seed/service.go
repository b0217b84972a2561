// Package seed carga un lote inicial de eventos desde un feed externo.
package seed

import (
	"context"
	"fmt"

	"dino-park/internal/domain/events"
	"dino-park/internal/domain/ingest"
	"dino-park/internal/platform/logger"
)

// Source es el feed de eventos (upstream.Client en producción).
type Source interface {
	FetchEvents(ctx context.Context) ([]events.Event, error)
}

// Submitter recibe el lote como cualquier lote del gateway.
type Submitter interface {
	Submit(ctx context.Context, evs []events.Event) (ingest.Receipt, error)
}

type Service struct {
	src Source
	sub Submitter
	log logger.Logger
}

func NewService(src Source, sub Submitter, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{src: src, sub: sub, log: log.With(logger.Fields{"component": "seed"})}
}

// Run descarga el feed y lo envía a ingesta. Si el feed falla se registra y no se siembra.
func (s *Service) Run(ctx context.Context) (ingest.Receipt, error) {
	evs, err := s.src.FetchEvents(ctx)
	if err != nil {
		s.log.Warn("seeding skipped", logger.Fields{"err": err})
		return ingest.Receipt{}, fmt.Errorf("fetch seed events: %w", err)
	}

	rec, err := s.sub.Submit(ctx, evs)
	if err != nil {
		s.log.Error("seed submit failed", logger.Fields{"events": len(evs), "err": err})
		return ingest.Receipt{}, fmt.Errorf("submit seed events: %w", err)
	}
	s.log.Info("seed batch submitted", logger.Fields{"batch_id": rec.BatchID, "accepted": rec.Accepted})
	return rec, nil
}
