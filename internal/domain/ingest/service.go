package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"dino-park/internal/domain/events"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
	"dino-park/internal/ports/bus"
)

var ErrQueueUnavailable = errors.New("ingest queue unavailable")

const DefaultQueueSize = 64

type Options struct {
	// QueueSize es la cantidad de lotes pendientes antes de que Submit bloquee.
	QueueSize int
	// PublishRate limita eventos por segundo; 0 = sin límite.
	PublishRate float64
	Metrics     *metrics.Metrics
}

// Service recibe lotes, los encola y los publica de a uno desde un único dispatcher.
type Service struct {
	pub     bus.Publisher
	log     logger.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	queue chan batch
	newID func() string
}

func NewService(pub bus.Publisher, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Nop()
	}
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}

	s := &Service{
		pub:     pub,
		log:     log.With(logger.Fields{"component": "ingest"}),
		metrics: opts.Metrics,
		queue:   make(chan batch, size),
		newID:   uuid.NewString,
	}
	if opts.PublishRate > 0 {
		burst := int(opts.PublishRate)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.PublishRate), burst)
	}
	return s
}

// Submit encola el lote. Bloquea si la cola está llena hasta que haya lugar o ctx termine.
// Un lote vacío no se encola. Accepted cuenta solo los eventos que decodificaron; los
// demás viajan igual para quedar registrados como inválidos al despachar.
func (s *Service) Submit(ctx context.Context, evs []events.Event) (Receipt, error) {
	b := batch{id: s.newID(), events: append([]events.Event(nil), evs...)}
	if len(b.events) == 0 {
		return Receipt{BatchID: b.id}, nil
	}

	select {
	case s.queue <- b:
		s.log.Debug("batch queued", logger.Fields{"batch_id": b.id, "events": len(b.events)})
		return Receipt{BatchID: b.id, Accepted: events.Decoded(b.events)}, nil
	case <-ctx.Done():
		return Receipt{}, fmt.Errorf("%w: %v", ErrQueueUnavailable, ctx.Err())
	}
}

// Run es el dispatcher: toma lotes de la cola y los publica en orden hasta que ctx termine.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("dispatcher started", logger.Fields{"queue_size": cap(s.queue)})
	for {
		select {
		case <-ctx.Done():
			if n := len(s.queue); n > 0 {
				s.log.Warn("dispatcher stopped with pending batches", logger.Fields{"pending": n})
			} else {
				s.log.Info("dispatcher stopped", nil)
			}
			return
		case b := <-s.queue:
			s.Dispatch(ctx, b.id, b.events)
		}
	}
}

// Dispatch ordena el lote y publica cada evento esperando a que el bus lo acepte
// antes de seguir. Un fallo se registra y el lote continúa.
func (s *Service) Dispatch(ctx context.Context, batchID string, evs []events.Event) Report {
	rep := Report{BatchID: batchID}
	if len(evs) == 0 {
		return rep
	}

	ord := events.Order(evs)
	for _, rj := range ord.Rejected {
		f := logger.Fields(rj.Event.Fields())
		f["batch_id"] = batchID
		f["index"] = rj.Index
		f["err"] = rj.Err

		switch {
		case errors.Is(rj.Err, events.ErrInvalidInput):
			rep.Invalid++
			s.metrics.Dropped("invalid_input")
			s.log.Warn("event skipped: invalid input", f)
		case errors.Is(rj.Err, events.ErrUnroutable):
			rep.Unroutable++
			s.metrics.Dropped("unroutable")
			s.log.Warn("event skipped: no topic for kind", f)
		default:
			rep.Invalid++
			s.metrics.Dropped("invalid_time")
			s.log.Warn("event skipped: invalid time", f)
		}
	}

	for _, sq := range ord.Events {
		if err := s.publish(ctx, batchID, sq); err != nil {
			rep.Failed++
			s.metrics.PublishFailed(string(sq.Topic))

			f := logger.Fields(sq.Event.Fields())
			f["batch_id"] = batchID
			f["seq"] = sq.Seq
			f["topic"] = string(sq.Topic)
			f["err"] = err
			s.log.Error("publish failed", f)
			continue
		}
		rep.Published++
		s.metrics.Published(string(sq.Topic))
	}

	s.metrics.BatchDone()
	s.log.Info("batch dispatched", logger.Fields{
		"batch_id":   batchID,
		"published":  rep.Published,
		"failed":     rep.Failed,
		"unroutable": rep.Unroutable,
		"invalid":    rep.Invalid,
	})
	return rep
}

func (s *Service) publish(ctx context.Context, batchID string, sq events.Sequenced) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	payload, err := json.Marshal(events.Envelope{
		BatchID: batchID,
		Seq:     sq.Seq,
		At:      sq.At,
		Event:   sq.Event,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return s.pub.Publish(ctx, string(sq.Topic), payload)
}
