// Package consumers aplica al record store los eventos que llegan por el bus.
package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dino-park/internal/domain/events"
	"dino-park/internal/domain/park"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
	"dino-park/internal/ports/bus"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	dinos   park.DinoRepository
	grid    park.GridRepository
	log     logger.Logger
	metrics *metrics.Metrics
}

func NewService(dinos park.DinoRepository, grid park.GridRepository, log logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		dinos:   dinos,
		grid:    grid,
		log:     log.With(logger.Fields{"component": "consumers"}),
		metrics: m,
	}
}

// Register suscribe un handler por topic. Falla si algún topic ya tiene suscriptor.
func (s *Service) Register(ctx context.Context, sub bus.Subscriber) error {
	handlers := map[events.Topic]func(context.Context, events.Envelope) error{
		events.TopicDinoAdd:     s.Add,
		events.TopicDinoRemove:  s.Remove,
		events.TopicDinoMove:    s.Move,
		events.TopicDinoFeed:    s.Feed,
		events.TopicMaintenance: s.Maintenance,
	}
	for _, topic := range events.Topics() {
		if err := sub.Subscribe(ctx, string(topic), s.decode(topic, handlers[topic])); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	s.log.Info("consumers registered", logger.Fields{"topics": len(handlers)})
	return nil
}

// decode traduce el payload del bus a Envelope y cuenta el resultado.
func (s *Service) decode(topic events.Topic, fn func(context.Context, events.Envelope) error) bus.Handler {
	return func(ctx context.Context, payload []byte) error {
		var env events.Envelope
		err := json.Unmarshal(payload, &env)
		if err != nil {
			err = fmt.Errorf("%w: decode envelope: %v", ErrInvalidInput, err)
		} else {
			err = fn(ctx, env)
		}
		s.metrics.Handled(string(topic), err == nil)
		return err
	}
}

// Add registra un dinosaurio nuevo: hambriento, fuera de la grilla, nunca alimentado.
func (s *Service) Add(ctx context.Context, env events.Envelope) error {
	at, err := eventTime(env)
	if err != nil {
		return err
	}
	e := env.Event
	id := subjectID(e)
	if id == 0 {
		return fmt.Errorf("%w: dino_added without id", ErrInvalidInput)
	}
	if e.DigestionPeriodInHours <= 0 {
		return fmt.Errorf("%w: dino %d digestion_period_in_hours must be positive, got %d", ErrInvalidInput, id, e.DigestionPeriodInHours)
	}

	d := park.Dino{
		ID:                     id,
		Name:                   e.Name,
		Species:                e.Species,
		Gender:                 e.Gender,
		DigestionPeriodInHours: e.DigestionPeriodInHours,
		Herbivore:              e.Herbivore,
		Time:                   at,
		ParkID:                 e.ParkID,
		IsHungry:               true,
	}
	if err := s.dinos.Insert(ctx, d); err != nil {
		return fmt.Errorf("add dino %d: %w", id, err)
	}
	s.log.Debug("dino added", logger.Fields{"id": id, "species": d.Species})
	return nil
}

// Remove borra el dinosaurio; si no existe no hace nada.
func (s *Service) Remove(ctx context.Context, env events.Envelope) error {
	id := subjectID(env.Event)
	if id == 0 {
		return fmt.Errorf("%w: dino_removed without id", ErrInvalidInput)
	}
	if err := s.dinos.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove dino %d: %w", id, err)
	}
	s.log.Debug("dino removed", logger.Fields{"id": id})
	return nil
}

// Move ubica al dinosaurio y registra la visita en la celda.
// Si el dinosaurio no existe se registra igual la visita.
func (s *Service) Move(ctx context.Context, env events.Envelope) error {
	at, err := eventTime(env)
	if err != nil {
		return err
	}
	e := env.Event
	loc := strings.TrimSpace(e.Location)
	if !park.ValidLocation(loc) {
		return fmt.Errorf("%w: dino_location_updated with off-grid location %q", ErrInvalidInput, loc)
	}
	id := e.DinoID()

	if err := s.dinos.SetLocation(ctx, id, loc); err != nil {
		f := logger.Fields{"dinosaur_id": id, "location": loc, "err": err}
		if errors.Is(err, park.ErrNotFound) {
			s.log.Warn("move for unknown dino", f)
		} else {
			s.log.Error("set dino location failed", f)
		}
	}

	if err := s.grid.RecordVisit(ctx, loc, at, park.NextMaintenance(at)); err != nil {
		return fmt.Errorf("record visit %s: %w", loc, err)
	}
	return nil
}

// Feed marca al dinosaurio como alimentado en el instante del evento.
func (s *Service) Feed(ctx context.Context, env events.Envelope) error {
	at, err := eventTime(env)
	if err != nil {
		return err
	}
	id := subjectID(env.Event)
	if err := s.dinos.MarkFed(ctx, id, at); err != nil {
		return fmt.Errorf("feed dino %d: %w", id, err)
	}
	return nil
}

// Maintenance limpia la reparación pendiente. El próximo servicio se agenda
// solo si hay algún dinosaurio en la celda.
func (s *Service) Maintenance(ctx context.Context, env events.Envelope) error {
	at, err := eventTime(env)
	if err != nil {
		return err
	}
	loc := strings.TrimSpace(env.Event.Location)
	if !park.ValidLocation(loc) {
		return fmt.Errorf("%w: maintenance_performed with off-grid location %q", ErrInvalidInput, loc)
	}

	present, err := s.dinos.ListByLocation(ctx, loc)
	if err != nil {
		return fmt.Errorf("list dinos at %s: %w", loc, err)
	}

	var due *time.Time
	if len(present) > 0 {
		next := park.NextMaintenance(at)
		due = &next
	}
	if err := s.grid.RecordMaintenance(ctx, loc, at, due); err != nil {
		return fmt.Errorf("record maintenance %s: %w", loc, err)
	}
	return nil
}

// eventTime usa el instante ya parseado al ordenar; si falta, parsea el time crudo.
func eventTime(env events.Envelope) (time.Time, error) {
	if !env.At.IsZero() {
		return env.At.UTC(), nil
	}
	t, err := events.ParseTime(env.Event.Time)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// subjectID prioriza id y cae a dinosaur_id.
func subjectID(e events.Event) int64 {
	if e.ID != 0 {
		return e.ID
	}
	return e.DinosaurID
}
