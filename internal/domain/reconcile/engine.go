// Package reconcile recalcula periódicamente el estado derivado del parque:
// hambre, reparaciones pendientes y seguridad de cada celda.
package reconcile

import (
	"context"
	"time"

	"dino-park/internal/domain/park"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
)

const DefaultInterval = 5 * time.Second

type Engine struct {
	dinos   park.DinoRepository
	grid    park.GridRepository
	log     logger.Logger
	metrics *metrics.Metrics

	interval time.Duration
	now      func() time.Time
}

func NewEngine(dinos park.DinoRepository, grid park.GridRepository, log logger.Logger, m *metrics.Metrics, interval time.Duration) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{
		dinos:    dinos,
		grid:     grid,
		log:      log.With(logger.Fields{"component": "reconcile"}),
		metrics:  m,
		interval: interval,
		now:      time.Now,
	}
}

// Run ejecuta un tick inmediato y luego uno por intervalo hasta que ctx termine.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("reconciler started", logger.Fields{"interval": e.interval.String()})
	t := time.NewTicker(e.interval)
	defer t.Stop()

	for {
		e.Tick(ctx)
		select {
		case <-ctx.Done():
			e.log.Info("reconciler stopped", nil)
			return
		case <-t.C:
		}
	}
}

// Tick hace una pasada completa: primero hambre, después celdas, para que un
// dinosaurio que se vuelve hambriento afecte a su celda en el mismo tick.
func (e *Engine) Tick(ctx context.Context) TickReport {
	now := e.now().UTC()
	rep := TickReport{StartedAt: now}
	start := time.Now()

	e.hungerPass(ctx, now, &rep)
	e.cellPass(ctx, now, &rep)

	rep.Duration = time.Since(start)
	e.metrics.ObserveTick(rep.Duration)

	f := logger.Fields{
		"dinos":         rep.DinosScanned,
		"cells":         rep.CellsScanned,
		"hunger_writes": rep.HungerWrites,
		"repair_writes": rep.RepairWrites,
		"status_writes": rep.StatusWrites,
		"failures":      rep.Failures,
	}
	if rep.Writes() > 0 || rep.Failures > 0 {
		e.log.Info("tick done", f)
	} else {
		e.log.Debug("tick done", f)
	}
	return rep
}

func (e *Engine) hungerPass(ctx context.Context, now time.Time, rep *TickReport) {
	dinos, err := e.dinos.List(ctx)
	if err != nil {
		e.fail(rep, "list dinos failed", logger.Fields{"err": err})
		return
	}

	for _, d := range dinos {
		rep.DinosScanned++
		if !digested(d, now) {
			continue
		}
		if err := e.dinos.MarkHungry(ctx, d.ID); err != nil {
			e.fail(rep, "mark hungry failed", logger.Fields{"id": d.ID, "err": err})
			continue
		}
		rep.HungerWrites++
		e.metrics.ReconcileWrite("hunger")
	}
}

func (e *Engine) cellPass(ctx context.Context, now time.Time, rep *TickReport) {
	cells, err := e.grid.List(ctx)
	if err != nil {
		e.fail(rep, "list grid failed", logger.Fields{"err": err})
		return
	}

	for _, c := range cells {
		rep.CellsScanned++

		if maintenanceOverdue(c, now) {
			if err := e.grid.MarkRepairRequired(ctx, c.Location); err != nil {
				e.fail(rep, "mark repair failed", logger.Fields{"location": c.Location, "err": err})
			} else {
				rep.RepairWrites++
				e.metrics.ReconcileWrite("repair")
			}
		}

		occupants, err := e.dinos.ListByLocation(ctx, c.Location)
		if err != nil {
			e.fail(rep, "list occupants failed", logger.Fields{"location": c.Location, "err": err})
			continue
		}
		status := cellStatus(occupants)
		if status == c.Status {
			continue
		}
		if err := e.grid.SetStatus(ctx, c.Location, status); err != nil {
			e.fail(rep, "set status failed", logger.Fields{"location": c.Location, "err": err})
			continue
		}
		rep.StatusWrites++
		e.metrics.ReconcileWrite("grid_status")
	}
}

func (e *Engine) fail(rep *TickReport, msg string, f logger.Fields) {
	rep.Failures++
	e.metrics.ReconcileFailure()
	e.log.Error(msg, f)
}
