package memory

import (
	"context"
	"sync"
	"time"

	"dino-park/internal/domain/park"
)

type gridRepo struct {
	mu    sync.RWMutex
	order []string
	byLoc map[string]park.GridCell
}

func NewGridRepo() park.GridRepository {
	return &gridRepo{
		byLoc: make(map[string]park.GridCell),
	}
}

func (r *gridRepo) Seed(ctx context.Context, locations []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// idempotente: si ya hay celdas no toca nada
	if len(r.byLoc) > 0 {
		return false, nil
	}
	for _, loc := range locations {
		if _, dup := r.byLoc[loc]; dup {
			continue
		}
		r.byLoc[loc] = park.GridCell{Location: loc, Status: park.GridStatusNA}
		r.order = append(r.order, loc)
	}
	return true, nil
}

func (r *gridRepo) GetByLocation(ctx context.Context, location string) (park.GridCell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byLoc[location]
	if !ok {
		return park.GridCell{}, park.ErrNotFound
	}
	return cloneCell(c), nil
}

func (r *gridRepo) List(ctx context.Context) ([]park.GridCell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]park.GridCell, 0, len(r.order))
	for _, loc := range r.order {
		out = append(out, cloneCell(r.byLoc[loc]))
	}
	return out, nil
}

func (r *gridRepo) RecordVisit(ctx context.Context, location string, visitedAt, due time.Time) error {
	return r.update(location, func(c *park.GridCell) {
		c.LastVisited = cloneTime(&visitedAt)
		// la primera fecha programada gana hasta que haya mantenimiento
		if c.MaintenanceDue == nil {
			c.MaintenanceDue = cloneTime(&due)
		}
	})
}

func (r *gridRepo) RecordMaintenance(ctx context.Context, location string, at time.Time, due *time.Time) error {
	return r.update(location, func(c *park.GridCell) {
		c.RepairRequired = false
		c.LastMaintenance = cloneTime(&at)
		c.MaintenanceDue = cloneTime(due)
	})
}

func (r *gridRepo) MarkRepairRequired(ctx context.Context, location string) error {
	return r.update(location, func(c *park.GridCell) {
		c.RepairRequired = true
	})
}

func (r *gridRepo) SetStatus(ctx context.Context, location string, status park.GridStatus) error {
	return r.update(location, func(c *park.GridCell) {
		c.Status = status
	})
}

func (r *gridRepo) update(location string, fn func(c *park.GridCell)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byLoc[location]
	if !ok {
		return park.ErrNotFound
	}
	fn(&c)
	r.byLoc[location] = c
	return nil
}

func cloneCell(c park.GridCell) park.GridCell {
	c.LastVisited = cloneTime(c.LastVisited)
	c.MaintenanceDue = cloneTime(c.MaintenanceDue)
	c.LastMaintenance = cloneTime(c.LastMaintenance)
	return c
}
