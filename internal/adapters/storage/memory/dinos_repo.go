package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dino-park/internal/domain/park"
)

type dinoRepo struct {
	mu   sync.RWMutex
	byID map[int64]park.Dino
}

func NewDinoRepo() park.DinoRepository {
	return &dinoRepo{
		byID: make(map[int64]park.Dino),
	}
}

func (r *dinoRepo) Insert(ctx context.Context, d park.Dino) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; exists {
		return park.ErrAlreadyExists
	}
	r.byID[d.ID] = cloneDino(d)
	return nil
}

func (r *dinoRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *dinoRepo) GetByID(ctx context.Context, id int64) (park.Dino, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return park.Dino{}, park.ErrNotFound
	}
	return cloneDino(d), nil
}

func (r *dinoRepo) List(ctx context.Context) ([]park.Dino, error) {
	return r.filter(func(park.Dino) bool { return true }), nil
}

func (r *dinoRepo) ListByLocation(ctx context.Context, location string) ([]park.Dino, error) {
	return r.filter(func(d park.Dino) bool {
		return d.Location != nil && *d.Location == location
	}), nil
}

func (r *dinoRepo) SetLocation(ctx context.Context, id int64, location string) error {
	return r.update(id, func(d *park.Dino) {
		loc := location
		d.Location = &loc
	})
}

func (r *dinoRepo) MarkFed(ctx context.Context, id int64, fedAt time.Time) error {
	return r.update(id, func(d *park.Dino) {
		t := fedAt
		d.LastFed = &t
		d.IsHungry = false
	})
}

func (r *dinoRepo) MarkHungry(ctx context.Context, id int64) error {
	return r.update(id, func(d *park.Dino) {
		d.IsHungry = true
	})
}

func (r *dinoRepo) update(id int64, fn func(d *park.Dino)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return park.ErrNotFound
	}
	fn(&d)
	r.byID[id] = d
	return nil
}

// filter devuelve copias ordenadas por id, igual que el orden de recuperación de SQL.
func (r *dinoRepo) filter(keep func(park.Dino) bool) []park.Dino {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]park.Dino, 0)
	for _, d := range r.byID {
		if keep(d) {
			out = append(out, cloneDino(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// cloneDino evita que los punteros queden compartidos con el caller.
func cloneDino(d park.Dino) park.Dino {
	if d.Location != nil {
		loc := *d.Location
		d.Location = &loc
	}
	d.LastFed = cloneTime(d.LastFed)
	return d
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
