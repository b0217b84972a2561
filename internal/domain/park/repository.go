package park

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// DinoRepository es el record store de dinosaurios.
// ListByLocation y List devuelven en orden de recuperación estable (id ascendente).
type DinoRepository interface {
	Insert(ctx context.Context, d Dino) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Dino, error)
	List(ctx context.Context) ([]Dino, error)
	ListByLocation(ctx context.Context, location string) ([]Dino, error)

	SetLocation(ctx context.Context, id int64, location string) error
	MarkFed(ctx context.Context, id int64, fedAt time.Time) error
	MarkHungry(ctx context.Context, id int64) error
}

// GridRepository es el record store de celdas.
type GridRepository interface {
	// Seed crea las celdas con status NA solo si la tabla está vacía.
	Seed(ctx context.Context, locations []string) (bool, error)
	GetByLocation(ctx context.Context, location string) (GridCell, error)
	List(ctx context.Context) ([]GridCell, error)

	// RecordVisit setea last_visited y maintenance_due solo si estaba en null.
	RecordVisit(ctx context.Context, location string, visitedAt, due time.Time) error
	// RecordMaintenance limpia repair_required y reemplaza maintenance_due (nil = sin próximo servicio).
	RecordMaintenance(ctx context.Context, location string, at time.Time, due *time.Time) error
	MarkRepairRequired(ctx context.Context, location string) error
	SetStatus(ctx context.Context, location string, status GridStatus) error
}
