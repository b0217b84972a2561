package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dino-park/internal/domain/park"
)

const gridColumns = `
	location, last_visited, maintenance_due,
	repair_required, last_maintenance, grid_status`

type GridRepo struct {
	db *sql.DB
	d  Dialect
}

func NewGridRepo(db *sql.DB, d Dialect) *GridRepo {
	return &GridRepo{db: db, d: d}
}

var _ park.GridRepository = (*GridRepo)(nil)

// Seed inserta las celdas en una transacción; si la tabla ya tiene filas no hace nada.
func (r *GridRepo) Seed(ctx context.Context, locations []string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM grid`).Scan(&n); err != nil {
		return false, fmt.Errorf("count grid: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, r.d.Rebind(`INSERT INTO grid (location, grid_status) VALUES (?, ?)`))
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	for _, loc := range locations {
		if _, err := stmt.ExecContext(ctx, loc, string(park.GridStatusNA)); err != nil {
			return false, fmt.Errorf("seed cell %s: %w", loc, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *GridRepo) GetByLocation(ctx context.Context, location string) (park.GridCell, error) {
	row := r.db.QueryRowContext(ctx, r.d.Rebind(`
		SELECT`+gridColumns+`
		FROM grid
		WHERE location = ?
	`), location)

	c, err := scanCell(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return park.GridCell{}, park.ErrNotFound
		}
		return park.GridCell{}, err
	}
	return c, nil
}

// List devuelve en el orden del store; el orden de presentación lo decide el service.
func (r *GridRepo) List(ctx context.Context) ([]park.GridCell, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+gridColumns+`
		FROM grid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]park.GridCell, 0)
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *GridRepo) RecordVisit(ctx context.Context, location string, visitedAt, due time.Time) error {
	return r.update(ctx, location, `
		UPDATE grid
		SET
			last_visited = ?,
			maintenance_due = CASE WHEN maintenance_due IS NULL THEN ? ELSE maintenance_due END
		WHERE location = ?
	`, r.d.timeArg(visitedAt), r.d.timeArg(due), location)
}

func (r *GridRepo) RecordMaintenance(ctx context.Context, location string, at time.Time, due *time.Time) error {
	return r.update(ctx, location, `
		UPDATE grid
		SET
			repair_required = ?,
			last_maintenance = ?,
			maintenance_due = ?
		WHERE location = ?
	`, false, r.d.timeArg(at), r.d.nullTimeArg(due), location)
}

func (r *GridRepo) MarkRepairRequired(ctx context.Context, location string) error {
	return r.update(ctx, location, `UPDATE grid SET repair_required = ? WHERE location = ?`, true, location)
}

func (r *GridRepo) SetStatus(ctx context.Context, location string, status park.GridStatus) error {
	return r.update(ctx, location, `UPDATE grid SET grid_status = ? WHERE location = ?`, string(status), location)
}

func (r *GridRepo) update(ctx context.Context, location, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update cell %s: %w", location, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return park.ErrNotFound
	}
	return nil
}

func scanCell(s rowScanner) (park.GridCell, error) {
	var c park.GridCell
	var visited, due, maint nullTime
	var status string

	if err := s.Scan(
		&c.Location,
		&visited,
		&due,
		&c.RepairRequired,
		&maint,
		&status,
	); err != nil {
		return park.GridCell{}, err
	}

	c.LastVisited = visited.ptr()
	c.MaintenanceDue = due.ptr()
	c.LastMaintenance = maint.ptr()
	c.Status = park.GridStatus(status)
	return c, nil
}
