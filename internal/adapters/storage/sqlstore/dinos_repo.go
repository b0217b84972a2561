package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dino-park/internal/domain/park"
)

const dinoColumns = `
	id, name, species, gender,
	digestion_period_in_hours, herbivore,
	time, park_id,
	location, last_fed, is_hungry`

type DinoRepo struct {
	db *sql.DB
	d  Dialect
}

func NewDinoRepo(db *sql.DB, d Dialect) *DinoRepo {
	return &DinoRepo{db: db, d: d}
}

var _ park.DinoRepository = (*DinoRepo)(nil)

func (r *DinoRepo) Insert(ctx context.Context, dino park.Dino) error {
	// Si ya existe, se informa ErrAlreadyExists en vez del error de constraint del driver.
	if _, err := r.GetByID(ctx, dino.ID); err == nil {
		return park.ErrAlreadyExists
	} else if !errors.Is(err, park.ErrNotFound) {
		return err
	}

	_, err := r.db.ExecContext(ctx, r.d.Rebind(`
		INSERT INTO dinos (`+dinoColumns+`
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`),
		dino.ID,
		dino.Name,
		dino.Species,
		dino.Gender,
		dino.DigestionPeriodInHours,
		dino.Herbivore,
		r.d.timeArg(dino.Time),
		dino.ParkID,
		toNullString(dino.Location),
		r.d.nullTimeArg(dino.LastFed),
		dino.IsHungry,
	)
	if err != nil {
		return fmt.Errorf("insert dino %d: %w", dino.ID, err)
	}
	return nil
}

func (r *DinoRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.d.Rebind(`DELETE FROM dinos WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete dino %d: %w", id, err)
	}
	return nil
}

func (r *DinoRepo) GetByID(ctx context.Context, id int64) (park.Dino, error) {
	row := r.db.QueryRowContext(ctx, r.d.Rebind(`
		SELECT`+dinoColumns+`
		FROM dinos
		WHERE id = ?
	`), id)

	d, err := scanDino(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return park.Dino{}, park.ErrNotFound
		}
		return park.Dino{}, err
	}
	return d, nil
}

func (r *DinoRepo) List(ctx context.Context) ([]park.Dino, error) {
	return r.query(ctx, `
		SELECT`+dinoColumns+`
		FROM dinos
		ORDER BY id ASC
	`)
}

func (r *DinoRepo) ListByLocation(ctx context.Context, location string) ([]park.Dino, error) {
	return r.query(ctx, `
		SELECT`+dinoColumns+`
		FROM dinos
		WHERE location = ?
		ORDER BY id ASC
	`, location)
}

func (r *DinoRepo) SetLocation(ctx context.Context, id int64, location string) error {
	return r.update(ctx, id, `UPDATE dinos SET location = ? WHERE id = ?`, location, id)
}

func (r *DinoRepo) MarkFed(ctx context.Context, id int64, fedAt time.Time) error {
	return r.update(ctx, id, `UPDATE dinos SET last_fed = ?, is_hungry = ? WHERE id = ?`,
		r.d.timeArg(fedAt), false, id)
}

func (r *DinoRepo) MarkHungry(ctx context.Context, id int64) error {
	return r.update(ctx, id, `UPDATE dinos SET is_hungry = ? WHERE id = ?`, true, id)
}

func (r *DinoRepo) update(ctx context.Context, id int64, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update dino %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return park.ErrNotFound
	}
	return nil
}

func (r *DinoRepo) query(ctx context.Context, query string, args ...any) ([]park.Dino, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]park.Dino, 0)
	for rows.Next() {
		d, err := scanDino(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDino(s rowScanner) (park.Dino, error) {
	var d park.Dino
	var at, lastFed nullTime
	var location sql.NullString

	if err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Species,
		&d.Gender,
		&d.DigestionPeriodInHours,
		&d.Herbivore,
		&at,
		&d.ParkID,
		&location,
		&lastFed,
		&d.IsHungry,
	); err != nil {
		return park.Dino{}, err
	}

	d.Time = at.Time
	d.LastFed = lastFed.ptr()
	if location.Valid {
		l := location.String
		d.Location = &l
	}
	return d, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
