package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver sqlite en Go puro

	"dino-park/internal/adapters/storage/sqlstore"
	"dino-park/internal/domain/park"
)

const DefaultPath = "park_data/park.db"

// Open crea el directorio si falta, abre el archivo y asegura el schema.
// Una sola conexión: sqlite serializa escrituras de todas formas.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
		}
	}
	if err := sqlstore.EnsureSchema(ctx, db, sqlstore.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewRepos(db *sql.DB) (park.DinoRepository, park.GridRepository) {
	return sqlstore.NewDinoRepo(db, sqlstore.SQLite), sqlstore.NewGridRepo(db, sqlstore.SQLite)
}
