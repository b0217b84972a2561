package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dino-park/internal/adapters/storage/sqlstore"
	"dino-park/internal/domain/park"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql) y asegura el schema.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := sqlstore.EnsureSchema(ctx, db, sqlstore.Postgres); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func NewRepos(db *sql.DB) (park.DinoRepository, park.GridRepository) {
	return sqlstore.NewDinoRepo(db, sqlstore.Postgres), sqlstore.NewGridRepo(db, sqlstore.Postgres)
}
