package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/obslog/internal/dbx"
	"github.com/dmitrijs2005/obslog/internal/server/migrations"
	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// PostgresStore keeps the dataset as a single jsonb row. It preserves the
// whole-dataset read/write granularity of the port; Update serializes
// writers with a row lock instead of an in-process mutex, so multiple
// server processes sharing one database stay consistent too.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return s, nil
}

// NewPostgresStoreWithDB wraps an existing connection without running
// migrations. Used by tests.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

func decodeDataset(raw []byte) (*models.Dataset, error) {
	d := &models.Dataset{}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	d.Normalize()
	return d, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Dataset, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM dataset WHERE id = 1`).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return decodeDataset(raw)
}

func (s *PostgresStore) Update(ctx context.Context, fn func(*models.Dataset) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var raw []byte
		err := tx.QueryRowContext(ctx, `SELECT data FROM dataset WHERE id = 1 FOR UPDATE`).Scan(&raw)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		d, err := decodeDataset(raw)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}

		next, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode dataset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE dataset SET data = $1 WHERE id = 1`, next); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
