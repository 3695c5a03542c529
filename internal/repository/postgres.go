package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

// PostgresStore is the shared-database Store backend.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY,
	data JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id UUID PRIMARY KEY,
	data JSONB NOT NULL
);`

// OpenPostgres creates a pgx pool and ensures the key-value tables exist.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, common.NewAppError("DB_CONFIG", "parse DSN", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "credit-analyzer"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError("DB_OPEN", "connect", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, common.NewAppError("DB_MIGRATE", "create tables", err)
	}
	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, log: logger}, nil
}

// HealthCheck pings the pool to catch DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) SaveJob(ctx context.Context, job *entity.DocumentJob) error {
	return s.put(ctx, "jobs", job.ID, job)
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*entity.DocumentJob, error) {
	var job entity.DocumentJob
	if err := s.get(ctx, "jobs", id, &job, "JOB_NOT_FOUND"); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context) ([]entity.DocumentJob, error) {
	var out []entity.DocumentJob
	err := s.list(ctx, "jobs", func(blob []byte) {
		var job entity.DocumentJob
		if err := json.Unmarshal(blob, &job); err != nil {
			s.log.Warn("skipping undecodable job row", "error", err)
			return
		}
		out = append(out, job)
	})
	return out, err
}

func (s *PostgresStore) SaveDocument(ctx context.Context, doc *entity.DocumentRecord) error {
	return s.put(ctx, "documents", doc.ID, doc)
}

func (s *PostgresStore) GetDocument(ctx context.Context, id uuid.UUID) (*entity.DocumentRecord, error) {
	var doc entity.DocumentRecord
	if err := s.get(ctx, "documents", id, &doc, "DOCUMENT_NOT_FOUND"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]entity.DocumentRecord, error) {
	var out []entity.DocumentRecord
	err := s.list(ctx, "documents", func(blob []byte) {
		var doc entity.DocumentRecord
		if err := json.Unmarshal(blob, &doc); err != nil {
			s.log.Warn("skipping undecodable document row", "error", err)
			return
		}
		out = append(out, doc)
	})
	return out, err
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) Close() error {
	s.log.Info("closing database connections")
	s.pool.Close()
	return nil
}

func (s *PostgresStore) put(ctx context.Context, table string, id uuid.UUID, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return common.NewAppError("DB_ENCODE", table, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, table)
	if _, err := s.pool.Exec(ctx, q, id, blob); err != nil {
		return common.NewAppError("DB_WRITE", table, err)
	}
	return nil
}

func (s *PostgresStore) get(ctx context.Context, table string, id uuid.UUID, v any, notFoundCode string) error {
	q := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, table)
	var blob []byte
	err := s.pool.QueryRow(ctx, q, id).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewAppError(notFoundCode, id.String(), common.ErrNotFound)
	}
	if err != nil {
		return common.NewAppError("DB_READ", table, err)
	}
	return json.Unmarshal(blob, v)
}

func (s *PostgresStore) list(ctx context.Context, table string, fn func(blob []byte)) error {
	q := fmt.Sprintf(`SELECT data FROM %s`, table)
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return common.NewAppError("DB_QUERY", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return err
		}
		fn(blob)
	}
	return rows.Err()
}
