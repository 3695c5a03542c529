package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

// SQLiteStore is the default embedded Store. Rows are (id, json) pairs; the
// persistence boundary needs nothing beyond key-value semantics.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	data BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	data BLOB NOT NULL
);`

// OpenSQLite opens (creating if needed) the sqlite store at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening sqlite store", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("DB_OPEN", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids lock churn.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("DB_MIGRATE", "create tables", err)
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteStore{db: db, log: logger}, nil
}

func (s *SQLiteStore) SaveJob(ctx context.Context, job *entity.DocumentJob) error {
	return s.put(ctx, "jobs", job.ID, job)
}

func (s *SQLiteStore) GetJob(ctx context.Context, id uuid.UUID) (*entity.DocumentJob, error) {
	var job entity.DocumentJob
	if err := s.get(ctx, "jobs", id, &job, "JOB_NOT_FOUND"); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *SQLiteStore) ListJobs(ctx context.Context) ([]entity.DocumentJob, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM jobs`)
	if err != nil {
		return nil, common.NewAppError("DB_QUERY", "list jobs", err)
	}
	defer rows.Close()
	var out []entity.DocumentJob
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var job entity.DocumentJob
		if err := json.Unmarshal(blob, &job); err != nil {
			s.log.Warn("skipping undecodable job row", "error", err)
			continue
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *entity.DocumentRecord) error {
	return s.put(ctx, "documents", doc.ID, doc)
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id uuid.UUID) (*entity.DocumentRecord, error) {
	var doc entity.DocumentRecord
	if err := s.get(ctx, "documents", id, &doc, "DOCUMENT_NOT_FOUND"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]entity.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM documents`)
	if err != nil {
		return nil, common.NewAppError("DB_QUERY", "list documents", err)
	}
	defer rows.Close()
	var out []entity.DocumentRecord
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var doc entity.DocumentRecord
		if err := json.Unmarshal(blob, &doc); err != nil {
			s.log.Warn("skipping undecodable document row", "error", err)
			continue
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id.String())
	return err
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}

func (s *SQLiteStore) put(ctx context.Context, table string, id uuid.UUID, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return common.NewAppError("DB_ENCODE", table, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data`, table)
	if _, err := s.db.ExecContext(ctx, q, id.String(), blob); err != nil {
		return common.NewAppError("DB_WRITE", table, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, table string, id uuid.UUID, v any, notFoundCode string) error {
	q := fmt.Sprintf(`SELECT data FROM %s WHERE id = ?`, table)
	var blob []byte
	err := s.db.QueryRowContext(ctx, q, id.String()).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewAppError(notFoundCode, id.String(), common.ErrNotFound)
	}
	if err != nil {
		return common.NewAppError("DB_READ", table, err)
	}
	return json.Unmarshal(blob, v)
}
