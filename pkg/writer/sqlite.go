package writer

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/42maru-ai/prospector/internal/engine"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    id          TEXT PRIMARY KEY,
    source      TEXT NOT NULL,
    name        TEXT,
    status      TEXT NOT NULL,
    error       TEXT,
    duration_ms INTEGER NOT NULL,
    content     TEXT,
    created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source);
`

// SQLite persists every batch record into a documents table. Unlike the
// directory sink it keeps failed records too, with their error text, so a
// whole run can be audited afterwards.
type SQLite struct {
	db     *sql.DB
	ser    Serializer
	logger zerolog.Logger

	mu       sync.Mutex
	failures int
}

// NewSQLite opens (or creates) the database at path and ensures the schema.
func NewSQLite(path string, ser Serializer, logger zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLite{db: db, ser: ser, logger: logger}, nil
}

// Consume implements the batch sink contract.
func (s *SQLite) Consume(rec engine.Record) {
	status := "ok"
	var errText, name, content string

	if rec.Err != nil {
		status = "failed"
		errText = rec.Err.Error()
		s.fail()
	} else if doc, ok := rec.Model.Document(); ok {
		name = doc.Name
		var sb strings.Builder
		if err := s.ser.Write(&sb, doc); err != nil {
			status = "failed"
			errText = err.Error()
			s.fail()
		} else {
			content = sb.String()
		}
	} else {
		status = "failed"
		errText = "no assembled document"
		s.fail()
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO documents
		 (id, source, name, status, error, duration_ms, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Input, name, status, errText,
		rec.Duration.Milliseconds(), content, time.Now().UTC(),
	)
	if err != nil {
		if status == "ok" {
			s.fail()
		}
		s.logger.Error().Err(err).Str("input", rec.Input).Msg("cannot persist record")
	}
}

// Failures returns how many records ended up in failed status.
func (s *SQLite) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) fail() {
	s.mu.Lock()
	s.failures++
	s.mu.Unlock()
}
