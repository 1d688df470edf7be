// Package sqlite provides a SQLite-backed playlist export ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit applies when ListByOwner is called without a positive limit.
const DefaultListLimit = 50

// Adapter implements the playlist ledger port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.PlaylistLedger = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// SQLite serialises writers; one connection also keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Record inserts an export, replacing any earlier record with the same id.
func (a *Adapter) Record(ctx context.Context, e domain.PlaylistExport) error {
	if e.ID == "" || e.PlaylistID == "" || e.OwnerID == "" {
		return fmt.Errorf("failed to record export: %w", errors.New("missing identifying fields"))
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT INTO playlist_exports (
			id, playlist_id, owner_id, name, url, requested, written, status, error_message, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			playlist_id=excluded.playlist_id,
			owner_id=excluded.owner_id,
			name=excluded.name,
			url=excluded.url,
			requested=excluded.requested,
			written=excluded.written,
			status=excluded.status,
			error_message=excluded.error_message,
			created_at=excluded.created_at;
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		e.ID,
		e.PlaylistID,
		e.OwnerID,
		e.Name,
		e.URL,
		e.Requested,
		e.Written,
		string(e.Status),
		e.Error,
		createdAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("failed to record export %s: %w", e.ID, err)
	}
	return nil
}

// ListByOwner returns the owner's exports, newest first.
func (a *Adapter) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.PlaylistExport, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := a.db.QueryContext(ctx,
		selectExports+" WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	exports := []domain.PlaylistExport{}
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exports: %w", err)
	}
	return exports, nil
}

const selectExports = `
	SELECT id, playlist_id, owner_id, name, url, requested, written, status, error_message, created_at
	FROM playlist_exports`

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(s scanner) (domain.PlaylistExport, error) {
	var e domain.PlaylistExport
	var url, status, errMsg sql.NullString
	var createdAt string
	if err := s.Scan(
		&e.ID,
		&e.PlaylistID,
		&e.OwnerID,
		&e.Name,
		&url,
		&e.Requested,
		&e.Written,
		&status,
		&errMsg,
		&createdAt,
	); err != nil {
		return domain.PlaylistExport{}, err
	}
	if url.Valid {
		e.URL = url.String
	}
	e.Status = domain.ExportComplete
	if status.Valid && status.String != "" {
		e.Status = domain.ExportStatus(status.String)
	}
	if errMsg.Valid {
		e.Error = errMsg.String
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS playlist_exports (
		id TEXT PRIMARY KEY,
		playlist_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		url TEXT,
		requested INTEGER NOT NULL DEFAULT 0,
		written INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'complete',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_playlist_exports_owner
		ON playlist_exports (owner_id, created_at);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	if _, err := a.db.Exec("ALTER TABLE playlist_exports ADD COLUMN error_message TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
