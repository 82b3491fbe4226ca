// Package sqlite keeps a local ledger of launched recoveries. The ledger is
// advisory: it backs 'recovery list' and the operational lineage warning,
// and losing it never blocks a recovery.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
)

const schema = `
CREATE TABLE IF NOT EXISTS recoveries (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	instance_id   TEXT NOT NULL,
	workload      TEXT NOT NULL,
	sub_workload  TEXT NOT NULL,
	operational   INTEGER NOT NULL,
	subscription  TEXT NOT NULL,
	created_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recoveries_instance ON recoveries(instance_id);
`

// Ledger is a SQLite-backed recovery ledger.
type Ledger struct {
	db *sql.DB
}

var _ driven.RecoveryLedger = (*Ledger)(nil)

// NewLedger opens (creating if needed) the ledger database. An empty path
// selects the default location ~/.m365vault/ledger.db.
func NewLedger(path string) (*Ledger, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".m365vault", "ledger.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	// The CLI is single-process; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Record stores one launched recovery.
func (l *Ledger) Record(ctx context.Context, rec domain.RecoveryRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO recoveries
		   (id, name, instance_id, workload, sub_workload, operational, subscription, created_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.InstanceID, string(rec.Workload), string(rec.SubWorkload),
		boolToInt(rec.Operational), rec.Subscription, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record recovery %s: %w", rec.Name, err)
	}
	return nil
}

// List returns all recorded recoveries, newest first.
func (l *Ledger) List(ctx context.Context) ([]domain.RecoveryRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, instance_id, workload, sub_workload, operational, subscription, created_at_ms
		   FROM recoveries ORDER BY created_at_ms DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recoveries: %w", err)
	}
	defer rows.Close()

	var records []domain.RecoveryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recoveries: %w", err)
	}
	return records, nil
}

// FindByInstance returns the record for an instance id.
func (l *Ledger) FindByInstance(ctx context.Context, instanceID string) (*domain.RecoveryRecord, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, name, instance_id, workload, sub_workload, operational, subscription, created_at_ms
		   FROM recoveries WHERE instance_id = ? ORDER BY created_at_ms DESC LIMIT 1`,
		instanceID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: instance %s", domain.ErrNotFound, instanceID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.RecoveryRecord, error) {
	var (
		rec         domain.RecoveryRecord
		workload    string
		subWorkload string
		operational int
		createdMs   int64
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.InstanceID, &workload, &subWorkload,
		&operational, &rec.Subscription, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("scan recovery row: %w", err)
	}
	rec.Workload = domain.WorkloadType(workload)
	rec.SubWorkload = domain.SubWorkloadType(subWorkload)
	rec.Operational = operational != 0
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
