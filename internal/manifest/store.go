package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opencontainers/go-digest"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run ID is not in the manifest.
var ErrRunNotFound = errors.New("run not found")

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure manifest directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores run and all of its records in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, bank_root, output_root, description_path, dry_run, total_extracted
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.BankRoot,
		run.OutputRoot,
		run.DescriptionPath,
		boolToInt(run.DryRun),
		run.TotalExtracted,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (
            run_id, seq, bank, name, outcome, entry_offset, entry_length,
            payload_offset, payload_size, digest, output_path, reason
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range run.Records {
		var payloadOffset any
		if rec.PayloadOffset != nil {
			payloadOffset = int64(*rec.PayloadOffset)
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			rec.Seq,
			rec.Bank,
			rec.Name,
			rec.Outcome,
			int64(rec.EntryOffset),
			int64(rec.EntryLength),
			payloadOffset,
			rec.PayloadSize,
			nullableString(rec.Digest.String()),
			nullableString(rec.OutputPath),
			nullableString(rec.Reason),
		); err != nil {
			return fmt.Errorf("insert result %s/%s: %w", rec.Bank, rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, without records.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, bank_root, output_root, description_path, dry_run, total_extracted
         FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its records in processing order.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, bank_root, output_root, description_path, dry_run, total_extracted
         FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, bank, name, outcome, entry_offset, entry_length,
                payload_offset, payload_size, digest, output_path, reason
         FROM results WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec                        Record
			entryOffset, entryLength   int64
			payloadOffset              sql.NullInt64
			digestRaw, outPath, reason sql.NullString
		)
		if err := rows.Scan(&rec.Seq, &rec.Bank, &rec.Name, &rec.Outcome, &entryOffset, &entryLength,
			&payloadOffset, &rec.PayloadSize, &digestRaw, &outPath, &reason); err != nil {
			return Run{}, fmt.Errorf("scan result: %w", err)
		}
		rec.EntryOffset = uint64(entryOffset)
		rec.EntryLength = uint64(entryLength)
		if payloadOffset.Valid {
			v := uint64(payloadOffset.Int64)
			rec.PayloadOffset = &v
		}
		if digestRaw.Valid {
			rec.Digest = digest.Digest(digestRaw.String)
		}
		rec.OutputPath = outPath.String
		rec.Reason = reason.String
		run.Records = append(run.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate results: %w", err)
	}
	return run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run               Run
		started, finished string
		dryRun            int
	)
	if err := scanner.Scan(&run.ID, &started, &finished, &run.BankRoot, &run.OutputRoot,
		&run.DescriptionPath, &dryRun, &run.TotalExtracted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
	run.DryRun = dryRun != 0
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
