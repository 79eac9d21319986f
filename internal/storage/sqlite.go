package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// sortableTime has fixed width so created_at orders lexically.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps metadata as a JSON payload and the recorded table as
// one row per entry, values in their exact text form.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "runs.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			t TEXT NOT NULL,
			s TEXT NOT NULL,
			i TEXT NOT NULL,
			r TEXT NOT NULL,
			ds TEXT,
			di TEXT,
			dr TEXT,
			PRIMARY KEY (run_id, idx)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(meta RunMetadata, traj sim.Trajectory) (id string, retErr error) {
	meta = stamp(meta)
	payload, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`INSERT INTO runs (id, created_at, payload) VALUES (?, ?, ?)`,
		meta.ID, meta.Timestamp.UTC().Format(sortableTime), payload); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO entries (run_id, idx, t, s, i, r, ds, di, dr) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for k := 0; k < traj.Len(); k++ {
		row := traj.Row(k)
		var ds, di, dr sql.NullString
		if row.HasDerivative {
			ds = sql.NullString{String: row.DS, Valid: true}
			di = sql.NullString{String: row.DI, Valid: true}
			dr = sql.NullString{String: row.DR, Valid: true}
		}
		if _, err := stmt.Exec(meta.ID, k, row.Time, row.S, row.I, row.R, ds, di, dr); err != nil {
			return "", fmt.Errorf("insert entry %d: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *SQLiteStore) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(`SELECT payload FROM runs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var meta RunMetadata
		if err := json.Unmarshal(payload, &meta); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(id string) (*RunMetadata, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &meta, nil
}

func (s *SQLiteStore) LoadTrajectory(id string) (sim.Trajectory, error) {
	rows, err := s.db.Query(`SELECT t, s, i, r, ds, di, dr FROM entries WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []sim.Row
	for rows.Next() {
		var row sim.Row
		var ds, di, dr sql.NullString
		if err := rows.Scan(&row.Time, &row.S, &row.I, &row.R, &ds, &di, &dr); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if ds.Valid {
			row.DS, row.DI, row.DR = ds.String, di.String, dr.String
			row.HasDerivative = true
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tab, err := sim.NewTable(out)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

func (s *SQLiteStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE run_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
