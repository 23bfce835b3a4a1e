package natsbench

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// schemaVersion is the benchmark file format this build reads and writes.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS archs (
	arch_index INTEGER PRIMARY KEY,
	arch_str   TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS results (
	arch_index     INTEGER NOT NULL,
	dataset        TEXT NOT NULL,
	hp             INTEGER NOT NULL,
	train_accuracy REAL NOT NULL,
	test_accuracy  REAL NOT NULL,
	train_loss     REAL NOT NULL,
	test_loss      REAL NOT NULL,
	PRIMARY KEY (arch_index, dataset, hp),
	FOREIGN KEY (arch_index) REFERENCES archs(arch_index)
);
`

// Store is the local benchmark file: a SQLite database holding the
// architecture enumeration and the precomputed result records.
// It implements Client (read side) and exposes a write side used by
// `bench import` and tests.
type Store struct {
	db *sql.DB
}

// Open opens or creates a benchmark file at path and verifies its schema
// version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("natsbench: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("natsbench: ping %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("natsbench: create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("natsbench: set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("natsbench: read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("natsbench: benchmark file has schema version %d, this build reads %d", v, schemaVersion)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Size implements Client.
func (s *Store) Size(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archs").Scan(&n); err != nil {
		return 0, fmt.Errorf("natsbench: count archs: %w", err)
	}
	return n, nil
}

// Arch implements Client.
func (s *Store) Arch(ctx context.Context, index int) (string, error) {
	var arch string
	err := s.db.QueryRowContext(ctx,
		"SELECT arch_str FROM archs WHERE arch_index = ?", index).Scan(&arch)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: architecture %d", ErrNotFound, index)
	}
	if err != nil {
		return "", fmt.Errorf("natsbench: arch %d: %w", index, err)
	}
	return arch, nil
}

// MoreInfo implements Client.
func (s *Store) MoreInfo(ctx context.Context, index int, dataset string, hp int) (*Info, error) {
	var info Info
	err := s.db.QueryRowContext(ctx,
		`SELECT train_accuracy, test_accuracy, train_loss, test_loss
		 FROM results WHERE arch_index = ? AND dataset = ? AND hp = ?`,
		index, dataset, hp).
		Scan(&info.TrainAccuracy, &info.TestAccuracy, &info.TrainLoss, &info.TestLoss)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: arch %d dataset %s hp %d", ErrNotFound, index, dataset, hp)
	}
	if err != nil {
		return nil, fmt.Errorf("natsbench: more info arch %d dataset %s hp %d: %w", index, dataset, hp, err)
	}
	return &info, nil
}

// PutArch records the architecture string for an index (write side).
func (s *Store) PutArch(ctx context.Context, index int, arch string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO archs(arch_index, arch_str) VALUES(?, ?)", index, arch)
	if err != nil {
		return fmt.Errorf("natsbench: put arch %d: %w", index, err)
	}
	return nil
}

// PutInfo records a result for (index, dataset, hp) (write side).
func (s *Store) PutInfo(ctx context.Context, index int, dataset string, hp int, info *Info) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results
		 (arch_index, dataset, hp, train_accuracy, test_accuracy, train_loss, test_loss)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		index, dataset, hp, info.TrainAccuracy, info.TestAccuracy, info.TrainLoss, info.TestLoss)
	if err != nil {
		return fmt.Errorf("natsbench: put info arch %d dataset %s hp %d: %w", index, dataset, hp, err)
	}
	return nil
}

// Stats summarizes a benchmark file for `bench info`.
type Stats struct {
	Archs   int
	Results int
	// ResultsBySlot counts result rows per (dataset, hp) slot.
	ResultsBySlot map[string]int
}

// Stats counts the store's contents.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ResultsBySlot: map[string]int{}}
	var err error
	if st.Archs, err = s.Size(ctx); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&st.Results); err != nil {
		return nil, fmt.Errorf("natsbench: count results: %w", err)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT dataset, hp, COUNT(*) FROM results GROUP BY dataset, hp ORDER BY dataset, hp")
	if err != nil {
		return nil, fmt.Errorf("natsbench: group results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			ds string
			hp, n int
		)
		if err := rows.Scan(&ds, &hp, &n); err != nil {
			return nil, fmt.Errorf("natsbench: scan slot: %w", err)
		}
		st.ResultsBySlot[fmt.Sprintf("%s/hp%d", ds, hp)] = n
	}
	return st, rows.Err()
}
