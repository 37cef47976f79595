// Package store appends discovered patterns to the pattern mapping table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/database"
	"github.com/witcherai/savescan/internal/lock"
	"github.com/witcherai/savescan/internal/logger"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/sqlutil"
)

// Values written to every automatically recorded row.
const (
	DataTypeAutoDiscovered = "auto_discovered"
	StatusAgentFound       = "agent_found"
)

// ErrStoreDisabled is returned by Open when store.enabled is false.
var ErrStoreDisabled = errors.New("pattern store is disabled")

// Recorder persists one discovered pattern.
type Recorder interface {
	Record(ctx context.Context, patternName, patternType, title string, confidence float64) error
}

// SQLStore appends rows to the configured mapping table. The table must
// already exist; schema management is left to the operator.
//
// Writes are serialized so concurrent callers never interleave a batch. On
// MySQL a batch additionally holds an advisory lock named after the table so
// separate processes do not interleave either.
type SQLStore struct {
	db      *sql.DB
	insert  string
	logger  *logger.Logger
	manager *database.Manager
	lock    *lock.AdvisoryLock

	mu sync.Mutex
}

// New wraps an open database handle. table is validated and quoted for the
// dialect.
func New(db *sql.DB, dialect sqlutil.Dialect, table string, log *logger.Logger) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	quoted, err := sqlutil.QuoteIdentifierSafe(dialect, table)
	if err != nil {
		return nil, fmt.Errorf("invalid store table: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &SQLStore{
		db: db,
		insert: fmt.Sprintf(
			"INSERT INTO %s (pattern_text, pattern_type, game_concept, confidence_level, data_type, verification_status) VALUES (?, ?, ?, ?, ?, ?)",
			quoted,
		),
		logger: log,
	}, nil
}

// Open connects to the configured store database. It returns
// ErrStoreDisabled when recording is turned off.
func Open(ctx context.Context, cfg *config.StoreConfig, log *logger.Logger) (*SQLStore, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrStoreDisabled
	}

	manager := database.NewManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		return nil, err
	}

	s, err := New(manager.DB, sqlutil.Dialect(cfg.Driver), cfg.Table, log)
	if err != nil {
		manager.Close()
		return nil, err
	}
	s.manager = manager
	if cfg.Driver == database.DriverMySQL {
		s.lock = lock.NewStoreLock(manager.DB, cfg.Table)
	}
	return s, nil
}

// Record appends a single pattern row.
func (s *SQLStore) Record(ctx context.Context, patternName, patternType, title string, confidence float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, s.insert, insertArgs(patternName, patternType, title, confidence)...)
	if err != nil {
		return fmt.Errorf("failed to record pattern %q: %w", patternName, err)
	}
	return nil
}

// RecordMatches appends every match of one title in a single transaction and
// returns the number of rows written.
func (s *SQLStore) RecordMatches(ctx context.Context, title string, matches []scanner.PatternMatch) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock == nil {
		return s.recordBatch(ctx, title, matches)
	}

	var n int
	err := s.lock.WithLock(ctx, lock.TimeoutMedium, func() error {
		var err error
		n, err = s.recordBatch(ctx, title, matches)
		return err
	})
	return n, err
}

func (s *SQLStore) recordBatch(ctx context.Context, title string, matches []scanner.PatternMatch) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin store transaction: %w", err)
	}

	defer func() {
		if tx != nil {
			s.logger.Warn("Rolling back store transaction")
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Errorf("Failed to rollback store transaction: %v", rbErr)
			}
		}
	}()

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("recording interrupted: %w", err)
		}
		args := insertArgs(m.PatternName, string(m.Category), title, m.Confidence)
		if _, err := tx.ExecContext(ctx, s.insert, args...); err != nil {
			return 0, fmt.Errorf("failed to record pattern %q: %w", m.PatternName, err)
		}
	}

	// A failed commit has already ended the transaction.
	err = tx.Commit()
	tx = nil
	if err != nil {
		return 0, fmt.Errorf("failed to commit store transaction: %w", err)
	}

	s.logger.Debugf("Recorded %d patterns for %s", len(matches), title)
	return len(matches), nil
}

// Close releases the connection when the store owns it.
func (s *SQLStore) Close() error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Close()
}

func insertArgs(patternName, patternType, title string, confidence float64) []any {
	return []any{
		patternName,
		patternType,
		title + "_discovery",
		confidence,
		DataTypeAutoDiscovered,
		StatusAgentFound,
	}
}
