package store

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/lock"
	"github.com/witcherai/savescan/internal/logger"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/sqlutil"
)

var insertSQL = regexp.QuoteMeta(
	"INSERT INTO `pattern_game_mapping` (pattern_text, pattern_type, game_concept, confidence_level, data_type, verification_status) VALUES (?, ?, ?, ?, ?, ?)",
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, sqlutil.MySQL, "pattern_game_mapping", nil)
	require.NoError(t, err)
	return s, mock
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, sqlutil.MySQL, "pattern_game_mapping", nil)
	assert.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, sqlutil.MySQL, "mapping; DROP TABLE x", nil)
	require.Error(t, err)
	var invalid *sqlutil.InvalidIdentifierError
	assert.True(t, errors.As(err, &invalid))
}

func TestNew_SQLiteQuoting(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := New(db, sqlutil.SQLite, "PatternGameMapping", nil)
	require.NoError(t, err)
	assert.Contains(t, s.insert, `INSERT INTO "PatternGameMapping" (`)
}

func TestRecord(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(insertSQL).
		WithArgs("questSystem", "quest", "witcher2_discovery", 0.95, "auto_discovered", "agent_found").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Record(context.Background(), "questSystem", "quest", "witcher2", 0.95))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_Error(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(insertSQL).WillReturnError(errors.New("no such table"))

	err := s.Record(context.Background(), "quest", "quest", "witcher1", 0.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"quest"`)
	assert.Contains(t, err.Error(), "no such table")
}

func matches() []scanner.PatternMatch {
	return []scanner.PatternMatch{
		{PatternName: "DZIP", Category: catalog.CategorySaveMetadata, Confidence: 0.99, Count: 1},
		{PatternName: "roche_path", Category: catalog.CategoryCharacter, Confidence: 0.94, Count: 2},
	}
}

func TestRecordMatches_Commits(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).
		WithArgs("DZIP", "save_metadata", "witcher2_discovery", 0.99, "auto_discovered", "agent_found").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertSQL).
		WithArgs("roche_path", "character", "witcher2_discovery", 0.94, "auto_discovered", "agent_found").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := s.RecordMatches(context.Background(), "witcher2", matches())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMatches_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertSQL).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	n, err := s.RecordMatches(context.Background(), "witcher2", matches())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMatches_CommitFailureSkipsRollback(t *testing.T) {
	s, mock := newMockStore(t)
	core, logs := observer.New(zapcore.DebugLevel)
	s.logger = logger.NewWithCore(core)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

	n, err := s.RecordMatches(context.Background(), "witcher2", matches())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit store transaction")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, logs.FilterMessageSnippet("ollback").Len(), "no rollback after a failed commit")
}

func TestRecordMatches_HoldsStoreLock(t *testing.T) {
	s, mock := newMockStore(t)
	s.lock = lock.NewStoreLock(s.db, "pattern_game_mapping")

	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs("savescan:store:pattern_game_mapping", lock.TimeoutMedium).
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(1))

	n, err := s.RecordMatches(context.Background(), "witcher2", matches())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMatches_StoreLockTimeout(t *testing.T) {
	s, mock := newMockStore(t)
	s.lock = lock.NewStoreLock(s.db, "pattern_game_mapping")

	mock.ExpectQuery("SELECT GET_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(0))

	n, err := s.RecordMatches(context.Background(), "witcher2", matches())
	assert.ErrorIs(t, err, lock.ErrLockTimeout)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMatches_Empty(t *testing.T) {
	s, mock := newMockStore(t)

	n, err := s.RecordMatches(context.Background(), "witcher2", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_ConcurrentCallersAreSerialized(t *testing.T) {
	s, mock := newMockStore(t)
	mock.MatchExpectationsInOrder(false)

	const writers = 8
	for range writers {
		mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	}

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Record(context.Background(), "quest", "quest", "witcher3", float64(i)/10))
		}(i)
	}
	wg.Wait()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_Disabled(t *testing.T) {
	_, err := Open(context.Background(), &config.StoreConfig{Enabled: false}, nil)
	assert.ErrorIs(t, err, ErrStoreDisabled)

	_, err = Open(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrStoreDisabled)
}

func TestOpen_SQLiteFile(t *testing.T) {
	cfg := &config.StoreConfig{
		Enabled: true,
		Driver:  "sqlite",
		Path:    t.TempDir() + "/patterns.db",
		Table:   "pattern_game_mapping",
	}

	s, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`CREATE TABLE pattern_game_mapping (
		pattern_text TEXT, pattern_type TEXT, game_concept TEXT,
		confidence_level REAL, data_type TEXT, verification_status TEXT)`)
	require.NoError(t, err)

	n, err := s.RecordMatches(context.Background(), "witcher1", matches())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var concept string
	var count int
	require.NoError(t, s.db.QueryRow(
		"SELECT game_concept, COUNT(*) FROM pattern_game_mapping GROUP BY game_concept",
	).Scan(&concept, &count))
	assert.Equal(t, "witcher1_discovery", concept)
	assert.Equal(t, 2, count)
}
