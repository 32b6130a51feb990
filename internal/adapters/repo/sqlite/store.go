// Package sqlite stores the state aggregate in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/bnema/punchclock/internal/ports"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	statePathKey   = "store.path"
	stateConfigDir = ".punchclock"
	stateFileName  = "punch.db"
)

// Store implements ports.StateStore. Save replaces both tables inside one
// transaction so the aggregate is written whole.
type Store struct {
	db   *sql.DB
	path string
}

var _ ports.StateStore = (*Store)(nil)

// NewStore opens (and creates if needed) the database named by store.path.
func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dbPath := cfg.GetString(statePathKey)
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, stateConfigDir, stateFileName)
	}

	return Open(dbPath)
}

func Open(dbPath string) (*Store, error) {
	dbPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS roles (
		role_name TEXT PRIMARY KEY,
		rate TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS active_sessions (
		member_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) (domain.State, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return domain.State{}, fmt.Errorf("begin load transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	state := domain.NewState()
	if err := loadRoles(ctx, tx, state.Rates); err != nil {
		return domain.State{}, err
	}
	if err := loadSessions(ctx, tx, state.Sessions); err != nil {
		return domain.State{}, err
	}

	return state, nil
}

func loadRoles(ctx context.Context, tx *sql.Tx, rates domain.RateTable) error {
	rows, err := tx.QueryContext(ctx, `SELECT role_name, rate FROM roles`)
	if err != nil {
		return fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, raw string
		if err := rows.Scan(&role, &raw); err != nil {
			return fmt.Errorf("scan role row: %w", err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("decode rate for role %q: %w", role, err)
		}
		if err := domain.ValidateRate(rate); err != nil {
			return fmt.Errorf("decode rate for role %q: %w", role, err)
		}
		rates[domain.RoleName(role)] = rate
	}

	return rows.Err()
}

func loadSessions(ctx context.Context, tx *sql.Tx, sessions domain.Ledger) error {
	rows, err := tx.QueryContext(ctx, `SELECT member_id, started_at FROM active_sessions`)
	if err != nil {
		return fmt.Errorf("query active sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member, raw string
		if err := rows.Scan(&member, &raw); err != nil {
			return fmt.Errorf("scan session row: %w", err)
		}
		sessions[domain.MemberID(member)] = domain.SessionFromStored(raw)
	}

	return rows.Err()
}

func (s *Store) Save(ctx context.Context, state domain.State) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback save transaction: %w", rollbackErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM roles`); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM active_sessions`); err != nil {
		return fmt.Errorf("clear active sessions: %w", err)
	}

	for role, rate := range state.Rates {
		if _, err = tx.ExecContext(ctx, `INSERT INTO roles (role_name, rate) VALUES (?, ?)`, string(role), rate.String()); err != nil {
			return fmt.Errorf("insert role %q: %w", role, err)
		}
	}
	for member, session := range state.Sessions {
		if _, err = tx.ExecContext(ctx, `INSERT INTO active_sessions (member_id, started_at) VALUES (?, ?)`, string(member), session.Stored()); err != nil {
			return fmt.Errorf("insert session for member %q: %w", member, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}

	return nil
}
