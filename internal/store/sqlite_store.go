package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/kurotych/fluckybackup/internal/model"
)

// DBFileName is the SQLite history database inside the config directory.
const DBFileName = "deliveries.db"

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	request_id   TEXT NOT NULL,
	target       TEXT NOT NULL,
	message      TEXT NOT NULL,
	kind         TEXT NOT NULL,
	status_code  INTEGER NOT NULL DEFAULT 0,
	body         TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	submitted_at INTEGER NOT NULL,
	completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS deliveries_completed ON deliveries (completed_at, seq);
`

const deliveryColumns = `id, request_id, target, message, kind, status_code, body, error, submitted_at, completed_at`

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// NewSQLiteStore opens or creates the history database in configDir,
// keeping at most limit deliveries.
func NewSQLiteStore(configDir string, limit int) (*SQLiteStore, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}
	path := filepath.Join(configDir, DBFileName)

	// Create the file up front so it is not world-readable.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	_ = f.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Observers record from dispatch goroutines; one connection serializes
	// writers instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &SQLiteStore{db: db, limit: limit}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record inserts a delivery and evicts the oldest beyond the limit.
func (s *SQLiteStore) Record(ctx context.Context, d *model.Delivery) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO deliveries (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		d.ID, d.RequestID, d.Target, d.Message, string(d.Kind),
		d.StatusCode, d.Body, d.Error, d.SubmittedAt, d.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyExists
	}

	if s.limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM deliveries WHERE seq NOT IN (
				SELECT seq FROM deliveries ORDER BY seq DESC LIMIT ?)`,
			s.limit,
		); err != nil {
			return fmt.Errorf("trim deliveries: %w", err)
		}
	}
	return tx.Commit()
}

// List returns deliveries sorted by CompletedAt descending, latest insert
// first within the same second.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries ORDER BY completed_at DESC, seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

// Get retrieves a delivery by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Delivery, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, id)
	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// Clear removes all deliveries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM deliveries`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDelivery(sc scanner) (*model.Delivery, error) {
	var d model.Delivery
	var kind string
	if err := sc.Scan(&d.ID, &d.RequestID, &d.Target, &d.Message, &kind,
		&d.StatusCode, &d.Body, &d.Error, &d.SubmittedAt, &d.CompletedAt); err != nil {
		return nil, err
	}
	d.Kind = model.OutcomeKind(kind)
	return &d, nil
}
