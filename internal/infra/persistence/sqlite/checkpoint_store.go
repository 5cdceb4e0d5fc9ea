package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/YoshitsuguKoike/repairflow/internal/application/port/output"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/persistence/recordid"
)

// Open opens the database at path and applies the schema
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := NewMigrator(db).Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database %s: %w", path, err)
	}
	return db, nil
}

// CheckpointStore implements output.CheckpointStore with SQLite
type CheckpointStore struct {
	db  *sql.DB
	ids *recordid.Generator
}

// NewCheckpointStore creates a new SQLite-based checkpoint store
func NewCheckpointStore(db *sql.DB) *CheckpointStore {
	return &CheckpointStore{db: db, ids: recordid.New()}
}

// Append stores data as the newest checkpoint of the order
func (s *CheckpointStore) Append(ctx context.Context, orderNumber uint64, state, format string, data []byte) (string, error) {
	number, err := toColumn(orderNumber)
	if err != nil {
		return "", err
	}

	id, err := s.ids.Next()
	if err != nil {
		return "", fmt.Errorf("generate checkpoint id: %w", err)
	}
	created, err := recordid.Time(id)
	if err != nil {
		return "", fmt.Errorf("generate checkpoint id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, order_number, state, format, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, number, state, format, data, created.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert checkpoint of order %d: %w", orderNumber, err)
	}
	return id, nil
}

// Latest returns the newest checkpoint of the order
func (s *CheckpointStore) Latest(ctx context.Context, orderNumber uint64) (*output.CheckpointRecord, error) {
	number, err := toColumn(orderNumber)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, order_number, state, format, data, created_at
		FROM checkpoints
		WHERE order_number = ?
		ORDER BY id DESC
		LIMIT 1
	`, number)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, output.ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest checkpoint of order %d: %w", orderNumber, err)
	}
	return rec, nil
}

// History returns every checkpoint of the order, oldest first
func (s *CheckpointStore) History(ctx context.Context, orderNumber uint64) ([]*output.CheckpointRecord, error) {
	number, err := toColumn(orderNumber)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_number, state, format, data, created_at
		FROM checkpoints
		WHERE order_number = ?
		ORDER BY id ASC
	`, number)
	if err != nil {
		return nil, fmt.Errorf("query checkpoints of order %d: %w", orderNumber, err)
	}
	defer rows.Close()

	var records []*output.CheckpointRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*output.CheckpointRecord, error) {
	var (
		rec     output.CheckpointRecord
		number  int64
		created string
	)
	if err := row.Scan(&rec.ID, &number, &rec.State, &rec.Format, &rec.Data, &created); err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	rec.OrderNumber = uint64(number)
	rec.CreatedAt = createdAt
	return &rec, nil
}

// toColumn maps an order number onto SQLite's signed INTEGER
func toColumn(orderNumber uint64) (int64, error) {
	if orderNumber > math.MaxInt64 {
		return 0, fmt.Errorf("order number %d exceeds the sqlite integer range", orderNumber)
	}
	return int64(orderNumber), nil
}
