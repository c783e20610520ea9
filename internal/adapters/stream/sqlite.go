package stream

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// localShardID is reported for every record written to the SQLite sink
const localShardID = "shardId-local"

// StoredRecord is a record as persisted by the SQLite sink
type StoredRecord struct {
	ID           int64     `json:"id"`
	PartitionKey string    `json:"partition_key"`
	Data         []byte    `json:"data"`
	CreatedAt    time.Time `json:"created_at"`
}

// SQLitePublisher is a local stand-in for the event stream. Records are
// appended to a table and the row id serves as the sequence number.
type SQLitePublisher struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLitePublisher opens (or creates) the database at path and applies
// the sink schema.
func NewSQLitePublisher(path string) (*SQLitePublisher, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrateSink(db); err != nil {
		db.Close()
		return nil, err
	}

	logrus.WithField("path", path).Info("SQLite event sink ready")

	return &SQLitePublisher{db: db}, nil
}

func migrateSink(db *sql.DB) error {
	m, err := newSinkMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run sink migrations: %w", err)
	}

	return nil
}

// Publish implements Publisher.Publish
func (s *SQLitePublisher) Publish(ctx context.Context, record *Record) (*PublishResult, error) {
	if err := validateRecord("Insert", record); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewPublishError("Insert", "", ErrPublisherClosed, false)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO collected_events (partition_key, data, created_at) VALUES (?, ?, ?)`,
		record.PartitionKey, string(record.Data), now)
	if err != nil {
		return nil, NewPublishError("Insert", "", err, false)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, NewPublishError("Insert", "", err, false)
	}

	return &PublishResult{
		ShardID:        localShardID,
		SequenceNumber: strconv.FormatInt(id, 10),
		PublishedAt:    now,
	}, nil
}

// List returns the most recent records, newest first
func (s *SQLitePublisher) List(ctx context.Context, limit int) ([]StoredRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrPublisherClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, partition_key, data, created_at FROM collected_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query collected events: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var r StoredRecord
		var data string
		if err := rows.Scan(&r.ID, &r.PartitionKey, &data, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collected event: %w", err)
		}
		r.Data = []byte(data)
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close implements Publisher.Close
func (s *SQLitePublisher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
