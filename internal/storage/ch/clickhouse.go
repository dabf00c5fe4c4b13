package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync/atomic"
	"time"

	"bookshelf/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// maxRecent caps Recent when no positive limit is given
const maxRecent = 1000

// EventLog stores shelf events in the ClickHouse book_events table.
// seq orders events recorded within the same millisecond; it is seeded from
// the wall clock so it keeps growing across restarts.
type EventLog struct {
	conn clickhouse.Conn
	seq  atomic.Uint64
}

// NewEventLog creates a new ClickHouse connection for the event journal
func NewEventLog(host string, port int, database, user, password string, useTLS bool) (*EventLog, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	l := &EventLog{conn: conn}
	l.seq.Store(uint64(time.Now().UnixNano()))
	return l, nil
}

// Initialize is a no-op - the table is managed via migrations
func (l *EventLog) Initialize(ctx context.Context) error {
	return nil
}

// Record inserts a single event
func (l *EventLog) Record(ctx context.Context, event models.BookEvent) error {
	err := l.conn.Exec(ctx, `INSERT INTO book_events (time, seq, action, book_id, book_name) VALUES (?, ?, ?, ?, ?)`,
		event.Time, l.seq.Add(1), string(event.Action), event.BookID, event.BookName)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// Recent returns the last limit events, newest first
func (l *EventLog) Recent(ctx context.Context, limit int) ([]models.BookEvent, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}

	rows, err := l.conn.Query(ctx, `SELECT time, action, book_id, book_name FROM book_events ORDER BY time DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	defer rows.Close()

	events := make([]models.BookEvent, 0, limit)
	for rows.Next() {
		var (
			event  models.BookEvent
			action string
		)
		if err := rows.Scan(&event.Time, &action, &event.BookID, &event.BookName); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Action = models.EventAction(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// Close closes the database connection
func (l *EventLog) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
