package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	drepo "DivScout/internal/domain/repository"
)

// ClickHouseLookupAudit batches lookup events into ClickHouse. Record never
// blocks the request path; full buffers drop the event.
type ClickHouseLookupAudit struct {
	db    *sql.DB
	table string

	events chan drepo.LookupEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewClickHouseLookupAudit starts the background flusher.
func NewClickHouseLookupAudit(db *sql.DB, table string, flushSize int, flushInterval time.Duration) *ClickHouseLookupAudit {
	if flushSize <= 0 {
		flushSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	a := &ClickHouseLookupAudit{
		db:     db,
		table:  table,
		events: make(chan drepo.LookupEvent, 1024),
		done:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.flushLoop(flushSize, flushInterval)
	return a
}

func (a *ClickHouseLookupAudit) Record(event drepo.LookupEvent) {
	select {
	case a.events <- event:
	default:
		// drop on backpressure
	}
}

func (a *ClickHouseLookupAudit) Recent(ctx context.Context, limit int) ([]drepo.LookupEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := fmt.Sprintf("SELECT ts, symbol, source, duration_ms, ok FROM %s ORDER BY ts DESC LIMIT %d", a.table, limit)
	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query lookup audit: %w", err)
	}
	defer rows.Close()

	var out []drepo.LookupEvent
	for rows.Next() {
		var (
			e  drepo.LookupEvent
			ok uint8
		)
		if err := rows.Scan(&e.Timestamp, &e.Symbol, &e.Source, &e.Duration, &ok); err != nil {
			return nil, fmt.Errorf("scan lookup audit: %w", err)
		}
		e.OK = ok == 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (a *ClickHouseLookupAudit) Close() error {
	close(a.done)
	a.wg.Wait()
	return nil
}

func (a *ClickHouseLookupAudit) flushLoop(flushSize int, interval time.Duration) {
	defer a.wg.Done()

	buf := make([]drepo.LookupEvent, 0, flushSize)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if err := a.insert(buf); err != nil {
			log.Printf("lookup audit flush error: %v", err)
		}
		buf = buf[:0]
	}

	for {
		select {
		case e := <-a.events:
			buf = append(buf, e)
			if len(buf) >= flushSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-a.done:
			// drain whatever is already queued
			for {
				select {
				case e := <-a.events:
					buf = append(buf, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (a *ClickHouseLookupAudit) insert(events []drepo.LookupEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (ts, symbol, source, duration_ms, ok) VALUES (?, ?, ?, ?, ?)", a.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		ok := uint8(0)
		if e.OK {
			ok = 1
		}
		if _, err := stmt.ExecContext(ctx, e.Timestamp, e.Symbol, e.Source, e.Duration, ok); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec: %w", err)
		}
	}
	return tx.Commit()
}

// NoopLookupAudit is used when ClickHouse is not configured.
type NoopLookupAudit struct{}

func (NoopLookupAudit) Record(drepo.LookupEvent) {}

func (NoopLookupAudit) Recent(context.Context, int) ([]drepo.LookupEvent, error) {
	return []drepo.LookupEvent{}, nil
}

func (NoopLookupAudit) Close() error { return nil }
