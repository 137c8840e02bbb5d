// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/collabhub/pubsub"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("missing or insufficient permissions")
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PermissionError is returned when a write breaks the store rules.
// It matches ErrPermissionDenied under errors.Is.
type PermissionError struct {
	Path                string
	Operation           string
	RequestResourceData any
	PrincipalID         string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %s on %s", ErrPermissionDenied, e.Operation, e.Path)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

type rowScanner interface {
	Scan(dest ...any) error
}

func now() time.Time {
	return time.Now().UTC()
}

// publish reports a change. The write already succeeded, so a broker
// failure is logged rather than returned.
func publish(ctx context.Context, broker pubsub.Broker, ev pubsub.Event) {
	if broker == nil {
		return
	}
	if err := broker.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish change", "collection", ev.Collection, "document_id", ev.DocumentID, "error", err)
	}
}
