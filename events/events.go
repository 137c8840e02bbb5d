// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events carries structured permission-error events from the
// workflows that hit them to whoever observes them (logs, telemetry).
package events

import (
	"log/slog"
	"sync"
)

// PermissionEvent describes a write rejected by the store rules.
type PermissionEvent struct {
	Path                string `json:"path"`
	Operation           string `json:"operation"`
	RequestResourceData any    `json:"request_resource_data,omitempty"`
	PrincipalID         string `json:"principal_id,omitempty"`
}

type Handler func(PermissionEvent)

// Emitter dispatches permission events to registered handlers synchronously.
type Emitter struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[int]Handler)}
}

// On registers h and returns a function that removes it.
func (e *Emitter) On(h Handler) (off func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.handlers[id] = h
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}
}

func (e *Emitter) Emit(ev PermissionEvent) {
	if e == nil {
		return
	}
	e.mu.RLock()
	handlers := make([]Handler, 0, len(e.handlers))
	for _, h := range e.handlers {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// LogPermissionErrors is a Handler that writes the event to slog.
func LogPermissionErrors(ev PermissionEvent) {
	slog.Warn("permission-error",
		"path", ev.Path,
		"operation", ev.Operation,
		"principal_id", ev.PrincipalID,
		"request_resource_data", ev.RequestResourceData,
	)
}
