// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pubsub

import (
	"context"
	"sync"
)

// ProjectsCollection is the collection id of all projects.
const ProjectsCollection = "projects"

// Operations carried by an Event
const (
	OpCreate = "create"
	OpUpdate = "update"
)

// ApplicationsCollection returns the collection id of a project's applications.
func ApplicationsCollection(projectID string) string {
	return "projects/" + projectID + "/applications"
}

// Event tells subscribers that a document in a collection changed.
// It carries no document body; subscribers re-read what they need.
type Event struct {
	Collection string `json:"collection"`
	DocumentID string `json:"document_id"`
	Operation  string `json:"operation"`
}

// Broker fans change events out to subscribers of a collection.
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, collection string) (*Subscription, error)
	Close() error
}

// Subscription delivers events for one collection until Close is called.
// C is closed after Close.
type Subscription struct {
	C <-chan Event

	once   sync.Once
	cancel func()
}

func newSubscription(c <-chan Event, cancel func()) *Subscription {
	return &Subscription{C: c, cancel: cancel}
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// subscriberBuffer bounds how many undelivered events a slow subscriber may
// hold before new ones are dropped.
const subscriberBuffer = 16
