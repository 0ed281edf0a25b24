// Package events describes the changes made to fund entries and the
// publishers that deliver them to other systems.
package events

import (
	"context"
	"sync"
	"time"
)

// Type names an entry change.
type Type string

const (
	// EntrySaved is published after an entry was created or replaced.
	EntrySaved Type = "entry.saved"
	// EntryDeleted is published after an entry was removed.
	EntryDeleted Type = "entry.deleted"
)

// EntryEvent is the message published for an entry change.
// Addition and Shares are omitted when they were left blank.
type EntryEvent struct {
	Type       Type      `json:"type"`
	FundID     string    `json:"fundId"`
	EntryID    string    `json:"entryId,omitempty"`
	Date       string    `json:"date"`
	NetValue   float64   `json:"netValue,omitempty"`
	Addition   *float64  `json:"addition,omitempty"`
	Shares     *float64  `json:"shares,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers entry events.
type Publisher interface {
	Publish(ctx context.Context, event EntryEvent) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EntryEvent) error { return nil }
func (NopPublisher) Close() error                              { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []EntryEvent
}

func (r *Recorder) Publish(_ context.Context, event EntryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events in publication order.
func (r *Recorder) Events() []EntryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EntryEvent(nil), r.events...)
}
