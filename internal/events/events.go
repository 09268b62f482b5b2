// Package events mirrors committed store writes to an external message bus.
package events

import (
	"context"
	"time"
)

// TopicTablesChanged is the default subject TablesChanged events are published on.
const TopicTablesChanged = "paramset.tables.changed"

// TablesChanged is published after every committed write.
type TablesChanged struct {
	Op       string    `json:"op"`
	Tables   []string  `json:"tables"`
	ConfigID uint64    `json:"config_id,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher sends events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
