// Package progress fans a single generate() call's slide-by-slide progress out to any
// number of subscribed clients, the way a dev server's progress view stays in sync with a
// long-running build. One Broadcaster backs the whole `serve` subcommand; every connected
// websocket client subscribes under its own connection id.
package progress

import (
	"sync"

	"github.com/deckforge/deckforge/internal/domain/ports"
)

// Broadcaster distributes ports.ProgressEvent values to subscribed clients, dropping events
// for clients that aren't keeping up rather than blocking the generation it's reporting on.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[string]chan ports.ProgressEvent
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[string]chan ports.ProgressEvent)}
}

// Subscribe registers a new client and returns its event channel. The caller must
// eventually call Unsubscribe with the same id to release it.
func (b *Broadcaster) Subscribe(clientID string) <-chan ports.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ports.ProgressEvent, 16)
	b.clients[clientID] = ch
	return ch
}

// Unsubscribe removes and closes a client's channel.
func (b *Broadcaster) Unsubscribe(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.clients[clientID]; ok {
		close(ch)
		delete(b.clients, clientID)
	}
}

// Broadcast sends an event to every subscribed client. A client whose buffer is full is
// skipped rather than blocking the rest — slow consumers lose progress updates, not the
// generation they're watching.
func (b *Broadcaster) Broadcast(event ports.ProgressEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of currently subscribed clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close shuts down every subscribed client's channel, e.g. once generation is complete.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.clients {
		close(ch)
		delete(b.clients, id)
	}
}
