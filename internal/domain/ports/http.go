package ports

import (
	"context"
	"time"
)

// ProgressServer exposes the dev-convenience HTTP front door used by the `serve`
// subcommand: accepts a DeckSpec, runs it through the orchestrator, and streams
// progress events to a connected WebSocket client as the run proceeds.
type ProgressServer interface {
	Start(ctx context.Context, port int, host string) error
	Stop(ctx context.Context) error
	NotifyClients(event ProgressEvent) error
	IsRunning() bool
}

// ProgressEvent is a single update pushed to a connected serve client.
type ProgressEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// ProgressEvent Type constants.
const (
	EventTypeSlideStarted   = "slide_started"
	EventTypeElementPlaced  = "element_placed"
	EventTypeSlideCompleted = "slide_completed"
	EventTypeWarning        = "warning"
	EventTypeError          = "error"
	EventTypeDeckCompleted  = "deck_completed"
)
