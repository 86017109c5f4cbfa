package core

import (
	"github.com/vovakirdan/wirechat-roster/internal/chat"
	"github.com/vovakirdan/wirechat-roster/internal/roster"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoster carries a roster notification.
	EventRoster EventKind = iota
	// EventChatLine carries a rendered chat line.
	EventChatLine
	// EventAlert asks the UI to draw attention.
	EventAlert
	// EventNickCount reports the number of players visible in Scope.
	EventNickCount
	// EventModeration asks the network collaborator to kick, ban, delegate
	// or follow a player.
	EventModeration
	// EventError notifies a single client about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in the core.
// Scope is set for events produced by a chat session.
type Event struct {
	Kind       EventKind
	Scope      roster.Scope
	Roster     *roster.Event
	Line       *chat.Line
	Alert      *chat.Alert
	Count      int
	Moderation *chat.Command
	Error      *CoreError
}
