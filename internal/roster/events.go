package roster

// EventKind describes a roster notification.
type EventKind int

const (
	// EventPlayerAdded: a player appeared in the lobby.
	EventPlayerAdded EventKind = iota
	// EventPlayerRemoved: a player left the lobby; Reason may be set.
	EventPlayerRemoved
	// EventPlayerJoinedRoom: a player joined the local user's room.
	EventPlayerJoinedRoom
	// EventPlayerLeftRoom: a player left the local user's room.
	EventPlayerLeftRoom
	// EventPlayerChanged: flags or derived state of a player changed.
	EventPlayerChanged
)

var eventNames = map[EventKind]string{
	EventPlayerAdded:      "player_added",
	EventPlayerRemoved:    "player_removed",
	EventPlayerJoinedRoom: "player_joined_room",
	EventPlayerLeftRoom:   "player_left_room",
	EventPlayerChanged:    "player_changed",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Scope separates lobby-wide from room-local notifications.
type Scope int

const (
	ScopeLobby Scope = iota
	ScopeRoom
)

func (s Scope) String() string {
	if s == ScopeRoom {
		return "room"
	}
	return "lobby"
}

// Event is emitted synchronously after the roster finished a mutation.
type Event struct {
	Kind     EventKind
	Nickname string
	// Notify asks the consumer to raise an audible or visual alert.
	Notify bool
	Reason string
	// View is the player's state after the mutation; nil when the player is
	// not (or no longer) in the roster.
	View *View
}

// Scope returns the scope the event belongs to.
func (e Event) Scope() Scope {
	switch e.Kind {
	case EventPlayerJoinedRoom, EventPlayerLeftRoom:
		return ScopeRoom
	default:
		return ScopeLobby
	}
}

// Listener receives roster events on the goroutine that mutated the roster.
type Listener func(Event)
