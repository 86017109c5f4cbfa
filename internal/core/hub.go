// Package core runs the lobby model on a single control goroutine. Every
// inbound lobby event and every local request is applied there in arrival
// order, so the roster and chat sessions never see concurrent calls.
package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/chat"
	"github.com/vovakirdan/wirechat-roster/internal/identity"
	"github.com/vovakirdan/wirechat-roster/internal/roster"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// Options configures a Hub.
type Options struct {
	Lists        store.ListStore
	Hasher       *identity.Hasher
	Correlations *identity.Correlations
	Badges       *roster.BadgeCache
	Logger       *zerolog.Logger

	AutoKick bool
	Notify   bool
}

// inbound is either a command from a client or a closure from Do.
type inbound struct {
	client *Client
	cmd    *Command
	call   func()
}

// Chats holds the chat session of each roster scope.
type Chats struct {
	Lobby *chat.Session
	Room  *chat.Session
}

// For returns the session rendering scope.
func (c Chats) For(scope roster.Scope) *chat.Session {
	if scope == roster.ScopeRoom {
		return c.Room
	}
	return c.Lobby
}

// Hub owns the roster and chat sessions and fans their output out to clients.
type Hub struct {
	roster *roster.Roster
	chats  Chats
	log    *zerolog.Logger

	inbox      chan inbound
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}

	// clients is touched only by the control goroutine.
	clients map[*Client]struct{}
}

// NewHub builds the roster and the lobby and room chat sessions and wires
// their callbacks.
func NewHub(opts Options) *Hub {
	log := opts.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	h := &Hub{
		log:        log,
		inbox:      make(chan inbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}

	h.roster = roster.New(roster.Options{
		Lists:        opts.Lists,
		Hasher:       opts.Hasher,
		Correlations: opts.Correlations,
		Badges:       opts.Badges,
		Logger:       log,
	})
	h.chats = Chats{
		Lobby: h.newSession(opts, roster.ScopeLobby),
		Room:  h.newSession(opts, roster.ScopeRoom),
	}
	h.roster.Subscribe(func(ev roster.Event) {
		h.broadcast(&Event{Kind: EventRoster, Roster: &ev})
	})
	// Chat sessions render after the roster event went out. Each one only
	// reacts to events of its own scope.
	h.roster.Subscribe(h.chats.Lobby.HandleRosterEvent)
	h.roster.Subscribe(h.chats.Room.HandleRosterEvent)

	return h
}

func (h *Hub) newSession(opts Options, scope roster.Scope) *chat.Session {
	return chat.NewSession(chat.Options{
		Scope:    scope,
		Policy:   h.roster,
		Lists:    opts.Lists,
		Logger:   h.log,
		Notify:   opts.Notify,
		AutoKick: opts.AutoKick,
		OnLine: func(l chat.Line) {
			h.broadcast(&Event{Kind: EventChatLine, Scope: scope, Line: &l})
		},
		OnAlert: func(a chat.Alert) {
			h.broadcast(&Event{Kind: EventAlert, Scope: scope, Alert: &a})
		},
		OnCommand: func(c chat.Command) {
			h.log.Info().
				Str("command", c.Kind.String()).
				Str("nick", c.Nickname).
				Stringer("scope", scope).
				Msg("moderation request")
			h.broadcast(&Event{Kind: EventModeration, Scope: scope, Moderation: &c})
		},
		OnNickList: func(n int) {
			h.broadcast(&Event{Kind: EventNickCount, Scope: scope, Count: n})
		},
	})
}

// Run drives the control loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			go h.pump(ctx, c)
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
			}
		case in := <-h.inbox:
			if in.call != nil {
				in.call()
				continue
			}
			if err := h.apply(in.cmd); err != nil {
				h.log.Debug().Str("command", in.cmd.Kind.String()).Str("code", err.Code).Msg("command rejected")
				// The sender may have been dropped while its command was queued.
				if _, ok := h.clients[in.client]; ok {
					h.send(in.client, &Event{Kind: EventError, Error: err})
				}
			}
		}
	}
}

// RegisterClient attaches c. Commands sent on c.Commands are applied in order.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient detaches c and closes its Events channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// Submit applies cmd on the control goroutine without a reply channel.
func (h *Hub) Submit(ctx context.Context, cmd *Command) error {
	if h.isStopped() {
		return ErrHubStopped
	}
	select {
	case h.inbox <- inbound{cmd: cmd}:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the control goroutine, after everything queued before it,
// and waits for it to return. fn may freely use the roster and chat sessions
// but must not retain them. ctx only bounds the wait for a queue slot: once
// fn is queued it runs, and Do returns nil unless the hub stops first.
func (h *Hub) Do(ctx context.Context, fn func(r *roster.Roster, c Chats)) error {
	done := make(chan struct{})
	call := func() {
		defer close(done)
		fn(h.roster, h.chats)
	}

	if h.isStopped() {
		return ErrHubStopped
	}
	select {
	case h.inbox <- inbound{call: call}:
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-h.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrHubStopped
		}
	}
}

func (h *Hub) isStopped() bool {
	select {
	case <-h.stopped:
		return true
	default:
		return false
	}
}

func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.done)
	close(c.Events)
}

func (h *Hub) broadcast(ev *Event) {
	for c := range h.clients {
		h.send(c, ev)
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
		h.log.Warn().Str("client_id", c.ID).Msg("client too slow, event dropped")
	}
}

func (h *Hub) apply(cmd *Command) *CoreError {
	switch cmd.Kind {
	case CommandResetRoom, CommandAdminAccess, CommandServerMessage, CommandLocalIdentity:
	default:
		if cmd.Nickname == "" {
			return coreError(ErrCodeBadRequest, "nick is required")
		}
	}

	switch cmd.Kind {
	case CommandJoinLobby:
		h.roster.AddPlayer(cmd.Nickname, cmd.Notify)
	case CommandLeaveLobby:
		h.roster.RemovePlayer(cmd.Nickname, cmd.Reason)
	case CommandJoinRoom:
		h.roster.PlayerJoinedRoom(cmd.Nickname, cmd.Notify)
	case CommandLeaveRoom:
		h.roster.PlayerLeftRoom(cmd.Nickname)
	case CommandResetRoom:
		h.roster.ResetRoomFlags()
	case CommandSetFlag:
		if !cmd.Flag.Valid() {
			return coreError(ErrCodeUnknownFlag, "unknown flag")
		}
		if !cmd.Flag.ServerAuthoritative() {
			return coreError(ErrCodeFlagNotServer, cmd.Flag.String()+" is managed locally")
		}
		h.roster.SetFlag(cmd.Nickname, cmd.Flag, cmd.Value)
	case CommandPlayerInfo:
		h.chats.For(cmd.Scope).PlayerInfo(cmd.Nickname, cmd.Identity, cmd.Version, cmd.RoomInfo)
	case CommandLocalIdentity:
		h.roster.SetLocalNickname(cmd.Nickname)
		h.chats.Lobby.SetUser(cmd.Nickname)
		h.chats.Room.SetUser(cmd.Nickname)
	case CommandAdminAccess:
		h.chats.Lobby.SetAdmin(cmd.Value)
		h.chats.Room.SetAdmin(cmd.Value)
	case CommandChat:
		h.chats.For(cmd.Scope).ChatMessage(cmd.Nickname, cmd.Text)
	case CommandChatAction:
		h.chats.For(cmd.Scope).ChatAction(cmd.Nickname, cmd.Text)
	case CommandServerMessage:
		h.chats.Lobby.ServerMessage(cmd.Text)
	default:
		return coreError(ErrCodeUnknownType, "unknown command")
	}
	return nil
}
