package http

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/chat"
	"github.com/vovakirdan/wirechat-roster/internal/core"
	"github.com/vovakirdan/wirechat-roster/internal/proto"
	"github.com/vovakirdan/wirechat-roster/internal/roster"
)

// RosterHandlers serves the UI API. Every handler runs its work on the hub's
// control goroutine through core.Hub.Do.
type RosterHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRosterHandlers creates a new roster handlers instance.
func NewRosterHandlers(hub *core.Hub, logger *zerolog.Logger) *RosterHandlers {
	return &RosterHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RosterResponse lists players in display order.
type RosterResponse struct {
	Players []proto.Player `json:"players"`
}

// SharedResponse lists visible players sharing an identity.
type SharedResponse struct {
	Nick          string   `json:"nick"`
	IdentityKnown bool     `json:"identity_known"`
	Sharing       []string `json:"sharing"`
}

// ChatResponse holds the buffered chat history of one scope.
type ChatResponse struct {
	Scope string                `json:"scope"`
	Lines []proto.EventChatLine `json:"lines"`
}

// SessionResponse describes the local user's session.
type SessionResponse struct {
	Nick         string `json:"nick"`
	Admin        bool   `json:"admin"`
	LobbyPlayers int    `json:"lobby_players"`
	RoomPlayers  int    `json:"room_players"`
}

// ToggleResponse reports the state after a toggle.
type ToggleResponse struct {
	Nick    string `json:"nick"`
	Enabled bool   `json:"enabled"`
}

// SettingsRequest updates session switches; absent fields are left alone.
type SettingsRequest struct {
	AutoKick *bool `json:"auto_kick"`
	Notify   *bool `json:"notify"`
}

// do runs fn on the control goroutine. A 503 means fn never ran.
func (h *RosterHandlers) do(c *gin.Context, fn func(r *roster.Roster, chats core.Chats)) bool {
	if err := h.hub.Do(c.Request.Context(), fn); err != nil {
		h.log.Error().Err(err).Msg("hub call failed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "core unavailable"})
		return false
	}
	return true
}

// scope reads the ?scope= query; anything but "room" means the lobby.
func scope(c *gin.Context) roster.Scope {
	return scopeOf(c.Query("scope") == roster.ScopeRoom.String())
}

// ListRoster returns the roster sorted by sort key.
// GET /api/roster[?scope=room]
func (h *RosterHandlers) ListRoster(c *gin.Context) {
	roomOnly := scope(c) == roster.ScopeRoom

	var views []roster.View
	if !h.do(c, func(r *roster.Roster, _ core.Chats) {
		if roomOnly {
			views = r.RoomMembers()
			return
		}
		views = r.Sorted()
	}) {
		return
	}

	resp := RosterResponse{Players: make([]proto.Player, 0, len(views))}
	for _, v := range views {
		resp.Players = append(resp.Players, playerFromView(v))
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlayer returns one roster row.
// GET /api/roster/:nick
func (h *RosterHandlers) GetPlayer(c *gin.Context) {
	nick := c.Param("nick")

	var (
		view  roster.View
		found bool
	)
	if !h.do(c, func(r *roster.Roster, _ core.Chats) {
		view, found = r.Lookup(nick)
	}) {
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "player not found"})
		return
	}
	c.JSON(http.StatusOK, playerFromView(view))
}

// ResolveLink returns the roster row behind a nickname link from a chat line.
// GET /api/link?href=hwnick://?<base64>
func (h *RosterHandlers) ResolveLink(c *gin.Context) {
	nick, err := chat.NicknameFromLink(strings.TrimPrefix(c.Query("href"), "hwnick://"))
	if err != nil || nick == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid nick link"})
		return
	}

	var (
		view  roster.View
		found bool
	)
	if !h.do(c, func(r *roster.Roster, _ core.Chats) {
		view, found = r.Lookup(nick)
	}) {
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "player not found"})
		return
	}
	c.JSON(http.StatusOK, playerFromView(view))
}

// Session reports the local nickname, admin authority and player counts.
// GET /api/session
func (h *RosterHandlers) Session(c *gin.Context) {
	var resp SessionResponse
	if !h.do(c, func(r *roster.Roster, chats core.Chats) {
		resp = SessionResponse{
			Nick:         r.LocalNickname(),
			Admin:        chats.Room.IsAdmin(),
			LobbyPlayers: r.Count(roster.ScopeLobby),
			RoomPlayers:  r.Count(roster.ScopeRoom),
		}
	}) {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SharedIdentity lists visible players sharing nick's identity.
// GET /api/roster/:nick/shared
func (h *RosterHandlers) SharedIdentity(c *gin.Context) {
	nick := c.Param("nick")

	resp := SharedResponse{Nick: nick, Sharing: []string{}}
	if !h.do(c, func(r *roster.Roster, chats core.Chats) {
		resp.IdentityKnown = r.IdentityKnown(nick)
		if shared := chats.Lobby.SharingIdentity(nick); shared != nil {
			resp.Sharing = shared
		}
	}) {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actions returns the context actions available for nick in the lobby or
// room chat.
// GET /api/roster/:nick/actions[?scope=room]
func (h *RosterHandlers) Actions(c *gin.Context) {
	nick := c.Param("nick")
	sc := scope(c)

	var actions chat.Actions
	if !h.do(c, func(r *roster.Roster, chats core.Chats) {
		actions = chats.For(sc).ActionsFor(nick, r.Contains(nick))
	}) {
		return
	}
	c.JSON(http.StatusOK, actions)
}

// ChatHistory returns the buffered lines of the lobby or room chat, oldest
// first.
// GET /api/chat[?scope=room]
func (h *RosterHandlers) ChatHistory(c *gin.Context) {
	sc := scope(c)

	var lines []chat.Line
	if !h.do(c, func(_ *roster.Roster, chats core.Chats) {
		lines = chats.For(sc).Lines()
	}) {
		return
	}

	resp := ChatResponse{Scope: sc.String(), Lines: make([]proto.EventChatLine, 0, len(lines))}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, lineFromChat(l, sc))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSettings toggles auto-kick and join notifications.
// PUT /api/settings
func (h *RosterHandlers) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid settings request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.do(c, func(_ *roster.Roster, chats core.Chats) {
		for _, s := range []*chat.Session{chats.Lobby, chats.Room} {
			if req.AutoKick != nil {
				s.SetAutoKick(*req.AutoKick)
			}
			if req.Notify != nil {
				s.SetNotify(*req.Notify)
			}
		}
	}) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFriend flips the friend state of nick. The notice goes to the chat
// named by ?scope=.
// POST /api/players/:nick/friend[?scope=room]
func (h *RosterHandlers) ToggleFriend(c *gin.Context) {
	h.toggle(c, (*chat.Session).ToggleFriend)
}

// ToggleIgnore flips the ignore state of nick.
// POST /api/players/:nick/ignore
func (h *RosterHandlers) ToggleIgnore(c *gin.Context) {
	h.toggle(c, (*chat.Session).ToggleIgnore)
}

// ToggleIgnoreIdentity flips whether nick's identity is ignored.
// POST /api/players/:nick/ignore-identity
func (h *RosterHandlers) ToggleIgnoreIdentity(c *gin.Context) {
	h.toggle(c, (*chat.Session).ToggleIgnoreIdentity)
}

func (h *RosterHandlers) toggle(c *gin.Context, fn func(*chat.Session, string) (bool, error)) {
	nick := c.Param("nick")
	sc := scope(c)

	var (
		enabled bool
		err     error
	)
	if !h.do(c, func(_ *roster.Roster, chats core.Chats) {
		enabled, err = fn(chats.For(sc), nick)
	}) {
		return
	}
	if err != nil {
		h.writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Nick: nick, Enabled: enabled})
}

// Moderate requests kick, ban, delegate or follow; the action is the last
// path segment.
// POST /api/players/:nick/{kick,ban,delegate,follow}[?scope=room]
func (h *RosterHandlers) Moderate(c *gin.Context) {
	nick := c.Param("nick")
	sc := scope(c)

	kind, ok := chat.ParseCommandKind(path.Base(c.FullPath()))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown action"})
		return
	}

	var err error
	if !h.do(c, func(_ *roster.Roster, chats core.Chats) {
		s := chats.For(sc)
		switch kind {
		case chat.CommandKick:
			err = s.Kick(nick)
		case chat.CommandBan:
			err = s.Ban(nick)
		case chat.CommandDelegate:
			err = s.Delegate(nick)
		case chat.CommandFollow:
			err = s.Follow(nick)
		}
	}) {
		return
	}
	if err != nil {
		h.writeChatError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *RosterHandlers) writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrNotAdmin):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, chat.ErrSelf), errors.Is(err, chat.ErrNoNickname):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, chat.ErrHashUnknown):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Msg("chat action failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
