// Package proto defines the JSON envelopes exchanged over the bridge socket.
package proto

import "encoding/json"

// Inbound is the envelope for messages coming from a bridge peer.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoinLobby     = "join_lobby"
	InboundTypeLeaveLobby    = "leave_lobby"
	InboundTypeJoinRoom      = "join_room"
	InboundTypeLeaveRoom     = "leave_room"
	InboundTypeResetRoom     = "reset_room"
	InboundTypeFlag          = "flag"
	InboundTypePlayerInfo    = "player_info"
	InboundTypeLocalIdentity = "local_identity"
	InboundTypeAdminAccess   = "admin_access"
	InboundTypeChat          = "chat"
	InboundTypeChatAction    = "chat_action"
	InboundTypeServerMessage = "server_message"

	OutboundTypeEvent   = "event"
	OutboundTypeCommand = "command"
	OutboundTypeError   = "error"
)

// PlayerData names a player; Notify asks for a join alert.
type PlayerData struct {
	Nick   string `json:"nick"`
	Notify bool   `json:"notify,omitempty"`
}

// LeaveData reports a player leaving the lobby.
type LeaveData struct {
	Nick   string `json:"nick"`
	Reason string `json:"reason,omitempty"`
}

// FlagData sets or clears a server-owned flag.
type FlagData struct {
	Nick  string `json:"nick"`
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

// PlayerInfoData carries the server's answer to an info request.
// Identity is a hash, a raw address, or "[]" when unavailable.
type PlayerInfoData struct {
	Nick     string `json:"nick"`
	Identity string `json:"identity"`
	Version  string `json:"version,omitempty"`
	RoomInfo string `json:"room_info,omitempty"`
	// Room renders the info line in the room chat instead of the lobby chat.
	Room bool `json:"room,omitempty"`
}

// AdminData toggles the local user's room-admin authority.
type AdminData struct {
	Admin bool `json:"admin"`
}

// ChatData is a chat message or action. Room marks room chat.
type ChatData struct {
	Nick string `json:"nick"`
	Text string `json:"text"`
	Room bool   `json:"room,omitempty"`
}

// ServerMessageData is a server announcement, already HTML.
type ServerMessageData struct {
	HTML string `json:"html"`
}

// Outbound is the envelope for messages sent to a bridge peer.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Player is the wire form of a roster row.
type Player struct {
	Nick          string   `json:"nick"`
	Flags         []string `json:"flags"`
	SortKey       string   `json:"sort_key"`
	IconKey       uint16   `json:"icon_key"`
	Badge         []string `json:"badge"`
	Color         string   `json:"color"`
	Italic        bool     `json:"italic,omitempty"`
	IdentityKnown bool     `json:"identity_known,omitempty"`
}

// EventRoster notifies about a roster change.
type EventRoster struct {
	Nick   string  `json:"nick"`
	Scope  string  `json:"scope"`
	Notify bool    `json:"notify,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Player *Player `json:"player,omitempty"`
}

// EventChatLine carries one rendered chat line of the lobby or room chat.
type EventChatLine struct {
	Scope     string `json:"scope"`
	Class     string `json:"class"`
	HTML      string `json:"html"`
	Nick      string `json:"nick,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
	TS        int64  `json:"ts"`
}

// EventAlert asks the UI to draw attention.
type EventAlert struct {
	Scope string `json:"scope"`
	Nick  string `json:"nick"`
	Sound string `json:"sound"`
	Flash bool   `json:"flash"`
}

// EventNickCount reports the number of players visible in a scope.
type EventNickCount struct {
	Scope string `json:"scope"`
	Count int    `json:"count"`
}

// CommandData targets a player with a moderation request.
type CommandData struct {
	Nick  string `json:"nick"`
	Scope string `json:"scope"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
