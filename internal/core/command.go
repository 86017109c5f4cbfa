package core

import "github.com/vovakirdan/wirechat-roster/internal/roster"

// CommandKind describes an inbound lobby event or local request.
type CommandKind int

const (
	// CommandJoinLobby: a player appeared in the lobby.
	CommandJoinLobby CommandKind = iota
	// CommandLeaveLobby: a player left the lobby, optionally with a reason.
	CommandLeaveLobby
	// CommandJoinRoom: a player joined the local user's room.
	CommandJoinRoom
	// CommandLeaveRoom: a player left the local user's room.
	CommandLeaveRoom
	// CommandResetRoom: the local user left the room; all room state is dropped.
	CommandResetRoom
	// CommandSetFlag: the server changed a flag it owns.
	CommandSetFlag
	// CommandPlayerInfo: identity, version and location reported for a player.
	// Scope picks the chat that renders it.
	CommandPlayerInfo
	// CommandLocalIdentity: the local nickname (profile) changed.
	CommandLocalIdentity
	// CommandAdminAccess: the local user gained or lost room-admin authority.
	CommandAdminAccess
	// CommandChat: a chat message in the lobby or, with Scope set, the room.
	CommandChat
	// CommandChatAction: a "/me" action, scoped like CommandChat.
	CommandChatAction
	// CommandServerMessage: a server-wide announcement.
	CommandServerMessage
)

var commandNames = map[CommandKind]string{
	CommandJoinLobby:     "join_lobby",
	CommandLeaveLobby:    "leave_lobby",
	CommandJoinRoom:      "join_room",
	CommandLeaveRoom:     "leave_room",
	CommandResetRoom:     "reset_room",
	CommandSetFlag:       "flag",
	CommandPlayerInfo:    "player_info",
	CommandLocalIdentity: "local_identity",
	CommandAdminAccess:   "admin_access",
	CommandChat:          "chat",
	CommandChatAction:    "chat_action",
	CommandServerMessage: "server_message",
}

func (k CommandKind) String() string {
	if n, ok := commandNames[k]; ok {
		return n
	}
	return "unknown"
}

// Command is one inbound event applied by the hub on its control goroutine.
// Only the fields relevant to Kind are read.
type Command struct {
	Kind     CommandKind
	Nickname string
	Notify   bool
	Reason   string
	Text     string
	Scope    roster.Scope

	Flag  roster.Flag
	Value bool

	Identity string
	Version  string
	RoomInfo string
}
