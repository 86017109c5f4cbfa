package chat

import (
	"errors"

	"github.com/vovakirdan/wirechat-roster/internal/nick"
	"github.com/vovakirdan/wirechat-roster/internal/roster"
)

var (
	ErrNotAdmin    = errors.New("room admin authority required")
	ErrSelf        = errors.New("cannot target yourself")
	ErrNoNickname  = errors.New("nickname is required")
	ErrHashUnknown = errors.New("identity hash unknown")
)

// CommandKind is a moderation request for the network layer.
type CommandKind int

const (
	CommandKick CommandKind = iota
	CommandBan
	CommandDelegate
	CommandFollow
)

var commandNames = [...]string{
	CommandKick:     "kick",
	CommandBan:      "ban",
	CommandDelegate: "delegate",
	CommandFollow:   "follow",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return "unknown"
}

// ParseCommandKind resolves a command name.
func ParseCommandKind(name string) (CommandKind, bool) {
	for i, n := range commandNames {
		if n == name {
			return CommandKind(i), true
		}
	}
	return 0, false
}

// Command asks the network layer to act on a player.
type Command struct {
	Kind     CommandKind
	Nickname string
}

func (s *Session) checkTarget(nickname string) error {
	if nickname == "" {
		return ErrNoNickname
	}
	if nick.Equal(nickname, s.userNick) {
		return ErrSelf
	}
	return nil
}

func (s *Session) adminCommand(kind CommandKind, nickname string) error {
	if err := s.checkTarget(nickname); err != nil {
		return err
	}
	if !s.isAdmin {
		return ErrNotAdmin
	}
	s.dispatch(Command{Kind: kind, Nickname: nickname})
	return nil
}

// Kick requests removal of nickname from the room.
func (s *Session) Kick(nickname string) error { return s.adminCommand(CommandKick, nickname) }

// Ban requests a ban of nickname.
func (s *Session) Ban(nickname string) error { return s.adminCommand(CommandBan, nickname) }

// Delegate hands room-admin authority to nickname.
func (s *Session) Delegate(nickname string) error {
	return s.adminCommand(CommandDelegate, nickname)
}

// Follow requests joining the room nickname is in.
func (s *Session) Follow(nickname string) error {
	if err := s.checkTarget(nickname); err != nil {
		return err
	}
	s.dispatch(Command{Kind: CommandFollow, Nickname: nickname})
	return nil
}

// ToggleIgnore flips the ignore state of nickname. Ignoring a friend also
// removes the friendship. It returns the new state.
func (s *Session) ToggleIgnore(nickname string) (bool, error) {
	if err := s.checkTarget(nickname); err != nil {
		return false, err
	}
	link := linkedNick(nickname, s.userNick)

	if s.policy.IsFlagSet(nickname, roster.Ignore) {
		s.policy.SetIgnore(nickname, false)
		s.Notice(link + " has been removed from your ignore list")
		return false, nil
	}

	if s.policy.IsFlagSet(nickname, roster.Friend) {
		s.policy.SetFriend(nickname, false)
		s.Notice(link + " has been removed from your friends list")
	}
	s.policy.SetIgnore(nickname, true)
	s.Notice(link + " has been added to your ignore list")
	return true, nil
}

// ToggleFriend flips the friend state of nickname. Befriending an ignored
// player also unignores them. It returns the new state.
func (s *Session) ToggleFriend(nickname string) (bool, error) {
	if err := s.checkTarget(nickname); err != nil {
		return false, err
	}
	link := linkedNick(nickname, s.userNick)

	if s.policy.IsFlagSet(nickname, roster.Friend) {
		s.policy.SetFriend(nickname, false)
		s.Notice(link + " has been removed from your friends list")
		return false, nil
	}

	if s.policy.IsFlagSet(nickname, roster.Ignore) {
		s.policy.SetIgnore(nickname, false)
		s.Notice(link + " has been removed from your ignore list")
	}
	s.policy.SetFriend(nickname, true)
	s.Notice(link + " has been added to your friends list")
	return true, nil
}

// ToggleIgnoreIdentity flips whether the identity behind nickname is
// ignored. ErrHashUnknown is returned, with a warning line, when the
// identity is not known; nothing changes in that case.
func (s *Session) ToggleIgnoreIdentity(nickname string) (bool, error) {
	if err := s.checkTarget(nickname); err != nil {
		return false, err
	}
	link := linkedNick(nickname, s.userNick)

	if !s.policy.IdentityKnown(nickname) {
		s.Warning("Cannot ignore by identity: the identity of " + link + " is not known.")
		return false, ErrHashUnknown
	}

	ignore := !s.policy.IsIdentityIgnored(nickname)
	s.policy.SetIgnoredByIdentityHash(nickname, ignore)
	if ignore {
		s.Notice("The identity of " + link + " has been added to your ignore list.")
	} else {
		s.Notice("The identity of " + link + " has been removed from your ignore list.")
	}
	return ignore, nil
}

// SharingIdentity lists visible players that share nickname's identity.
func (s *Session) SharingIdentity(nickname string) []string {
	return s.policy.UsersSharingIdentity(nickname)
}

// Actions describes which moderation actions apply to a player, from the
// local user's point of view.
type Actions struct {
	Kick           bool `json:"kick"`
	Ban            bool `json:"ban"`
	Delegate       bool `json:"delegate"`
	Follow         bool `json:"follow"`
	Info           bool `json:"info"`
	Ignore         bool `json:"ignore"`
	Unignore       bool `json:"unignore"`
	IgnoreIdentity bool `json:"ignore_identity"`
	// IdentityIgnored selects the "unignore identity" wording.
	IdentityIgnored bool `json:"identity_ignored"`
	ShowSharing     bool `json:"show_sharing"`
	AddFriend       bool `json:"add_friend"`
	RemoveFriend    bool `json:"remove_friend"`
}

// ActionsFor computes the context actions for nickname. online tells
// whether the player is currently visible.
func (s *Session) ActionsFor(nickname string, online bool) Actions {
	self := nick.Equal(nickname, s.userNick)
	ignored := s.policy.IsFlagSet(nickname, roster.Ignore)
	friend := s.policy.IsFlagSet(nickname, roster.Friend)
	known := s.policy.IdentityKnown(nickname)

	a := Actions{
		Follow:          !self && s.policy.IsFlagSet(nickname, roster.InRoom),
		Info:            online,
		Ignore:          !self && !ignored,
		Unignore:        ignored,
		IgnoreIdentity:  !self && known,
		IdentityIgnored: known && s.policy.IsIdentityIgnored(nickname),
		ShowSharing:     known,
		AddFriend:       !self && !friend,
		RemoveFriend:    friend,
	}
	if s.isAdmin {
		a.Kick = !self && online
		a.Ban = !self
		a.Delegate = !self && s.policy.IsFlagSet(s.userNick, roster.InRoom)
	}
	return a
}
