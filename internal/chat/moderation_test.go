package chat

import (
	"errors"

	"github.com/vovakirdan/wirechat-roster/internal/roster"
)

func (s *ChatSuite) TestAdminCommandsRequireAdmin() {
	s.roster.AddPlayer("alice", false)

	for _, fn := range []func(string) error{s.session.Kick, s.session.Ban, s.session.Delegate} {
		s.ErrorIs(fn("alice"), ErrNotAdmin)
	}
	s.Empty(s.commands)

	s.session.SetAdmin(true)
	s.NoError(s.session.Kick("alice"))
	s.NoError(s.session.Ban("alice"))
	s.NoError(s.session.Delegate("alice"))
	s.Equal([]Command{
		{Kind: CommandKick, Nickname: "alice"},
		{Kind: CommandBan, Nickname: "alice"},
		{Kind: CommandDelegate, Nickname: "alice"},
	}, s.commands)
}

func (s *ChatSuite) TestCommandsRejectSelf() {
	s.session.SetAdmin(true)
	s.ErrorIs(s.session.Kick("ME"), ErrSelf)
	s.ErrorIs(s.session.Follow("me"), ErrSelf)
	s.ErrorIs(s.session.Follow(""), ErrNoNickname)
	s.Empty(s.commands)
}

func (s *ChatSuite) TestFollow() {
	s.NoError(s.session.Follow("alice"))
	s.Equal([]Command{{Kind: CommandFollow, Nickname: "alice"}}, s.commands)
}

func (s *ChatSuite) TestToggleIgnoreClearsFriend() {
	s.roster.AddPlayer("bob", false)
	s.roster.SetFriend("bob", true)

	on, err := s.session.ToggleIgnore("bob")
	s.Require().NoError(err)
	s.True(on)
	s.True(s.roster.IsFlagSet("bob", roster.Ignore))
	s.False(s.roster.IsFlagSet("bob", roster.Friend))

	on, err = s.session.ToggleIgnore("bob")
	s.Require().NoError(err)
	s.False(on)
	s.False(s.roster.IsFlagSet("bob", roster.Ignore))
	s.Contains(s.lastLine().HTML, "removed from your ignore list")
}

func (s *ChatSuite) TestToggleFriendClearsIgnore() {
	s.roster.SetIgnore("bob", true)

	on, err := s.session.ToggleFriend("bob")
	s.Require().NoError(err)
	s.True(on)
	s.True(s.roster.IsFlagSet("bob", roster.Friend))
	s.False(s.roster.IsFlagSet("bob", roster.Ignore))
	s.Contains(s.lastLine().HTML, "added to your friends list")
}

func (s *ChatSuite) TestToggleIgnoreIdentityUnknown() {
	s.roster.AddPlayer("alice", false)

	_, err := s.session.ToggleIgnoreIdentity("alice")
	s.True(errors.Is(err, ErrHashUnknown))
	s.Equal("msg_Warning", s.lastLine().Class)
	s.False(s.roster.IsIdentityIgnored("alice"))
}

func (s *ChatSuite) TestToggleIgnoreIdentityAndSharing() {
	s.roster.AddPlayer("alice", false)
	s.roster.AddPlayer("alt", false)
	s.roster.AddPlayer("carol", false)
	s.session.PlayerInfo("alice", "10.1.1.1", "1", "")
	s.session.PlayerInfo("alt", "10.1.1.1:999", "1", "")
	s.session.PlayerInfo("carol", "10.9.9.9", "1", "")

	s.Equal([]string{"alice", "alt"}, s.session.SharingIdentity("alt"))

	on, err := s.session.ToggleIgnoreIdentity("alice")
	s.Require().NoError(err)
	s.True(on)
	s.True(s.roster.IsFlagSet("alt", roster.IgnoredByIdentityHash))
	s.True(s.roster.IsMessageSuppressed("alt"))
	s.False(s.roster.IsMessageSuppressed("carol"))

	on, err = s.session.ToggleIgnoreIdentity("alt")
	s.Require().NoError(err)
	s.False(on)
	s.False(s.roster.IsMessageSuppressed("alice"))
}

func (s *ChatSuite) TestActionsForOther() {
	s.roster.AddPlayer("alice", false)
	s.roster.PlayerJoinedRoom("alice", false)
	s.roster.SetFlag("alice", roster.InRoom, true)

	a := s.session.ActionsFor("alice", true)
	s.True(a.Follow)
	s.True(a.Info)
	s.True(a.Ignore)
	s.False(a.Unignore)
	s.True(a.AddFriend)
	s.False(a.IgnoreIdentity)
	s.False(a.ShowSharing)
	s.False(a.Kick)

	s.session.PlayerInfo("alice", "10.0.0.2", "1", "")
	s.session.SetAdmin(true)
	a = s.session.ActionsFor("alice", true)
	s.True(a.IgnoreIdentity)
	s.True(a.ShowSharing)
	s.True(a.Kick)
	s.True(a.Ban)
	s.False(a.Delegate)

	s.roster.AddPlayer("me", false)
	s.roster.SetFlag("me", roster.InRoom, true)
	s.True(s.session.ActionsFor("alice", true).Delegate)
	s.False(s.session.ActionsFor("alice", false).Kick)
}

func (s *ChatSuite) TestActionsForSelf() {
	s.roster.AddPlayer("me", false)
	s.session.PlayerInfo("me", "10.0.0.3", "1", "")
	s.session.SetAdmin(true)

	a := s.session.ActionsFor("me", true)
	s.False(a.Follow)
	s.False(a.Ignore)
	s.False(a.AddFriend)
	s.False(a.IgnoreIdentity)
	s.True(a.ShowSharing)
	s.False(a.Kick)
	s.False(a.Ban)
	s.False(a.Delegate)
}

func (s *ChatSuite) TestParseCommandKind() {
	k, ok := ParseCommandKind("ban")
	s.True(ok)
	s.Equal(CommandBan, k)
	s.Equal("ban", k.String())
	_, ok = ParseCommandKind("nuke")
	s.False(ok)
}
