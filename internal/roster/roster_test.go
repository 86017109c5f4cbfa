package roster

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vovakirdan/wirechat-roster/internal/store"
)

type RosterSuite struct {
	suite.Suite
	lists  *memLists
	roster *Roster
	rec    *recorder
}

func TestRosterSuite(t *testing.T) {
	suite.Run(t, new(RosterSuite))
}

func (s *RosterSuite) SetupTest() {
	s.lists = newMemLists()
	s.roster, s.rec = newTestRoster(s.lists)
	s.roster.SetLocalNickname("me")
}

func (s *RosterSuite) view(n string) View {
	v, ok := s.roster.Lookup(n)
	s.Require().True(ok, "player %s should be visible", n)
	return v
}

func (s *RosterSuite) TestAddPlayerDefaults() {
	s.roster.AddPlayer("Alice", false)

	s.Equal(1, s.roster.Count(ScopeLobby))
	v := s.view("alice")
	s.Equal("Alice", v.Nickname)
	s.Equal("11100alice", v.SortKey)
	s.Equal(ColorAmber, v.Color)
	s.Equal([]string{"flake", "chat/hedgehog_gray"}, v.Badge.Layers)

	s.Require().Len(s.rec.events, 1)
	s.Equal(EventPlayerAdded, s.rec.events[0].Kind)
	s.Equal(ScopeLobby, s.rec.events[0].Scope())
	s.False(s.rec.events[0].Notify)
}

func (s *RosterSuite) TestAddPlayerNotifyAndDuplicate() {
	s.roster.AddPlayer("Alice", true)
	s.roster.AddPlayer("ALICE", true)
	s.roster.AddPlayer("", true)

	s.Equal(1, s.roster.Count(ScopeLobby))
	s.Require().Len(s.rec.events, 1)
	s.True(s.rec.events[0].Notify)
}

func (s *RosterSuite) TestAddPlayerAppliesPersistedLists() {
	s.lists.seed("me", store.ListFriends, "bob")
	s.lists.seed("me", store.ListIgnore, "mallory")
	s.roster.SetLocalNickname("me")

	s.roster.AddPlayer("Bob", false)
	s.roster.AddPlayer("Mallory", false)

	s.True(s.view("bob").Has(Friend))
	s.Equal(ColorGreen, s.view("bob").Color)
	s.True(s.view("mallory").Has(Ignore))
	s.Equal(ColorGray, s.view("mallory").Color)
}

func (s *RosterSuite) TestRoomAdminMovesToAdminBucket() {
	s.roster.AddPlayer("Alice", false)
	before := s.view("alice")

	s.roster.SetFlag("Alice", RoomAdmin, true)
	after := s.view("alice")

	s.Equal("01100alice", after.SortKey)
	s.NotEqual(before.IconKey, after.IconKey)
	s.Contains(after.Badge.Layers, "chat/roomadmin_gray")
	s.Equal(EventPlayerChanged, s.rec.events[len(s.rec.events)-1].Kind)
	s.Equal(after.SortKey, s.rec.events[len(s.rec.events)-1].View.SortKey)
}

func (s *RosterSuite) TestSetFlagFriendIdempotent() {
	s.roster.AddPlayer("Alice", false)

	s.roster.SetFlag("alice", Friend, true)
	once := s.view("alice")
	s.roster.SetFlag("alice", Friend, true)
	twice := s.view("alice")

	s.Equal(once, twice)
	s.Equal(map[string]struct{}{"alice": {}}, s.lists.sets["me/friends"])
}

func (s *RosterSuite) TestFriendIgnorePersistForAbsentPlayers() {
	s.roster.SetFlag("Ghost", Ignore, true)

	s.False(s.roster.Contains("ghost"))
	s.True(s.roster.IsFlagSet("GHOST", Ignore))
	s.False(s.roster.IsFlagSet("ghost", Friend))
	s.False(s.roster.IsFlagSet("ghost", Ready))
	s.Contains(s.lists.sets["me/ignore"], "ghost")
	s.Empty(s.rec.events, "absent player produces no change event")

	s.roster.SetFlag("ghost", Ignore, false)
	s.NotContains(s.lists.sets, "me/ignore", "empty list is removed")
}

func (s *RosterSuite) TestIsFlagSetSurvivesRemoval() {
	s.roster.AddPlayer("Bob", false)
	s.roster.SetFriend("Bob", true)
	s.roster.SetFlag("Bob", ServerAdmin, true)
	s.roster.RemovePlayer("Bob", "")

	s.True(s.roster.IsFlagSet("bob", Friend))
	s.False(s.roster.IsFlagSet("bob", ServerAdmin))
}

func (s *RosterSuite) TestFriendAndIgnoreMayCoexist() {
	s.roster.AddPlayer("Carl", false)
	s.roster.SetFriend("Carl", true)
	s.roster.SetIgnore("Carl", true)

	v := s.view("carl")
	s.True(v.Has(Friend))
	s.True(v.Has(Ignore))
	s.Equal(ColorGray, v.Color)
	s.Equal("chat/ignore", v.Badge.Layers[len(v.Badge.Layers)-1])
}

func (s *RosterSuite) TestRemovePlayer() {
	s.roster.AddPlayer("Alice", false)
	s.roster.StoreIdentity("Alice", "h1")
	s.rec.reset()

	s.roster.RemovePlayer("alice", "ping timeout")

	s.Zero(s.roster.Count(ScopeLobby))
	s.False(s.roster.IdentityKnown("alice"))
	s.Require().Len(s.rec.events, 1)
	ev := s.rec.events[0]
	s.Equal(EventPlayerRemoved, ev.Kind)
	s.Equal("Alice", ev.Nickname)
	s.Equal("ping timeout", ev.Reason)
	s.NotNil(ev.View)
}

func (s *RosterSuite) TestRemoveUnknownPlayerStillAnnounces() {
	s.roster.RemovePlayer("nobody", "")

	s.Require().Len(s.rec.events, 1)
	s.Nil(s.rec.events[0].View)
}

func (s *RosterSuite) TestReAddAfterRemoveStartsFresh() {
	s.roster.AddPlayer("Alice", false)
	s.roster.SetFlag("Alice", ServerAdmin, true)
	s.roster.RemovePlayer("Alice", "")
	s.roster.AddPlayer("Alice", false)

	s.False(s.view("alice").Has(ServerAdmin))
}

func (s *RosterSuite) TestSortedOrder() {
	for _, n := range []string{"zed", "_under", "Amy", "Ignored", "Friend", "SAdmin", "RAdmin"} {
		s.roster.AddPlayer(n, false)
	}
	s.roster.SetIgnore("Ignored", true)
	s.roster.SetFriend("Friend", true)
	s.roster.SetFlag("SAdmin", ServerAdmin, true)
	s.roster.SetFlag("RAdmin", RoomAdmin, true)

	var names []string
	for _, v := range s.roster.Sorted() {
		names = append(names, v.Nickname)
	}
	s.Equal([]string{"RAdmin", "SAdmin", "Friend", "Amy", "zed", "_under", "Ignored"}, names)
}

func (s *RosterSuite) TestDerivedStateConsistentAfterEveryMutation() {
	s.roster.AddPlayer("Alice", false)

	for f := Flag(0); f < flagCount; f++ {
		if f == IgnoredByIdentityHash {
			continue
		}
		for _, on := range []bool{true, false, true} {
			s.roster.SetFlag("Alice", f, on)
			v := s.view("alice")
			s.Equal(sortKeyOf(v.Nickname, v.Flags), v.SortKey, "sort key after %s=%v", f, on)
			s.Equal(iconKeyOf(v.Flags, v.InRoomFilter), v.IconKey, "icon key after %s=%v", f, on)
			s.Equal(v.IconKey, v.Badge.Key)
		}
	}
}

func (s *RosterSuite) TestInvalidFlagIgnored() {
	s.roster.AddPlayer("Alice", false)
	s.rec.reset()

	s.roster.SetFlag("Alice", Flag(200), true)
	s.Empty(s.rec.events)
}

func (s *RosterSuite) TestPersistenceFailureIsSoft() {
	s.lists.failAll = true

	s.roster.SetLocalNickname("me")
	s.roster.AddPlayer("Alice", false)
	s.roster.SetFriend("Alice", true)

	s.True(s.view("alice").Has(Friend), "in-memory state stays authoritative")
	s.True(s.roster.IsFlagSet("alice", Friend))
}

func (s *RosterSuite) TestSetLocalNicknameReloadsLists() {
	s.roster.AddPlayer("Bob", false)
	s.lists.seed("other", store.ListFriends, "bob")
	s.rec.reset()

	s.roster.SetLocalNickname("other")

	s.Equal("other", s.roster.LocalNickname())
	s.True(s.view("bob").Has(Friend))
	s.Equal("11000bob", s.view("bob").SortKey)
	s.Equal([]EventKind{EventPlayerChanged}, s.rec.kinds())

	s.roster.SetLocalNickname("me")
	s.False(s.view("bob").Has(Friend))
}

func (s *RosterSuite) TestViewsInInsertionOrder() {
	s.roster.AddPlayer("b", false)
	s.roster.AddPlayer("a", false)

	views := s.roster.Views()
	s.Require().Len(views, 2)
	s.Equal("b", views[0].Nickname)
	s.Equal("a", views[1].Nickname)
}

func TestRosterWithoutListStore(t *testing.T) {
	r := New(Options{})
	r.SetLocalNickname("me")
	r.AddPlayer("Alice", false)
	r.SetFriend("Alice", true)

	if !r.IsFlagSet("alice", Friend) {
		t.Fatal("expected friend flag without a list store")
	}
}
