// Package roster keeps the live directory of visible players: their flags,
// derived sort key and badge, lobby/room presence and the local user's
// friend, ignore and identity-hash policies.
//
// A Roster is not safe for concurrent use. All calls are expected to come
// from one control goroutine (see core.Hub), which also receives every
// Listener callback.
package roster

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/identity"
	"github.com/vovakirdan/wirechat-roster/internal/nick"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// Options configures a Roster. Nil fields get working defaults.
type Options struct {
	Lists        store.ListStore
	Hasher       *identity.Hasher
	Correlations *identity.Correlations
	Badges       *BadgeCache
	Logger       *zerolog.Logger
}

// Roster owns all player records.
type Roster struct {
	players []*player
	index   map[string]*player

	profile string
	friends map[string]struct{}
	ignored map[string]struct{}

	lists  store.ListStore
	hasher *identity.Hasher
	ids    *identity.Correlations
	badges *BadgeCache

	listeners []Listener
	log       *zerolog.Logger
}

// New creates an empty roster. Lists are not loaded until SetLocalNickname.
func New(opts Options) *Roster {
	r := &Roster{
		index:   make(map[string]*player),
		friends: make(map[string]struct{}),
		ignored: make(map[string]struct{}),
		lists:   opts.Lists,
		hasher:  opts.Hasher,
		ids:     opts.Correlations,
		badges:  opts.Badges,
		log:     opts.Logger,
	}
	if r.ids == nil {
		r.ids = identity.NewCorrelations()
	}
	if r.badges == nil {
		r.badges = NewBadgeCache()
	}
	if r.log == nil {
		nop := zerolog.Nop()
		r.log = &nop
	}
	return r
}

// Subscribe registers l for all future events.
func (r *Roster) Subscribe(l Listener) {
	r.listeners = append(r.listeners, l)
}

func (r *Roster) emit(ev Event) {
	for _, l := range r.listeners {
		l(ev)
	}
}

func (r *Roster) emitFor(kind EventKind, p *player) {
	v := r.viewOf(p)
	r.emit(Event{Kind: kind, Nickname: p.nickname, View: &v})
}

func (r *Roster) find(nickname string) *player {
	return r.index[nick.Key(nickname)]
}

func (r *Roster) viewOf(p *player) View {
	return p.view(r.ids.Hash(p.nickname) != "")
}

// refresh re-derives the badge and colour, and the sort key when resort is set.
func (r *Roster) refresh(p *player, resort bool) {
	p.iconKey = iconKeyOf(p.flags, p.inRoomFilter)
	p.badge = r.badges.Get(p.iconKey)
	p.color = colorOf(p.flags)
	if resort {
		p.sortKey = sortKeyOf(p.nickname, p.flags)
	}
}

// AddPlayer inserts a new record. Unknown or empty nicknames only; adding
// an existing player is a no-op.
func (r *Roster) AddPlayer(nickname string, notify bool) {
	if nickname == "" || r.find(nickname) != nil {
		return
	}

	p := &player{nickname: nickname}
	r.players = append(r.players, p)
	r.index[nick.Key(nickname)] = p

	r.applyLocalFlags(p)
	r.refresh(p, true)

	r.log.Debug().Str("nick", nickname).Int("roster_size", len(r.players)).Msg("player added")

	v := r.viewOf(p)
	r.emit(Event{Kind: EventPlayerAdded, Nickname: nickname, Notify: notify, View: &v})
}

// RemovePlayer announces and destroys the record for nickname and forgets
// its identity hash. The event fires even when the player is unknown.
func (r *Roster) RemovePlayer(nickname, reason string) {
	ev := Event{Kind: EventPlayerRemoved, Nickname: nickname, Reason: reason}
	p := r.find(nickname)
	if p != nil {
		ev.Nickname = p.nickname
		v := r.viewOf(p)
		ev.View = &v
	}
	r.emit(ev)

	r.ids.Forget(nickname)
	if p == nil {
		return
	}
	delete(r.index, nick.Key(nickname))
	r.players = slices.DeleteFunc(r.players, func(q *player) bool { return q == p })

	r.log.Debug().Str("nick", nickname).Str("reason", reason).Int("roster_size", len(r.players)).Msg("player removed")
}

// SetFlag changes flag for nickname. Friend and Ignore also update and
// persist the local lists, even if the player is not visible.
// IgnoredByIdentityHash is routed through SetIgnoredByIdentityHash.
func (r *Roster) SetFlag(nickname string, flag Flag, value bool) {
	if !flag.Valid() {
		return
	}

	switch flag {
	case Friend:
		r.updateList(r.friends, store.ListFriends, nickname, value)
	case Ignore:
		r.updateList(r.ignored, store.ListIgnore, nickname, value)
	case IgnoredByIdentityHash:
		r.SetIgnoredByIdentityHash(nickname, value)
		return
	}

	p := r.find(nickname)
	if p == nil {
		return
	}
	p.flags = p.flags.With(flag, value)
	r.refresh(p, flag.affectsOrder())
	r.emitFor(EventPlayerChanged, p)
}

// IsFlagSet reports flag for nickname. For absent players Friend, Ignore
// and IgnoredByIdentityHash fall back to the persisted lists; every other
// flag reads as false.
func (r *Roster) IsFlagSet(nickname string, flag Flag) bool {
	if p := r.find(nickname); p != nil {
		return p.flags.Has(flag)
	}
	switch flag {
	case Friend:
		return contains(r.friends, nickname)
	case Ignore:
		return contains(r.ignored, nickname)
	case IgnoredByIdentityHash:
		return r.ids.IsIgnored(r.ids.Hash(nickname))
	default:
		return false
	}
}

// Lookup returns a snapshot of the player, matching case-insensitively.
func (r *Roster) Lookup(nickname string) (View, bool) {
	p := r.find(nickname)
	if p == nil {
		return View{}, false
	}
	return r.viewOf(p), true
}

// Contains reports whether nickname is visible.
func (r *Roster) Contains(nickname string) bool {
	return r.find(nickname) != nil
}

// Count returns the number of players visible in scope: the whole lobby, or
// the members of the local user's room.
func (r *Roster) Count(scope Scope) int {
	if scope != ScopeRoom {
		return len(r.players)
	}
	n := 0
	for _, p := range r.players {
		if p.inRoomFilter {
			n++
		}
	}
	return n
}

// Views returns snapshots in insertion order.
func (r *Roster) Views() []View {
	out := make([]View, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, r.viewOf(p))
	}
	return out
}

// Sorted returns snapshots ordered by sort key.
func (r *Roster) Sorted() []View {
	out := r.Views()
	slices.SortFunc(out, func(a, b View) int {
		switch {
		case a.SortKey < b.SortKey:
			return -1
		case a.SortKey > b.SortKey:
			return 1
		default:
			return 0
		}
	})
	return out
}

// RoomMembers returns snapshots of players in the local user's room, sorted.
func (r *Roster) RoomMembers() []View {
	return slices.DeleteFunc(r.Sorted(), func(v View) bool { return !v.InRoomFilter })
}

// applyLocalFlags sets the locally owned flags from the loaded lists.
func (r *Roster) applyLocalFlags(p *player) {
	p.flags = p.flags.
		With(Friend, contains(r.friends, p.nickname)).
		With(Ignore, contains(r.ignored, p.nickname)).
		With(IgnoredByIdentityHash, r.ids.IsIgnored(r.ids.Hash(p.nickname)))
}

func (r *Roster) updateList(set map[string]struct{}, list store.List, nickname string, value bool) {
	key := nick.Key(nickname)
	if value {
		set[key] = struct{}{}
	} else {
		delete(set, key)
	}
	r.persist(list, set)
}

// persist saves a list. Failures are logged and otherwise ignored: the
// in-memory set stays authoritative for the session.
func (r *Roster) persist(list store.List, set map[string]struct{}) {
	if r.lists == nil {
		return
	}
	if err := r.lists.SaveSet(r.profile, list, set); err != nil {
		r.log.Warn().Err(err).Str("list", string(list)).Str("profile", r.profile).Msg("failed to save list")
	}
}

func (r *Roster) load(list store.List) map[string]struct{} {
	if r.lists == nil {
		return make(map[string]struct{})
	}
	set, err := r.lists.LoadSet(r.profile, list)
	if err != nil {
		r.log.Warn().Err(err).Str("list", string(list)).Str("profile", r.profile).Msg("failed to load list")
	}
	if set == nil {
		set = make(map[string]struct{})
	}
	return set
}

func contains(set map[string]struct{}, nickname string) bool {
	_, ok := set[nick.Key(nickname)]
	return ok
}
