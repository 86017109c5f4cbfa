package roster

import "github.com/vovakirdan/wirechat-roster/internal/store"

// PlayerJoinedRoom moves nickname from the lobby into the local room and
// emits a room-scoped join event. The event fires even for unknown players.
func (r *Roster) PlayerJoinedRoom(nickname string, notify bool) {
	ev := Event{Kind: EventPlayerJoinedRoom, Nickname: nickname, Notify: notify}
	if p := r.find(nickname); p != nil {
		p.inRoomFilter = true
		r.refresh(p, true)
		v := r.viewOf(p)
		ev.Nickname, ev.View = p.nickname, &v
	}
	r.emit(ev)
}

// PlayerLeftRoom emits a room-scoped leave event and returns the player to
// the lobby, clearing the room-only flags.
func (r *Roster) PlayerLeftRoom(nickname string) {
	p := r.find(nickname)
	ev := Event{Kind: EventPlayerLeftRoom, Nickname: nickname}
	if p != nil {
		ev.Nickname = p.nickname
	}
	r.emit(ev)

	if p == nil {
		return
	}
	r.leaveRoom(p)
	r.emitFor(EventPlayerChanged, p)
}

// ResetRoomFlags returns every player in the local room to the lobby, as on
// room teardown or disconnect. Records are visited newest first.
func (r *Roster) ResetRoomFlags() {
	for i := len(r.players) - 1; i >= 0; i-- {
		p := r.players[i]
		if !p.inRoomFilter {
			continue
		}
		r.leaveRoom(p)
		r.emitFor(EventPlayerChanged, p)
	}
}

func (r *Roster) leaveRoom(p *player) {
	p.inRoomFilter = false
	p.flags = p.flags.
		With(RoomAdmin, false).
		With(Ready, false).
		With(InGame, false)
	// RoomAdmin is part of the sort key, so resort here too.
	r.refresh(p, true)
}

// SetLocalNickname switches the local profile: it reloads the friend,
// ignore and ignored-hash lists and re-derives local flags for everyone.
func (r *Roster) SetLocalNickname(nickname string) {
	r.profile = nickname
	r.friends = r.load(store.ListFriends)
	r.ignored = r.load(store.ListIgnore)
	r.ids.ReplaceIgnored(r.load(store.ListIgnoredHashes))

	r.log.Info().
		Str("profile", nickname).
		Int("friends", len(r.friends)).
		Int("ignored", len(r.ignored)).
		Msg("local lists loaded")

	for i := len(r.players) - 1; i >= 0; i-- {
		p := r.players[i]
		before := p.flags
		r.applyLocalFlags(p)
		if p.flags == before {
			continue
		}
		r.refresh(p, true)
		r.emitFor(EventPlayerChanged, p)
	}
}

// LocalNickname returns the current local profile name.
func (r *Roster) LocalNickname() string {
	return r.profile
}
