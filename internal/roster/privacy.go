package roster

import (
	"github.com/vovakirdan/wirechat-roster/internal/nick"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// SetFriend adds or removes nickname from the friend list.
// It does not touch Ignore; callers wanting exclusivity clear it themselves.
func (r *Roster) SetFriend(nickname string, friend bool) {
	r.SetFlag(nickname, Friend, friend)
}

// SetIgnore adds or removes nickname from the ignore list.
// It does not touch Friend; callers wanting exclusivity clear it themselves.
func (r *Roster) SetIgnore(nickname string, ignore bool) {
	r.SetFlag(nickname, Ignore, ignore)
}

// StoreIdentity records the identity token reported for nickname. Raw
// addresses are hashed first; the unavailable sentinel clears the entry.
// It reports whether a hash is now known.
func (r *Roster) StoreIdentity(nickname, token string) bool {
	hash := r.hasher.Normalize(token)
	r.ids.Store(nickname, hash)

	if p := r.find(nickname); p != nil {
		ignored := r.ids.IsIgnored(hash)
		if p.flags.Has(IgnoredByIdentityHash) != ignored {
			p.flags = p.flags.With(IgnoredByIdentityHash, ignored)
			r.refresh(p, false)
		}
		r.emitFor(EventPlayerChanged, p)
	}
	return hash != ""
}

// IdentityKnown reports whether an identity hash is known for nickname.
func (r *Roster) IdentityKnown(nickname string) bool {
	return r.ids.Hash(nickname) != ""
}

// IsIdentityIgnored reports whether nickname's known hash is ignored.
func (r *Roster) IsIdentityIgnored(nickname string) bool {
	return r.ids.IsIgnored(r.ids.Hash(nickname))
}

// SetIgnoredByIdentityHash ignores or unignores the identity behind
// nickname. When no hash is known nothing changes and it returns false.
// Every visible player sharing the hash gets its flag updated.
func (r *Roster) SetIgnoredByIdentityHash(nickname string, ignored bool) (known bool) {
	hash := r.ids.Hash(nickname)
	if hash == "" {
		r.log.Debug().Str("nick", nickname).Msg("identity hash unknown")
		return false
	}

	if r.ids.SetIgnored(hash, ignored) {
		r.persist(store.ListIgnoredHashes, r.ids.Ignored())
	}

	for _, p := range r.players {
		if r.ids.Hash(p.nickname) != hash {
			continue
		}
		p.flags = p.flags.With(IgnoredByIdentityHash, ignored)
		r.refresh(p, false)
		r.emitFor(EventPlayerChanged, p)
	}
	return true
}

// IsMessageSuppressed reports whether chat from nickname must be hidden:
// the nickname is ignored or its known identity hash is.
func (r *Roster) IsMessageSuppressed(nickname string) bool {
	if nickname == "" {
		return false
	}
	return r.IsFlagSet(nickname, Ignore) || r.IsIdentityIgnored(nickname)
}

// UsersSharingIdentity returns the visible nicknames whose identity hash
// equals nickname's, including nickname itself when visible. It is empty
// when the hash is unknown.
func (r *Roster) UsersSharingIdentity(nickname string) []string {
	hash := r.ids.Hash(nickname)
	if hash == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, p := range r.players {
		if r.ids.Hash(p.nickname) != hash {
			continue
		}
		key := nick.Key(p.nickname)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p.nickname)
	}
	return out
}
