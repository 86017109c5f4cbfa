package roster

// player is the live record for one visible player. Derived fields
// (sortKey, iconKey, badge, color) are refreshed by Roster.refresh on
// every mutation, before any event is emitted.
type player struct {
	nickname     string
	flags        Flags
	inRoomFilter bool

	sortKey string
	iconKey IconKey
	badge   *Badge
	color   Color
}

// View is a render-ready snapshot of a player.
type View struct {
	Nickname     string
	Flags        Flags
	InRoomFilter bool
	SortKey      string
	IconKey      IconKey
	Badge        *Badge
	Color        Color
	// Italic marks rows shown in the room list rather than the lobby list.
	Italic bool
	// IdentityKnown reports whether an identity hash is known, so hash-based
	// moderation can be offered. The hash itself is never exposed.
	IdentityKnown bool
}

// Has reports whether flag is set in the snapshot.
func (v View) Has(flag Flag) bool {
	return v.Flags.Has(flag)
}

func (p *player) view(identityKnown bool) View {
	return View{
		Nickname:      p.nickname,
		Flags:         p.flags,
		InRoomFilter:  p.inRoomFilter,
		SortKey:       p.sortKey,
		IconKey:       p.iconKey,
		Badge:         p.badge,
		Color:         p.color,
		Italic:        p.inRoomFilter,
		IdentityKnown: identityKnown,
	}
}
