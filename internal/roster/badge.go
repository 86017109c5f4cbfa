package roster

import (
	"strings"
	"sync"
)

// IconKey packs the ten flags that determine a player's badge, lowest bit first.
type IconKey uint16

const (
	iconReady IconKey = 1 << iota
	iconServerAdmin
	iconRoomAdmin
	iconRegistered
	iconFriend
	iconIgnore
	iconInGame
	iconRoomFilter
	iconInRoom
	iconContributor
)

func (k IconKey) has(bit IconKey) bool { return k&bit != 0 }

func iconKeyOf(flags Flags, inRoomFilter bool) IconKey {
	var k IconKey
	set := func(on bool, bit IconKey) {
		if on {
			k |= bit
		}
	}
	set(flags.Has(Ready), iconReady)
	set(flags.Has(ServerAdmin), iconServerAdmin)
	set(flags.Has(RoomAdmin), iconRoomAdmin)
	set(flags.Has(Registered), iconRegistered)
	set(flags.Has(Friend), iconFriend)
	set(flags.Has(Ignore), iconIgnore)
	set(flags.Has(InGame), iconInGame)
	set(inRoomFilter, iconRoomFilter)
	set(flags.Has(InRoom), iconInRoom)
	set(flags.Has(Contributor), iconContributor)
	return k
}

// Color is a foreground text colour as a CSS hex string.
type Color string

const (
	ColorGray  Color = "#808080"
	ColorGreen Color = "#00ff00"
	ColorAmber Color = "#ffcc00"
)

func colorOf(flags Flags) Color {
	switch {
	case flags.Has(Ignore):
		return ColorGray
	case flags.Has(Friend):
		return ColorGreen
	default:
		return ColorAmber
	}
}

// Badge is a composed player icon: image resources drawn bottom to top.
// Badges are shared through the cache and must not be modified.
type Badge struct {
	Key    IconKey
	Layers []string
}

// String joins the layers, mainly for logs and tests.
func (b *Badge) String() string {
	if b == nil {
		return ""
	}
	return strings.Join(b.Layers, "+")
}

func composeBadge(k IconKey) *Badge {
	layers := make([]string, 0, 3)

	// presence
	if k.has(iconRoomFilter) {
		switch {
		case k.has(iconInGame):
			layers = append(layers, "chat/ingame")
		case k.has(iconReady):
			layers = append(layers, "chat/lamp")
		default:
			layers = append(layers, "chat/lamp_off")
		}
	} else if !k.has(iconInRoom) {
		layers = append(layers, "flake")
	}

	// role
	role := "chat/"
	if k.has(iconServerAdmin) {
		role += "serveradmin"
	} else {
		if k.has(iconRoomAdmin) {
			role += "roomadmin"
		} else {
			role += "hedgehog"
		}
		if k.has(iconContributor) {
			role += "contributor"
		}
	}
	if !k.has(iconRegistered) {
		role += "_gray"
	}
	layers = append(layers, role)

	// relation, ignore wins over friend
	switch {
	case k.has(iconIgnore):
		layers = append(layers, "chat/ignore")
	case k.has(iconFriend):
		layers = append(layers, "chat/friend")
	}

	return &Badge{Key: k, Layers: layers}
}

// BadgeCache memoizes composed badges per IconKey for the process lifetime.
// Entries are never evicted. It is safe for concurrent use.
type BadgeCache struct {
	mu      sync.Mutex
	badges  map[IconKey]*Badge
	compose func(IconKey) *Badge
}

// NewBadgeCache returns an empty cache using the standard badge composition.
func NewBadgeCache() *BadgeCache {
	return &BadgeCache{
		badges:  make(map[IconKey]*Badge),
		compose: composeBadge,
	}
}

// Get returns the badge for k, composing it on first request.
func (c *BadgeCache) Get(k IconKey) *Badge {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.badges[k]; ok {
		return b
	}
	b := c.compose(k)
	c.badges[k] = b
	return b
}

// Len returns the number of distinct badges composed so far.
func (c *BadgeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.badges)
}
