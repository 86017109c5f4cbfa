package roster

import (
	"fmt"

	"github.com/vovakirdan/wirechat-roster/internal/nick"
)

// sortKeyOf orders room admins first, then server admins, then friends,
// ignored players last, and within each group nicknames starting with a
// letter before the rest, then by lowercased nickname.
func sortKeyOf(nickname string, flags Flags) string {
	return fmt.Sprintf("%d%d%d%d%d%s",
		1-bit(flags.Has(RoomAdmin)),
		1-bit(flags.Has(ServerAdmin)),
		1-bit(flags.Has(Friend)),
		bit(flags.Has(Ignore)),
		1-bit(nick.StartsWithLetter(nickname)),
		nick.Key(nickname),
	)
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
