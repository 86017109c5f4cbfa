package roster

import (
	"fmt"
	"strings"
)

// Flag is one of the closed set of boolean player attributes.
type Flag uint8

const (
	// Ready marks a room member as ready to start.
	Ready Flag = iota
	// ServerAdmin marks a server administrator.
	ServerAdmin
	// RoomAdmin marks the master of the room the player is in.
	RoomAdmin
	// Registered marks an account registered with the server.
	Registered
	// Friend is local-only: the player is on the local user's friend list.
	Friend
	// Ignore is local-only: the player is on the local user's ignore list.
	Ignore
	// InGame marks a player currently in a running match.
	InGame
	// InRoom marks a player that is in some room (not necessarily ours).
	InRoom
	// Contributor marks a project contributor.
	Contributor
	// IgnoredByIdentityHash is local-only: the player's identity hash is ignored.
	IgnoredByIdentityHash

	flagCount
)

var flagNames = [flagCount]string{
	Ready:                 "ready",
	ServerAdmin:           "server_admin",
	RoomAdmin:             "room_admin",
	Registered:            "registered",
	Friend:                "friend",
	Ignore:                "ignore",
	InGame:                "in_game",
	InRoom:                "in_room",
	Contributor:           "contributor",
	IgnoredByIdentityHash: "ignored_by_identity_hash",
}

func (f Flag) String() string {
	if f < flagCount {
		return flagNames[f]
	}
	return fmt.Sprintf("flag(%d)", uint8(f))
}

// Valid reports whether f is a known flag kind.
func (f Flag) Valid() bool {
	return f < flagCount
}

// ServerAuthoritative reports whether the server, not the local user, owns f.
func (f Flag) ServerAuthoritative() bool {
	switch f {
	case ServerAdmin, RoomAdmin, Ready, InGame, Registered, Contributor, InRoom:
		return true
	default:
		return false
	}
}

// affectsOrder reports whether changing f changes the sort key.
func (f Flag) affectsOrder() bool {
	switch f {
	case RoomAdmin, ServerAdmin, Friend, Ignore:
		return true
	default:
		return false
	}
}

// ParseFlag resolves a flag name as produced by Flag.String.
func ParseFlag(name string) (Flag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range flagNames {
		if n == name {
			return Flag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", name)
}

// Flags is a fixed-size record of all flag kinds, one bit per Flag.
type Flags uint16

// Has reports whether flag is set.
func (fs Flags) Has(flag Flag) bool {
	return fs&(1<<flag) != 0
}

// With returns a copy with flag set to on.
func (fs Flags) With(flag Flag, on bool) Flags {
	if on {
		return fs | 1<<flag
	}
	return fs &^ (1 << flag)
}

// Names lists the set flags in declaration order.
func (fs Flags) Names() []string {
	var out []string
	for f := Flag(0); f < flagCount; f++ {
		if fs.Has(f) {
			out = append(out, f.String())
		}
	}
	return out
}
