package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested key has no stored value.
var ErrNotFound = errors.New("not found")

// Setting keys used in the process-wide settings store.
const (
	SettingUserSalt = "user_salt"
)

// List names a per-profile persisted nickname or hash set.
type List string

const (
	ListFriends       List = "friends"
	ListIgnore        List = "ignore"
	ListIgnoredHashes List = "ignored_ips"
	ListHighlight     List = "highlight"
	ListHighlightExpr List = "hlregexp"
)

// SettingsStore handles process-wide key/value settings.
type SettingsStore interface {
	// GetSetting returns the value stored for key, or ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting inserts or replaces the value stored for key.
	SetSetting(ctx context.Context, key, value string) error

	// Close releases the underlying storage.
	Close() error
}

// ListStore persists per-profile sets of case-insensitive entries.
type ListStore interface {
	// LoadSet returns the entries of the list for profile, lowercased.
	// A missing list yields an empty set.
	LoadSet(profile string, list List) (map[string]struct{}, error)

	// SaveSet replaces the persisted list. An empty set removes it.
	SaveSet(profile string, list List, set map[string]struct{}) error

	// LoadLines returns raw non-comment lines of a list, untouched.
	LoadLines(profile string, list List) ([]string, error)
}
