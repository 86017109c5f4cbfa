// Package identity derives salted, privacy-preserving identity hashes and
// tracks which visible nicknames map to which hash.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// Unavailable is the sentinel the server sends when it has no identity for a player.
const Unavailable = "[]"

// Hasher derives identity hashes from raw network addresses.
// It is immutable and safe for concurrent use.
type Hasher struct {
	salt string
}

// NewHasher returns a hasher using salt. An empty salt produces no hashes.
func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Derive returns hex(sha256(rawAddress || salt)), or "" when either input is empty.
func (h *Hasher) Derive(rawAddress string) string {
	if h == nil || h.salt == "" || rawAddress == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(rawAddress + h.salt))
	return hex.EncodeToString(sum[:])
}

// Normalize turns an identity token received from the server into a hash.
// The unavailable sentinel and blanks yield "". Raw IP addresses (with or
// without port) are hashed locally so they are never retained; any other
// token is taken to be a server-supplied hash.
func (h *Hasher) Normalize(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || token == Unavailable {
		return ""
	}
	if addr, ok := parseAddr(token); ok {
		return h.Derive(addr)
	}
	return strings.ToLower(token)
}

func parseAddr(token string) (string, bool) {
	if ap, err := netip.ParseAddrPort(token); err == nil {
		return ap.Addr().Unmap().String(), true
	}
	if a, err := netip.ParseAddr(strings.Trim(token, "[]")); err == nil {
		return a.Unmap().String(), true
	}
	return "", false
}

// LoadOrCreateSalt returns the persisted salt, generating and storing a new
// random token on first use.
func LoadOrCreateSalt(ctx context.Context, settings store.SettingsStore) (string, error) {
	salt, err := settings.GetSetting(ctx, store.SettingUserSalt)
	if err == nil && salt != "" {
		return salt, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("load salt: %w", err)
	}

	salt = uuid.NewString()
	if err := settings.SetSetting(ctx, store.SettingUserSalt, salt); err != nil {
		return "", fmt.Errorf("persist salt: %w", err)
	}
	return salt, nil
}
