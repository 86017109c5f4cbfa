package identity

import (
	"maps"

	"github.com/vovakirdan/wirechat-roster/internal/nick"
)

// Correlations maps nicknames to identity hashes and holds the set of hashes
// the local user ignores. It is owned by the control goroutine; readers on
// other goroutines must go through it.
type Correlations struct {
	byNick  map[string]string
	ignored map[string]struct{}
}

// NewCorrelations returns an empty correlation store.
func NewCorrelations() *Correlations {
	return &Correlations{
		byNick:  make(map[string]string),
		ignored: make(map[string]struct{}),
	}
}

// Store associates hash with nickname. An empty hash clears the association.
func (c *Correlations) Store(nickname, hash string) {
	key := nick.Key(nickname)
	if hash == "" {
		delete(c.byNick, key)
		return
	}
	c.byNick[key] = hash
}

// Hash returns the known hash for nickname, or "".
func (c *Correlations) Hash(nickname string) string {
	return c.byNick[nick.Key(nickname)]
}

// Forget drops any association for nickname.
func (c *Correlations) Forget(nickname string) {
	delete(c.byNick, nick.Key(nickname))
}

// IsIgnored reports whether hash is in the ignored set. Empty hashes never are.
func (c *Correlations) IsIgnored(hash string) bool {
	if hash == "" {
		return false
	}
	_, ok := c.ignored[hash]
	return ok
}

// SetIgnored adds or removes hash from the ignored set and reports whether the set changed.
func (c *Correlations) SetIgnored(hash string, ignored bool) bool {
	if hash == "" {
		return false
	}
	_, had := c.ignored[hash]
	if ignored == had {
		return false
	}
	if ignored {
		c.ignored[hash] = struct{}{}
	} else {
		delete(c.ignored, hash)
	}
	return true
}

// Ignored returns a copy of the ignored hash set.
func (c *Correlations) Ignored() map[string]struct{} {
	return maps.Clone(c.ignored)
}

// ReplaceIgnored swaps in a freshly loaded ignored set.
func (c *Correlations) ReplaceIgnored(set map[string]struct{}) {
	c.ignored = make(map[string]struct{}, len(set))
	for h := range set {
		c.ignored[h] = struct{}{}
	}
}
