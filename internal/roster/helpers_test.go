package roster

import (
	"errors"
	"maps"

	"github.com/vovakirdan/wirechat-roster/internal/identity"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// memLists is an in-memory store.ListStore keyed by "<profile>/<list>".
type memLists struct {
	sets    map[string]map[string]struct{}
	saves   int
	failAll bool
}

func newMemLists() *memLists {
	return &memLists{sets: make(map[string]map[string]struct{})}
}

func (m *memLists) key(profile string, list store.List) string {
	return profile + "/" + string(list)
}

func (m *memLists) LoadSet(profile string, list store.List) (map[string]struct{}, error) {
	if m.failAll {
		return nil, errors.New("unreadable")
	}
	return maps.Clone(m.sets[m.key(profile, list)]), nil
}

func (m *memLists) SaveSet(profile string, list store.List, set map[string]struct{}) error {
	m.saves++
	if m.failAll {
		return errors.New("read-only")
	}
	if len(set) == 0 {
		delete(m.sets, m.key(profile, list))
		return nil
	}
	m.sets[m.key(profile, list)] = maps.Clone(set)
	return nil
}

func (m *memLists) LoadLines(string, store.List) ([]string, error) { return nil, nil }

func (m *memLists) seed(profile string, list store.List, entries ...string) {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	m.sets[m.key(profile, list)] = set
}

type recorder struct {
	events []Event
}

func (r *recorder) listen(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

func newTestRoster(lists store.ListStore) (*Roster, *recorder) {
	r := New(Options{
		Lists:  lists,
		Hasher: identity.NewHasher("test-salt"),
	})
	rec := &recorder{}
	r.Subscribe(rec.listen)
	return r, rec
}
