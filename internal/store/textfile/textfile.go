package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/wirechat-roster/internal/nick"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

const header = "; this list is used by the lobby client - do not edit it unless you know what you're doing!"

// Store implements store.ListStore with one UTF-8 text file per list:
// <dir>/<profile>_<list>.txt.
type Store struct {
	dir string
}

// New returns a list store rooted at dir. The directory is created lazily on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file backing the list for profile.
func (s *Store) Path(profile string, list store.List) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.txt", nick.Key(profile), list))
}

// LoadSet reads a list as a set of lowercased entries.
// Blank lines and lines starting with ';' are skipped.
func (s *Store) LoadSet(profile string, list store.List) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	lines, err := s.LoadLines(profile, list)
	if err != nil {
		return set, err
	}
	for _, line := range lines {
		if entry := nick.Key(strings.TrimSpace(line)); entry != "" {
			set[entry] = struct{}{}
		}
	}
	return set, nil
}

// LoadLines returns the non-comment, non-blank lines of a list.
// A missing file or an empty profile yields no lines and no error.
func (s *Store) LoadLines(profile string, list store.List) ([]string, error) {
	if profile == "" {
		return nil, nil
	}

	f, err := os.Open(s.Path(profile, list))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("read list: %w", err)
	}
	return lines, nil
}

// SaveSet writes the set sorted, one entry per line, after a comment header.
// An empty set removes the file instead of leaving an empty one behind.
// Saving for an empty profile is a no-op.
func (s *Store) SaveSet(profile string, list store.List, set map[string]struct{}) error {
	if profile == "" {
		return nil
	}
	path := s.Path(profile, list)

	if len(set) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove list: %w", err)
		}
		return nil
	}

	entries := make([]string, 0, len(set))
	for entry := range set {
		entries = append(entries, entry)
	}
	slices.Sort(entries)

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create list dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write list: %w", err)
	}
	return nil
}
