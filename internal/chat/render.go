package chat

import (
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/vovakirdan/wirechat-roster/internal/nick"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// urlPattern makes links to the official site and the community addon
// server clickable; other URLs stay plain text.
var urlPattern = regexp.MustCompile(`(http(s)?://)?(www\.)?((([^/:?&#\s]+\.)?hedgewars\.org|hh\.unit22\.org)(/[^ ]*)?)`)

const highlightTemplate = `^(.* )?%s[^-a-z0-9_]*( .*)?$`

func escape(s string) string {
	return html.EscapeString(s)
}

// linkedNick renders nickname as a clickable link carrying the base64 of
// the nickname, so it survives URL case-folding. The local user and
// server pseudo-nicks are rendered unlinked.
func linkedNick(nickname, self string) string {
	if nickname != self && !nick.IsPseudo(nickname) {
		return fmt.Sprintf(`<a href="hwnick://?%s" class="nick">%s</a>`,
			base64.StdEncoding.EncodeToString([]byte(nickname)), escape(nickname))
	}
	return fmt.Sprintf(`<span class="nick">%s</span>`, escape(nickname))
}

// NicknameFromLink decodes the nickname carried by a linkedNick href query.
func NicknameFromLink(query string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(query, "?"))
	if err != nil {
		return "", fmt.Errorf("decode nick link: %w", err)
	}
	return string(raw), nil
}

func messageToHTML(message string) string {
	return urlPattern.ReplaceAllString(escape(message), `<a href="http$2://$4">$4</a>`)
}

func highlightFor(word string) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(highlightTemplate, regexp.QuoteMeta(nick.Key(word))))
}

// loadHighlights rebuilds the highlight patterns: the local nickname, every
// word of the profile's highlight list and each raw pattern of its regexp list.
func (s *Session) loadHighlights() {
	s.highlights = nil
	if s.userNick == "" {
		return
	}

	if re, err := highlightFor(s.userNick); err == nil {
		s.highlights = append(s.highlights, re)
	}

	if s.lists == nil {
		return
	}

	words, err := s.lists.LoadLines(s.userNick, store.ListHighlight)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load highlight words")
	}
	for _, line := range words {
		for _, word := range strings.Fields(line) {
			re, err := highlightFor(word)
			if err != nil {
				continue
			}
			s.highlights = append(s.highlights, re)
		}
	}

	exprs, err := s.lists.LoadLines(s.userNick, store.ListHighlightExpr)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load highlight patterns")
	}
	for _, expr := range exprs {
		re, err := regexp.Compile(strings.ToLower(expr))
		if err != nil {
			s.log.Warn().Err(err).Str("pattern", expr).Msg("skipping invalid highlight pattern")
			continue
		}
		s.highlights = append(s.highlights, re)
	}
}

// containsHighlight reports whether message from sender mentions the local user.
func (s *Session) containsHighlight(sender, message string) bool {
	if s.userNick == "" || sender == s.userNick {
		return false
	}
	lower := strings.ToLower(message)
	for _, re := range s.highlights {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
