// Package chat turns roster events and chat traffic into rendered lines and
// moderation requests for the lobby UI.
package chat

import (
	"regexp"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/roster"
	"github.com/vovakirdan/wirechat-roster/internal/store"
)

// maxLines bounds the rendered history kept in memory.
const maxLines = 250

// Policy is the roster surface the chat session relies on.
type Policy interface {
	Count(scope roster.Scope) int
	IsFlagSet(nickname string, flag roster.Flag) bool
	IsMessageSuppressed(nickname string) bool
	SetFriend(nickname string, friend bool)
	SetIgnore(nickname string, ignore bool)
	SetIgnoredByIdentityHash(nickname string, ignored bool) bool
	IsIdentityIgnored(nickname string) bool
	IdentityKnown(nickname string) bool
	UsersSharingIdentity(nickname string) []string
	StoreIdentity(nickname, token string) bool
}

// Line is one rendered chat line. HTML is already escaped.
type Line struct {
	Class     string    `json:"class"`
	HTML      string    `json:"html"`
	Nickname  string    `json:"nick,omitempty"`
	Highlight bool      `json:"highlight,omitempty"`
	Time      time.Time `json:"ts"`
}

// Alert asks the UI to draw attention, e.g. flash the window or play a sound.
type Alert struct {
	Nickname string
	// Sound is "hello" for joins and "highlight" for mentions.
	Sound string
	// Flash is false while the local user is in a running match.
	Flash bool
}

// Options configures a Session. All callbacks are optional.
type Options struct {
	// Scope selects the roster notifications the session renders.
	Scope  roster.Scope
	Policy Policy
	Lists  store.ListStore
	Logger *zerolog.Logger

	// Notify enables join alerts for events that request them.
	Notify bool
	// AutoKick kicks ignored players on join while admin.
	AutoKick bool

	OnLine     func(Line)
	OnAlert    func(Alert)
	OnCommand  func(Command)
	OnNickList func(count int)

	Now func() time.Time
}

// Session is the chat façade of one scope, lobby or room. Like the roster it
// lives on the control goroutine.
type Session struct {
	scope  roster.Scope
	policy Policy
	lists  store.ListStore
	log    *zerolog.Logger

	userNick string
	isAdmin  bool
	autoKick bool
	notify   bool

	highlights []*regexp.Regexp
	lines      []Line

	onLine     func(Line)
	onAlert    func(Alert)
	onCommand  func(Command)
	onNickList func(int)
	now        func() time.Time
}

// NewSession builds a chat session on top of policy.
func NewSession(opts Options) *Session {
	s := &Session{
		scope:      opts.Scope,
		policy:     opts.Policy,
		lists:      opts.Lists,
		log:        opts.Logger,
		notify:     opts.Notify,
		autoKick:   opts.AutoKick,
		onLine:     opts.OnLine,
		onAlert:    opts.OnAlert,
		onCommand:  opts.OnCommand,
		onNickList: opts.OnNickList,
		now:        opts.Now,
	}
	if s.log == nil {
		nop := zerolog.Nop()
		s.log = &nop
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SetUser switches the local nickname, clears history and reloads highlights.
func (s *Session) SetUser(nickname string) {
	s.userNick = nickname
	s.Clear()
	s.loadHighlights()
}

// SetAdmin records whether the local user holds room-admin authority.
func (s *Session) SetAdmin(admin bool) { s.isAdmin = admin }

// IsAdmin reports the current admin authority.
func (s *Session) IsAdmin() bool { return s.isAdmin }

// SetAutoKick toggles kicking of ignored players on join.
func (s *Session) SetAutoKick(enabled bool) { s.autoKick = enabled }

// SetNotify toggles join alerts.
func (s *Session) SetNotify(enabled bool) { s.notify = enabled }

// Lines returns a copy of the buffered history, oldest first.
func (s *Session) Lines() []Line {
	return slices.Clone(s.lines)
}

// Clear drops the buffered history.
func (s *Session) Clear() {
	s.lines = nil
}

// HandleRosterEvent reacts to roster notifications of the session's scope
// and ignores the rest. Subscribe it with roster.Roster.Subscribe.
func (s *Session) HandleRosterEvent(ev roster.Event) {
	if ev.Scope() != s.scope {
		return
	}
	switch ev.Kind {
	case roster.EventPlayerAdded, roster.EventPlayerJoinedRoom:
		s.nickAdded(ev.Nickname, ev.Notify)
	case roster.EventPlayerRemoved, roster.EventPlayerLeftRoom:
		s.nickRemoved(ev.Nickname, ev.Reason)
	}
}

func (s *Session) nickAdded(nickname string, notifyNick bool) {
	ignored := s.policy.IsFlagSet(nickname, roster.Ignore)

	if ignored && s.isAdmin && s.autoKick {
		s.log.Info().Str("nick", nickname).Stringer("scope", s.scope).Msg("auto-kicking ignored player")
		s.dispatch(Command{Kind: CommandKick, Nickname: nickname})
		return
	}

	s.nickCount()

	if !ignored {
		s.printChat(nickname, "*** "+linkedNick(nickname, s.userNick)+" has joined", "Join", false)
	}

	if notifyNick && s.notify && s.onAlert != nil {
		s.onAlert(Alert{Nickname: nickname, Sound: "hello", Flash: !s.isInGame()})
	}
}

func (s *Session) nickRemoved(nickname, reason string) {
	s.nickCount()

	text := "*** " + linkedNick(nickname, s.userNick) + " has left"
	if reason != "" && reason != "bye" {
		text += " (" + escape(reason) + ")"
	}
	s.printChat(nickname, text, "Leave", false)
}

func (s *Session) nickCount() {
	if s.onNickList != nil {
		s.onNickList(s.policy.Count(s.scope))
	}
}

func (s *Session) isInGame() bool {
	return s.userNick != "" && s.policy.IsFlagSet(s.userNick, roster.InGame)
}

// ChatMessage renders a message from nickname unless it is suppressed.
func (s *Session) ChatMessage(nickname, text string) {
	s.printChat(nickname, linkedNick(nickname, s.userNick)+": "+messageToHTML(text), "Chat", s.containsHighlight(nickname, text))
}

// ChatAction renders a "/me" action from nickname unless it is suppressed.
func (s *Session) ChatAction(nickname, text string) {
	s.printChat(nickname, "* "+linkedNick(nickname, s.userNick)+" "+messageToHTML(text), "Action", s.containsHighlight(nickname, text))
}

// PlayerInfo records the identity reported for nickname and renders the
// info line. Neither the hash nor any address is shown.
func (s *Session) PlayerInfo(nickname, identityToken, version, roomInfo string) {
	s.policy.StoreIdentity(nickname, identityToken)
	s.addLine("msg_PlayerInfo",
		" >>> "+linkedNick(nickname, s.userNick)+
			` - <span class="version">`+escape(version)+`</span>`+
			` <span class="location">`+escape(roomInfo)+`</span>`,
		nickname, false)
}

// ServerMessage renders a server-wide announcement. The message is trusted HTML.
func (s *Session) ServerMessage(html string) {
	s.addLine("msg_Server", "<hr>"+html+"<hr>", "", false)
}

// Notice renders an informational line.
func (s *Session) Notice(text string) { s.addLine("msg_Notice", " *** "+text, "", false) }

// Warning renders a warning line.
func (s *Session) Warning(text string) { s.addLine("msg_Warning", " *!* "+text, "", false) }

// Error renders an error line.
func (s *Session) Error(text string) { s.addLine("msg_Error", " !!! "+text, "", false) }

func (s *Session) printChat(nickname, html, classPart string, highlight bool) {
	if s.policy.IsMessageSuppressed(nickname) {
		return
	}

	class := "msg_User" + classPart
	if nickname != "" && s.policy.IsFlagSet(nickname, roster.Friend) {
		class = "msg_Friend" + classPart
	}
	s.addLine(class, html, nickname, highlight)
}

func (s *Session) addLine(class, html, nickname string, highlight bool) {
	line := Line{
		Class:     class,
		HTML:      html,
		Nickname:  nickname,
		Highlight: highlight,
		Time:      s.now(),
	}

	if len(s.lines) >= maxLines {
		s.lines = slices.Delete(s.lines, 0, len(s.lines)-maxLines+1)
	}
	s.lines = append(s.lines, line)

	if s.onLine != nil {
		s.onLine(line)
	}
	if highlight && s.onAlert != nil {
		s.onAlert(Alert{Nickname: nickname, Sound: "highlight", Flash: !s.isInGame()})
	}
}

func (s *Session) dispatch(cmd Command) {
	if s.onCommand != nil {
		s.onCommand(cmd)
	}
}
