package presetboard

import (
	"fmt"
	"go.uber.org/zap"
	"strings"
)

type NotificationKind int

const (
	ClosingPrevious NotificationKind = iota
	SwitchingTo
	OpeningApps
	ShowingDescription
)

// Notification is one user-visible step of a simulated preset switch.
type Notification struct {
	Kind        NotificationKind
	Preset      string
	Apps        []string
	Description string
}

func (n Notification) String() string {
	switch n.Kind {
	case ClosingPrevious:
		return fmt.Sprintf("🔄 Closing apps from previous preset: %s", n.Preset)
	case SwitchingTo:
		return fmt.Sprintf("🚀 Switching to preset: %s", n.Preset)
	case OpeningApps:
		return fmt.Sprintf("📱 Opening apps: %s", strings.Join(n.Apps, ", "))
	case ShowingDescription:
		return fmt.Sprintf("💡 Description: %s", n.Description)
	}

	return fmt.Sprintf("unknown notification %d", n.Kind)
}

// Session tracks the most recently switched-to preset. The zero value has no
// current preset.
type Session struct {
	current string
	active  bool
}

func (s Session) Current() (string, bool) {
	return s.current, s.active
}

// Switch simulates moving from sess to the named preset. It returns the new
// session and the notifications to show, or false and sess unchanged when the
// preset does not exist.
//
// Whether the previous preset's apps are closed is decided by the target
// preset's ClosePrevious, not by the preset being left.
func Switch(presets *Presets, sess Session, name string) (Session, []Notification, bool) {
	preset, ok := presets.Get(name)
	if !ok {
		return sess, nil, false
	}

	var notes []Notification
	if sess.active && preset.ClosePrevious {
		notes = append(notes, Notification{Kind: ClosingPrevious, Preset: sess.current})
	}

	notes = append(notes,
		Notification{Kind: SwitchingTo, Preset: name},
		Notification{Kind: OpeningApps, Preset: name, Apps: preset.Apps},
		Notification{Kind: ShowingDescription, Preset: name, Description: preset.Description},
	)

	return Session{current: name, active: true}, notes, true
}

// Switcher owns the session of a running process.
type Switcher struct {
	store   *Store
	session Session
	log     *zap.SugaredLogger
}

func NewSwitcher(store *Store, log *zap.SugaredLogger) *Switcher {
	return &Switcher{
		store: store,
		log:   log,
	}
}

func (s *Switcher) Session() Session {
	return s.session
}

func (s *Switcher) Switch(name string) ([]Notification, bool) {
	next, notes, ok := Switch(s.store.Presets(), s.session, name)
	if !ok {
		s.log.Debugw("switch to unknown preset", "name", name)
		return nil, false
	}

	prev, _ := s.session.Current()
	s.log.Infow("switched preset", "from", prev, "to", name)
	s.session = next

	return notes, true
}
