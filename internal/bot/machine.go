package bot

import (
	"context"

	"github.com/rs/zerolog/log"
)

// EventKind classifies inbound transport events.
type EventKind string

const (
	EventCommand  EventKind = "command"
	EventText     EventKind = "text"
	EventLocation EventKind = "location"
	EventCallback EventKind = "callback"
)

// Event is one inbound chat event, already stripped of transport details.
type Event struct {
	Kind     EventKind
	ChatID   int64
	Username string
	// Text carries the command name for EventCommand, the message text for
	// EventText and the callback payload for EventCallback.
	Text      string
	Latitude  float64
	Longitude float64
}

// Scene is a named conversation mode: an entry action plus input handlers.
// Handlers return the name of the scene to transition to, "" to stay, or
// SceneExit to leave without entering another scene. Nil handlers mean the
// scene ignores that event kind.
type Scene struct {
	Name       string
	OnEnter    func(ctx context.Context, sess *Session) (string, error)
	OnText     func(ctx context.Context, sess *Session, text string) (string, error)
	OnLocation func(ctx context.Context, sess *Session, lat, lon float64) (string, error)
	OnCallback func(ctx context.Context, sess *Session, data string) (string, error)
}

// SceneExit leaves the current scene without entering a new one.
const SceneExit = "__exit__"

type binding struct {
	scene     string
	adminOnly bool
}

const apologyReply = "Something went wrong, please try again later ⚠️"

// Machine dispatches inbound events to the active scene of each chat session.
// Menu button texts are bound globally: they enter their scene from anywhere,
// with admin-only bindings silently ignored for non-admin sessions.
type Machine struct {
	sender   Sender
	sessions *SessionStore
	scenes   map[string]*Scene
	bindings map[string]binding
	commands map[string]func(ctx context.Context, sess *Session) (string, error)
}

func NewMachine(sender Sender) *Machine {
	return &Machine{
		sender:   sender,
		sessions: NewSessionStore(),
		scenes:   make(map[string]*Scene),
		bindings: make(map[string]binding),
		commands: make(map[string]func(ctx context.Context, sess *Session) (string, error)),
	}
}

// Register adds a scene to the registry.
func (m *Machine) Register(s *Scene) {
	m.scenes[s.Name] = s
}

// Bind routes a literal message text (a menu button) to a scene entry.
func (m *Machine) Bind(text, scene string, adminOnly bool) {
	m.bindings[text] = binding{scene: scene, adminOnly: adminOnly}
}

// Command routes a slash command (without the slash) to a handler.
func (m *Machine) Command(name string, fn func(ctx context.Context, sess *Session) (string, error)) {
	m.commands[name] = fn
}

// Session exposes the chat's session, creating it if needed.
func (m *Machine) Session(chatID int64, username string) *Session {
	return m.sessions.Get(chatID, username)
}

// Dispatch handles one inbound event to completion: it resolves the handler,
// runs it, and follows the returned transitions. Repository or transport
// failures are reported to the user as an apology and the session stays in
// its current scene so the interaction can be retried.
func (m *Machine) Dispatch(ctx context.Context, ev Event) {
	sess := m.sessions.Get(ev.ChatID, ev.Username)

	next, err := m.handle(ctx, sess, ev)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("scene", sess.Scene).Msg("Handler failed")
		if sendErr := m.sender.SendText(sess.ChatID, apologyReply); sendErr != nil {
			log.Ctx(ctx).Error().Err(sendErr).Msg("Failed to send apology reply")
		}
		return
	}
	if next != "" {
		m.Enter(ctx, sess, next)
	}
}

func (m *Machine) handle(ctx context.Context, sess *Session, ev Event) (string, error) {
	if ev.Kind == EventCommand {
		fn, ok := m.commands[ev.Text]
		if !ok {
			return "", nil
		}
		return fn(ctx, sess)
	}

	if ev.Kind == EventText {
		if b, ok := m.bindings[ev.Text]; ok {
			if b.adminOnly && !sess.IsAdmin {
				// Unauthorized admin commands are dropped without a reply.
				log.Ctx(ctx).Debug().Str("binding", ev.Text).Msg("Ignoring admin command from non-admin")
				return "", nil
			}
			return b.scene, nil
		}
	}

	scene, ok := m.scenes[sess.Scene]
	if !ok {
		return "", nil
	}

	switch ev.Kind {
	case EventText:
		if scene.OnText != nil {
			return scene.OnText(ctx, sess, ev.Text)
		}
	case EventLocation:
		if scene.OnLocation != nil {
			return scene.OnLocation(ctx, sess, ev.Latitude, ev.Longitude)
		}
	case EventCallback:
		if scene.OnCallback != nil {
			return scene.OnCallback(ctx, sess, ev.Text)
		}
	}
	return "", nil
}

// Enter transitions the session into a named scene, discarding draft state,
// and runs the scene's entry action. Entry actions may auto-transition, so
// this loops until a scene settles.
func (m *Machine) Enter(ctx context.Context, sess *Session, name string) {
	for name != "" {
		if name == SceneExit {
			sess.Scene = ""
			return
		}

		scene, ok := m.scenes[name]
		if !ok {
			log.Ctx(ctx).Error().Str("scene", name).Msg("Transition to unknown scene")
			return
		}

		sess.Scene = name
		sess.ResetDraft()

		if scene.OnEnter == nil {
			return
		}
		next, err := scene.OnEnter(ctx, sess)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("scene", name).Msg("Scene entry failed")
			if sendErr := m.sender.SendText(sess.ChatID, apologyReply); sendErr != nil {
				log.Ctx(ctx).Error().Err(sendErr).Msg("Failed to send apology reply")
			}
			return
		}
		name = next
	}
}
