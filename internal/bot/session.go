package bot

import (
	"sync"

	"attendance.bot/internal/core/model"
)

// DraftStep tracks progress through the add-employee form. The chain is
// strictly linear; events that do not match the expected next field are
// ignored so unrelated input cannot skip or reorder steps.
type DraftStep int

const (
	DraftIdle DraftStep = iota
	AwaitingUsername
	AwaitingFullname
	AwaitingPosition
	AwaitingDepartment
	AwaitingAdminFlag
)

// Session is the per-chat conversation state. It lives for the process
// lifetime only; the admin flag is re-resolved from the roster on /start.
type Session struct {
	ChatID   int64
	Username string
	IsAdmin  bool

	// Scene is the name of the active scene, empty when no scene is active
	// (e.g. an unrecognized user after /start).
	Scene string

	// Add-employee draft.
	Step  DraftStep
	Draft model.Employee
}

// ResetDraft discards transient form state. Called on every scene transition:
// entering a new scene never inherits a previous scene's partial input.
func (s *Session) ResetDraft() {
	s.Step = DraftIdle
	s.Draft = model.Employee{}
}

// SessionStore keeps sessions keyed by chat ID. Updates for different chats
// may be handled concurrently, so access is mutex-guarded.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the chat's session, creating it on first interaction. The
// username is refreshed every turn; Telegram users can rename themselves.
func (st *SessionStore) Get(chatID int64, username string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[chatID]
	if !ok {
		sess = &Session{ChatID: chatID}
		st.sessions[chatID] = sess
	}
	if username != "" {
		sess.Username = username
	}
	return sess
}
