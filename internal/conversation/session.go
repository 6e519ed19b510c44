// Package conversation drives a user from /start to a sent (or not sent)
// application email.
package conversation

import (
	"sync"
	"time"

	"go-openclaw-mailer/internal/models"

	"github.com/google/uuid"
)

type State int

const (
	CollectEmail State = iota
	CollectJobDescription
	ChooseCV
	HandleCVUpload
	Review
	Terminal
)

func (s State) String() string {
	switch s {
	case CollectEmail:
		return "COLLECT_EMAIL"
	case CollectJobDescription:
		return "COLLECT_JOB_DESCRIPTION"
	case ChooseCV:
		return "CHOOSE_CV"
	case HandleCVUpload:
		return "HANDLE_CV_UPLOAD"
	case Review:
		return "REVIEW"
	case Terminal:
		return "TERMINAL"
	default:
		return "UNKNOWN"
	}
}

// Session is one user's in-progress conversation.
type Session struct {
	ID        string
	UserID    int64
	ChatID    int64
	State     State
	CreatedAt time.Time

	RecipientEmail string
	JobDescription string
	Email          models.GeneratedEmail
	// CVPath is empty when no CV has been chosen yet.
	CVPath string
}

func newSession(userID, chatID int64) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChatID:    chatID,
		State:     CollectEmail,
		CreatedAt: time.Now(),
	}
}

// setRecipient and setJobDescription are write-once.
func (s *Session) setRecipient(email string) bool {
	if s.RecipientEmail != "" {
		return false
	}
	s.RecipientEmail = email
	return true
}

func (s *Session) setJobDescription(jd string) bool {
	if s.JobDescription != "" {
		return false
	}
	s.JobDescription = jd
	return true
}

// readyToSend holds when the send action is allowed.
func (s *Session) readyToSend() bool {
	return s.RecipientEmail != "" && !s.Email.Empty()
}

// SessionStore maps Telegram user ids to their active session.
// Mutex is required because users are served concurrently.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

func (st *SessionStore) Get(userID int64) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	return s, ok
}

func (st *SessionStore) put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.UserID] = s
}

// evict removes s only if it is still the user's current session.
func (st *SessionStore) evict(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if cur, ok := st.sessions[s.UserID]; ok && cur.ID == s.ID {
		delete(st.sessions, s.UserID)
	}
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
