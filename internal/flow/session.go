// Package flow implements the conversation flow controller for the intake
// chat: the fixed question sequence, per-step input validation, message
// composition and the terminal submission handoff.
package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harmos/intakebot/internal/models"
)

// Session holds the state of one candidate conversation: the append-only
// message log, the current flow step and the answer accumulator. One logical
// session exists per connected candidate; all transitions are serialized
// through the session mutex (one user input at a time).
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	language       models.Language
	languageChosen bool
	step           models.FlowStep
	answers        models.CandidateAnswers
	messages       []models.ChatMessage
	nextID         int64
	composing      bool
	awaitingTyping bool
	submitted      bool
	picker         *SongPicker
	collector      *FileCollector
}

// NewSession creates a session positioned at the welcome step, gated behind
// the language selector. The selector message is the first log entry.
func NewSession() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		language:  models.LanguageFR,
		step:      models.StepWelcome,
		nextID:    1,
	}
	s.append(models.ChatMessage{Kind: models.MessageKindLanguageSelector, Author: models.AuthorSystem})
	return s
}

// Step returns the current flow step.
func (s *Session) Step() models.FlowStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Language returns the session language (French until explicitly chosen).
func (s *Session) Language() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Answers returns a copy of the accumulated candidate answers.
func (s *Session) Answers() models.CandidateAnswers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers
}

// Messages returns a snapshot of the message log in append order.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Composing reports whether the flow is currently composing a response. The
// presentation layer disables its input widgets while this is true.
func (s *Session) Composing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing
}

// append assigns the next message ID and timestamp and adds the message to
// the log. Caller must hold s.mu (or have exclusive access during init).
func (s *Session) append(msg models.ChatMessage) models.ChatMessage {
	msg.ID = s.nextID
	s.nextID++
	msg.CreatedAt = time.Now()
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Session) appendSystemText(body string) models.ChatMessage {
	return s.append(models.ChatMessage{Kind: models.MessageKindText, Body: body, Author: models.AuthorSystem})
}

func (s *Session) appendUserText(body string) models.ChatMessage {
	return s.append(models.ChatMessage{Kind: models.MessageKindText, Body: body, Author: models.AuthorCandidate})
}

// disableLatest flips the Disabled flag on the most recent enabled message
// of the given kind. Returns the message ID and true when one was flipped.
func (s *Session) disableLatest(kind models.MessageKind) (int64, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Kind == kind && !s.messages[i].Disabled {
			s.messages[i].Disabled = true
			return s.messages[i].ID, true
		}
	}
	return 0, false
}

// disableAll flips the Disabled flag on every enabled message of the given
// kind and returns their IDs.
func (s *Session) disableAll(kind models.MessageKind) []int64 {
	var ids []int64
	for i := range s.messages {
		if s.messages[i].Kind == kind && !s.messages[i].Disabled {
			s.messages[i].Disabled = true
			ids = append(ids, s.messages[i].ID)
		}
	}
	return ids
}
