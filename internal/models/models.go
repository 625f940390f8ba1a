// Package models defines the core data structures for the intake chat service.
//
// It includes the chat message union, candidate answer accumulator, staged
// file references and the API response envelope shared across modules.
package models

import (
	"errors"
	"time"
)

// MessageKind discriminates the payload of a ChatMessage.
type MessageKind string

const (
	// MessageKindText carries a plain text body.
	MessageKindText MessageKind = "text"
	// MessageKindVideo carries a video URL in the body.
	MessageKindVideo MessageKind = "video"
	// MessageKindTyping carries text rendered with a character-by-character effect.
	MessageKindTyping MessageKind = "typing"
	// MessageKindButtons carries an ordered set of selectable buttons.
	MessageKindButtons MessageKind = "buttons"
	// MessageKindMusicSearch carries song suggestions plus selection limits.
	MessageKindMusicSearch MessageKind = "music_search"
	// MessageKindFreeContent marks the free-form portfolio collector widget.
	MessageKindFreeContent MessageKind = "free_content"
	// MessageKindLanguageSelector marks the one-shot language picker widget.
	MessageKindLanguageSelector MessageKind = "language_selector"
)

// IsValidMessageKind checks if the given message kind is supported.
func IsValidMessageKind(k MessageKind) bool {
	switch k {
	case MessageKindText, MessageKindVideo, MessageKindTyping, MessageKindButtons,
		MessageKindMusicSearch, MessageKindFreeContent, MessageKindLanguageSelector:
		return true
	default:
		return false
	}
}

// Author identifies the side of the conversation a message belongs to.
type Author string

const (
	// AuthorCandidate marks messages typed or triggered by the candidate.
	AuthorCandidate Author = "candidate"
	// AuthorSystem marks messages composed by the scripted flow.
	AuthorSystem Author = "system"
)

// Button represents a selectable option inside a buttons message.
type Button struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SongCandidate is one structured search result from the song catalog.
type SongCandidate struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
}

// SongChoice is a single selected song: either a structured catalog entry
// or a free-text description typed by the candidate.
type SongChoice struct {
	Candidate *SongCandidate `json:"candidate,omitempty"`
	FreeText  string         `json:"free_text,omitempty"`
}

// String renders the choice the way it is stored in the answers ("Title by
// Artist" for structured entries, the raw text otherwise).
func (c SongChoice) String() string {
	if c.Candidate != nil {
		return c.Candidate.Title + " by " + c.Candidate.Artist
	}
	return c.FreeText
}

// Equal reports whether two choices denote the same song. Structured entries
// compare by title+artist, free-text entries by exact text.
func (c SongChoice) Equal(o SongChoice) bool {
	if c.Candidate != nil && o.Candidate != nil {
		return c.Candidate.Title == o.Candidate.Title && c.Candidate.Artist == o.Candidate.Artist
	}
	if c.Candidate == nil && o.Candidate == nil {
		return c.FreeText == o.FreeText
	}
	return false
}

// ChatMessage is one entry in the append-only message log.
//
// Messages are immutable once appended except for the Disabled flag, which
// flips false to true exactly once after the widget has been acted upon.
type ChatMessage struct {
	ID            int64           `json:"id"`
	Kind          MessageKind     `json:"kind"`
	Body          string          `json:"body,omitempty"`
	Author        Author          `json:"author"`
	CreatedAt     time.Time       `json:"created_at"`
	Disabled      bool            `json:"disabled,omitempty"`
	Buttons       []Button        `json:"buttons,omitempty"`
	Suggestions   []SongCandidate `json:"suggestions,omitempty"`
	MaxSelections int             `json:"max_selections,omitempty"`
}

// StagedFile is a candidate-attached file held by the free-content collector
// until submission. It is passed by reference into the outbound request and
// never mutated.
type StagedFile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	MIME    string `json:"mime"`
	Content []byte `json:"-"`
}

// Validation constants shared between the flow and the relay boundary.
const (
	// MaxFileBytes caps the size of a single attached file.
	MaxFileBytes = 10 << 20
	// MaxFieldsBytes caps the combined size of all text fields.
	MaxFieldsBytes = 2 << 20
	// MaxFieldCount caps the number of text fields in one submission.
	MaxFieldCount = 20
	// MaxSongSelections is the number of songs a candidate must pick.
	MaxSongSelections = 3
	// MinAnswerLength is the shortest accepted free-text answer after trimming.
	MinAnswerLength = 2
	// MinAge is the youngest accepted candidate age, inclusive.
	MinAge = 16
	// MaxAge is the oldest accepted candidate age, inclusive.
	MaxAge = 100
)

// Error variables for better error handling and testability.
var (
	ErrInvalidStep       = errors.New("event does not match the current flow step")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrAlreadySubmitted  = errors.New("submission already performed for this session")
	ErrSongCount         = errors.New("exactly three songs must be selected")
	ErrSongDuplicate     = errors.New("song already selected")
	ErrSongLimitReached  = errors.New("selection limit reached")
	ErrSongIndex         = errors.New("song selection index out of range")
	ErrEmptySubmission   = errors.New("submission needs text content or at least one file")
	ErrInvalidPosition   = errors.New("invalid position type")
	ErrLanguageLocked    = errors.New("language already selected for this session")
	ErrFileTooLarge      = errors.New("file exceeds per-file size limit")
	ErrFieldsTooLarge    = errors.New("text fields exceed combined size limit")
	ErrTooManyFields     = errors.New("too many form fields")
	ErrStagedFileUnknown = errors.New("staged file not found")
)

// SubmitResult is the mail-relay boundary acknowledgment.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
