package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/harmos/intakebot/internal/flow"
	"github.com/harmos/intakebot/internal/models"
	"github.com/harmos/intakebot/internal/songs"
)

// Inbound event types accepted on the chat websocket.
const (
	eventLanguage       = "language"
	eventText           = "text"
	eventButton         = "button"
	eventTypingComplete = "typing_complete"
	eventSongSearch     = "song_search"
	eventSongSelect     = "song_select"
	eventSongRemove     = "song_remove"
	eventSongsSubmit    = "songs_submit"
	eventStageFile      = "stage_file"
	eventUnstageFile    = "unstage_file"
	eventFreeSubmit     = "free_submit"
)

// Outbound reply types on the chat websocket.
const (
	replySession  = "session"
	replyMessage  = "message"
	replyDisabled = "disabled"
	replyStaged   = "staged"
	replyUnstaged = "unstaged"
	replyResults  = "search_results"
	replyError    = "error"
)

// chatEvent is one inbound websocket frame from the presentation layer.
type chatEvent struct {
	Type      string                `json:"type"`
	Text      string                `json:"text,omitempty"`
	Value     string                `json:"value,omitempty"`
	Language  string                `json:"language,omitempty"`
	Term      string                `json:"term,omitempty"`
	Candidate *models.SongCandidate `json:"candidate,omitempty"`
	FreeText  string                `json:"free_text,omitempty"`
	Index     int                   `json:"index,omitempty"`
	Name      string                `json:"name,omitempty"`
	MIME      string                `json:"mime,omitempty"`
	Data      []byte                `json:"data,omitempty"`
	FileID    string                `json:"file_id,omitempty"`
}

// chatReply is one outbound websocket frame to the presentation layer.
type chatReply struct {
	Type      string                 `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Message   *models.ChatMessage    `json:"message,omitempty"`
	Disabled  []int64                `json:"disabled,omitempty"`
	File      *models.StagedFile     `json:"file,omitempty"`
	FileID    string                 `json:"file_id,omitempty"`
	Results   []models.SongCandidate `json:"results,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// chatHandler upgrades the connection and runs one conversation session over
// it. Events are processed one at a time in arrival order; appended messages
// and widget-disable notices stream back in log order.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Server.chatHandler: websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := flow.NewSession()
	slog.Info("Server.chatHandler: session opened", "session", sess.ID)

	// Single writer goroutine; gorilla connections do not support
	// concurrent writes.
	out := make(chan chatReply, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case reply := <-out:
				if err := conn.WriteJSON(reply); err != nil {
					slog.Debug("Server.chatHandler: write failed, closing", "session", sess.ID, "error", err)
					cancel()
					return
				}
			}
		}
	}()
	send := func(reply chatReply) {
		select {
		case out <- reply:
		case <-ctx.Done():
		}
	}

	send(chatReply{Type: replySession, SessionID: sess.ID})
	for _, msg := range sess.Messages() {
		m := msg
		send(chatReply{Type: replyMessage, Message: &m})
	}

	var live *songs.LiveSearcher
	if s.songsClient != nil {
		live = songs.NewLiveSearcher(s.songsClient)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			slog.Info("Server.chatHandler: session closed", "session", sess.ID)
			return
		}
		var event chatEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			send(chatReply{Type: replyError, Error: "invalid event payload"})
			continue
		}
		s.dispatchChatEvent(ctx, sess, event, live, send)
	}
}

// dispatchChatEvent routes one inbound event to the flow controller and
// streams the resulting turn back.
func (s *Server) dispatchChatEvent(ctx context.Context, sess *flow.Session, event chatEvent, live *songs.LiveSearcher, send func(chatReply)) {
	sendTurn := func(turn flow.Turn) {
		if len(turn.Disabled) > 0 {
			send(chatReply{Type: replyDisabled, Disabled: turn.Disabled})
		}
		for _, msg := range turn.Appended {
			m := msg
			send(chatReply{Type: replyMessage, Message: &m})
		}
	}

	switch event.Type {
	case eventLanguage:
		turn, err := s.controller.HandleLanguage(sess, models.Language(event.Language))
		if err != nil {
			sendEventError(send, err)
			return
		}
		sendTurn(turn)

	case eventText:
		turn, err := s.controller.HandleText(ctx, sess, event.Text)
		if err != nil {
			sendEventError(send, err)
			return
		}
		sendTurn(turn)

	case eventButton:
		turn, err := s.controller.HandleButton(ctx, sess, event.Value)
		if err != nil {
			sendEventError(send, err)
			return
		}
		sendTurn(turn)

	case eventTypingComplete:
		turn, err := s.controller.HandleTypingComplete(sess)
		if err != nil {
			sendEventError(send, err)
			return
		}
		sendTurn(turn)

	case eventSongSearch:
		if live == nil {
			send(chatReply{Type: replyResults, Results: []models.SongCandidate{}})
			return
		}
		live.Search(ctx, event.Term, func(results []models.SongCandidate) {
			if results == nil {
				results = []models.SongCandidate{}
			}
			send(chatReply{Type: replyResults, Results: results})
		})

	case eventSongSelect:
		choice := models.SongChoice{Candidate: event.Candidate, FreeText: event.FreeText}
		if err := s.controller.HandleSongSelect(sess, choice); err != nil {
			sendEventError(send, err)
		}

	case eventSongRemove:
		if err := s.controller.HandleSongRemove(sess, event.Index); err != nil {
			sendEventError(send, err)
		}

	case eventSongsSubmit:
		turn, err := s.controller.HandleSongsSubmit(ctx, sess)
		if err != nil {
			sendEventError(send, err)
			return
		}
		sendTurn(turn)

	case eventStageFile:
		staged, err := s.controller.StageFile(sess, event.Name, event.MIME, event.Data)
		if err != nil {
			sendEventError(send, err)
			return
		}
		send(chatReply{Type: replyStaged, File: &staged})

	case eventUnstageFile:
		if err := s.controller.UnstageFile(sess, event.FileID); err != nil {
			sendEventError(send, err)
			return
		}
		send(chatReply{Type: replyUnstaged, FileID: event.FileID})

	case eventFreeSubmit:
		turn, err := s.controller.HandleFreeSubmit(ctx, sess, event.Text)
		if err != nil {
			sendEventError(send, err)
			return
		}
		sendTurn(turn)

	default:
		send(chatReply{Type: replyError, Error: "unknown event type"})
	}
}

// sendEventError maps controller errors to user-safe reply strings. Flow
// contract errors are expected during normal widget use; anything else is
// reported generically.
func sendEventError(send func(chatReply), err error) {
	known := []error{
		models.ErrInvalidStep, models.ErrSessionCompleted, models.ErrAlreadySubmitted,
		models.ErrSongCount, models.ErrSongDuplicate, models.ErrSongLimitReached,
		models.ErrSongIndex, models.ErrEmptySubmission, models.ErrInvalidPosition,
		models.ErrLanguageLocked, models.ErrFileTooLarge, models.ErrStagedFileUnknown,
	}
	for _, k := range known {
		if errors.Is(err, k) {
			send(chatReply{Type: replyError, Error: k.Error()})
			return
		}
	}
	slog.Error("Server.dispatchChatEvent: unexpected flow error", "error", err)
	send(chatReply{Type: replyError, Error: "internal error"})
}
