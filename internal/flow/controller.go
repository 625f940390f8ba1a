package flow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harmos/intakebot/internal/i18n"
	"github.com/harmos/intakebot/internal/metrics"
	"github.com/harmos/intakebot/internal/models"
)

// VideoURL is the presentation video shown after the start keyword.
const VideoURL = "/sample-video.mp4"

// Submitter sends an assembled candidature to the mail-relay boundary.
// Network errors, relay-side parse errors and transport errors are all one
// opaque failure to the flow.
type Submitter interface {
	Submit(ctx context.Context, answers models.CandidateAnswers, files []models.StagedFile) (models.SubmitResult, error)
}

// Turn is the visible outcome of handling one user event: the messages
// appended to the log, in append order, plus the IDs of widgets disabled by
// the interaction.
type Turn struct {
	Appended []models.ChatMessage
	Disabled []int64
}

func (t *Turn) add(msg models.ChatMessage) {
	t.Appended = append(t.Appended, msg)
}

// Controller drives the conversation state machine. It validates user
// events against the current step, appends the resulting messages and
// advances the session. A single controller serves all sessions; all
// per-session state lives in the Session.
type Controller struct {
	submitter Submitter
	metrics   *metrics.Metrics
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics attaches Prometheus instrumentation to the controller.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// NewController creates a flow controller submitting through the given
// pipeline.
func NewController(submitter Submitter, opts ...Option) *Controller {
	c := &Controller{submitter: submitter}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Keyword gates for the two free-text transitions that match on content
// rather than validate it.
var (
	startKeywords = map[models.Language][]string{
		models.LanguageFR: {"commencer"},
		models.LanguageEN: {"start"},
	}
	watchedKeywords = map[models.Language][]string{
		models.LanguageFR: {"vu", "regardé", "fini"},
		models.LanguageEN: {"seen", "watched", "finished", "done"},
	}
)

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// HandleLanguage records the one-time language selection, disables the
// selector widget permanently and appends the welcome prompt.
func (c *Controller) HandleLanguage(sess *Session, lang models.Language) (Turn, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.languageChosen {
		return Turn{}, models.ErrLanguageLocked
	}
	if !models.IsValidLanguage(lang) {
		return Turn{}, fmt.Errorf("unsupported language %q", lang)
	}
	sess.language = lang
	sess.languageChosen = true

	var turn Turn
	turn.Disabled = sess.disableAll(models.MessageKindLanguageSelector)
	welcome := i18n.Get(i18n.KeyWelcome, lang, nil) + "\n\n" + i18n.Get(i18n.KeyStartPrompt, lang, nil)
	turn.add(sess.appendSystemText(welcome))
	slog.Info("Controller.HandleLanguage: language selected", "session", sess.ID, "language", lang)
	return turn, nil
}

// HandleText processes one line of free text typed by the candidate. The
// candidate echo is always appended; validation failures re-prompt and keep
// the current step.
func (c *Controller) HandleText(ctx context.Context, sess *Session, text string) (Turn, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step == models.StepCompleted {
		return Turn{}, models.ErrSessionCompleted
	}
	if !sess.languageChosen {
		// Everything is gated behind the language selector.
		slog.Debug("Controller.HandleText: text before language selection ignored", "session", sess.ID)
		return Turn{}, nil
	}

	sess.composing = true
	defer func() { sess.composing = false }()

	var turn Turn
	turn.add(sess.appendUserText(text))
	trimmed := strings.TrimSpace(text)
	lang := sess.language

	switch sess.step {
	case models.StepWelcome:
		if containsAny(trimmed, startKeywords[lang]) {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyVideoIntro, lang, nil)))
			turn.add(sess.append(models.ChatMessage{Kind: models.MessageKindVideo, Body: VideoURL, Author: models.AuthorSystem}))
			c.advance(sess, models.StepVideoShown)
		}
		// Anything else at the welcome step is silently ignored.

	case models.StepVideoShown:
		if containsAny(trimmed, watchedKeywords[lang]) {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyPositionTypePrompt, lang, nil)))
			turn.add(sess.append(models.ChatMessage{
				Kind:   models.MessageKindButtons,
				Author: models.AuthorSystem,
				Buttons: []models.Button{
					{Label: i18n.Get(i18n.KeyTechOption, lang, nil) + " 👨‍💻", Value: string(models.PositionTech)},
					{Label: i18n.Get(i18n.KeyDesignOption, lang, nil) + " 🎨", Value: string(models.PositionDesign)},
					{Label: i18n.Get(i18n.KeyCommunicationOption, lang, nil) + " 📢", Value: string(models.PositionCommunication)},
					{Label: i18n.Get(i18n.KeyBusinessOption, lang, nil) + " 💼", Value: string(models.PositionBusiness)},
					{Label: i18n.Get(i18n.KeyOtherOption, lang, nil) + " 🌟", Value: string(models.PositionOther)},
				},
			}))
			c.advance(sess, models.StepPositionType)
		} else {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyVideoWatchPrompt, lang, nil)))
		}

	case models.StepName:
		if len([]rune(trimmed)) < models.MinAnswerLength {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidNamePrompt, lang, nil)))
		} else {
			sess.answers.Name = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyEmailPrompt, lang, map[string]string{"name": trimmed})))
			c.advance(sess, models.StepEmail)
		}

	case models.StepEmail:
		if !emailPattern.MatchString(trimmed) {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidEmailPrompt, lang, nil)))
		} else {
			sess.answers.Email = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyAgePrompt, lang, nil)))
			c.advance(sess, models.StepAge)
		}

	case models.StepAge:
		age, err := strconv.Atoi(trimmed)
		if err != nil || age < models.MinAge || age > models.MaxAge {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidAgePrompt, lang, nil)))
		} else {
			sess.answers.Age = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeySchoolPrompt, lang, nil)))
			c.advance(sess, models.StepSchool)
		}

	case models.StepSchool:
		if len([]rune(trimmed)) < models.MinAnswerLength {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidSchoolPrompt, lang, nil)))
		} else {
			sess.answers.School = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyStudyYearPrompt, lang, nil)))
			c.advance(sess, models.StepStudyYear)
		}

	case models.StepStudyYear:
		if len([]rune(trimmed)) < models.MinAnswerLength {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidStudyYearPrompt, lang, nil)))
		} else {
			sess.answers.StudyYear = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInternshipDurationPrompt, lang, nil)))
			c.advance(sess, models.StepInternshipDuration)
		}

	case models.StepInternshipDuration:
		if len([]rune(trimmed)) < models.MinAnswerLength {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidInternshipDurationPrompt, lang, nil)))
		} else {
			sess.answers.InternshipDuration = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyMotivationPrompt, lang, nil)))
			c.advance(sess, models.StepMotivation)
		}

	case models.StepMotivation:
		if len([]rune(trimmed)) < models.MinAnswerLength {
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyInvalidMotivationPrompt, lang, nil)))
		} else {
			sess.answers.Motivation = trimmed
			turn.add(sess.appendSystemText(i18n.Get(i18n.KeyMusicIntro, lang, nil)))
			turn.add(sess.append(models.ChatMessage{
				Kind:          models.MessageKindMusicSearch,
				Body:          i18n.Get(i18n.KeyMusicPrompt, lang, nil),
				Author:        models.AuthorSystem,
				Suggestions:   DefaultSuggestions(),
				MaxSelections: models.MaxSongSelections,
			}))
			sess.picker = NewSongPicker(models.MaxSongSelections)
			c.advance(sess, models.StepMusic)
		}

	default:
		// Button-only and widget-owned steps accept no free text; the echo
		// stays in the log but nothing advances.
		slog.Debug("Controller.HandleText: free text ignored at step", "session", sess.ID, "step", sess.step)
	}

	return turn, nil
}

// HandleButton processes a position-type button press: records the answer,
// echoes the pressed label and starts the scripted typing-effect job
// description. The advance to the name step is completion-gated on
// HandleTypingComplete.
func (c *Controller) HandleButton(ctx context.Context, sess *Session, value string) (Turn, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != models.StepPositionType || sess.awaitingTyping {
		return Turn{}, models.ErrInvalidStep
	}
	position := models.PositionType(value)
	if !models.IsValidPositionType(position) {
		return Turn{}, models.ErrInvalidPosition
	}

	sess.composing = true
	defer func() { sess.composing = false }()

	var turn Turn
	if id, ok := sess.disableLatest(models.MessageKindButtons); ok {
		turn.Disabled = append(turn.Disabled, id)
	}
	label := c.positionLabel(sess, position)
	turn.add(sess.appendUserText(label))

	sess.answers.PositionType = position
	turn.add(sess.append(models.ChatMessage{
		Kind:   models.MessageKindTyping,
		Body:   JobDescription(position, sess.language),
		Author: models.AuthorSystem,
	}))
	sess.awaitingTyping = true
	slog.Info("Controller.HandleButton: position selected", "session", sess.ID, "position", position)
	return turn, nil
}

// positionLabel finds the label the candidate pressed on the latest buttons
// message, falling back to the raw value. Caller holds the session lock.
func (c *Controller) positionLabel(sess *Session, position models.PositionType) string {
	for i := len(sess.messages) - 1; i >= 0; i-- {
		if sess.messages[i].Kind != models.MessageKindButtons {
			continue
		}
		for _, b := range sess.messages[i].Buttons {
			if b.Value == string(position) {
				return b.Label
			}
		}
	}
	return string(position)
}

// HandleTypingComplete is the one-shot completion signal from the
// typing-effect widget. It fires the gated transition into the name step;
// a signal with no pending typing effect is ignored.
func (c *Controller) HandleTypingComplete(sess *Session) (Turn, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.awaitingTyping {
		slog.Debug("Controller.HandleTypingComplete: no pending typing effect", "session", sess.ID)
		return Turn{}, nil
	}
	sess.awaitingTyping = false

	sess.composing = true
	defer func() { sess.composing = false }()

	var turn Turn
	turn.add(sess.appendSystemText(i18n.Get(i18n.KeyNamePrompt, sess.language, nil)))
	c.advance(sess, models.StepName)
	return turn, nil
}

// HandleSongSelect adds one song to the picker at the music step.
func (c *Controller) HandleSongSelect(sess *Session, choice models.SongChoice) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != models.StepMusic || sess.picker == nil {
		return models.ErrInvalidStep
	}
	return sess.picker.Select(choice)
}

// HandleSongRemove removes the picker selection at the given index.
func (c *Controller) HandleSongRemove(sess *Session, index int) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != models.StepMusic || sess.picker == nil {
		return models.ErrInvalidStep
	}
	return sess.picker.Remove(index)
}

// HandleSongsSubmit accepts the picker selection. Exactly three songs must
// be held; the music widget is disabled and the flow moves to the
// free-content step.
func (c *Controller) HandleSongsSubmit(ctx context.Context, sess *Session) (Turn, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != models.StepMusic || sess.picker == nil {
		return Turn{}, models.ErrInvalidStep
	}
	if !sess.picker.CanSubmit() {
		return Turn{}, models.ErrSongCount
	}

	sess.composing = true
	defer func() { sess.composing = false }()

	var turn Turn
	turn.Disabled = sess.disableAll(models.MessageKindMusicSearch)

	choices := sess.picker.Selections()
	var lines []string
	for i, choice := range choices {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, choice.String()))
	}
	turn.add(sess.appendUserText("My 3 favorite songs:\n" + strings.Join(lines, "\n")))

	sess.answers.Song1 = choices[0].String()
	sess.answers.Song2 = choices[1].String()
	sess.answers.Song3 = choices[2].String()

	lang := sess.language
	turn.add(sess.appendSystemText(i18n.Get(i18n.KeyFreeContentPrompt, lang, nil)))
	turn.add(sess.append(models.ChatMessage{Kind: models.MessageKindFreeContent, Author: models.AuthorSystem}))
	sess.collector = NewFileCollector()
	c.advance(sess, models.StepFiles)
	return turn, nil
}

// StageFile stages a file in the free-content collector.
func (c *Controller) StageFile(sess *Session, name, mime string, content []byte) (models.StagedFile, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != models.StepFiles || sess.collector == nil {
		return models.StagedFile{}, models.ErrInvalidStep
	}
	return sess.collector.Stage(name, mime, content)
}

// UnstageFile removes a staged file by ID.
func (c *Controller) UnstageFile(sess *Session, id string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != models.StepFiles || sess.collector == nil {
		return models.ErrInvalidStep
	}
	return sess.collector.Unstage(id)
}

// HandleFreeSubmit accepts the free-content step: portfolio text plus the
// staged files. It invokes the submission pipeline exactly once and enters
// the completed step regardless of the relay outcome; only the final
// message differs. A second submit attempt is rejected.
func (c *Controller) HandleFreeSubmit(ctx context.Context, sess *Session, text string) (Turn, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.submitted {
		return Turn{}, models.ErrAlreadySubmitted
	}
	if sess.step != models.StepFiles || sess.collector == nil {
		return Turn{}, models.ErrInvalidStep
	}

	trimmed := strings.TrimSpace(text)
	files := sess.collector.Files()
	if trimmed == "" && len(files) == 0 {
		return Turn{}, models.ErrEmptySubmission
	}
	// Guarded before the network call: the pipeline must not be invocable
	// twice from a single submit action.
	sess.submitted = true

	sess.composing = true
	defer func() { sess.composing = false }()

	var turn Turn
	turn.Disabled = sess.disableAll(models.MessageKindFreeContent)

	echo := trimmed
	if len(files) > 0 {
		var names []string
		for _, f := range files {
			names = append(names, f.Name)
		}
		if echo != "" {
			echo += "\n\n"
		}
		echo += "Fichiers joints : " + strings.Join(names, ", ")
	}
	if echo == "" {
		echo = "Contenu partagé"
	}
	turn.add(sess.appendUserText(echo))

	sess.answers.Portfolio = trimmed
	lang := sess.language
	turn.add(sess.appendSystemText(i18n.Get(i18n.KeySubmitting, lang, nil)))

	started := time.Now()
	result, err := c.submitter.Submit(ctx, sess.answers, files)
	elapsed := time.Since(started).Seconds()
	if err != nil || !result.Success {
		if err != nil {
			slog.Error("Controller.HandleFreeSubmit: submission failed", "session", sess.ID, "error", err)
		} else {
			slog.Error("Controller.HandleFreeSubmit: relay rejected submission", "session", sess.ID, "message", result.Message)
		}
		c.metrics.RecordSubmission(metrics.OutcomeFailure, elapsed)
		turn.add(sess.appendSystemText(i18n.Get(i18n.KeyCandidatureError, lang, nil)))
	} else {
		slog.Info("Controller.HandleFreeSubmit: candidature submitted", "session", sess.ID)
		c.metrics.RecordSubmission(metrics.OutcomeSuccess, elapsed)
		turn.add(sess.appendSystemText(i18n.Get(i18n.KeyCandidatureSuccess, lang, nil)))
	}
	c.advance(sess, models.StepCompleted)
	return turn, nil
}

// advance moves the session to the next step. Caller holds the session lock.
func (c *Controller) advance(sess *Session, step models.FlowStep) {
	slog.Debug("Controller.advance: step transition", "session", sess.ID, "from", sess.step, "to", step)
	sess.step = step
	c.metrics.RecordTransition(string(step))
}
