package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harmos/intakebot/internal/i18n"
	"github.com/harmos/intakebot/internal/models"
)

// fakeSubmitter records submissions instead of posting to a relay.
type fakeSubmitter struct {
	calls   int
	answers models.CandidateAnswers
	files   []models.StagedFile
	result  models.SubmitResult
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, answers models.CandidateAnswers, files []models.StagedFile) (models.SubmitResult, error) {
	f.calls++
	f.answers = answers
	f.files = files
	return f.result, f.err
}

func newTestController() (*Controller, *fakeSubmitter) {
	sub := &fakeSubmitter{result: models.SubmitResult{Success: true, Message: "ok"}}
	return NewController(sub), sub
}

func mustText(t *testing.T, c *Controller, sess *Session, text string) Turn {
	t.Helper()
	turn, err := c.HandleText(context.Background(), sess, text)
	if err != nil {
		t.Fatalf("HandleText(%q) error: %v", text, err)
	}
	return turn
}

// lastSystemBody returns the body of the last system-authored message in the
// turn, or "" when the turn appended none.
func lastSystemBody(turn Turn) string {
	for i := len(turn.Appended) - 1; i >= 0; i-- {
		if turn.Appended[i].Author == models.AuthorSystem {
			return turn.Appended[i].Body
		}
	}
	return ""
}

// driveToName walks a fresh French session up to the name step.
func driveToName(t *testing.T, c *Controller) *Session {
	t.Helper()
	sess := NewSession()
	if _, err := c.HandleLanguage(sess, models.LanguageFR); err != nil {
		t.Fatalf("HandleLanguage error: %v", err)
	}
	mustText(t, c, sess, "Commencer")
	mustText(t, c, sess, "vu")
	if _, err := c.HandleButton(context.Background(), sess, string(models.PositionTech)); err != nil {
		t.Fatalf("HandleButton error: %v", err)
	}
	if _, err := c.HandleTypingComplete(sess); err != nil {
		t.Fatalf("HandleTypingComplete error: %v", err)
	}
	if sess.Step() != models.StepName {
		t.Fatalf("expected step %s, got %s", models.StepName, sess.Step())
	}
	return sess
}

// driveToMusic continues from the name step through every question.
func driveToMusic(t *testing.T, c *Controller) *Session {
	t.Helper()
	sess := driveToName(t, c)
	mustText(t, c, sess, "Alice")
	mustText(t, c, sess, "alice@example.com")
	mustText(t, c, sess, "22")
	mustText(t, c, sess, "EPITA")
	mustText(t, c, sess, "3rd year")
	mustText(t, c, sess, "6 months")
	mustText(t, c, sess, "I want to build things")
	if sess.Step() != models.StepMusic {
		t.Fatalf("expected step %s, got %s", models.StepMusic, sess.Step())
	}
	return sess
}

// driveToFiles continues from the music step with three picked songs.
func driveToFiles(t *testing.T, c *Controller) *Session {
	t.Helper()
	sess := driveToMusic(t, c)
	for _, title := range []string{"One", "Two", "Three"} {
		choice := models.SongChoice{Candidate: &models.SongCandidate{Title: title, Artist: "Band"}}
		if err := c.HandleSongSelect(sess, choice); err != nil {
			t.Fatalf("HandleSongSelect(%q) error: %v", title, err)
		}
	}
	if _, err := c.HandleSongsSubmit(context.Background(), sess); err != nil {
		t.Fatalf("HandleSongsSubmit error: %v", err)
	}
	if sess.Step() != models.StepFiles {
		t.Fatalf("expected step %s, got %s", models.StepFiles, sess.Step())
	}
	return sess
}

func TestLanguageSelectionIsOneShot(t *testing.T) {
	c, _ := newTestController()
	sess := NewSession()

	turn, err := c.HandleLanguage(sess, models.LanguageEN)
	if err != nil {
		t.Fatalf("HandleLanguage error: %v", err)
	}
	if len(turn.Disabled) != 1 {
		t.Errorf("expected the language selector to be disabled, got %v", turn.Disabled)
	}
	welcome := i18n.Get(i18n.KeyWelcome, models.LanguageEN, nil)
	if !strings.HasPrefix(lastSystemBody(turn), welcome) {
		t.Errorf("expected welcome prompt, got %q", lastSystemBody(turn))
	}

	if _, err := c.HandleLanguage(sess, models.LanguageFR); !errors.Is(err, models.ErrLanguageLocked) {
		t.Errorf("expected ErrLanguageLocked on second selection, got %v", err)
	}
	if sess.Language() != models.LanguageEN {
		t.Errorf("language changed after locked selection: %s", sess.Language())
	}
}

func TestTextBeforeLanguageIsIgnored(t *testing.T) {
	c, _ := newTestController()
	sess := NewSession()

	turn := mustText(t, c, sess, "commencer")
	if len(turn.Appended) != 0 {
		t.Errorf("expected no messages before language selection, got %d", len(turn.Appended))
	}
	if sess.Step() != models.StepWelcome {
		t.Errorf("step advanced before language selection: %s", sess.Step())
	}
}

func TestStartKeywordGate(t *testing.T) {
	c, _ := newTestController()
	sess := NewSession()
	if _, err := c.HandleLanguage(sess, models.LanguageFR); err != nil {
		t.Fatalf("HandleLanguage error: %v", err)
	}

	// Unrelated text is echoed but does not advance.
	mustText(t, c, sess, "bonjour")
	if sess.Step() != models.StepWelcome {
		t.Errorf("unrelated text advanced the welcome step: %s", sess.Step())
	}

	// The keyword may appear anywhere in the message, any case.
	turn := mustText(t, c, sess, "Je veux COMMENCER maintenant")
	if sess.Step() != models.StepVideoShown {
		t.Fatalf("expected step %s, got %s", models.StepVideoShown, sess.Step())
	}
	var video bool
	for _, msg := range turn.Appended {
		if msg.Kind == models.MessageKindVideo && msg.Body == VideoURL {
			video = true
		}
	}
	if !video {
		t.Error("expected a video message after the start keyword")
	}
}

func TestVideoWatchedGateReprompts(t *testing.T) {
	c, _ := newTestController()
	sess := NewSession()
	if _, err := c.HandleLanguage(sess, models.LanguageEN); err != nil {
		t.Fatalf("HandleLanguage error: %v", err)
	}
	mustText(t, c, sess, "start")

	turn := mustText(t, c, sess, "not yet")
	if sess.Step() != models.StepVideoShown {
		t.Errorf("expected to stay at %s, got %s", models.StepVideoShown, sess.Step())
	}
	if lastSystemBody(turn) != i18n.Get(i18n.KeyVideoWatchPrompt, models.LanguageEN, nil) {
		t.Errorf("expected watch reprompt, got %q", lastSystemBody(turn))
	}

	turn = mustText(t, c, sess, "I have watched it")
	if sess.Step() != models.StepPositionType {
		t.Fatalf("expected step %s, got %s", models.StepPositionType, sess.Step())
	}
	var buttons *models.ChatMessage
	for i := range turn.Appended {
		if turn.Appended[i].Kind == models.MessageKindButtons {
			buttons = &turn.Appended[i]
		}
	}
	if buttons == nil {
		t.Fatal("expected a buttons message after the watched keyword")
	}
	if len(buttons.Buttons) != 5 {
		t.Errorf("expected 5 position buttons, got %d", len(buttons.Buttons))
	}
}

func TestButtonStepRejectsInvalidPosition(t *testing.T) {
	c, _ := newTestController()
	sess := NewSession()
	if _, err := c.HandleLanguage(sess, models.LanguageFR); err != nil {
		t.Fatalf("HandleLanguage error: %v", err)
	}
	mustText(t, c, sess, "commencer")
	mustText(t, c, sess, "vu")

	if _, err := c.HandleButton(context.Background(), sess, "pilot"); !errors.Is(err, models.ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if sess.Step() != models.StepPositionType {
		t.Errorf("invalid button advanced the step: %s", sess.Step())
	}
}

func TestTypingCompletionGatesNameStep(t *testing.T) {
	c, _ := newTestController()
	sess := NewSession()
	if _, err := c.HandleLanguage(sess, models.LanguageFR); err != nil {
		t.Fatalf("HandleLanguage error: %v", err)
	}
	mustText(t, c, sess, "commencer")
	mustText(t, c, sess, "vu")

	// Completion signal with no pending effect is a no-op.
	turn, err := c.HandleTypingComplete(sess)
	if err != nil {
		t.Fatalf("HandleTypingComplete error: %v", err)
	}
	if len(turn.Appended) != 0 {
		t.Errorf("stray completion signal appended %d messages", len(turn.Appended))
	}

	if _, err := c.HandleButton(context.Background(), sess, string(models.PositionDesign)); err != nil {
		t.Fatalf("HandleButton error: %v", err)
	}
	if sess.Step() != models.StepPositionType {
		t.Errorf("step advanced before the typing effect completed: %s", sess.Step())
	}

	// A second press while the effect runs is rejected.
	if _, err := c.HandleButton(context.Background(), sess, string(models.PositionTech)); !errors.Is(err, models.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep during typing effect, got %v", err)
	}

	turn, err = c.HandleTypingComplete(sess)
	if err != nil {
		t.Fatalf("HandleTypingComplete error: %v", err)
	}
	if sess.Step() != models.StepName {
		t.Fatalf("expected step %s, got %s", models.StepName, sess.Step())
	}
	if lastSystemBody(turn) != i18n.Get(i18n.KeyNamePrompt, models.LanguageFR, nil) {
		t.Errorf("expected name prompt after typing completion, got %q", lastSystemBody(turn))
	}

	// The signal is one-shot.
	turn, err = c.HandleTypingComplete(sess)
	if err != nil {
		t.Fatalf("HandleTypingComplete error: %v", err)
	}
	if len(turn.Appended) != 0 {
		t.Errorf("second completion signal appended %d messages", len(turn.Appended))
	}
}

func TestAnswerValidationKeepsStep(t *testing.T) {
	cases := []struct {
		name    string
		inputs  []string // rejected attempts, then one accepted value
		prompts i18n.Key  // reprompt expected for rejected attempts
		step    models.FlowStep
	}{
		{"name", []string{"A", "Bo"}, i18n.KeyInvalidNamePrompt, models.StepName},
		{"email", []string{"not-an-email", "a@b", "a b@c.d", "a@b.c"}, i18n.KeyInvalidEmailPrompt, models.StepEmail},
		{"age", []string{"15", "101", "twenty", "16"}, i18n.KeyInvalidAgePrompt, models.StepAge},
		{"school", []string{"X", "EPITA"}, i18n.KeyInvalidSchoolPrompt, models.StepSchool},
	}

	c, _ := newTestController()
	sess := driveToName(t, c)

	for _, tc := range cases {
		if sess.Step() != tc.step {
			t.Fatalf("%s: expected step %s, got %s", tc.name, tc.step, sess.Step())
		}
		rejected, accepted := tc.inputs[:len(tc.inputs)-1], tc.inputs[len(tc.inputs)-1]
		for _, input := range rejected {
			turn := mustText(t, c, sess, input)
			if sess.Step() != tc.step {
				t.Fatalf("%s: rejected input %q advanced to %s", tc.name, input, sess.Step())
			}
			want := i18n.Get(tc.prompts, models.LanguageFR, nil)
			if lastSystemBody(turn) != want {
				t.Errorf("%s: input %q: expected reprompt %q, got %q", tc.name, input, want, lastSystemBody(turn))
			}
		}
		mustText(t, c, sess, accepted)
		if sess.Step() == tc.step {
			t.Fatalf("%s: accepted input %q did not advance", tc.name, accepted)
		}
	}
}

func TestAgeBoundsInclusive(t *testing.T) {
	for _, age := range []string{"16", "100"} {
		c, _ := newTestController()
		sess := driveToName(t, c)
		mustText(t, c, sess, "Alice")
		mustText(t, c, sess, "alice@example.com")
		mustText(t, c, sess, age)
		if sess.Step() != models.StepSchool {
			t.Errorf("age %s: expected step %s, got %s", age, models.StepSchool, sess.Step())
		}
	}
}

func TestEmailPromptIncludesName(t *testing.T) {
	c, _ := newTestController()
	sess := driveToName(t, c)
	turn := mustText(t, c, sess, "Alice")
	if !strings.Contains(lastSystemBody(turn), "Alice") {
		t.Errorf("expected email prompt to address the candidate, got %q", lastSystemBody(turn))
	}
}

func TestSongPickerLifecycle(t *testing.T) {
	c, _ := newTestController()
	sess := driveToMusic(t, c)

	song := func(title string) models.SongChoice {
		return models.SongChoice{Candidate: &models.SongCandidate{Title: title, Artist: "Band"}}
	}

	// Submitting with fewer than three songs is rejected.
	if _, err := c.HandleSongsSubmit(context.Background(), sess); !errors.Is(err, models.ErrSongCount) {
		t.Errorf("expected ErrSongCount with empty picker, got %v", err)
	}

	if err := c.HandleSongSelect(sess, song("One")); err != nil {
		t.Fatalf("HandleSongSelect error: %v", err)
	}
	if err := c.HandleSongSelect(sess, song("One")); !errors.Is(err, models.ErrSongDuplicate) {
		t.Errorf("expected ErrSongDuplicate, got %v", err)
	}
	if err := c.HandleSongSelect(sess, song("Two")); err != nil {
		t.Fatalf("HandleSongSelect error: %v", err)
	}
	if _, err := c.HandleSongsSubmit(context.Background(), sess); !errors.Is(err, models.ErrSongCount) {
		t.Errorf("expected ErrSongCount with two songs, got %v", err)
	}

	// Remove and re-add still counts correctly.
	if err := c.HandleSongRemove(sess, 1); err != nil {
		t.Fatalf("HandleSongRemove error: %v", err)
	}
	if err := c.HandleSongRemove(sess, 5); !errors.Is(err, models.ErrSongIndex) {
		t.Errorf("expected ErrSongIndex, got %v", err)
	}
	if err := c.HandleSongSelect(sess, song("Two")); err != nil {
		t.Fatalf("HandleSongSelect error: %v", err)
	}
	if err := c.HandleSongSelect(sess, song("Three")); err != nil {
		t.Fatalf("HandleSongSelect error: %v", err)
	}
	if err := c.HandleSongSelect(sess, song("Four")); !errors.Is(err, models.ErrSongLimitReached) {
		t.Errorf("expected ErrSongLimitReached on fourth song, got %v", err)
	}

	turn, err := c.HandleSongsSubmit(context.Background(), sess)
	if err != nil {
		t.Fatalf("HandleSongsSubmit error: %v", err)
	}
	if sess.Step() != models.StepFiles {
		t.Fatalf("expected step %s, got %s", models.StepFiles, sess.Step())
	}
	answers := sess.Answers()
	if answers.Song1 != "One by Band" || answers.Song2 != "Two by Band" || answers.Song3 != "Three by Band" {
		t.Errorf("unexpected recorded songs: %q %q %q", answers.Song1, answers.Song2, answers.Song3)
	}
	if len(turn.Disabled) == 0 {
		t.Error("expected the music widget to be disabled on submit")
	}
}

func TestFreeSubmitRequiresContent(t *testing.T) {
	c, sub := newTestController()
	sess := driveToFiles(t, c)

	if _, err := c.HandleFreeSubmit(context.Background(), sess, "   "); !errors.Is(err, models.ErrEmptySubmission) {
		t.Errorf("expected ErrEmptySubmission, got %v", err)
	}
	if sub.calls != 0 {
		t.Errorf("empty submission reached the pipeline %d times", sub.calls)
	}
	if sess.Step() != models.StepFiles {
		t.Errorf("empty submission advanced the step: %s", sess.Step())
	}
}

func TestFreeSubmitFilesOnly(t *testing.T) {
	c, sub := newTestController()
	sess := driveToFiles(t, c)

	if _, err := c.StageFile(sess, "cv.pdf", "application/pdf", []byte("pdf-bytes")); err != nil {
		t.Fatalf("StageFile error: %v", err)
	}
	turn, err := c.HandleFreeSubmit(context.Background(), sess, "")
	if err != nil {
		t.Fatalf("HandleFreeSubmit error: %v", err)
	}
	if sub.calls != 1 {
		t.Fatalf("expected one pipeline call, got %d", sub.calls)
	}
	if len(sub.files) != 1 || sub.files[0].Name != "cv.pdf" {
		t.Errorf("unexpected submitted files: %+v", sub.files)
	}
	if lastSystemBody(turn) != i18n.Get(i18n.KeyCandidatureSuccess, models.LanguageFR, nil) {
		t.Errorf("expected success message, got %q", lastSystemBody(turn))
	}
}

func TestFreeSubmitHappyPathEndToEnd(t *testing.T) {
	c, sub := newTestController()
	sess := driveToFiles(t, c)

	turn, err := c.HandleFreeSubmit(context.Background(), sess, "  https://portfolio.example  ")
	if err != nil {
		t.Fatalf("HandleFreeSubmit error: %v", err)
	}
	if sess.Step() != models.StepCompleted {
		t.Fatalf("expected step %s, got %s", models.StepCompleted, sess.Step())
	}
	if sub.calls != 1 {
		t.Fatalf("expected one pipeline call, got %d", sub.calls)
	}

	answers := sub.answers
	if answers.Name != "Alice" || answers.Email != "alice@example.com" || answers.Age != "22" {
		t.Errorf("unexpected identity answers: %+v", answers)
	}
	if answers.PositionType != models.PositionTech {
		t.Errorf("expected position tech, got %s", answers.PositionType)
	}
	if answers.Portfolio != "https://portfolio.example" {
		t.Errorf("expected trimmed portfolio text, got %q", answers.Portfolio)
	}
	if answers.Song1 == "" || answers.Song2 == "" || answers.Song3 == "" {
		t.Errorf("expected three recorded songs, got %+v", answers)
	}
	if lastSystemBody(turn) != i18n.Get(i18n.KeyCandidatureSuccess, models.LanguageFR, nil) {
		t.Errorf("expected success message, got %q", lastSystemBody(turn))
	}

	// The conversation is over.
	if _, err := c.HandleText(context.Background(), sess, "hello again"); !errors.Is(err, models.ErrSessionCompleted) {
		t.Errorf("expected ErrSessionCompleted after completion, got %v", err)
	}
}

func TestFreeSubmitInvokesPipelineExactlyOnce(t *testing.T) {
	c, sub := newTestController()
	sess := driveToFiles(t, c)

	if _, err := c.HandleFreeSubmit(context.Background(), sess, "first"); err != nil {
		t.Fatalf("HandleFreeSubmit error: %v", err)
	}
	if _, err := c.HandleFreeSubmit(context.Background(), sess, "second"); !errors.Is(err, models.ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted, got %v", err)
	}
	if sub.calls != 1 {
		t.Errorf("pipeline invoked %d times, want 1", sub.calls)
	}
}

func TestFreeSubmitFailureStillCompletes(t *testing.T) {
	c, sub := newTestController()
	sub.err = errors.New("relay unreachable")
	sess := driveToFiles(t, c)

	turn, err := c.HandleFreeSubmit(context.Background(), sess, "my portfolio")
	if err != nil {
		t.Fatalf("HandleFreeSubmit returned error on pipeline failure: %v", err)
	}
	if sess.Step() != models.StepCompleted {
		t.Errorf("expected step %s after failure, got %s", models.StepCompleted, sess.Step())
	}
	if lastSystemBody(turn) != i18n.Get(i18n.KeyCandidatureError, models.LanguageFR, nil) {
		t.Errorf("expected failure message, got %q", lastSystemBody(turn))
	}
}

func TestRelayRejectionReportsFailure(t *testing.T) {
	c, sub := newTestController()
	sub.result = models.SubmitResult{Success: false, Message: "rejected"}
	sess := driveToFiles(t, c)

	turn, err := c.HandleFreeSubmit(context.Background(), sess, "my portfolio")
	if err != nil {
		t.Fatalf("HandleFreeSubmit error: %v", err)
	}
	if lastSystemBody(turn) != i18n.Get(i18n.KeyCandidatureError, models.LanguageFR, nil) {
		t.Errorf("expected failure message on relay rejection, got %q", lastSystemBody(turn))
	}
}

func TestStageFileRejectsOversize(t *testing.T) {
	c, _ := newTestController()
	sess := driveToFiles(t, c)

	big := make([]byte, models.MaxFileBytes+1)
	if _, err := c.StageFile(sess, "huge.bin", "application/octet-stream", big); !errors.Is(err, models.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}

	staged, err := c.StageFile(sess, "ok.txt", "text/plain", []byte("fine"))
	if err != nil {
		t.Fatalf("StageFile error: %v", err)
	}
	if err := c.UnstageFile(sess, staged.ID); err != nil {
		t.Fatalf("UnstageFile error: %v", err)
	}
	if err := c.UnstageFile(sess, staged.ID); !errors.Is(err, models.ErrStagedFileUnknown) {
		t.Errorf("expected ErrStagedFileUnknown, got %v", err)
	}
}

func TestWidgetEventsRejectedOutsideTheirStep(t *testing.T) {
	c, _ := newTestController()
	sess := driveToName(t, c)

	choice := models.SongChoice{FreeText: "some song"}
	if err := c.HandleSongSelect(sess, choice); !errors.Is(err, models.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep for song select at name step, got %v", err)
	}
	if _, err := c.StageFile(sess, "cv.pdf", "application/pdf", []byte("x")); !errors.Is(err, models.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep for file staging at name step, got %v", err)
	}
	if _, err := c.HandleFreeSubmit(context.Background(), sess, "text"); !errors.Is(err, models.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep for free submit at name step, got %v", err)
	}
}
