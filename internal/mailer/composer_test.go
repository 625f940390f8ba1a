package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harmos/intakebot/internal/models"
)

func TestComposeCandidatureRendersFields(t *testing.T) {
	fields := []models.FormField{
		{Key: "name", Value: "Alice"},
		{Key: "motivation", Value: "I <3 building things & more"},
		{Key: "emailDestination", Value: "lorenzo@harmos.xyz"},
	}
	files := []models.StagedFile{
		{ID: "f1", Name: "cv.pdf", MIME: "application/pdf", Content: []byte("x")},
	}

	email := ComposeCandidature(fields, files)

	assert.Equal(t, "Nouvelle candidature Harmos - Alice", email.Subject)
	assert.Equal(t, "lorenzo@harmos.xyz", email.CC)
	assert.Contains(t, email.HTML, "<h2>Nouvelle candidature Harmos</h2>")
	assert.Contains(t, email.HTML, "I &lt;3 building things &amp; more", "field values must be escaped")
	assert.NotContains(t, email.HTML, "I <3")
	assert.Contains(t, email.HTML, "Fichiers joints")
	assert.Contains(t, email.HTML, `cid:cv.pdf`)
	assert.Len(t, email.Attachments, 1)
}

func TestComposeCandidatureWithoutFiles(t *testing.T) {
	email := ComposeCandidature([]models.FormField{{Key: "name", Value: "Bob"}}, nil)
	assert.NotContains(t, email.HTML, "Fichiers joints")
	assert.Empty(t, email.Attachments)
}

func TestComposeCandidatureEscapesInjectedMarkup(t *testing.T) {
	fields := []models.FormField{
		{Key: "name", Value: `<script>alert("x")</script>`},
	}
	email := ComposeCandidature(fields, nil)
	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "&lt;script&gt;")
}
