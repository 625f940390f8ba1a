package mailer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmos/intakebot/internal/models"
)

func sampleAnswers() models.CandidateAnswers {
	return models.CandidateAnswers{
		Name:               "Alice",
		Email:              "alice@example.com",
		Age:                "22",
		School:             "EPITA",
		StudyYear:          "3rd year",
		InternshipDuration: "6 months",
		PositionType:       models.PositionTech,
		Motivation:         "build things",
		Song1:              "One by Band",
		Song2:              "Two by Band",
		Song3:              "Three by Band",
		Portfolio:          "https://portfolio.example",
	}
}

func TestSubmitSendsMultipartFieldsAndFiles(t *testing.T) {
	type received struct {
		fields map[string]string
		files  map[string][]byte
	}
	got := received{fields: map[string]string{}, files: map[string][]byte{}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reader, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			data, err := io.ReadAll(part)
			require.NoError(t, err)
			if part.FileName() != "" {
				got.files[part.FileName()] = data
			} else {
				got.fields[part.FormName()] = string(data)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Candidature envoyée avec succès"}`))
	}))
	defer server.Close()

	client := NewClient(WithRelayURL(server.URL))
	files := []models.StagedFile{
		{ID: "f1", Name: "cv.pdf", MIME: "application/pdf", Content: []byte("pdf-bytes"), Size: 9},
	}
	result, err := client.Submit(context.Background(), sampleAnswers(), files)
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, "Alice", got.fields["name"])
	assert.Equal(t, "tech", got.fields["positionType"])
	assert.Equal(t, "Three by Band", got.fields["song3"])
	assert.Equal(t, DefaultDestination, got.fields["emailDestination"])
	assert.Equal(t, []byte("pdf-bytes"), got.files["cv.pdf"])
}

func TestSubmitOmitsEmptyFields(t *testing.T) {
	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reader, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			io.Copy(io.Discard, part)
			keys = append(keys, part.FormName())
		}
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(WithRelayURL(server.URL))
	answers := models.CandidateAnswers{Name: "Alice", Email: "alice@example.com"}
	_, err := client.Submit(context.Background(), answers, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "emailDestination"}, keys)
}

func TestSubmitReturnsRelayRejectionAsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Erreur lors de l'envoi de l'email. Veuillez réessayer plus tard."}`))
	}))
	defer server.Close()

	client := NewClient(WithRelayURL(server.URL))
	result, err := client.Submit(context.Background(), sampleAnswers(), nil)
	require.NoError(t, err, "a decoded relay response is not a pipeline error")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestSubmitErrorsOnUndecodableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	client := NewClient(WithRelayURL(server.URL))
	_, err := client.Submit(context.Background(), sampleAnswers(), nil)
	assert.Error(t, err)
}

func TestSubmitErrorsWithoutRelayURL(t *testing.T) {
	client := NewClient()
	_, err := client.Submit(context.Background(), sampleAnswers(), nil)
	assert.Error(t, err)
}
