package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harmos/intakebot/internal/mailer"
	"github.com/harmos/intakebot/internal/models"
)

// candidatureHandler is the server side of the mail-relay boundary: it
// parses the multipart submission under the boundary size limits, composes
// the notification email and hands it to the SMTP transport. Internal error
// details are logged, never returned to the caller.
func (s *Server) candidatureHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.candidatureHandler: processing submission", "method", r.Method)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.SubmitResult{Success: false, Message: "Method not allowed"})
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		slog.Warn("Server.candidatureHandler: not a multipart request", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.SubmitResult{Success: false, Message: "Erreur lors de la réception du formulaire"})
		return
	}

	var (
		fields      []models.FormField
		files       []models.StagedFile
		fieldsBytes int64
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Server.candidatureHandler: multipart parse error", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.SubmitResult{Success: false, Message: "Erreur lors de la réception du formulaire"})
			return
		}

		if part.FileName() == "" {
			if len(fields) >= models.MaxFieldCount {
				slog.Warn("Server.candidatureHandler: too many fields")
				writeJSONResponse(w, http.StatusRequestEntityTooLarge, models.SubmitResult{Success: false, Message: "Trop de champs dans le formulaire"})
				return
			}
			data, err := io.ReadAll(io.LimitReader(part, models.MaxFieldsBytes+1))
			if err != nil {
				slog.Warn("Server.candidatureHandler: failed to read field", "field", part.FormName(), "error", err)
				writeJSONResponse(w, http.StatusBadRequest, models.SubmitResult{Success: false, Message: "Erreur lors de la réception du formulaire"})
				return
			}
			fieldsBytes += int64(len(data))
			if fieldsBytes > models.MaxFieldsBytes {
				slog.Warn("Server.candidatureHandler: text fields over limit", "bytes", fieldsBytes)
				writeJSONResponse(w, http.StatusRequestEntityTooLarge, models.SubmitResult{Success: false, Message: "Contenu du formulaire trop volumineux"})
				return
			}
			fields = append(fields, models.FormField{Key: part.FormName(), Value: string(data)})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, models.MaxFileBytes+1))
		if err != nil {
			slog.Warn("Server.candidatureHandler: failed to read file part", "file", part.FileName(), "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.SubmitResult{Success: false, Message: "Erreur lors de la réception du formulaire"})
			return
		}
		if int64(len(data)) > models.MaxFileBytes {
			slog.Warn("Server.candidatureHandler: file over per-file limit", "file", part.FileName())
			writeJSONResponse(w, http.StatusRequestEntityTooLarge, models.SubmitResult{Success: false, Message: "Fichier trop volumineux"})
			return
		}
		files = append(files, models.StagedFile{
			ID:      uuid.NewString(),
			Name:    part.FileName(),
			Size:    int64(len(data)),
			MIME:    part.Header.Get("Content-Type"),
			Content: data,
		})
	}

	email := mailer.ComposeCandidature(fields, files)
	if err := s.emailSender.Send(r.Context(), email); err != nil {
		slog.Error("Server.candidatureHandler: email delivery failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.SubmitResult{Success: false, Message: "Erreur lors de l'envoi de l'email. Veuillez réessayer plus tard."})
		return
	}
	slog.Info("Server.candidatureHandler: candidature forwarded", "fields", len(fields), "files", len(files))
	writeJSONResponse(w, http.StatusOK, models.SubmitResult{Success: true, Message: "Candidature envoyée avec succès"})
}

// songSearchHandler proxies free-text queries to the song catalog. It
// mirrors the adapter's degrade-to-empty contract: the response always has
// a results array.
func (s *Server) songSearchHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.songSearchHandler: processing search", "method", r.Method)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	if !s.limiter.Allow() {
		slog.Warn("Server.songSearchHandler: rate limit exceeded")
		writeJSONResponse(w, http.StatusTooManyRequests, models.Error("Too many search requests"))
		return
	}
	term := r.URL.Query().Get("term")
	if strings.TrimSpace(term) == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Le paramètre \"term\" est requis"))
		return
	}
	if s.songsClient == nil {
		writeJSONResponse(w, http.StatusOK, map[string]interface{}{"results": []models.SongCandidate{}})
		return
	}
	results := s.songsClient.Search(r.Context(), term)
	if results == nil {
		results = []models.SongCandidate{}
	}
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"results": results})
}

// analyzePayload is the scoring request for the ancillary analysis endpoint.
type analyzePayload struct {
	Personality string   `json:"personality"`
	Scenario    string   `json:"scenario"`
	TechStack   []string `json:"techStack"`
	GithubURL   string   `json:"githubUrl"`
	Songs       []string `json:"songs"`
}

// analyzeHandler scores a candidate profile with weighted categorical rules
// plus small randomized jitter. Stateless and independent of the flow.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.analyzeHandler: processing analysis", "method", r.Method)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	var payload analyzePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("Server.analyzeHandler: invalid JSON", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "Failed to analyze responses"})
		return
	}

	score := scoreProfile(payload)
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"score":   score,
		"message": "Analysis complete",
		"breakdown": map[string]interface{}{
			"personality": payload.Personality,
			"scenario":    payload.Scenario,
			"techStack":   len(payload.TechStack),
			"hasGithub":   payload.GithubURL != "",
			"songCount":   len(payload.Songs),
		},
	})
}

// scoreProfile applies the weighted scoring rules and jitter, clamped to
// [0,100].
func scoreProfile(p analyzePayload) int {
	score := 50

	switch p.Personality {
	case "leader":
		score += 20
	case "strategist":
		score += 15
	case "firefighter":
		score += 10
	}

	switch p.Scenario {
	case "negotiate":
		score += 15
	case "refuse":
		score += 10
	case "accept":
		score += 5
	}

	for _, tech := range p.TechStack {
		switch tech {
		case "ts":
			score += 5
		case "js":
			score += 3
		case "aiml":
			score += 7
		}
	}
	if len(p.TechStack) >= 3 {
		score += 5
	}

	if strings.Contains(p.GithubURL, "github.com") {
		score += 5
	}
	if len(p.Songs) == 3 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	score += rand.Intn(10) - 5
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// healthHandler provides a health check endpoint for monitoring and load balancing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
