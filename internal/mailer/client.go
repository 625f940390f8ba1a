// Package mailer implements both sides of the mail-relay boundary: the
// submission pipeline that assembles a candidature into one multipart
// request, and the relay's own email composition over SMTP.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/harmos/intakebot/internal/models"
)

// DefaultDestination is the fixed candidature destination address. The
// configurable-destination path of the form is intentionally not taken: the
// address still travels as the emailDestination field and ends up in cc.
const DefaultDestination = "lorenzo@harmos.xyz"

// Client is the submission pipeline: it builds the outbound multipart
// request from the collected answers and staged files and sends it to the
// mail-relay endpoint.
type Client struct {
	relayURL    string
	destination string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithRelayURL sets the mail-relay endpoint URL.
func WithRelayURL(u string) Option {
	return func(c *Client) { c.relayURL = u }
}

// WithDestination overrides the fixed destination address carried in the
// emailDestination field.
func WithDestination(addr string) Option {
	return func(c *Client) { c.destination = addr }
}

// WithHTTPClient overrides the HTTP client used for relay requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a submission pipeline client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		destination: DefaultDestination,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit assembles one multipart request from the answers and files and
// awaits exactly one relay response. Network errors, non-2xx statuses and
// undecodable bodies are returned as errors; a decoded response is returned
// as-is, success or not. No pipeline-internal timeout is imposed; the
// transport's own timeout governs.
func (c *Client) Submit(ctx context.Context, answers models.CandidateAnswers, files []models.StagedFile) (models.SubmitResult, error) {
	if c.relayURL == "" {
		return models.SubmitResult{}, fmt.Errorf("mail relay URL not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range answers.FormFields() {
		if err := writer.WriteField(field.Key, field.Value); err != nil {
			return models.SubmitResult{}, fmt.Errorf("failed to write form field %s: %w", field.Key, err)
		}
	}
	if err := writer.WriteField("emailDestination", c.destination); err != nil {
		return models.SubmitResult{}, fmt.Errorf("failed to write destination field: %w", err)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return models.SubmitResult{}, fmt.Errorf("failed to create file part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return models.SubmitResult{}, fmt.Errorf("failed to write file part %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return models.SubmitResult{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, body)
	if err != nil {
		return models.SubmitResult{}, fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	slog.Debug("Client.Submit: sending candidature to relay", "fields", len(answers.FormFields())+1, "files", len(files))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.SubmitResult{}, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SubmitResult{}, fmt.Errorf("failed to read relay response: %w", err)
	}
	var result models.SubmitResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return models.SubmitResult{}, fmt.Errorf("malformed relay response (status %d): %w", resp.StatusCode, err)
	}
	slog.Info("Client.Submit: relay responded", "success", result.Success, "status", resp.StatusCode)
	return result, nil
}
