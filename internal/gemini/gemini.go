// Package gemini backs the summarizer and language-model capabilities with
// the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pep299/iqcraft/internal/ai"
)

// DefaultBaseURL is the public Generative Language endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Client handles Gemini API operations
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Gemini API client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// generate sends one prompt with an optional system instruction and returns the first candidate text.
func (c *Client) generate(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	geminiReq := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     temperature,
			TopP:            0.8,
			MaxOutputTokens: 8000,
		},
	}
	if system != "" {
		geminiReq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	body, err := json.Marshal(geminiReq)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var text strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

func (c *Client) availability() ai.Availability {
	if !c.Configured() {
		return ai.Unavailable
	}
	return ai.Available
}

// Summarizer adapts the client to ai.SummarizerCapability.
type Summarizer struct {
	client *Client
}

// NewSummarizer wraps c as a summarizer capability.
func NewSummarizer(c *Client) *Summarizer {
	return &Summarizer{client: c}
}

func (s *Summarizer) Availability(ctx context.Context) (ai.Availability, error) {
	return s.client.availability(), nil
}

func (s *Summarizer) Create(ctx context.Context, opts ai.SummarizerOptions) (ai.SummarizerSession, error) {
	if !s.client.Configured() {
		return nil, &ai.CapabilityError{Capability: ai.SummarizerName, State: ai.Unavailable}
	}
	return &summarizerSession{client: s.client, system: summarizerInstruction(opts)}, nil
}

type summarizerSession struct {
	client *Client
	system string
}

func (s *summarizerSession) Summarize(ctx context.Context, text, hint string) (string, error) {
	prompt := text
	if hint != "" {
		prompt = hint + "\n\n" + text
	}
	summary, err := s.client.generate(ctx, s.system, prompt, 0.3)
	if err != nil {
		return "", fmt.Errorf("summarizing: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func (s *summarizerSession) Destroy() {}

// summarizerInstruction turns summarizer options into a system instruction.
func summarizerInstruction(opts ai.SummarizerOptions) string {
	var b strings.Builder
	if opts.SharedContext != "" {
		b.WriteString(opts.SharedContext)
		b.WriteString("\n")
	}

	switch opts.Type {
	case "key-points":
		b.WriteString("Write the summary as key points, one per bullet line starting with \"* \".\n")
	case "tldr":
		b.WriteString("Write a short overview.\n")
	case "headline":
		b.WriteString("Write a single headline.\n")
	}

	switch opts.Length {
	case "short":
		b.WriteString("Keep it short: at most 3 points.\n")
	case "medium":
		b.WriteString("Use at most 5 points.\n")
	case "long":
		b.WriteString("Be thorough: use up to 10 or more points.\n")
	}

	if opts.Format == "plain-text" {
		b.WriteString("Do not use markdown.\n")
	} else if opts.Format == "markdown" {
		b.WriteString("Format the output as markdown. Bold and inline code are allowed.\n")
	}
	return strings.TrimSpace(b.String())
}

// LanguageModel adapts the client to ai.LanguageModelCapability.
type LanguageModel struct {
	client *Client
}

// NewLanguageModel wraps c as a language-model capability.
func NewLanguageModel(c *Client) *LanguageModel {
	return &LanguageModel{client: c}
}

func (l *LanguageModel) Availability(ctx context.Context) (ai.Availability, error) {
	return l.client.availability(), nil
}

func (l *LanguageModel) Create(ctx context.Context) (ai.LanguageModelSession, error) {
	if !l.client.Configured() {
		return nil, &ai.CapabilityError{Capability: ai.LanguageModelName, State: ai.Unavailable}
	}
	return &languageModelSession{client: l.client}, nil
}

type languageModelSession struct {
	client *Client
}

func (s *languageModelSession) Prompt(ctx context.Context, prompt string) (string, error) {
	answer, err := s.client.generate(ctx, "", prompt, 0.7)
	if err != nil {
		return "", fmt.Errorf("prompting: %w", err)
	}
	return answer, nil
}

func (s *languageModelSession) Destroy() {}
