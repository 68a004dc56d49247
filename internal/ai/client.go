package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"genai-maturity/backend/internal/scoring"
)

// Summarizer produces an executive narrative for a scored assessment.
type Summarizer interface {
	Enabled() bool
	Summarize(ctx context.Context, input SummaryInput) (Summary, error)
}

// Config holds OpenAI configuration parameters.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// SummaryInput describes the assessment signals that feed the narrative.
type SummaryInput struct {
	Organization    string
	Archetype       scoring.Archetype
	Overall         decimal.NullDecimal
	Scores          map[scoring.Dimension]decimal.NullDecimal
	Recommendations []scoring.Draft
}

// Client implements the Summarizer interface against an OpenAI-compatible API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

var ErrDisabled = errors.New("ai summarizer disabled")

// NewClient constructs a Client if the supplied configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1-mini"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrDisabled
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 600
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: temp,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Summarize requests an AI-written executive summary for an assessment.
func (c *Client) Summarize(ctx context.Context, input SummaryInput) (Summary, error) {
	if c == nil || !c.Enabled() {
		return Summary{}, ErrDisabled
	}

	body, err := json.Marshal(c.buildPayload(input))
	if err != nil {
		return Summary{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Summary{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return Summary{}, fmt.Errorf("openai status %d: %v", resp.StatusCode, apiErr)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Summary{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Summary{}, errors.New("openai empty response")
	}

	content := normalizeJSONBlock(decoded.Choices[0].Message.Content)
	if content == "" {
		return Summary{}, errors.New("openai empty narrative")
	}

	var summary Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return Summary{}, fmt.Errorf("parse ai response: %w", err)
	}
	summary.Narrative = strings.TrimSpace(summary.Narrative)
	if summary.Narrative == "" {
		return Summary{}, errors.New("ai narrative missing")
	}
	summary.Highlights = trimAll(summary.Highlights)
	summary.Source = SourceOpenAI
	return summary, nil
}

func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSuffix(trimmed, "```")
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

func (c *Client) buildPayload(input SummaryInput) map[string]any {
	messages := []map[string]string{
		{
			"role":    "system",
			"content": "You are a GenAI transformation advisor for global capability centers. Reply with a strict JSON object containing keys narrative (three to four sentences) and highlights (an array of at most three short action phrases). Ground every statement in the supplied scores and recommendations; do not invent numbers. Emit nothing outside the JSON object.",
		},
		{
			"role":    "user",
			"content": c.buildUserPrompt(input),
		},
	}
	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
	}
	if c.maxTokens > 0 {
		payload["max_tokens"] = c.maxTokens
	}
	return payload
}

func (c *Client) buildUserPrompt(input SummaryInput) string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "Organization: %s\n", strings.TrimSpace(input.Organization))
	fmt.Fprintf(builder, "Archetype: %s\n", input.Archetype)
	if input.Overall.Valid {
		fmt.Fprintf(builder, "Overall maturity score (1-5): %s\n", input.Overall.Decimal.StringFixed(2))
	} else {
		builder.WriteString("Overall maturity score: not yet assessed\n")
	}
	builder.WriteString("Dimension scores:\n")
	for _, d := range scoring.Dimensions {
		if s := input.Scores[d]; s.Valid {
			fmt.Fprintf(builder, "- %s: %s\n", d, s.Decimal.StringFixed(2))
		} else {
			fmt.Fprintf(builder, "- %s: not assessed\n", d)
		}
	}
	if len(input.Recommendations) > 0 {
		builder.WriteString("Recommendations:\n")
		for _, rec := range input.Recommendations {
			marker := ""
			if rec.Critical {
				marker = " [critical]"
			}
			fmt.Fprintf(builder, "- %s (priority %d, %s)%s\n", rec.Title, rec.Priority, rec.Timeline, marker)
		}
	}
	builder.WriteString("Lead with the archetype, name the strongest and weakest dimensions, and close with the most urgent critical imperative.\n")
	return builder.String()
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func trimAll(items []string) []string {
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
