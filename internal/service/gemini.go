package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rinkl-labs/rinkl-ai/internal/config"
	"github.com/rinkl-labs/rinkl-ai/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig configures the completion client. Zero values fall back
// to the documented defaults. Temperature is a pointer because 0 is a
// meaningful setting (deterministic output): nil means default.
type GeminiConfig struct {
	Keys            []string
	Model           string
	Temperature     *float64
	MaxOutputTokens int
	BaseURL         string
	HTTPClient      *http.Client
}

// GeminiClient sends a conversation history to the generateContent
// endpoint. Credentials are tried in order: one attempt each, the first
// success short-circuits, exhaustion fails the call. There is no
// per-credential retry and no backoff.
type GeminiClient struct {
	keys       []string
	model      string
	temp       float64
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	c := &GeminiClient{
		keys:       cfg.Keys,
		model:      cfg.Model,
		temp:       config.DefaultTemperature,
		maxTokens:  cfg.MaxOutputTokens,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
	if cfg.Temperature != nil {
		c.temp = *cfg.Temperature
	}
	if c.model == "" {
		c.model = config.DefaultModel
	}
	if c.maxTokens == 0 {
		c.maxTokens = config.DefaultMaxOutputTokens
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

type contentPart struct {
	Text       *string     `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string        `json:"role"`
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the full history and returns the reply text. An empty
// reply from a successful response is normalized to a placeholder rather
// than treated as failure.
func (c *GeminiClient) Complete(ctx context.Context, history []domain.Message) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: buildContents(history),
		GenerationConfig: generationConfig{
			Temperature:     c.temp,
			MaxOutputTokens: c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var attempts []string
	for i, key := range c.keys {
		text, err := c.attempt(ctx, key, payload)
		if err == nil {
			return text, nil
		}
		slog.Warn("completion attempt failed", "credential", i, "error", err)
		attempts = append(attempts, err.Error())
	}

	if len(attempts) == 0 {
		attempts = append(attempts, "no credentials configured")
	}
	return "", fmt.Errorf("%w: %s", domain.ErrCompletionExhausted, strings.Join(attempts, "; "))
}

func (c *GeminiClient) attempt(ctx context.Context, key string, payload []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("api error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}

	text := candidateText(genResp)
	if text == "" {
		return config.EmptyReplyText, nil
	}
	return text, nil
}

// buildContents maps messages onto the wire shape: user/assistant senders
// become user/model roles, attachments ride as inlineData parts with the
// data-URI prefix stripped.
func buildContents(history []domain.Message) []content {
	contents := make([]content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Sender == domain.SenderAssistant {
			role = "model"
		}

		text := msg.Text
		parts := []contentPart{{Text: &text}}
		for _, m := range msg.Media {
			parts = append(parts, contentPart{
				InlineData: &inlineData{MIMEType: m.MIME, Data: m.Payload()},
			})
		}

		contents = append(contents, content{Role: role, Parts: parts})
	}
	return contents
}

func candidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
