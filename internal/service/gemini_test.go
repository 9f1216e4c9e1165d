package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkl-labs/rinkl-ai/internal/config"
	"github.com/rinkl-labs/rinkl-ai/internal/domain"
)

// geminiStub answers generateContent per api key: keys in replies succeed
// with the mapped text, everything else gets a 401.
type geminiStub struct {
	replies map[string]string

	requests []string
	lastBody []byte
}

func (s *geminiStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-goog-api-key")
		s.requests = append(s.requests, key)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		s.lastBody = body

		text, ok := s.replies[key]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":401,"message":"API key not valid"}}`))
			return
		}

		resp := map[string]any{}
		if text != "" {
			resp["candidates"] = []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
			}
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func newStubClient(t *testing.T, stub *geminiStub, keys ...string) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)
	return NewGeminiClient(GeminiConfig{
		Keys:    keys,
		BaseURL: srv.URL,
	})
}

func TestComplete_FirstCredentialWins(t *testing.T) {
	stub := &geminiStub{replies: map[string]string{"good": "hello back"}}
	client := newStubClient(t, stub, "good", "spare")

	text, err := client.Complete(context.Background(), []domain.Message{
		{Sender: domain.SenderUser, Text: "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello back", text)
	assert.Equal(t, []string{"good"}, stub.requests)
}

func TestComplete_FallsThroughToNextCredential(t *testing.T) {
	stub := &geminiStub{replies: map[string]string{"good": "made it"}}
	client := newStubClient(t, stub, "bad", "good")

	text, err := client.Complete(context.Background(), []domain.Message{
		{Sender: domain.SenderUser, Text: "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "made it", text)
	assert.Equal(t, []string{"bad", "good"}, stub.requests)
}

func TestComplete_AllCredentialsExhausted(t *testing.T) {
	stub := &geminiStub{replies: map[string]string{}}
	client := newStubClient(t, stub, "bad1", "bad2")

	_, err := client.Complete(context.Background(), []domain.Message{
		{Sender: domain.SenderUser, Text: "hello"},
	})

	assert.ErrorIs(t, err, domain.ErrCompletionExhausted)
	// One attempt per credential, no retries
	assert.Equal(t, []string{"bad1", "bad2"}, stub.requests)
}

func TestComplete_NoCredentials(t *testing.T) {
	stub := &geminiStub{}
	client := newStubClient(t, stub)

	_, err := client.Complete(context.Background(), []domain.Message{
		{Sender: domain.SenderUser, Text: "hello"},
	})

	assert.ErrorIs(t, err, domain.ErrCompletionExhausted)
	assert.Empty(t, stub.requests)
}

func TestComplete_EmptyReplyNormalized(t *testing.T) {
	stub := &geminiStub{replies: map[string]string{"good": ""}}
	client := newStubClient(t, stub, "good")

	text, err := client.Complete(context.Background(), []domain.Message{
		{Sender: domain.SenderUser, Text: "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, config.EmptyReplyText, text)
}

func TestComplete_ZeroTemperatureHonored(t *testing.T) {
	stub := &geminiStub{replies: map[string]string{"good": "ok"}}
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)

	zero := 0.0
	client := NewGeminiClient(GeminiConfig{
		Keys:        []string{"good"},
		BaseURL:     srv.URL,
		Temperature: &zero,
	})

	_, err := client.Complete(context.Background(), []domain.Message{
		{Sender: domain.SenderUser, Text: "hello"},
	})
	require.NoError(t, err)

	var req generateRequest
	require.NoError(t, json.Unmarshal(stub.lastBody, &req))
	assert.Equal(t, 0.0, req.GenerationConfig.Temperature)
}

func TestComplete_RequestShape(t *testing.T) {
	stub := &geminiStub{replies: map[string]string{"good": "ok"}}
	client := newStubClient(t, stub, "good")

	history := []domain.Message{
		{Sender: domain.SenderUser, Text: "look at this", Media: []domain.MediaItem{
			{MIME: "image/png", Data: "data:image/png;base64,aWNvbg=="},
		}},
		{Sender: domain.SenderAssistant, Text: "nice"},
	}
	_, err := client.Complete(context.Background(), history)
	require.NoError(t, err)

	var req generateRequest
	require.NoError(t, json.Unmarshal(stub.lastBody, &req))

	require.Len(t, req.Contents, 2)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "model", req.Contents[1].Role)

	// Text part first, then inline data with the data-URI prefix stripped
	require.Len(t, req.Contents[0].Parts, 2)
	require.NotNil(t, req.Contents[0].Parts[0].Text)
	assert.Equal(t, "look at this", *req.Contents[0].Parts[0].Text)
	require.NotNil(t, req.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, "aWNvbg==", req.Contents[0].Parts[1].InlineData.Data)

	assert.Equal(t, config.DefaultTemperature, req.GenerationConfig.Temperature)
	assert.Equal(t, config.DefaultMaxOutputTokens, req.GenerationConfig.MaxOutputTokens)
}
