package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaguanLabs/moodletl"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBuildSystemPrompt(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test", Logger: quietLogger()})

	prompt := p.buildSystemPrompt(TranslateRequest{
		TargetLang: "DE",
		SourceLang: "EN-US",
		IgnoreTags: []string{"x"},
	})

	assert.Contains(t, prompt, "German")
	assert.Contains(t, prompt, "American English")
	assert.Contains(t, prompt, "<x>")
	assert.Contains(t, prompt, `"translations"`)
}

func TestBuildSystemPrompt_NoSourceLang(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test", Logger: quietLogger()})

	prompt := p.buildSystemPrompt(TranslateRequest{TargetLang: "FR"})
	assert.Contains(t, prompt, "from the source language to French")
	assert.NotContains(t, prompt, "verbatim")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"translations key", `{"translations": ["Hola", "Mundo"]}`, []string{"Hola", "Mundo"}},
		{"direct array", `["Hola", "Mundo"]`, []string{"Hola", "Mundo"}},
		{"fallback key", `{"results": ["Hola", "Mundo"]}`, []string{"Hola", "Mundo"}},
		{"non-string values", `{"translations": ["Hola", 2]}`, []string{"Hola", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.content, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponse_Errors(t *testing.T) {
	_, err := parseResponse(`{"translations": ["Hola"]}`, 2)
	var mismatch *moodletl.CountMismatchError
	assert.True(t, errors.As(err, &mismatch))

	_, err = parseResponse(`not json`, 1)
	var providerErr *moodletl.ProviderError
	assert.True(t, errors.As(err, &providerErr))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("429 Too Many Requests")))
	assert.True(t, isRetryableError(errors.New("request Timeout")))
	assert.False(t, isRetryableError(errors.New("invalid api key")))
}

func newChatServer(t *testing.T, content string, status int) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "requests"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestOpenAIProvider_Translate(t *testing.T) {
	srv, requests := newChatServer(t, `{"translations": ["Bonjour", "Soit <x>\\(x\\)</x> réel"]}`, http.StatusOK)

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Logger: quietLogger()})
	got, err := p.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"Hello", `Let <x>\(x\)</x> be real`},
		TargetLang: "FR",
		SourceLang: "EN",
		IgnoreTags: []string{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour", `Soit <x>\(x\)</x> réel`}, got)

	require.Len(t, *requests, 1)
	body := (*requests)[0]
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
}

func TestOpenAIProvider_APIError(t *testing.T) {
	srv, _ := newChatServer(t, "", http.StatusTooManyRequests)

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Logger: quietLogger()})
	_, err := p.Translate(context.Background(), TranslateRequest{Texts: []string{"Hello"}, TargetLang: "FR"})

	var providerErr *moodletl.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.True(t, providerErr.Retryable)
}

func TestOpenAIProvider_EmptyBatch(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Logger: quietLogger()})
	got, err := p.Translate(context.Background(), TranslateRequest{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
