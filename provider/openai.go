package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/moodletl"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAIProvider translates through the OpenAI chat completions API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *logrus.Logger
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string         // OpenAI API key
	Model       string         // Model to use (default: "gpt-4o-mini")
	Temperature float32        // Temperature for generation (default: 0.3)
	BaseURL     string         // Custom base URL (optional)
	Logger      *logrus.Logger // Logger (default: logrus.New())
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Translate translates a batch of fragments.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	userMessage, err := json.Marshal(req.Texts)
	if err != nil {
		return nil, &moodletl.ProviderError{Message: "encoding OpenAI request", Cause: err}
	}

	p.logger.WithFields(logrus.Fields{
		"count":       len(req.Texts),
		"model":       p.model,
		"target_lang": req.TargetLang,
	}).Debug("Sending OpenAI chat completion")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		p.logger.WithError(err).Error("OpenAI request failed")
		return nil, &moodletl.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &moodletl.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceName := "the source language"
	if req.SourceLang != "" {
		sourceName = moodletl.GetLanguageName(req.SourceLang)
	}
	targetName := moodletl.GetLanguageName(req.TargetLang)

	prompt := fmt.Sprintf(`# Role
You are an expert translator of university course material. You translate from %s to %s.

# Task
Translate each string of the JSON array you receive into idiomatic %s.

# Rules
- The strings are fragments of Moodle course pages and STACK questions and may contain inline HTML. Keep every tag and attribute exactly as it is and translate only the text between tags.
- Keep mathematical notation, variable names and numbers unchanged.
- Keep surrounding whitespace and punctuation style appropriate for %s.`, sourceName, targetName, targetName, targetName)

	if len(req.IgnoreTags) > 0 {
		tags := make([]string, len(req.IgnoreTags))
		for i, tag := range req.IgnoreTags {
			tags[i] = "<" + tag + ">"
		}
		prompt += fmt.Sprintf("\n- Copy the content of %s elements verbatim, including the tags themselves.", strings.Join(tags, ", "))
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
- Do NOT wrap in Markdown code blocks.`

	return prompt
}

func parseResponse(content string, expectedCount int) ([]string, error) {
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}

		// Fallback: first array value
		for _, v := range objResult {
			if arr, ok := v.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arrResult []interface{}
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &moodletl.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func toStringSlice(arr []interface{}, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &moodletl.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}

	return result, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ AIProvider = (*OpenAIProvider)(nil)
