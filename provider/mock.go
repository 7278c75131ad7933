package provider

import (
	"context"
	"fmt"
)

// MockProvider is a deterministic provider for tests and dry runs.
// Known texts map to Translations; any other text comes back as
// "[<target>] <text>".
type MockProvider struct {
	Translations map[string]string  // Map of source text to translation
	Err          error              // Returned by every call when set
	CallCount    int                // Number of times Translate was called
	Requests     []TranslateRequest // Every request received
}

// NewMockProvider creates a new mock provider with a few default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello World":          "Bonjour le monde",
			"Welcome to our site.": "Bienvenue sur notre site.",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.CallCount++
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s] %s", req.TargetLang, text)
		}
	}

	return results, nil
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	if len(m.Requests) == 0 {
		return nil
	}
	return &m.Requests[len(m.Requests)-1]
}

// Reset clears the call count and recorded requests.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.Requests = nil
}

var _ AIProvider = (*MockProvider)(nil)
