package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/moodletl"
	"github.com/sirupsen/logrus"
)

const (
	// DeepLFreeURL is the API host for free-tier keys (ending in ":fx").
	DeepLFreeURL = "https://api-free.deepl.com"

	// DeepLProURL is the API host for paid keys.
	DeepLProURL = "https://api.deepl.com"

	// DefaultDeepLTimeout bounds a single translate request.
	DefaultDeepLTimeout = 2 * time.Minute
)

// DeepLConfig holds configuration for the DeepL provider.
type DeepLConfig struct {
	AuthKey string         // DeepL authentication key
	BaseURL string         // API host; chosen from the key when empty
	Timeout time.Duration  // HTTP timeout (default: 2 minutes)
	Logger  *logrus.Logger // Logger (default: logrus.New())
}

// DeepLProvider translates through the DeepL REST API using XML tag
// handling, so text inside ignored tags is returned untouched.
type DeepLProvider struct {
	authKey    string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewDeepLProvider creates a DeepL provider.
func NewDeepLProvider(cfg DeepLConfig) *DeepLProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DeepLBaseURL(cfg.AuthKey)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultDeepLTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &DeepLProvider{
		authKey:    cfg.AuthKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// DeepLBaseURL returns the API host matching authKey.
func DeepLBaseURL(authKey string) string {
	if strings.HasSuffix(authKey, ":fx") {
		return DeepLFreeURL
	}
	return DeepLProURL
}

type deeplRequest struct {
	Text        []string `json:"text"`
	SourceLang  string   `json:"source_lang,omitempty"`
	TargetLang  string   `json:"target_lang"`
	TagHandling string   `json:"tag_handling,omitempty"`
	IgnoreTags  []string `json:"ignore_tags,omitempty"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

type deeplErrorResponse struct {
	Message string `json:"message"`
}

// Translate sends one batch to /v2/translate.
func (p *DeepLProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	payload := deeplRequest{
		Text:       req.Texts,
		SourceLang: deeplSourceLang(req.SourceLang),
		TargetLang: moodletl.NormalizeProviderCode(req.TargetLang),
	}
	if len(req.IgnoreTags) > 0 {
		payload.TagHandling = "xml"
		payload.IgnoreTags = req.IgnoreTags
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&payload); err != nil {
		return nil, &moodletl.ProviderError{Message: "encoding DeepL request", Cause: err}
	}

	url := p.baseURL + "/v2/translate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return nil, &moodletl.ProviderError{Message: "creating DeepL request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.authKey)

	p.logger.WithFields(logrus.Fields{
		"count":       len(req.Texts),
		"source_lang": payload.SourceLang,
		"target_lang": payload.TargetLang,
	}).Debug("Sending DeepL translate request")

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.logger.WithError(err).WithField("url", url).Error("DeepL request failed")
		return nil, &moodletl.ProviderError{Message: "DeepL request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	p.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("DeepL request completed")

	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp)
	}

	var out deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &moodletl.ProviderError{Message: "decoding DeepL response", Cause: err}
	}

	translations := make([]string, len(out.Translations))
	for i, t := range out.Translations {
		translations[i] = t.Text
	}
	if len(translations) != len(req.Texts) {
		return nil, &moodletl.CountMismatchError{Expected: len(req.Texts), Got: len(translations)}
	}
	return translations, nil
}

func (p *DeepLProvider) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	msg := strings.TrimSpace(string(body))
	var apiErr deeplErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	p.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"response":    msg,
	}).Error("DeepL request returned non-OK status")

	return &moodletl.ProviderError{
		Message:   fmt.Sprintf("DeepL returned status %d: %s", resp.StatusCode, msg),
		Retryable: isRetryableStatus(resp.StatusCode),
	}
}

// Usage reports the characters translated and the limit of the billing
// period.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// Usage fetches the account usage from /v2/usage.
func (p *DeepLProvider) Usage(ctx context.Context) (*Usage, error) {
	url := p.baseURL + "/v2/usage"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &moodletl.ProviderError{Message: "creating DeepL usage request", Cause: err}
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.authKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &moodletl.ProviderError{Message: "DeepL usage request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp)
	}

	var usage Usage
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return nil, &moodletl.ProviderError{Message: "decoding DeepL usage", Cause: err}
	}
	return &usage, nil
}

// deeplSourceLang strips the region: DeepL only accepts base source
// languages.
func deeplSourceLang(code string) string {
	code = moodletl.NormalizeProviderCode(code)
	if i := strings.IndexByte(code, '-'); i >= 0 {
		code = code[:i]
	}
	return code
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout, 529:
		return true
	}
	return false
}

var _ AIProvider = (*DeepLProvider)(nil)
