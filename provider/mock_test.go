package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()

	result, err := m.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"Hello World", "Unknown text"},
		TargetLang: "FR",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bonjour le monde", "[FR] Unknown text"}, result)
	assert.Equal(t, 1, m.CallCount)
	require.NotNil(t, m.LastRequest())
	assert.Equal(t, "FR", m.LastRequest().TargetLang)

	m.Reset()
	assert.Equal(t, 0, m.CallCount)
	assert.Nil(t, m.LastRequest())
}

func TestMockProvider_Err(t *testing.T) {
	m := &MockProvider{Err: errors.New("boom")}
	_, err := m.Translate(context.Background(), TranslateRequest{Texts: []string{"a"}})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, m.CallCount)
}
