// Package provider implements machine-translation backends: DeepL, OpenAI
// and a deterministic mock for tests.
package provider

import "github.com/ZaguanLabs/moodletl"

// AIProvider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type AIProvider = moodletl.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = moodletl.TranslateRequest
