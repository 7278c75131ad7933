package moodletl_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ZaguanLabs/moodletl"
	"github.com/ZaguanLabs/moodletl/cache"
	"github.com/ZaguanLabs/moodletl/processor"
	"github.com/ZaguanLabs/moodletl/provider"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func silentLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func sampleStrings(n int) []string {
	strings := make([]string, n)
	for i := range strings {
		strings[i] = fmt.Sprintf("Sentence number %d of the course.", i)
	}
	return strings
}

func BenchmarkMemoryStore_Get(b *testing.B) {
	s := cache.NewMemoryStore()
	s.Set("Welcome to the course.", "Bienvenue dans le cours.")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get("Welcome to the course.")
	}
}

func BenchmarkMemoryStore_Set(b *testing.B) {
	s := cache.NewMemoryStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set("Welcome to the course.", "Bienvenue dans le cours.")
	}
}

func BenchmarkTranslator_Translate_Cached(b *testing.B) {
	store := cache.NewMemoryStore()
	translator := moodletl.NewTranslator("FR", provider.NewMockProvider(),
		moodletl.WithCache(store),
		moodletl.WithLogger(silentLogger()),
	)
	strings := sampleStrings(200)

	// Prime the cache
	translator.Translate(context.Background(), strings)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		translator.Translate(context.Background(), strings)
	}
}

func BenchmarkTranslator_Translate_Uncached(b *testing.B) {
	strings := sampleStrings(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Fresh store each time to avoid cache hits
		translator := moodletl.NewTranslator("FR", provider.NewMockProvider(),
			moodletl.WithCache(cache.NewMemoryStore()),
			moodletl.WithLogger(silentLogger()),
		)
		translator.Translate(context.Background(), strings)
	}
}

func BenchmarkTranslationTable_CASView(b *testing.B) {
	entries := make([]moodletl.Entry, 500)
	for i := range entries {
		src := fmt.Sprintf("Compute <x>{@f(%d)@}</x> now.", i)
		entries[i] = moodletl.Entry{Source: src, Translation: "[FR] " + src}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table := moodletl.NewTranslationTable(entries)
		table.For(processor.CASText{}).Lookup("Compute {@f(7)@} now.")
	}
}

func BenchmarkMoodleLangCode(b *testing.B) {
	codes := []string{"EN-US", "FR", "pt_BR", "IT", "zh-Hans"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		moodletl.MoodleLangCode(codes[i%len(codes)])
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	codes := []string{"EN-US", "FR", "pt_BR", "IT", "zh-Hans"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		moodletl.GetLanguageName(codes[i%len(codes)])
	}
}
