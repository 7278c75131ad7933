package moodletl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffStrings_NoChanges(t *testing.T) {
	strings := []string{"Introduction", "Welcome to the course."}

	diff := DiffStrings(strings, strings)

	assert.False(t, diff.HasChanges())
	assert.Equal(t, strings, diff.Unchanged)
}

func TestDiffStrings_AllNew(t *testing.T) {
	diff := DiffStrings(nil, []string{"Introduction", "Welcome to the course."})

	assert.True(t, diff.HasChanges())
	assert.Len(t, diff.Added, 2)
	assert.Empty(t, diff.Removed)
}

func TestDiffStrings_AllRemoved(t *testing.T) {
	diff := DiffStrings([]string{"Introduction", "Welcome to the course."}, nil)

	assert.True(t, diff.HasChanges())
	assert.Empty(t, diff.Added)
	assert.Equal(t, []string{"Introduction", "Welcome to the course."}, diff.Removed)
}

func TestDiffStrings_Mixed(t *testing.T) {
	oldStrings := []string{"Introduction", "Old summary", "Course guide"}
	newStrings := []string{"Course guide", "New summary", "Introduction", "New summary"}

	diff := DiffStrings(oldStrings, newStrings)

	assert.Equal(t, []string{"New summary"}, diff.Added)
	assert.Equal(t, []string{"Old summary"}, diff.Removed)
	assert.Equal(t, []string{"Course guide", "Introduction"}, diff.Unchanged)
	assert.Equal(t, DiffStats{Added: 1, Removed: 1, Unchanged: 2}, diff.Stats())
}
