package moodletl

// DiffResult is the difference between two strings sets, such as the strings
// files of two extractions of the same course.
type DiffResult struct {
	// Added holds the strings only in the new set, in new-set order.
	Added []string

	// Removed holds the strings only in the old set, in old-set order.
	Removed []string

	// Unchanged holds the strings in both sets, in new-set order.
	Unchanged []string
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// DiffStrings compares two strings sets. Duplicates count once.
func DiffStrings(oldStrings, newStrings []string) *DiffResult {
	inOld := make(map[string]bool, len(oldStrings))
	for _, s := range oldStrings {
		inOld[s] = true
	}
	inNew := make(map[string]bool, len(newStrings))
	for _, s := range newStrings {
		inNew[s] = true
	}

	result := &DiffResult{}
	seen := make(map[string]bool, len(newStrings))
	for _, s := range newStrings {
		if seen[s] {
			continue
		}
		seen[s] = true
		if inOld[s] {
			result.Unchanged = append(result.Unchanged, s)
		} else {
			result.Added = append(result.Added, s)
		}
	}

	for _, s := range oldStrings {
		if seen[s] {
			continue
		}
		seen[s] = true
		if !inNew[s] {
			result.Removed = append(result.Removed, s)
		}
	}

	return result
}
