package moodletl

// TranslationTable is the read-only translation mapping used while rewriting
// documents. It is owned by the caller that drives a run and passed into
// every rewrite, so views derived from it are built once per run.
type TranslationTable struct {
	entries []Entry
	exact   map[string]string
	views   map[string]lookupMap
}

type lookupMap map[string]string

func (m lookupMap) Lookup(fragment string) (string, bool) {
	tr, ok := m[fragment]
	return tr, ok
}

// NewTranslationTable creates a table from cache entries. Later entries win
// when two share a source.
func NewTranslationTable(entries []Entry) *TranslationTable {
	exact := make(map[string]string, len(entries))
	for _, e := range entries {
		exact[e.Source] = e.Translation
	}
	return &TranslationTable{
		entries: entries,
		exact:   exact,
		views:   make(map[string]lookupMap),
	}
}

// Lookup resolves fragment against the exact mapping.
func (t *TranslationTable) Lookup(fragment string) (string, bool) {
	tr, ok := t.exact[fragment]
	return tr, ok
}

// Len returns the number of distinct sources.
func (t *TranslationTable) Len() int {
	return len(t.exact)
}

// For returns the lookup to use for elements of the given kind. Kinds that
// mask fragments get a view whose keys and values have the masks removed;
// the view is built on first request and reused afterwards.
func (t *TranslationTable) For(kind ContentKind) TranslationLookup {
	if !kind.Masks() {
		return t
	}

	if view, ok := t.views[kind.Name()]; ok {
		return view
	}

	view := make(lookupMap, len(t.entries))
	for _, e := range t.entries {
		view[kind.Unmask(e.Source)] = kind.Unmask(e.Translation)
	}
	t.views[kind.Name()] = view
	return view
}
