package phrase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Entry maps a phrase to its simpler replacement.
type Entry struct {
	Phrase      string `yaml:"phrase" json:"phrase"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// Match is one occurrence of a phrase inside a block of text.
// Start and End are byte offsets. Replacement is empty when the
// match is only being flagged.
type Match struct {
	Start       int
	End         int
	Original    string
	Replacement string
}

type compiled struct {
	Entry
	re *regexp.Regexp
}

// Table is an ordered, immutable phrase table with patterns compiled up front.
// It is safe for concurrent use.
type Table struct {
	entries []compiled
}

// Defaults is the built-in phrase table, in priority order.
var Defaults = []Entry{
	{"not uncommon", "common"},
	{"not insignificant", "significant"},
	{"not unimportant", "important"},
	{"not infrequent", "frequent"},
	{"not unlikely", "likely"},
	{"not unreasonable", "reasonable"},
	{"not impossible", "possible"},
	{"not unusual", "usual"},
	{"not unnecessary", "necessary"},
	{"not inconsiderable", "considerable"},
	{"unclear", "clear"},
	{"don't disagree", "agree"},
	{"don't not", "do"},
	{"not wrong", "right"},
	{"not unsalvagable", "salvageable"},
	{"won't not", "will"},
	{"not infrequently", "frequently"},
	{"wouldn't disagree", "agree"},
	{"did not go unnoticed", "people noticed"},
}

// New validates entries and compiles one case-insensitive literal pattern per phrase.
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("phrase table is empty")
	}
	t := &Table{entries: make([]compiled, 0, len(entries))}
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Phrase))
		if key == "" {
			return nil, fmt.Errorf("entry %d: phrase is empty", i)
		}
		if seen[key] {
			return nil, fmt.Errorf("entry %d: duplicate phrase %q", i, e.Phrase)
		}
		seen[key] = true

		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(e.Phrase))
		if err != nil {
			return nil, fmt.Errorf("entry %d: compile %q: %w", i, e.Phrase, err)
		}
		t.entries = append(t.entries, compiled{Entry: e, re: re})
	}
	return t, nil
}

// Default returns the built-in table.
func Default() *Table {
	t, err := New(Defaults)
	if err != nil {
		panic(fmt.Sprintf("phrase: built-in table: %v", err))
	}
	return t
}

// Entries returns a copy of the table in order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, c := range t.entries {
		out[i] = c.Entry
	}
	return out
}

// Len returns the number of phrases.
func (t *Table) Len() int {
	return len(t.entries)
}

// FindMatches returns every occurrence of every phrase in text, sorted by start offset.
//
// Overlapping occurrences of different phrases are resolved so the result never
// overlaps: the earliest start wins, a longer match wins over a shorter one at the
// same start, and table order breaks any remaining tie.
func (t *Table) FindMatches(text string) []Match {
	if text == "" {
		return nil
	}

	type candidate struct {
		Match
		order int
	}
	var all []candidate
	for i, c := range t.entries {
		for _, loc := range c.re.FindAllStringIndex(text, -1) {
			all = append(all, candidate{
				Match: Match{
					Start:       loc[0],
					End:         loc[1],
					Original:    text[loc[0]:loc[1]],
					Replacement: c.Replacement,
				},
				order: i,
			})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if la, lb := a.End-a.Start, b.End-b.Start; la != lb {
			return la > lb
		}
		return a.order < b.order
	})

	matches := make([]Match, 0, len(all))
	cursor := 0
	for _, c := range all {
		if c.Start < cursor {
			continue
		}
		matches = append(matches, c.Match)
		cursor = c.End
	}
	return matches
}
