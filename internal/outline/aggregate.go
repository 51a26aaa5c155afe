// Package outline infers a document title and an H1-H3 heading outline from
// the font sizes of the document's text spans.
package outline

import (
	"strings"
	"unicode/utf8"
)

// Span is one styled run of text as emitted by the document source.
type Span struct {
	Page      int
	Size      float64
	Ascender  float64
	Descender float64
	Font      string
	Text      string
}

// GroupKey identifies spans that are assumed to belong to one logical text run.
type GroupKey struct {
	Page      int
	Size      float64
	Ascender  float64
	Descender float64
	Font      string
}

// Key returns the span's group key.
func (s Span) Key() GroupKey {
	return GroupKey{
		Page:      s.Page,
		Size:      s.Size,
		Ascender:  s.Ascender,
		Descender: s.Descender,
		Font:      s.Font,
	}
}

// Group is a merged text run.
type Group struct {
	Key  GroupKey
	Text string
}

// Aggregated maps group keys to merged text. Groups are kept in the order
// their key was first seen.
type Aggregated struct {
	groups []Group
	index  map[GroupKey]int
}

// Len returns the number of distinct keys.
func (a *Aggregated) Len() int {
	return len(a.groups)
}

// Groups returns a copy of the groups in first-seen order.
func (a *Aggregated) Groups() []Group {
	out := make([]Group, len(a.groups))
	copy(out, a.groups)
	return out
}

// Text returns the merged text for key.
func (a *Aggregated) Text(key GroupKey) (string, bool) {
	i, ok := a.index[key]
	if !ok {
		return "", false
	}
	return a.groups[i].Text, true
}

func (a *Aggregated) add(key GroupKey, text string) {
	if i, ok := a.index[key]; ok {
		a.groups[i].Text = SmartMerge(a.groups[i].Text, text)
		return
	}
	a.index[key] = len(a.groups)
	a.groups = append(a.groups, Group{Key: key, Text: text})
}

// Aggregate folds the spans of one document into one string per group key.
// Spans must be in document order; the result depends on that order.
func Aggregate(spans []Span) *Aggregated {
	agg := &Aggregated{index: make(map[GroupKey]int)}
	for _, s := range spans {
		agg.add(s.Key(), strings.TrimSpace(s.Text))
	}
	return agg
}

// SmartMerge joins a new fragment onto existing text. A fragment already
// contained in the other side is not repeated, and the longest suffix of
// existing that is also a prefix of next is written only once.
func SmartMerge(existing, next string) string {
	existing = strings.TrimSpace(existing)
	next = strings.TrimSpace(next)

	if strings.Contains(existing, next) {
		return existing
	}
	if strings.Contains(next, existing) {
		return next
	}

	// Overlaps are counted in runes but compared as bytes, so distinct
	// invalid bytes never match each other.
	limit := min(utf8.RuneCountInString(existing), utf8.RuneCountInString(next)) - 1

	overlap, end := 0, 0
	for k := 1; k <= limit; k++ {
		_, size := utf8.DecodeRuneInString(next[end:])
		end += size
		if strings.HasSuffix(existing, next[:end]) {
			overlap = end
		}
	}

	return existing + next[overlap:]
}
