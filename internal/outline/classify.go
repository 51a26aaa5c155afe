package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/doctree"
)

// Thresholds are the empirically tuned constants of the classifier.
type Thresholds struct {
	// BandWidth is the width of each heading band and the rounding step of the H1 base.
	BandWidth float64
	// BodyTextFloor is the size below which text is never a heading.
	BodyTextFloor float64
	// MaxDistinctSizes caps the size ranking.
	MaxDistinctSizes int
	// FallbackTitleSize is used when the document has no text at all.
	FallbackTitleSize float64
}

// DefaultThresholds returns the tuned values. Re-check the outline test
// scenarios before changing any of them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BandWidth:         5,
		BodyTextFloor:     11,
		MaxDistinctSizes:  4,
		FallbackTitleSize: 20,
	}
}

// Band is a closed font size interval mapped to one heading level.
type Band struct {
	Level doctree.Level `json:"level" yaml:"level"`
	Low   float64       `json:"low" yaml:"low"`
	High  float64       `json:"high" yaml:"high"`
}

// Contains reports whether size lies in [Low, High].
func (b Band) Contains(size float64) bool {
	return b.Low <= size && size <= b.High
}

// SortBySize returns the groups ordered by font size, largest first. Groups of
// equal size keep their first-seen order.
func SortBySize(agg *Aggregated) []Group {
	groups := agg.Groups()
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key.Size > groups[j].Key.Size
	})
	return groups
}

// RankSizes collects the distinct sizes of sorted groups in the order first
// met, stopping after limit sizes.
func RankSizes(sorted []Group, limit int) []float64 {
	var ranking []float64
	seen := make(map[float64]bool)
	for _, g := range sorted {
		if len(ranking) >= limit {
			break
		}
		if !seen[g.Key.Size] {
			seen[g.Key.Size] = true
			ranking = append(ranking, g.Key.Size)
		}
	}
	return ranking
}

// TitleSize returns the largest ranked size, or the fallback.
func (t Thresholds) TitleSize(ranking []float64) float64 {
	if len(ranking) == 0 {
		return t.FallbackTitleSize
	}
	return ranking[0]
}

// H1Base rounds the second ranked size up to a multiple of BandWidth. With
// fewer than two sizes it is the title size.
func (t Thresholds) H1Base(ranking []float64) float64 {
	if len(ranking) < 2 {
		return t.TitleSize(ranking)
	}
	return math.Ceil(ranking[1]/t.BandWidth) * t.BandWidth
}

// DeriveBands stacks the H1, H2 and H3 bands directly below base.
func (t Thresholds) DeriveBands(base float64) []Band {
	levels := []doctree.Level{doctree.H1, doctree.H2, doctree.H3}
	bands := make([]Band, 0, len(levels))
	high := base
	for _, level := range levels {
		bands = append(bands, Band{Level: level, Low: high - (t.BandWidth - 1), High: high})
		high -= t.BandWidth
	}
	return bands
}

var (
	bulletRe = regexp.MustCompile(`[\x{2022}\x{25CF}\x{25AA}\x{25BA}*]`)
	ruleRe   = regexp.MustCompile(`[-_=]{2,}`)
)

// CleanHeadingText replaces bullets and rule runs with spaces and collapses whitespace.
func CleanHeadingText(text string) string {
	text = strings.TrimSpace(text)
	text = bulletRe.ReplaceAllString(text, " ")
	text = ruleRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// IsValidHeading rejects text that cannot be a meaningful heading.
func IsValidHeading(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if strings.IndexFunc(text, isAlnum) < 0 {
		return false
	}
	if utf8.RuneCountInString(text) < 3 {
		return false
	}
	lower := strings.ToLower(text)
	for _, marker := range []string{"www.", "http", "@"} {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Analysis is the classifier's view of one document.
type Analysis struct {
	Groups    int             `json:"groups" yaml:"groups"`
	Ranking   []float64       `json:"ranking" yaml:"ranking"`
	TitleSize float64         `json:"title_size" yaml:"title_size"`
	H1Base    float64         `json:"h1_base" yaml:"h1_base"`
	Bands     []Band          `json:"bands" yaml:"bands"`
	Discarded int             `json:"discarded" yaml:"discarded"`
	Outline   doctree.Outline `json:"result" yaml:"result"`
}

// Classify assigns the title and heading levels.
func (t Thresholds) Classify(agg *Aggregated) doctree.Outline {
	return t.Analyze(agg).Outline
}

// Analyze classifies agg and reports the intermediate values.
func (t Thresholds) Analyze(agg *Aggregated) Analysis {
	sorted := SortBySize(agg)
	ranking := RankSizes(sorted, t.MaxDistinctSizes)
	titleSize := t.TitleSize(ranking)
	base := t.H1Base(ranking)
	bands := t.DeriveBands(base)

	a := Analysis{
		Groups:    len(sorted),
		Ranking:   ranking,
		TitleSize: titleSize,
		H1Base:    base,
		Bands:     bands,
		Outline:   doctree.Outline{Outline: []doctree.Entry{}},
	}

	titled := false
	for _, g := range sorted {
		text := CleanHeadingText(g.Text)
		if !IsValidHeading(text) {
			a.Discarded++
			continue
		}

		size := g.Key.Size
		if size == titleSize && !titled {
			a.Outline.Title = text
			titled = true
			continue
		}

		if size < t.BodyTextFloor {
			a.Discarded++
			continue
		}

		matched := false
		for _, b := range bands {
			if b.Contains(size) {
				a.Outline.Outline = append(a.Outline.Outline, doctree.Entry{
					Level: b.Level,
					Text:  text,
					Page:  g.Key.Page,
				})
				matched = true
				break
			}
		}
		if !matched {
			a.Discarded++
		}
	}

	return a
}

// Classify runs the classifier with the default thresholds.
func Classify(agg *Aggregated) doctree.Outline {
	return DefaultThresholds().Classify(agg)
}

// Extract aggregates spans and classifies the result.
func Extract(spans []Span) doctree.Outline {
	return Classify(Aggregate(spans))
}

// Analyze aggregates spans and returns the full analysis.
func Analyze(spans []Span) Analysis {
	return DefaultThresholds().Analyze(Aggregate(spans))
}
