// Package match resolves an imprecise query against a set of known names.
//
// Resolution runs three stages in strict priority order and stops at the
// first stage that produces anything:
//  1. Exact  - case-insensitive equality, a single candidate
//  2. Prefix - case-insensitive prefix, sorted alphabetically
//  3. Fuzzy  - SequenceMatcher ratio above Cutoff, best first, at most MaxFuzzy
//
// The fuzzy stage uses the Ratcliff/Obershelp ratio from go-difflib, which is
// the same ratio and quick-reject sequence as Python's difflib.get_close_matches.
package match

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// Cutoff is the minimum similarity a fuzzy candidate must reach.
	Cutoff = 0.2

	// MaxFuzzy caps the number of fuzzy suggestions.
	MaxFuzzy = 10
)

// Kind is the outcome class of a resolution.
type Kind int

const (
	NoMatch Kind = iota
	Exact
	Suggestions
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Suggestions:
		return "suggestions"
	default:
		return "no-match"
	}
}

// Source records which stage produced a candidate.
type Source string

const (
	SourceExact  Source = "exact"
	SourcePrefix Source = "prefix"
	SourceFuzzy  Source = "fuzzy"
)

// Candidate is one ranked platform name.
type Candidate struct {
	Name   string  `json:"name"`
	Source Source  `json:"source"`
	Score  float64 `json:"score,omitempty"`
}

// Result is the outcome of Resolve.
type Result struct {
	Kind    Kind        `json:"kind"`
	Matches []Candidate `json:"matches,omitempty"`
}

// Names returns the candidate names in rank order.
func (r Result) Names() []string {
	names := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		names[i] = m.Name
	}
	return names
}

// Resolve classifies query against candidates. It has no side effects and is
// deterministic for a given input.
func Resolve(query string, candidates []string) Result {
	q := strings.ToLower(query)
	if q == "" || len(candidates) == 0 {
		return Result{Kind: NoMatch}
	}

	// Work on a sorted, de-duplicated copy so the outcome never depends on the
	// caller's iteration order.
	names := uniqueSorted(candidates)

	for _, name := range names {
		if strings.ToLower(name) == q {
			return Result{
				Kind:    Exact,
				Matches: []Candidate{{Name: name, Source: SourceExact, Score: 1}},
			}
		}
	}

	var prefix []Candidate
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), q) {
			prefix = append(prefix, Candidate{Name: name, Source: SourcePrefix})
		}
	}
	if len(prefix) > 0 {
		return Result{Kind: Suggestions, Matches: prefix}
	}

	if fuzzy := closeMatches(q, names); len(fuzzy) > 0 {
		return Result{Kind: Suggestions, Matches: fuzzy}
	}
	return Result{Kind: NoMatch}
}

type scored struct {
	score float64
	lower string
	name  string
}

// closeMatches mirrors difflib.get_close_matches: the query is sequence b,
// each candidate sequence a, and the cheap upper bounds reject early.
func closeMatches(q string, names []string) []Candidate {
	m := difflib.NewMatcher(nil, splitChars(q))

	var hits []scored
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		// case variants collapse onto the first spelling
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		m.SetSeq1(splitChars(lower))
		if m.RealQuickRatio() < Cutoff || m.QuickRatio() < Cutoff {
			continue
		}
		if r := m.Ratio(); r >= Cutoff {
			hits = append(hits, scored{score: r, lower: lower, name: name})
		}
	}

	// Highest score first; ties fall back to the reverse string order that
	// heapq.nlargest produces on (score, name) tuples.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		if hits[i].lower != hits[j].lower {
			return hits[i].lower > hits[j].lower
		}
		return hits[i].name < hits[j].name
	})
	if len(hits) > MaxFuzzy {
		hits = hits[:MaxFuzzy]
	}

	out := make([]Candidate, len(hits))
	for i, h := range hits {
		out[i] = Candidate{Name: h.name, Source: SourceFuzzy, Score: h.score}
	}
	return out
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
