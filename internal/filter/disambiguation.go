package filter

import (
	"fmt"
	"strings"

	"evalgo.org/labops/internal/match"
	"evalgo.org/labops/models"
)

// Choice is one numbered entry of a disambiguation menu.
type Choice struct {
	Index    int // 1-based
	Platform string
	Count    int
	Source   match.Source
}

// Disambiguation is a pending platform choice. It holds the hosts that
// survived every other predicate so the selection can be applied later
// without re-running the filter.
type Disambiguation struct {
	Query   string
	Choices []Choice
	Total   int

	survivors []models.Host
}

func newDisambiguation(query string, res match.Result, survivors []models.Host) *Disambiguation {
	counts := make(map[string]int)
	for _, h := range survivors {
		counts[h.Platform]++
	}

	d := &Disambiguation{Query: query, survivors: survivors}
	for i, m := range res.Matches {
		n := counts[m.Name]
		d.Choices = append(d.Choices, Choice{Index: i + 1, Platform: m.Name, Count: n, Source: m.Source})
		d.Total += n
	}
	return d
}

// Select applies choice n (1-based). Zero or an out-of-range value cancels
// the whole filter and yields an empty outcome.
func (d *Disambiguation) Select(n int) Outcome {
	if d == nil || n < 1 || n > len(d.Choices) {
		return newOutcome([]models.Host{})
	}
	platform := d.Choices[n-1].Platform
	return newOutcome(keep(d.survivors, func(h models.Host) bool {
		return h.Platform == platform
	}))
}

// Platform returns the platform behind choice n, or "" when n is invalid.
func (d *Disambiguation) Platform(n int) string {
	if d == nil || n < 1 || n > len(d.Choices) {
		return ""
	}
	return d.Choices[n-1].Platform
}

// Menu renders the numbered choice list shown before prompting.
func (d *Disambiguation) Menu() string {
	var b strings.Builder
	fmt.Fprintf(&b, "No hosts found with platform '%s'.\n\n", d.Query)
	b.WriteString("Did you mean one of these?\n")
	for _, c := range d.Choices {
		fmt.Fprintf(&b, "  %d. %s (%d hosts)\n", c.Index, c.Platform, c.Count)
	}
	fmt.Fprintf(&b, "\nTotal: %d hosts across all %s* platforms\n", d.Total, strings.ToUpper(d.Query))
	return b.String()
}

// Chooser asks the user to pick from a Disambiguation. It returns 0 to cancel.
type Chooser interface {
	Choose(d *Disambiguation) (int, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(d *Disambiguation) (int, error)

func (f ChooserFunc) Choose(d *Disambiguation) (int, error) { return f(d) }

// Run applies opts and, when a platform choice is needed, asks chooser. A
// nil chooser cancels. The only error is one returned by the chooser.
func Run(hosts []models.Host, opts Options, chooser Chooser) (Outcome, error) {
	out := Apply(hosts, opts)
	if out.Disambiguation == nil {
		return out, nil
	}
	if chooser == nil {
		return newOutcome([]models.Host{}), nil
	}
	n, err := chooser.Choose(out.Disambiguation)
	if err != nil {
		return newOutcome([]models.Host{}), err
	}
	return out.Disambiguation.Select(n), nil
}
