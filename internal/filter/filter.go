// Package filter narrows a host collection by status, BMC presence, text
// fields and platform.
//
// Platform filtering may need a human decision. Apply never blocks on one:
// when the platform query is ambiguous it returns an empty Outcome carrying a
// Disambiguation, and the caller feeds the user's choice back through
// Disambiguation.Select. Run glues the two steps together for callers that
// have a Chooser.
package filter

import (
	"strings"

	"evalgo.org/labops/internal/match"
	"evalgo.org/labops/models"
)

// Options selects which predicates are active. Zero values are no-ops.
// BMCOnly and NoBMCOnly are mutually exclusive; BMCOnly wins if both are set.
type Options struct {
	Status        string
	BMCOnly       bool
	NoBMCOnly     bool
	Hostname      string
	UsageType     string
	Location      string
	CheckoutOwner string
	Search        string
	Platform      string
}

// Outcome is the filtered host set. Count always equals len(Hosts).
type Outcome struct {
	Hosts []models.Host
	Count int

	// Disambiguation is set when the platform query needs a choice. Hosts is
	// empty until Select is called.
	Disambiguation *Disambiguation
}

func newOutcome(hosts []models.Host) Outcome {
	return Outcome{Hosts: hosts, Count: len(hosts)}
}

// Apply runs every predicate in order; each step sees only what survived the
// previous one.
func Apply(hosts []models.Host, opts Options) Outcome {
	survivors := byStatus(hosts, opts.Status)
	survivors = byBMC(survivors, opts.BMCOnly, opts.NoBMCOnly)
	survivors = byText(survivors, opts)

	if opts.Platform == "" {
		return newOutcome(survivors)
	}
	return byPlatform(survivors, opts.Platform)
}

func byStatus(hosts []models.Host, status string) []models.Host {
	if status == "" {
		return hosts
	}
	return keep(hosts, func(h models.Host) bool {
		return strings.EqualFold(string(h.Status), status)
	})
}

func byBMC(hosts []models.Host, bmcOnly, noBMCOnly bool) []models.Host {
	switch {
	case bmcOnly:
		return keep(hosts, models.Host.HasBMC)
	case noBMCOnly:
		return keep(hosts, func(h models.Host) bool { return !h.HasBMC() })
	default:
		return hosts
	}
}

func byText(hosts []models.Host, opts Options) []models.Host {
	hosts = contains(hosts, opts.Hostname, func(h models.Host) []string { return []string{h.Hostname} })
	hosts = contains(hosts, opts.UsageType, func(h models.Host) []string { return []string{string(h.UsageType)} })
	hosts = contains(hosts, opts.Location, func(h models.Host) []string { return []string{h.Location} })
	hosts = contains(hosts, opts.CheckoutOwner, func(h models.Host) []string { return []string{h.CheckoutOwner} })
	return contains(hosts, opts.Search, searchFields)
}

func searchFields(h models.Host) []string {
	return []string{
		h.AssetID, h.HardwareID, h.Hostname, h.Platform, h.Location,
		string(h.Status), string(h.UsageType), h.CheckoutOwner,
		h.ConsoleIP, h.LanIP,
	}
}

// contains keeps hosts where any field holds needle, ignoring case.
func contains(hosts []models.Host, needle string, fields func(models.Host) []string) []models.Host {
	if needle == "" {
		return hosts
	}
	needle = strings.ToLower(needle)
	return keep(hosts, func(h models.Host) bool {
		for _, f := range fields(h) {
			if f != "" && strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	})
}

func byPlatform(hosts []models.Host, query string) Outcome {
	res := match.Resolve(query, Platforms(hosts))

	switch res.Kind {
	case match.Exact:
		name := res.Matches[0].Name
		return newOutcome(keep(hosts, func(h models.Host) bool {
			return strings.EqualFold(h.Platform, name)
		}))
	case match.Suggestions:
		return Outcome{
			Hosts:          []models.Host{},
			Disambiguation: newDisambiguation(query, res, hosts),
		}
	default:
		return newOutcome([]models.Host{})
	}
}

// Platforms returns the distinct non-empty platforms present in hosts.
func Platforms(hosts []models.Host) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, h := range hosts {
		if h.Platform == "" {
			continue
		}
		if _, ok := seen[h.Platform]; ok {
			continue
		}
		seen[h.Platform] = struct{}{}
		out = append(out, h.Platform)
	}
	return out
}

func keep(hosts []models.Host, pred func(models.Host) bool) []models.Host {
	out := make([]models.Host, 0, len(hosts))
	for _, h := range hosts {
		if pred(h) {
			out = append(out, h)
		}
	}
	return out
}
