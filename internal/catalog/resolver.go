// Package catalog resolves loosely spelled model names against the set of
// model packages discovered in qai_hub_models.
package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// NotFoundMsg is the error message recorded on results for names that
// resolve to nothing. The exact wording is part of the CLI contract.
const NotFoundMsg = "Model not found in qai_hub_models"

// Normalize lowercases a requested name and turns hyphens and periods into
// underscores, the spelling qai_hub_models uses for package names.
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.ReplaceAll(n, ".", "_")
	return n
}

// Resolver resolves requested names against a discovered catalog.
type Resolver struct {
	available map[string]struct{}
	sorted    []string
	aliases   map[string]string
}

// NewResolver builds a Resolver over the available catalog entries. The
// alias table defaults to the built-in one when nil.
func NewResolver(available []string, aliasTable map[string]string) *Resolver {
	if aliasTable == nil {
		aliasTable = Aliases(nil)
	}
	set := make(map[string]struct{}, len(available))
	sorted := make([]string, 0, len(available))
	for _, m := range available {
		if _, dup := set[m]; dup {
			continue
		}
		set[m] = struct{}{}
		sorted = append(sorted, m)
	}
	sort.Strings(sorted)
	return &Resolver{available: set, sorted: sorted, aliases: aliasTable}
}

// Resolve maps a requested name to a catalog entry. Priority order, first
// match wins: exact normalized match, alias lookup of the hyphenated
// spelling, alias lookup of the normalized spelling, substring fuzzy match.
// The fuzzy step scans the catalog in sorted order and commits to the first
// entry where either string contains the other; ties are deterministic by
// that order.
func (r *Resolver) Resolve(requested string) (string, bool) {
	normalized := Normalize(requested)

	if _, ok := r.available[normalized]; ok {
		return normalized, true
	}

	aliasKey := strings.ReplaceAll(strings.ToLower(requested), "_", "-")
	if resolved, ok := r.aliases[aliasKey]; ok {
		if _, present := r.available[resolved]; present {
			return resolved, true
		}
	}

	if resolved, ok := r.aliases[normalized]; ok {
		if _, present := r.available[resolved]; present {
			return resolved, true
		}
	}

	for _, model := range r.sorted {
		if strings.Contains(model, normalized) || strings.Contains(normalized, model) {
			return model, true
		}
	}

	return "", false
}

// maxSuggestDistance bounds how far a near-miss may be from a catalog entry
// before we stop suggesting it.
const maxSuggestDistance = 5

// Suggest returns the catalog entry closest to the requested name by edit
// distance, or "" when nothing is near enough. Used only for diagnostics;
// it never influences resolution.
func (r *Resolver) Suggest(requested string) string {
	normalized := Normalize(requested)
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, model := range r.sorted {
		d := levenshtein.ComputeDistance(normalized, model)
		if d < bestDist {
			best = model
			bestDist = d
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}

// Available returns the catalog entries in sorted order.
func (r *Resolver) Available() []string {
	out := make([]string, len(r.sorted))
	copy(out, r.sorted)
	return out
}
