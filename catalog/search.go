/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Match is one title search hit.
type Match struct {
	Episode string  `json:"episode"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Source  string  `json:"-"`
}

// Suggest ranks the episodes in allowed against a typed query using the titles
// of lang. Exact matches beat prefixes, prefixes beat substrings, and
// substrings beat small edit distances.
func (c *Catalog) Suggest(lang, query string, allowed []string, limit int) []Match {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var hits []Match
	for _, ep := range allowed {
		name := c.EpisodeName(lang, ep)
		if m, ok := scoreTitle(q, ep, name); ok {
			hits = append(hits, m)
		}
	}

	order := make(map[string]int, len(allowed))
	for i, ep := range allowed {
		order[ep] = i
	}
	slices.SortStableFunc(hits, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return order[a.Episode] - order[b.Episode]
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Resolve maps a typed query to a single episode id. A query only resolves
// when no other episode scores the same, exact title matches included.
func (c *Catalog) Resolve(lang, query string, allowed []string) (string, bool) {
	hits := c.Suggest(lang, query, allowed, 0)
	if len(hits) == 0 {
		return "", false
	}
	best := hits[0]
	if len(hits) > 1 && hits[1].Score == best.Score {
		return "", false
	}
	return best.Episode, true
}

func scoreTitle(q, episode, name string) (Match, bool) {
	m := Match{Episode: episode, Name: name}

	id := normalize(episode)
	full := normalize(name)
	title := normalize(titlePart(name))
	runes := utf8.RuneCountInString(q)

	switch {
	case q == id || q == full || q == title:
		m.Score, m.Source = 1, "exact"
	case runes >= 2 && (strings.HasPrefix(title, q) || strings.HasPrefix(full, q)):
		m.Score, m.Source = 0.9, "prefix"
	case runes >= 3 && strings.Contains(full, q):
		m.Score, m.Source = 0.8, "contains"
	case runes >= 3:
		dist := levenshtein.ComputeDistance(q, title)
		if dist > levenshteinLimit(utf8.RuneCountInString(title)) {
			return m, false
		}
		m.Score, m.Source = 0.72-(0.08*float64(dist)), "lev"
	default:
		return m, false
	}
	return m, true
}

// titlePart strips a leading "S01E01: " episode code from a display name.
func titlePart(name string) string {
	if i := strings.Index(name, ": "); i >= 0 {
		return name[i+2:]
	}
	return name
}

func normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
