/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package catalog holds the read-only episode catalog: which episodes belong
// to which season, which frames belong to which episode, and the localized
// episode titles.
package catalog

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	ErrInvalidCatalog  = errors.New("invalid catalog")
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownEpisode  = errors.New("unknown episode")
)

// Season is one entry of the ordered season list.
type Season struct {
	ID       string   `json:"id" yaml:"id"`
	Episodes []string `json:"episodes" yaml:"episodes"`
}

// Catalog is immutable once returned by New.
type Catalog struct {
	seasons   []Season
	images    map[string][]string
	titles    map[string]map[string]string
	languages []string
	seasonOf  map[string]string
}

// New validates and copies its inputs. Languages keep the order given; a nil
// order falls back to sorted title keys, with "English" first when present.
func New(seasons []Season, images map[string][]string, titles map[string]map[string]string, languages []string) (*Catalog, error) {
	if len(seasons) == 0 {
		return nil, fmt.Errorf("%w: no seasons", ErrInvalidCatalog)
	}

	c := &Catalog{
		seasons:  make([]Season, 0, len(seasons)),
		images:   make(map[string][]string),
		titles:   make(map[string]map[string]string, len(titles)),
		seasonOf: make(map[string]string),
	}

	seenSeasons := make(map[string]bool, len(seasons))
	for _, s := range seasons {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: season with empty id", ErrInvalidCatalog)
		}
		if seenSeasons[s.ID] {
			return nil, fmt.Errorf("%w: duplicate season %q", ErrInvalidCatalog, s.ID)
		}
		seenSeasons[s.ID] = true

		if len(s.Episodes) == 0 {
			return nil, fmt.Errorf("%w: season %q has no episodes", ErrInvalidCatalog, s.ID)
		}

		for _, ep := range s.Episodes {
			if prev, ok := c.seasonOf[ep]; ok {
				return nil, fmt.Errorf("%w: episode %q listed in %q and %q", ErrInvalidCatalog, ep, prev, s.ID)
			}
			frames := images[ep]
			if len(frames) == 0 {
				return nil, fmt.Errorf("%w: episode %q has no images", ErrInvalidCatalog, ep)
			}
			c.seasonOf[ep] = s.ID
			c.images[ep] = append([]string(nil), frames...)
		}

		c.seasons = append(c.seasons, Season{
			ID:       s.ID,
			Episodes: append([]string(nil), s.Episodes...),
		})
	}

	for lang, names := range titles {
		copied := make(map[string]string, len(names))
		for ep, name := range names {
			copied[ep] = name
		}
		c.titles[lang] = copied
	}

	if languages == nil {
		languages = sortedLanguages(titles)
	}
	for _, lang := range languages {
		if _, ok := c.titles[lang]; !ok {
			return nil, fmt.Errorf("%w: language %q has no titles", ErrInvalidCatalog, lang)
		}
		c.languages = append(c.languages, lang)
	}

	return c, nil
}

// Seasons returns the seasons in catalog order.
func (c *Catalog) Seasons() []Season {
	out := make([]Season, len(c.seasons))
	for i, s := range c.seasons {
		out[i] = Season{ID: s.ID, Episodes: append([]string(nil), s.Episodes...)}
	}
	return out
}

func (c *Catalog) SeasonIDs() []string {
	ids := make([]string, len(c.seasons))
	for i, s := range c.seasons {
		ids[i] = s.ID
	}
	return ids
}

func (c *Catalog) HasSeason(id string) bool {
	for _, s := range c.seasons {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SeasonOf reports which season an episode belongs to.
func (c *Catalog) SeasonOf(episode string) (string, bool) {
	s, ok := c.seasonOf[episode]
	return s, ok
}

// EpisodeImages returns the ordered frames of an episode, or nil if the
// episode is unknown.
func (c *Catalog) EpisodeImages(episode string) []string {
	return c.images[episode]
}

// EpisodeName falls back to the episode id when the language has no title
// for it.
func (c *Catalog) EpisodeName(lang, episode string) string {
	if name, ok := c.titles[lang][episode]; ok && name != "" {
		return name
	}
	return episode
}

func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

func (c *Catalog) HasLanguage(lang string) bool {
	_, ok := c.titles[lang]
	return ok
}

// DefaultLanguage is the first available language.
func (c *Catalog) DefaultLanguage() string {
	if len(c.languages) == 0 {
		return ""
	}
	return c.languages[0]
}

// Episodes returns every episode in season order.
func (c *Catalog) Episodes() []string {
	return c.AllowedEpisodes(c.SeasonIDs())
}

// AllowedEpisodes concatenates the episodes of the enabled seasons, in
// catalog season order. Unknown season ids are ignored.
func (c *Catalog) AllowedEpisodes(seasonIDs []string) []string {
	enabled := make(map[string]bool, len(seasonIDs))
	for _, id := range seasonIDs {
		enabled[id] = true
	}

	var out []string
	for _, s := range c.seasons {
		if enabled[s.ID] {
			out = append(out, s.Episodes...)
		}
	}
	return out
}

// FilterSeasons drops unknown and duplicate ids and returns the rest in
// catalog order.
func (c *Catalog) FilterSeasons(seasonIDs []string) []string {
	enabled := make(map[string]bool, len(seasonIDs))
	for _, id := range seasonIDs {
		enabled[id] = true
	}

	out := make([]string, 0, len(seasonIDs))
	for _, s := range c.seasons {
		if enabled[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

// SeasonLabel turns "S01" into "Season 01" for display.
func SeasonLabel(id string) string {
	if len(id) > 1 && id[0] == 'S' && isDigits(id[1:]) {
		return "Season " + id[1:]
	}
	return id
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
