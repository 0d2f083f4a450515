/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

// fakeCatalog is a minimal in-memory Catalog.
type fakeCatalog struct {
	seasons []string
	eps     map[string][]string
	images  map[string][]string
	langs   []string
}

func newFakeCatalog(seasons map[string]int, order []string, framesPerEpisode int) *fakeCatalog {
	c := &fakeCatalog{
		seasons: order,
		eps:     make(map[string][]string),
		images:  make(map[string][]string),
		langs:   []string{"English", "German"},
	}
	for _, s := range order {
		for i := 1; i <= seasons[s]; i++ {
			ep := fmt.Sprintf("%sE%02d", s, i)
			c.eps[s] = append(c.eps[s], ep)
			for j := 1; j <= framesPerEpisode; j++ {
				c.images[ep] = append(c.images[ep], fmt.Sprintf("%s-%d.jpg", ep, j))
			}
		}
	}
	return c
}

func (c *fakeCatalog) SeasonIDs() []string { return append([]string(nil), c.seasons...) }

func (c *fakeCatalog) FilterSeasons(ids []string) []string {
	var out []string
	for _, s := range c.seasons {
		if slices.Contains(ids, s) {
			out = append(out, s)
		}
	}
	return out
}

func (c *fakeCatalog) AllowedEpisodes(ids []string) []string {
	var out []string
	for _, s := range c.FilterSeasons(ids) {
		out = append(out, c.eps[s]...)
	}
	return out
}

func (c *fakeCatalog) EpisodeImages(ep string) []string { return c.images[ep] }

func (c *fakeCatalog) EpisodeName(lang, ep string) string { return lang + ":" + ep }

func (c *fakeCatalog) HasLanguage(lang string) bool { return slices.Contains(c.langs, lang) }

func (c *fakeCatalog) DefaultLanguage() string { return c.langs[0] }

// recorder captures presenter calls in order.
type recorder struct {
	events []string
	images []string
	best   int
	record bool
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) RoundAdvanced(image string) {
	r.images = append(r.images, image)
	r.add("round")
}
func (r *recorder) ImageChanged(image string) {
	r.images = append(r.images, image)
	r.add("image")
}
func (r *recorder) ScoreChanged(score int)   { r.add("score %d", score) }
func (r *recorder) LivesChanged(lives int)   { r.add("lives %d", lives) }
func (r *recorder) JokersChanged(jokers int) { r.add("jokers %d", jokers) }
func (r *recorder) IncorrectGuess(correct, guessed string, lives int) {
	r.add("incorrect %s %s %d", correct, guessed, lives)
}
func (r *recorder) GameOver()    { r.add("game over") }
func (r *recorder) FilterEmpty() { r.add("filter empty") }
func (r *recorder) BestScoreChanged(best int, record bool) {
	r.best, r.record = best, record
	r.add("best %d %v", best, record)
}

func (r *recorder) has(event string) bool {
	return slices.Contains(r.events, event)
}

func (r *recorder) reset() {
	r.events = nil
	r.images = nil
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newTestMachine(t *testing.T, c Catalog, seed uint64) (*Machine, *recorder) {
	t.Helper()

	opts := DefaultOptions()
	opts.Rand = seeded(seed)
	rec := &recorder{}
	return NewMachine(c, rec, opts, Setup{}), rec
}

// wrongGuess returns an allowed episode that is not the current target.
func wrongGuess(t *testing.T, m *Machine) string {
	t.Helper()

	target := m.State().TargetEpisode
	for _, ep := range m.Allowed() {
		if ep != target {
			return ep
		}
	}
	t.Fatal("no wrong guess available")
	return ""
}
