/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"math"
	"math/rand/v2"
	"slices"
)

const (
	recencyRatio = 0.2

	// recordChance is the probability that a drawn episode enters the recency
	// window. Only recording some draws keeps players from working out which
	// episodes cannot come up next.
	recordChance = 0.5

	// maxJokerDraws bounds the rejection loop in DrawJoker.
	maxJokerDraws = 64
)

// Selector picks target episodes and frames. It owns the recency window and
// the joker session.
type Selector struct {
	rng *rand.Rand

	allowed []string
	recent  []string

	jokerEpisode string
	jokerShown   map[string]bool
}

func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{
		rng:        rng,
		jokerShown: make(map[string]bool),
	}
}

// Reset swaps in a new allowed episode list and clears the recency window.
func (s *Selector) Reset(allowed []string) {
	s.allowed = append(s.allowed[:0], allowed...)
	s.recent = s.recent[:0]
	s.resetJoker("")
}

// RecencyCap is ceil(0.2 × |allowed|).
func (s *Selector) RecencyCap() int {
	return int(math.Ceil(recencyRatio * float64(len(s.allowed))))
}

// Recent returns a copy of the recency window, oldest first.
func (s *Selector) Recent() []string {
	return append([]string(nil), s.recent...)
}

// NextEpisode draws uniformly among allowed episodes outside the recency
// window, falling back to all allowed episodes when the window covers them.
func (s *Selector) NextEpisode() string {
	if len(s.allowed) == 0 {
		return ""
	}

	candidates := make([]string, 0, len(s.allowed))
	for _, ep := range s.allowed {
		if !slices.Contains(s.recent, ep) {
			candidates = append(candidates, ep)
		}
	}
	if len(candidates) == 0 {
		candidates = s.allowed
	}

	ep := candidates[s.rng.IntN(len(candidates))]

	if s.rng.Float64() < recordChance {
		s.remember(ep)
	}

	s.resetJoker(ep)

	return ep
}

func (s *Selector) remember(ep string) {
	if slices.Contains(s.recent, ep) {
		return
	}

	limit := s.RecencyCap()
	if limit == 0 {
		return
	}
	for len(s.recent) >= limit {
		s.recent = s.recent[1:]
	}
	s.recent = append(s.recent, ep)
}

// DrawImage picks any frame of the episode.
func (s *Selector) DrawImage(frames []string) string {
	if len(frames) == 0 {
		return ""
	}
	return frames[s.rng.IntN(len(frames))]
}

// DrawJoker adds the frame currently on screen to the joker session and draws
// a frame the session has not shown yet. A session holding every frame is
// cleared first, so single-frame episodes always return the same frame.
func (s *Selector) DrawJoker(episode, current string, frames []string) string {
	if len(frames) == 0 {
		return current
	}
	if episode != s.jokerEpisode {
		s.resetJoker(episode)
	}

	s.jokerShown[current] = true
	if s.jokerFull(frames) {
		clear(s.jokerShown)
	}

	for range maxJokerDraws {
		img := frames[s.rng.IntN(len(frames))]
		if !s.jokerShown[img] {
			return img
		}
	}

	unseen := make([]string, 0, len(frames))
	for _, f := range frames {
		if !s.jokerShown[f] {
			unseen = append(unseen, f)
		}
	}
	return unseen[s.rng.IntN(len(unseen))]
}

// JokerShown is the number of frames in the current joker session.
func (s *Selector) JokerShown() int {
	return len(s.jokerShown)
}

func (s *Selector) jokerFull(frames []string) bool {
	for _, f := range frames {
		if !s.jokerShown[f] {
			return false
		}
	}
	return true
}

func (s *Selector) resetJoker(episode string) {
	s.jokerEpisode = episode
	clear(s.jokerShown)
}
