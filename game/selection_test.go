/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"fmt"
	"slices"
	"testing"
)

func episodes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("e%d", i+1)
	}
	return out
}

func TestRecencyCap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		episodes int
		want     int
	}{
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
		{100, 20},
	}

	for _, tc := range cases {
		s := NewSelector(seeded(1))
		s.Reset(episodes(tc.episodes))
		if got := s.RecencyCap(); got != tc.want {
			t.Fatalf("cap(%d) = %d, want %d", tc.episodes, got, tc.want)
		}
	}
}

func TestNextEpisodeAvoidsRecent(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(2))
	s.Reset(episodes(20))

	for i := 0; i < 500; i++ {
		before := s.Recent()
		ep := s.NextEpisode()
		if slices.Contains(before, ep) {
			t.Fatalf("draw %d: %q was in the recency window %v", i, ep, before)
		}
		if got := len(s.Recent()); got > s.RecencyCap() {
			t.Fatalf("window size %d > cap %d", got, s.RecencyCap())
		}
	}
}

func TestNextEpisodeRecordsAboutHalf(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(3))
	s.Reset(episodes(1000))

	const draws = 300
	for i := 0; i < draws; i++ {
		s.NextEpisode()
	}

	// The cap (200) is never reached, so the window holds every recorded draw.
	got := len(s.Recent())
	if got < draws/4 || got > draws*3/4 {
		t.Fatalf("recorded %d of %d draws, want roughly half", got, draws)
	}
}

func TestNextEpisodeSingleEpisode(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(4))
	s.Reset([]string{"only"})

	for i := 0; i < 20; i++ {
		if ep := s.NextEpisode(); ep != "only" {
			t.Fatalf("episode = %q", ep)
		}
	}
}

func TestResetClearsWindow(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(5))
	s.Reset(episodes(10))
	for i := 0; i < 50; i++ {
		s.NextEpisode()
	}

	s.Reset(episodes(3))
	if len(s.Recent()) != 0 {
		t.Fatalf("window = %v after reset", s.Recent())
	}
}

func TestDrawJokerCyclesThroughFrames(t *testing.T) {
	t.Parallel()

	frames := []string{"a", "b", "c", "d"}
	s := NewSelector(seeded(6))
	s.Reset([]string{"ep"})

	current := "a"
	seen := map[string]bool{current: true}
	cleared := false

	for i := 0; i < len(frames); i++ {
		before := s.JokerShown()
		current = s.DrawJoker("ep", current, frames)
		if !slices.Contains(frames, current) {
			t.Fatalf("frame %q not in episode", current)
		}
		if i < len(frames)-1 && seen[current] {
			t.Fatalf("joker %d repeated %q before the session was exhausted", i, current)
		}
		seen[current] = true
		if s.JokerShown() <= before {
			cleared = true
		}
	}

	if !cleared {
		t.Fatal("joker session never cleared")
	}
}

func TestDrawJokerSingleFrame(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(7))

	for i := 0; i < 5; i++ {
		if got := s.DrawJoker("ep", "only", []string{"only"}); got != "only" {
			t.Fatalf("frame = %q", got)
		}
		if s.JokerShown() != 0 {
			t.Fatalf("session = %d, want cleared every use", s.JokerShown())
		}
	}
}

func TestDrawJokerResetsOnEpisodeChange(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(8))

	s.DrawJoker("ep1", "a", []string{"a", "b", "c"})
	s.DrawJoker("ep2", "x", []string{"x", "y", "z"})

	if got := s.JokerShown(); got != 1 {
		t.Fatalf("session = %d, want only the ep2 frame", got)
	}
}

func TestDrawImageUniform(t *testing.T) {
	t.Parallel()

	s := NewSelector(seeded(9))
	frames := []string{"a", "b", "c"}
	counts := map[string]int{}

	for i := 0; i < 3000; i++ {
		counts[s.DrawImage(frames)]++
	}
	for _, f := range frames {
		if counts[f] < 800 || counts[f] > 1200 {
			t.Fatalf("counts = %v, want roughly uniform", counts)
		}
	}
	if got := s.DrawImage(nil); got != "" {
		t.Fatalf("empty draw = %q", got)
	}
}
