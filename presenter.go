/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"net/url"
	"time"

	"github.com/Seednode/frameguess/catalog"
	"github.com/Seednode/frameguess/store"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string   `json:"type"`               // "guess", "joker", "continue", "restart", "seasons", "language", "sync"
	Episode  string   `json:"episode,omitempty"`  // guess
	Query    string   `json:"query,omitempty"`    // guess, typed title
	Seasons  []string `json:"seasons,omitempty"`  // seasons
	Language string   `json:"language,omitempty"` // language
}

// SimpleMessage is for notifications with no payload beyond text
// ("loading", "invalid_selection", "no_jokers", "game_over", "filter_empty").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type SeasonOption struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// SessionInfoMessage tells clients which seasons and languages exist and
// which of them are selected.
type SessionInfoMessage struct {
	Type      string         `json:"type"` // "session_info"
	GameID    string         `json:"game_id"`
	IsOwner   bool           `json:"is_owner"`
	Seasons   []SeasonOption `json:"seasons"`
	Languages []string       `json:"languages"`
	Language  string         `json:"language"`
}

type EpisodeOption struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Season string `json:"season"`
}

// EpisodesMessage is the guess list: the enabled episodes named in the
// selected language.
type EpisodesMessage struct {
	Type     string          `json:"type"` // "episodes"
	Language string          `json:"language"`
	Episodes []EpisodeOption `json:"episodes"`
}

type ImageMessage struct {
	Type  string `json:"type"` // "round" or "image"
	Image string `json:"image"`
}

type CountMessage struct {
	Type  string `json:"type"` // "score", "lives" or "jokers"
	Count int    `json:"count"`
}

type IncorrectMessage struct {
	Type        string `json:"type"` // "incorrect"
	CorrectName string `json:"correct_name"`
	GuessedName string `json:"guessed_name"`
	LivesLeft   int    `json:"lives_left"`
}

type BestScoreMessage struct {
	Type   string `json:"type"` // "best_score"
	Best   int    `json:"best"`
	Record bool   `json:"record"`
}

// sessionPresenter turns machine events into broadcasts. Every method runs
// with the session lock held.
type sessionPresenter struct {
	cfg       *Config
	s         *Session
	persisted int
}

func (p *sessionPresenter) frameURL(image string) string {
	if image == "" {
		return ""
	}
	return p.cfg.prefix + "/frames/" + url.PathEscape(image)
}

func (p *sessionPresenter) RoundAdvanced(image string) {
	p.s.broadcastLocked(ImageMessage{Type: "round", Image: p.frameURL(image)})
}

func (p *sessionPresenter) ImageChanged(image string) {
	p.s.broadcastLocked(ImageMessage{Type: "image", Image: p.frameURL(image)})
}

func (p *sessionPresenter) ScoreChanged(score int) {
	p.s.broadcastLocked(CountMessage{Type: "score", Count: score})
}

func (p *sessionPresenter) LivesChanged(lives int) {
	p.s.broadcastLocked(CountMessage{Type: "lives", Count: lives})
}

func (p *sessionPresenter) JokersChanged(jokers int) {
	p.s.broadcastLocked(CountMessage{Type: "jokers", Count: jokers})
}

func (p *sessionPresenter) IncorrectGuess(correctName, guessedName string, livesLeft int) {
	p.s.broadcastLocked(IncorrectMessage{
		Type:        "incorrect",
		CorrectName: correctName,
		GuessedName: guessedName,
		LivesLeft:   livesLeft,
	})
}

func (p *sessionPresenter) GameOver() {
	p.s.broadcastLocked(SimpleMessage{Type: "game_over", Message: "Game over!"})
}

func (p *sessionPresenter) FilterEmpty() {
	p.s.broadcastLocked(SimpleMessage{Type: "filter_empty", Message: "Select at least one season to keep playing."})
}

func (p *sessionPresenter) BestScoreChanged(best int, record bool) {
	if best != p.persisted && p.s.prefs != nil && p.s.ownerID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		err := store.SaveBestScore(ctx, p.s.prefs, p.s.ownerID, best)
		cancel()
		if err != nil {
			logf(p.cfg, "STORE: ERROR: saving best score for %s: %v", p.s.id, err)
		} else {
			p.persisted = best
		}
	}

	p.s.broadcastLocked(BestScoreMessage{Type: "best_score", Best: best, Record: record})
}

func seasonOptions(cat *catalog.Catalog, enabled []string) []SeasonOption {
	on := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		on[id] = true
	}

	ids := cat.SeasonIDs()
	opts := make([]SeasonOption, 0, len(ids))
	for _, id := range ids {
		opts = append(opts, SeasonOption{
			ID:      id,
			Label:   catalog.SeasonLabel(id),
			Enabled: on[id],
		})
	}
	return opts
}

func episodeOptions(cat *catalog.Catalog, lang string, allowed []string) []EpisodeOption {
	opts := make([]EpisodeOption, 0, len(allowed))
	for _, ep := range allowed {
		season, _ := cat.SeasonOf(ep)
		opts = append(opts, EpisodeOption{
			ID:     ep,
			Name:   cat.EpisodeName(lang, ep),
			Season: season,
		})
	}
	return opts
}

const storeTimeout = 2 * time.Second
