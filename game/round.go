/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package game implements the guessing engine: episode and frame selection,
// the round state machine, guess evaluation and the best-score watermark.
// Nothing in here does I/O; every visible change goes through a Presenter.
package game

import (
	"errors"
	"math/rand/v2"
)

var (
	ErrInvalidSelection = errors.New("please select an episode from the list")
	ErrNoJokers         = errors.New("no jokers left")
	ErrNotPlaying       = errors.New("no round in play")
	ErrUnknownLanguage  = errors.New("unknown language")
)

type Phase int

const (
	Playing Phase = iota
	AwaitingContinue
	GameOver
	// Paused means no season is enabled. Guesses and jokers are ignored until
	// a non-empty filter is set.
	Paused
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case AwaitingContinue:
		return "awaiting_continue"
	case GameOver:
		return "game_over"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Catalog is the read-only data the Machine plays from.
type Catalog interface {
	SeasonIDs() []string
	FilterSeasons(seasonIDs []string) []string
	AllowedEpisodes(seasonIDs []string) []string
	EpisodeImages(episode string) []string
	EpisodeName(lang, episode string) string
	HasLanguage(lang string) bool
	DefaultLanguage() string
}

type Options struct {
	StartingLives  int
	StartingJokers int
	JokerThreshold int
	JokerGrant     int

	// Rand drives every random draw. Nil seeds a fresh PCG source.
	Rand *rand.Rand
}

func DefaultOptions() Options {
	return Options{
		StartingLives:  3,
		StartingJokers: 5,
		JokerThreshold: 30,
		JokerGrant:     3,
	}
}

// Setup carries persisted player preferences into a new Machine.
type Setup struct {
	Seasons      []string
	Language     string
	BestScore    int
	HasBestScore bool
}

// State is a snapshot of the Machine.
type State struct {
	Score         int
	Lives         int
	Jokers        int
	Phase         Phase
	TargetEpisode string
	TargetImage   string
	Seasons       []string
	Language      string
	BestScore     int
	Record        bool
}

// Machine owns one player's game. It is not safe for concurrent use; callers
// serialise events.
type Machine struct {
	cat  Catalog
	opts Options
	sel  *Selector
	out  Presenter
	best *HighScore

	seasons  []string
	allowed  []string
	language string

	score   int
	lives   int
	jokers  int
	phase   Phase
	episode string
	image   string

	// guessed is the wrong answer that ended the round, kept until the next
	// round is drawn.
	guessed string
}

// NewMachine starts in Playing with the first round already drawn. Nothing is
// sent to out until Sync or the first event.
func NewMachine(cat Catalog, out Presenter, opts Options, setup Setup) *Machine {
	if out == nil {
		out = NopPresenter{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	m := &Machine{
		cat:      cat,
		opts:     opts,
		sel:      NewSelector(rng),
		out:      NopPresenter{},
		best:     NewHighScore(setup.BestScore, setup.HasBestScore),
		language: cat.DefaultLanguage(),
	}

	if setup.Language != "" && cat.HasLanguage(setup.Language) {
		m.language = setup.Language
	}

	seasons := cat.FilterSeasons(setup.Seasons)
	if len(seasons) == 0 {
		seasons = cat.SeasonIDs()
	}
	m.SetSeasonFilter(seasons)
	m.best.Observe(m.score)

	m.out = out
	return m
}

// Sync replays the current state to the presenter, including the pending
// wrong guess while a round waits to be continued.
func (m *Machine) Sync() {
	m.out.ScoreChanged(m.score)
	m.out.LivesChanged(m.lives)
	m.out.JokersChanged(m.jokers)
	m.out.BestScoreChanged(m.best.Best(), m.best.Record())

	switch m.phase {
	case Paused:
		m.out.FilterEmpty()
	case AwaitingContinue:
		m.out.RoundAdvanced(m.image)
		m.out.IncorrectGuess(m.name(m.episode), m.name(m.guessed), m.lives)
	case GameOver:
		m.out.RoundAdvanced(m.image)
		m.out.IncorrectGuess(m.name(m.episode), m.name(m.guessed), m.lives)
		m.out.GameOver()
	default:
		m.out.RoundAdvanced(m.image)
	}
}

func (m *Machine) State() State {
	return State{
		Score:         m.score,
		Lives:         m.lives,
		Jokers:        m.jokers,
		Phase:         m.phase,
		TargetEpisode: m.episode,
		TargetImage:   m.image,
		Seasons:       append([]string(nil), m.seasons...),
		Language:      m.language,
		BestScore:     m.best.Best(),
		Record:        m.best.Record(),
	}
}

func (m *Machine) Phase() Phase { return m.phase }

// Allowed returns the episodes of the enabled seasons.
func (m *Machine) Allowed() []string {
	return append([]string(nil), m.allowed...)
}

func (m *Machine) Language() string { return m.language }

// Recent exposes the recency window, oldest first.
func (m *Machine) Recent() []string { return m.sel.Recent() }

// RecencyCap is the current recency window capacity.
func (m *Machine) RecencyCap() int { return m.sel.RecencyCap() }

// JokerSession is how many frames the current joker session has shown.
func (m *Machine) JokerSession() int { return m.sel.JokerShown() }

// SubmitGuess evaluates a guessed episode id. Outside Playing it does nothing
// and returns ErrNotPlaying. Invalid selections return ErrInvalidSelection and
// leave the state untouched.
func (m *Machine) SubmitGuess(episode string) (Outcome, error) {
	if m.phase != Playing {
		return Outcome{}, ErrNotPlaying
	}

	o := Evaluate(m.allowed, m.episode, episode, m.name)

	switch o.Kind {
	case InvalidSelection:
		return o, ErrInvalidSelection

	case Correct:
		m.score++
		m.out.ScoreChanged(m.score)
		if m.opts.JokerThreshold > 0 && m.score%m.opts.JokerThreshold == 0 {
			m.jokers += m.opts.JokerGrant
			m.out.JokersChanged(m.jokers)
		}
		m.observeBest()
		m.advance()

	case Incorrect:
		m.guessed = episode
		m.lives--
		m.out.LivesChanged(m.lives)
		if m.lives > 0 {
			m.phase = AwaitingContinue
		} else {
			m.lives = 0
			m.phase = GameOver
		}
		m.out.IncorrectGuess(o.CorrectName, o.GuessedName, m.lives)
		if m.phase == GameOver {
			m.out.GameOver()
		}
		m.observeBest()
	}

	return o, nil
}

// UseJoker spends a joker to show another frame of the same episode.
func (m *Machine) UseJoker() (string, error) {
	if m.phase != Playing {
		return "", ErrNotPlaying
	}
	if m.jokers <= 0 {
		return "", ErrNoJokers
	}

	m.jokers--
	m.out.JokersChanged(m.jokers)

	m.image = m.sel.DrawJoker(m.episode, m.image, m.cat.EpisodeImages(m.episode))
	m.out.ImageChanged(m.image)

	return m.image, nil
}

// ContinueRound draws a new round after a wrong guess. It reports false and
// does nothing unless the Machine is awaiting continue.
func (m *Machine) ContinueRound() bool {
	if m.phase != AwaitingContinue {
		return false
	}
	m.advance()
	return true
}

// RestartGame starts over after a game over. It reports false and does
// nothing in any other phase.
func (m *Machine) RestartGame() bool {
	if m.phase != GameOver {
		return false
	}
	m.reset()
	return true
}

// SetSeasonFilter replaces the enabled seasons and restarts the game from
// scratch, whatever the phase. A filter with no known season pauses the
// Machine instead and reports false.
func (m *Machine) SetSeasonFilter(seasonIDs []string) bool {
	seasons := m.cat.FilterSeasons(seasonIDs)
	if len(seasons) == 0 {
		m.seasons = nil
		m.allowed = nil
		m.phase = Paused
		m.out.FilterEmpty()
		return false
	}

	m.seasons = seasons
	m.allowed = m.cat.AllowedEpisodes(seasons)
	m.reset()
	return true
}

func (m *Machine) SetLanguage(lang string) error {
	if !m.cat.HasLanguage(lang) {
		return ErrUnknownLanguage
	}
	m.language = lang
	return nil
}

// EpisodeName is the display name of an episode in the current language.
func (m *Machine) EpisodeName(episode string) string {
	return m.name(episode)
}

func (m *Machine) name(episode string) string {
	return m.cat.EpisodeName(m.language, episode)
}

func (m *Machine) reset() {
	m.score = 0
	m.lives = m.opts.StartingLives
	m.jokers = m.opts.StartingJokers
	m.sel.Reset(m.allowed)
	m.best.ClearRecord()

	m.out.ScoreChanged(m.score)
	m.out.LivesChanged(m.lives)
	m.out.JokersChanged(m.jokers)
	m.out.BestScoreChanged(m.best.Best(), m.best.Record())

	m.advance()
}

func (m *Machine) advance() {
	m.episode = m.sel.NextEpisode()
	m.image = m.sel.DrawImage(m.cat.EpisodeImages(m.episode))
	m.guessed = ""
	m.phase = Playing
	m.out.RoundAdvanced(m.image)
}

func (m *Machine) observeBest() {
	if m.best.Observe(m.score) {
		m.out.BestScoreChanged(m.best.Best(), m.best.Record())
	}
}
