/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package store persists per-player preferences: best score, selected seasons
// and selected language.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("not found")

const (
	KeyBestScore = "high-score"
	KeySeasons   = "selected-seasons"
	KeyLanguage  = "selected-language"
)

// Store is a string key-value store namespaced by player id.
type Store interface {
	Get(ctx context.Context, player, key string) (string, error)
	Set(ctx context.Context, player, key, value string) error
	Close() error
}

// Open picks a backend: Redis when redisURL is set, SQLite when database is
// set, otherwise memory.
func Open(ctx context.Context, database, redisURL string) (Store, error) {
	switch {
	case database != "" && redisURL != "":
		return nil, errors.New("only one of database and redis url may be set")
	case redisURL != "":
		r, err := OpenRedis(ctx, redisURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	case database != "":
		s, err := OpenSQLite(database)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return NewMemory(), nil
	}
}

// Prefs is the typed view of one player's keys. Missing keys leave the
// matching Has field false.
type Prefs struct {
	BestScore    int
	HasBestScore bool
	Seasons      []string
	HasSeasons   bool
	Language     string
}

func LoadPrefs(ctx context.Context, s Store, player string) (Prefs, error) {
	var p Prefs

	v, err := s.Get(ctx, player, KeyBestScore)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return p, fmt.Errorf("load %s: %w", KeyBestScore, err)
	default:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n >= 0 {
			p.BestScore, p.HasBestScore = n, true
		}
	}

	v, err = s.Get(ctx, player, KeySeasons)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return p, fmt.Errorf("load %s: %w", KeySeasons, err)
	default:
		var seasons []string
		if json.Unmarshal([]byte(v), &seasons) == nil && seasons != nil {
			p.Seasons, p.HasSeasons = seasons, true
		}
	}

	v, err = s.Get(ctx, player, KeyLanguage)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return p, fmt.Errorf("load %s: %w", KeyLanguage, err)
	default:
		p.Language = v
	}

	return p, nil
}

func SaveBestScore(ctx context.Context, s Store, player string, score int) error {
	return s.Set(ctx, player, KeyBestScore, strconv.Itoa(score))
}

func SaveSeasons(ctx context.Context, s Store, player string, seasons []string) error {
	if seasons == nil {
		seasons = []string{}
	}
	data, err := json.Marshal(seasons)
	if err != nil {
		return err
	}
	return s.Set(ctx, player, KeySeasons, string(data))
}

func SaveLanguage(ctx context.Context, s Store, player, language string) error {
	return s.Set(ctx, player, KeyLanguage, language)
}

func checkArgs(player, key string) error {
	if strings.TrimSpace(player) == "" {
		return errors.New("player id is required")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}
	return nil
}
