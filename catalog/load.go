/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SeasonKeysFile    = "season-keys.json"
	ImageListFile     = "image-list.json"
	EpisodeTitlesFile = "episode-titles.json"

	englishLanguage = "English"
)

// Bundle is the single-file YAML form of a catalog.
type Bundle struct {
	Seasons   []Season            `yaml:"seasons"`
	Images    map[string][]string `yaml:"images"`
	Languages []BundleLanguage    `yaml:"languages"`
}

type BundleLanguage struct {
	ID     string            `yaml:"id"`
	Titles map[string]string `yaml:"titles"`
}

// Load reads a catalog from either a directory holding the three JSON files
// or a YAML bundle.
func Load(ctx context.Context, path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return LoadFS(ctx, os.DirFS(path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseBundle(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file %q (want a directory or a .yaml bundle)", path)
	}
}

// LoadFS runs the three-step load: season keys, then the image list, then the
// episode titles. Each step checks ctx before reading.
func LoadFS(ctx context.Context, fsys fs.FS) (*Catalog, error) {
	var (
		seasons   []Season
		images    map[string][]string
		titles    map[string]map[string]string
		languages []string
	)

	steps := []struct {
		name string
		run  func(data []byte) error
	}{
		{SeasonKeysFile, func(data []byte) (err error) {
			seasons, err = decodeSeasons(data)
			return err
		}},
		{ImageListFile, func(data []byte) error {
			return json.Unmarshal(data, &images)
		}},
		{EpisodeTitlesFile, func(data []byte) (err error) {
			languages, err = orderedKeys(data)
			if err != nil {
				return err
			}
			return json.Unmarshal(data, &titles)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := fs.ReadFile(fsys, step.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", step.name, err)
		}

		if err := step.run(data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", step.name, err)
		}
	}

	return New(seasons, images, titles, languages)
}

func ParseBundle(data []byte) (*Catalog, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}

	titles := make(map[string]map[string]string, len(b.Languages))
	languages := make([]string, 0, len(b.Languages))
	for _, l := range b.Languages {
		if l.ID == "" {
			return nil, fmt.Errorf("%w: language with empty id", ErrInvalidCatalog)
		}
		titles[l.ID] = l.Titles
		languages = append(languages, l.ID)
	}

	return New(b.Seasons, b.Images, titles, languages)
}

// Bundle returns the YAML bundle form of the catalog.
func (c *Catalog) Bundle() Bundle {
	b := Bundle{
		Seasons: c.Seasons(),
		Images:  make(map[string][]string, len(c.images)),
	}
	for ep, frames := range c.images {
		b.Images[ep] = append([]string(nil), frames...)
	}
	for _, lang := range c.languages {
		b.Languages = append(b.Languages, BundleLanguage{ID: lang, Titles: c.titles[lang]})
	}
	return b
}

func decodeSeasons(data []byte) ([]Season, error) {
	keys, err := orderedKeys(data)
	if err != nil {
		return nil, err
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	seasons := make([]Season, 0, len(keys))
	for _, k := range keys {
		seasons = append(seasons, Season{ID: k, Episodes: raw[k]})
	}
	return seasons, nil
}

// orderedKeys returns the top-level keys of a JSON object in document order.
func orderedKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("expected an object key")
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func sortedLanguages(titles map[string]map[string]string) []string {
	langs := make([]string, 0, len(titles))
	for lang := range titles {
		langs = append(langs, lang)
	}
	slices.SortFunc(langs, func(a, b string) int {
		switch {
		case a == englishLanguage:
			return -1
		case b == englishLanguage:
			return 1
		}
		return strings.Compare(a, b)
	})
	return langs
}
