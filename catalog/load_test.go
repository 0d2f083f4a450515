/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"
)

var testFiles = fstest.MapFS{
	SeasonKeysFile: {Data: []byte(`{
		"S02": ["S02E01"],
		"S01": ["S01E01", "S01E02"]
	}`)},
	ImageListFile: {Data: []byte(`{
		"S01E01": ["a.jpg"],
		"S01E02": ["b.jpg", "c.jpg"],
		"S02E01": ["d.jpg"]
	}`)},
	EpisodeTitlesFile: {Data: []byte(`{
		"German": {"S01E01": "S01E01: Eins"},
		"English": {"S01E01": "S01E01: One", "S01E02": "S01E02: Two", "S02E01": "S02E01: Three"}
	}`)},
}

func TestLoadFSKeepsDocumentOrder(t *testing.T) {
	t.Parallel()

	c, err := LoadFS(context.Background(), testFiles)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := c.SeasonIDs(); !slices.Equal(got, []string{"S02", "S01"}) {
		t.Fatalf("seasons = %v, want document order", got)
	}
	if got := c.Languages(); !slices.Equal(got, []string{"German", "English"}) {
		t.Fatalf("languages = %v, want document order", got)
	}
	if got := c.EpisodeImages("S01E02"); !slices.Equal(got, []string{"b.jpg", "c.jpg"}) {
		t.Fatalf("images = %v", got)
	}
}

func TestLoadFSMissingFile(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{SeasonKeysFile: testFiles[SeasonKeysFile]}

	_, err := LoadFS(context.Background(), files)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want not exist", err)
	}
}

func TestLoadFSStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := LoadFS(ctx, testFiles); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}
}

func TestLoadFSRejectsEpisodeWithoutImages(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		SeasonKeysFile:    {Data: []byte(`{"S01": ["S01E01"]}`)},
		ImageListFile:     {Data: []byte(`{"S01E01": []}`)},
		EpisodeTitlesFile: {Data: []byte(`{"English": {}}`)},
	}

	if _, err := LoadFS(context.Background(), files); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCatalog)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	bundle := []byte(`seasons:
  - id: S01
    episodes: [S01E01, S01E02]
images:
  S01E01: [a.jpg]
  S01E02: [b.jpg]
languages:
  - id: English
    titles:
      S01E01: "S01E01: One"
      S01E02: "S01E02: Two"
`)
	if err := os.WriteFile(path, bundle, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	if got := c.EpisodeName("English", "S01E02"); got != "S01E02: Two" {
		t.Fatalf("name = %q", got)
	}

	b := c.Bundle()
	if len(b.Seasons) != 1 || len(b.Languages) != 1 || len(b.Images) != 2 {
		t.Fatalf("bundle = %+v", b)
	}
}

func TestLoadRejectsUnknownFileType(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatal("expected unsupported file error")
	}
}
