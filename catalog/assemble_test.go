/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func screenshotTree(t *testing.T) (string, string) {
	t.Helper()

	root := t.TempDir()
	shots := filepath.Join(root, "screenshots")
	titles := filepath.Join(root, "titles")

	writeFile(t, filepath.Join(shots, "S01E01P1", "s01e01-1.jpg"), "1")
	writeFile(t, filepath.Join(shots, "S01E01P1", "s01e01-2.png"), "2")
	writeFile(t, filepath.Join(shots, "S01E01P1", "notes.txt"), "skip")
	writeFile(t, filepath.Join(shots, "S01E02P1", "s01e02-1.jpg"), "3")
	writeFile(t, filepath.Join(shots, "S02E01P1", "s02e01-1.jpg"), "4")

	writeFile(t, filepath.Join(titles, "English.txt"),
		"S01E01P1: The Picnic\nS01E02P1: The Stormâ€™s Eye\n\nS02E01P1: The Return\n")
	writeFile(t, filepath.Join(titles, "Dutch.txt"),
		"S01E01P1: De Picknick\nS01E02P1: Het Oog\nS02E01P1: De Terugkeer\n")

	return shots, titles
}

func TestAssembleBuildsCatalog(t *testing.T) {
	t.Parallel()

	shots, titles := screenshotTree(t)

	a, err := Assemble(shots, titles)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := a.Catalog

	if got := c.SeasonIDs(); !slices.Equal(got, []string{"S01", "S02"}) {
		t.Fatalf("seasons = %v", got)
	}
	if got := c.EpisodeImages("S01E01P1"); !slices.Equal(got, []string{"s01e01-1.jpg", "s01e01-2.png"}) {
		t.Fatalf("images = %v", got)
	}
	if got := c.Languages(); !slices.Equal(got, []string{"English", "Dutch", "Dutch-English"}) {
		t.Fatalf("languages = %v", got)
	}
	if got := c.EpisodeName("English", "S01E02P1"); got != "S01E02P1: The Storm's Eye" {
		t.Fatalf("english title = %q", got)
	}
	if got := c.EpisodeName("Dutch-English", "S01E01P1"); got != "S01E01P1: De Picknick (The Picnic)" {
		t.Fatalf("combined title = %q", got)
	}
}

func TestAssembleReportsMissingTitles(t *testing.T) {
	t.Parallel()

	shots, titles := screenshotTree(t)
	writeFile(t, filepath.Join(titles, "Dutch.txt"), "S01E01P1: De Picknick\n")

	_, err := Assemble(shots, titles)
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCatalog)
	}
	if !strings.Contains(err.Error(), "missing Dutch titles: S01E02P1, S02E01P1") {
		t.Fatalf("error = %v", err)
	}
}

func TestAssembleReportsMissingFolders(t *testing.T) {
	t.Parallel()

	shots, titles := screenshotTree(t)
	writeFile(t, filepath.Join(titles, "English.txt"),
		"S01E01P1: The Picnic\nS01E02P1: The Storm\nS02E01P1: The Return\nS03E01P1: Gone\n")

	_, err := Assemble(shots, titles)
	if err == nil || !strings.Contains(err.Error(), "missing screenshot folders: S03E01P1") {
		t.Fatalf("error = %v", err)
	}
}

func TestAssembleRequiresEnglish(t *testing.T) {
	t.Parallel()

	shots, titles := screenshotTree(t)
	if err := os.Remove(filepath.Join(titles, "English.txt")); err != nil {
		t.Fatal(err)
	}

	if _, err := Assemble(shots, titles); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCatalog)
	}
}

func TestAssemblyWritesLoadableFiles(t *testing.T) {
	t.Parallel()

	shots, titles := screenshotTree(t)
	a, err := Assemble(shots, titles)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	out := t.TempDir()
	if err := a.WriteJSON(out); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(context.Background(), out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !slices.Equal(c.Languages(), a.Catalog.Languages()) {
		t.Fatalf("languages = %v, want %v", c.Languages(), a.Catalog.Languages())
	}
	if !slices.Equal(c.Episodes(), a.Catalog.Episodes()) {
		t.Fatalf("episodes = %v, want %v", c.Episodes(), a.Catalog.Episodes())
	}

	frames := t.TempDir()
	n, err := a.CopyFrames(frames)
	if err != nil {
		t.Fatalf("copy frames: %v", err)
	}
	if n != 4 {
		t.Fatalf("copied = %d, want 4", n)
	}
	n, err = a.CopyFrames(frames)
	if err != nil || n != 0 {
		t.Fatalf("second copy = %d, %v, want 0, nil", n, err)
	}
}
