/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Assembly is a catalog built from a screenshot tree, along with where each
// frame was found on disk.
type Assembly struct {
	Catalog *Catalog
	sources map[string]string
}

// Assemble builds a catalog from screenshotDir/<episode>/<frame> and
// titlesDir/<Language>.txt, where each title line reads "<episode>: <title>".
// English titles are required. Every other language also gets a combined
// "<lang>-English" title set.
func Assemble(screenshotDir, titlesDir string) (*Assembly, error) {
	titles, languages, err := readTitles(titlesDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(screenshotDir)
	if err != nil {
		return nil, err
	}

	var (
		seasons  []Season
		images   = make(map[string][]string)
		sources  = make(map[string]string)
		episodes []string
	)

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ep := e.Name()
		episodes = append(episodes, ep)

		frames, err := os.ReadDir(filepath.Join(screenshotDir, ep))
		if err != nil {
			return nil, err
		}
		for _, f := range frames {
			if f.IsDir() || !isFrame(f.Name()) {
				continue
			}
			if prev, ok := sources[f.Name()]; ok {
				return nil, fmt.Errorf("%w: frame %q appears in %s and %s", ErrInvalidCatalog, f.Name(), filepath.Base(filepath.Dir(prev)), ep)
			}
			images[ep] = append(images[ep], f.Name())
			sources[f.Name()] = filepath.Join(screenshotDir, ep, f.Name())
		}

		season := seasonKey(ep)
		if n := len(seasons); n > 0 && seasons[n-1].ID == season {
			seasons[n-1].Episodes = append(seasons[n-1].Episodes, ep)
		} else {
			seasons = append(seasons, Season{ID: season, Episodes: []string{ep}})
		}
	}

	if err := checkCoverage(episodes, titles); err != nil {
		return nil, err
	}

	c, err := New(seasons, images, titles, languages)
	if err != nil {
		return nil, err
	}

	return &Assembly{Catalog: c, sources: sources}, nil
}

// WriteJSON writes the three catalog files into dir.
func (a *Assembly) WriteJSON(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	c := a.Catalog

	seasons := make([]keyed, 0, len(c.seasons))
	for _, s := range c.seasons {
		seasons = append(seasons, keyed{s.ID, s.Episodes})
	}

	var images []keyed
	for _, s := range c.seasons {
		for _, ep := range s.Episodes {
			images = append(images, keyed{ep, c.images[ep]})
		}
	}

	titles := make([]keyed, 0, len(c.languages))
	for _, lang := range c.languages {
		titles = append(titles, keyed{lang, c.titles[lang]})
	}

	files := []struct {
		name   string
		fields []keyed
	}{
		{SeasonKeysFile, seasons},
		{ImageListFile, images},
		{EpisodeTitlesFile, titles},
	}

	for _, f := range files {
		data, err := marshalOrdered(f.fields)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return err
		}
	}

	return nil
}

// CopyFrames copies every frame into dir and returns how many were copied.
// Frames already present in dir are skipped.
func (a *Assembly) CopyFrames(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	names := make([]string, 0, len(a.sources))
	for name := range a.sources {
		names = append(names, name)
	}
	slices.Sort(names)

	copied := 0
	for _, name := range names {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := copyFile(a.sources[name], dst); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func readTitles(dir string) (map[string]map[string]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	titles := make(map[string]map[string]string)
	var others []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		lang := strings.TrimSuffix(e.Name(), ".txt")

		names, err := readTitleFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, nil, err
		}
		titles[lang] = names
		if lang != englishLanguage {
			others = append(others, lang)
		}
	}

	english, ok := titles[englishLanguage]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s.txt not found in %s", ErrInvalidCatalog, englishLanguage, dir)
	}

	languages := []string{englishLanguage}
	for _, lang := range others {
		combined := lang + "-" + englishLanguage
		titles[combined] = make(map[string]string)
		for ep, name := range titles[lang] {
			en, ok := english[ep]
			if !ok {
				continue
			}
			titles[combined][ep] = name + " (" + titlePart(en) + ")"
		}
		languages = append(languages, lang, combined)
	}

	return titles, languages, nil
}

func readTitleFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.ReplaceAll(scanner.Text(), "â€™", "'"))
		if line == "" {
			continue
		}
		code, _, _ := strings.Cut(line, ":")
		names[strings.TrimSpace(code)] = line
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return names, nil
}

func checkCoverage(episodes []string, titles map[string]map[string]string) error {
	var errs []error

	have := make(map[string]bool, len(episodes))
	for _, ep := range episodes {
		have[ep] = true
	}

	var missingFolders []string
	for ep := range titles[englishLanguage] {
		if !have[ep] {
			missingFolders = append(missingFolders, ep)
		}
	}
	if len(missingFolders) > 0 {
		slices.Sort(missingFolders)
		errs = append(errs, fmt.Errorf("missing screenshot folders: %s", strings.Join(missingFolders, ", ")))
	}

	langs := make([]string, 0, len(titles))
	for lang := range titles {
		if strings.HasSuffix(lang, "-"+englishLanguage) {
			continue
		}
		langs = append(langs, lang)
	}
	slices.Sort(langs)

	for _, lang := range langs {
		var missing []string
		for _, ep := range episodes {
			if _, ok := titles[lang][ep]; !ok {
				missing = append(missing, ep)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("missing %s titles: %s", lang, strings.Join(missing, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

func seasonKey(episode string) string {
	if len(episode) < 3 {
		return episode
	}
	return episode[:3]
}

func isFrame(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

type keyed struct {
	key   string
	value any
}

// marshalOrdered writes a JSON object whose keys keep the given order.
func marshalOrdered(fields []keyed) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range fields {
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.MarshalIndent(f.value, "    ", "    ")
		if err != nil {
			return nil, err
		}
		buf.WriteString("    ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
