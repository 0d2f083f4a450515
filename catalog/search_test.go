/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package catalog

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)
	all := c.Episodes()

	cases := []struct {
		query string
		want  string
		ok    bool
	}{
		{"rainy day", "S01E02", true},
		{"  RAINY   Day ", "S01E02", true},
		{"S02E01", "S02E01", true},
		{"s01e01: the lost kite", "S01E01", true},
		{"grand openin", "S02E01", true},
		{"the lost kyte", "S01E01", true},
		{"s01", "", false},
		{"xyz", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got, ok := c.Resolve("English", tc.query, all)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Resolve(%q) = %q, %v, want %q, %v", tc.query, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestResolveOnlyConsidersAllowed(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)

	if got, ok := c.Resolve("English", "rainy day", []string{"S02E01"}); ok {
		t.Fatalf("resolved %q outside the allowed set", got)
	}
}

func TestResolveUsesLanguage(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)

	got, ok := c.Resolve("German", "der verlorene drachen", c.Episodes())
	if !ok || got != "S01E01" {
		t.Fatalf("Resolve = %q, %v, want S01E01", got, ok)
	}
}

func TestSuggestOrdersAndLimits(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)

	hits := c.Suggest("English", "s0", c.Episodes(), 2)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Episode != "S01E01" || hits[1].Episode != "S01E02" {
		t.Fatalf("hits = %+v, want catalog order on equal scores", hits)
	}

	hits = c.Suggest("English", "day", c.Episodes(), 0)
	if len(hits) != 1 || hits[0].Episode != "S01E02" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestResolveRejectsDuplicateTitles(t *testing.T) {
	t.Parallel()

	c, err := New(
		[]Season{{ID: "S01", Episodes: []string{"S01E01", "S01E02"}}},
		map[string][]string{"S01E01": {"a.jpg"}, "S01E02": {"b.jpg"}},
		map[string]map[string]string{
			"English": {"S01E01": "S01E01: Pilot", "S01E02": "S01E02: Pilot"},
		},
		[]string{"English"},
	)
	if err != nil {
		t.Fatal(err)
	}

	if got, ok := c.Resolve("English", "pilot", c.Episodes()); ok {
		t.Fatalf("resolved ambiguous title to %q", got)
	}
	if got, ok := c.Resolve("English", "S01E02", c.Episodes()); !ok || got != "S01E02" {
		t.Fatalf("Resolve by id = %q, %v, want S01E02", got, ok)
	}
}

func TestSuggestCountsRunesForEditDistance(t *testing.T) {
	t.Parallel()

	c, err := New(
		[]Season{{ID: "S01", Episodes: []string{"S01E01"}}},
		map[string][]string{"S01E01": {"a.jpg"}},
		map[string]map[string]string{
			"English": {"S01E01": "S01E01: Fish"},
			"Russian": {"S01E01": "S01E01: Рыба"},
		},
		[]string{"English", "Russian"},
	)
	if err != nil {
		t.Fatal(err)
	}

	// Four letters allow a single edit even though the title is eight bytes.
	if hits := c.Suggest("Russian", "рыбв", c.Episodes(), 0); len(hits) != 1 {
		t.Fatalf("one edit: hits = %+v", hits)
	}
	if hits := c.Suggest("Russian", "рзза", c.Episodes(), 0); len(hits) != 0 {
		t.Fatalf("two edits: hits = %+v, want none", hits)
	}
}
