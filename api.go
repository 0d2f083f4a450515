/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Seednode/frameguess/catalog"
	"github.com/julienschmidt/httprouter"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

type catalogEpisode struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

type catalogSeason struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Episodes []catalogEpisode `json:"episodes"`
}

type catalogResponse struct {
	Language  string          `json:"language"`
	Languages []string        `json:"languages"`
	Seasons   []catalogSeason `json:"seasons"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Matches []catalog.Match `json:"matches"`
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return w.Write(data)
}

// requestLanguage returns the lang query parameter, or the catalog default
// when absent.
func requestLanguage(cat *catalog.Catalog, q url.Values) (string, bool) {
	lang := q.Get("lang")
	if lang == "" {
		return cat.DefaultLanguage(), true
	}
	return lang, cat.HasLanguage(lang)
}

func serveCatalog(cfg *Config, lib *library, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		cat := lib.get()
		if cat == nil {
			if _, err := writeJSON(cfg, w, http.StatusServiceUnavailable, apiError{Error: "catalog is still loading"}); err != nil {
				errs <- err
			}

			return
		}

		lang, ok := requestLanguage(cat, r.URL.Query())
		if !ok {
			if _, err := writeJSON(cfg, w, http.StatusBadRequest, apiError{Error: catalog.ErrUnknownLanguage.Error() + ": " + lang}); err != nil {
				errs <- err
			}

			return
		}

		resp := catalogResponse{
			Language:  lang,
			Languages: cat.Languages(),
		}

		for _, s := range cat.Seasons() {
			season := catalogSeason{
				ID:       s.ID,
				Label:    catalog.SeasonLabel(s.ID),
				Episodes: make([]catalogEpisode, 0, len(s.Episodes)),
			}

			for _, ep := range s.Episodes {
				images := cat.EpisodeImages(ep)
				urls := make([]string, 0, len(images))
				for _, img := range images {
					urls = append(urls, cfg.prefix+"/frames/"+url.PathEscape(img))
				}

				season.Episodes = append(season.Episodes, catalogEpisode{
					ID:     ep,
					Name:   cat.EpisodeName(lang, ep),
					Images: urls,
				})
			}

			resp.Seasons = append(resp.Seasons, season)
		}

		written, err := writeJSON(cfg, w, http.StatusOK, resp)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Catalog (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveSearch(cfg *Config, lib *library, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		cat := lib.get()
		if cat == nil {
			if _, err := writeJSON(cfg, w, http.StatusServiceUnavailable, apiError{Error: "catalog is still loading"}); err != nil {
				errs <- err
			}

			return
		}

		q := r.URL.Query()

		lang, ok := requestLanguage(cat, q)
		if !ok {
			if _, err := writeJSON(cfg, w, http.StatusBadRequest, apiError{Error: catalog.ErrUnknownLanguage.Error() + ": " + lang}); err != nil {
				errs <- err
			}

			return
		}

		limit := defaultSearchLimit
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				if _, err := writeJSON(cfg, w, http.StatusBadRequest, apiError{Error: "invalid limit: " + v}); err != nil {
					errs <- err
				}

				return
			}
			limit = min(n, maxSearchLimit)
		}

		seasons := cat.FilterSeasons(q["season"])
		if len(seasons) == 0 {
			seasons = cat.SeasonIDs()
		}

		matches := cat.Suggest(lang, q.Get("q"), cat.AllowedEpisodes(seasons), limit)
		if matches == nil {
			matches = []catalog.Match{}
		}

		if _, err := writeJSON(cfg, w, http.StatusOK, searchResponse{Query: q.Get("q"), Matches: matches}); err != nil {
			errs <- err
		}
	}
}
