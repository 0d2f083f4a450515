/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

// frameName returns the bare file name requested, or false if it tries to
// leave the frames directory.
func frameName(raw string) (string, bool) {
	name := strings.TrimPrefix(raw, "/")
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}

func serveFrames(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		name, ok := frameName(p.ByName("filepath"))
		if !ok {
			http.NotFound(w, r)

			return
		}

		f, err := os.Open(filepath.Join(cfg.frames, name))
		if err != nil {
			http.NotFound(w, r)

			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Cache-Control", "public, max-age=86400")
		securityHeaders(cfg, w)

		http.ServeContent(w, r, name, info.ModTime(), f)

		logf(cfg, "SERVE: Frame %s (%s) to %s in %s",
			name,
			humanReadableSize(info.Size()),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
