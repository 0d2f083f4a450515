/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Seednode/frameguess/catalog"
)

// library holds the catalog once it has loaded. Until then every game
// session reports that it is still loading.
type library struct {
	cat atomic.Pointer[catalog.Catalog]
}

func (l *library) get() *catalog.Catalog {
	return l.cat.Load()
}

func (l *library) set(c *catalog.Catalog) {
	l.cat.Store(c)
}

func (l *library) load(ctx context.Context, cfg *Config) error {
	startTime := time.Now()

	logf(cfg, "CATALOG: Loading %s", cfg.catalog)

	c, err := catalog.Load(ctx, cfg.catalog)
	if err != nil {
		return err
	}

	l.set(c)

	logf(cfg, "CATALOG: Loaded %d seasons, %d episodes and %d languages in %s",
		len(c.SeasonIDs()),
		len(c.Episodes()),
		len(c.Languages()),
		time.Since(startTime).Round(time.Microsecond),
	)

	return nil
}
