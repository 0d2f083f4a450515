/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// HighScore is a monotonic best-score watermark.
type HighScore struct {
	best   int
	known  bool
	record bool
}

// NewHighScore seeds the watermark. known is false when nothing was persisted.
func NewHighScore(best int, known bool) *HighScore {
	return &HighScore{best: best, known: known}
}

// Observe reports whether best changed and must be persisted. An unknown
// best is initialised to score without being flagged as a record.
func (h *HighScore) Observe(score int) (changed bool) {
	switch {
	case !h.known:
		h.best = score
		h.known = true
		return true
	case score > h.best:
		h.best = score
		h.record = true
		return true
	}
	return false
}

func (h *HighScore) Best() int { return h.best }

func (h *HighScore) Record() bool { return h.record }

// ClearRecord drops the record flag at the start of a new game.
func (h *HighScore) ClearRecord() { h.record = false }
