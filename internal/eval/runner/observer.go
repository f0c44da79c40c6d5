package runner

import (
	"log/slog"
	"time"
)

// Progress is the deterministic position of a batch after an item finished.
type Progress struct {
	Current int
	Total   int
	Elapsed time.Duration
}

type Observer interface {
	ItemDone(p Progress, item ItemResult)
}

type ObserverFunc func(p Progress, item ItemResult)

func (f ObserverFunc) ItemDone(p Progress, item ItemResult) {
	f(p, item)
}

// LogObserver logs a progress line every Every items and on the last one,
// and a warning for each failed item.
type LogObserver struct {
	Every int
}

func (o LogObserver) ItemDone(p Progress, item ItemResult) {
	if !item.IsScored() {
		slog.Warn("evaluation failed", "index", item.Index, "error", item.Error)
	}
	every := o.Every
	if every <= 0 {
		every = DefaultProgressEvery
	}
	if p.Current%every == 0 || p.Current == p.Total {
		slog.Info("evaluating", "current", p.Current, "total", p.Total, "elapsed", p.Elapsed.Round(time.Millisecond))
	}
}
