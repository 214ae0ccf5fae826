package report

import (
	"log/slog"
	"time"

	"github.com/ozanyurt/tally/internal/ledger"
)

// DayTotals maps each project to its accumulated time on one day.
type DayTotals map[string]time.Duration

// Aggregate folds every interval's overlap with the window into per-day
// per-project totals and whole-window project totals. Records with an
// unusable start timestamp are skipped; corrupt history never blocks a
// report. Interval order does not affect the result.
func Aggregate(intervals []ledger.Interval, w Window, now time.Time) (map[Date]DayTotals, map[string]time.Duration) {
	perDay := make(map[Date]DayTotals)
	totals := make(map[string]time.Duration)

	for _, iv := range intervals {
		if iv.Start.IsZero() {
			slog.Debug("skipping record with unusable start", "project", iv.Project)
			continue
		}
		var end *time.Time
		if iv.End != nil {
			if iv.End.IsZero() {
				slog.Debug("skipping record with unusable end", "project", iv.Project)
				continue
			}
			e := iv.End.Time
			end = &e
		}

		cs, ce, ok := w.Clamp(iv.Start.Time, end, now)
		if !ok {
			continue
		}
		for _, seg := range SplitByDay(cs, ce) {
			if perDay[seg.Day] == nil {
				perDay[seg.Day] = make(DayTotals)
			}
			perDay[seg.Day][iv.Project] += seg.Duration()
			totals[iv.Project] += seg.Duration()
		}
	}
	return perDay, totals
}
