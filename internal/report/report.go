package report

import (
	"sort"
	"strings"
	"time"

	"github.com/ozanyurt/tally/internal/duration"
	"github.com/ozanyurt/tally/internal/ledger"
)

// ProjectTotal is one project's accumulated time, carried as both raw
// seconds and a formatted string so presentation layers never recompute.
type ProjectTotal struct {
	Name     string `json:"project"`
	Seconds  int64  `json:"seconds"`
	Duration string `json:"duration"`
}

// Day is one active day of the report. Days with zero tracked time are
// omitted from their week rather than shown as "0m".
type Day struct {
	Date         Date           `json:"date"`
	TotalSeconds int64          `json:"total_seconds"`
	Total        string         `json:"total"`
	Projects     []ProjectTotal `json:"projects"`
}

// Week is one ISO week of the report month. A week with no active day
// keeps an explicit Empty marker so every week of the month stays visible.
type Week struct {
	Year   int   `json:"iso_year"`
	Number int   `json:"iso_week"`
	From   Date  `json:"from"`
	To     Date  `json:"to"`
	Days   []Day `json:"days"`
	Empty  bool  `json:"empty"`
}

// Report is the fully ordered month report model.
type Report struct {
	Label          string         `json:"label"`
	From           Date           `json:"from"`
	To             Date           `json:"to"` // inclusive last day, for display
	Window         Window         `json:"-"`
	Weeks          []Week         `json:"weeks"`
	MonthlyTotals  []ProjectTotal `json:"monthly_totals"`
	OverallSeconds int64          `json:"overall_seconds"`
	Overall        string         `json:"overall"`
}

// Build produces the report for the calendar month containing ref. The
// evaluation instant now clamps any still-running interval and is sampled
// once, so a single report stays internally consistent while the real
// clock keeps advancing.
func Build(intervals []ledger.Interval, ref, now time.Time) *Report {
	w := MonthWindow(ref)
	perDay, totals := Aggregate(intervals, w, now)

	r := &Report{
		Label:  w.Start.Format("January 2006"),
		From:   DateOf(w.Start),
		To:     DateOf(w.End.AddDate(0, 0, -1)),
		Window: w,
	}

	for _, bucket := range GroupByISOWeek(w) {
		wk := Week{
			Year:   bucket.Year,
			Number: bucket.Week,
			From:   bucket.Days[0],
			To:     bucket.Days[len(bucket.Days)-1],
		}
		for _, day := range bucket.Days {
			dt, ok := perDay[day]
			if !ok {
				continue
			}
			projects := sortedTotals(dt)
			var daySecs int64
			for _, p := range projects {
				daySecs += p.Seconds
			}
			wk.Days = append(wk.Days, Day{
				Date:         day,
				TotalSeconds: daySecs,
				Total:        duration.Human(time.Duration(daySecs) * time.Second),
				Projects:     projects,
			})
		}
		wk.Empty = len(wk.Days) == 0
		r.Weeks = append(r.Weeks, wk)
	}

	r.MonthlyTotals = sortedTotals(totals)
	for _, p := range r.MonthlyTotals {
		r.OverallSeconds += p.Seconds
	}
	r.Overall = duration.Human(time.Duration(r.OverallSeconds) * time.Second)
	return r
}

// sortedTotals flattens a totals map, sorted case-insensitively by
// project name. Display order is always this explicit sort, never map
// insertion order.
func sortedTotals(m map[string]time.Duration) []ProjectTotal {
	out := make([]ProjectTotal, 0, len(m))
	for name, d := range m {
		out = append(out, ProjectTotal{
			Name:     name,
			Seconds:  int64(d / time.Second),
			Duration: duration.Human(d),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
