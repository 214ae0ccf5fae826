// Package report turns raw intervals into per-day and per-week aggregates
// and builds the ordered month report model. Everything here is a pure
// computation over in-memory values; "now" is passed in by the caller and
// sampled once per top-level operation.
package report

import (
	"encoding/json"
	"time"
)

// Date identifies a calendar day in local wall-clock time. It is a
// comparable value, usable as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day containing t.
func DateOf(t time.Time) Date {
	return Date{t.Year(), t.Month(), t.Day()}
}

// Time returns the first instant of the day in local time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// MarshalJSON renders the day as its ISO date string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Window is a half-open reporting range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the calendar month containing ref: from the first
// instant of that month to the first instant of the next, exclusive.
func MonthWindow(ref time.Time) Window {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Clamp intersects an interval with the window. An open interval (nil
// end) is treated as running until now. The third return is false when
// the overlap is empty; zero-length overlaps are dropped, never emitted
// as zero-duration segments.
func (w Window) Clamp(start time.Time, end *time.Time, now time.Time) (time.Time, time.Time, bool) {
	eff := now
	if end != nil {
		eff = *end
	}
	cs := start
	if w.Start.After(cs) {
		cs = w.Start
	}
	ce := eff
	if w.End.Before(ce) {
		ce = w.End
	}
	if !ce.After(cs) {
		return time.Time{}, time.Time{}, false
	}
	return cs, ce, true
}

// Segment is the part of a clamped interval that falls inside one
// calendar day.
type Segment struct {
	Day   Date
	Start time.Time
	End   time.Time
}

// Duration returns the segment's length.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SplitByDay cuts the clamped range [start, end) at every local midnight,
// producing one segment per calendar day touched, in chronological order,
// with the first and last truncated to the clamp boundaries. Segments are
// left-closed right-open, so an interval starting exactly at midnight
// belongs to that day, not the previous one.
func SplitByDay(start, end time.Time) []Segment {
	var segs []Segment
	for cur := start; cur.Before(end); {
		segEnd := nextMidnight(cur)
		if end.Before(segEnd) {
			segEnd = end
		}
		segs = append(segs, Segment{Day: DateOf(cur), Start: cur, End: segEnd})
		cur = segEnd
	}
	return segs
}

func nextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
