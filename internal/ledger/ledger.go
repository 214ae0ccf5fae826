// Package ledger models tracked work intervals and the operations that
// create and close them.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ozanyurt/tally/internal/duration"
)

var (
	// ErrNoActive is returned when a stop is requested with no open interval.
	ErrNoActive = errors.New("no active timer")

	// ErrEmpty marks a ledger with no entries at all. It is an
	// informational state, not a failure.
	ErrEmpty = errors.New("no entries yet")
)

// Timestamp marshals as local wall-clock ISO-8601 without a zone, the
// format the ledger file has always used. Unparsable values decode to the
// zero time instead of failing, so one corrupt record cannot block a load;
// the aggregation layer skips zero-start records.
type Timestamp struct {
	time.Time
}

const timeLayout = "2006-01-02T15:04:05"

var timeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timeLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// Interval is one tracked session. End is nil while the session is still
// running; only the most recently created interval may be open.
type Interval struct {
	Project         string     `json:"project"`
	Start           Timestamp  `json:"start"`
	End             *Timestamp `json:"end"`
	DurationSeconds int64      `json:"duration_seconds,omitempty"`
	Duration        string     `json:"duration,omitempty"`
	Manual          bool       `json:"manual,omitempty"`
}

// Open reports whether the interval is still running.
func (iv *Interval) Open() bool {
	return iv.End == nil
}

// Close sets the end instant and recomputes the derived duration fields.
// The derived fields are display conveniences; start and end stay
// authoritative.
func (iv *Interval) Close(end time.Time) {
	e := Timestamp{end}
	iv.End = &e
	secs := int64(end.Sub(iv.Start.Time) / time.Second)
	iv.DurationSeconds = secs
	iv.Duration = duration.Clock(time.Duration(secs) * time.Second)
}

// Ledger is an in-memory snapshot of the interval collection. It enforces
// the single-open-interval invariant at the boundary that creates
// intervals; the aggregation core never has to.
type Ledger struct {
	Intervals []Interval
}

// Empty reports whether the ledger has no entries at all.
func (l *Ledger) Empty() bool {
	return len(l.Intervals) == 0
}

// Active returns the open interval, or nil when nothing is being tracked.
func (l *Ledger) Active() *Interval {
	for i := len(l.Intervals) - 1; i >= 0; i-- {
		if l.Intervals[i].Open() {
			return &l.Intervals[i]
		}
	}
	return nil
}

// Start opens a new interval for project. It refuses while another
// interval is open.
func (l *Ledger) Start(project string, now time.Time) (*Interval, error) {
	if active := l.Active(); active != nil {
		return nil, fmt.Errorf("already tracking %q since %s",
			active.Project, active.Start.Format("2006-01-02 15:04"))
	}
	l.Intervals = append(l.Intervals, Interval{
		Project: project,
		Start:   Timestamp{now},
	})
	return &l.Intervals[len(l.Intervals)-1], nil
}

// Stop closes the open interval at now.
func (l *Ledger) Stop(now time.Time) (*Interval, error) {
	active := l.Active()
	if active == nil {
		return nil, ErrNoActive
	}
	active.Close(now)
	return active, nil
}

// Finalize closes the open interval if there is one and returns it, or
// nil when everything is already closed. It is idempotent, so every
// termination path (normal, interrupted, signaled) may call it.
func (l *Ledger) Finalize(now time.Time) *Interval {
	active := l.Active()
	if active == nil {
		return nil
	}
	active.Close(now)
	return active
}

// Log appends an already-closed manual interval of length d ending at now.
func (l *Ledger) Log(project string, d time.Duration, now time.Time) *Interval {
	iv := Interval{
		Project: project,
		Start:   Timestamp{now.Add(-d)},
		Manual:  true,
	}
	iv.Close(now)
	l.Intervals = append(l.Intervals, iv)
	return &l.Intervals[len(l.Intervals)-1]
}
