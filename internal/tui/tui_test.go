package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozanyurt/tally/internal/ledger"
)

func sampleIntervals(t *testing.T) []ledger.Interval {
	t.Helper()
	at := func(day, hour int) time.Time {
		return time.Date(2024, time.March, day, hour, 0, 0, 0, time.Local)
	}
	l := &ledger.Ledger{}
	if _, err := l.Start("alpha", at(1, 9)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Stop(at(1, 11)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Start("beta", at(4, 9)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Stop(at(4, 10)); err != nil {
		t.Fatal(err)
	}
	return l.Intervals
}

// ============================================================
// Glyph rendering
// ============================================================

func TestRenderGlyphsShape(t *testing.T) {
	out := renderGlyphs("12:34:56")
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	// 8 characters, each 5 cells wide plus 2 spaces of separation.
	want := 8 * 7
	for i, line := range lines {
		if n := len([]rune(line)); n != want {
			t.Fatalf("row %d width = %d, want %d", i, n, want)
		}
	}
}

func TestRenderGlyphsUnknownCharFallsBack(t *testing.T) {
	if renderGlyphs("x") != renderGlyphs("0") {
		t.Fatal("unknown character should render as '0'")
	}
}

func TestGlyphRowsAreUniformWidth(t *testing.T) {
	for ch, g := range glyphs {
		for i, row := range g {
			if n := len([]rune(row)); n != 5 {
				t.Fatalf("glyph %q row %d width = %d, want 5", ch, i, n)
			}
		}
	}
}

// ============================================================
// Clock model
// ============================================================

func TestClockViewShowsStatus(t *testing.T) {
	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local)
	m := newClockModel("Client Alpha", start)
	m.now = start.Add(time.Hour + 5*time.Minute + 7*time.Second)

	view := m.View()
	if !strings.Contains(view, "currently working on: client alpha") {
		t.Fatalf("project line missing or not lowercased:\n%s", view)
	}
	if !strings.Contains(view, "elapsed: 1h05m07s") {
		t.Fatalf("elapsed line wrong:\n%s", view)
	}
	if !strings.Contains(view, "░") {
		t.Fatal("clock face should use shaded blocks")
	}
}

func TestClockTickAdvances(t *testing.T) {
	start := time.Now()
	m := newClockModel("alpha", start)
	later := start.Add(3 * time.Second)

	updated, cmd := m.Update(tickMsg(later))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if !updated.(clockModel).now.Equal(later) {
		t.Fatal("tick did not advance the clock")
	}
}

func TestClockQuitKeys(t *testing.T) {
	m := newClockModel("alpha", time.Now())
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("key %q should quit the clock", k)
		}
	}
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardViewShowsTotals(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	m := newDashboardModel(sampleIntervals(t), ref)

	view := m.View()
	if !strings.Contains(view, "March 2024") {
		t.Fatalf("month label missing:\n%s", view)
	}
	if !strings.Contains(view, "alpha") || !strings.Contains(view, "beta") {
		t.Fatal("project totals missing from view")
	}
	if !strings.Contains(view, "Overall") {
		t.Fatal("overall total missing from view")
	}
}

func TestDashboardMonthNavigation(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	m := newDashboardModel(sampleIntervals(t), ref)

	left := tea.KeyMsg{Type: tea.KeyLeft}
	updated, _ := m.Update(left)
	d := updated.(dashboardModel)
	if d.rep.Label != "February 2024" {
		t.Fatalf("left should go to previous month, got %s", d.rep.Label)
	}

	right := tea.KeyMsg{Type: tea.KeyRight}
	updated, _ = d.Update(right)
	d = updated.(dashboardModel)
	if d.rep.Label != "March 2024" {
		t.Fatalf("right should return to current month, got %s", d.rep.Label)
	}

	// Cannot navigate past the current month.
	updated, _ = d.Update(right)
	d = updated.(dashboardModel)
	if d.rep.Label != "March 2024" {
		t.Fatalf("right at offset 0 should stay put, got %s", d.rep.Label)
	}
}

func TestDashboardEmptyMonth(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	m := newDashboardModel(nil, ref)

	view := m.View()
	if !strings.Contains(view, "No time this month") {
		t.Fatalf("empty month marker missing:\n%s", view)
	}
}
