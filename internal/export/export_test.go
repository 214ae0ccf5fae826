package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ozanyurt/tally/internal/ledger"
	"github.com/ozanyurt/tally/internal/report"
)

func sampleLedger() *ledger.Ledger {
	at := func(day, hour, min int) time.Time {
		return time.Date(2024, time.March, day, hour, min, 0, 0, time.Local)
	}
	l := &ledger.Ledger{}
	l.Start("alpha", at(1, 9, 0))
	l.Stop(at(1, 11, 0))
	l.Start("beta", at(1, 11, 0))
	l.Stop(at(1, 11, 45))
	return l
}

func sampleReport() *report.Report {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	return report.Build(sampleLedger().Intervals, now, now)
}

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

// ============================================================
// CSV time sheet
// ============================================================

func TestReportCSVLayout(t *testing.T) {
	base := t.TempDir()
	path, err := ReportCSV(sampleReport(), base)
	if err != nil {
		t.Fatalf("ReportCSV: %v", err)
	}

	want := filepath.Join(base, "March-2024", "Time Sheet - March 2024.csv")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	rows := readAllRows(t, path)
	if rows[0][0] != "Report for March 2024" {
		t.Fatalf("title row = %q", rows[0][0])
	}
	if rows[1][0] != "From 2024-03-01 to 2024-03-31" {
		t.Fatalf("range row = %q", rows[1][0])
	}

	header := rows[2]
	wantHeader := []string{"Date", "Weekday", "Project", "Duration (HH:MM)"}
	for i, h := range wantHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	// One row per project on the single active day, sorted by name.
	alpha := rows[3]
	if alpha[0] != "2024-03-01" || alpha[1] != "Fri" || alpha[2] != "alpha" || alpha[3] != "02:00" {
		t.Fatalf("alpha row = %v", alpha)
	}
	beta := rows[4]
	if beta[2] != "beta" || beta[3] != "00:45" {
		t.Fatalf("beta row = %v", beta)
	}
}

func TestReportCSVTotals(t *testing.T) {
	path, err := ReportCSV(sampleReport(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rows := readAllRows(t, path)

	last := len(rows) - 1
	if rows[last][0] != "Overall" || rows[last][1] != "02:45" {
		t.Fatalf("overall row = %v", rows[last])
	}
	if rows[last-2][0] != "alpha" || rows[last-2][1] != "02:00" {
		t.Fatalf("alpha total = %v", rows[last-2])
	}
	if rows[last-1][0] != "beta" || rows[last-1][1] != "00:45" {
		t.Fatalf("beta total = %v", rows[last-1])
	}
	if rows[last-3][0] != "Monthly totals" {
		t.Fatalf("totals section header = %v", rows[last-3])
	}
}

func TestReportCSVEmptyMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	r := report.Build(nil, now, now)

	path, err := ReportCSV(r, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rows := readAllRows(t, path)
	last := rows[len(rows)-1]
	if last[0] != "(no time this month)" {
		t.Fatalf("empty marker row = %v", last)
	}
}

func TestReportCSVBadBaseDir(t *testing.T) {
	if _, err := ReportCSV(sampleReport(), "/proc/nope"); err == nil {
		t.Fatal("expected error for unwritable base dir")
	}
}

func TestReportCSVSpecialProjectNames(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2024, time.March, 4, hour, 0, 0, 0, time.Local)
	}
	l := &ledger.Ledger{}
	l.Start(`client "acme", retainer`, at(9))
	l.Stop(at(10))
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	r := report.Build(l.Intervals, now, now)

	path, err := ReportCSV(r, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rows := readAllRows(t, path)
	if rows[3][2] != `client "acme", retainer` {
		t.Fatalf("project name mangled: %q", rows[3][2])
	}
}

// ============================================================
// JSON dump
// ============================================================

func TestLedgerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := LedgerJSON(sampleLedger(), path); err != nil {
		t.Fatalf("LedgerJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var dump jsonExport
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if dump.Count != 2 {
		t.Fatalf("count = %d, want 2", dump.Count)
	}
	if len(dump.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(dump.Entries))
	}
	if _, err := time.Parse(time.RFC3339, dump.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %q", dump.ExportedAt)
	}
	if dump.Entries[0].Project != "alpha" || dump.Entries[0].DurationSeconds != 7200 {
		t.Fatalf("first entry = %+v", dump.Entries[0])
	}
}

func TestLedgerJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := LedgerJSON(&ledger.Ledger{}, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var dump jsonExport
	json.Unmarshal(data, &dump)
	if dump.Count != 0 {
		t.Fatalf("count = %d, want 0", dump.Count)
	}
	if !strings.Contains(string(data), "\n") {
		t.Fatal("dump should be pretty-printed")
	}
}

func TestLedgerJSONBadPath(t *testing.T) {
	if err := LedgerJSON(&ledger.Ledger{}, "/nonexistent/dir/dump.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}
