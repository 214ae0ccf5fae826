// Package export writes the month time sheet and raw ledger dumps to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ozanyurt/tally/internal/duration"
	"github.com/ozanyurt/tally/internal/report"
)

// ReportCSV writes the month time sheet for r under baseDir and returns
// the file path, e.g. <baseDir>/March-2024/Time Sheet - March 2024.csv.
func ReportCSV(r *report.Report, baseDir string) (string, error) {
	folder := r.Window.Start.Format("January-2006")
	dir := filepath.Join(baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("Time Sheet - %s.csv", r.Label))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	rows := [][]string{
		{fmt.Sprintf("Report for %s", r.Label)},
		{fmt.Sprintf("From %s to %s", r.From, r.To)},
		{},
		{"Date", "Weekday", "Project", "Duration (HH:MM)"},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	for _, week := range r.Weeks {
		for _, day := range week.Days {
			weekday := day.Date.Time().Format("Mon")
			for _, p := range day.Projects {
				row := []string{
					day.Date.String(),
					weekday,
					p.Name,
					duration.HoursMinutes(p.Seconds),
				}
				if err := w.Write(row); err != nil {
					return "", err
				}
			}
		}
	}

	if err := w.Write([]string{}); err != nil {
		return "", err
	}
	if err := w.Write([]string{"Monthly totals"}); err != nil {
		return "", err
	}
	if len(r.MonthlyTotals) == 0 {
		if err := w.Write([]string{"(no time this month)"}); err != nil {
			return "", err
		}
	} else {
		for _, p := range r.MonthlyTotals {
			if err := w.Write([]string{p.Name, duration.HoursMinutes(p.Seconds)}); err != nil {
				return "", err
			}
		}
		if err := w.Write([]string{"Overall", duration.HoursMinutes(r.OverallSeconds)}); err != nil {
			return "", err
		}
	}

	w.Flush()
	return path, w.Error()
}
