package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ozanyurt/tally/internal/duration"
	"github.com/ozanyurt/tally/internal/ledger"
	"github.com/ozanyurt/tally/internal/report"
)

type dashboardModel struct {
	intervals []ledger.Interval
	ref       time.Time
	offset    int // months back from ref (0 = current)
	width     int
	height    int

	rep   *report.Report
	chart barchart.Model
}

func newDashboardModel(intervals []ledger.Interval, ref time.Time) dashboardModel {
	m := dashboardModel{
		intervals: intervals,
		ref:       ref,
		width:     80,
		height:    24,
	}
	m.rebuild()
	return m
}

func (m *dashboardModel) rebuild() {
	month := m.ref.AddDate(0, -m.offset, 0)
	m.rep = report.Build(m.intervals, month, m.ref)
	m.buildChart()
}

// projectColors maps each project of the month to a palette color, in
// the report's sorted order so colors stay stable across redraws.
func (m *dashboardModel) projectColors() map[string]lipgloss.Color {
	colors := make(map[string]lipgloss.Color, len(m.rep.MonthlyTotals))
	for i, p := range m.rep.MonthlyTotals {
		colors[p.Name] = projectPalette[i%len(projectPalette)]
	}
	return colors
}

func (m *dashboardModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	colors := m.projectColors()

	var bars []barchart.BarData
	for _, week := range m.rep.Weeks {
		for _, day := range week.Days {
			var values []barchart.BarValue
			for _, p := range day.Projects {
				values = append(values, barchart.BarValue{
					Name:  p.Name,
					Value: float64(p.Seconds) / 3600.0,
					Style: lipgloss.NewStyle().Foreground(colors[p.Name]),
				})
			}
			bars = append(bars, barchart.BarData{
				Label:  day.Date.Time().Format("02"),
				Values: values,
			})
		}
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  m.rep.Window.Start.Format("Jan"),
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m dashboardModel) Init() tea.Cmd {
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Back):
			return m, tea.Quit
		case key.Matches(msg, keys.Left):
			m.offset++
			m.rebuild()
			return m, nil
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
				m.rebuild()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(m.rep.Label), "  ",
		mutedStyle.Render(fmt.Sprintf("%s — %s", m.rep.From, m.rep.To)),
	)

	nav := mutedStyle.Render("  ←/→: month  q: quit")

	return panelStyle.Width(m.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", m.renderLegend(), "", m.renderTotals(), "", nav,
		),
	)
}

func (m dashboardModel) renderLegend() string {
	colors := m.projectColors()
	var items []string
	for _, p := range m.rep.MonthlyTotals {
		dot := lipgloss.NewStyle().Foreground(colors[p.Name]).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, p.Name))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}

func (m dashboardModel) renderTotals() string {
	if len(m.rep.MonthlyTotals) == 0 {
		return mutedStyle.Render("  No time this month")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-24s %10s", "Project", "Duration")),
		mutedStyle.Render("  " + strings.Repeat("─", 36)),
	}
	for _, p := range m.rep.MonthlyTotals {
		rows = append(rows, fmt.Sprintf("  %-24s %10s", p.Name, p.Duration))
	}
	rows = append(rows, successStyle.Render(fmt.Sprintf("  %-24s %10s", "Overall",
		duration.Human(time.Duration(m.rep.OverallSeconds)*time.Second))))

	return strings.Join(rows, "\n")
}

// RunDashboard shows the month dashboard for the month containing ref.
func RunDashboard(intervals []ledger.Interval, ref time.Time) error {
	_, err := tea.NewProgram(newDashboardModel(intervals, ref), tea.WithAltScreen()).Run()
	return err
}
