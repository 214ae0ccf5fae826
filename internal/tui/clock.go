// Package tui holds the interactive terminal views: the live tracking
// clock and the month dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// glyphs renders each clock character as five rows of light-shade blocks.
var glyphs = map[rune][5]string{
	'0': {
		" ░░░ ",
		"░   ░",
		"░   ░",
		"░   ░",
		" ░░░ ",
	},
	'1': {
		"  ░  ",
		" ░░  ",
		"  ░  ",
		"  ░  ",
		" ░░░ ",
	},
	'2': {
		" ░░░ ",
		"    ░",
		" ░░░ ",
		"░    ",
		"░░░░░",
	},
	'3': {
		"░░░░ ",
		"    ░",
		" ░░░ ",
		"    ░",
		"░░░░ ",
	},
	'4': {
		"░  ░ ",
		"░  ░ ",
		"░░░░░",
		"   ░ ",
		"   ░ ",
	},
	'5': {
		"░░░░░",
		"░    ",
		"░░░░ ",
		"    ░",
		"░░░░ ",
	},
	'6': {
		" ░░░ ",
		"░    ",
		"░░░░ ",
		"░   ░",
		" ░░░ ",
	},
	'7': {
		"░░░░░",
		"   ░ ",
		"  ░  ",
		" ░   ",
		" ░   ",
	},
	'8': {
		" ░░░ ",
		"░   ░",
		" ░░░ ",
		"░   ░",
		" ░░░ ",
	},
	'9': {
		" ░░░ ",
		"░   ░",
		" ░░░░",
		"    ░",
		" ░░░ ",
	},
	':': {
		"     ",
		"  ░  ",
		"     ",
		"  ░  ",
		"     ",
	},
}

// renderGlyphs draws text as five rows of block glyphs. Characters
// without a glyph fall back to '0', matching the clock's digit set.
func renderGlyphs(text string) string {
	var rows [5]strings.Builder
	for _, ch := range text {
		g, ok := glyphs[ch]
		if !ok {
			g = glyphs['0']
		}
		for i := 0; i < 5; i++ {
			rows[i].WriteString(g[i])
			rows[i].WriteString("  ")
		}
	}
	lines := make([]string, 5)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type clockModel struct {
	project string
	start   time.Time
	now     time.Time
}

func newClockModel(project string, start time.Time) clockModel {
	return clockModel{project: project, start: start, now: time.Now()}
}

func (m clockModel) Init() tea.Cmd {
	return tickCmd()
}

func (m clockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Back) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m clockModel) View() string {
	face := clockStyle.Render(renderGlyphs(m.now.Format("15:04:05")))

	elapsed := int(m.now.Sub(m.start).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	h := elapsed / 3600
	mm := (elapsed % 3600) / 60
	ss := elapsed % 60

	status := strings.Join([]string{
		fmt.Sprintf("currently working on: %s", strings.ToLower(m.project)),
		strings.ToLower(m.now.Format("time: 2006-01-02 15:04:05")),
		fmt.Sprintf("elapsed: %dh%02dm%02ds", h, mm, ss),
	}, "\n")

	return face + "\n\n" + mutedStyle.Render(status) + "\n"
}

// RunClock shows the live tracking clock until the user quits it. The
// interval keeps running after the clock exits; closing it is the
// caller's decision.
func RunClock(project string, start time.Time) error {
	_, err := tea.NewProgram(newClockModel(project, start)).Run()
	return err
}
