// tally is a personal time tracker: start and stop work intervals against
// named projects and report them by month, ISO week and day.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ozanyurt/tally/internal/config"
	"github.com/ozanyurt/tally/internal/duration"
	"github.com/ozanyurt/tally/internal/export"
	"github.com/ozanyurt/tally/internal/ledger"
	"github.com/ozanyurt/tally/internal/report"
	"github.com/ozanyurt/tally/internal/store"
	"github.com/ozanyurt/tally/internal/tui"
)

var (
	version    = "1.0.0"
	ledgerFile string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tiny terminal time tracker",
	Long: `tally records start/stop work intervals against named projects in a
flat JSON ledger and reports them by month, ISO week and day.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var startCmd = &cobra.Command{
	Use:   "start <project...>",
	Short: "Start tracking a project",
	Long:  `Start tracking a project. Multi-word names need no quoting: every argument joins the project name.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		noClock, _ := cmd.Flags().GetBool("no-clock")
		runStart(strings.Join(args, " "), noClock)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active timer",
	Run: func(cmd *cobra.Command, args []string) {
		runStop()
	},
}

var logCmd = &cobra.Command{
	Use:   "log <project> <duration>",
	Short: "Log time after the fact: plain hours (3, 3.5) or a duration (1h30m, 45m)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runLog(args[0], args[1])
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the current month grouped by ISO week and day",
	Run: func(cmd *cobra.Command, args []string) {
		csvOut, _ := cmd.Flags().GetBool("csv")
		dashboard, _ := cmd.Flags().GetBool("dashboard")
		jsonPath, _ := cmd.Flags().GetString("json")
		runReport(csvOut, dashboard, jsonPath)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active timer and today's total",
	Run: func(cmd *cobra.Command, args []string) {
		runStatus()
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tracked time",
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		runClear(force)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tally %s\n", version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&ledgerFile, "file", "f", "", "ledger file (default: $TALLY_FILE or ~/.timelog.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	startCmd.Flags().Bool("no-clock", false, "do not show the live clock after starting")

	reportCmd.Flags().Bool("csv", false, "export the month time sheet as CSV")
	reportCmd.Flags().Bool("dashboard", false, "open the interactive month dashboard")
	reportCmd.Flags().String("json", "", "dump the full ledger as JSON to the given path")

	clearCmd.Flags().BoolP("force", "F", false, "skip the confirmation prompt")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// openStore loads the configuration and binds the ledger store to the
// resolved file.
func openStore() (*store.Store, *config.Config) {
	cfg, warnings, err := config.Load()
	if err != nil {
		fail(err)
	}
	for _, w := range warnings {
		slog.Debug(w)
	}
	st, err := store.New(ledgerFile, cfg.LedgerFile)
	if err != nil {
		fail(err)
	}
	return st, cfg
}

func runStart(project string, noClock bool) {
	st, cfg := openStore()
	l, err := st.Load()
	if err != nil {
		fail(err)
	}

	iv, err := l.Start(project, time.Now())
	if err != nil {
		fmt.Printf("%s. Use 'tally stop' first.\n", capitalize(err.Error()))
		return
	}
	if err := st.Save(l); err != nil {
		fail(err)
	}
	fmt.Printf("Started tracking: %s\n", project)

	if noClock || !cfg.ShowClock {
		return
	}

	// Terminal hangups and kills must not lose the session. The handler
	// reloads from disk so it never clobbers a concurrent edit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if iv := finalize(st); iv != nil {
			fmt.Printf("\nStopped (via %s): %s\n", sig, iv.Project)
		}
		os.Exit(0)
	}()

	if err := tui.RunClock(project, iv.Start.Time); err != nil {
		fail(err)
	}
	signal.Stop(sigCh)

	// Quitting the clock stops the timer.
	if iv := finalize(st); iv != nil {
		fmt.Printf("Stopped: %s (%s)\n", iv.Project, iv.Duration)
	}
}

// finalize reloads the ledger, closes any open interval and saves. It is
// safe to call from every termination path.
func finalize(st *store.Store) *ledger.Interval {
	l, err := st.Load()
	if err != nil {
		slog.Error("reload ledger", "err", err)
		return nil
	}
	iv := l.Finalize(time.Now())
	if iv == nil {
		return nil
	}
	if err := st.Save(l); err != nil {
		slog.Error("save ledger", "err", err)
		return nil
	}
	return iv
}

func runStop() {
	st, _ := openStore()
	l, err := st.Load()
	if err != nil {
		fail(err)
	}

	iv, err := l.Stop(time.Now())
	if errors.Is(err, ledger.ErrNoActive) {
		fmt.Println("No active timer.")
		return
	}
	if err != nil {
		fail(err)
	}
	if err := st.Save(l); err != nil {
		fail(err)
	}
	fmt.Printf("Stopped: %s (%s)\n", iv.Project, iv.Duration)
}

func runLog(project, durText string) {
	d, err := duration.ParseHours(durText)
	if err != nil {
		fmt.Printf("Invalid duration: %v\n", err)
		return
	}

	st, _ := openStore()
	l, err := st.Load()
	if err != nil {
		fail(err)
	}
	l.Log(project, d, time.Now())
	if err := st.Save(l); err != nil {
		fail(err)
	}
	fmt.Printf("Logged %dm to: %s\n", int(d.Minutes()), project)
}

func runReport(csvOut, dashboard bool, jsonPath string) {
	st, cfg := openStore()
	l, err := st.Load()
	if err != nil {
		fail(err)
	}
	if l.Empty() {
		fmt.Println("No entries yet. Start with: tally start <project>")
		return
	}

	now := time.Now()
	if dashboard {
		if err := tui.RunDashboard(l.Intervals, now); err != nil {
			fail(err)
		}
		return
	}

	r := report.Build(l.Intervals, now, now)
	printReport(r)

	if jsonPath != "" {
		if err := export.LedgerJSON(l, jsonPath); err != nil {
			fail(err)
		}
		fmt.Printf("Exported ledger to: %s\n", jsonPath)
	}
	if csvOut {
		base, err := cfg.ExportBase()
		if err != nil {
			fail(err)
		}
		path, err := export.ReportCSV(r, base)
		if err != nil {
			fail(err)
		}
		fmt.Println()
		fmt.Printf("Exported report to: %s\n", osc8Link(path, "file://"+path))
	}
}

func printReport(r *report.Report) {
	fmt.Printf("Report for %s (from %s to %s)\n\n", r.Label, r.From, r.To)

	for _, week := range r.Weeks {
		fmt.Printf("Week %d-W%02d (%s - %s)\n",
			week.Year, week.Number,
			week.From.Time().Format("Jan 02"), week.To.Time().Format("Jan 02"))
		if week.Empty {
			fmt.Println("  (no time)")
			fmt.Println()
			continue
		}
		for _, day := range week.Days {
			fmt.Printf("  %s (%s): %s\n", day.Date, day.Date.Time().Format("Mon"), day.Total)
			for _, p := range day.Projects {
				fmt.Printf("    - %s: %s\n", p.Name, p.Duration)
			}
		}
		fmt.Println()
	}

	fmt.Println("Monthly totals:")
	if len(r.MonthlyTotals) == 0 {
		fmt.Println("(no time this month)")
		return
	}
	for _, p := range r.MonthlyTotals {
		fmt.Printf("- %s: %s\n", p.Name, p.Duration)
	}
	fmt.Printf("- Overall: %s\n", r.Overall)
}

func runStatus() {
	st, _ := openStore()
	l, err := st.Load()
	if err != nil {
		fail(err)
	}

	now := time.Now()
	if active := l.Active(); active != nil {
		fmt.Printf("Tracking: %s (since %s, elapsed %s)\n",
			active.Project,
			active.Start.Format("2006-01-02 15:04"),
			duration.Human(now.Sub(active.Start.Time)))
	} else {
		fmt.Println("No active timer.")
	}

	today := report.DateOf(now)
	day := report.Window{Start: today.Time(), End: today.Next().Time()}
	_, totals := report.Aggregate(l.Intervals, day, now)
	var total time.Duration
	for _, d := range totals {
		total += d
	}
	fmt.Printf("Today: %s\n", duration.Human(total))
}

func runClear(force bool) {
	st, _ := openStore()

	if !force {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title("Delete all tracked time?").
			Description(fmt.Sprintf("This removes %s.", st.Path())).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			fail(err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return
		}
	}

	if err := st.Clear(); err != nil {
		fail(err)
	}
	fmt.Printf("Deleted log file: %s\n", st.Path())
}

// osc8Link wraps text in an OSC 8 hyperlink escape, supported by most
// modern terminal emulators.
func osc8Link(text, url string) string {
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, text)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
