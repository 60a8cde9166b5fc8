package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/ternarybob/arbor"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/results"
	"github.com/kjenmarks/ctc-e2e/internal/scenarios"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles   configPaths
	scenarioList  = flag.String("scenario", "all", "Comma-separated scenario names, or 'all'")
	headless      = flag.Bool("headless", true, "Run Chrome headless (overrides config)")
	listScenarios = flag.Bool("list", false, "List available scenarios and exit")
	showVersion   = flag.Bool("version", false, "Print version information")
	showVersionV  = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	defer common.RecoverWithCrashFile()

	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion || *showVersionV {
		fmt.Printf("ctc-e2e version %s\n", common.GetVersion())
		os.Exit(0)
	}

	if *listScenarios {
		for _, name := range scenarios.Names() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("ctc-e2e.toml"); err == nil {
			configFiles = append(configFiles, "ctc-e2e.toml")
		} else if _, err := os.Stat("deployments/local/ctc-e2e.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/ctc-e2e.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// CLI overrides beat config and env
	if flagPassed("headless") {
		config.Browser.Headless = *headless
	}

	runStamp := time.Now().Format("20060102-150405")
	runDir := filepath.Join(config.Output.ResultsBaseDir, "run-"+runStamp)

	logger = common.InitLogger(config, runDir)
	common.InstallCrashHandler(runDir)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("target", config.Target.BaseURL).
		Str("results", runDir).
		Msg("Configuration loaded")

	if logFile := common.GetLogFilePath(logger); logFile != "" {
		logger.Info().Str("log_file", logFile).Msg("Run log")
	}

	names, err := resolveScenarios(*scenarioList)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid scenario selection")
		os.Exit(1)
	}

	// Ctrl+C cancels the active scenario and skips the rest
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	common.SafeGo(logger, "signal-handler", func() {
		<-sigChan
		logger.Warn().Msg("Interrupt received, cancelling run")
		cancel()
	})

	failed := runAll(ctx, names, runDir)

	if failed > 0 {
		pterm.Error.Printf("%d of %d scenarios failed\n", failed, len(names))
		os.Exit(1)
	}
	pterm.Success.Printf("All %d scenarios passed\n", len(names))
}

// runAll executes the selected scenarios and prints the summary table
func runAll(ctx context.Context, names []string, runDir string) int {
	type row struct {
		name    string
		summary results.Summary
		err     error
		elapsed time.Duration
	}
	rows := make([]row, 0, len(names))
	failed := 0

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}

		pterm.DefaultSection.Println("Scenario: " + name)

		scenario, err := scenarios.Get(name)
		if err != nil {
			logger.Error().Err(err).Msg("Scenario lookup failed")
			failed++
			continue
		}

		collector := results.NewCollector()
		scenarioDir := filepath.Join(runDir, fmt.Sprintf("%s-%s", name, time.Now().Format("20060102-150405")))

		start := time.Now()
		err = runOne(ctx, scenario, collector, scenarioDir)
		elapsed := time.Since(start)

		summary := collector.Summary()
		rows = append(rows, row{name: name, summary: summary, err: err, elapsed: elapsed})

		if err != nil || summary.Failed > 0 {
			failed++
			pterm.Error.Printf("%s: %d passed, %d failed, %d skipped (%s)\n",
				name, summary.Passed, summary.Failed, summary.Skipped, elapsed.Round(time.Second))
			if err != nil {
				pterm.Error.Println("  " + err.Error())
			}
		} else {
			pterm.Success.Printf("%s: %d passed, %d skipped (%s)\n",
				name, summary.Passed, summary.Skipped, elapsed.Round(time.Second))
		}
	}

	tableData := pterm.TableData{{"Scenario", "Passed", "Failed", "Skipped", "Pass Rate", "Duration"}}
	for _, r := range rows {
		tableData = append(tableData, []string{
			r.name,
			fmt.Sprintf("%d", r.summary.Passed),
			fmt.Sprintf("%d", r.summary.Failed),
			fmt.Sprintf("%d", r.summary.Skipped),
			r.summary.PassRate,
			r.elapsed.Round(time.Second).String(),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

	return failed
}

// runOne gives a scenario its own browser session and writes its report
func runOne(ctx context.Context, scenario scenarios.Scenario, collector *results.Collector, dir string) error {
	session, err := browser.NewSession(config, dir, 30*time.Minute)
	if err != nil {
		return fmt.Errorf("browser session failed: %w", err)
	}
	defer session.Close()

	if err := scenario(ctx, session, collector, config); err != nil {
		return err
	}

	report := collector.BuildReport(results.ReportTarget{
		URL:      config.Target.BaseURL,
		Project:  config.Project.Name,
		Language: config.Project.Language,
	})
	if err := report.WriteJSON(filepath.Join(dir, "test_report.json")); err != nil {
		return err
	}
	return report.WriteHTML(filepath.Join(dir, "report.html"))
}

// resolveScenarios expands the -scenario flag into concrete names
func resolveScenarios(selection string) ([]string, error) {
	if selection == "" || selection == "all" {
		return scenarios.Names(), nil
	}

	var names []string
	for _, part := range strings.Split(selection, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, err := scenarios.Get(name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no scenarios selected")
	}
	return names, nil
}

// flagPassed reports whether a flag was explicitly set on the command line
func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}
