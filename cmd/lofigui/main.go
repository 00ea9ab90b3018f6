// ABOUTME: CLI entry point for the lofigui demo server.
// ABOUTME: Resolves configuration from .env, YAML, environment, and flags, then serves until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2389-research/lofigui/app"
	"github.com/2389-research/lofigui/web"
)

var version = "dev"

// config holds all CLI configuration parsed from flags.
type config struct {
	port        int
	configPath  string
	layout      string
	templateDir string
	refresh     time.Duration
	steps       int
	keepBuffer  bool
	showVersion bool
}

func main() {
	loadDotEnvAuto()

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("lofigui %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("lofigui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.port, "port", 1340, "Server port")
	fs.StringVar(&cfg.configPath, "config", "lofigui.yaml", "YAML configuration file")
	fs.StringVar(&cfg.layout, "layout", web.LayoutNavbar, "Page layout: single.html, navbar.html, three_panel.html, or a template in -templates")
	fs.StringVar(&cfg.templateDir, "templates", "", "Directory of extra page templates")
	fs.DurationVar(&cfg.refresh, "refresh", 0, "Refresh interval while an action runs (overrides config)")
	fs.IntVar(&cfg.steps, "steps", 5, "Number of progress steps in the demo model")
	fs.BoolVar(&cfg.keepBuffer, "keep", false, "Keep output from previous runs")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cfg, nil
}

// resolveAppConfig layers the YAML file, LOFIGUI_* variables, and flags, in
// that order, and validates the result.
func resolveAppConfig(cfg config) (app.Config, error) {
	appCfg, err := app.LoadConfig(cfg.configPath)
	if err != nil {
		return appCfg, err
	}
	if err := appCfg.ApplyEnv(); err != nil {
		return appCfg, err
	}
	if cfg.refresh > 0 {
		appCfg.Refresh = cfg.refresh
	}
	if cfg.templateDir != "" {
		appCfg.TemplateDir = cfg.templateDir
	}
	if appCfg.Version == "" {
		appCfg.Version = version
	}
	return appCfg, appCfg.Validate()
}

// run starts the server and blocks until SIGINT or SIGTERM.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	appCfg, err := resolveAppConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	srv, err := web.NewServer(web.ServerConfig{
		Addr:       fmt.Sprintf("127.0.0.1:%d", cfg.port),
		App:        appCfg,
		Layout:     cfg.layout,
		KeepBuffer: cfg.keepBuffer,
		MaxTasks:   1,
	}, demoModel(cfg.steps, time.Second, appCfg.HomePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "listening on http://127.0.0.1:%d\n", cfg.port)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
