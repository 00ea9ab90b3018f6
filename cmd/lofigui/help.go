// ABOUTME: Help display for the lofigui CLI with flags, configuration sources, and examples.
// ABOUTME: Shows which LOFIGUI_* variables are currently set so overrides are easy to spot.
package main

import (
	"fmt"
	"io"
	"os"
)

// envVars lists the environment overrides understood by app.Config.ApplyEnv.
var envVars = []string{
	"LOFIGUI_PRODUCT_NAME",
	"LOFIGUI_VERSION",
	"LOFIGUI_HOME_PATH",
	"LOFIGUI_DISPLAY_PATH",
	"LOFIGUI_TEMPLATE_DIR",
	"LOFIGUI_REFRESH",
	"LOFIGUI_BOUNCE_LIMIT",
	"LOFIGUI_MAX_BUFFER_SIZE",
	"LOFIGUI_SANITIZE_MARKDOWN",
	"LOFIGUI_MARKDOWN_CACHE_TTL",
}

// printHelp writes usage, flags, configuration precedence, and examples to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "lofigui %s: a buffer-to-page web UI with auto-refresh while work runs\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lofigui [flags]")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -port <port>          Server port (default: 1340)")
	fmt.Fprintln(w, "  -config <file>        YAML configuration file (default: lofigui.yaml)")
	fmt.Fprintln(w, "  -layout <name>        single.html, navbar.html, three_panel.html (default: navbar.html)")
	fmt.Fprintln(w, "  -templates <dir>      Directory of extra page templates")
	fmt.Fprintln(w, "  -refresh <duration>   Refresh interval while an action runs (default: 1s)")
	fmt.Fprintln(w, "  -steps <n>            Progress steps in the demo model (default: 5)")
	fmt.Fprintln(w, "  -keep                 Keep output from previous runs")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration is layered: defaults, YAML file, .env and environment, flags.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	for _, key := range envVars {
		fmt.Fprintf(w, "  %-28s %s\n", key, envStatus(key))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  lofigui")
	fmt.Fprintln(w, "  lofigui -port 8080 -layout three_panel.html")
	fmt.Fprintln(w, "  lofigui -refresh 500ms -steps 20")
	fmt.Fprintln(w, "  LOFIGUI_PRODUCT_NAME=Notes lofigui -config notes.yaml")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/2389-research/lofigui")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
