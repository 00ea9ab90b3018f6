// ABOUTME: Tests for the CLI help output and environment status reporting.
// ABOUTME: Env status lines are checked with their exact column padding.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpContainsFlagsAndVersion(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "v1.2.3")
	out := buf.String()

	for _, want := range []string{
		"lofigui v1.2.3",
		"-port",
		"-config",
		"-layout",
		"-templates",
		"-refresh",
		"-version",
		"three_panel.html",
		"LOFIGUI_REFRESH",
		"LOFIGUI_SANITIZE_MARKDOWN",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestPrintHelpShowsEnvStatus(t *testing.T) {
	t.Setenv("LOFIGUI_PRODUCT_NAME", "Notes")
	t.Setenv("LOFIGUI_VERSION", "")

	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	if !strings.Contains(out, "LOFIGUI_PRODUCT_NAME         [set]") {
		t.Error("expected product name reported as set")
	}
	if !strings.Contains(out, "LOFIGUI_VERSION              [not set]") {
		t.Error("expected version reported as not set")
	}
}

func TestEnvStatus(t *testing.T) {
	t.Setenv("TEST_ENV_STATUS", "x")
	if got := envStatus("TEST_ENV_STATUS"); got != "[set]" {
		t.Errorf("expected [set], got %q", got)
	}
	t.Setenv("TEST_ENV_STATUS", "")
	if got := envStatus("TEST_ENV_STATUS"); got != "[not set]" {
		t.Errorf("expected [not set], got %q", got)
	}
}
