// ABOUTME: Tests for the .env loader that reads KEY=VALUE pairs into the process environment.
// ABOUTME: Covers quoting, comments, export prefixes, no-clobber behavior, and parent directory lookup.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempEnv(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// unsetForTest clears key for the duration of the test and restores it afterwards.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestParseDotEnv(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"",
		"PLAIN=hello",
		`DOUBLE="quoted value"`,
		`SINGLE='single quoted'`,
		"export EXPORTED=yes",
		"EQUALS=a=b=c",
		"NOEQUALS",
		"=novalue",
		`MISMATCH="half'`,
	}, "\n")

	pairs, err := parseDotEnv(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := [][2]string{
		{"PLAIN", "hello"},
		{"DOUBLE", "quoted value"},
		{"SINGLE", "single quoted"},
		{"EXPORTED", "yes"},
		{"EQUALS", "a=b=c"},
		{"MISMATCH", `"half'`},
	}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %d: %v", len(want), len(pairs), pairs)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d = %v, want %v", i, pairs[i], want[i])
		}
	}
}

func TestLoadDotEnvSetsVariables(t *testing.T) {
	path := writeTempEnv(t, t.TempDir(), "TEST_DOTENV_A=hello\nTEST_DOTENV_B=world\n")
	unsetForTest(t, "TEST_DOTENV_A")
	unsetForTest(t, "TEST_DOTENV_B")

	if n := loadDotEnv(path); n != 2 {
		t.Errorf("expected 2 applied, got %d", n)
	}
	if got := os.Getenv("TEST_DOTENV_A"); got != "hello" {
		t.Errorf("expected TEST_DOTENV_A=hello, got %q", got)
	}
	if got := os.Getenv("TEST_DOTENV_B"); got != "world" {
		t.Errorf("expected TEST_DOTENV_B=world, got %q", got)
	}
}

func TestLoadDotEnvDoesNotClobber(t *testing.T) {
	path := writeTempEnv(t, t.TempDir(), "TEST_DOTENV_KEEP=from_file\n")
	t.Setenv("TEST_DOTENV_KEEP", "from_env")

	if n := loadDotEnv(path); n != 0 {
		t.Errorf("expected nothing applied, got %d", n)
	}
	if got := os.Getenv("TEST_DOTENV_KEEP"); got != "from_env" {
		t.Errorf("expected existing value kept, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if n := loadDotEnv(filepath.Join(t.TempDir(), ".env")); n != 0 {
		t.Errorf("expected 0 for missing file, got %d", n)
	}
}

func TestLoadDotEnvAutoWalksParents(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTempEnv(t, root, "TEST_DOTENV_PARENT=root\nTEST_DOTENV_NEAR=root\n")
	writeTempEnv(t, child, "TEST_DOTENV_NEAR=child\n")
	unsetForTest(t, "TEST_DOTENV_PARENT")
	unsetForTest(t, "TEST_DOTENV_NEAR")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(child); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	loadDotEnvAuto()

	if got := os.Getenv("TEST_DOTENV_PARENT"); got != "root" {
		t.Errorf("expected parent .env applied, got %q", got)
	}
	if got := os.Getenv("TEST_DOTENV_NEAR"); got != "child" {
		t.Errorf("expected nearest .env to win, got %q", got)
	}
}
