// ABOUTME: Loads LOFIGUI_* and other variables from .env files before configuration is resolved.
// ABOUTME: Never overwrites variables already present in the environment.
package main

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// parseDotEnv reads KEY=VALUE lines. Blank lines and # comments are skipped,
// an "export " prefix is allowed, and matching single or double quotes
// around the value are removed.
func parseDotEnv(r io.Reader) ([][2]string, error) {
	var pairs [][2]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		pairs = append(pairs, [2]string{key, unquote(strings.TrimSpace(value))})
	}
	return pairs, scanner.Err()
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

// loadDotEnv applies the variables in path that are not already set and
// returns how many it applied. A missing file applies nothing.
func loadDotEnv(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	pairs, err := parseDotEnv(f)
	if err != nil {
		log.Printf("component=cli action=dotenv status=error path=%s err=%v", path, err)
	}

	applied := 0
	for _, kv := range pairs {
		if _, exists := os.LookupEnv(kv[0]); exists {
			continue
		}
		os.Setenv(kv[0], kv[1])
		applied++
	}
	if applied > 0 {
		log.Printf("component=cli action=dotenv path=%s applied=%d", path, applied)
	}
	return applied
}

// loadDotEnvAuto loads .env from the working directory and each of its
// parents. Nearer files win because variables are never overwritten.
func loadDotEnvAuto() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		loadDotEnv(filepath.Join(dir, ".env"))
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
