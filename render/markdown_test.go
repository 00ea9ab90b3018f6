// ABOUTME: Tests for the goldmark-backed markdown converter, including sanitizing and caching.
// ABOUTME: Sanitizing is checked against bluemonday's UGC policy.
package render

import (
	"strings"
	"testing"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

func TestConvertHeadingAndEmphasis(t *testing.T) {
	c := NewConverter()
	out, err := c.Convert("# Hello\n\nThis is **bold** text")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, "<h1>Hello</h1>") {
		t.Errorf("expected <h1>Hello</h1>, got %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected <strong>bold</strong>, got %q", out)
	}
}

func TestConvertEmpty(t *testing.T) {
	out, err := NewConverter().Convert("")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestConvertGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := NewConverter().Convert(src)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected GFM table, got %q", out)
	}
}

func TestConvertPassesRawHTML(t *testing.T) {
	out, err := NewConverter().Convert("<div class=\"note\">hi</div>\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, `<div class="note">hi</div>`) {
		t.Errorf("expected raw HTML passthrough, got %q", out)
	}
}

func TestConvertSanitized(t *testing.T) {
	c := NewConverter(WithSanitizer(bluemonday.UGCPolicy()))
	out, err := c.Convert("hello <script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("expected script to be stripped, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected text to survive, got %q", out)
	}
}

func TestConverterCache(t *testing.T) {
	c := NewConverter(WithCache(time.Minute))
	if c.Cache() == nil {
		t.Fatal("expected cache to be enabled")
	}
	first, _ := c.Convert("*x*")
	second, _ := c.Convert("*x*")
	if first != second {
		t.Errorf("expected identical output, got %q and %q", first, second)
	}
	if c.Cache().Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", c.Cache().Len())
	}

	if NewConverter().Cache() != nil {
		t.Error("expected no cache by default")
	}
}
