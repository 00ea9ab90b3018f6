// ABOUTME: Markdown-to-HTML conversion for buffer fragments using goldmark with GFM extensions.
// ABOUTME: Output is trusted by default; an optional bluemonday policy and TTL cache can be layered on.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns markdown source into an HTML fragment.
type Converter struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	cache     *Cache
}

// ConverterOption configures a Converter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	sanitizer *bluemonday.Policy
	cacheTTL  time.Duration
}

// WithSanitizer runs converted HTML through the given bluemonday policy.
func WithSanitizer(p *bluemonday.Policy) ConverterOption {
	return func(c *converterConfig) {
		c.sanitizer = p
	}
}

// WithCache caches conversions for ttl. A zero ttl disables caching.
func WithCache(ttl time.Duration) ConverterOption {
	return func(c *converterConfig) {
		c.cacheTTL = ttl
	}
}

// NewConverter builds a Converter. Raw HTML embedded in the markdown is
// passed through unless a sanitizer is configured.
func NewConverter(opts ...ConverterOption) *Converter {
	var cfg converterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		sanitizer: cfg.sanitizer,
	}
	if cfg.cacheTTL > 0 {
		variant := "raw"
		if c.sanitizer != nil {
			variant = "sanitized"
		}
		c.cache = NewCache(c.convert, variant, cfg.cacheTTL)
	}
	return c
}

// Convert returns the HTML for src. Empty source converts to "".
func (c *Converter) Convert(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	if c.cache != nil {
		return c.cache.Convert(src)
	}
	return c.convert(src)
}

// Cache returns the conversion cache, or nil when caching is off.
func (c *Converter) Cache() *Cache {
	return c.cache
}

func (c *Converter) convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	out := buf.String()
	if c.sanitizer != nil {
		out = c.sanitizer.Sanitize(out)
	}
	return out, nil
}
