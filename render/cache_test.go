// ABOUTME: Tests for the conversion cache covering TTL-based expiry, cache hits, and concurrent access.
// ABOUTME: Validates Cache wraps a ConvertFunc with sha256-keyed in-memory caching.
package render

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeConverter is a test double that counts invocations and returns fixed output.
type fakeConverter struct {
	callCount atomic.Int64
	output    string
	err       error
}

func (f *fakeConverter) convert(src string) (string, error) {
	f.callCount.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func TestCacheReturnsCachedResult(t *testing.T) {
	conv := &fakeConverter{output: "<h1>hi</h1>\n"}
	cache := NewCache(conv.convert, "raw", 5*time.Minute)

	out1, err := cache.Convert("# hi")
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if out1 != "<h1>hi</h1>\n" {
		t.Errorf("expected <h1>hi</h1>, got %q", out1)
	}

	out2, err := cache.Convert("# hi")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if out2 != out1 {
		t.Errorf("expected cached result, got %q", out2)
	}
	if conv.callCount.Load() != 1 {
		t.Errorf("expected 1 converter call (cached), got %d", conv.callCount.Load())
	}
}

func TestCacheDifferentInputsDifferentEntries(t *testing.T) {
	conv := &fakeConverter{output: "out"}
	cache := NewCache(conv.convert, "raw", 5*time.Minute)

	cache.Convert("a")
	cache.Convert("b")

	if conv.callCount.Load() != 2 {
		t.Errorf("expected 2 converter calls for different inputs, got %d", conv.callCount.Load())
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	conv := &fakeConverter{output: "out"}
	cache := NewCache(conv.convert, "raw", 50*time.Millisecond)

	cache.Convert("text")
	if conv.callCount.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", conv.callCount.Load())
	}

	time.Sleep(100 * time.Millisecond)

	cache.Convert("text")
	if conv.callCount.Load() != 2 {
		t.Errorf("expected 2 calls after TTL expiry, got %d", conv.callCount.Load())
	}
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	conv := &fakeConverter{err: fmt.Errorf("convert failed")}
	cache := NewCache(conv.convert, "raw", 5*time.Minute)

	if _, err := cache.Convert("text"); err == nil {
		t.Fatal("expected error, got nil")
	}

	conv.err = nil
	conv.output = "fixed output"

	out, err := cache.Convert("text")
	if err != nil {
		t.Fatalf("expected success after fix, got: %v", err)
	}
	if out != "fixed output" {
		t.Errorf("expected 'fixed output', got %q", out)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	conv := &fakeConverter{output: "concurrent output"}
	cache := NewCache(conv.convert, "raw", 5*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := cache.Convert("text")
			if err != nil {
				t.Errorf("concurrent call failed: %v", err)
				return
			}
			if out != "concurrent output" {
				t.Errorf("expected 'concurrent output', got %q", out)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", cache.Len())
	}
}

func TestCacheKeyIncludesVariantAndContent(t *testing.T) {
	src := "# title"
	expected := fmt.Sprintf("%x:%s", sha256.Sum256([]byte(src)), "sanitized")

	if key := cacheKey(src, "sanitized"); key != expected {
		t.Errorf("expected cache key %q, got %q", expected, key)
	}
	if cacheKey(src, "raw") == cacheKey(src, "sanitized") {
		t.Error("expected variants to produce different keys")
	}
}

func TestCacheLenAndClear(t *testing.T) {
	conv := &fakeConverter{output: "out"}
	cache := NewCache(conv.convert, "raw", 5*time.Minute)

	if cache.Len() != 0 {
		t.Errorf("expected 0 entries initially, got %d", cache.Len())
	}

	cache.Convert("a")
	cache.Convert("b")
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", cache.Len())
	}

	cache.Convert("a")
	if conv.callCount.Load() != 3 {
		t.Errorf("expected 3 converter calls after clear, got %d", conv.callCount.Load())
	}
}
