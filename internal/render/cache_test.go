package render

import (
	"sync"
	"testing"
)

func TestCacheKey_DistinguishesOptions(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions().WithWidth(100)
	c := DefaultOptions().WithStyle("light")

	if cacheKey(a) == cacheKey(b) {
		t.Error("different widths should produce different keys")
	}
	if cacheKey(a) == cacheKey(c) {
		t.Error("different styles should produce different keys")
	}
	if cacheKey(a) != cacheKey(DefaultOptions()) {
		t.Error("equal options should produce equal keys")
	}
}

func TestCacheSize(t *testing.T) {
	ClearCache()
	if CacheSize() != 0 {
		t.Fatalf("CacheSize() after ClearCache = %d", CacheSize())
	}

	opts := DefaultOptions().WithStyle("notty")
	if _, err := Markdown("a", opts); err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if _, err := Markdown("b", opts); err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}

	if _, err := Markdown("c", opts.WithWidth(60)); err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	opts := DefaultOptions().WithStyle("notty")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("**bold** text", opts); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Markdown() failed: %v", err)
	}
}
