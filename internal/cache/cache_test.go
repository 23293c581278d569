package cache

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tr-officials/atlas/pkg/models"
)

func page(url, html string) *models.Page {
	return &models.Page{URL: url, StatusCode: 200, HTML: html, FetchedAt: time.Now()}
}

func TestMemoryCache_SetGet(t *testing.T) {
	mc := NewMemoryCache(1 << 20)
	defer mc.Close()

	url := "https://tr.wikipedia.org/wiki/Ankara"
	if err := mc.Set(url, page(url, "<html>ankara</html>"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := mc.Get(url)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.HTML != "<html>ankara</html>" {
		t.Errorf("unexpected HTML: %q", got.HTML)
	}

	if _, ok := mc.Get("https://tr.wikipedia.org/wiki/Konya"); ok {
		t.Error("unexpected hit for unknown URL")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	mc := NewMemoryCache(1 << 20)
	defer mc.Close()

	url := "https://tr.wikipedia.org/wiki/Sivas"
	mc.Set(url, page(url, "x"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := mc.Get(url); ok {
		t.Error("expired entry should miss")
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	// Cap small enough that a third large page forces an eviction.
	body := strings.Repeat("x", 4096)
	mc := NewMemoryCache(2 * (int64(len(body)) + 1024 + 60))
	defer mc.Close()

	urls := make([]string, 3)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://tr.wikipedia.org/wiki/Page_%d", i)
		mc.Set(urls[i], page(urls[i], body), time.Minute)
	}

	// Oldest entry must be gone, newest must survive.
	if _, ok := mc.Get(urls[0]); ok {
		t.Error("LRU entry should have been evicted")
	}
	if _, ok := mc.Get(urls[2]); !ok {
		t.Error("most recent entry should survive eviction")
	}
}

func TestMemoryCache_UpdateExisting(t *testing.T) {
	mc := NewMemoryCache(1 << 20)
	defer mc.Close()

	url := "https://tr.wikipedia.org/wiki/Tokat"
	mc.Set(url, page(url, "old"), time.Minute)
	mc.Set(url, page(url, "new"), time.Minute)

	got, ok := mc.Get(url)
	if !ok || got.HTML != "new" {
		t.Fatalf("expected updated entry, got %+v ok=%v", got, ok)
	}

	entries, _, _ := mc.Stats()
	if entries != 1 {
		t.Errorf("entries = %d, want 1", entries)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	mc := NewMemoryCache(1 << 20)
	defer mc.Close()

	url := "https://tr.wikipedia.org/wiki/Rize"
	mc.Set(url, page(url, "x"), time.Minute)
	mc.Clear()

	if _, ok := mc.Get(url); ok {
		t.Error("cleared cache should miss")
	}
	if entries, size, _ := mc.Stats(); entries != 0 || size != 0 {
		t.Errorf("after clear: entries=%d size=%d, want 0/0", entries, size)
	}
}
