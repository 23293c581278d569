package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tr-officials/atlas/internal/cache"
	"github.com/tr-officials/atlas/internal/ratelimit"
	"github.com/tr-officials/atlas/internal/retry"
)

func fastRetry() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

func TestFetch_ParsesDocument(t *testing.T) {
	var gotUA, gotLang, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		gotCustom = r.Header.Get("X-Atlas")
		w.Write([]byte(`<html><body><h1 id="t">Başbakanlar</h1></body></html>`))
	}))
	defer srv.Close()

	f := New(Options{
		Limiter:        ratelimit.NewHostLimiter(500, 500),
		Retry:          fastRetry(),
		UserAgent:      "test-agent",
		AcceptLanguage: "tr-TR",
		Headers:        []string{"X-Atlas: 1"},
	})

	doc, page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("#t").Text(); got != "Başbakanlar" {
		t.Errorf("parsed text = %q", got)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("status = %d", page.StatusCode)
	}
	if gotUA != "test-agent" || gotLang != "tr-TR" || gotCustom != "1" {
		t.Errorf("headers = %q / %q / %q", gotUA, gotLang, gotCustom)
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer srv.Close()

	pages := cache.NewMemoryCache(1 << 20)
	defer pages.Close()

	f := New(Options{Cache: pages, Limiter: ratelimit.NewHostLimiter(500, 500), Retry: fastRetry()})

	for i := 0; i < 3; i++ {
		if _, _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestFetch_NotFound(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New(Options{Limiter: ratelimit.NewHostLimiter(500, 500), Retry: fastRetry()})

	_, _, err := f.Fetch(context.Background(), srv.URL+"/wiki/Yok_Biri")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("404 fetched %d times, want 1 (no retry)", n)
	}
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<html><body>recovered</body></html>`))
	}))
	defer srv.Close()

	f := New(Options{Limiter: ratelimit.NewHostLimiter(500, 500), Retry: fastRetry()})

	doc, _, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("body").Text(); got != "recovered" {
		t.Errorf("body = %q", got)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Errorf("server saw %d requests, want 3", n)
	}
}

func TestFetchBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	f := New(Options{Limiter: ratelimit.NewHostLimiter(500, 500), Retry: fastRetry()})

	data, err := f.FetchBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if string(data) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("body = %s", data)
	}
}

func TestFetch_RejectsBadURL(t *testing.T) {
	f := New(Options{Limiter: ratelimit.NewHostLimiter(500, 500), Retry: fastRetry()})
	if _, _, err := f.Fetch(context.Background(), "ftp://example.com"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}
