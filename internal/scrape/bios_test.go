package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tr-officials/atlas/internal/fetch"
	"github.com/tr-officials/atlas/internal/ratelimit"
	"github.com/tr-officials/atlas/internal/retry"
	"github.com/tr-officials/atlas/pkg/models"
)

func personPageHTML(year, place string) string {
	return `<html><body><table class="infobox">
<tr><th>Doğum</th><td>` + year + `
<a href="/wiki/` + place + `">` + place + `</a></td></tr>
</table><p>Uzun bir giriş paragrafı, en az yirmi karakter.</p></body></html>`
}

func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	cfg := retry.DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	f := fetch.New(fetch.Options{
		Limiter: ratelimit.NewHostLimiter(500, 500),
		Retry:   cfg,
	})
	return NewPool(f, workers)
}

func TestPool_Run(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Fevzi_Cakmak", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(personPageHTML("1876", "Istanbul")))
	})
	mux.HandleFunc("/wiki/Kazim_Orbay", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(personPageHTML("1887", "Izmir")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pool := newTestPool(t, 2)

	var progress int32
	urls := []string{srv.URL + "/wiki/Fevzi_Cakmak", srv.URL + "/wiki/Kazim_Orbay"}
	results := pool.Run(context.Background(), urls, func(models.FetchResult) {
		atomic.AddInt32(&progress, 1)
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if n := atomic.LoadInt32(&progress); n != 2 {
		t.Errorf("onResult fired %d times, want 2", n)
	}

	byURL := make(map[string]int)
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("result for %s errored: %v", r.URL, r.Err)
		}
		byURL[r.URL] = r.Info.BirthYear
	}
	if byURL[urls[0]] != 1876 || byURL[urls[1]] != 1887 {
		t.Errorf("birth years = %v", byURL)
	}
}

func TestPool_Run_MissingPageReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	pool := newTestPool(t, 1)

	results := pool.Run(context.Background(), []string{srv.URL + "/wiki/Yok"}, nil)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !errors.Is(results[0].Err, fetch.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", results[0].Err)
	}
}

func TestPool_Run_EmptyInput(t *testing.T) {
	pool := newTestPool(t, 3)
	if results := pool.Run(context.Background(), nil, nil); len(results) != 0 {
		t.Errorf("got %d results for no URLs", len(results))
	}
}
