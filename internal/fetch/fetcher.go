// Package fetch is the single network path for everything the tool
// retrieves: list pages, person pages, GeoJSON boundary files. It stacks
// per-host rate limiting, retry with backoff, and the in-memory page cache
// under one roof so callers never talk to http.Client directly.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/tr-officials/atlas/internal/cache"
	"github.com/tr-officials/atlas/internal/ratelimit"
	"github.com/tr-officials/atlas/internal/reqctx"
	"github.com/tr-officials/atlas/internal/retry"
	"github.com/tr-officials/atlas/internal/utils/headers"
	urlutil "github.com/tr-officials/atlas/internal/utils/url"
	"github.com/tr-officials/atlas/pkg/models"
)

// ErrNotFound marks a page that does not exist. Guessed person URLs hit this
// often and callers treat it as a miss, not a failure.
var ErrNotFound = errors.New("page not found")

const defaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Fetcher retrieves pages politely: one token-bucket wait per request,
// retries on transient failures, cache hits skip the network entirely.
type Fetcher struct {
	client         *http.Client
	limiter        ratelimit.RateLimiter
	pages          cache.Cache
	retryCfg       retry.Config
	cacheTTL       time.Duration
	userAgent      string
	acceptLanguage string
	extraHeaders   []string
}

// Options configures a Fetcher. Nil/zero fields fall back to defaults.
type Options struct {
	Client         *http.Client
	Limiter        ratelimit.RateLimiter
	Cache          cache.Cache
	Retry          retry.Config
	CacheTTL       time.Duration
	UserAgent      string
	AcceptLanguage string
	Headers        []string
}

// New creates a Fetcher from the given options.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewHostLimiter(0, 0)
	}
	retryCfg := opts.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig()
	}
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "atlas/1.0"
	}

	return &Fetcher{
		client:         client,
		limiter:        limiter,
		pages:          opts.Cache,
		retryCfg:       retryCfg,
		cacheTTL:       cacheTTL,
		userAgent:      userAgent,
		acceptLanguage: opts.AcceptLanguage,
		extraHeaders:   opts.Headers,
	}
}

// Fetch retrieves urlStr and parses it, returning the goquery document plus
// fetch metadata. A cache hit returns without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*goquery.Document, *models.Page, error) {
	if err := urlutil.ValidateURL(urlStr); err != nil {
		return nil, nil, err
	}

	if f.pages != nil {
		if page, ok := f.pages.Get(urlStr); ok {
			log.Debug().Str("url", urlStr).Msg("Page cache hit")
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
			if err != nil {
				return nil, nil, fmt.Errorf("parse cached HTML: %w", err)
			}
			return doc, page, nil
		}
	}

	page, err := f.get(ctx, urlStr)
	if err != nil {
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, nil, fmt.Errorf("parse HTML: %w", err)
	}

	if f.pages != nil {
		if err := f.pages.Set(urlStr, page, f.cacheTTL); err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("Failed to cache page")
		}
	}

	return doc, page, nil
}

// FetchBytes retrieves urlStr and returns the raw body. Used for non-HTML
// resources like GeoJSON; responses are not cached.
func (f *Fetcher) FetchBytes(ctx context.Context, urlStr string) ([]byte, error) {
	if err := urlutil.ValidateURL(urlStr); err != nil {
		return nil, err
	}
	page, err := f.get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	return []byte(page.HTML), nil
}

// get performs the rate-limited, retried GET.
func (f *Fetcher) get(ctx context.Context, urlStr string) (*models.Page, error) {
	ctx = reqctx.WithRequestContext(ctx)
	reqID := reqctx.GetRequestContext(ctx).RequestID

	var page *models.Page

	err := retry.WithRetry(ctx, f.retryCfg, func() error {
		if err := f.limiter.Wait(ctx, urlStr); err != nil {
			return err
		}

		start := time.Now()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", defaultAccept)
		if f.acceptLanguage != "" {
			req.Header.Set("Accept-Language", f.acceptLanguage)
		}
		headers.Apply(req, f.extraHeaders)

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", urlStr, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return retry.NewHTTPError(resp.StatusCode, resp.Status, urlStr)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		page = &models.Page{
			URL:          urlStr,
			StatusCode:   resp.StatusCode,
			HTML:         string(body),
			FetchedAt:    time.Now(),
			ResponseTime: time.Since(start).Milliseconds(),
		}

		log.Debug().
			Str("req_id", reqID).
			Str("url", urlStr).
			Int("status", resp.StatusCode).
			Int("bytes", len(body)).
			Int64("ms", page.ResponseTime).
			Msg("Fetched")

		return nil
	})
	if err != nil {
		var httpErr retry.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", urlStr, ErrNotFound)
		}
		return nil, reqctx.NewRequestError(ctx, err)
	}

	return page, nil
}
