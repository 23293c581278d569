package scrape

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tr-officials/atlas/internal/fetch"
	"github.com/tr-officials/atlas/pkg/models"
)

// Pool fans person-page URLs out to concurrent fetchers. The shared rate
// limiter keeps total politeness constant no matter the worker count.
type Pool struct {
	fetcher *fetch.Fetcher
	workers int
}

// NewPool creates a worker pool with the given concurrency.
func NewPool(fetcher *fetch.Fetcher, workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if workers > 16 {
		workers = 16
	}
	return &Pool{fetcher: fetcher, workers: workers}
}

// Run fetches every URL, extracts birth info, and returns all results.
// onResult, if set, fires per completed URL in completion order; callers use
// it to advance progress bars and write back incrementally.
func (p *Pool) Run(ctx context.Context, urls []string, onResult func(models.FetchResult)) []models.FetchResult {
	if len(urls) == 0 {
		return []models.FetchResult{}
	}

	jobs := make(chan string, len(urls))
	results := make(chan models.FetchResult, len(urls))

	var wg sync.WaitGroup
	for w := 1; w <= p.workers; w++ {
		wg.Add(1)
		go p.worker(ctx, w, jobs, results, &wg)
	}

	go func() {
		for _, u := range urls {
			jobs <- u
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	all := make([]models.FetchResult, 0, len(urls))
	for result := range results {
		if onResult != nil {
			onResult(result)
		}
		all = append(all, result)
	}

	return all
}

func (p *Pool) worker(ctx context.Context, id int, jobs <-chan string, results chan<- models.FetchResult, wg *sync.WaitGroup) {
	defer wg.Done()

	log.Debug().Int("worker_id", id).Msg("Worker started")

	for u := range jobs {
		select {
		case <-ctx.Done():
			log.Debug().Int("worker_id", id).Msg("Worker cancelled")
			return
		default:
		}

		result := models.FetchResult{URL: u}

		doc, _, err := p.fetcher.Fetch(ctx, u)
		if err != nil {
			result.Err = err
		} else {
			result.Info = ExtractBirthInfo(doc, u)
		}

		select {
		case results <- result:
		case <-ctx.Done():
			return
		}
	}

	log.Debug().Int("worker_id", id).Msg("Worker finished")
}
