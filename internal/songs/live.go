package songs

import (
	"context"
	"sync"

	"github.com/harmos/intakebot/internal/models"
)

// Searcher abstracts the catalog lookup so the live guard can be tested
// against a fake boundary.
type Searcher interface {
	Search(ctx context.Context, query string) []models.SongCandidate
}

// LiveSearcher runs keystroke-triggered lookups with a last-query-wins
// discipline. Each lookup is tagged with a request token; a response whose
// token is no longer the latest issued is discarded, so stale results never
// reach the picker even when responses resolve out of order. Lookups are
// not cancelled, only ignored.
type LiveSearcher struct {
	searcher Searcher

	mu     sync.Mutex
	latest uint64
}

// NewLiveSearcher wraps a catalog searcher with the stale-response guard.
func NewLiveSearcher(searcher Searcher) *LiveSearcher {
	return &LiveSearcher{searcher: searcher}
}

// Search issues a tagged lookup and invokes deliver with the results, but
// only if no newer lookup has been issued in the meantime. deliver runs on
// the lookup goroutine.
func (l *LiveSearcher) Search(ctx context.Context, query string, deliver func([]models.SongCandidate)) {
	l.mu.Lock()
	l.latest++
	token := l.latest
	l.mu.Unlock()

	go func() {
		results := l.searcher.Search(ctx, query)
		l.mu.Lock()
		superseded := token != l.latest
		l.mu.Unlock()
		if superseded {
			return
		}
		deliver(results)
	}()
}
