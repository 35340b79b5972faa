package feed

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/learnloop/learnloop/pkg/entity"
	llerrors "github.com/learnloop/learnloop/pkg/errors"
	"github.com/learnloop/learnloop/pkg/logging"
	"github.com/learnloop/learnloop/pkg/metrics"
	"github.com/learnloop/learnloop/pkg/store"
)

// Loader fetches the authoritative collection from the backend.
type Loader[T entity.Record] func(ctx context.Context) ([]T, error)

// Refresher re-fetches one collection and publishes the deduplicated result
// to the store. It backs the optional consistency refresh after a mutation:
// reconciliation alone keeps the store correct, so a failed or throttled
// refresh is never an error the caller must handle.
//
// Concurrent refreshes of the same collection collapse into a single fetch
// and a single store write.
type Refresher[T entity.Record] struct {
	coll    store.Collection[T]
	load    Loader[T]
	group   singleflight.Group
	limiter *rate.Limiter
	logger  *logging.Logger
}

// RefresherOption customizes a Refresher.
type RefresherOption[T entity.Record] func(*Refresher[T])

// WithMinInterval throttles refreshes to at most one per interval. Calls
// arriving early are dropped, not queued.
func WithMinInterval[T entity.Record](interval time.Duration) RefresherOption[T] {
	return func(r *Refresher[T]) {
		r.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithRefreshLogger attaches a structured logger.
func WithRefreshLogger[T entity.Record](logger *logging.Logger) RefresherOption[T] {
	return func(r *Refresher[T]) {
		r.logger = logger
	}
}

// NewRefresher builds a refresher for one collection.
func NewRefresher[T entity.Record](coll store.Collection[T], load Loader[T], opts ...RefresherOption[T]) *Refresher[T] {
	r := &Refresher[T]{
		coll:    coll,
		load:    load,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh fetches, dedupes, and publishes the collection. Returns the error
// from the loader so callers can report it, but the store is untouched on
// failure.
func (r *Refresher[T]) Refresh(ctx context.Context) error {
	field := string(r.coll.Field())

	if !r.limiter.Allow() {
		metrics.FeedRefreshes.WithLabelValues(field, "throttled").Inc()
		return nil
	}

	_, err, shared := r.group.Do(field, func() (any, error) {
		items, err := r.load(ctx)
		if err != nil {
			return nil, err
		}
		r.coll.Replace(Dedupe(items))
		return nil, nil
	})
	if err != nil {
		metrics.FeedRefreshes.WithLabelValues(field, "failed").Inc()
		r.logger.Warn(logging.CategoryFeed, "refresh_failed", "collection refresh failed", map[string]any{
			"field": field,
			"error": err.Error(),
		})
		return llerrors.Wrap(err, llerrors.ErrCodeRemote, "refresh "+field)
	}

	if shared {
		metrics.FeedRefreshes.WithLabelValues(field, "shared").Inc()
	} else {
		metrics.FeedRefreshes.WithLabelValues(field, "loaded").Inc()
	}
	return nil
}
