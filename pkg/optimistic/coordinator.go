// Package optimistic implements the optimistic-create protocol: stage a
// placeholder entity in the store immediately, call the remote gateway, then
// reconcile the store with the authoritative result or roll the placeholder
// back. Creates feel instantaneous to the view while the collection stays
// eventually consistent with the backend.
package optimistic

import (
	"context"
	"time"

	"github.com/learnloop/learnloop/pkg/entity"
	llerrors "github.com/learnloop/learnloop/pkg/errors"
	"github.com/learnloop/learnloop/pkg/logging"
	"github.com/learnloop/learnloop/pkg/metrics"
	"github.com/learnloop/learnloop/pkg/session"
	"github.com/learnloop/learnloop/pkg/store"
)

// Placement says where a freshly staged entity lands in its collection.
type Placement int

const (
	// Prepend puts new entities at the head (feed order).
	Prepend Placement = iota
	// Append puts new entities at the tail.
	Append
)

// CreateFunc performs the real create against the backend.
type CreateFunc[T entity.Record, D entity.Draft[T]] func(ctx context.Context, draft D) (T, error)

// Coordinator runs the optimistic-create protocol for one entity kind.
// Distinct invocations generate distinct pending tokens, so concurrent
// creates of the same kind cannot collide.
type Coordinator[T entity.Record, D entity.Draft[T]] struct {
	kind      string
	coll      store.Collection[T]
	create    CreateFunc[T, D]
	session   *session.Manager
	placement Placement
	logger    *logging.Logger
	now       func() time.Time
}

// Option customizes a Coordinator.
type Option[T entity.Record, D entity.Draft[T]] func(*Coordinator[T, D])

// WithLogger attaches a structured logger.
func WithLogger[T entity.Record, D entity.Draft[T]](logger *logging.Logger) Option[T, D] {
	return func(c *Coordinator[T, D]) {
		c.logger = logger
	}
}

// WithClock overrides the placeholder timestamp source.
func WithClock[T entity.Record, D entity.Draft[T]](now func() time.Time) Option[T, D] {
	return func(c *Coordinator[T, D]) {
		c.now = now
	}
}

// NewCoordinator wires the protocol for one kind. kind is a label for logs
// and metrics ("post", "comment", "learning", ...).
func NewCoordinator[T entity.Record, D entity.Draft[T]](
	kind string,
	coll store.Collection[T],
	create CreateFunc[T, D],
	sess *session.Manager,
	placement Placement,
	opts ...Option[T, D],
) *Coordinator[T, D] {
	c := &Coordinator[T, D]{
		kind:      kind,
		coll:      coll,
		create:    create,
		session:   sess,
		placement: placement,
		logger:    logging.NewNopLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create runs the protocol for one draft.
//
// Validation and the signed-in check happen before any store write, so a
// ValidationError or AuthRequiredError leaves the store untouched. On the
// success path there are exactly two store writes: staging and reconciling.
// On failure the rollback write removes every pending-namespace element of
// the collection — including leftovers of earlier failed attempts — and the
// RemoteError is returned only after the store is consistent again.
func (c *Coordinator[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var zero T

	identity, err := c.session.Require()
	if err != nil {
		return zero, err
	}
	if err := draft.Validate(); err != nil {
		return zero, err
	}

	pendingID := entity.PendingID()
	placeholder := draft.Placeholder(identity.UserID, pendingID, c.now())

	c.coll.Mutate(func(items []T) []T {
		if c.placement == Prepend {
			return append([]T{placeholder}, items...)
		}
		return append(items, placeholder)
	})
	c.logger.Debug(logging.CategoryOptimistic, "create_staged", "placeholder staged", map[string]any{
		"kind":       c.kind,
		"pending_id": pendingID.String(),
	})

	confirmed, err := c.create(ctx, draft)
	if err != nil {
		c.rollback()
		metrics.OptimisticCreates.WithLabelValues(c.kind, "rolled_back").Inc()
		c.logger.Error(logging.CategoryOptimistic, "create_failed", "create rejected, placeholder rolled back", map[string]any{
			"kind":  c.kind,
			"error": err.Error(),
		})
		return zero, c.remoteError(err)
	}

	replaced := c.reconcile(pendingID, confirmed)
	if replaced {
		metrics.OptimisticCreates.WithLabelValues(c.kind, "confirmed").Inc()
	} else {
		// The placeholder vanished, likely a concurrent full reload. Not a
		// failure: the authoritative entity must still appear somewhere.
		metrics.OptimisticCreates.WithLabelValues(c.kind, "reinserted").Inc()
		c.logger.Warn(logging.CategoryOptimistic, "reconcile_anomaly", "placeholder missing at reconciliation, inserted authoritative entity", map[string]any{
			"kind":       c.kind,
			"pending_id": pendingID.String(),
			"entity_id":  confirmed.EntityID().String(),
		})
	}
	return confirmed, nil
}

// reconcile swaps the placeholder for the authoritative entity in a single
// store write. Returns false when the placeholder was already gone, in which
// case the entity is inserted at the kind's natural position instead.
func (c *Coordinator[T, D]) reconcile(pendingID entity.ID, confirmed T) bool {
	replaced := false
	c.coll.Mutate(func(items []T) []T {
		for i := range items {
			if items[i].EntityID().Equal(pendingID) {
				items[i] = confirmed
				replaced = true
				return items
			}
		}
		if c.placement == Prepend {
			return append([]T{confirmed}, items...)
		}
		return append(items, confirmed)
	})
	return replaced
}

// rollback removes every pending-namespace element in one store write. The
// sweep also clears placeholders orphaned by earlier failed attempts.
func (c *Coordinator[T, D]) rollback() {
	c.coll.Mutate(func(items []T) []T {
		out := items[:0]
		for _, item := range items {
			if item.EntityID().IsPending() {
				continue
			}
			out = append(out, item)
		}
		return out
	})
}

func (c *Coordinator[T, D]) remoteError(err error) error {
	if _, ok := err.(*llerrors.Error); ok {
		return err
	}
	return llerrors.Wrap(err, llerrors.ErrCodeRemote, c.kind+" create failed").
		WithUserMessage("Could not reach the server, please try again")
}
