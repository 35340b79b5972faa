package store

import (
	"sync/atomic"

	"github.com/learnloop/learnloop/pkg/metrics"
)

// Handler receives the name of a changed field.
type Handler func(Field)

// Subscription binds a view to a subset of store fields. It is notified
// exactly when one of its fields is written and never for any other field.
// Unsubscribe must be called on every teardown path; it is idempotent.
type Subscription struct {
	id      uint64
	store   *Store
	fields  map[Field]bool
	handler Handler
	closed  atomic.Bool
	fired   atomic.Uint64
}

// Subscribe registers handler for the given fields. Subscribing with no
// fields observes every field. The handler runs synchronously on the writing
// goroutine; it must not write back into the store.
func (s *Store) Subscribe(handler Handler, fields ...Field) *Subscription {
	set := make(map[Field]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}

	s.subMu.Lock()
	s.nextID++
	sub := &Subscription{
		id:      s.nextID,
		store:   s,
		fields:  set,
		handler: handler,
	}
	s.subs[sub.id] = sub
	s.subMu.Unlock()

	return sub
}

// Unsubscribe removes the binding. Safe to call more than once; after it
// returns no further notifications are delivered.
func (sub *Subscription) Unsubscribe() {
	if sub.closed.Swap(true) {
		return
	}
	sub.store.subMu.Lock()
	delete(sub.store.subs, sub.id)
	sub.store.subMu.Unlock()
}

// Notifications returns how many times the handler has fired.
func (sub *Subscription) Notifications() uint64 {
	return sub.fired.Load()
}

func (sub *Subscription) deliver(field Field) {
	if sub.closed.Load() {
		return
	}
	if len(sub.fields) > 0 && !sub.fields[field] {
		return
	}
	sub.fired.Add(1)
	metrics.StoreNotifications.WithLabelValues(string(field)).Inc()
	if sub.handler != nil {
		sub.handler(field)
	}
}
