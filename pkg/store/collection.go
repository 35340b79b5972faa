package store

import "github.com/learnloop/learnloop/pkg/entity"

// Collection is a typed handle to one entity collection field. Reads return
// a copy; writes replace the whole field and notify subscribers of exactly
// that field. The store never reorders a collection on its own — ordering
// belongs to whatever populates it.
type Collection[T entity.Record] struct {
	store *Store
	field Field
	items *[]T
}

// Field returns the store field this collection is bound to.
func (c Collection[T]) Field() Field { return c.field }

// Items returns a copy of the current collection.
func (c Collection[T]) Items() []T {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return cloneSlice(*c.items)
}

// Len returns the current element count.
func (c Collection[T]) Len() int {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return len(*c.items)
}

// Replace swaps the whole collection in one write.
func (c Collection[T]) Replace(items []T) {
	c.store.mu.Lock()
	*c.items = cloneSlice(items)
	c.store.versions[c.field]++
	c.store.mu.Unlock()
	c.store.notify(c.field)
}

// Mutate applies fn to a copy of the collection and writes the result back
// as a single field replacement (one notification). The store stays locked
// for the read-modify-write, so concurrent Mutate calls cannot lose updates.
func (c Collection[T]) Mutate(fn func(items []T) []T) {
	c.store.mu.Lock()
	next := fn(cloneSlice(*c.items))
	*c.items = next
	c.store.versions[c.field]++
	c.store.mu.Unlock()
	c.store.notify(c.field)
}

// cloneSlice copies a collection snapshot. Kinds carrying pointer fields
// implement Clone so a snapshot can never alias store-owned data.
func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	for i := range dup {
		if c, ok := any(dup[i]).(interface{ Clone() T }); ok {
			dup[i] = c.Clone()
		}
	}
	return dup
}

// Posts returns the handle to the posts collection.
func (s *Store) Posts() Collection[entity.Post] {
	return Collection[entity.Post]{store: s, field: FieldPosts, items: &s.posts}
}

// Comments returns the handle to the comments collection.
func (s *Store) Comments() Collection[entity.Comment] {
	return Collection[entity.Comment]{store: s, field: FieldComments, items: &s.comments}
}

// Likes returns the handle to the likes collection.
func (s *Store) Likes() Collection[entity.Like] {
	return Collection[entity.Like]{store: s, field: FieldLikes, items: &s.likes}
}

// Stories returns the handle to the stories collection.
func (s *Store) Stories() Collection[entity.Story] {
	return Collection[entity.Story]{store: s, field: FieldStories, items: &s.stories}
}

// LearningEntries returns the handle to the learning-entries collection.
func (s *Store) LearningEntries() Collection[entity.LearningEntry] {
	return Collection[entity.LearningEntry]{store: s, field: FieldLearningEntries, items: &s.learning}
}

// SkillPlans returns the handle to the skill-plans collection.
func (s *Store) SkillPlans() Collection[entity.SkillPlan] {
	return Collection[entity.SkillPlan]{store: s, field: FieldSkillPlans, items: &s.skillPlans}
}

// Connections returns the handle to the friend-connections collection.
func (s *Store) Connections() Collection[entity.Connection] {
	return Collection[entity.Connection]{store: s, field: FieldConnections, items: &s.connections}
}

// NotificationsList returns the handle to the notifications collection.
func (s *Store) NotificationsList() Collection[entity.Notification] {
	return Collection[entity.Notification]{store: s, field: FieldNotifications, items: &s.notifications}
}
