// Package store holds the single shared client state: every entity
// collection plus the UI selection slots, with field-level change
// notification. All views read from one Store instance; all mutation flows
// write through it. Writes replace whole fields, never individual elements,
// so a subscriber can detect "this field changed" from the field name alone.
package store

import (
	"sync"

	"github.com/learnloop/learnloop/pkg/entity"
	"github.com/learnloop/learnloop/pkg/logging"
	"github.com/learnloop/learnloop/pkg/metrics"
)

// Field names one addressable slot of the store.
type Field string

const (
	FieldPosts           Field = "posts"
	FieldComments        Field = "comments"
	FieldLikes           Field = "likes"
	FieldStories         Field = "stories"
	FieldLearningEntries Field = "learningEntries"
	FieldSkillPlans      Field = "skillPlans"
	FieldConnections     Field = "connections"
	FieldNotifications   Field = "notifications"

	FieldActiveTab         Field = "activeTab"
	FieldSelectedPost      Field = "selectedPost"
	FieldSelectedStory     Field = "selectedStory"
	FieldSelectedUser      Field = "selectedUser"
	FieldSelectedLearning  Field = "selectedLearning"
	FieldSelectedCommentID Field = "selectedCommentId"

	FieldCreatePostModal      Field = "createPostModal"
	FieldCreateStoryModal     Field = "createStoryModal"
	FieldCreateLearningModal  Field = "createLearningModal"
	FieldCreateSkillPlanModal Field = "createSkillPlanModal"
	FieldUpdatePostModal      Field = "updatePostModal"
	FieldStoryViewerModal     Field = "storyViewerModal"
	FieldProfileModal         Field = "profileModal"
	FieldFriendProfileModal   Field = "friendProfileModal"
	FieldLearningDetailsModal Field = "learningDetailsModal"
)

// AllFields lists every addressable field, in declaration order.
var AllFields = []Field{
	FieldPosts, FieldComments, FieldLikes, FieldStories,
	FieldLearningEntries, FieldSkillPlans, FieldConnections,
	FieldNotifications,
	FieldActiveTab, FieldSelectedPost, FieldSelectedStory,
	FieldSelectedUser, FieldSelectedLearning, FieldSelectedCommentID,
	FieldCreatePostModal, FieldCreateStoryModal, FieldCreateLearningModal,
	FieldCreateSkillPlanModal,
	FieldUpdatePostModal, FieldStoryViewerModal, FieldProfileModal,
	FieldFriendProfileModal, FieldLearningDetailsModal,
}

// Store is the process-wide shared state container. Construct with New;
// Reset returns it to the empty post-construction state at session teardown.
//
// Writes are serialized; subscriber callbacks run synchronously on the
// writing goroutine after the field is replaced, so a write is visible to
// every subscriber by the time the setter returns. Callbacks must not write
// the store re-entrantly.
type Store struct {
	mu sync.RWMutex

	posts         []entity.Post
	comments      []entity.Comment
	likes         []entity.Like
	stories       []entity.Story
	learning      []entity.LearningEntry
	skillPlans    []entity.SkillPlan
	connections   []entity.Connection
	notifications []entity.Notification

	activeTab         int
	selectedPost      *entity.Post
	selectedStory     *entity.Story
	selectedUser      *entity.User
	selectedLearning  *entity.LearningEntry
	selectedCommentID entity.ID
	modals            map[Field]bool

	versions map[Field]uint64

	subMu  sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64

	logger *logging.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger attaches a structured logger for field-write events.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		modals:   make(map[Field]bool),
		versions: make(map[Field]uint64),
		subs:     make(map[uint64]*Subscription),
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version returns the write counter of a field. It changes on every write,
// so two equal versions mean the field's value identity has not changed.
func (s *Store) Version(field Field) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[field]
}

// Reset clears every collection and UI slot back to defaults. Called at
// session teardown (sign-out). Every field change is notified.
func (s *Store) Reset() {
	s.mu.Lock()
	s.posts = nil
	s.comments = nil
	s.likes = nil
	s.stories = nil
	s.learning = nil
	s.skillPlans = nil
	s.connections = nil
	s.notifications = nil
	s.activeTab = 0
	s.selectedPost = nil
	s.selectedStory = nil
	s.selectedUser = nil
	s.selectedLearning = nil
	s.selectedCommentID = entity.ID{}
	s.modals = make(map[Field]bool)
	for _, f := range AllFields {
		s.versions[f]++
	}
	s.mu.Unlock()

	s.logger.Info(logging.CategoryStore, "reset", "store reset", nil)
	s.notify(AllFields...)
}

// ActiveTab returns the active navigation tab index.
func (s *Store) ActiveTab() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTab
}

// SetActiveTab changes the active navigation tab index.
func (s *Store) SetActiveTab(tab int) {
	s.mu.Lock()
	s.activeTab = tab
	s.versions[FieldActiveTab]++
	s.mu.Unlock()
	s.notify(FieldActiveTab)
}

// SelectedPost returns the selected post, if any.
func (s *Store) SelectedPost() (entity.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedPost == nil {
		return entity.Post{}, false
	}
	return *s.selectedPost, true
}

// SelectPost sets the selected-post slot.
func (s *Store) SelectPost(p entity.Post) {
	s.mu.Lock()
	s.selectedPost = &p
	s.versions[FieldSelectedPost]++
	s.mu.Unlock()
	s.notify(FieldSelectedPost)
}

// ClearSelectedPost empties the selected-post slot.
func (s *Store) ClearSelectedPost() {
	s.mu.Lock()
	s.selectedPost = nil
	s.versions[FieldSelectedPost]++
	s.mu.Unlock()
	s.notify(FieldSelectedPost)
}

// SelectedStory returns the selected story, if any.
func (s *Store) SelectedStory() (entity.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedStory == nil {
		return entity.Story{}, false
	}
	return *s.selectedStory, true
}

// SelectStory sets the selected-story slot.
func (s *Store) SelectStory(st entity.Story) {
	s.mu.Lock()
	s.selectedStory = &st
	s.versions[FieldSelectedStory]++
	s.mu.Unlock()
	s.notify(FieldSelectedStory)
}

// ClearSelectedStory empties the selected-story slot.
func (s *Store) ClearSelectedStory() {
	s.mu.Lock()
	s.selectedStory = nil
	s.versions[FieldSelectedStory]++
	s.mu.Unlock()
	s.notify(FieldSelectedStory)
}

// SelectedUser returns the selected user profile, if any.
func (s *Store) SelectedUser() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedUser == nil {
		return entity.User{}, false
	}
	return *s.selectedUser, true
}

// SelectUser sets the selected-user slot.
func (s *Store) SelectUser(u entity.User) {
	s.mu.Lock()
	s.selectedUser = &u
	s.versions[FieldSelectedUser]++
	s.mu.Unlock()
	s.notify(FieldSelectedUser)
}

// ClearSelectedUser empties the selected-user slot.
func (s *Store) ClearSelectedUser() {
	s.mu.Lock()
	s.selectedUser = nil
	s.versions[FieldSelectedUser]++
	s.mu.Unlock()
	s.notify(FieldSelectedUser)
}

// SelectedLearning returns the learning entry shown in the details modal,
// if any.
func (s *Store) SelectedLearning() (entity.LearningEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedLearning == nil {
		return entity.LearningEntry{}, false
	}
	return *s.selectedLearning, true
}

// SelectLearning sets the selected-learning slot.
func (s *Store) SelectLearning(e entity.LearningEntry) {
	s.mu.Lock()
	s.selectedLearning = &e
	s.versions[FieldSelectedLearning]++
	s.mu.Unlock()
	s.notify(FieldSelectedLearning)
}

// ClearSelectedLearning empties the selected-learning slot.
func (s *Store) ClearSelectedLearning() {
	s.mu.Lock()
	s.selectedLearning = nil
	s.versions[FieldSelectedLearning]++
	s.mu.Unlock()
	s.notify(FieldSelectedLearning)
}

// SelectedCommentID returns the selected comment id; the zero ID means none.
func (s *Store) SelectedCommentID() entity.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedCommentID
}

// SelectCommentID sets the selected-comment slot.
func (s *Store) SelectCommentID(id entity.ID) {
	s.mu.Lock()
	s.selectedCommentID = id
	s.versions[FieldSelectedCommentID]++
	s.mu.Unlock()
	s.notify(FieldSelectedCommentID)
}

// ModalOpen reports whether the named modal flag is set.
func (s *Store) ModalOpen(field Field) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modals[field]
}

// SetModal flips a modal flag.
func (s *Store) SetModal(field Field, open bool) {
	s.mu.Lock()
	s.modals[field] = open
	s.versions[field]++
	s.mu.Unlock()
	s.notify(field)
}

// notify runs every interested subscriber synchronously. The data lock is
// not held while callbacks run; the written values are already visible.
func (s *Store) notify(fields ...Field) {
	s.subMu.RLock()
	targets := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		targets = append(targets, sub)
	}
	s.subMu.RUnlock()

	for _, field := range fields {
		metrics.StoreWrites.WithLabelValues(string(field)).Inc()
		for _, sub := range targets {
			sub.deliver(field)
		}
	}
}
