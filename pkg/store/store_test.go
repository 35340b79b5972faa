package store

import (
	"sync"
	"testing"
	"time"

	"github.com/learnloop/learnloop/pkg/entity"
)

func TestStore_CollectionReplaceAndRead(t *testing.T) {
	s := New()

	posts := []entity.Post{
		{ID: entity.ConfirmedID("p1"), UserID: "u1", Description: "first"},
		{ID: entity.ConfirmedID("p2"), UserID: "u2", Description: "second"},
	}
	s.Posts().Replace(posts)

	got := s.Posts().Items()
	if len(got) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(got))
	}
	if !got[0].ID.Equal(entity.ConfirmedID("p1")) {
		t.Errorf("expected p1 first, got %s", got[0].ID)
	}

	// Mutating the returned copy must not leak into the store.
	got[0].Description = "tampered"
	if s.Posts().Items()[0].Description != "first" {
		t.Error("Items must return a copy, not the backing slice")
	}
}

func TestStore_SubscriptionIsolation(t *testing.T) {
	s := New()

	var postEvents, storyEvents int
	postSub := s.Subscribe(func(Field) { postEvents++ }, FieldPosts)
	defer postSub.Unsubscribe()
	storySub := s.Subscribe(func(Field) { storyEvents++ }, FieldStories)
	defer storySub.Unsubscribe()

	s.Stories().Replace([]entity.Story{{ID: entity.ConfirmedID("s1"), Title: "t"}})

	if postEvents != 0 {
		t.Errorf("posts subscriber notified on stories write: %d events", postEvents)
	}
	if storyEvents != 1 {
		t.Errorf("stories subscriber expected 1 event, got %d", storyEvents)
	}
	if postSub.Notifications() != 0 {
		t.Errorf("posts subscription counter = %d, want 0", postSub.Notifications())
	}
}

func TestStore_SynchronousPropagation(t *testing.T) {
	s := New()

	// The write must already be visible when the handler runs.
	var seen int
	sub := s.Subscribe(func(f Field) {
		seen = s.Posts().Len()
	}, FieldPosts)
	defer sub.Unsubscribe()

	s.Posts().Replace([]entity.Post{{ID: entity.ConfirmedID("p1")}})

	if seen != 1 {
		t.Fatalf("handler observed %d posts, want 1", seen)
	}
}

func TestStore_OverlappingSubscribers(t *testing.T) {
	s := New()

	var a, b int
	subA := s.Subscribe(func(Field) { a++ }, FieldPosts, FieldLikes)
	defer subA.Unsubscribe()
	subB := s.Subscribe(func(Field) { b++ }, FieldLikes)
	defer subB.Unsubscribe()

	s.Likes().Replace([]entity.Like{{ID: entity.ConfirmedID("l1"), PostID: "p1", UserID: "u1"}})

	if a != 1 || b != 1 {
		t.Errorf("both overlapping subscribers should fire once, got a=%d b=%d", a, b)
	}

	s.Posts().Replace(nil)
	if a != 2 || b != 1 {
		t.Errorf("only subscriber A should fire on posts, got a=%d b=%d", a, b)
	}
}

func TestStore_SubscribeAllFields(t *testing.T) {
	s := New()

	var events []Field
	sub := s.Subscribe(func(f Field) { events = append(events, f) })
	defer sub.Unsubscribe()

	s.SetActiveTab(3)
	s.SetModal(FieldCreatePostModal, true)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %v", events)
	}
	if events[0] != FieldActiveTab || events[1] != FieldCreatePostModal {
		t.Errorf("unexpected event order: %v", events)
	}
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	s := New()

	var events int
	sub := s.Subscribe(func(Field) { events++ }, FieldPosts)

	s.Posts().Replace([]entity.Post{{ID: entity.ConfirmedID("p1")}})
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	s.Posts().Replace(nil)

	if events != 1 {
		t.Errorf("expected 1 event before unsubscribe, got %d", events)
	}
}

func TestStore_VersionBumpsOnWrite(t *testing.T) {
	s := New()

	v0 := s.Version(FieldLearningEntries)
	s.LearningEntries().Replace([]entity.LearningEntry{{ID: entity.ConfirmedID("le1"), Topic: "go"}})
	v1 := s.Version(FieldLearningEntries)

	if v1 == v0 {
		t.Error("version should change on write")
	}
	if s.Version(FieldPosts) != 0 {
		t.Error("unwritten field version should stay at zero")
	}
}

func TestStore_SelectionSlots(t *testing.T) {
	s := New()

	if _, ok := s.SelectedPost(); ok {
		t.Error("selected post should start unset")
	}

	post := entity.Post{ID: entity.ConfirmedID("p1"), Description: "d"}
	s.SelectPost(post)
	got, ok := s.SelectedPost()
	if !ok || !got.ID.Equal(post.ID) {
		t.Fatalf("expected selected post p1, got %+v ok=%v", got, ok)
	}

	// A new selection supersedes the old one.
	s.SelectPost(entity.Post{ID: entity.ConfirmedID("p2")})
	got, _ = s.SelectedPost()
	if got.ID.String() != "p2" {
		t.Errorf("expected superseding selection p2, got %s", got.ID)
	}

	s.ClearSelectedPost()
	if _, ok := s.SelectedPost(); ok {
		t.Error("selected post should be unset after clear")
	}

	s.SelectCommentID(entity.ConfirmedID("c9"))
	if s.SelectedCommentID().String() != "c9" {
		t.Error("selected comment id not stored")
	}
}

func TestStore_ModalFlags(t *testing.T) {
	s := New()

	if s.ModalOpen(FieldCreateLearningModal) {
		t.Error("modal should start closed")
	}
	s.SetModal(FieldCreateLearningModal, true)
	if !s.ModalOpen(FieldCreateLearningModal) {
		t.Error("modal should be open after set")
	}
	s.SetModal(FieldCreateLearningModal, false)
	if s.ModalOpen(FieldCreateLearningModal) {
		t.Error("modal should be closed after clear")
	}
}

func TestStore_Reset(t *testing.T) {
	s := New()

	s.Posts().Replace([]entity.Post{{ID: entity.ConfirmedID("p1")}})
	s.Stories().Replace([]entity.Story{{ID: entity.ConfirmedID("s1")}})
	s.SetActiveTab(4)
	s.SelectUser(entity.User{ID: entity.ConfirmedID("u1")})
	s.SetModal(FieldProfileModal, true)

	var notified int
	sub := s.Subscribe(func(Field) { notified++ }, FieldPosts)
	defer sub.Unsubscribe()

	s.Reset()

	if s.Posts().Len() != 0 || s.Stories().Len() != 0 {
		t.Error("collections should be empty after reset")
	}
	if s.ActiveTab() != 0 {
		t.Error("active tab should be back at default")
	}
	if _, ok := s.SelectedUser(); ok {
		t.Error("selection slots should be unset after reset")
	}
	if s.ModalOpen(FieldProfileModal) {
		t.Error("modal flags should be cleared after reset")
	}
	if notified != 1 {
		t.Errorf("reset should notify subscribed fields once, got %d", notified)
	}
}

func TestStore_MutateIsAtomic(t *testing.T) {
	s := New()
	s.Comments().Replace([]entity.Comment{})

	// Concurrent appends through Mutate must not lose updates.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Comments().Mutate(func(items []entity.Comment) []entity.Comment {
				return append(items, entity.Comment{ID: entity.PendingID(), PostID: "p1", Text: "hi"})
			})
		}(i)
	}
	wg.Wait()

	if got := s.Comments().Len(); got != 20 {
		t.Fatalf("expected 20 comments after concurrent mutates, got %d", got)
	}
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	s := New()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.LearningEntries().Replace([]entity.LearningEntry{
				{ID: entity.ConfirmedID("le"), Topic: "t", Timestamp: time.Now()},
			})
		}
	}()

	for i := 0; i < 100; i++ {
		_ = s.LearningEntries().Items()
		_ = s.Version(FieldLearningEntries)
	}
	<-done
}

func TestStore_SkillPlansCollection(t *testing.T) {
	s := New()

	var events int
	sub := s.Subscribe(func(Field) { events++ }, FieldSkillPlans)
	defer sub.Unsubscribe()

	s.SkillPlans().Replace([]entity.SkillPlan{
		{ID: entity.ConfirmedID("sp1"), UserID: "u1", SkillDetails: "learn Go generics", SkillLevel: entity.LevelBeginner},
	})

	if s.SkillPlans().Len() != 1 {
		t.Fatalf("expected 1 skill plan, got %d", s.SkillPlans().Len())
	}
	if events != 1 {
		t.Errorf("expected 1 skillPlans notification, got %d", events)
	}

	s.SetModal(FieldCreateSkillPlanModal, true)
	if !s.ModalOpen(FieldCreateSkillPlanModal) {
		t.Error("create-skill-plan modal should be open")
	}

	s.Reset()
	if s.SkillPlans().Len() != 0 {
		t.Error("Reset should clear skill plans")
	}
	if s.ModalOpen(FieldCreateSkillPlanModal) {
		t.Error("Reset should close the create-skill-plan modal")
	}
}

func TestStore_SelectedLearningSlot(t *testing.T) {
	s := New()

	if _, ok := s.SelectedLearning(); ok {
		t.Fatal("fresh store should have no selected learning entry")
	}

	entry := entity.LearningEntry{ID: entity.ConfirmedID("l1"), Topic: "generics"}
	s.SelectLearning(entry)

	got, ok := s.SelectedLearning()
	if !ok || !got.ID.Equal(entry.ID) {
		t.Fatalf("expected l1 selected, got %v ok=%v", got.ID, ok)
	}

	before := s.Version(FieldSelectedLearning)
	s.ClearSelectedLearning()
	if _, ok := s.SelectedLearning(); ok {
		t.Error("ClearSelectedLearning should empty the slot")
	}
	if s.Version(FieldSelectedLearning) == before {
		t.Error("clearing the slot should bump its version")
	}

	s.SelectLearning(entry)
	s.Reset()
	if _, ok := s.SelectedLearning(); ok {
		t.Error("Reset should clear the selected learning entry")
	}
}

func TestStore_LearningSnapshotDoesNotAliasDetails(t *testing.T) {
	s := New()
	s.LearningEntries().Replace([]entity.LearningEntry{{
		ID:       entity.ConfirmedID("l1"),
		Template: entity.TemplateProject,
		Project:  &entity.ProjectDetails{Name: "tracker"},
	}})

	items := s.LearningEntries().Items()
	items[0].Project.Name = "tampered"

	if s.LearningEntries().Items()[0].Project.Name != "tracker" {
		t.Error("snapshot detail pointers must not alias store data")
	}
}
