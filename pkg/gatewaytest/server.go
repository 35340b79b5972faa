// Package gatewaytest provides an in-memory rendition of the backend REST
// API for tests and the demo binary. It keeps entities in memory, assigns
// server ids, and can inject failures and duplicate feed rows.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/learnloop/learnloop/pkg/entity"
)

// Server is an in-memory backend. Safe for concurrent use.
type Server struct {
	mu            sync.Mutex
	router        chi.Router
	posts         []entity.Post
	comments      []entity.Comment
	likes         []entity.Like
	stories       []entity.Story
	learning      []entity.LearningEntry
	skillPlans    []entity.SkillPlan
	connections   []entity.Connection
	notifications []entity.Notification
	users         map[string]entity.User

	failCreates   bool
	duplicateRows bool
}

// NewServer builds an empty backend with all routes mounted.
func NewServer() *Server {
	s := &Server{users: make(map[string]entity.User)}
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", s.listPosts)
		r.Post("/posts", s.createPost)
		r.Put("/posts/{id}", s.updatePost)
		r.Delete("/posts/{id}", s.deletePost)

		r.Get("/comments", s.listComments)
		r.Post("/comments", s.createComment)
		r.Put("/comments/{id}", s.updateComment)
		r.Delete("/comments/{id}", s.deleteComment)

		r.Get("/likes", s.listLikes)
		r.Post("/likes", s.createLike)
		r.Delete("/likes/{id}", s.deleteLike)

		r.Get("/stories", s.listStories)
		r.Post("/stories", s.createStory)
		r.Put("/stories/{id}", s.updateStory)
		r.Delete("/stories/{id}", s.deleteStory)

		r.Get("/learning", s.listLearning)
		r.Post("/learning", s.createLearning)
		r.Put("/learning/{id}", s.updateLearning)
		r.Delete("/learning/{id}", s.deleteLearning)

		r.Get("/skillplans", s.listSkillPlans)
		r.Post("/skillplans", s.createSkillPlan)
		r.Put("/skillplans/{id}", s.updateSkillPlan)
		r.Delete("/skillplans/{id}", s.deleteSkillPlan)

		r.Get("/connections", s.listConnections)
		r.Post("/connections", s.createConnection)
		r.Delete("/connections/{id}", s.deleteConnection)

		r.Get("/users/{id}", s.getUser)

		r.Get("/notifications", s.listNotifications)
		r.Put("/notifications/{id}/read", s.markNotificationRead)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler, suitable for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.router }

// SetFailCreates makes every create endpoint answer 500.
func (s *Server) SetFailCreates(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreates = fail
}

// SetDuplicateRows makes list endpoints repeat every row once, simulating
// pagination overlap.
func (s *Server) SetDuplicateRows(dup bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duplicateRows = dup
}

// SeedUser registers a profile.
func (s *Server) SeedUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID.String()] = u
}

// SeedPosts replaces the post table.
func (s *Server) SeedPosts(posts ...entity.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]entity.Post(nil), posts...)
}

// SeedNotifications replaces the notification table.
func (s *Server) SeedNotifications(notifications ...entity.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]entity.Notification(nil), notifications...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func serverID() entity.ID { return entity.ConfirmedID(uuid.NewString()) }

// requestUserID pulls the caller identity from the bearer token subject.
// Signatures are not checked here, the point is attribution not security.
func requestUserID(r *http.Request) string {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// duplicated repeats every element once when duplicate-row injection is on.
func duplicated[T any](items []T, dup bool) []T {
	if !dup {
		return items
	}
	out := make([]T, 0, len(items)*2)
	out = append(out, items...)
	out = append(out, items...)
	return out
}

func (s *Server) rejectCreate(w http.ResponseWriter) bool {
	if !s.failCreates {
		return false
	}
	writeError(w, http.StatusInternalServerError, "create rejected by test server")
	return true
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, duplicated(s.posts, s.duplicateRows))
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.PostDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed post payload")
		return
	}
	post := entity.Post{
		ID:          serverID(),
		UserID:      requestUserID(r),
		Description: draft.Description,
		MediaURL:    draft.MediaURL,
		MediaType:   draft.MediaType,
		CreatedAt:   time.Now().UTC(),
	}
	s.posts = append([]entity.Post{post}, s.posts...)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	var patch struct {
		Description string `json:"contentDescription"`
		MediaURL    string `json:"mediaLink"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch")
		return
	}
	for i := range s.posts {
		if s.posts[i].ID.String() == id {
			if patch.Description != "" {
				s.posts[i].Description = patch.Description
			}
			if patch.MediaURL != "" {
				s.posts[i].MediaURL = patch.MediaURL
			}
			writeJSON(w, http.StatusOK, s.posts[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "post not found")
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.posts {
		if s.posts[i].ID.String() == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "post not found")
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	postID := r.URL.Query().Get("postId")
	var out []entity.Comment
	for _, c := range s.comments {
		if postID == "" || c.PostID == postID {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, duplicated(out, s.duplicateRows))
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.CommentDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed comment payload")
		return
	}
	comment := entity.Comment{
		ID:        serverID(),
		PostID:    draft.PostID,
		UserID:    requestUserID(r),
		Text:      draft.Text,
		CreatedAt: time.Now().UTC(),
	}
	s.comments = append(s.comments, comment)
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	var patch struct {
		Text string `json:"commentText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch")
		return
	}
	for i := range s.comments {
		if s.comments[i].ID.String() == id {
			s.comments[i].Text = patch.Text
			writeJSON(w, http.StatusOK, s.comments[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "comment not found")
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.comments {
		if s.comments[i].ID.String() == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "comment not found")
}

func (s *Server) listLikes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	postID := r.URL.Query().Get("postId")
	var out []entity.Like
	for _, l := range s.likes {
		if postID == "" || l.PostID == postID {
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createLike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.LikeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed like payload")
		return
	}
	like := entity.Like{
		ID:        serverID(),
		PostID:    draft.PostID,
		UserID:    requestUserID(r),
		CreatedAt: time.Now().UTC(),
	}
	s.likes = append(s.likes, like)
	writeJSON(w, http.StatusCreated, like)
}

func (s *Server) deleteLike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.likes {
		if s.likes[i].ID.String() == id {
			s.likes = append(s.likes[:i], s.likes[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "like not found")
}

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, duplicated(s.stories, s.duplicateRows))
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.StoryDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed story payload")
		return
	}
	story := entity.Story{
		ID:          serverID(),
		UserID:      requestUserID(r),
		Title:       draft.Title,
		Description: draft.Description,
		MediaURL:    draft.MediaURL,
		CreatedAt:   time.Now().UTC(),
	}
	s.stories = append([]entity.Story{story}, s.stories...)
	writeJSON(w, http.StatusCreated, story)
}

func (s *Server) updateStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	var patch struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch")
		return
	}
	for i := range s.stories {
		if s.stories[i].ID.String() == id {
			if patch.Title != "" {
				s.stories[i].Title = patch.Title
			}
			if patch.Description != "" {
				s.stories[i].Description = patch.Description
			}
			writeJSON(w, http.StatusOK, s.stories[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "story not found")
}

func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.stories {
		if s.stories[i].ID.String() == id {
			s.stories = append(s.stories[:i], s.stories[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "story not found")
}

func (s *Server) listLearning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := r.URL.Query().Get("userId")
	var out []entity.LearningEntry
	for _, e := range s.learning {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, duplicated(out, s.duplicateRows))
}

func (s *Server) createLearning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.LearningDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed learning payload")
		return
	}
	created := draft.Placeholder(requestUserID(r), serverID(), time.Now().UTC())
	s.learning = append([]entity.LearningEntry{created}, s.learning...)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateLearning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	var patch struct {
		Status     entity.Status `json:"status"`
		NextSteps  string        `json:"nextSteps"`
		Reflection string        `json:"reflection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch")
		return
	}
	for i := range s.learning {
		if s.learning[i].ID.String() == id {
			if patch.Status != "" {
				s.learning[i].Status = patch.Status
			}
			if patch.NextSteps != "" {
				s.learning[i].NextSteps = patch.NextSteps
			}
			if patch.Reflection != "" {
				s.learning[i].Reflection = patch.Reflection
			}
			writeJSON(w, http.StatusOK, s.learning[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "learning entry not found")
}

func (s *Server) deleteLearning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.learning {
		if s.learning[i].ID.String() == id {
			s.learning = append(s.learning[:i], s.learning[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "learning entry not found")
}

func (s *Server) listSkillPlans(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := r.URL.Query().Get("userId")
	var out []entity.SkillPlan
	for _, p := range s.skillPlans {
		if userID == "" || p.UserID == userID {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, duplicated(out, s.duplicateRows))
}

func (s *Server) createSkillPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.SkillPlanDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed skill plan payload")
		return
	}
	plan := draft.Placeholder(requestUserID(r), serverID(), time.Now().UTC())
	s.skillPlans = append([]entity.SkillPlan{plan}, s.skillPlans...)
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) updateSkillPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	var patch struct {
		Resources string `json:"resources"`
		Date      string `json:"date"`
		Finished  *bool  `json:"finished"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch")
		return
	}
	for i := range s.skillPlans {
		if s.skillPlans[i].ID.String() == id {
			if patch.Resources != "" {
				s.skillPlans[i].Resources = patch.Resources
			}
			if patch.Date != "" {
				s.skillPlans[i].Date = patch.Date
			}
			if patch.Finished != nil {
				s.skillPlans[i].Finished = *patch.Finished
			}
			writeJSON(w, http.StatusOK, s.skillPlans[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "skill plan not found")
}

func (s *Server) deleteSkillPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.skillPlans {
		if s.skillPlans[i].ID.String() == id {
			s.skillPlans = append(s.skillPlans[:i], s.skillPlans[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "skill plan not found")
}

func (s *Server) listConnections(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := r.URL.Query().Get("userId")
	var out []entity.Connection
	for _, c := range s.connections {
		if userID == "" || c.UserID == userID {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createConnection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectCreate(w) {
		return
	}
	var draft entity.ConnectionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed connection payload")
		return
	}
	conn := entity.Connection{
		ID:        serverID(),
		UserID:    requestUserID(r),
		FriendID:  draft.FriendID,
		CreatedAt: time.Now().UTC(),
	}
	s.connections = append(s.connections, conn)
	writeJSON(w, http.StatusCreated, conn)
}

func (s *Server) deleteConnection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.connections {
		if s.connections[i].ID.String() == id {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "connection not found")
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	user, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.notifications)
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.notifications {
		if s.notifications[i].ID.String() == id {
			s.notifications[i].Read = true
			writeJSON(w, http.StatusOK, s.notifications[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "notification not found")
}
