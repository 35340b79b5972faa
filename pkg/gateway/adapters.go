package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/learnloop/learnloop/pkg/entity"
)

// PostsGateway is the remote adapter for feed posts.
type PostsGateway struct{ c *Client }

// Posts returns the posts adapter.
func (c *Client) Posts() *PostsGateway { return &PostsGateway{c: c} }

// List fetches the whole feed in server order.
func (g *PostsGateway) List(ctx context.Context) ([]entity.Post, error) {
	var out []entity.Post
	if err := g.c.do(ctx, "post", "list", http.MethodGet, "/api/posts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new post and returns the authoritative entity.
func (g *PostsGateway) Create(ctx context.Context, draft entity.PostDraft) (entity.Post, error) {
	var out entity.Post
	if err := g.c.do(ctx, "post", "create", http.MethodPost, "/api/posts", nil, draft, &out); err != nil {
		return entity.Post{}, err
	}
	return out, nil
}

// PostPatch is a partial update; zero fields are left unchanged.
type PostPatch struct {
	Description string `json:"contentDescription,omitempty"`
	MediaURL    string `json:"mediaLink,omitempty"`
}

// Update applies a partial update and returns the authoritative entity.
func (g *PostsGateway) Update(ctx context.Context, id string, patch PostPatch) (entity.Post, error) {
	var out entity.Post
	if err := g.c.do(ctx, "post", "update", http.MethodPut, "/api/posts/"+id, nil, patch, &out); err != nil {
		return entity.Post{}, err
	}
	return out, nil
}

// Delete removes a post.
func (g *PostsGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "post", "delete", http.MethodDelete, "/api/posts/"+id, nil, nil, nil)
}

// CommentsGateway is the remote adapter for comments, scoped by post.
type CommentsGateway struct{ c *Client }

// Comments returns the comments adapter.
func (c *Client) Comments() *CommentsGateway { return &CommentsGateway{c: c} }

// ListByPost fetches the comments of one post in display order.
func (g *CommentsGateway) ListByPost(ctx context.Context, postID string) ([]entity.Comment, error) {
	var out []entity.Comment
	query := url.Values{"postId": {postID}}
	if err := g.c.do(ctx, "comment", "list", http.MethodGet, "/api/comments", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new comment.
func (g *CommentsGateway) Create(ctx context.Context, draft entity.CommentDraft) (entity.Comment, error) {
	var out entity.Comment
	if err := g.c.do(ctx, "comment", "create", http.MethodPost, "/api/comments", nil, draft, &out); err != nil {
		return entity.Comment{}, err
	}
	return out, nil
}

// CommentPatch is a partial update to a comment.
type CommentPatch struct {
	Text string `json:"commentText"`
}

// Update edits a comment's text.
func (g *CommentsGateway) Update(ctx context.Context, id string, patch CommentPatch) (entity.Comment, error) {
	var out entity.Comment
	if err := g.c.do(ctx, "comment", "update", http.MethodPut, "/api/comments/"+id, nil, patch, &out); err != nil {
		return entity.Comment{}, err
	}
	return out, nil
}

// Delete removes a comment.
func (g *CommentsGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "comment", "delete", http.MethodDelete, "/api/comments/"+id, nil, nil, nil)
}

// LikesGateway is the remote adapter for likes, scoped by post.
type LikesGateway struct{ c *Client }

// Likes returns the likes adapter.
func (c *Client) Likes() *LikesGateway { return &LikesGateway{c: c} }

// ListByPost fetches the likes of one post.
func (g *LikesGateway) ListByPost(ctx context.Context, postID string) ([]entity.Like, error) {
	var out []entity.Like
	query := url.Values{"postId": {postID}}
	if err := g.c.do(ctx, "like", "list", http.MethodGet, "/api/likes", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new like.
func (g *LikesGateway) Create(ctx context.Context, draft entity.LikeDraft) (entity.Like, error) {
	var out entity.Like
	if err := g.c.do(ctx, "like", "create", http.MethodPost, "/api/likes", nil, draft, &out); err != nil {
		return entity.Like{}, err
	}
	return out, nil
}

// Delete removes a like (unlike).
func (g *LikesGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "like", "delete", http.MethodDelete, "/api/likes/"+id, nil, nil, nil)
}

// StoriesGateway is the remote adapter for stories.
type StoriesGateway struct{ c *Client }

// Stories returns the stories adapter.
func (c *Client) Stories() *StoriesGateway { return &StoriesGateway{c: c} }

// List fetches every active story.
func (g *StoriesGateway) List(ctx context.Context) ([]entity.Story, error) {
	var out []entity.Story
	if err := g.c.do(ctx, "story", "list", http.MethodGet, "/api/stories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new story.
func (g *StoriesGateway) Create(ctx context.Context, draft entity.StoryDraft) (entity.Story, error) {
	var out entity.Story
	if err := g.c.do(ctx, "story", "create", http.MethodPost, "/api/stories", nil, draft, &out); err != nil {
		return entity.Story{}, err
	}
	return out, nil
}

// StoryPatch is a partial update to a story.
type StoryPatch struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Update edits a story.
func (g *StoriesGateway) Update(ctx context.Context, id string, patch StoryPatch) (entity.Story, error) {
	var out entity.Story
	if err := g.c.do(ctx, "story", "update", http.MethodPut, "/api/stories/"+id, nil, patch, &out); err != nil {
		return entity.Story{}, err
	}
	return out, nil
}

// Delete removes a story.
func (g *StoriesGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "story", "delete", http.MethodDelete, "/api/stories/"+id, nil, nil, nil)
}

// LearningGateway is the remote adapter for learning entries, scoped by user.
type LearningGateway struct{ c *Client }

// Learning returns the learning adapter.
func (c *Client) Learning() *LearningGateway { return &LearningGateway{c: c} }

// ListByUser fetches one user's learning entries.
func (g *LearningGateway) ListByUser(ctx context.Context, userID string) ([]entity.LearningEntry, error) {
	var out []entity.LearningEntry
	query := url.Values{"userId": {userID}}
	if err := g.c.do(ctx, "learning", "list", http.MethodGet, "/api/learning", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new learning entry.
func (g *LearningGateway) Create(ctx context.Context, draft entity.LearningDraft) (entity.LearningEntry, error) {
	var out entity.LearningEntry
	if err := g.c.do(ctx, "learning", "create", http.MethodPost, "/api/learning", nil, draft, &out); err != nil {
		return entity.LearningEntry{}, err
	}
	return out, nil
}

// LearningPatch is a partial update to a learning entry.
type LearningPatch struct {
	Status     entity.Status `json:"status,omitempty"`
	NextSteps  string        `json:"nextSteps,omitempty"`
	Reflection string        `json:"reflection,omitempty"`
}

// Update edits a learning entry.
func (g *LearningGateway) Update(ctx context.Context, id string, patch LearningPatch) (entity.LearningEntry, error) {
	var out entity.LearningEntry
	if err := g.c.do(ctx, "learning", "update", http.MethodPut, "/api/learning/"+id, nil, patch, &out); err != nil {
		return entity.LearningEntry{}, err
	}
	return out, nil
}

// Delete removes a learning entry.
func (g *LearningGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "learning", "delete", http.MethodDelete, "/api/learning/"+id, nil, nil, nil)
}

// SkillPlansGateway is the remote adapter for skill plans.
type SkillPlansGateway struct{ c *Client }

// SkillPlans returns the skill-plans adapter.
func (c *Client) SkillPlans() *SkillPlansGateway { return &SkillPlansGateway{c: c} }

// ListByUser fetches one user's skill plans.
func (g *SkillPlansGateway) ListByUser(ctx context.Context, userID string) ([]entity.SkillPlan, error) {
	var out []entity.SkillPlan
	query := url.Values{"userId": {userID}}
	if err := g.c.do(ctx, "skillplan", "list", http.MethodGet, "/api/skillplans", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new skill plan.
func (g *SkillPlansGateway) Create(ctx context.Context, draft entity.SkillPlanDraft) (entity.SkillPlan, error) {
	var out entity.SkillPlan
	if err := g.c.do(ctx, "skillplan", "create", http.MethodPost, "/api/skillplans", nil, draft, &out); err != nil {
		return entity.SkillPlan{}, err
	}
	return out, nil
}

// SkillPlanPatch is a partial update to a skill plan.
type SkillPlanPatch struct {
	Resources string `json:"resources,omitempty"`
	Date      string `json:"date,omitempty"`
	Finished  *bool  `json:"finished,omitempty"`
}

// Update edits a skill plan, typically marking it finished.
func (g *SkillPlansGateway) Update(ctx context.Context, id string, patch SkillPlanPatch) (entity.SkillPlan, error) {
	var out entity.SkillPlan
	if err := g.c.do(ctx, "skillplan", "update", http.MethodPut, "/api/skillplans/"+id, nil, patch, &out); err != nil {
		return entity.SkillPlan{}, err
	}
	return out, nil
}

// Delete removes a skill plan.
func (g *SkillPlansGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "skillplan", "delete", http.MethodDelete, "/api/skillplans/"+id, nil, nil, nil)
}

// ConnectionsGateway is the remote adapter for friend connections.
type ConnectionsGateway struct{ c *Client }

// Connections returns the connections adapter.
func (c *Client) Connections() *ConnectionsGateway { return &ConnectionsGateway{c: c} }

// ListByUser fetches one user's connections.
func (g *ConnectionsGateway) ListByUser(ctx context.Context, userID string) ([]entity.Connection, error) {
	var out []entity.Connection
	query := url.Values{"userId": {userID}}
	if err := g.c.do(ctx, "connection", "list", http.MethodGet, "/api/connections", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new connection.
func (g *ConnectionsGateway) Create(ctx context.Context, draft entity.ConnectionDraft) (entity.Connection, error) {
	var out entity.Connection
	if err := g.c.do(ctx, "connection", "create", http.MethodPost, "/api/connections", nil, draft, &out); err != nil {
		return entity.Connection{}, err
	}
	return out, nil
}

// Delete removes a connection (unfriend).
func (g *ConnectionsGateway) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, "connection", "delete", http.MethodDelete, "/api/connections/"+id, nil, nil, nil)
}

// UsersGateway is the remote adapter for member profiles.
type UsersGateway struct{ c *Client }

// Users returns the users adapter.
func (c *Client) Users() *UsersGateway { return &UsersGateway{c: c} }

// Get fetches one user profile by id.
func (g *UsersGateway) Get(ctx context.Context, id string) (entity.User, error) {
	var out entity.User
	if err := g.c.do(ctx, "user", "get", http.MethodGet, "/api/users/"+id, nil, nil, &out); err != nil {
		return entity.User{}, err
	}
	return out, nil
}

// NotificationsGateway is the remote adapter for notifications.
type NotificationsGateway struct{ c *Client }

// Notifications returns the notifications adapter.
func (c *Client) Notifications() *NotificationsGateway { return &NotificationsGateway{c: c} }

// List fetches the signed-in user's notifications.
func (g *NotificationsGateway) List(ctx context.Context) ([]entity.Notification, error) {
	var out []entity.Notification
	if err := g.c.do(ctx, "notification", "list", http.MethodGet, "/api/notifications", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags one notification as read.
func (g *NotificationsGateway) MarkRead(ctx context.Context, id string) error {
	return g.c.do(ctx, "notification", "mark_read", http.MethodPut, "/api/notifications/"+id+"/read", nil, nil, nil)
}
