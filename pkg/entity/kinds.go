package entity

import "time"

// Record is implemented by every entity kind. Generic code (collections,
// dedup, the optimistic coordinator) needs nothing beyond identity.
type Record interface {
	EntityID() ID
}

// User is a member profile.
type User struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (u User) EntityID() ID { return u.ID }

// Post is a feed entry with an attached media reference.
type Post struct {
	ID          ID        `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"contentDescription"`
	MediaURL    string    `json:"mediaLink"`
	MediaType   string    `json:"mediaType,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

func (p Post) EntityID() ID { return p.ID }

// Comment belongs to exactly one post.
type Comment struct {
	ID        ID        `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"commentText"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (c Comment) EntityID() ID { return c.ID }

// Like records one user liking one post.
type Like struct {
	ID        ID        `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (l Like) EntityID() ID { return l.ID }

// Story is a short-lived media card shown above the feed.
type Story struct {
	ID          ID        `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MediaURL    string    `json:"image"`
	CreatedAt   time.Time `json:"timestamp,omitempty"`
}

func (s Story) EntityID() ID { return s.ID }

// Connection links two users as friends.
type Connection struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"userId"`
	FriendID  string    `json:"friendId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (c Connection) EntityID() ID { return c.ID }

// Notification is a per-user message with a read flag.
type Notification struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (n Notification) EntityID() ID { return n.ID }

