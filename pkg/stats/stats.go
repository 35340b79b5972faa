// Package stats computes read-time aggregates over collections already held
// in the store. Nothing here is stored or cached: every call recomputes from
// the snapshot it is given and the wall-clock time it is passed.
package stats

import (
	"time"

	"github.com/learnloop/learnloop/pkg/entity"
)

// RecentWindow is how far back an entry still counts as recent.
const RecentWindow = 7 * 24 * time.Hour

// LearningStats is the dashboard aggregate over learning entries.
type LearningStats struct {
	Total      int
	Completed  int
	InProgress int
	OnHold     int
	Planned    int
	Recent     int
	ByTemplate map[entity.Template]int
}

// Learning buckets entries by status, counts the ones newer than the recent
// window relative to now, and groups by template.
func Learning(entries []entity.LearningEntry, now time.Time) LearningStats {
	s := LearningStats{
		Total:      len(entries),
		ByTemplate: make(map[entity.Template]int),
	}
	cutoff := now.Add(-RecentWindow)

	for _, e := range entries {
		switch e.Status {
		case entity.StatusCompleted:
			s.Completed++
		case entity.StatusInProgress:
			s.InProgress++
		case entity.StatusOnHold:
			s.OnHold++
		case entity.StatusPlanned:
			s.Planned++
		}

		if e.Timestamp.After(cutoff) {
			s.Recent++
		}

		template := e.Template
		if template == "" {
			template = entity.TemplateGeneral
		}
		s.ByTemplate[template]++
	}
	return s
}

// EngagementStats aggregates feed interaction counts.
type EngagementStats struct {
	Posts          int
	Comments       int
	Likes          int
	CommentsByPost map[string]int
	LikesByPost    map[string]int
}

// Engagement counts comments and likes per post across the given snapshots.
func Engagement(posts []entity.Post, comments []entity.Comment, likes []entity.Like) EngagementStats {
	s := EngagementStats{
		Posts:          len(posts),
		Comments:       len(comments),
		Likes:          len(likes),
		CommentsByPost: make(map[string]int),
		LikesByPost:    make(map[string]int),
	}
	for _, c := range comments {
		s.CommentsByPost[c.PostID]++
	}
	for _, l := range likes {
		s.LikesByPost[l.PostID]++
	}
	return s
}

// LikedBy reports whether the given user already likes the post.
func LikedBy(likes []entity.Like, postID, userID string) bool {
	for _, l := range likes {
		if l.PostID == postID && l.UserID == userID {
			return true
		}
	}
	return false
}
