package entity

import (
	"strings"
	"time"

	llerrors "github.com/learnloop/learnloop/pkg/errors"
)

// Draft is the payload of a create operation before the server has seen it.
// Validate enforces the minimal required-field contract for the kind and
// must be called before any store write. Placeholder builds the temporary
// entity staged while the create is in flight.
type Draft[T any] interface {
	Validate() error
	Placeholder(ownerID string, id ID, now time.Time) T
}

func validationError(message string) *llerrors.Error {
	return llerrors.New(llerrors.ErrCodeValidation, message).
		WithUserMessage(message)
}

// PostDraft carries the fields of a post create call.
type PostDraft struct {
	Description string `json:"contentDescription"`
	MediaURL    string `json:"mediaLink"`
	MediaType   string `json:"mediaType,omitempty"`
}

// Validate requires a description and an attached media reference.
func (d PostDraft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return validationError("post description is required")
	}
	if strings.TrimSpace(d.MediaURL) == "" {
		return validationError("post media is required")
	}
	return nil
}

func (d PostDraft) Placeholder(ownerID string, id ID, now time.Time) Post {
	return Post{
		ID:          id,
		UserID:      ownerID,
		Description: d.Description,
		MediaURL:    d.MediaURL,
		MediaType:   d.MediaType,
		CreatedAt:   now,
	}
}

// CommentDraft carries the fields of a comment create call.
type CommentDraft struct {
	PostID string `json:"postId"`
	Text   string `json:"commentText"`
}

// Validate requires non-empty text and a target post.
func (d CommentDraft) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return validationError("comment text is required")
	}
	if d.PostID == "" {
		return validationError("comment post id is required")
	}
	return nil
}

func (d CommentDraft) Placeholder(ownerID string, id ID, now time.Time) Comment {
	return Comment{
		ID:        id,
		PostID:    d.PostID,
		UserID:    ownerID,
		Text:      d.Text,
		CreatedAt: now,
	}
}

// LikeDraft carries the fields of a like create call.
type LikeDraft struct {
	PostID string `json:"postId"`
}

func (d LikeDraft) Validate() error {
	if d.PostID == "" {
		return validationError("like post id is required")
	}
	return nil
}

func (d LikeDraft) Placeholder(ownerID string, id ID, now time.Time) Like {
	return Like{
		ID:        id,
		PostID:    d.PostID,
		UserID:    ownerID,
		CreatedAt: now,
	}
}

// StoryDraft carries the fields of a story create call.
type StoryDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	MediaURL    string `json:"image"`
}

func (d StoryDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return validationError("story title is required")
	}
	if strings.TrimSpace(d.MediaURL) == "" {
		return validationError("story media is required")
	}
	return nil
}

func (d StoryDraft) Placeholder(ownerID string, id ID, now time.Time) Story {
	return Story{
		ID:          id,
		UserID:      ownerID,
		Title:       d.Title,
		Description: d.Description,
		MediaURL:    d.MediaURL,
		CreatedAt:   now,
	}
}

// ConnectionDraft carries the fields of a friend-connection create call.
type ConnectionDraft struct {
	FriendID string `json:"friendId"`
}

func (d ConnectionDraft) Validate() error {
	if d.FriendID == "" {
		return validationError("connection friend id is required")
	}
	return nil
}

func (d ConnectionDraft) Placeholder(ownerID string, id ID, now time.Time) Connection {
	return Connection{
		ID:        id,
		UserID:    ownerID,
		FriendID:  d.FriendID,
		CreatedAt: now,
	}
}

// SkillPlanDraft carries the fields of a skill-plan create call.
type SkillPlanDraft struct {
	SkillDetails string     `json:"skillDetails"`
	SkillLevel   SkillLevel `json:"skillLevel"`
	Resources    string     `json:"resources"`
	Date         string     `json:"date"`
	Finished     bool       `json:"finished"`
}

// Validate requires details, resources, a known level, and a well-formed
// scheduled date.
func (d SkillPlanDraft) Validate() error {
	if strings.TrimSpace(d.SkillDetails) == "" {
		return validationError("skill details are required")
	}
	if strings.TrimSpace(d.Resources) == "" {
		return validationError("skill plan resources are required")
	}
	if !d.SkillLevel.Valid() {
		return validationError("skill level is not a known tier")
	}
	if _, err := time.Parse(skillPlanDateLayout, d.Date); err != nil {
		return validationError("skill plan date must be yyyy-mm-dd")
	}
	return nil
}

func (d SkillPlanDraft) Placeholder(ownerID string, id ID, now time.Time) SkillPlan {
	return SkillPlan{
		ID:           id,
		UserID:       ownerID,
		SkillDetails: d.SkillDetails,
		SkillLevel:   d.SkillLevel,
		Resources:    d.Resources,
		Date:         d.Date,
		Finished:     d.Finished,
		CreatedAt:    now,
	}
}

// LearningDraft carries the fields of a learning-entry create call. The
// template tag decides which detail group is required.
type LearningDraft struct {
	Template     Template              `json:"template"`
	Topic        string                `json:"topic"`
	Description  string                `json:"description"`
	ResourceLink string                `json:"resourceLink,omitempty"`
	Status       Status                `json:"status"`
	NextSteps    string                `json:"nextSteps,omitempty"`
	Reflection   string                `json:"reflection,omitempty"`
	Project      *ProjectDetails       `json:"project,omitempty"`
	Cert         *CertificationDetails `json:"certification,omitempty"`
	Challenge    *ChallengeDetails     `json:"challenge,omitempty"`
	Workshop     *WorkshopDetails      `json:"workshop,omitempty"`
}

// Validate enforces the base fields plus the template-specific group.
func (d LearningDraft) Validate() error {
	if strings.TrimSpace(d.Topic) == "" {
		return validationError("learning topic is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return validationError("learning description is required")
	}
	if !d.Status.Valid() {
		return validationError("learning status is not a known bucket")
	}
	if !d.Template.Valid() {
		return validationError("learning template is not a known variant")
	}

	switch d.Template {
	case TemplateProject:
		if d.Project == nil || strings.TrimSpace(d.Project.Name) == "" {
			return validationError("project name is required")
		}
	case TemplateCertification:
		if d.Cert == nil || d.Cert.Name == "" || d.Cert.Provider == "" || d.Cert.DateObtained == "" {
			return validationError("certification name, provider and date obtained are required")
		}
	case TemplateChallenge:
		if d.Challenge == nil || d.Challenge.Name == "" || d.Challenge.Result == "" {
			return validationError("challenge name and result are required")
		}
	case TemplateWorkshop:
		if d.Workshop == nil || d.Workshop.Name == "" || d.Workshop.Provider == "" || d.Workshop.Duration == "" {
			return validationError("workshop name, provider and duration are required")
		}
	}
	return nil
}

func (d LearningDraft) Placeholder(ownerID string, id ID, now time.Time) LearningEntry {
	return LearningEntry{
		ID:           id,
		UserID:       ownerID,
		Template:     d.Template,
		Topic:        d.Topic,
		Description:  d.Description,
		ResourceLink: d.ResourceLink,
		Status:       d.Status,
		NextSteps:    d.NextSteps,
		Reflection:   d.Reflection,
		Timestamp:    now,
		Project:      d.Project,
		Cert:         d.Cert,
		Challenge:    d.Challenge,
		Workshop:     d.Workshop,
	}
}
