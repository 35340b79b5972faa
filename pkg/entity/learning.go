package entity

import "time"

// Status is the progress bucket of a learning entry.
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusPlanned    Status = "Planned"
)

// Valid reports whether the status is one of the known buckets.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusOnHold, StatusPlanned:
		return true
	}
	return false
}

// Template tags the kind-specific payload of a learning entry.
type Template string

const (
	TemplateGeneral       Template = "general"
	TemplateProject       Template = "project"
	TemplateCertification Template = "certification"
	TemplateChallenge     Template = "challenge"
	TemplateWorkshop      Template = "workshop"
)

// Valid reports whether the template is a known variant.
func (t Template) Valid() bool {
	switch t {
	case TemplateGeneral, TemplateProject, TemplateCertification, TemplateChallenge, TemplateWorkshop:
		return true
	}
	return false
}

// ProjectDetails is the template payload for completed projects/tasks.
type ProjectDetails struct {
	Name string `json:"projectName"`
	Link string `json:"projectLink,omitempty"`
}

// CertificationDetails is the template payload for certifications.
type CertificationDetails struct {
	Name         string `json:"certificationName"`
	Provider     string `json:"provider"`
	DateObtained string `json:"dateObtained"`
}

// ChallengeDetails is the template payload for challenges/competitions.
type ChallengeDetails struct {
	Name   string `json:"challengeName"`
	Result string `json:"result"`
}

// WorkshopDetails is the template payload for workshops/bootcamps.
type WorkshopDetails struct {
	Name     string `json:"workshopName"`
	Provider string `json:"provider"`
	Duration string `json:"duration"`
}

// LearningEntry tracks one unit of learning progress. Exactly one of the
// detail pointers is set for non-general templates; all are nil for general.
type LearningEntry struct {
	ID           ID                    `json:"id"`
	UserID       string                `json:"userId"`
	Template     Template              `json:"template"`
	Topic        string                `json:"topic"`
	Description  string                `json:"description"`
	ResourceLink string                `json:"resourceLink,omitempty"`
	Status       Status                `json:"status"`
	NextSteps    string                `json:"nextSteps,omitempty"`
	Reflection   string                `json:"reflection,omitempty"`
	Timestamp    time.Time             `json:"timestamp"`
	Project      *ProjectDetails       `json:"project,omitempty"`
	Cert         *CertificationDetails `json:"certification,omitempty"`
	Challenge    *ChallengeDetails     `json:"challenge,omitempty"`
	Workshop     *WorkshopDetails      `json:"workshop,omitempty"`
}

func (e LearningEntry) EntityID() ID { return e.ID }

// Clone returns a copy that shares no pointers with the receiver. Store
// snapshots use it so detail payloads cannot be mutated in place.
func (e LearningEntry) Clone() LearningEntry {
	if e.Project != nil {
		p := *e.Project
		e.Project = &p
	}
	if e.Cert != nil {
		c := *e.Cert
		e.Cert = &c
	}
	if e.Challenge != nil {
		c := *e.Challenge
		e.Challenge = &c
	}
	if e.Workshop != nil {
		w := *e.Workshop
		e.Workshop = &w
	}
	return e
}

