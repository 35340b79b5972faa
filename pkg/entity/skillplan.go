package entity

import "time"

// SkillLevel is the target proficiency of a skill plan.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
)

// Valid reports whether the level is one of the known tiers.
func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// skillPlanDateLayout is the wire form of the scheduled date, date only.
const skillPlanDateLayout = "2006-01-02"

// SkillPlan is a scheduled self-study plan: what to learn, to what level,
// with which resources, by when.
type SkillPlan struct {
	ID           ID         `json:"id"`
	UserID       string     `json:"userId"`
	SkillDetails string     `json:"skillDetails"`
	SkillLevel   SkillLevel `json:"skillLevel"`
	Resources    string     `json:"resources"`
	Date         string     `json:"date"`
	Finished     bool       `json:"finished"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
}

func (p SkillPlan) EntityID() ID { return p.ID }
