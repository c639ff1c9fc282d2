package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserPreferences is the learning-preference block captured at signup and
// editable from the profile page. It feeds query expansion and synthesis.
type UserPreferences struct {
	LearningStyle         string   `json:"learning_style"`
	TimeCommitment        string   `json:"time_commitment"`
	PreferredContentTypes []string `json:"preferred_content_types"`
	DifficultyPreference  string   `json:"difficulty_preference"`
}

type SkillLearned struct {
	Name      string    `json:"name"`
	LearnedAt time.Time `json:"learned_at"`
}

type User struct {
	ID            uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string                              `gorm:"column:username;not null;uniqueIndex" json:"username"`
	PasswordHash  string                              `gorm:"column:password_hash;not null" json:"-"`
	Name          string                              `gorm:"column:name;not null" json:"name"`
	SkillsLearned datatypes.JSONSlice[SkillLearned]   `gorm:"type:jsonb" json:"skills_learned"`
	Preferences   datatypes.JSONType[UserPreferences] `gorm:"type:jsonb" json:"preferences"`
	CreatedAt     time.Time                           `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                           `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
