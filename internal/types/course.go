package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Course is one corpus record surfaced by similarity search. The embedding
// itself lives in the vector index keyed by this row's id; it is never
// stored or returned here.
type Course struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string                      `gorm:"column:title;not null" json:"title"`
	Description        string                      `gorm:"column:description" json:"description"`
	ChannelName        string                      `gorm:"column:channel_name" json:"channel_name"`
	PublishedDate      string                      `gorm:"column:published_date" json:"published_date"`
	SkillPath          string                      `gorm:"column:skill_path;index" json:"skill_path"`
	Level              string                      `gorm:"column:level" json:"level"`
	ContentType        string                      `gorm:"column:content_type" json:"type"`
	Content            string                      `gorm:"column:content" json:"content"`
	Topic              string                      `gorm:"column:topic;index" json:"topic"`
	PrerequisiteTopics datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"prerequisite_topics"`
	CreatedAt          time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
