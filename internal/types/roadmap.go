package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LearningResource struct {
	Title        string  `json:"title"`
	Platform     string  `json:"platform"`
	URL          *string `json:"url,omitempty"`
	ResourceType string  `json:"resource_type"`
}

// RoadmapNode is one skill unit within a roadmap. Prerequisites, PrevNodeID
// and NextNodeID hold node ids once resolved; a reference the resolver could
// not match stays as the raw skill-name string so consumers can surface it
// as unresolved instead of losing it.
type RoadmapNode struct {
	ID            string             `json:"id"`
	SkillName     string             `json:"skill_name"`
	Description   string             `json:"description"`
	Resources     []LearningResource `json:"resources"`
	Prerequisites []string           `json:"prerequisites"`
	PrevNodeID    string             `json:"prev_node_id,omitempty"`
	NextNodeID    string             `json:"next_node_id,omitempty"`
	IsCompleted   bool               `json:"is_completed"`
}

// Roadmap is the whole aggregate: edges are embedded as id references inside
// nodes, there is no separate edge table. After creation only completion
// flags and UpdatedAt change.
type Roadmap struct {
	ID        uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                        `gorm:"type:uuid;not null;index" json:"user_id"`
	SkillName string                           `gorm:"column:skill_name;not null" json:"skill_name"`
	Nodes     datatypes.JSONSlice[RoadmapNode] `gorm:"type:jsonb" json:"nodes"`
	CreatedAt time.Time                        `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time                        `gorm:"not null;index" json:"updated_at"`
}

func (Roadmap) TableName() string { return "roadmap" }
