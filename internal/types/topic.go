package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Topic is one node of the curriculum tree. Leaves (nodes with a parent and
// no children) are the practice unit the adaptive loop tracks.
type Topic struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	Name        string     `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	Difficulty  Difficulty `gorm:"not null;default:'BASIC';column:difficulty" json:"difficulty"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`

	Subtopics []*Topic `gorm:"foreignKey:ParentID" json:"subtopics,omitempty"`
}

func (Topic) TableName() string {
	return "topic"
}

func (t *Topic) IsLeaf() bool {
	return t != nil && t.ParentID != nil && len(t.Subtopics) == 0
}

type GeneratedQuestion struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID       *uuid.UUID        `gorm:"type:uuid;index;column:topic_id" json:"topic_id,omitempty"`
	Difficulty    Difficulty        `gorm:"not null;column:difficulty" json:"difficulty"`
	QuestionText  string            `gorm:"not null;column:question_text" json:"question_text"`
	SolutionSteps string            `gorm:"type:text;column:solution_steps" json:"solution_steps"`
	CorrectAnswer string            `gorm:"not null;column:correct_answer" json:"correct_answer"`
	Params        datatypes.JSONMap `gorm:"column:params" json:"params,omitempty"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
}

func (GeneratedQuestion) TableName() string {
	return "generated_question"
}
