package types

import (
	"time"

	"github.com/google/uuid"
)

// QuestionAttempt is the append-only pass/fail history. Rows are inserted by
// the submit flow and only ever read afterwards.
type QuestionAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_attempt_user_subtopic;column:user_id" json:"user_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;column:question_id" json:"question_id"`
	SubtopicID     uuid.UUID `gorm:"type:uuid;not null;index:idx_attempt_user_subtopic;column:subtopic_id" json:"subtopic_id"`
	Correct        bool      `gorm:"not null;column:correct" json:"correct"`
	AnswerText     string    `gorm:"column:answer_text" json:"answer_text"`
	ElapsedSeconds *int64    `gorm:"column:elapsed_seconds" json:"elapsed_seconds,omitempty"`
	AttemptedAt    time.Time `gorm:"not null;index;column:attempted_at" json:"attempted_at"`
}

func (QuestionAttempt) TableName() string {
	return "question_attempt"
}

// SubtopicProgress holds the adaptive state machine for one (user, subtopic)
// pair. At most one of CorrectStreak/WrongStreak is nonzero at any time, and
// AttemptsSinceLastChange resets to zero whenever CurrentDifficulty moves.
type SubtopicProgress struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_subtopic;column:user_id" json:"user_id"`
	SubtopicID              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_subtopic;column:subtopic_id" json:"subtopic_id"`
	CurrentDifficulty       Difficulty `gorm:"not null;default:'BASIC';column:current_difficulty" json:"current_difficulty"`
	CorrectStreak           int        `gorm:"not null;default:0;column:correct_streak" json:"correct_streak"`
	WrongStreak             int        `gorm:"not null;default:0;column:wrong_streak" json:"wrong_streak"`
	AttemptsSinceLastChange int        `gorm:"not null;default:0;column:attempts_since_last_change" json:"attempts_since_last_change"`
	LastUpdatedAt           time.Time  `gorm:"not null;column:last_updated_at" json:"last_updated_at"`
}

func (SubtopicProgress) TableName() string {
	return "subtopic_progress"
}
