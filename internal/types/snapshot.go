package types

import "github.com/google/uuid"

// TopicStats is the per-topic slice of a dashboard snapshot.
type TopicStats struct {
	TopicID     uuid.UUID  `json:"topic_id"`
	TopicName   string     `json:"topic_name"`
	Attempts    int64      `json:"attempts"`
	Correct     int64      `json:"correct"`
	SuccessRate float64    `json:"success_rate"`
	Difficulty  Difficulty `json:"difficulty"`
}

// UserSnapshot is the fully materialized payload pushed on the user channel.
type UserSnapshot struct {
	UserID             uuid.UUID                `json:"user_id"`
	TotalAttempts      int64                    `json:"total_attempts"`
	CorrectAttempts    int64                    `json:"correct_attempts"`
	SuccessRate        float64                  `json:"success_rate"`
	Topics             []TopicStats             `json:"topics"`
	SubtopicDifficulty map[uuid.UUID]Difficulty `json:"subtopic_difficulty"`
}

// AdminSnapshot is the system-wide payload pushed on the admin channel.
type AdminSnapshot struct {
	TotalUsers         int64        `json:"total_users"`
	TotalAttempts      int64        `json:"total_attempts"`
	CorrectAttempts    int64        `json:"correct_attempts"`
	OverallSuccessRate float64      `json:"overall_success_rate"`
	Topics             []TopicStats `json:"topics"`
}
