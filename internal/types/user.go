package types

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Username          string     `gorm:"not null;column:username" json:"username"`
	Password          string     `gorm:"not null;column:password" json:"-"`
	Role              Role       `gorm:"not null;default:'USER';column:role" json:"role"`
	CurrentDifficulty Difficulty `gorm:"not null;default:'BASIC';column:current_difficulty" json:"current_difficulty"`
	InterfaceLanguage string     `gorm:"column:interface_language" json:"interface_language"`
	SolutionDetail    string     `gorm:"column:solution_detail" json:"solution_detail"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	AccessToken  string    `gorm:"not null;column:access_token" json:"-"`
	RefreshToken string    `gorm:"not null;index;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string {
	return "user_token"
}
