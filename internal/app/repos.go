package app

import (
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	Topic        repos.TopicRepo
	Question     repos.QuestionRepo
	Attempt      repos.AttemptRepo
	Progress     repos.ProgressRepo
	Notification repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		Topic:        repos.NewTopicRepo(db, log),
		Question:     repos.NewQuestionRepo(db, log),
		Attempt:      repos.NewAttemptRepo(db, log),
		Progress:     repos.NewProgressRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
	}
}
