package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

// ProfileUpdate carries the user-editable profile fields; nil means keep.
type ProfileUpdate struct {
	Username          *string `json:"username,omitempty"`
	InterfaceLanguage *string `json:"interface_language,omitempty"`
	SolutionDetail    *string `json:"solution_detail,omitempty"`
}

// Profile is the user row plus the per-subtopic difficulty map.
type Profile struct {
	User               *types.User                    `json:"user"`
	SubtopicDifficulty map[uuid.UUID]types.Difficulty `json:"subtopic_difficulty"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (*types.User, error)
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	progressSvc ProgressService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, progressSvc ProgressService) UserService {
	return &userService{
		db:          db,
		log:         log.With("service", "UserService"),
		userRepo:    userRepo,
		progressSvc: progressSvc,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}
	levels, err := s.progressSvc.DifficultyMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, SubtopicDifficulty: levels}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.InterfaceLanguage != nil {
		user.InterfaceLanguage = *in.InterfaceLanguage
	}
	if in.SolutionDetail != nil {
		user.SolutionDetail = *in.SolutionDetail
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}
