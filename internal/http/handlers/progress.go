package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/http/response"
	"github.com/adeptlearn/tutor-backend/internal/requestdata"
	"github.com/adeptlearn/tutor-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
	adaptiveService services.AdaptiveService
}

func NewProgressHandler(progressService services.ProgressService, adaptiveService services.AdaptiveService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		adaptiveService: adaptiveService,
	}
}

func (ph *ProgressHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	rows, err := ph.progressService.ListByUser(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (ph *ProgressHandler) GetDifficulty(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	subtopicID, err := uuid.Parse(c.Param("subtopicId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_subtopic_id", err)
		return
	}
	level, err := ph.adaptiveService.GetDifficulty(c.Request.Context(), rd.UserID, subtopicID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subtopic_id": subtopicID, "difficulty": level})
}

// SeedUser backfills BASIC rows for the target user. Admin only.
func (ph *ProgressHandler) SeedUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	created, err := ph.progressService.SeedForUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"created": created})
}
