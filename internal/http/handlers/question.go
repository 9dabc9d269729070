package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/http/response"
	"github.com/adeptlearn/tutor-backend/internal/requestdata"
	"github.com/adeptlearn/tutor-backend/internal/services"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (qh *QuestionHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		TopicID    *uuid.UUID       `json:"topic_id"`
		Difficulty types.Difficulty `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	q, err := qh.questionService.Generate(c.Request.Context(), rd.UserID, req.TopicID, req.Difficulty)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	// The correct answer and steps stay server-side until submission.
	response.RespondOK(c, gin.H{
		"id":            q.ID,
		"topic_id":      q.TopicID,
		"difficulty":    q.Difficulty,
		"question_text": q.QuestionText,
	})
}

func (qh *QuestionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_question_id", err)
		return
	}
	q, err := qh.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"id":            q.ID,
		"topic_id":      q.TopicID,
		"difficulty":    q.Difficulty,
		"question_text": q.QuestionText,
	})
}

func (qh *QuestionHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		QuestionID     uuid.UUID `json:"question_id"`
		Answer         string    `json:"answer"`
		ElapsedSeconds *int64    `json:"elapsed_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.QuestionID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_question_id", nil)
		return
	}
	result, err := qh.questionService.SubmitAnswer(c.Request.Context(), rd.UserID, req.QuestionID, req.Answer, req.ElapsedSeconds)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}
