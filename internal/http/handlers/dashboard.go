package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/http/response"
	"github.com/adeptlearn/tutor-backend/internal/requestdata"
	"github.com/adeptlearn/tutor-backend/internal/services"
)

// DashboardHandler serves snapshot reads over plain REST for clients that do
// not hold an event stream open.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) User(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	snap, err := dh.dashboardService.BuildUserSnapshot(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, snap)
}

func (dh *DashboardHandler) Admin(c *gin.Context) {
	snap, err := dh.dashboardService.BuildAdminSnapshot(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, snap)
}
