package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type ProgressHandler struct {
	progressService    services.ProgressService
	achievementService services.AchievementService
}

func NewProgressHandler(progressService services.ProgressService, achievementService services.AchievementService) *ProgressHandler {
	return &ProgressHandler{
		progressService:    progressService,
		achievementService: achievementService,
	}
}

func (ph *ProgressHandler) Summary(c *gin.Context) {
	summary, err := ph.progressService.Summary(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (ph *ProgressHandler) MarkAchievementsSeen(c *gin.Context) {
	var req struct {
		AchievementIDs []string `json:"achievement_ids"`
	}
	// An empty body means "mark everything seen".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.AchievementIDs))
	for _, raw := range req.AchievementIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		ids = append(ids, id)
	}
	if err := ph.achievementService.MarkSeen(c.Request.Context(), ids); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
