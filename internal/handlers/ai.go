package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type AIHandler struct {
	aiService services.AIService
}

func NewAIHandler(aiService services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (ah *AIHandler) Ask(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := ah.aiService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
