package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type NarrationHandler struct {
	narrationService services.NarrationService
}

func NewNarrationHandler(narrationService services.NarrationService) *NarrationHandler {
	return &NarrationHandler{narrationService: narrationService}
}

func (nh *NarrationHandler) ListCollections(c *gin.Context) {
	collections, err := nh.narrationService.ListCollections(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"collections": collections})
}

func (nh *NarrationHandler) ListNarrations(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("collectionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	limit, offset := paginationParams(c)
	narrations, err := nh.narrationService.ListNarrations(c.Request.Context(), collectionID, limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"narrations": narrations})
}

func (nh *NarrationHandler) GetNarration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("narrationID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	narration, err := nh.narrationService.GetNarration(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"narration": narration})
}

func (nh *NarrationHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := paginationParams(c)
	narrations, err := nh.narrationService.Search(c.Request.Context(), query, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"narrations": narrations})
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
