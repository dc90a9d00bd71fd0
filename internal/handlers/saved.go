package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type SavedHandler struct {
	savedService services.SavedService
}

func NewSavedHandler(savedService services.SavedService) *SavedHandler {
	return &SavedHandler{savedService: savedService}
}

func (sh *SavedHandler) Save(c *gin.Context) {
	narrationID, err := uuid.Parse(c.Param("narrationID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	// Body is optional for save.
	_ = c.ShouldBindJSON(&req)
	saved, err := sh.savedService.Save(c.Request.Context(), narrationID, req.Note)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": saved})
}

func (sh *SavedHandler) Unsave(c *gin.Context) {
	narrationID, err := uuid.Parse(c.Param("narrationID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := sh.savedService.Unsave(c.Request.Context(), narrationID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (sh *SavedHandler) List(c *gin.Context) {
	saved, err := sh.savedService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": saved})
}
