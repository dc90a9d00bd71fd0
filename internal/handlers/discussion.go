package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type DiscussionHandler struct {
	discussionService services.DiscussionService
	reportService     services.ReportService
}

func NewDiscussionHandler(discussionService services.DiscussionService, reportService services.ReportService) *DiscussionHandler {
	return &DiscussionHandler{
		discussionService: discussionService,
		reportService:     reportService,
	}
}

func (dh *DiscussionHandler) CreatePost(c *gin.Context) {
	narrationID, err := uuid.Parse(c.Param("narrationID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := dh.discussionService.CreatePost(c.Request.Context(), narrationID, req.Body)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (dh *DiscussionHandler) ListPosts(c *gin.Context) {
	narrationID, err := uuid.Parse(c.Param("narrationID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	limit, offset := paginationParams(c)
	posts, err := dh.discussionService.ListPosts(c.Request.Context(), narrationID, limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"posts": posts})
}

func (dh *DiscussionHandler) ReportPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	post, err := dh.reportService.ReportPost(c.Request.Context(), postID, req.Reason)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}
