package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/services"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type QuotaHandler struct {
	tierService  services.TierService
	quotaService services.QuotaService
}

func NewQuotaHandler(tierService services.TierService, quotaService services.QuotaService) *QuotaHandler {
	return &QuotaHandler{
		tierService:  tierService,
		quotaService: quotaService,
	}
}

// Status reports the caller's remaining allowance for every guarded
// action. It is a read-only probe and never consumes quota.
func (qh *QuotaHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		RespondServiceError(c, services.ErrUnauthorized)
		return
	}
	tier := qh.tierService.ResolveTier(ctx, rd.UserID)

	kinds := []types.UsageKind{
		types.UsageDiscussionPost,
		types.UsageAIQuery,
		types.UsageQuizAttempt,
		types.UsageSavedItems,
	}
	status := make(map[string]services.QuotaDecision, len(kinds))
	for _, kind := range kinds {
		status[string(kind)] = qh.quotaService.CheckQuota(ctx, rd.UserID, kind, tier)
	}
	RespondOK(c, gin.H{
		"tier":   tier,
		"quotas": status,
	})
}
