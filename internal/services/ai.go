package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/clients/openai"
	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

const maxQuestionLength = 2000

const assistantSystemPrompt = `You are a study assistant on a hadith platform.
Answer questions about narrations, narrators, collections, and terminology
concisely and cite collection and number when you reference a specific hadith.
If a question is outside hadith studies, say so briefly.`

type AskResult struct {
	Answer     string               `json:"answer"`
	Quota      QuotaDecision        `json:"quota"`
	NewUnlocks []*types.Achievement `json:"new_achievements,omitempty"`
}

// AIService answers study questions, guarded by the daily and monthly
// AI-query quotas. It uses the reserve/release quota path: the slot is
// taken atomically before the model call and released if the call
// fails, so failed requests are never billed.
type AIService interface {
	Ask(ctx context.Context, question string) (*AskResult, error)
}

type aiService struct {
	db       *gorm.DB
	log      *logger.Logger
	ai       openai.Client
	logRepo  repos.AICallLogRepo
	tier     TierService
	quota    QuotaService
	activity ActivityService
}

func NewAIService(
	db *gorm.DB,
	log *logger.Logger,
	ai openai.Client,
	logRepo repos.AICallLogRepo,
	tier TierService,
	quota QuotaService,
	activity ActivityService,
) AIService {
	return &aiService{
		db:       db,
		log:      log.With("service", "AIService"),
		ai:       ai,
		logRepo:  logRepo,
		tier:     tier,
		quota:    quota,
		activity: activity,
	}
}

func (as *aiService) Ask(ctx context.Context, question string) (*AskResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrValidation)
	}
	if len(question) > maxQuestionLength {
		return nil, fmt.Errorf("%w: question exceeds %d characters", ErrValidation, maxQuestionLength)
	}

	tier := as.tier.ResolveTier(ctx, rd.UserID)
	decision, release := as.quota.CheckAndReserve(ctx, rd.UserID, types.UsageAIQuery, tier)
	if !decision.Allowed {
		return nil, &QuotaExceededError{Decision: decision}
	}

	started := time.Now()
	answer, err := as.ai.GenerateText(ctx, assistantSystemPrompt, question)
	latency := time.Since(started).Milliseconds()

	entry := &types.AICallLog{
		ID:        uuid.New(),
		UserID:    rd.UserID,
		Purpose:   "study_assistant",
		Model:     as.ai.Model(),
		LatencyMS: latency,
		Succeeded: err == nil,
	}
	if logErr := as.logRepo.Create(ctx, nil, entry); logErr != nil {
		as.log.Warn("Failed to write AI call log", "error", logErr)
	}

	if err != nil {
		release(ctx)
		as.log.Error("Assistant call failed", "user_id", rd.UserID, "error", err)
		return nil, ErrAIUnavailable
	}

	if err := as.quota.RecordUsage(ctx, rd.UserID, types.UsageAIQuery); err != nil {
		as.log.Error("Failed to record AI usage", "user_id", rd.UserID, "error", err)
	}

	var unlocks []*types.Achievement
	if _, newUnlocks, err := as.activity.Track(ctx, rd.UserID, ActivityAIQuery); err != nil {
		as.log.Error("Failed to track AI activity", "user_id", rd.UserID, "error", err)
	} else {
		unlocks = newUnlocks
	}

	after := decision
	if !after.Unlimited && after.Remaining > 0 {
		after.Remaining--
	}
	return &AskResult{Answer: answer, Quota: after, NewUnlocks: unlocks}, nil
}
