package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sanadlabs/sanad-backend/internal/clients/openai"
	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/moderation"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// maxReviewInput caps the text sent to the AI reviewer, for upstream
// cost control. The local matcher always sees the full text.
const maxReviewInput = 800

// ModerationVerdict is the classifier's public output shape.
type ModerationVerdict struct {
	Status types.ModerationStatus `json:"status"`
	Reason string                 `json:"reason,omitempty"`
	// By records the deciding identity: "auto" for the local matcher,
	// "ai" for the external reviewer.
	By string `json:"-"`
}

// AIReviewer classifies text the local matcher could not certify.
type AIReviewer interface {
	Review(ctx context.Context, text string) (ModerationVerdict, error)
}

// ModerationService decides a moderation status for submitted text.
//
// Decision order: the local matcher runs first; a definite denylist hit
// short-circuits to rejected without an AI call. A clean local pass
// approves. Anything the matcher cannot certify goes to the AI
// reviewer, and any reviewer failure defaults to held — an absent
// verdict must never publish unreviewed content.
type ModerationService interface {
	Moderate(ctx context.Context, text string) ModerationVerdict
}

type moderationService struct {
	log      *logger.Logger
	matcher  *moderation.Matcher
	reviewer AIReviewer
}

func NewModerationService(log *logger.Logger, matcher *moderation.Matcher, reviewer AIReviewer) ModerationService {
	return &moderationService{
		log:      log.With("service", "ModerationService"),
		matcher:  matcher,
		reviewer: reviewer,
	}
}

func (ms *moderationService) Moderate(ctx context.Context, text string) ModerationVerdict {
	verdict, term := ms.matcher.Classify(text)
	switch verdict {
	case moderation.LocalReject:
		return ModerationVerdict{
			Status: types.ModerationRejected,
			Reason: fmt.Sprintf("contains prohibited term %q", term),
			By:     types.ModeratorAuto,
		}
	case moderation.LocalClean:
		return ModerationVerdict{Status: types.ModerationApproved, By: types.ModeratorAuto}
	}

	capped := text
	if len(capped) > maxReviewInput {
		capped = capped[:maxReviewInput]
	}
	result, err := ms.reviewer.Review(ctx, capped)
	if err != nil {
		ms.log.Warn("AI review failed, holding for human review", "error", err)
		return ModerationVerdict{
			Status: types.ModerationHeld,
			Reason: "automated review unavailable",
			By:     types.ModeratorAI,
		}
	}
	switch result.Status {
	case types.ModerationApproved, types.ModerationHeld, types.ModerationRejected:
		result.By = types.ModeratorAI
		return result
	}
	ms.log.Warn("AI review returned unrecognized status, holding", "status", result.Status)
	return ModerationVerdict{
		Status: types.ModerationHeld,
		Reason: "automated review returned an invalid verdict",
		By:     types.ModeratorAI,
	}
}

// openaiReviewer backs AIReviewer with a structured LLM verdict.
type openaiReviewer struct {
	log *logger.Logger
	ai  openai.Client
}

func NewOpenAIReviewer(log *logger.Logger, ai openai.Client) AIReviewer {
	return &openaiReviewer{log: log.With("service", "OpenAIReviewer"), ai: ai}
}

var reviewSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status": map[string]any{
			"type": "string",
			"enum": []string{"approved", "held", "rejected"},
		},
		"reason": map[string]any{"type": "string"},
	},
	"required":             []string{"status", "reason"},
	"additionalProperties": false,
}

const reviewSystemPrompt = `You review user-submitted discussion posts on a hadith study platform.
Classify the post: "approved" if respectful and on-topic, "rejected" if clearly abusive,
hateful, or spam, "held" if uncertain or borderline. Give a one-sentence reason.`

func (r *openaiReviewer) Review(ctx context.Context, text string) (ModerationVerdict, error) {
	out, err := r.ai.GenerateJSON(ctx, reviewSystemPrompt, text, "moderation_verdict", reviewSchema)
	if err != nil {
		return ModerationVerdict{}, err
	}
	status, _ := out["status"].(string)
	reason, _ := out["reason"].(string)
	status = strings.TrimSpace(strings.ToLower(status))
	return ModerationVerdict{
		Status: types.ModerationStatus(status),
		Reason: reason,
	}, nil
}
