package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type NarrationService interface {
	ListCollections(ctx context.Context) ([]*types.Collection, error)
	ListNarrations(ctx context.Context, collectionID uuid.UUID, limit, offset int) ([]*types.Narration, error)
	GetNarration(ctx context.Context, id uuid.UUID) (*types.Narration, error)
	Search(ctx context.Context, query string, limit int) ([]*types.Narration, error)
}

type narrationService struct {
	db             *gorm.DB
	log            *logger.Logger
	collectionRepo repos.CollectionRepo
	narrationRepo  repos.NarrationRepo
}

func NewNarrationService(db *gorm.DB, log *logger.Logger, collectionRepo repos.CollectionRepo, narrationRepo repos.NarrationRepo) NarrationService {
	return &narrationService{
		db:             db,
		log:            log.With("service", "NarrationService"),
		collectionRepo: collectionRepo,
		narrationRepo:  narrationRepo,
	}
}

func (ns *narrationService) ListCollections(ctx context.Context) ([]*types.Collection, error) {
	return ns.collectionRepo.ListAll(ctx, nil)
}

func (ns *narrationService) ListNarrations(ctx context.Context, collectionID uuid.UUID, limit, offset int) ([]*types.Narration, error) {
	if collectionID == uuid.Nil {
		return nil, fmt.Errorf("%w: collection_id is required", ErrValidation)
	}
	return ns.narrationRepo.ListByCollection(ctx, nil, collectionID, limit, offset)
}

func (ns *narrationService) GetNarration(ctx context.Context, id uuid.UUID) (*types.Narration, error) {
	found, err := ns.narrationRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("fetch narration: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (ns *narrationService) Search(ctx context.Context, query string, limit int) ([]*types.Narration, error) {
	return ns.narrationRepo.Search(ctx, nil, query, limit)
}
