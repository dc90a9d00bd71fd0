package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type CollectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, collections []*types.Collection) ([]*types.Collection, error)
	GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Collection, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Collection, error)
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	return &collectionRepo{db: db, log: baseLog.With("repo", "CollectionRepo")}
}

func (r *collectionRepo) Create(ctx context.Context, tx *gorm.DB, collections []*types.Collection) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(collections) == 0 {
		return []*types.Collection{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Collection
	if len(slugs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *collectionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Collection
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type NarrationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, narrations []*types.Narration) ([]*types.Narration, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Narration, error)
	ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, limit, offset int) ([]*types.Narration, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Narration, error)
	Random(ctx context.Context, tx *gorm.DB, n int) ([]*types.Narration, error)
}

type narrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNarrationRepo(db *gorm.DB, baseLog *logger.Logger) NarrationRepo {
	return &narrationRepo{db: db, log: baseLog.With("repo", "NarrationRepo")}
}

func (r *narrationRepo) Create(ctx context.Context, tx *gorm.DB, narrations []*types.Narration) ([]*types.Narration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(narrations) == 0 {
		return []*types.Narration{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&narrations).Error; err != nil {
		return nil, err
	}
	return narrations, nil
}

func (r *narrationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Narration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Narration
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *narrationRepo) ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, limit, offset int) ([]*types.Narration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var results []*types.Narration
	if err := transaction.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("book_number ASC, hadith_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *narrationRepo) Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Narration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []*types.Narration{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var results []*types.Narration
	pattern := "%" + query + "%"
	if err := transaction.WithContext(ctx).
		Where("translation ILIKE ? OR narrator_chain ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *narrationRepo) Random(ctx context.Context, tx *gorm.DB, n int) ([]*types.Narration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if n <= 0 || n > 20 {
		n = 5
	}
	var results []*types.Narration
	if err := transaction.WithContext(ctx).
		Order("RANDOM()").
		Limit(n).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
