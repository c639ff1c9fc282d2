package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/types"
)

type RoadmapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error)
	GetByID(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) (*types.Roadmap, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Roadmap, error)
	Update(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) error
	Delete(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) error
}

type roadmapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	return &roadmapRepo{db: db, log: baseLog.With("repo", "RoadmapRepo")}
}

func (rr *roadmapRepo) Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(roadmap).Error; err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (rr *roadmapRepo) GetByID(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Roadmap
	if err := transaction.WithContext(ctx).
		Where("id = ?", roadmapID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *roadmapRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Roadmap
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *roadmapRepo) Update(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	return transaction.WithContext(ctx).Save(roadmap).Error
}

func (rr *roadmapRepo) Delete(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", roadmapID).
		Delete(&types.Roadmap{}).Error
}
