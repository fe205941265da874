package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/types"
)

type DocumentBuildRepo interface {
	Create(ctx context.Context, tx *gorm.DB, build *types.DocumentBuild) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DocumentBuild, error)
	Update(ctx context.Context, tx *gorm.DB, build *types.DocumentBuild) error
	ListByStatus(ctx context.Context, tx *gorm.DB, status string, limit int) ([]*types.DocumentBuild, error)
}

type documentBuildRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentBuildRepo(db *gorm.DB, baseLog *logger.Logger) DocumentBuildRepo {
	repoLog := baseLog.With("repo", "DocumentBuildRepo")
	return &documentBuildRepo{db: db, log: repoLog}
}

func (r *documentBuildRepo) Create(ctx context.Context, tx *gorm.DB, build *types.DocumentBuild) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(build).Error
}

func (r *documentBuildRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DocumentBuild, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var build types.DocumentBuild
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&build).Error; err != nil {
		return nil, err
	}
	return &build, nil
}

func (r *documentBuildRepo) Update(ctx context.Context, tx *gorm.DB, build *types.DocumentBuild) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(build).Error
}

func (r *documentBuildRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status string, limit int) ([]*types.DocumentBuild, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DocumentBuild
	query := transaction.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
