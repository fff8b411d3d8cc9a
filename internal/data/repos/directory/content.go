package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// ContentRepo stores reviews, testimonials and stories. Items are append-only.
type ContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ContentItem) error
	DeleteByOwners(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerIDs []uuid.UUID) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ContentItem) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).Create(&rows).Error
}

func (r *contentRepo) DeleteByOwners(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ownerIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where(scope.OwnerColumn()+" IN ?", ownerIDs).Delete(&types.ContentItem{}).Error
}
