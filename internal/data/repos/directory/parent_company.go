package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type ParentCompanyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ParentCompany) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ParentCompany, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ParentCompany, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type parentCompanyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParentCompanyRepo(db *gorm.DB, baseLog *logger.Logger) ParentCompanyRepo {
	return &parentCompanyRepo{db: db, log: baseLog.With("repo", "ParentCompanyRepo")}
}

func (r *parentCompanyRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ParentCompany) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *parentCompanyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ParentCompany, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ParentCompany
	err := t.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *parentCompanyRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ParentCompany, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var row types.ParentCompany
	err := t.WithContext(ctx).Where("slug = ?", slug).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *parentCompanyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).Model(&types.ParentCompany{}).Where("id = ?", id).Updates(updates).Error
}
