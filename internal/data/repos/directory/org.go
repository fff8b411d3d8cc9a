package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type OrgRepo interface {
	CreateFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabOrg, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.RehabOrg, error)
	// GetGraph loads the org with campuses, programs and every relation.
	GetGraph(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabOrg, error)
	FindMany(ctx context.Context, tx *gorm.DB, q ListQuery) ([]*types.RehabOrg, error)

	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type orgRepo struct {
	store rootStore[types.RehabOrg]
	log   *logger.Logger
}

func NewOrgRepo(db *gorm.DB, baseLog *logger.Logger) OrgRepo {
	return &orgRepo{store: rootStore[types.RehabOrg]{db: db}, log: baseLog.With("repo", "OrgRepo")}
}

func (r *orgRepo) CreateFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error {
	return r.store.createFields(ctx, tx, values)
}

func (r *orgRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabOrg, error) {
	return r.store.getByID(ctx, tx, id)
}

func (r *orgRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.RehabOrg, error) {
	return r.store.getBySlug(ctx, tx, slug)
}

func (r *orgRepo) GetGraph(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabOrg, error) {
	return r.store.getByID(ctx, tx, id, GraphPreloads(types.OwnerOrg)...)
}

func (r *orgRepo) FindMany(ctx context.Context, tx *gorm.DB, q ListQuery) ([]*types.RehabOrg, error) {
	return r.store.findMany(ctx, tx, q, OwnPreloads(types.OwnerOrg))
}

func (r *orgRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return r.store.updateFields(ctx, tx, id, updates)
}

func (r *orgRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	return r.store.deleteByIDs(ctx, tx, ids)
}
