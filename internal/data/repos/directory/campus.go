package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type CampusRepo interface {
	CreateFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabCampus, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.RehabCampus, error)
	GetGraph(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabCampus, error)
	FindMany(ctx context.Context, tx *gorm.DB, q ListQuery) ([]*types.RehabCampus, error)
	IDsByOrgIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]uuid.UUID, error)

	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type campusRepo struct {
	store rootStore[types.RehabCampus]
	log   *logger.Logger
}

func NewCampusRepo(db *gorm.DB, baseLog *logger.Logger) CampusRepo {
	return &campusRepo{store: rootStore[types.RehabCampus]{db: db}, log: baseLog.With("repo", "CampusRepo")}
}

func (r *campusRepo) CreateFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error {
	return r.store.createFields(ctx, tx, values)
}

func (r *campusRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabCampus, error) {
	return r.store.getByID(ctx, tx, id)
}

func (r *campusRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.RehabCampus, error) {
	return r.store.getBySlug(ctx, tx, slug)
}

func (r *campusRepo) GetGraph(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabCampus, error) {
	return r.store.getByID(ctx, tx, id, GraphPreloads(types.OwnerCampus)...)
}

func (r *campusRepo) FindMany(ctx context.Context, tx *gorm.DB, q ListQuery) ([]*types.RehabCampus, error) {
	return r.store.findMany(ctx, tx, q, OwnPreloads(types.OwnerCampus))
}

func (r *campusRepo) IDsByOrgIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.idsWhere(ctx, tx, "rehab_org_id", orgIDs)
}

func (r *campusRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return r.store.updateFields(ctx, tx, id, updates)
}

func (r *campusRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	return r.store.deleteByIDs(ctx, tx, ids)
}
