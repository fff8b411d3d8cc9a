package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type ProgramRepo interface {
	CreateFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabProgram, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.RehabProgram, error)
	GetGraph(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabProgram, error)
	FindMany(ctx context.Context, tx *gorm.DB, q ListQuery) ([]*types.RehabProgram, error)
	IDsByCampusIDs(ctx context.Context, tx *gorm.DB, campusIDs []uuid.UUID) ([]uuid.UUID, error)

	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type programRepo struct {
	store rootStore[types.RehabProgram]
	log   *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return &programRepo{store: rootStore[types.RehabProgram]{db: db}, log: baseLog.With("repo", "ProgramRepo")}
}

func (r *programRepo) CreateFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error {
	return r.store.createFields(ctx, tx, values)
}

func (r *programRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabProgram, error) {
	return r.store.getByID(ctx, tx, id)
}

func (r *programRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.RehabProgram, error) {
	return r.store.getBySlug(ctx, tx, slug)
}

func (r *programRepo) GetGraph(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RehabProgram, error) {
	return r.store.getByID(ctx, tx, id, GraphPreloads(types.OwnerProgram)...)
}

func (r *programRepo) FindMany(ctx context.Context, tx *gorm.DB, q ListQuery) ([]*types.RehabProgram, error) {
	return r.store.findMany(ctx, tx, q, OwnPreloads(types.OwnerProgram))
}

func (r *programRepo) IDsByCampusIDs(ctx context.Context, tx *gorm.DB, campusIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.idsWhere(ctx, tx, "campus_id", campusIDs)
}

func (r *programRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return r.store.updateFields(ctx, tx, id, updates)
}

func (r *programRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	return r.store.deleteByIDs(ctx, tx, ids)
}
