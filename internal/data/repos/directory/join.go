package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// JoinRepo writes the owner<->term join tables. Every method is addressed by Relation.
type JoinRepo interface {
	// AddEdges inserts owner->term edges, skipping ones that already exist.
	AddEdges(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerID uuid.UUID, termIDs []uuid.UUID) error
	ListTermIDs(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerID uuid.UUID) ([]uuid.UUID, error)
	RemoveEdges(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerID uuid.UUID, termIDs []uuid.UUID) error
	DeleteByOwners(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerIDs []uuid.UUID) error
}

type joinRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJoinRepo(db *gorm.DB, baseLog *logger.Logger) JoinRepo {
	return &joinRepo{db: db, log: baseLog.With("repo", "JoinRepo")}
}

func (r *joinRepo) AddEdges(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerID uuid.UUID, termIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if ownerID == uuid.Nil || len(termIDs) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(termIDs))
	rows := make([]types.JoinEdge, 0, len(termIDs))
	for _, id := range termIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, types.JoinEdge{OwnerID: ownerID, TermID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Table(rel.JoinTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *joinRepo) ListTermIDs(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []uuid.UUID{}
	if ownerID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Table(rel.JoinTable).
		Where("owner_id = ?", ownerID).
		Pluck("term_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *joinRepo) RemoveEdges(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerID uuid.UUID, termIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if ownerID == uuid.Nil || len(termIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Table(rel.JoinTable).
		Where("owner_id = ? AND term_id IN ?", ownerID, termIDs).
		Delete(&types.JoinEdge{}).Error
}

func (r *joinRepo) DeleteByOwners(ctx context.Context, tx *gorm.DB, rel types.Relation, ownerIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ownerIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Table(rel.JoinTable).
		Where("owner_id IN ?", ownerIDs).
		Delete(&types.JoinEdge{}).Error
}
