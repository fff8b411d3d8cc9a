package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

// ListQuery is a compiled predicate plus ordering for a root table.
type ListQuery struct {
	Where clause.Expression
	Order []clause.OrderByColumn
}

// rootStore holds the table operations shared by the three root repos.
type rootStore[T any] struct {
	db *gorm.DB
}

func (s rootStore[T]) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// createFields inserts one row from a column map. Hooks do not run, so the caller sets
// id and timestamps.
func (s rootStore[T]) createFields(ctx context.Context, tx *gorm.DB, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	var zero T
	return s.conn(tx).WithContext(ctx).Model(&zero).Create(values).Error
}

func (s rootStore[T]) take(ctx context.Context, tx *gorm.DB, preloads []string, query string, args ...interface{}) (*T, error) {
	q := s.conn(tx).WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var out T
	err := q.Where(query, args...).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s rootStore[T]) getByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, preloads ...string) (*T, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return s.take(ctx, tx, preloads, "id = ?", id)
}

func (s rootStore[T]) getBySlug(ctx context.Context, tx *gorm.DB, slug string) (*T, error) {
	if slug == "" {
		return nil, nil
	}
	return s.take(ctx, tx, nil, "slug = ?", slug)
}

func (s rootStore[T]) updateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	var zero T
	return s.conn(tx).WithContext(ctx).Model(&zero).Where("id = ?", id).Updates(updates).Error
}

func (s rootStore[T]) deleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var zero T
	res := s.conn(tx).WithContext(ctx).Where("id IN ?", ids).Delete(&zero)
	return res.RowsAffected, res.Error
}

func (s rootStore[T]) findMany(ctx context.Context, tx *gorm.DB, q ListQuery, preloads []string) ([]*T, error) {
	db := s.conn(tx).WithContext(ctx)
	for _, p := range preloads {
		db = db.Preload(p)
	}
	if q.Where != nil {
		db = db.Where(q.Where)
	}
	if len(q.Order) > 0 {
		db = db.Order(clause.OrderBy{Columns: q.Order})
	} else {
		db = db.Order("name ASC").Order("id ASC")
	}
	var out []*T
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s rootStore[T]) idsWhere(ctx context.Context, tx *gorm.DB, column string, values []uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	if len(values) == 0 {
		return out, nil
	}
	var zero T
	if err := s.conn(tx).WithContext(ctx).Model(&zero).Where(column+" IN ?", values).Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// OwnPreloads lists the associations that belong to one root row (not its children).
func OwnPreloads(owner types.OwnerKind) []string {
	out := []string{}
	switch owner {
	case directory.OwnerOrg:
		out = append(out, "ParentCompany")
	case directory.OwnerCampus:
		out = append(out, "Environment", "SettingStyle", "LuxuryTier")
	case directory.OwnerProgram:
		out = append(out, "LevelOfCare")
	}
	for _, r := range directory.Relations(owner) {
		out = append(out, r.Field)
	}
	return append(out, "InsurancePayers.Payer", "PaymentOptions.Option", "Content")
}

// GraphPreloads lists the associations of a root and every descendant.
func GraphPreloads(owner types.OwnerKind) []string {
	out := OwnPreloads(owner)
	switch owner {
	case directory.OwnerOrg:
		out = append(out, "Campuses")
		for _, p := range OwnPreloads(directory.OwnerCampus) {
			out = append(out, "Campuses."+p)
		}
		out = append(out, "Campuses.Programs")
		for _, p := range OwnPreloads(directory.OwnerProgram) {
			out = append(out, "Campuses.Programs."+p)
		}
	case directory.OwnerCampus:
		out = append(out, "Programs")
		for _, p := range OwnPreloads(directory.OwnerProgram) {
			out = append(out, "Programs."+p)
		}
	}
	return out
}
