package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// VocabRepo addresses every vocabulary table through its VocabSpec.
type VocabRepo interface {
	GetByKey(ctx context.Context, tx *gorm.DB, kind types.VocabKind, key string) (types.VocabTerm, error)
	GetByKeys(ctx context.Context, tx *gorm.DB, kind types.VocabKind, keys []string) ([]types.VocabTerm, error)
	GetByID(ctx context.Context, tx *gorm.DB, kind types.VocabKind, id uuid.UUID) (types.VocabTerm, error)
	ListAll(ctx context.Context, tx *gorm.DB, kind types.VocabKind) ([]types.VocabTerm, error)

	Create(ctx context.Context, tx *gorm.DB, kind types.VocabKind, row types.VocabTerm) error
	UpdateFields(ctx context.Context, tx *gorm.DB, kind types.VocabKind, id uuid.UUID, updates map[string]interface{}) error
}

type vocabRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVocabRepo(db *gorm.DB, baseLog *logger.Logger) VocabRepo {
	return &vocabRepo{db: db, log: baseLog.With("repo", "VocabRepo")}
}

func spec(kind types.VocabKind) (types.VocabSpec, error) {
	s, ok := directory.Spec(kind)
	if !ok {
		return types.VocabSpec{}, fmt.Errorf("unknown vocabulary kind %q", kind)
	}
	return s, nil
}

func (r *vocabRepo) GetByKey(ctx context.Context, tx *gorm.DB, kind types.VocabKind, key string) (types.VocabTerm, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, nil
	}
	row := s.New()
	err = t.WithContext(ctx).Where(s.KeyColumn+" = ?", key).Take(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *vocabRepo) GetByKeys(ctx context.Context, tx *gorm.DB, kind types.VocabKind, keys []string) ([]types.VocabTerm, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []types.VocabTerm{}, nil
	}
	rows := s.NewSlice()
	if err := t.WithContext(ctx).Where(s.KeyColumn+" IN ?", keys).Find(rows).Error; err != nil {
		return nil, err
	}
	return s.Terms(rows), nil
}

func (r *vocabRepo) GetByID(ctx context.Context, tx *gorm.DB, kind types.VocabKind, id uuid.UUID) (types.VocabTerm, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, nil
	}
	row := s.New()
	err = t.WithContext(ctx).Where("id = ?", id).Take(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *vocabRepo) ListAll(ctx context.Context, tx *gorm.DB, kind types.VocabKind) ([]types.VocabTerm, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}
	rows := s.NewSlice()
	if err := t.WithContext(ctx).Order(s.KeyColumn + " ASC").Find(rows).Error; err != nil {
		return nil, err
	}
	return s.Terms(rows), nil
}

func (r *vocabRepo) Create(ctx context.Context, tx *gorm.DB, kind types.VocabKind, row types.VocabTerm) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if _, err := spec(kind); err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *vocabRepo) UpdateFields(ctx context.Context, tx *gorm.DB, kind types.VocabKind, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	s, err := spec(kind)
	if err != nil {
		return err
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).Model(s.New()).Where("id = ?", id).Updates(updates).Error
}
