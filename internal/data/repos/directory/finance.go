package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// FinanceRepo stores scoped insurance payer and payment option edges.
type FinanceRepo interface {
	CreatePayerEdges(ctx context.Context, tx *gorm.DB, rows []*types.InsurancePayerEdge) error
	CreatePaymentEdges(ctx context.Context, tx *gorm.DB, rows []*types.PaymentOptionEdge) error

	DeletePayerEdges(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerID uuid.UUID) error
	DeletePaymentEdges(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerID uuid.UUID) error

	// DeleteByOwners removes every edge of either kind attached to ownerIDs at scope.
	DeleteByOwners(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerIDs []uuid.UUID) error
}

type financeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFinanceRepo(db *gorm.DB, baseLog *logger.Logger) FinanceRepo {
	return &financeRepo{db: db, log: baseLog.With("repo", "FinanceRepo")}
}

func (r *financeRepo) CreatePayerEdges(ctx context.Context, tx *gorm.DB, rows []*types.InsurancePayerEdge) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).Omit("Payer").Create(&rows).Error
}

func (r *financeRepo) CreatePaymentEdges(ctx context.Context, tx *gorm.DB, rows []*types.PaymentOptionEdge) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).Omit("Option").Create(&rows).Error
}

func (r *financeRepo) DeleteByOwners(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ownerIDs) == 0 {
		return nil
	}
	col := scope.OwnerColumn()
	if err := t.WithContext(ctx).Where(col+" IN ?", ownerIDs).Delete(&types.InsurancePayerEdge{}).Error; err != nil {
		return err
	}
	return t.WithContext(ctx).Where(col+" IN ?", ownerIDs).Delete(&types.PaymentOptionEdge{}).Error
}

func (r *financeRepo) DeletePayerEdges(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if ownerID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where(scope.OwnerColumn()+" = ?", ownerID).Delete(&types.InsurancePayerEdge{}).Error
}

func (r *financeRepo) DeletePaymentEdges(ctx context.Context, tx *gorm.DB, scope types.Scope, ownerID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if ownerID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where(scope.OwnerColumn()+" = ?", ownerID).Delete(&types.PaymentOptionEdge{}).Error
}
