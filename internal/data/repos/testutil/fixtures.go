package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

// SeedTerm inserts a vocabulary row keyed by key.
func SeedTerm(tb testing.TB, ctx context.Context, tx *gorm.DB, kind types.VocabKind, key string) types.VocabTerm {
	tb.Helper()
	spec, ok := directory.Spec(kind)
	if !ok {
		tb.Fatalf("unknown vocab kind %q", kind)
	}
	row := spec.New()
	row.SetNaturalKey(key)
	name := strings.ReplaceAll(key, "_", " ")
	row.Assign(types.TermAttrs{DisplayName: &name})
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed %s term: %v", kind, err)
	}
	return row
}

func SeedOrg(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.RehabOrg {
	tb.Helper()
	o := &types.RehabOrg{
		ID:       uuid.New(),
		Name:     slug,
		Slug:     slug,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		tb.Fatalf("seed org: %v", err)
	}
	return o
}

func SeedCampus(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, slug, city, state string) *types.RehabCampus {
	tb.Helper()
	c := &types.RehabCampus{
		ID:         uuid.New(),
		RehabOrgID: orgID,
		Name:       slug,
		Slug:       slug,
		Street:     "1 Main St",
		City:       city,
		State:      state,
		PostalCode: "00000",
		Country:    "US",
		IsActive:   true,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		tb.Fatalf("seed campus: %v", err)
	}
	return c
}

func SeedProgram(tb testing.TB, ctx context.Context, tx *gorm.DB, campusID, levelOfCareID uuid.UUID, slug string) *types.RehabProgram {
	tb.Helper()
	p := &types.RehabProgram{
		ID:            uuid.New(),
		CampusID:      campusID,
		LevelOfCareID: levelOfCareID,
		Name:          slug,
		Slug:          slug,
		IsActive:      true,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		tb.Fatalf("seed program: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }

func PtrFloat(v float64) *float64 { return &v }
