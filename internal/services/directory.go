package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/filter"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// DirectoryService is the inbound surface for orgs, campuses and programs. Writes go
// through the directory aggregate; reads go through the versioned cache.
type DirectoryService interface {
	CreateOrg(ctx context.Context, in domainagg.OrgInput) (*types.RehabOrg, error)
	UpsertOrg(ctx context.Context, id uuid.UUID, in domainagg.OrgInput) (*types.RehabOrg, error)
	DeleteOrg(ctx context.Context, id uuid.UUID) error
	FindOrgByID(ctx context.Context, id uuid.UUID) (*types.RehabOrg, error)
	FindManyOrgs(ctx context.Context, f *filter.OrgFilter, page Page) ([]*types.RehabOrg, error)

	CreateCampus(ctx context.Context, in domainagg.CampusInput) (*types.RehabCampus, error)
	UpsertCampus(ctx context.Context, id uuid.UUID, in domainagg.CampusInput) (*types.RehabCampus, error)
	DeleteCampus(ctx context.Context, id uuid.UUID) error
	FindCampusByID(ctx context.Context, id uuid.UUID) (*types.RehabCampus, error)
	FindManyCampuses(ctx context.Context, f *filter.CampusFilter, page Page) ([]*types.RehabCampus, error)

	CreateProgram(ctx context.Context, in domainagg.ProgramInput) (*types.RehabProgram, error)
	UpsertProgram(ctx context.Context, id uuid.UUID, in domainagg.ProgramInput) (*types.RehabProgram, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error
	FindProgramByID(ctx context.Context, id uuid.UUID) (*types.RehabProgram, error)
	FindManyPrograms(ctx context.Context, f *filter.ProgramFilter, page Page) ([]*types.RehabProgram, error)
}

type directoryService struct {
	db    *gorm.DB
	log   *logger.Logger
	agg   domainagg.DirectoryAggregate
	repos repos.Set
	cache *cache.Layer
	group singleflight.Group
}

func NewDirectoryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	agg domainagg.DirectoryAggregate,
	set repos.Set,
	layer *cache.Layer,
) DirectoryService {
	return &directoryService{
		db:    db,
		log:   baseLog.With("service", "DirectoryService"),
		agg:   agg,
		repos: set,
		cache: layer,
	}
}

func (s *directoryService) CreateOrg(ctx context.Context, in domainagg.OrgInput) (*types.RehabOrg, error) {
	return s.agg.CreateOrg(ctx, in)
}

func (s *directoryService) UpsertOrg(ctx context.Context, id uuid.UUID, in domainagg.OrgInput) (*types.RehabOrg, error) {
	return s.agg.UpsertOrg(ctx, id, in)
}

func (s *directoryService) DeleteOrg(ctx context.Context, id uuid.UUID) error {
	return s.agg.DeleteOrg(ctx, id)
}

func (s *directoryService) CreateCampus(ctx context.Context, in domainagg.CampusInput) (*types.RehabCampus, error) {
	return s.agg.CreateCampus(ctx, in)
}

func (s *directoryService) UpsertCampus(ctx context.Context, id uuid.UUID, in domainagg.CampusInput) (*types.RehabCampus, error) {
	return s.agg.UpsertCampus(ctx, id, in)
}

func (s *directoryService) DeleteCampus(ctx context.Context, id uuid.UUID) error {
	return s.agg.DeleteCampus(ctx, id)
}

func (s *directoryService) CreateProgram(ctx context.Context, in domainagg.ProgramInput) (*types.RehabProgram, error) {
	return s.agg.CreateProgram(ctx, in)
}

func (s *directoryService) UpsertProgram(ctx context.Context, id uuid.UUID, in domainagg.ProgramInput) (*types.RehabProgram, error) {
	return s.agg.UpsertProgram(ctx, id, in)
}

func (s *directoryService) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	return s.agg.DeleteProgram(ctx, id)
}

func (s *directoryService) FindOrgByID(ctx context.Context, id uuid.UUID) (*types.RehabOrg, error) {
	return findPoint(ctx, s, types.OwnerOrg, id, func(ctx context.Context) (*types.RehabOrg, error) {
		return s.repos.Orgs.GetGraph(ctx, nil, id)
	})
}

func (s *directoryService) FindCampusByID(ctx context.Context, id uuid.UUID) (*types.RehabCampus, error) {
	return findPoint(ctx, s, types.OwnerCampus, id, func(ctx context.Context) (*types.RehabCampus, error) {
		return s.repos.Campuses.GetGraph(ctx, nil, id)
	})
}

func (s *directoryService) FindProgramByID(ctx context.Context, id uuid.UUID) (*types.RehabProgram, error) {
	return findPoint(ctx, s, types.OwnerProgram, id, func(ctx context.Context) (*types.RehabProgram, error) {
		return s.repos.Programs.GetGraph(ctx, nil, id)
	})
}

func (s *directoryService) FindManyOrgs(ctx context.Context, f *filter.OrgFilter, page Page) ([]*types.RehabOrg, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	return findMany(ctx, s, types.OwnerOrg, f, page, func(ctx context.Context) ([]*types.RehabOrg, error) {
		return s.repos.Orgs.FindMany(ctx, nil, q)
	})
}

func (s *directoryService) FindManyCampuses(ctx context.Context, f *filter.CampusFilter, page Page) ([]*types.RehabCampus, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	return findMany(ctx, s, types.OwnerCampus, f, page, func(ctx context.Context) ([]*types.RehabCampus, error) {
		return s.repos.Campuses.FindMany(ctx, nil, q)
	})
}

func (s *directoryService) FindManyPrograms(ctx context.Context, f *filter.ProgramFilter, page Page) ([]*types.RehabProgram, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	return findMany(ctx, s, types.OwnerProgram, f, page, func(ctx context.Context) ([]*types.RehabProgram, error) {
		return s.repos.Programs.FindMany(ctx, nil, q)
	})
}
