package services

import (
	"context"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/vocab"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// VocabService backs createMany<Term> and findAll<Term> for every vocabulary kind.
type VocabService interface {
	CreateMany(ctx context.Context, kind types.VocabKind, items []domainagg.TermRef) ([]types.VocabTerm, error)
	FindAll(ctx context.Context, kind types.VocabKind) ([]types.VocabTerm, error)
}

type vocabService struct {
	log      *logger.Logger
	runner   aggregates.TxRunner
	resolver *vocab.Resolver
	cache    *cache.Layer
}

func NewVocabService(baseLog *logger.Logger, runner aggregates.TxRunner, resolver *vocab.Resolver, layer *cache.Layer) VocabService {
	return &vocabService{
		log:      baseLog.With("service", "VocabService"),
		runner:   runner,
		resolver: resolver,
		cache:    layer,
	}
}

func (s *vocabService) CreateMany(ctx context.Context, kind types.VocabKind, items []domainagg.TermRef) ([]types.VocabTerm, error) {
	var (
		out     []types.VocabTerm
		updated int
	)
	err := s.runner.InTx(ctx, func(dbc dbctx.Context) error {
		rows, n, err := s.resolver.CreateMany(dbc, kind, items)
		if err != nil {
			return err
		}
		out, updated = rows, n
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError("vocab.createMany."+string(kind), err)
	}
	// Root rows preload their terms, so renamed terms retire every cached list.
	if updated > 0 && s.cache != nil {
		for _, ns := range domainagg.DirectoryAggregateContract.Namespaces {
			s.cache.AfterWrite(ctx, ns, nil, false)
		}
	}
	s.log.Debug("vocabulary upserted", "kind", kind, "count", len(out), "updated", updated)
	return out, nil
}

func (s *vocabService) FindAll(ctx context.Context, kind types.VocabKind) ([]types.VocabTerm, error) {
	rows, err := s.resolver.FindAll(dbctx.Context{Ctx: ctx}, kind)
	if err != nil {
		return nil, aggregates.MapError("vocab.findAll."+string(kind), err)
	}
	return rows, nil
}
