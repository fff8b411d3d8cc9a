// Package vocab resolves vocabulary references to term ids, creating missing terms.
package vocab

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/rehabdir-backend/internal/data/db"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/observability"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

const (
	outcomeExisting  = "existing"
	outcomeCreated   = "created"
	outcomeRecovered = "race_recovered"
	outcomeUpdated   = "updated"
)

type Resolver struct {
	repo    repos.VocabRepo
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewResolver(repo repos.VocabRepo, baseLog *logger.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{repo: repo, log: baseLog.With("service", "VocabResolver"), metrics: metrics}
}

func opName(kind types.VocabKind) string {
	return "vocab.resolve." + string(kind)
}

// Resolve returns the term ref points at, creating it by natural key when absent.
// An explicit id wins when it exists; otherwise the key is used.
func (r *Resolver) Resolve(dbc dbctx.Context, kind types.VocabKind, ref domainagg.TermRef) (types.VocabTerm, error) {
	op := opName(kind)
	if _, ok := directory.Spec(kind); !ok {
		return nil, domainagg.Validation(op, "kind", fmt.Sprintf("unknown vocabulary kind %q", kind))
	}
	if ref.ID != nil && *ref.ID != uuid.Nil {
		row, err := r.repo.GetByID(dbc.Ctx, dbc.Tx, kind, *ref.ID)
		if err != nil {
			return nil, err
		}
		if row != nil {
			r.metrics.IncVocabResolution(string(kind), outcomeExisting)
			return row, nil
		}
		if ref.Key() == "" {
			return nil, domainagg.NotFound(op, string(kind), ref.ID.String())
		}
	}

	key := Normalize(kind, ref.Key())
	if key == "" {
		return nil, domainagg.Validation(op, string(kind), "term needs an id, slug or code")
	}
	row, err := r.repo.GetByKey(dbc.Ctx, dbc.Tx, kind, key)
	if err != nil {
		return nil, err
	}
	if row != nil {
		r.metrics.IncVocabResolution(string(kind), outcomeExisting)
		return row, nil
	}
	return r.create(dbc, kind, key, ref.TermAttrs)
}

// create inserts a new term. Inside a transaction the insert runs in a savepoint so a
// unique violation from a concurrent writer leaves the outer transaction usable.
func (r *Resolver) create(dbc dbctx.Context, kind types.VocabKind, key string, attrs types.TermAttrs) (types.VocabTerm, error) {
	spec, _ := directory.Spec(kind)
	row := spec.New()
	row.SetNaturalKey(key)
	if attrs.DisplayName == nil || strings.TrimSpace(*attrs.DisplayName) == "" {
		name := Humanize(key)
		attrs.DisplayName = &name
	}
	row.Assign(attrs)

	var err error
	if dbc.Tx != nil {
		err = dbc.Tx.WithContext(dbc.Ctx).Transaction(func(sp *gorm.DB) error {
			return r.repo.Create(dbc.Ctx, sp, kind, row)
		})
	} else {
		err = r.repo.Create(dbc.Ctx, nil, kind, row)
	}
	if err == nil {
		r.metrics.IncVocabResolution(string(kind), outcomeCreated)
		return row, nil
	}
	if !dbpkg.IsUniqueViolation(err) {
		return nil, err
	}

	existing, lookupErr := r.repo.GetByKey(dbc.Ctx, dbc.Tx, kind, key)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing == nil {
		return nil, &domainagg.Error{
			Code:    domainagg.CodeVocabularyConflict,
			Op:      opName(kind),
			Field:   string(kind),
			Message: fmt.Sprintf("%q collided on create and could not be re-resolved", key),
			Cause:   err,
		}
	}
	r.log.Debug("vocabulary create raced, reusing existing term", "kind", kind, "key", key)
	r.metrics.IncVocabResolution(string(kind), outcomeRecovered)
	return existing, nil
}

// CreateMany upserts a flat list of terms by natural key. Existing rows are reused and
// have any supplied display attributes applied. The result follows input order with
// duplicate keys collapsed to their first occurrence. The count reports existing rows
// whose attributes changed.
func (r *Resolver) CreateMany(dbc dbctx.Context, kind types.VocabKind, items []domainagg.TermRef) ([]types.VocabTerm, int, error) {
	op := "vocab.createMany." + string(kind)
	if _, ok := directory.Spec(kind); !ok {
		return nil, 0, domainagg.Validation(op, "kind", fmt.Sprintf("unknown vocabulary kind %q", kind))
	}
	out := make([]types.VocabTerm, 0, len(items))
	updated := 0
	seen := map[string]bool{}
	for i, item := range items {
		key := Normalize(kind, item.Key())
		if key == "" {
			return nil, 0, domainagg.Validation(op, fmt.Sprintf("items[%d]", i), "slug or code required")
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		row, err := r.repo.GetByKey(dbc.Ctx, dbc.Tx, kind, key)
		if err != nil {
			return nil, 0, err
		}
		if row == nil {
			row, err = r.create(dbc, kind, key, item.TermAttrs)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, row)
			continue
		}
		if updates := row.Assign(item.TermAttrs); len(updates) > 0 {
			if err := r.repo.UpdateFields(dbc.Ctx, dbc.Tx, kind, row.TermID(), updates); err != nil {
				return nil, 0, err
			}
			r.metrics.IncVocabResolution(string(kind), outcomeUpdated)
			updated++
		}
		out = append(out, row)
	}
	return out, updated, nil
}

// FindAll lists every term of kind ordered by natural key.
func (r *Resolver) FindAll(dbc dbctx.Context, kind types.VocabKind) ([]types.VocabTerm, error) {
	if _, ok := directory.Spec(kind); !ok {
		return nil, domainagg.Validation("vocab.findAll", "kind", fmt.Sprintf("unknown vocabulary kind %q", kind))
	}
	return r.repo.ListAll(dbc.Ctx, dbc.Tx, kind)
}
