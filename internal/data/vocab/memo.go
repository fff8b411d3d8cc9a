package vocab

import (
	"github.com/google/uuid"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
)

// Memo remembers resolutions for the lifetime of one graph build. It must not outlive
// the transaction it was used in.
type Memo struct {
	r    *Resolver
	byID map[string]uuid.UUID
}

func (r *Resolver) NewMemo() *Memo {
	return &Memo{r: r, byID: map[string]uuid.UUID{}}
}

func memoKey(kind types.VocabKind, ref domainagg.TermRef) string {
	if ref.ID != nil && *ref.ID != uuid.Nil {
		return string(kind) + "#" + ref.ID.String()
	}
	return string(kind) + ":" + Normalize(kind, ref.Key())
}

// Prefetch loads every existing term named by key in refs with one query, so a list of
// known terms costs a single round trip. Unknown keys are left for ResolveID to create.
func (m *Memo) Prefetch(dbc dbctx.Context, kind types.VocabKind, refs []domainagg.TermRef) error {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != nil && *ref.ID != uuid.Nil {
			continue
		}
		key := Normalize(kind, ref.Key())
		if key == "" {
			continue
		}
		if _, ok := m.byID[string(kind)+":"+key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) < 2 {
		return nil
	}
	rows, err := m.r.repo.GetByKeys(dbc.Ctx, dbc.Tx, kind, keys)
	if err != nil {
		return err
	}
	for _, row := range rows {
		m.remember(kind, row)
	}
	return nil
}

func (m *Memo) remember(kind types.VocabKind, row types.VocabTerm) {
	id := row.TermID()
	m.byID[string(kind)+":"+row.NaturalKey()] = id
	m.byID[string(kind)+"#"+id.String()] = id
}

// ResolveID resolves ref once per memo.
func (m *Memo) ResolveID(dbc dbctx.Context, kind types.VocabKind, ref domainagg.TermRef) (uuid.UUID, error) {
	k := memoKey(kind, ref)
	if id, ok := m.byID[k]; ok {
		return id, nil
	}
	row, err := m.r.Resolve(dbc, kind, ref)
	if err != nil {
		return uuid.Nil, err
	}
	id := row.TermID()
	m.byID[k] = id
	m.remember(kind, row)
	return id, nil
}
