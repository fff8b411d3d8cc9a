package aggregates

import (
	"errors"
	"testing"

	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_StorageViolations(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"duplicate", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: rehab_org.slug"), domainagg.CodeConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, domainagg.CodeParentNotFound},
		{"not null", errors.New("NOT NULL constraint failed: rehab_campus.city"), domainagg.CodeMissingRequiredField},
		{"locked", errors.New("database is locked"), domainagg.CodeRetryable},
		{"other", errors.New("disk I/O error"), domainagg.CodePersistence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			if !domainagg.IsCode(got, tc.want) {
				t.Fatalf("want %s, got %q (%v)", tc.want, domainagg.CodeOf(got), got)
			}
		})
	}
}
