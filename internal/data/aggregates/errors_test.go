package aggregates

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
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

func TestMapError_PgCodes(t *testing.T) {
	cases := []struct {
		code string
		want domainagg.ErrorCode
	}{
		{"23505", domainagg.CodeConflict},
		{"40001", domainagg.CodeRetryable},
		{"40P01", domainagg.CodeRetryable},
		{"55P03", domainagg.CodeRetryable},
		{"23502", domainagg.CodePersistence},
	}
	for _, tc := range cases {
		err := MapError("op", &pgconn.PgError{Code: tc.code, Message: "pg failure"})
		if !domainagg.IsCode(err, tc.want) {
			t.Fatalf("pg %s: want=%s got=%q (%v)", tc.code, tc.want, domainagg.CodeOf(err), err)
		}
	}
}

func TestMapError_SqliteMessages(t *testing.T) {
	if err := MapError("op", errors.New("UNIQUE constraint failed: employee.id")); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("unique: got %q", domainagg.CodeOf(err))
	}
	if err := MapError("op", errors.New("database is locked")); !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("locked: got %q", domainagg.CodeOf(err))
	}
}

func TestMapError_ContextAndDefault(t *testing.T) {
	if err := MapError("op", context.Canceled); !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("canceled: got %q", domainagg.CodeOf(err))
	}
	err := MapError("op", errors.New("no such table: employee"))
	if !domainagg.IsCode(err, domainagg.CodePersistence) {
		t.Fatalf("default: got %q", domainagg.CodeOf(err))
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil should map to nil")
	}
}
