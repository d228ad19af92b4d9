package apierr

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", domainagg.NewError(domainagg.CodeValidation, "op", "bad", nil), http.StatusBadRequest, "validation", false},
		{"state conflict", domainagg.StateConflict("op", "already accepted"), http.StatusConflict, "state_conflict", false},
		{"concurrency", domainagg.NewError(domainagg.CodeConflict, "op", "stale", nil), http.StatusConflict, "conflict", true},
		{"not found", domainagg.NewError(domainagg.CodeNotFound, "op", "missing", nil), http.StatusNotFound, "not_found", false},
		{"persistence", domainagg.NewError(domainagg.CodePersistence, "op", "disk", nil), http.StatusInternalServerError, "persistence_failure", false},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal", false},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		if got.Status != tc.status || got.Code != tc.code || got.Retryable != tc.retryable {
			t.Fatalf("%s: want=(%d,%s,%v) got=(%d,%s,%v)", tc.name, tc.status, tc.code, tc.retryable, got.Status, got.Code, got.Retryable)
		}
		if !errors.Is(got, tc.err) {
			t.Fatalf("%s: cause lost", tc.name)
		}
	}
	if FromError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
	in := New(http.StatusTeapot, "teapot", nil)
	if FromError(in) != in {
		t.Fatalf("api errors should pass through")
	}
}
