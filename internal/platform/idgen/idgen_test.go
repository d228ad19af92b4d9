package idgen

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSequenceReplaysThenFails(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	exhausted := errors.New("exhausted")
	s := &Sequence{IDs: []uuid.UUID{a, b}, Err: exhausted}

	for i, want := range []uuid.UUID{a, b} {
		got, err := s.GenerateID()
		if err != nil || got != want {
			t.Fatalf("id %d: want=%s got=%s err=%v", i, want, got, err)
		}
	}
	if _, err := s.GenerateID(); !errors.Is(err, exhausted) {
		t.Fatalf("exhausted: want=%v got=%v", exhausted, err)
	}
}

func TestUUIDProviderIsUnique(t *testing.T) {
	p := UUID()
	a, err := p.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	b, err := p.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	if a == b || a == uuid.Nil {
		t.Fatalf("expected distinct non-nil ids, got %s and %s", a, b)
	}
}
