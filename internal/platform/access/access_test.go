package access

import (
	"context"
	"errors"
	"testing"
)

func TestFromContext(t *testing.T) {
	ctx := WithUserID(context.Background(), " admin ")
	got, err := FromContext(ctx).UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if got != "admin" {
		t.Fatalf("user id: want=admin got=%q", got)
	}

	_, err = FromContext(context.Background()).UserID()
	if !errors.Is(err, ErrNoPrincipal) {
		t.Fatalf("expected ErrNoPrincipal, got=%v", err)
	}
}

func TestStatic(t *testing.T) {
	if got, err := Static("system").UserID(); err != nil || got != "system" {
		t.Fatalf("static: got=%q err=%v", got, err)
	}
	if _, err := Static("").UserID(); !errors.Is(err, ErrNoPrincipal) {
		t.Fatalf("empty static should fail, got=%v", err)
	}
}
