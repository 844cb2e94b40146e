package auth

import (
	"context"
	"testing"
)

func TestIdentityContext_RoundTrip(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), &Identity{UserID: "U1"})

	id := IdentityFromContext(ctx)
	if id == nil {
		t.Fatal("expected identity, got nil")
	}
	if id.UserID != "U1" {
		t.Errorf("expected UserID U1, got %s", id.UserID)
	}
	if got := UserIDFromContext(ctx); got != "U1" {
		t.Errorf("expected U1, got %s", got)
	}
}

func TestIdentityContext_Absent(t *testing.T) {
	ctx := context.Background()

	if id := IdentityFromContext(ctx); id != nil {
		t.Errorf("expected nil identity, got %+v", id)
	}
	if got := UserIDFromContext(ctx); got != "" {
		t.Errorf("expected empty user ID, got %s", got)
	}
}
