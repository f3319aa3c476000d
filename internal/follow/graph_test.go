package follow

import (
	"context"
	"errors"
	"testing"
)

func TestFollowSelfRejected(t *testing.T) {
	// The self-check runs before any storage access, so a zero-value graph
	// is enough here
	g := &Graph{}

	err := g.Follow(context.Background(), 7, 7)
	if !errors.Is(err, ErrSelfFollow) {
		t.Errorf("expected ErrSelfFollow, got %v", err)
	}
}

func TestIsFollowingAnonymous(t *testing.T) {
	g := &Graph{}

	following, err := g.IsFollowing(context.Background(), 0, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if following {
		t.Error("anonymous viewer must not follow anyone")
	}
}
