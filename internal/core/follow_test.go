package core

import (
	"errors"
	"testing"
)

func userCode(t *testing.T, err error) string {
	t.Helper()
	var ue *UserError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UserError, got %v", err)
	}
	return ue.Code
}

func assertFollowSymmetry(t *testing.T, w *World) {
	t.Helper()
	for _, c := range w.Registry().Clients() {
		if c.Following != nil && c.Following.FollowedBy != c {
			t.Fatalf("client %d follows %d but is not its follower", c.ID, c.Following.ID)
		}
		if c.FollowedBy != nil && c.FollowedBy.Following != c {
			t.Fatalf("client %d is followed by %d which follows someone else", c.ID, c.FollowedBy.ID)
		}
	}
}

func TestFollowRejections(t *testing.T) {
	w, _ := newTestWorld(t)
	a := join(t, w, "a", 0)
	b := join(t, w, "b", 1)

	if code := userCode(t, w.Follow(a, a)); code != ErrCodeSelfFollow {
		t.Fatalf("expected self_follow, got %s", code)
	}
	if err := w.Follow(a, b); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if code := userCode(t, w.Follow(a, b)); code != ErrCodeAlreadyFollowing {
		t.Fatalf("expected already_following, got %s", code)
	}
	if code := userCode(t, w.Unfollow(b)); code != ErrCodeNotFollowing {
		t.Fatalf("expected not_following, got %s", code)
	}
	assertFollowSymmetry(t, w)
}

func TestFollowEvictsPreviousFollower(t *testing.T) {
	w, _ := newTestWorld(t)
	target := join(t, w, "target", 0)
	first := join(t, w, "first", 1)
	second := join(t, w, "second", 2)

	if err := w.Follow(first, target); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := w.Follow(second, target); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	if target.FollowedBy != second || second.Following != target {
		t.Fatalf("expected second to be the follower")
	}
	if first.Following != nil {
		t.Fatalf("expected first to be evicted")
	}
	mustHost(t, first, "second started following your target, so you are no longer following them.")
	assertFollowSymmetry(t, w)
}

func TestFollowSwitchTargetKeepsSymmetry(t *testing.T) {
	w, _ := newTestWorld(t)
	c := join(t, w, "c", 0)
	x := join(t, w, "x", 1)
	y := join(t, w, "y", 2)

	if err := w.Follow(c, x); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := w.Follow(c, y); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if x.FollowedBy != nil {
		t.Fatalf("expected old target released")
	}
	if c.Following != y || y.FollowedBy != c {
		t.Fatalf("expected c to follow y")
	}
	assertFollowSymmetry(t, w)
}

func TestFollowRelocatesToTargetArea(t *testing.T) {
	w, _ := newTestWorld(t)
	target := join(t, w, "target", 0)
	place(t, w, target, areaHallway)
	c := join(t, w, "c", 1)

	if err := w.Follow(c, target); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if c.Area != target.Area {
		t.Fatalf("expected follower moved to %s, got %s", target.Area.Name, c.Area.Name)
	}
	mustHost(t, c, "Followed user was at Hallway")
	mustHostContaining(t, c, "Began following client 0 at ")
}

func TestUnfollowClearsBothSides(t *testing.T) {
	w, _ := newTestWorld(t)
	a := join(t, w, "a", 0)
	b := join(t, w, "b", 1)

	if err := w.Follow(a, b); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := w.Unfollow(a); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if a.Following != nil || b.FollowedBy != nil {
		t.Fatalf("expected relation cleared")
	}
	mustHostContaining(t, a, "Stopped following client 1 at ")
	assertFollowSymmetry(t, w)
}

func TestDisconnectOfFollowerKeepsSymmetry(t *testing.T) {
	w, _ := newTestWorld(t)
	a := join(t, w, "a", 0)
	b := join(t, w, "b", 1)

	if err := w.Follow(a, b); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	w.Disconnect(a)
	if b.FollowedBy != nil {
		t.Fatalf("expected target released when follower disconnects")
	}
	assertFollowSymmetry(t, w)
}
