package store

import (
	"context"
	"testing"
)

func TestMemoryIdentitiesStable(t *testing.T) {
	m := NewMemoryIdentities()
	ctx := context.Background()

	a1, _ := m.IPID(ctx, "1.1.1.1")
	b, _ := m.IPID(ctx, "2.2.2.2")
	a2, _ := m.IPID(ctx, "1.1.1.1")

	if a1 != a2 {
		t.Fatalf("expected stable ipid, got %q and %q", a1, a2)
	}
	if a1 == b {
		t.Fatalf("expected distinct ipids, both %q", a1)
	}
}
