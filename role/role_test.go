package role

import (
	"testing"

	"github.com/kestrel-sim/skirmish/agentstate"
)

func TestCatalogRoleBounds(t *testing.T) {
	c := NewCatalog([]Role{
		{Kind: agentstate.RoleGatherer, Name: "gatherer"},
		{Kind: agentstate.RoleBuilder, Name: "builder"},
	})
	if _, ok := c.Role(-1); ok {
		t.Fatalf("expected out-of-range role id to fail")
	}
	if _, ok := c.Role(2); ok {
		t.Fatalf("expected out-of-range role id to fail")
	}
	r, ok := c.Role(1)
	if !ok || r.Name != "builder" {
		t.Fatalf("expected builder role at index 1, got %+v ok=%v", r, ok)
	}
}

func TestDefaultSlotCycles(t *testing.T) {
	c := NewCatalog([]Role{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	if got := c.DefaultSlot(0); got != 0 {
		t.Fatalf("expected slot 0, got %d", got)
	}
	if got := c.DefaultSlot(3); got != 0 {
		t.Fatalf("expected slot cycling back to 0, got %d", got)
	}
	if got := c.DefaultSlot(4); got != 1 {
		t.Fatalf("expected slot 1, got %d", got)
	}
}

func TestDefaultSlotEmptyCatalog(t *testing.T) {
	c := NewCatalog(nil)
	if got := c.DefaultSlot(0); got != agentstate.NoRole {
		t.Fatalf("expected NoRole sentinel for an empty catalog, got %d", got)
	}
}
