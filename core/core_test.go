package core

import "testing"

func TestOrientationRoundTrip(t *testing.T) {
	for i := Direction(0); i < DirCount; i++ {
		dx, dy := OrientationToVec(i)
		got := VecToOrientation(dx, dy)
		if got != i {
			t.Errorf("direction %d: vec (%d,%d) round-tripped to %d", i, dx, dy, got)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		a := Action(b)
		verb, arg := DecodeAction(a)
		if got := EncodeAction(verb, arg); got != a {
			t.Errorf("byte %d: decode/encode round trip gave %d", b, got)
		}
	}
}

func TestChebyshevManhattan(t *testing.T) {
	p := Position{X: 2, Y: 2}
	o := Position{X: 5, Y: 4}
	if got := p.Chebyshev(o); got != 3 {
		t.Errorf("Chebyshev = %d, want 3", got)
	}
	if got := p.Manhattan(o); got != 5 {
		t.Errorf("Manhattan = %d, want 5", got)
	}
}

func TestRandDeterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 20; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same-seed RNGs diverged at step %d", i)
		}
	}
}

func TestRandZeroSeedGuard(t *testing.T) {
	r := NewRand(0)
	if r.state != 1 {
		t.Errorf("zero seed not remapped, state=%d", r.state)
	}
}
