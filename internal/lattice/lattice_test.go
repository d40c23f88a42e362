package lattice

import (
	"math/rand/v2"
	"testing"
)

func TestUniform(t *testing.T) {
	l := Uniform(4, Down)
	if l.Size() != 4 || l.Sites() != 16 {
		t.Fatalf("unexpected dimensions %d/%d", l.Size(), l.Sites())
	}
	for i, s := range l.Spins() {
		if s != Down {
			t.Fatalf("site %d = %d, want -1", i, s)
		}
	}
}

func TestNewClampsSize(t *testing.T) {
	if got := New(0).Size(); got != 1 {
		t.Errorf("New(0).Size() = %d, want 1", got)
	}
}

func TestWrap(t *testing.T) {
	l := New(5)
	tests := []struct {
		i, j   int
		wi, wj int
	}{
		{0, 0, 0, 0},
		{-1, 0, 4, 0},
		{5, -1, 0, 4},
		{12, -7, 2, 3},
	}
	for _, tt := range tests {
		i, j := l.Wrap(tt.i, tt.j)
		if i != tt.wi || j != tt.wj {
			t.Errorf("Wrap(%d,%d) = (%d,%d), want (%d,%d)", tt.i, tt.j, i, j, tt.wi, tt.wj)
		}
	}
}

func TestFlipAndAt(t *testing.T) {
	l := New(3)
	if got := l.Flip(-1, 3); got != Down {
		t.Fatalf("Flip returned %d, want -1", got)
	}
	if l.At(2, 0) != Down {
		t.Error("flip did not wrap to (2,0)")
	}
	if l.Diff(New(3)) != 1 {
		t.Errorf("expected exactly one differing site")
	}
}

func TestCheckerboard(t *testing.T) {
	l := Checkerboard(4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if l.At(i, j) == l.At(i, j+1) || l.At(i, j) == l.At(i+1, j) {
				t.Fatalf("neighbours of (%d,%d) share a spin", i, j)
			}
		}
	}
}

func TestRandomIsValidAndSeeded(t *testing.T) {
	a := Random(8, rand.New(rand.NewPCG(7, 0)))
	b := Random(8, rand.New(rand.NewPCG(7, 0)))
	if !a.Valid() {
		t.Fatal("random lattice has invalid spins")
	}
	if !a.Equal(b) {
		t.Error("same seed produced different lattices")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := New(2)
	c := l.Clone()
	c.Flip(0, 0)
	if l.At(0, 0) != Up {
		t.Error("Clone shares storage with original")
	}
	l.CopyFrom(c)
	if !l.Equal(c) {
		t.Error("CopyFrom did not copy spins")
	}
}

func TestParse(t *testing.T) {
	l, err := Parse("+-", "-+")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !l.Equal(Checkerboard(2)) {
		t.Errorf("parsed lattice:\n%s", l)
	}
	if l.String() != "+-\n-+" {
		t.Errorf("String() = %q", l.String())
	}

	for _, rows := range [][]string{{}, {"+", "-"}, {"+x", "--"}} {
		if _, err := Parse(rows...); err == nil {
			t.Errorf("Parse(%q) expected error", rows)
		}
	}
}
