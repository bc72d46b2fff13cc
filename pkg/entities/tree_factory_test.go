package entities

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestCreateTree(t *testing.T) {
	opts := DefaultTreeOptions()
	points := CreateTree(opts, rand.New(rand.NewPCG(7, 7)))

	want := 40 + opts.Layers*opts.Density + opts.Ornaments + 5
	if len(points) != want {
		t.Fatalf("tree points: got %d, want %d", len(points), want)
	}

	lit := [2]int{}
	crownTop := opts.BaseY + 1.5 + opts.Height
	for i, p := range points {
		if p.Light >= 0 {
			lit[p.Light]++
		}
		if p.Pos.Y < opts.BaseY || p.Pos.Y > crownTop+1 {
			t.Errorf("point %d: y=%v outside [%v, %v]", i, p.Pos.Y, opts.BaseY, crownTop+1)
		}
		if r := math.Hypot(p.Pos.X, p.Pos.Z); r > opts.BaseRadius+1e-9 {
			t.Errorf("point %d: radius %v exceeds base radius %v", i, r, opts.BaseRadius)
		}
	}
	if lit[0] != opts.Ornaments/2 || lit[1] != opts.Ornaments/2 {
		t.Errorf("ornaments per light: got %v, want %d each", lit, opts.Ornaments/2)
	}
}

func TestCreateTreeDeterministic(t *testing.T) {
	a := CreateTree(DefaultTreeOptions(), rand.New(rand.NewPCG(1, 1)))
	b := CreateTree(DefaultTreeOptions(), rand.New(rand.NewPCG(1, 1)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs with the same seed: %+v vs %+v", i, a[i], b[i])
		}
	}
}
