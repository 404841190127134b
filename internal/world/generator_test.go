package world

import "testing"

func TestFlatGeneratorImplementsInterface(t *testing.T) {
	var _ Generator = NewFlatGenerator(10)
	var _ Generator = NewPillarGenerator(4, 8)
	var _ Generator = EmptyGenerator{}
}

func TestFlatGeneratorHeight(t *testing.T) {
	g := NewFlatGenerator(10)
	if h := g.HeightAt(0, 0); h != 10 {
		t.Errorf("Expected height 10, got %d", h)
	}
	if h := g.HeightAt(100, -50); h != 10 {
		t.Errorf("Expected height 10, got %d", h)
	}
}

func TestFlatGeneratorPopulate(t *testing.T) {
	grid, err := NewGrid(Extent{Width: 8, Height: 12, Depth: 8})
	if err != nil {
		t.Fatal(err)
	}
	if err := NewFlatGenerator(4).Populate(grid); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	min, max := grid.Bounds()
	bottom := min[1]
	for x := min[0]; x <= max[0]; x++ {
		for z := min[2]; z <= max[2]; z++ {
			if b := grid.Get(x, bottom, z); b != BlockTypeStone {
				t.Fatalf("Expected Stone at %d,%d,%d, got %v", x, bottom, z, b)
			}
			for y := bottom + 1; y < bottom+3; y++ {
				if b := grid.Get(x, y, z); b != BlockTypeDirt {
					t.Fatalf("Expected Dirt at %d,%d,%d, got %v", x, y, z, b)
				}
			}
			if b := grid.Get(x, bottom+3, z); b != BlockTypeGrass {
				t.Fatalf("Expected Grass at %d,%d,%d, got %v", x, bottom+3, z, b)
			}
			if b := grid.Get(x, bottom+4, z); b != BlockTypeAir {
				t.Fatalf("Expected Air above ground at %d,%d,%d, got %v", x, bottom+4, z, b)
			}
		}
	}

	if got, want := grid.SolidCount(), 8*8*4; got != want {
		t.Errorf("Expected %d solid blocks, got %d", want, got)
	}
}

func TestFlatGeneratorClampsToGridHeight(t *testing.T) {
	grid, err := NewGrid(Extent{Width: 2, Height: 3, Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := NewFlatGenerator(50).Populate(grid); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if got := grid.SolidCount(); got != 2*3*2 {
		t.Errorf("Expected grid to be full, got %d solid", got)
	}
}

func TestPillarGeneratorDeterministic(t *testing.T) {
	build := func() *Grid {
		grid, err := NewGrid(Extent{Width: 40, Height: 16, Depth: 40})
		if err != nil {
			t.Fatal(err)
		}
		if err := NewPillarGenerator(2, 8).Populate(grid); err != nil {
			t.Fatalf("Populate: %v", err)
		}
		return grid
	}
	a, b := build(), build()

	var solidA, solidB []BlockType
	a.ForEachSolid(func(_, _, _ int, bt BlockType) { solidA = append(solidA, bt) })
	b.ForEachSolid(func(_, _, _ int, bt BlockType) { solidB = append(solidB, bt) })
	if len(solidA) != len(solidB) {
		t.Fatalf("solid counts differ: %d vs %d", len(solidA), len(solidB))
	}

	min, _ := a.Bounds()
	base := min[1] + 2
	if bt := a.Get(0, base, 0); bt != BlockTypeBrick {
		t.Errorf("Expected pillar at origin, got %v", bt)
	}
	if bt := a.Get(1, base, 0); bt != BlockTypeAir {
		t.Errorf("Expected air between pillars, got %v", bt)
	}
}

func TestNewGeneratorByName(t *testing.T) {
	for _, name := range []string{"", "flat", "empty", "pillars"} {
		if _, err := NewGenerator(name, 4); err != nil {
			t.Errorf("NewGenerator(%q): %v", name, err)
		}
	}
	if _, err := NewGenerator("perlin", 4); err == nil {
		t.Error("Expected error for unknown generator")
	}
}
