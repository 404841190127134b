package world

import "fmt"

// Generator fills a freshly created grid.
type Generator interface {
	Populate(g *Grid) error
}

// NewGenerator returns the generator registered under name.
func NewGenerator(name string, groundHeight int) (Generator, error) {
	switch name {
	case "", "flat":
		return NewFlatGenerator(groundHeight), nil
	case "empty":
		return EmptyGenerator{}, nil
	case "pillars":
		return NewPillarGenerator(groundHeight, 8), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", name)
	}
}

// EmptyGenerator leaves the grid as air.
type EmptyGenerator struct{}

func (EmptyGenerator) Populate(*Grid) error { return nil }

// FlatGenerator fills the bottom layers of the grid: stone at the floor,
// dirt in between and grass on top.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a generator producing groundHeight layers.
func NewFlatGenerator(groundHeight int) *FlatGenerator {
	return &FlatGenerator{height: groundHeight}
}

// HeightAt returns the number of filled layers; it is the same for every column.
func (f *FlatGenerator) HeightAt(x, z int) int {
	return f.height
}

func (f *FlatGenerator) Populate(g *Grid) error {
	if f.height <= 0 {
		return nil
	}
	min, max := g.Bounds()
	top := min[1] + f.height - 1
	if top > max[1] {
		top = max[1]
	}
	for x := min[0]; x <= max[0]; x++ {
		for z := min[2]; z <= max[2]; z++ {
			if err := fillColumn(g, x, z, min[1], top); err != nil {
				return err
			}
		}
	}
	return nil
}

func fillColumn(g *Grid, x, z, bottom, top int) error {
	for y := bottom; y <= top; y++ {
		bt := BlockTypeDirt
		switch y {
		case bottom:
			bt = BlockTypeStone
		case top:
			bt = BlockTypeGrass
		}
		if err := g.Set(x, y, z, bt); err != nil {
			return fmt.Errorf("fill column (%d,%d): %w", x, z, err)
		}
	}
	return nil
}

// PillarGenerator builds a flat floor plus brick pillars on a regular spacing.
// Pillars straddle chunk borders, which makes it a handy scene for checking
// cross-chunk culling by eye.
type PillarGenerator struct {
	floor   *FlatGenerator
	spacing int
}

func NewPillarGenerator(groundHeight, spacing int) *PillarGenerator {
	if spacing < 2 {
		spacing = 2
	}
	return &PillarGenerator{floor: NewFlatGenerator(groundHeight), spacing: spacing}
}

func (p *PillarGenerator) Populate(g *Grid) error {
	if err := p.floor.Populate(g); err != nil {
		return err
	}
	min, max := g.Bounds()
	base := min[1] + p.floor.height
	for x := min[0]; x <= max[0]; x++ {
		if mod(x, p.spacing) != 0 {
			continue
		}
		for z := min[2]; z <= max[2]; z++ {
			if mod(z, p.spacing) != 0 {
				continue
			}
			// pillar height varies with position so adjacent pillars differ
			h := 2 + mod(x/p.spacing+z/p.spacing, 4)
			for y := base; y < base+h && y <= max[1]; y++ {
				if err := g.Set(x, y, z, BlockTypeBrick); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
