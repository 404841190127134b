package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"ndrcraft/internal/meshing"
	"ndrcraft/internal/world"
)

//go:embed default_blocks.yaml
var defaultBlocksYAML []byte

// ErrInvalid marks a block file that parsed but does not describe a usable registry.
var ErrInvalid = errors.New("registry: invalid block definitions")

// Textures names the atlas tile of each face group.
type Textures struct {
	Top    int `yaml:"top"`
	Side   int `yaml:"side"`
	Bottom int `yaml:"bottom"`
}

// BlockDefinition defines the appearance of a block type
type BlockDefinition struct {
	ID       world.BlockType `yaml:"id"`
	Name     string          `yaml:"name"`
	Textures Textures        `yaml:"textures"`
	// Tint is a hex RGB color such as "7DFF5C"; empty means white.
	Tint string `yaml:"tint"`

	tint mgl32.Vec4
}

// TintColor returns the parsed tint as RGBA.
func (d *BlockDefinition) TintColor() mgl32.Vec4 {
	return d.tint
}

// TextureTile returns the atlas tile used on the given face.
func (d *BlockDefinition) TextureTile(face world.BlockFace) int {
	switch face {
	case world.FaceTop:
		return d.Textures.Top
	case world.FaceBottom:
		return d.Textures.Bottom
	default:
		return d.Textures.Side
	}
}

// AtlasLayout is the tile grid of the texture atlas.
type AtlasLayout struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// Tiles returns the number of tiles in the atlas.
func (a AtlasLayout) Tiles() int {
	return a.Columns * a.Rows
}

type blockFile struct {
	Atlas  AtlasLayout        `yaml:"atlas"`
	Blocks []*BlockDefinition `yaml:"blocks"`
}

// Registry maps block types to atlas tiles and tints. It implements
// meshing.FaceStyler.
type Registry struct {
	atlas  AtlasLayout
	blocks map[world.BlockType]*BlockDefinition
	names  map[string]world.BlockType
}

var _ meshing.FaceStyler = (*Registry)(nil)

// Default returns the built-in block set.
func Default() *Registry {
	r, err := Parse(defaultBlocksYAML)
	if err != nil {
		panic(fmt.Sprintf("registry: built-in blocks: %v", err))
	}
	return r
}

// Load reads block definitions from a YAML file. An empty path returns the
// built-in set.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block file: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse builds a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var f blockFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse block file: %w", err)
	}
	if f.Atlas.Columns <= 0 || f.Atlas.Rows <= 0 {
		return nil, fmt.Errorf("%w: atlas must have positive columns and rows, got %dx%d", ErrInvalid, f.Atlas.Columns, f.Atlas.Rows)
	}

	r := &Registry{
		atlas:  f.Atlas,
		blocks: make(map[world.BlockType]*BlockDefinition, len(f.Blocks)),
		names:  make(map[string]world.BlockType, len(f.Blocks)),
	}
	for _, def := range f.Blocks {
		if err := r.register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(def *BlockDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: empty block entry", ErrInvalid)
	}
	if def.ID.IsAir() {
		return fmt.Errorf("%w: block %q uses the reserved air id 0", ErrInvalid, def.Name)
	}
	if def.Name == "" {
		return fmt.Errorf("%w: block %d has no name", ErrInvalid, def.ID)
	}
	if _, dup := r.blocks[def.ID]; dup {
		return fmt.Errorf("%w: duplicate block id %d", ErrInvalid, def.ID)
	}
	if _, dup := r.names[def.Name]; dup {
		return fmt.Errorf("%w: duplicate block name %q", ErrInvalid, def.Name)
	}
	for _, tile := range []int{def.Textures.Top, def.Textures.Side, def.Textures.Bottom} {
		if tile < 0 || tile >= r.atlas.Tiles() {
			return fmt.Errorf("%w: block %q uses tile %d outside the %d-tile atlas", ErrInvalid, def.Name, tile, r.atlas.Tiles())
		}
	}
	tint, err := parseTint(def.Tint)
	if err != nil {
		return fmt.Errorf("%w: block %q: %v", ErrInvalid, def.Name, err)
	}
	def.tint = tint

	r.blocks[def.ID] = def
	r.names[def.Name] = def.ID
	return nil
}

func parseTint(s string) (mgl32.Vec4, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return mgl32.Vec4{1, 1, 1, 1}, nil
	}
	if len(s) != 6 {
		return mgl32.Vec4{}, fmt.Errorf("tint %q is not RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("tint %q: %w", s, err)
	}
	return mgl32.Vec4{
		float32((v>>16)&0xFF) / 255,
		float32((v>>8)&0xFF) / 255,
		float32(v&0xFF) / 255,
		1,
	}, nil
}

// Get returns the definition of a block type.
func (r *Registry) Get(id world.BlockType) (*BlockDefinition, bool) {
	def, ok := r.blocks[id]
	return def, ok
}

// ByName looks up a block type by its registered name.
func (r *Registry) ByName(name string) (world.BlockType, bool) {
	id, ok := r.names[name]
	return id, ok
}

// IDs returns every registered block type in ascending order.
func (r *Registry) IDs() []world.BlockType {
	ids := make([]world.BlockType, 0, len(r.blocks))
	for id := range r.blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Atlas() AtlasLayout {
	return r.atlas
}

// TileRect returns the UV rectangle of an atlas tile, counting row-major
// from the top-left.
func (r *Registry) TileRect(tile int) meshing.UVRect {
	cols, rows := r.atlas.Columns, r.atlas.Rows
	if tile < 0 || tile >= cols*rows {
		tile = 0
	}
	col, row := tile%cols, tile/cols
	w, h := 1/float32(cols), 1/float32(rows)
	return meshing.UVRect{
		U0: float32(col) * w,
		V0: float32(row) * h,
		U1: float32(col+1) * w,
		V1: float32(row+1) * h,
	}
}

// FaceUV maps a block face to its atlas rectangle. Unknown blocks use tile 0.
func (r *Registry) FaceUV(bt world.BlockType, face world.BlockFace) meshing.UVRect {
	def, ok := r.blocks[bt]
	if !ok {
		return r.TileRect(0)
	}
	return r.TileRect(def.TextureTile(face))
}

// Tint returns the block's color multiplier; unknown blocks are white.
func (r *Registry) Tint(bt world.BlockType) mgl32.Vec4 {
	if def, ok := r.blocks[bt]; ok {
		return def.tint
	}
	return mgl32.Vec4{1, 1, 1, 1}
}
