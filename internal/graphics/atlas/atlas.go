// Package atlas prepares the block texture atlas image. It never touches GL,
// so it can be tested without a context.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// MinTileSize is the smallest tile edge the atlas is resampled to.
const MinTileSize = 16

var ErrLayout = errors.New("atlas: image does not match tile layout")

// Load decodes the image at path and resamples it so that every tile of the
// cols x rows grid has a power-of-two edge. PNG and BMP are supported.
func Load(path string, cols, rows int) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open atlas: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode atlas %s: %w", path, err)
	}
	return Normalize(img, cols, rows)
}

// Normalize converts img to RGBA with power-of-two tiles. Nearest-neighbor
// sampling keeps texel edges crisp.
func Normalize(img image.Image, cols, rows int) (*image.RGBA, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d tiles", ErrLayout, cols, rows)
	}
	b := img.Bounds()
	if b.Dx() < cols || b.Dy() < rows || b.Dx()%cols != 0 || b.Dy()%rows != 0 {
		return nil, fmt.Errorf("%w: %dx%d pixels for %dx%d tiles", ErrLayout, b.Dx(), b.Dy(), cols, rows)
	}

	tile := max(NextPowerOfTwo(b.Dx()/cols), NextPowerOfTwo(b.Dy()/rows), MinTileSize)
	dst := image.NewRGBA(image.Rect(0, 0, tile*cols, tile*rows))
	if dst.Bounds().Size() == b.Size() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst, nil
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// NextPowerOfTwo returns the smallest power of two >= n, and 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Palette holds the base colors of the generated fallback atlas, in tile
// order. Tiles past the end reuse the palette cyclically.
var Palette = []color.RGBA{
	{0x7f, 0x7f, 0x7f, 0xff}, // stone
	{0x86, 0x60, 0x43, 0xff}, // dirt
	{0xb4, 0xb4, 0xb4, 0xff}, // grass top, tinted per block
	{0x6e, 0x8c, 0x4a, 0xff}, // grass side
	{0xdb, 0xd3, 0xa0, 0xff}, // sand
	{0xa2, 0x82, 0x4e, 0xff}, // planks
	{0x96, 0x4b, 0x3c, 0xff}, // brick
	{0xff, 0x00, 0xff, 0xff},
}

// Generate builds a cols x rows atlas of flat colored tiles with a darker
// border, used when no atlas image is configured.
func Generate(cols, rows, tileSize int) *image.RGBA {
	tileSize = max(NextPowerOfTwo(tileSize), 1)
	img := image.NewRGBA(image.Rect(0, 0, cols*tileSize, rows*tileSize))
	for i := range cols * rows {
		base := Palette[i%len(Palette)]
		edge := shade(base, 0.7)
		x0, y0 := (i%cols)*tileSize, (i/cols)*tileSize
		for y := range tileSize {
			for x := range tileSize {
				c := base
				switch {
				case x == 0 || y == 0 || x == tileSize-1 || y == tileSize-1:
					c = edge
				case (x/2+y/2)%2 == 0:
					c = shade(base, 0.92)
				}
				img.SetRGBA(x0+x, y0+y, c)
			}
		}
	}
	return img
}

func shade(c color.RGBA, f float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * f),
		G: uint8(float32(c.G) * f),
		B: uint8(float32(c.B) * f),
		A: c.A,
	}
}
