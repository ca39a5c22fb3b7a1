package renderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/chewxy/math32"
	"github.com/x448/float16"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

// Texel is one RGBA accumulator value. A zero alpha marks a texel that was
// never written.
type Texel struct {
	R, G, B, A float32
}

// NewTexel creates a texel from a color and alpha
func NewTexel(c core.Vec3, alpha float32) Texel {
	return Texel{R: c.X, G: c.Y, B: c.Z, A: alpha}
}

// RGB returns the color channels as a vector
func (t Texel) RGB() core.Vec3 {
	return core.NewVec3(t.R, t.G, t.B)
}

// Format selects the storage precision of a texture
type Format int

const (
	FormatRGBA8 Format = iota
	FormatRGBA16F
	FormatRGBA32F
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatRGBA16F:
		return "rgba16f"
	case FormatRGBA32F:
		return "rgba32f"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat parses a texture format name as accepted on the command line
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "rgba8":
		return FormatRGBA8, nil
	case "rgba16f", "half":
		return FormatRGBA16F, nil
	case "rgba32f", "float":
		return FormatRGBA32F, nil
	default:
		return 0, fmt.Errorf("unknown texture format %q (expected rgba8, rgba16f or rgba32f)", name)
	}
}

// Texture stores one texel per pixel. Coordinates have y increasing upward.
// Concurrent Store calls are safe as long as they target distinct texels.
type Texture interface {
	Width() int
	Height() int
	Format() Format
	Load(x, y int) Texel
	Store(x, y int, t Texel)
	Clear()
}

// NewTexture allocates a cleared texture in the given format
func NewTexture(format Format, width, height int) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	switch format {
	case FormatRGBA8:
		return NewByteTexture(width, height), nil
	case FormatRGBA16F:
		return NewHalfTexture(width, height), nil
	case FormatRGBA32F:
		return NewFloatTexture(width, height), nil
	default:
		return nil, fmt.Errorf("unsupported texture format %v", format)
	}
}

// FloatTexture stores full precision float32 channels
type FloatTexture struct {
	width, height int
	pix           []float32
}

// NewFloatTexture creates an RGBA32F texture
func NewFloatTexture(width, height int) *FloatTexture {
	return &FloatTexture{width: width, height: height, pix: make([]float32, 4*width*height)}
}

func (ft *FloatTexture) Width() int     { return ft.width }
func (ft *FloatTexture) Height() int    { return ft.height }
func (ft *FloatTexture) Format() Format { return FormatRGBA32F }

func (ft *FloatTexture) Load(x, y int) Texel {
	i := 4 * (y*ft.width + x)
	p := ft.pix[i : i+4 : i+4]
	return Texel{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (ft *FloatTexture) Store(x, y int, t Texel) {
	i := 4 * (y*ft.width + x)
	p := ft.pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = t.R, t.G, t.B, t.A
}

func (ft *FloatTexture) Clear() {
	clear(ft.pix)
}

// HalfTexture stores IEEE 754 half precision channels
type HalfTexture struct {
	width, height int
	pix           []float16.Float16
}

// NewHalfTexture creates an RGBA16F texture
func NewHalfTexture(width, height int) *HalfTexture {
	return &HalfTexture{width: width, height: height, pix: make([]float16.Float16, 4*width*height)}
}

func (ht *HalfTexture) Width() int     { return ht.width }
func (ht *HalfTexture) Height() int    { return ht.height }
func (ht *HalfTexture) Format() Format { return FormatRGBA16F }

func (ht *HalfTexture) Load(x, y int) Texel {
	i := 4 * (y*ht.width + x)
	p := ht.pix[i : i+4 : i+4]
	return Texel{R: p[0].Float32(), G: p[1].Float32(), B: p[2].Float32(), A: p[3].Float32()}
}

func (ht *HalfTexture) Store(x, y int, t Texel) {
	i := 4 * (y*ht.width + x)
	p := ht.pix[i : i+4 : i+4]
	p[0] = float16.Fromfloat32(t.R)
	p[1] = float16.Fromfloat32(t.G)
	p[2] = float16.Fromfloat32(t.B)
	p[3] = float16.Fromfloat32(t.A)
}

func (ht *HalfTexture) Clear() {
	clear(ht.pix)
}

// ByteTexture stores normalized 8-bit channels in an image.RGBA.
// Image rows run top-down, so texel row y lives in image row height-1-y.
type ByteTexture struct {
	img *image.RGBA
}

// NewByteTexture creates an RGBA8 texture
func NewByteTexture(width, height int) *ByteTexture {
	return &ByteTexture{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (bt *ByteTexture) Width() int     { return bt.img.Rect.Dx() }
func (bt *ByteTexture) Height() int    { return bt.img.Rect.Dy() }
func (bt *ByteTexture) Format() Format { return FormatRGBA8 }

func (bt *ByteTexture) Load(x, y int) Texel {
	c := bt.img.RGBAAt(x, bt.Height()-1-y)
	return Texel{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func (bt *ByteTexture) Store(x, y int, t Texel) {
	bt.img.SetRGBA(x, bt.Height()-1-y, color.RGBA{
		R: toByte(t.R),
		G: toByte(t.G),
		B: toByte(t.B),
		A: toByte(t.A),
	})
}

func (bt *ByteTexture) Clear() {
	clear(bt.img.Pix)
}

// Image exposes the backing image without copying
func (bt *ByteTexture) Image() *image.RGBA {
	return bt.img
}

// toByte maps [0,1] to [0,255] with rounding; NaN maps to 0
func toByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}

// ToImage converts a texture to an 8-bit image with the top row first.
// Texels are assumed to be gamma encoded already; values are clamped to [0,1]
// and alpha is forced opaque.
func ToImage(tex Texture) *image.RGBA {
	width, height := tex.Width(), tex.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := tex.Load(x, y)
			img.SetRGBA(x, height-1-y, color.RGBA{
				R: toByte(t.R),
				G: toByte(t.G),
				B: toByte(t.B),
				A: 255,
			})
		}
	}

	return img
}

// FromImage fills a texture from an image with the top row first. Every
// texel receives alpha 1 so it is treated as previously written.
func FromImage(tex Texture, img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() != tex.Width() || bounds.Dy() != tex.Height() {
		return fmt.Errorf("image size %dx%d does not match texture size %dx%d",
			bounds.Dx(), bounds.Dy(), tex.Width(), tex.Height())
	}

	height := tex.Height()
	for row := 0; row < bounds.Dy(); row++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+row)).(color.RGBA)
			tex.Store(x, height-1-row, Texel{
				R: float32(c.R) / 255,
				G: float32(c.G) / 255,
				B: float32(c.B) / 255,
				A: 1,
			})
		}
	}

	return nil
}
