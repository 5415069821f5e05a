package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// ColorTransformProvider converts one row of linear-light RGB (or grey)
// samples from a source color space to a destination one. Real ICC
// profile parsing and perceptual-intent transform math live in the
// codec/profile adapters; here color management is a
// lookup/matrix provider the pipeline calls into, not something it
// implements: a provider is either a 3x3 primaries matrix (the common
// case, converting between well-known RGB working spaces) or an
// arbitrary caller-supplied LUT, and ColorTransform just drives whichever
// one a caller wires in.
type ColorTransformProvider interface {
	// Channels reports how many color channels (excluding any alpha lane)
	// this provider expects per pixel.
	Channels() int
	// Transform overwrites src in place, converting pixels samples of
	// Channels() consecutive floats each.
	Transform(src []float32, pixels int)
}

// MatrixTransform is a ColorTransformProvider backed by a single 3x3
// linear matrix applied to every pixel's (R,G,B) in linear light, the
// shape every non-perceptual RGB primaries conversion (e.g. sRGB
// primaries to Display P3, or vice versa) reduces to once both profiles'
// primaries matrices are known. Build it from a 3x3 in row-major order;
// gonum only comes into it if a caller needs to compose/invert matrices
// before handing one to NewMatrixTransform3x3, mirroring how internal/yuv
// derives its matrices.
type MatrixTransform struct {
	m [3][3]float32
}

// NewMatrixTransform3x3 builds a MatrixTransform from 9 row-major
// coefficients.
func NewMatrixTransform3x3(rows [3][3]float64) *MatrixTransform {
	var mt MatrixTransform
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			mt.m[r][c] = float32(rows[r][c])
		}
	}
	return &mt
}

// ComposeMatrixTransform multiplies two RGB primaries matrices (source
// in, output-space in) via gonum to build the single combined transform,
// for the common "convert from this profile's primaries to that one's"
// case without the caller hand-multiplying 3x3s.
func ComposeMatrixTransform(toXYZ, fromXYZ [3][3]float64) *MatrixTransform {
	a := mat.NewDense(3, 3, flatten(fromXYZ))
	b := mat.NewDense(3, 3, flatten(toXYZ))
	var c mat.Dense
	c.Mul(a, b)
	var rows [3][3]float64
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			rows[r][col] = c.At(r, col)
		}
	}
	return NewMatrixTransform3x3(rows)
}

func flatten(m [3][3]float64) []float64 {
	return []float64{m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2], m[2][0], m[2][1], m[2][2]}
}

func (t *MatrixTransform) Channels() int { return 3 }

func (t *MatrixTransform) Transform(src []float32, pixels int) {
	for i := 0; i < pixels; i++ {
		o := i * 3
		r, g, b := src[o+2], src[o+1], src[o+0] // stored Bgr order
		src[o+0] = t.m[2][0]*r + t.m[2][1]*g + t.m[2][2]*b
		src[o+1] = t.m[1][0]*r + t.m[1][1]*g + t.m[1][2]*b
		src[o+2] = t.m[0][0]*r + t.m[0][1]*g + t.m[0][2]*b
	}
}

// ColorTransform runs a ColorTransformProvider over a linear-light wide
// Bgr working-format source, converting when the destination
// profile differs from the working space. A nil provider makes it a
// passthrough, the case when the profile resolution lands on
// convert-to-sRGB and the working space already is sRGB primaries.
type ColorTransform struct {
	pixel.Chained
	provider ColorTransformProvider
}

// NewColorTransform builds the transform. provider may be nil.
func NewColorTransform(prev pixel.Source, provider ColorTransformProvider) (*ColorTransform, error) {
	f := prev.Format()
	if !f.IsFloat() || !f.IsLinear() {
		return nil, errs.New(errs.Unsupported, "color_transform: source must be a linear Float working format")
	}
	if provider != nil && provider.Channels() != f.Channels && !(provider.Channels() == 3 && f.Channels == 4) {
		return nil, errs.New(errs.InvalidArgument, "color_transform: provider channel count does not match source")
	}
	return &ColorTransform{Chained: pixel.NewChained(prev, provider == nil), provider: provider}, nil
}

func (c *ColorTransform) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(c, area, stride, buf); err != nil {
		return err
	}
	if c.provider == nil {
		return c.Prev.CopyPixels(area, stride, buf)
	}
	lineBytes := c.Format().LineBytes(area.W)
	ch := c.Format().Channels
	for row := 0; row < area.H; row++ {
		dst := buf[row*stride : row*stride+lineBytes]
		if err := c.pullUpstreamPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, lineBytes, dst); err != nil {
			return err
		}
		f := convert.AsFloat32(dst)
		if ch == 4 {
			c.transform3X(f, area.W)
		} else {
			c.provider.Transform(f, area.W)
		}
	}
	return nil
}

// transform3X applies a 3-channel provider to a 4-lane (3 color + 1
// padding/alpha) row by packing/unpacking through a scratch buffer, so a
// provider never needs to know about the pipeline's lane-padding
// convention.
func (c *ColorTransform) transform3X(f []float32, pixels int) {
	packed := make([]float32, pixels*3)
	for i := 0; i < pixels; i++ {
		packed[i*3+0] = f[i*4+0]
		packed[i*3+1] = f[i*4+1]
		packed[i*3+2] = f[i*4+2]
	}
	c.provider.Transform(packed, pixels)
	for i := 0; i < pixels; i++ {
		f[i*4+0] = packed[i*3+0]
		f[i*4+1] = packed[i*3+1]
		f[i*4+2] = packed[i*3+2]
	}
}

func (c *ColorTransform) pullUpstreamPixels(area pixfmt.Area, stride int, buf []byte) error {
	return c.Prev.CopyPixels(area, stride, buf)
}
