package transform

import (
	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Matte flattens a straight-alpha Bgra32 source onto a solid background
// color. When LinearBlend is set, each pixel is converted to linear
// light before compositing and back to companded afterward
// (the more physically correct blend for a display-referred matte color);
// otherwise the blend runs directly on companded 8-bit values, matching
// how most image libraries flatten alpha by default. When the source has
// no translucent pixels left to composite and DropAlpha is set, the
// output format is Bgr24 instead of Bgra32, the common case of matting a
// single still image (as opposed to one frame of an animation, which
// keeps alpha so later frames can still show through).
type Matte struct {
	pixel.Chained
	ColorB, ColorG, ColorR byte
	LinearBlend            bool
	DropAlpha              bool

	gamma *convert.Interpolating
}

// NewMatte builds a Matte transform over a straight-alpha Bgra32 prev.
func NewMatte(prev pixel.Source, b, g, r byte, linearBlend, dropAlpha bool) (*Matte, error) {
	if prev.Format().ID != pixfmt.IDBgra32 {
		return nil, errs.New(errs.Unsupported, "matte: source must be straight-alpha Bgra32")
	}
	m := &Matte{
		Chained:     pixel.NewChained(prev, false),
		ColorB:      b, ColorG: g, ColorR: r,
		LinearBlend: linearBlend,
		DropAlpha:   dropAlpha,
	}
	if linearBlend {
		m.gamma = convert.NewInterpolatingSRGB()
	}
	return m, nil
}

func (m *Matte) Format() pixfmt.Format {
	if m.DropAlpha {
		return pixfmt.Lookup(pixfmt.IDBgr24)
	}
	return pixfmt.Lookup(pixfmt.IDBgra32)
}

func (m *Matte) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(m, area, stride, buf); err != nil {
		return err
	}
	srcLineBytes := m.Prev.Format().LineBytes(area.W)
	src := make([]byte, srcLineBytes)

	outBpp := m.Format().BytesPerPixel()
	for row := 0; row < area.H; row++ {
		if err := m.pullUpstreamRow(area, row, src); err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+area.W*outBpp]
		for x := 0; x < area.W; x++ {
			so := x * 4
			sb, sg, sr, sa := src[so+0], src[so+1], src[so+2], src[so+3]
			var ob, og, or_ byte
			if sa == 255 {
				ob, og, or_ = sb, sg, sr
			} else if sa == 0 {
				ob, og, or_ = m.ColorB, m.ColorG, m.ColorR
			} else if m.LinearBlend {
				ob, og, or_ = m.blendLinear(sb, sg, sr, sa)
			} else {
				ob, og, or_ = blendCompanded(sb, sg, sr, sa, m.ColorB, m.ColorG, m.ColorR)
			}
			do := x * outBpp
			dst[do+0], dst[do+1], dst[do+2] = ob, og, or_
			if !m.DropAlpha {
				dst[do+3] = 255
			}
		}
	}
	return nil
}

func (m *Matte) pullUpstreamRow(area pixfmt.Area, row int, dst []byte) error {
	return m.Prev.CopyPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, len(dst), dst)
}

// blendCompanded alpha-flattens one pixel directly on companded 8-bit
// values: out = round(src*a/255 + bg*(255-a)/255).
func blendCompanded(sb, sg, sr, sa, bb, bg, br byte) (b, g, r byte) {
	a := uint32(sa)
	inv := 255 - a
	mix := func(s, c byte) byte {
		return convert.Clip8b(int((uint32(s)*a + uint32(c)*inv + 127) / 255))
	}
	return mix(sb, bb), mix(sg, bg), mix(sr, br)
}

// blendLinear alpha-flattens one pixel in linear light: convert source and
// background to linear, blend, convert back to companded.
func (m *Matte) blendLinear(sb, sg, sr, sa byte) (b, g, r byte) {
	a := float32(sa) / 255
	inv := 1 - a
	bb := m.gamma.ToLinearSample(sb)*a + m.gamma.ToLinearSample(m.ColorB)*inv
	gg := m.gamma.ToLinearSample(sg)*a + m.gamma.ToLinearSample(m.ColorG)*inv
	rr := m.gamma.ToLinearSample(sr)*a + m.gamma.ToLinearSample(m.ColorR)*inv
	return m.gamma.ToCompandedSample(bb), m.gamma.ToCompandedSample(gg), m.gamma.ToCompandedSample(rr)
}
