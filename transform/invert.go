package transform

import (
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Invert inverts every sample of every channel (255-v for 8-bit formats).
// Its only sanctioned use in this pipeline is the known-buggy-decoder
// workaround: some JPEG CMYK decoders emit Adobe-inverted CMYK samples
// when the frame's declared width doesn't
// match its crop width. The builder only inserts this transform when the
// decoder adapter explicitly advertises that bug via a capability flag,
// never unconditionally.
type Invert struct {
	pixel.Chained
}

// NewInvert builds an Invert transform over an 8-bit-per-channel prev.
func NewInvert(prev pixel.Source) *Invert {
	return &Invert{Chained: pixel.NewChained(prev, false)}
}

func (v *Invert) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(v, area, stride, buf); err != nil {
		return err
	}
	lineBytes := v.Format().LineBytes(area.W)
	for row := 0; row < area.H; row++ {
		dst := buf[row*stride : row*stride+lineBytes]
		if err := v.pullUpstreamRow(area, row, dst); err != nil {
			return err
		}
		for i := range dst {
			dst[i] = 255 - dst[i]
		}
	}
	return nil
}

func (v *Invert) pullUpstreamRow(area pixfmt.Area, row int, dst []byte) error {
	return v.Prev.CopyPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, len(dst), dst)
}
