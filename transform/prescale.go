package transform

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/internal/resample"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// HybridPrescale collapses an integer power-of-two portion of a large
// downscale with the streaming box filter before the high-quality kernel
// runs on the remainder. It only accepts 8-bit-per-channel unsigned
// formats; wider working formats never see the pre-scaler, which exists
// to cheaply discard redundant source samples, not to contribute
// fractional precision.
//
// The box accumulator is strictly sequential over source rows, so the
// pre-scaled plane is materialized on the first pull rather than
// recomputed for arbitrary row queries. That buffer is at most the
// pre-scale output size, bounded by the final output dimensions (times
// the residual ratio, < 2 per axis), not by the source.
type HybridPrescale struct {
	pixel.Chained
	ratio      int
	dstW, dstH int
	out        []byte
	stride     int
}

// NewHybridPrescale builds the pre-scaler reducing prev by ratio (a
// power of two >= 2) on both axes, rounding the reduced dimensions up so
// edge pixels are never dropped.
func NewHybridPrescale(prev pixel.Source, ratio int) (*HybridPrescale, error) {
	f := prev.Format()
	if f.Numeric != pixfmt.UnsignedInt || f.Channels == 0 || f.BitsPerPixel/f.Channels != 8 {
		return nil, errs.New(errs.Unsupported, "prescale: source must be an 8-bit-per-channel format")
	}
	if ratio < 2 || ratio&(ratio-1) != 0 {
		return nil, errs.New(errs.InvalidArgument, "prescale: ratio must be a power of two >= 2")
	}
	dstW := pixfmt.DivCeil(prev.Width(), ratio)
	dstH := pixfmt.DivCeil(prev.Height(), ratio)
	return &HybridPrescale{
		Chained: pixel.NewChained(prev, false),
		ratio:   ratio,
		dstW:    dstW, dstH: dstH,
		stride: f.LineBytes(dstW),
	}, nil
}

func (h *HybridPrescale) Width() int  { return h.dstW }
func (h *HybridPrescale) Height() int { return h.dstH }

func (h *HybridPrescale) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(h, area, stride, buf); err != nil {
		return err
	}
	if h.out == nil {
		if err := h.build(); err != nil {
			return err
		}
	}
	bpp := h.Format().BytesPerPixel()
	lineBytes := h.Format().LineBytes(area.W)
	for row := 0; row < area.H; row++ {
		src := h.out[(area.Y+row)*h.stride+area.X*bpp:]
		copy(buf[row*stride:row*stride+lineBytes], src[:lineBytes])
	}
	return nil
}

// build streams the whole upstream through one BoxPrescaler per channel,
// de-interleaving each source row and re-interleaving each exported row.
func (h *HybridPrescale) build() error {
	srcW, srcH := h.Prev.Width(), h.Prev.Height()
	ch := h.Format().Channels
	srcLine := h.Prev.Format().LineBytes(srcW)
	rowBuf := make([]byte, srcLine)

	scalers := make([]*resample.BoxPrescaler, ch)
	chRow := make([][]byte, ch)
	chDst := make([][]byte, ch)
	for c := 0; c < ch; c++ {
		scalers[c] = resample.NewBoxPrescaler(srcW, h.dstW, srcH, h.dstH)
		chRow[c] = make([]byte, srcW)
		chDst[c] = make([]byte, h.dstW)
	}

	h.out = make([]byte, h.dstH*h.stride)
	dy := 0
	for y := 0; y < srcH; y++ {
		if err := h.Prev.CopyPixels(pixfmt.Area{X: 0, Y: y, W: srcW, H: 1}, srcLine, rowBuf); err != nil {
			return errs.Wrap(errs.InvalidArgument, err, "prescale: source row pull")
		}
		for x := 0; x < srcW; x++ {
			for c := 0; c < ch; c++ {
				chRow[c][x] = rowBuf[x*ch+c]
			}
		}
		for c := 0; c < ch; c++ {
			scalers[c].ImportRow(chRow[c])
		}
		for dy < h.dstH && !scalers[0].NeedsSrcRow() {
			exported := true
			for c := 0; c < ch; c++ {
				if !scalers[c].ExportRow(chDst[c]) {
					exported = false
					break
				}
			}
			if !exported {
				break
			}
			dst := h.out[dy*h.stride : dy*h.stride+h.stride]
			for x := 0; x < h.dstW; x++ {
				for c := 0; c < ch; c++ {
					dst[x*ch+c] = chDst[c][x]
				}
			}
			dy++
		}
	}
	return nil
}
