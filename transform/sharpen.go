package transform

import (
	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/internal/resample"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Sharpen applies unsharp-mask sharpening after resample:
// a Gaussian-blurred luma copy is subtracted from the original,
// and the scaled difference is added back to the luma wherever it clears
// the noise threshold. It operates on a single-channel Y/Grey working
// plane directly; for an interleaved Bgr working source it derives a
// luma plane, sharpens that, and adds the resulting delta equally to each
// color channel. Sharpening only luma avoids chroma fringing; the
// non-planar path still sharpens by luma, it just has to compute one
// first.
//
// Like Resize, Sharpen streams: the separable Gaussian's vertical pass
// needs only the kernel's height of horizontally-blurred luma rows at a
// time, so the transform keeps a ring of those (plus the matching raw
// rows) instead of buffering the whole frame. Rows may be requested in
// any order; the ring refills on a miss.
type Sharpen struct {
	pixel.Chained
	sigma             float64
	amount, threshold float32

	kernel []float32
	radius int

	// Ring of decoded rows keyed by source row number modulo the ring
	// size (the kernel height): raw holds the full working-format row,
	// luma its unblurred luma, hblur its horizontally blurred luma.
	// tags[i] is the source row currently in slot i, or -1.
	raw   [][]float32
	luma  [][]float32
	hblur [][]float32
	tags  []int

	srcRow []byte
	vblur  []float32 // one vertically blurred luma row
	outRow []float32 // one full-width composed output row
}

// NewSharpen builds a Sharpen transform over a Float working-format prev.
// amount <= 0 makes Sharpen a passthrough.
func NewSharpen(prev pixel.Source, sigma float64, amount, threshold float32) (*Sharpen, error) {
	if !prev.Format().IsFloat() {
		return nil, errs.New(errs.Unsupported, "sharpen: source must be a Float working format")
	}
	s := &Sharpen{
		Chained:   pixel.NewChained(prev, false),
		sigma:     sigma,
		amount:    amount,
		threshold: threshold,
	}
	if amount <= 0 {
		return s, nil
	}

	s.kernel = resample.GaussianWeights1D(sigma)
	s.radius = len(s.kernel) / 2

	w := prev.Width()
	ch := prev.Format().Channels
	ringSize := len(s.kernel)
	s.raw = make([][]float32, ringSize)
	s.luma = make([][]float32, ringSize)
	s.hblur = make([][]float32, ringSize)
	s.tags = make([]int, ringSize)
	for i := 0; i < ringSize; i++ {
		s.raw[i] = make([]float32, w*ch)
		s.luma[i] = make([]float32, w)
		s.hblur[i] = make([]float32, w)
		s.tags[i] = -1
	}
	s.srcRow = make([]byte, prev.Format().LineBytes(w))
	s.vblur = make([]float32, w)
	s.outRow = make([]float32, w*ch)
	return s, nil
}

func (s *Sharpen) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(s, area, stride, buf); err != nil {
		return err
	}
	if s.amount <= 0 {
		return s.Prev.CopyPixels(area, stride, buf)
	}

	w, h := s.Width(), s.Height()
	ch := s.Format().Channels
	lineBytes := s.Format().LineBytes(area.W)

	for row := 0; row < area.H; row++ {
		y := area.Y + row

		for x := 0; x < w; x++ {
			s.vblur[x] = 0
		}
		for j, kw := range s.kernel {
			sy := y + j - s.radius
			if sy < 0 {
				sy = 0
			} else if sy >= h {
				sy = h - 1
			}
			slot, err := s.fetch(sy)
			if err != nil {
				return err
			}
			hb := s.hblur[slot]
			for x := 0; x < w; x++ {
				s.vblur[x] += hb[x] * kw
			}
		}

		slot, err := s.fetch(y)
		if err != nil {
			return err
		}
		s.composeRow(s.raw[slot], s.luma[slot], w, ch)

		dst := convert.AsFloat32(buf[row*stride : row*stride+lineBytes])
		copy(dst, s.outRow[area.X*ch:(area.X+area.W)*ch])
	}
	return nil
}

// fetch returns the ring slot holding source row sy, pulling and
// preprocessing it (luma derivation plus horizontal blur) on a miss.
func (s *Sharpen) fetch(sy int) (int, error) {
	slot := sy % len(s.tags)
	if s.tags[slot] == sy {
		return slot, nil
	}
	w := s.Width()
	ch := s.Format().Channels
	if err := s.Prev.CopyPixels(pixfmt.Area{X: 0, Y: sy, W: w, H: 1}, len(s.srcRow), s.srcRow); err != nil {
		return 0, errs.Wrap(errs.InvalidArgument, err, "sharpen: source row pull")
	}
	copy(s.raw[slot], convert.AsFloat32(s.srcRow))

	if ch == 1 {
		copy(s.luma[slot], s.raw[slot])
	} else {
		raw := s.raw[slot]
		lum := s.luma[slot]
		for x := 0; x < w; x++ {
			b, g, r := raw[x*ch+0], raw[x*ch+1], raw[x*ch+2]
			lum[x] = 0.114*b + 0.587*g + 0.299*r
		}
	}
	resample.BlurRow(s.luma[slot], s.hblur[slot], w, s.kernel)
	s.tags[slot] = sy
	return slot, nil
}

// composeRow writes one output row: the luma delta that clears the
// threshold, scaled by amount, added to each color channel (alpha, when
// present, passes through).
func (s *Sharpen) composeRow(raw, luma []float32, w, ch int) {
	colors := ch
	if colors > 3 {
		colors = 3
	}
	for x := 0; x < w; x++ {
		l := luma[x]
		diff := l - s.vblur[x]
		var delta float32
		ad := diff
		if ad < 0 {
			ad = -ad
		}
		if ad >= s.threshold {
			delta = convert.ClipFloat01(l+diff*s.amount) - l
		}
		for c := 0; c < colors; c++ {
			s.outRow[x*ch+c] = convert.ClipFloat01(raw[x*ch+c] + delta)
		}
		if ch == 4 {
			s.outRow[x*ch+3] = raw[x*ch+3]
		}
	}
}
