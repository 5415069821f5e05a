package transform

import (
	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/internal/resample"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Resize is the pipeline's high-quality resampling stage, run against one
// of the wide Float or FixedQ15 working formats so the separable
// convolution happens at full precision. It streams: the horizontal pass
// reads one upstream line at a time and condenses it to the output width,
// and the vertical pass keeps only a ring of those condensed lines (as
// many as the widest vertical weight window needs), so memory stays
// proportional to the output width rather than the whole frame. Rows may
// be requested in any order; the ring refills on a miss.
type Resize struct {
	pixel.Chained
	dstW     int
	dstH     int
	channels int
	q15      bool

	hw  []resample.AxisWeights
	vw  []resample.AxisWeights
	hwQ []resample.AxisWeightsQ15
	vwQ []resample.AxisWeightsQ15

	// Ring of horizontally-resampled lines, indexed by source row number
	// modulo the ring size. tags[i] holds the source row currently in
	// slot i, or -1 when the slot is empty.
	rows  [][]float32
	rowsQ [][]uint16
	tags  []int

	srcRow  []byte    // one upstream line, reused across pulls
	outF    []float32 // one full-width output line (Float path)
	outQ    []uint16  // one full-width output line (FixedQ15 path)
	window  [][]float32
	windowQ [][]uint16
}

// NewResize builds a Resize transform over a wide Float or FixedQ15
// working-format prev, targeting dstW x dstH.
func NewResize(prev pixel.Source, dstW, dstH int, kernel resample.Kernel) (*Resize, error) {
	f := prev.Format()
	if !f.IsFloat() && f.Numeric != pixfmt.FixedQ15 {
		return nil, errs.New(errs.Unsupported, "resize: source must be a Float or FixedQ15 working format")
	}
	if dstW <= 0 || dstH <= 0 {
		return nil, errs.New(errs.InvalidArgument, "resize: destination dimensions must be positive")
	}

	r := &Resize{
		Chained:  pixel.NewChained(prev, false),
		dstW:     dstW,
		dstH:     dstH,
		channels: f.Channels,
		q15:      f.Numeric == pixfmt.FixedQ15,
		srcRow:   make([]byte, f.LineBytes(prev.Width())),
	}

	ringSize := 1
	if r.q15 {
		r.hwQ = resample.BuildWeightsQ15(prev.Width(), dstW, kernel)
		r.vwQ = resample.BuildWeightsQ15(prev.Height(), dstH, kernel)
		for _, aw := range r.vwQ {
			if len(aw.Weights) > ringSize {
				ringSize = len(aw.Weights)
			}
		}
		r.rowsQ = make([][]uint16, ringSize)
		for i := range r.rowsQ {
			r.rowsQ[i] = make([]uint16, dstW*r.channels)
		}
		r.outQ = make([]uint16, dstW*r.channels)
		r.windowQ = make([][]uint16, 0, ringSize)
	} else {
		r.hw = resample.BuildWeights(prev.Width(), dstW, kernel)
		r.vw = resample.BuildWeights(prev.Height(), dstH, kernel)
		if m := resample.MaxSupport(r.vw); m > ringSize {
			ringSize = m
		}
		r.rows = make([][]float32, ringSize)
		for i := range r.rows {
			r.rows[i] = make([]float32, dstW*r.channels)
		}
		r.outF = make([]float32, dstW*r.channels)
		r.window = make([][]float32, 0, ringSize)
	}
	r.tags = make([]int, ringSize)
	for i := range r.tags {
		r.tags[i] = -1
	}
	return r, nil
}

func (r *Resize) Width() int  { return r.dstW }
func (r *Resize) Height() int { return r.dstH }

func (r *Resize) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(r, area, stride, buf); err != nil {
		return err
	}
	lineBytes := r.Format().LineBytes(area.W)
	ch := r.channels

	if r.q15 {
		for row := 0; row < area.H; row++ {
			aw := r.vwQ[area.Y+row]
			r.windowQ = r.windowQ[:0]
			for j := range aw.Weights {
				line, err := r.fetchRowQ15(aw.Left + j)
				if err != nil {
					return err
				}
				r.windowQ = append(r.windowQ, line)
			}
			resample.ResampleVerticalQ15(r.windowQ, r.outQ, aw, r.dstW, ch)
			dst := convert.AsUint16(buf[row*stride : row*stride+lineBytes])
			copy(dst, r.outQ[area.X*ch:(area.X+area.W)*ch])
		}
		return nil
	}

	for row := 0; row < area.H; row++ {
		aw := r.vw[area.Y+row]
		r.window = r.window[:0]
		for j := range aw.Weights {
			line, err := r.fetchRow(aw.Left + j)
			if err != nil {
				return err
			}
			r.window = append(r.window, line)
		}
		resample.ResampleVertical(r.window, r.outF, aw, r.dstW, ch)
		dst := convert.AsFloat32(buf[row*stride : row*stride+lineBytes])
		copy(dst, r.outF[area.X*ch:(area.X+area.W)*ch])
	}
	return nil
}

// fetchRow returns source row sy horizontally resampled to the output
// width, pulling it from upstream only when the ring doesn't already hold
// it. Consecutive vertical windows overlap, so in the usual top-to-bottom
// traversal each source row is pulled exactly once.
func (r *Resize) fetchRow(sy int) ([]float32, error) {
	slot := sy % len(r.rows)
	if r.tags[slot] == sy {
		return r.rows[slot], nil
	}
	if err := r.pullSrcRow(sy); err != nil {
		return nil, err
	}
	resample.ResampleHorizontal(convert.AsFloat32(r.srcRow), r.rows[slot], r.hw, r.channels)
	r.tags[slot] = sy
	return r.rows[slot], nil
}

func (r *Resize) fetchRowQ15(sy int) ([]uint16, error) {
	slot := sy % len(r.rowsQ)
	if r.tags[slot] == sy {
		return r.rowsQ[slot], nil
	}
	if err := r.pullSrcRow(sy); err != nil {
		return nil, err
	}
	resample.ResampleHorizontalQ15(convert.AsUint16(r.srcRow), r.rowsQ[slot], r.hwQ, r.channels)
	r.tags[slot] = sy
	return r.rowsQ[slot], nil
}

func (r *Resize) pullSrcRow(sy int) error {
	srcW := r.Prev.Width()
	if err := r.Prev.CopyPixels(pixfmt.Area{X: 0, Y: sy, W: srcW, H: 1}, len(r.srcRow), r.srcRow); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "resize: source row pull")
	}
	return nil
}
