package resample

// Separable resampling: a horizontal pass condenses each source row to
// dstW samples per channel, then a vertical pass condenses dstH such rows
// down to the final output. Both passes reuse the same AxisWeights
// machinery from weights.go. Data is float32, channels-interleaved,
// matching the pipeline's wide working format, so intermediate rounding
// doesn't compound across the two passes.

// ResampleHorizontal applies hw (one AxisWeights per destination column)
// to one source row of srcW pixels * channels floats, writing
// len(hw)*channels floats to dst.
func ResampleHorizontal(src []float32, dst []float32, hw []AxisWeights, channels int) {
	for x, aw := range hw {
		do := x * channels
		for c := 0; c < channels; c++ {
			var acc float32
			for j, w := range aw.Weights {
				acc += src[(aw.Left+j)*channels+c] * w
			}
			dst[do+c] = acc
		}
	}
}

// ResampleVertical applies one destination row's AxisWeights across a
// window of source rows (rows[0] corresponds to source row aw.Left), each
// rowW*channels floats wide, writing rowW*channels floats to dst.
func ResampleVertical(rows [][]float32, dst []float32, aw AxisWeights, rowW, channels int) {
	n := rowW * channels
	for i := 0; i < n; i++ {
		dst[i] = 0
	}
	for j, w := range aw.Weights {
		row := rows[j]
		for i := 0; i < n; i++ {
			dst[i] += row[i] * w
		}
	}
}

// ResampleHorizontalQ15 is ResampleHorizontal's Q15 counterpart: taps
// accumulate in a 64-bit signed integer (a Q15 sample times a Q15 weight
// already needs more than 32 bits of headroom once more than a handful of
// taps are summed), with a single add of UQ15One/2 and a rounding shift at
// the end rather than per tap.
func ResampleHorizontalQ15(src []uint16, dst []uint16, hw []AxisWeightsQ15, channels int) {
	for x, aw := range hw {
		do := x * channels
		for c := 0; c < channels; c++ {
			var acc int64
			for j, w := range aw.Weights {
				acc += int64(src[(aw.Left+j)*channels+c]) * int64(w)
			}
			dst[do+c] = clampQ15((acc + UQ15One/2) >> 15)
		}
	}
}

// ResampleVerticalQ15 is ResampleVertical's Q15 counterpart.
func ResampleVerticalQ15(rows [][]uint16, dst []uint16, aw AxisWeightsQ15, rowW, channels int) {
	n := rowW * channels
	acc := make([]int64, n)
	for j, w := range aw.Weights {
		row := rows[j]
		for i := 0; i < n; i++ {
			acc[i] += int64(row[i]) * int64(w)
		}
	}
	for i := 0; i < n; i++ {
		dst[i] = clampQ15((acc[i] + UQ15One/2) >> 15)
	}
}

func clampQ15(v int64) uint16 {
	if v < 0 {
		return 0
	}
	if v > UQ15One {
		return UQ15One
	}
	return uint16(v)
}

// Separable2D holds the precomputed horizontal and vertical weight tables
// for a single resize operation and exposes a whole-plane convenience
// entry point for callers (such as tests) that have the entire source
// plane resident rather than streaming it row by row through a pipeline
// stage.
type Separable2D struct {
	SrcW, SrcH int
	DstW, DstH int
	Channels   int
	HWeights   []AxisWeights
	VWeights   []AxisWeights
}

// NewSeparable2D builds the weight tables for resizing an srcW x srcH
// image with the given channel count to dstW x dstH using kernel on both
// axes.
func NewSeparable2D(srcW, srcH, dstW, dstH, channels int, kernel Kernel) *Separable2D {
	return &Separable2D{
		SrcW: srcW, SrcH: srcH,
		DstW: dstW, DstH: dstH,
		Channels: channels,
		HWeights: BuildWeights(srcW, dstW, kernel),
		VWeights: BuildWeights(srcH, dstH, kernel),
	}
}

// Resample runs both passes over a fully resident plane (src has
// SrcH rows of SrcW*Channels floats; dst receives DstH rows of
// DstW*Channels floats). It is not the pipeline's streaming code path
// (transform.Resize drives ResampleHorizontal/ResampleVertical row by row
// against a bounded ring buffer instead), but it is the straightforward
// reference used by tests to check weight-table correctness end to end.
func (s *Separable2D) Resample(src [][]float32, dst [][]float32) {
	horiz := make([][]float32, s.SrcH)
	for y := 0; y < s.SrcH; y++ {
		row := make([]float32, s.DstW*s.Channels)
		ResampleHorizontal(src[y], row, s.HWeights, s.Channels)
		horiz[y] = row
	}
	for y, aw := range s.VWeights {
		window := horiz[aw.Left : aw.Left+len(aw.Weights)]
		ResampleVertical(window, dst[y], aw, s.DstW, s.Channels)
	}
}
