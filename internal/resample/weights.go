package resample

import "math"

// AxisWeights is the precomputed weight table for one output sample along
// one axis: Left is the first source sample index the weights apply to,
// and Weights are normalized (sum to 1) so applying them never changes
// the overall image brightness.
type AxisWeights struct {
	Left    int
	Weights []float32
}

// BuildWeights computes one AxisWeights per destination sample for
// resampling srcLen source samples to dstLen destination samples under
// kernel. When dstLen < srcLen (downscaling), the kernel's support is
// scaled up proportionally so the filter still averages over the correct
// span of source samples, the standard "minification" adjustment, without
// which a narrow-support kernel like Lanczos would alias badly on a large
// downscale.
func BuildWeights(srcLen, dstLen int, kernel Kernel) []AxisWeights {
	scale := float64(dstLen) / float64(srcLen)
	filterScale := 1.0
	if scale < 1 {
		filterScale = 1 / scale
	}
	support := kernel.Support() * filterScale

	out := make([]AxisWeights, dstLen)
	for i := range out {
		center := (float64(i) + 0.5) / scale

		// The window covers every source sample center within support of
		// the destination center; samples exactly on the support edge are
		// excluded, where every kernel has already decayed to zero.
		left := int(math.Floor(center - support + 0.5))
		right := int(math.Ceil(center+support-0.5)) - 1
		if left < 0 {
			left = 0
		}
		if right > srcLen-1 {
			right = srcLen - 1
		}
		if right < left {
			right = left
		}

		n := right - left + 1
		weights := make([]float32, n)
		var sum float64
		for j := 0; j < n; j++ {
			srcPos := float64(left+j) + 0.5
			w := kernel.Weight((center - srcPos) / filterScale)
			weights[j] = float32(w)
			sum += w
		}
		if sum != 0 {
			inv := float32(1 / sum)
			for j := range weights {
				weights[j] *= inv
			}
		}
		out[i] = AxisWeights{Left: left, Weights: weights}
	}
	return out
}

// UQ15One is the fixed-point representation of 1.0 in Q15: 15 fractional
// bits, so 1<<15.
const UQ15One = 1 << 15

// AxisWeightsQ15 is BuildWeights' fixed-point counterpart: the same
// per-destination-sample source window, but weights rounded to Q15 so a
// Q15-precision resample pass never touches a float.
type AxisWeightsQ15 struct {
	Left    int
	Weights []int32
}

// BuildWeightsQ15 computes one AxisWeightsQ15 per destination sample,
// rounding BuildWeights' float table to Q15 and folding the rounding error
// into the row's largest-magnitude weight so every row sums to exactly
// UQ15One rather than merely close to it.
func BuildWeightsQ15(srcLen, dstLen int, kernel Kernel) []AxisWeightsQ15 {
	float := BuildWeights(srcLen, dstLen, kernel)
	out := make([]AxisWeightsQ15, len(float))
	for i, aw := range float {
		weights := make([]int32, len(aw.Weights))
		var sum int32
		best, bestAbs := 0, float32(0)
		for j, w := range aw.Weights {
			q := roundQ15(w)
			weights[j] = q
			sum += q
			if a := absFloat32(w); a > bestAbs {
				bestAbs, best = a, j
			}
		}
		if len(weights) > 0 {
			weights[best] += UQ15One - sum
		}
		out[i] = AxisWeightsQ15{Left: aw.Left, Weights: weights}
	}
	return out
}

func roundQ15(w float32) int32 {
	if w >= 0 {
		return int32(w*UQ15One + 0.5)
	}
	return -int32(-w*UQ15One + 0.5)
}

func absFloat32(w float32) float32 {
	if w < 0 {
		return -w
	}
	return w
}

// MaxSupport returns the widest Weights slice across the table, used by
// callers sizing a ring buffer of source rows/columns that must stay
// resident to serve every destination sample's window.
func MaxSupport(table []AxisWeights) int {
	m := 0
	for _, w := range table {
		if len(w.Weights) > m {
			m = len(w.Weights)
		}
	}
	return m
}
