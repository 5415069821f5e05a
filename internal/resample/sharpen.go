package resample

import "math"

// Unsharp-mask sharpening runs after the high-quality resample: a
// Gaussian-blurred copy of the luma channel is subtracted from the
// original, and the scaled difference is added back wherever it exceeds a
// noise threshold, so resampling's inherent slight softening is corrected
// without amplifying sensor/compression noise in flat regions.

// GaussianWeights1D returns a normalized, symmetric 1-D Gaussian kernel
// with the given standard deviation, truncated at 3 sigma.
func GaussianWeights1D(sigma float64) []float32 {
	radius := int(math.Ceil(sigma * 3))
	if radius < 1 {
		radius = 1
	}
	n := 2*radius + 1
	w := make([]float32, n)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		w[i+radius] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range w {
		w[i] *= inv
	}
	return w
}

// BlurRow convolves one row of n samples with a symmetric kernel,
// clamping at the edges (replicating the boundary sample rather than
// reading out of bounds).
func BlurRow(src []float32, dst []float32, n int, kernel []float32) {
	radius := len(kernel) / 2
	for i := 0; i < n; i++ {
		var acc float32
		for k, w := range kernel {
			si := i + k - radius
			if si < 0 {
				si = 0
			} else if si >= n {
				si = n - 1
			}
			acc += src[si] * w
		}
		dst[i] = acc
	}
}

// UnsharpMask applies in-place sharpening to a single-channel (luma)
// plane of w*h float32 samples in [0,1]. amount scales the high-frequency
// correction (0 disables sharpening); threshold suppresses correction
// below that absolute difference so uniform noise isn't amplified.
func UnsharpMask(plane []float32, w, h int, sigma float64, amount, threshold float32) {
	if amount <= 0 {
		return
	}
	kernel := GaussianWeights1D(sigma)

	tmp := make([]float32, w*h)
	row := make([]float32, w)
	for y := 0; y < h; y++ {
		BlurRow(plane[y*w:y*w+w], row, w, kernel)
		copy(tmp[y*w:y*w+w], row)
	}
	col := make([]float32, h)
	colOut := make([]float32, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = tmp[y*w+x]
		}
		BlurRow(col, colOut, h, kernel)
		for y := 0; y < h; y++ {
			tmp[y*w+x] = colOut[y]
		}
	}

	for i, v := range plane {
		diff := v - tmp[i]
		if diff < 0 {
			if -diff < threshold {
				continue
			}
		} else if diff < threshold {
			continue
		}
		out := v + diff*amount
		if out < 0 {
			out = 0
		} else if out > 1 {
			out = 1
		}
		plane[i] = out
	}
}
