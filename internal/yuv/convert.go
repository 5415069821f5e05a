package yuv

import "github.com/Nness/PhotoSauce/internal/convert"

// Range-scaling helpers: studio/video-range Y'CbCr samples reserve
// footroom/headroom ([16,235] for luma, [16,240] for chroma, 8-bit), while
// full-range samples use the whole [0,255]. Scaling goes through the
// shared widening value tables so every consumer of a given (offset,
// scale) range pair sees identical results.
func lumaToUnit(v uint8, video bool) float64 {
	return float64(convert.WidenTableF32(video)[v])
}

func chromaToSigned(v uint8, video bool) float64 {
	return float64(convert.WidenTableF32Chroma(video)[v])
}

func unitToLuma(v float64, video bool) uint8 {
	if video {
		return convert.Clip8b(int(v*219 + 16 + 0.5))
	}
	return convert.Clip8b(int(v*255 + 0.5))
}

func signedToChroma(v float64, video bool) uint8 {
	if video {
		return convert.Clip8b(int(v*224 + 128 + 0.5))
	}
	return convert.Clip8b(int(v*255 + 128 + 0.5))
}

// YCCRowToRGB converts a row of co-sited (already upsampled to luma
// resolution) 8-bit Y/Cb/Cr samples to interleaved 8-bit RGB, applying m
// and honoring the source's nominal range.
func YCCRowToRGB(y, cb, cr []uint8, dst []byte, n int, m Matrix, video bool) {
	for i := 0; i < n; i++ {
		yy := lumaToUnit(y[i], video)
		bb := chromaToSigned(cb[i], video)
		rr := chromaToSigned(cr[i], video)
		r, g, b := m.YCCToRGB(yy, bb, rr)
		dst[i*3+0] = convert.Clip8b(int(r*255 + 0.5))
		dst[i*3+1] = convert.Clip8b(int(g*255 + 0.5))
		dst[i*3+2] = convert.Clip8b(int(b*255 + 0.5))
	}
}

// YCCRowToBGR is YCCRowToRGB with reversed channel order, avoiding a
// separate swizzle pass for the common Bgr24 working format.
func YCCRowToBGR(y, cb, cr []uint8, dst []byte, n int, m Matrix, video bool) {
	for i := 0; i < n; i++ {
		yy := lumaToUnit(y[i], video)
		bb := chromaToSigned(cb[i], video)
		rr := chromaToSigned(cr[i], video)
		r, g, b := m.YCCToRGB(yy, bb, rr)
		dst[i*3+0] = convert.Clip8b(int(b*255 + 0.5))
		dst[i*3+1] = convert.Clip8b(int(g*255 + 0.5))
		dst[i*3+2] = convert.Clip8b(int(r*255 + 0.5))
	}
}

// BGRRowToYCC is RGBRowToYCC with reversed channel order, matching the
// Bgr24 working format the merge side emits.
func BGRRowToYCC(src []byte, y, cb, cr []uint8, n int, m Matrix, video bool) {
	for i := 0; i < n; i++ {
		b := float64(src[i*3+0]) / 255
		g := float64(src[i*3+1]) / 255
		r := float64(src[i*3+2]) / 255
		yy, bb, rr := m.RGBToYCC(r, g, b)
		y[i] = unitToLuma(yy, video)
		cb[i] = signedToChroma(bb, video)
		cr[i] = signedToChroma(rr, video)
	}
}

// RGBRowToYCC converts a row of interleaved 8-bit RGB to separate Y, Cb,
// Cr byte rows at luma resolution (no subsampling; the caller's resampler
// performs any chroma downsampling afterward, since it already owns the
// separable-filter machinery that would otherwise be duplicated here).
func RGBRowToYCC(src []byte, y, cb, cr []uint8, n int, m Matrix, video bool) {
	for i := 0; i < n; i++ {
		r := float64(src[i*3+0]) / 255
		g := float64(src[i*3+1]) / 255
		b := float64(src[i*3+2]) / 255
		yy, bb, rr := m.RGBToYCC(r, g, b)
		y[i] = unitToLuma(yy, video)
		cb[i] = signedToChroma(bb, video)
		cr[i] = signedToChroma(rr, video)
	}
}
