package yuv

// Fancy chroma upsampling: a diamond-shaped 4-tap kernel in plain byte
// arithmetic (packing both chroma channels into one uint32 add only pays
// for itself with SIMD-width lanes, which this scalar reference kernel
// doesn't need).
//
// Given a 2x2 chroma block [tl t / l cur] this produces four chroma values
// aligned 1:1 with a 2x2 luma block:
//
//	topLeft  = (9*tl + 3*t + 3*l +   cur + 8) / 16
//	topRight = (3*tl + 9*t +   l + 3*cur + 8) / 16
//	botLeft  = (3*tl +   t + 9*l + 3*cur + 8) / 16
//	botRight = (  tl + 3*t + 3*l + 9*cur + 8) / 16

func diamond(tl, t, l, cur int, w1, w2, w3, w4 int) uint8 {
	v := (w1*tl + w2*t + w3*l + w4*cur + 8) >> 4
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// UpsampleChromaPair upsamples one row-pair of chroma samples (half
// resolution on both axes, as in 4:2:0) to two full-resolution rows
// aligned with a luma row pair. topU/topV/botU/botV have len = (width+1)/2;
// outTopU/outTopV/outBotU/outBotV have len = width. botU/botV/outBot* may
// be the same slices as the top ones (nil-safe only in that degenerate
// single-row case is not supported; callers replicate the last chroma row
// for an odd-height image instead).
func UpsampleChromaPair(topU, topV, botU, botV []uint8, outTopU, outTopV, outBotU, outBotV []uint8, width int) {
	if width <= 0 {
		return
	}
	lastPair := (width - 1) >> 1

	tlU, tlV := topU[0], topV[0]
	lU, lV := botU[0], botV[0]

	outTopU[0] = diamond(int(tlU), int(tlU), int(lU), int(lU), 12, 0, 4, 0)
	outTopV[0] = diamond(int(tlV), int(tlV), int(lV), int(lV), 12, 0, 4, 0)
	outBotU[0] = diamond(int(lU), int(lU), int(tlU), int(tlU), 12, 0, 4, 0)
	outBotV[0] = diamond(int(lV), int(lV), int(tlV), int(tlV), 12, 0, 4, 0)

	for x := 1; x <= lastPair; x++ {
		tU, tV := topU[x], topV[x]
		cU, cV := botU[x], botV[x]

		outTopU[2*x-1] = diamond(int(tlU), int(tU), int(lU), int(cU), 9, 3, 3, 1)
		outTopV[2*x-1] = diamond(int(tlV), int(tV), int(lV), int(cV), 9, 3, 3, 1)
		outTopU[2*x] = diamond(int(tU), int(tlU), int(cU), int(lU), 9, 3, 3, 1)
		outTopV[2*x] = diamond(int(tV), int(tlV), int(cV), int(lV), 9, 3, 3, 1)

		outBotU[2*x-1] = diamond(int(lU), int(cU), int(tlU), int(tU), 9, 3, 3, 1)
		outBotV[2*x-1] = diamond(int(lV), int(cV), int(tlV), int(tV), 9, 3, 3, 1)
		outBotU[2*x] = diamond(int(cU), int(lU), int(tU), int(tlU), 9, 3, 3, 1)
		outBotV[2*x] = diamond(int(cV), int(lV), int(tV), int(tlV), 9, 3, 3, 1)

		tlU, tlV = tU, tV
		lU, lV = cU, cV
	}

	if width&1 == 0 {
		last := width - 1
		outTopU[last] = diamond(int(tlU), int(tlU), int(lU), int(lU), 12, 0, 4, 0)
		outTopV[last] = diamond(int(tlV), int(tlV), int(lV), int(lV), 12, 0, 4, 0)
		outBotU[last] = diamond(int(lU), int(lU), int(tlU), int(tlU), 12, 0, 4, 0)
		outBotV[last] = diamond(int(lV), int(lV), int(tlV), int(tlV), 12, 0, 4, 0)
	}
}

// PointSampleChromaRow is the point-sampling (nearest-neighbor) chroma
// upsample used when the pipeline's quality setting asks for the cheapest
// possible chroma reconstruction instead of the diamond kernel.
func PointSampleChromaRow(u, v []uint8, outU, outV []uint8, width int) {
	for x := 0; x < width; x++ {
		cx := x >> 1
		outU[x] = u[cx]
		outV[x] = v[cx]
	}
}
