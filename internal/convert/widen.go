package convert

// Widening kernels convert 8-bit unsigned samples up to the pipeline's two
// wide working representations, Float and FixedQ15, honoring the source's
// nominal value range: Full occupies [0,255]; Video is studio-range
// [16,235] luma / [16,240] chroma; chroma samples are biased around 128.
// The float tables cover the (offset, scale) quadruple
// (0,255)/(128,255)/(16,219)/(128,224); every row kernel below is a table
// lookup plus a channel-layout loop, not a per-sample computation.
var (
	u8ToF32Full        [256]float32
	u8ToF32Video       [256]float32
	u8ToF32Chroma      [256]float32
	u8ToF32VideoChroma [256]float32
	u8ToQ15Full        [256]uint16
	u8ToQ15Video       [256]uint16
)

func init() {
	for v := 0; v < 256; v++ {
		u8ToF32Full[v] = float32(v) / 255
		u8ToF32Chroma[v] = (float32(v) - 128) / 255
		u8ToQ15Full[v] = uint16((v*0x8000 + 127) / 255)

		// Video range: clamp to the studio footroom/headroom before
		// rescaling, [16,235] for luma and [16,240] for chroma.
		vv := v
		if vv < 16 {
			vv = 16
		} else if vv > 235 {
			vv = 235
		}
		u8ToF32Video[v] = float32(vv-16) / 219
		u8ToQ15Video[v] = uint16(((vv - 16) * 0x8000 + 109) / 219)

		cc := v
		if cc < 16 {
			cc = 16
		} else if cc > 240 {
			cc = 240
		}
		u8ToF32VideoChroma[v] = (float32(cc) - 128) / 224
	}
}

// WidenTableF32 returns the 256-entry u8->float32 lookup table for the
// video (studio) range when video is set, else for the full range.
func WidenTableF32(video bool) *[256]float32 {
	if video {
		return &u8ToF32Video
	}
	return &u8ToF32Full
}

// WidenTableF32Chroma returns the 256-entry u8->float32 table for chroma
// samples, biased around 128 so the result is signed in [-0.5, 0.5] (full
// range) or [-0.5, 0.5] over the [16,240] studio excursion (video range).
func WidenTableF32Chroma(video bool) *[256]float32 {
	if video {
		return &u8ToF32VideoChroma
	}
	return &u8ToF32Chroma
}

// WidenTableQ15 returns the 256-entry u8->Q15 lookup table for the video
// (studio) range when video is set, else for the full range.
func WidenTableQ15(video bool) *[256]uint16 {
	if video {
		return &u8ToQ15Video
	}
	return &u8ToQ15Full
}

// WidenF32 converts a row of n interleaved 8-bit channels into float32,
// one table lookup per sample. The "plain" variant: every channel in the
// row is widened identically (no alpha, no unused filler channel).
func WidenF32(src []byte, dst []float32, n int, video bool) {
	tab := WidenTableF32(video)
	for i := 0; i < n; i++ {
		dst[i] = tab[src[i]]
	}
}

// WidenF32_3A widens 3 color channels per pixel with the table and copies
// the 4th (alpha) channel through the Full-range table regardless of video,
// since alpha is never studio-range.
func WidenF32_3A(src []byte, dst []float32, pixels int, video bool) {
	tab := WidenTableF32(video)
	full := WidenTableF32(false)
	for i := 0; i < pixels; i++ {
		so, do := i*4, i*4
		dst[do+0] = tab[src[so+0]]
		dst[do+1] = tab[src[so+1]]
		dst[do+2] = tab[src[so+2]]
		dst[do+3] = full[src[so+3]]
	}
}

// WidenQ15 is WidenF32's FixedQ15 counterpart.
func WidenQ15(src []byte, dst []uint16, n int, video bool) {
	tab := WidenTableQ15(video)
	for i := 0; i < n; i++ {
		dst[i] = tab[src[i]]
	}
}

// WidenQ15_3A is WidenF32_3A's FixedQ15 counterpart.
func WidenQ15_3A(src []byte, dst []uint16, pixels int, video bool) {
	tab := WidenTableQ15(video)
	full := WidenTableQ15(false)
	for i := 0; i < pixels; i++ {
		so, do := i*4, i*4
		dst[do+0] = tab[src[so+0]]
		dst[do+1] = tab[src[so+1]]
		dst[do+2] = tab[src[so+2]]
		dst[do+3] = full[src[so+3]]
	}
}
