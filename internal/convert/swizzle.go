package convert

// Swizzle kernels reorder or extract byte-interleaved channels without
// changing numeric representation: BGR<->RGB channel-order swaps, 4->3
// alpha-drop extraction, and a bare alpha-channel extractor for building a
// separate alpha plane.

// SwapRB3 reverses the first and third channel of every 3-channel pixel in
// place (Bgr24<->Rgb24 and similar).
func SwapRB3(row []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		off := i * 3
		row[off], row[off+2] = row[off+2], row[off]
	}
}

// SwapRB4 reverses the first and third channel of every 4-channel pixel in
// place, leaving the 4th (alpha) channel untouched.
func SwapRB4(row []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		off := i * 4
		row[off], row[off+2] = row[off+2], row[off]
	}
}

// ExtractColor4To3 drops the 4th channel of each pixel, writing a 3-channel
// destination row.
func ExtractColor4To3(src []byte, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		so, do := i*4, i*3
		dst[do+0] = src[so+0]
		dst[do+1] = src[so+1]
		dst[do+2] = src[so+2]
	}
}

// ExtractAlpha8 pulls the alpha byte (at alphaOff within each channels-wide
// pixel) into a separate tightly packed plane.
func ExtractAlpha8(src []byte, channels, alphaOff int, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		dst[i] = src[i*channels+alphaOff]
	}
}

// InjectAlpha8 is ExtractAlpha8's inverse: writes a tightly packed alpha
// plane back into the alphaOff lane of an interleaved buffer, leaving the
// other channels untouched.
func InjectAlpha8(alpha []byte, dst []byte, channels, alphaOff, pixels int) {
	for i := 0; i < pixels; i++ {
		dst[i*channels+alphaOff] = alpha[i]
	}
}

// GreyFromColor3 converts a 3-channel interleaved row to single-channel
// grey using Rec. 601 luma weights, consistent with internal/yuv's
// default BT.601 matrix.
func GreyFromColor3(src []byte, dst []byte, pixels int, bgrOrder bool) {
	for i := 0; i < pixels; i++ {
		so := i * 3
		var r, g, b int
		if bgrOrder {
			b, g, r = int(src[so+0]), int(src[so+1]), int(src[so+2])
		} else {
			r, g, b = int(src[so+0]), int(src[so+1]), int(src[so+2])
		}
		dst[i] = Clip8b((r*19595 + g*38470 + b*7471 + 32768) >> 16)
	}
}
