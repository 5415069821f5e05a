package transform

// Dither supplies pseudo-random noise for the octree quantizer's
// error-diffusion-free ordered dithering, so banding doesn't appear in
// smooth gradients reduced to a small palette. The generator is Knuth's
// difference-based (lagged Fibonacci) PRNG, exposed as a plain
// integer-range ditherer the quantizer calls once per pixel.
const (
	ditherFix       = 8
	ditherTableSize = 55
)

// Dither holds the generator's state. The zero value is not usable; build
// one with NewDither.
type Dither struct {
	index1, index2 int
	tab            [ditherTableSize]uint32
	amp            int
}

var seedTable = [ditherTableSize]uint32{
	0x0de15230, 0x03b31886, 0x775faccb, 0x1c88626a, 0x68385c55, 0x14b3b828,
	0x4a85fef8, 0x49ddb84b, 0x64fcf397, 0x5c550289, 0x4a290000, 0x0d7ec1da,
	0x5940b7ab, 0x5492577d, 0x4e19ca72, 0x38d38c69, 0x0c01ee65, 0x32a1755f,
	0x5437f652, 0x5abb2c32, 0x0faa57b1, 0x73f533e7, 0x685feeda, 0x7563cce2,
	0x6e990e83, 0x4730a7ed, 0x4fc0d9c6, 0x496b153c, 0x4f1403fa, 0x541afb0c,
	0x73990b32, 0x26d7cb1c, 0x6fcc3706, 0x2cbb77d8, 0x75762f2a, 0x6425ccdd,
	0x24b35461, 0x0a7d8715, 0x220414a8, 0x141ebf67, 0x56b41583, 0x73e502e3,
	0x44cab16f, 0x28264d42, 0x73baaefb, 0x0a50ebed, 0x1d6ab6fb, 0x0d3ad40b,
	0x35db3b68, 0x2b081e83, 0x77ce6b95, 0x5181e5f0, 0x78853bbc, 0x009f9494,
	0x27e5ed3c,
}

// NewDither builds a generator with dithering strength in [0,1]; 0
// disables dithering (every call to Bits returns the 0-center value with
// no noise), 1 is full amplitude.
func NewDither(strength float32) *Dither {
	d := &Dither{tab: seedTable, index1: 0, index2: 31}
	switch {
	case strength < 0:
		d.amp = 0
	case strength > 1:
		d.amp = 1 << ditherFix
	default:
		d.amp = int(float32(1<<ditherFix) * strength)
	}
	return d
}

// Bits returns a pseudo-random value centered on 1<<(numBits-1), with
// amplitude scaled by the generator's dithering strength. A quantizer adds
// this (minus the center) to a channel's quantization error before
// thresholding against the palette.
func (d *Dither) Bits(numBits int) int {
	diff := int(d.tab[d.index1]) - int(d.tab[d.index2])
	if diff < 0 {
		diff += 1 << 31
	}
	d.tab[d.index1] = uint32(diff)
	d.index1++
	if d.index1 == ditherTableSize {
		d.index1 = 0
	}
	d.index2++
	if d.index2 == ditherTableSize {
		d.index2 = 0
	}
	diff = int(int32(uint32(diff)<<1)) >> (32 - numBits)
	diff = (diff * d.amp) >> ditherFix
	diff += 1 << (numBits - 1)
	return diff
}
