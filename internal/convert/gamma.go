package convert

import "math"

// Interpolating LUT-based gamma conversion: a coarse table is built once
// at a fixed resolution, and conversions interpolate between neighboring
// table entries rather than evaluating pow() per sample. The table is
// built from the real sRGB transfer function and its inverse rather than
// a pure power-law approximation.
const (
	gammaTabBits = 10
	gammaTabSize = 1<<gammaTabBits + 1 // one extra entry for the right edge
)

// Interpolating holds a pair of precomputed tables mapping companded
// 8-bit samples to linear float32 and back, built once and shared by every
// gamma conversion kernel in a pipeline run.
type Interpolating struct {
	toLinear    [256]float32
	toLinearQ15 [256]uint16
	toGammaTab  [gammaTabSize]float32
}

// NewInterpolatingSRGB builds the standard sRGB companding tables.
func NewInterpolatingSRGB() *Interpolating {
	g := &Interpolating{}
	for v := 0; v < 256; v++ {
		lin := srgbToLinear(float32(v) / 255)
		g.toLinear[v] = lin
		g.toLinearQ15[v] = uint16(lin*(1<<15) + 0.5)
	}
	for i := 0; i < gammaTabSize; i++ {
		lin := float32(i) / float32(gammaTabSize-1)
		g.toGammaTab[i] = linearToSRGB(lin)
	}
	return g
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64(c+0.055)/1.055, 2.4))
}

func linearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return float32(1.055*math.Pow(float64(c), 1/2.4) - 0.055)
}

// ConvertFloat maps a companded 8-bit row to linear-light float32, one
// direct table lookup per sample (no interpolation needed going this
// direction since the source already has only 256 distinct values).
func (g *Interpolating) ConvertFloat(src []byte, dst []float32, n int) {
	for i := 0; i < n; i++ {
		dst[i] = g.toLinear[src[i]]
	}
}

// ConvertFloat3A maps 3 color channels per pixel through the companding
// table, passing the 4th (alpha) channel through unconverted: alpha is
// always linear regardless of the color channels' encoding.
func (g *Interpolating) ConvertFloat3A(src []byte, dst []float32, pixels int) {
	for i := 0; i < pixels; i++ {
		so, do := i*4, i*4
		dst[do+0] = g.toLinear[src[so+0]]
		dst[do+1] = g.toLinear[src[so+1]]
		dst[do+2] = g.toLinear[src[so+2]]
		dst[do+3] = float32(src[so+3]) / 255
	}
}

// ConvertByte maps a linear-light float32 row back to companded 8-bit,
// interpolating between the two nearest entries of the coarse gamma
// table.
func (g *Interpolating) ConvertByte(src []float32, dst []byte, n int) {
	for i := 0; i < n; i++ {
		dst[i] = narrowF32Sample(g.interpolate(ClipFloat01(src[i])))
	}
}

// ConvertByte3A is ConvertByte's 3-color-plus-passthrough-alpha variant.
func (g *Interpolating) ConvertByte3A(src []float32, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		so, do := i*4, i*4
		dst[do+0] = narrowF32Sample(g.interpolate(ClipFloat01(src[so+0])))
		dst[do+1] = narrowF32Sample(g.interpolate(ClipFloat01(src[so+1])))
		dst[do+2] = narrowF32Sample(g.interpolate(ClipFloat01(src[so+2])))
		dst[do+3] = narrowF32Sample(ClipFloat01(src[so+3]))
	}
}

// ConvertQ15 maps a companded 8-bit row to linear-light UQ15 samples,
// the fixed-point counterpart of ConvertFloat.
func (g *Interpolating) ConvertQ15(src []byte, dst []uint16, n int) {
	for i := 0; i < n; i++ {
		dst[i] = g.toLinearQ15[src[i]]
	}
}

// ConvertByteQ15 maps a linear-light UQ15 row back to companded 8-bit
// through the same interpolated coarse table ConvertByte uses.
func (g *Interpolating) ConvertByteQ15(src []uint16, dst []byte, n int) {
	for i := 0; i < n; i++ {
		dst[i] = g.ToCompandedSampleQ15(src[i])
	}
}

// ToLinearSampleQ15 maps one companded 8-bit sample to linear-light UQ15.
func (g *Interpolating) ToLinearSampleQ15(v byte) uint16 { return g.toLinearQ15[v] }

// ToCompandedSampleQ15 maps one linear-light UQ15 sample back to
// companded 8-bit.
func (g *Interpolating) ToCompandedSampleQ15(v uint16) byte {
	return narrowF32Sample(g.interpolate(ClipFloat01(float32(v) / (1 << 15))))
}

// ToLinearSample maps one companded 8-bit sample to linear light, a
// single-sample convenience wrapper around the same table ConvertFloat
// uses in bulk, for callers blending a handful of pixels (Matte) rather
// than converting a whole row.
func (g *Interpolating) ToLinearSample(v byte) float32 { return g.toLinear[v] }

// ToCompandedSample maps one linear-light sample back to companded 8-bit,
// interpolating through the coarse table exactly as ConvertByte does.
func (g *Interpolating) ToCompandedSample(v float32) byte {
	return narrowF32Sample(g.interpolate(ClipFloat01(v)))
}

func (g *Interpolating) interpolate(lin float32) float32 {
	pos := lin * float32(gammaTabSize-1)
	idx := int(pos)
	if idx >= gammaTabSize-1 {
		return g.toGammaTab[gammaTabSize-1]
	}
	frac := pos - float32(idx)
	a, b := g.toGammaTab[idx], g.toGammaTab[idx+1]
	return a + (b-a)*frac
}
