// Package yuv implements the planar YCbCr <-> interleaved RGB conversion
// transform.Merge builds on: chroma fancy-upsampling to the luma grid,
// followed by an arbitrary BT.601/709/2020 3x3 color matrix applied per
// pixel. The matrix is a runtime value inverted with gonum so any of the
// three standard matrices (or a caller-supplied one) can drive the same
// row kernels.
package yuv

import "gonum.org/v1/gonum/mat"

// Matrix is a YCbCr<->RGB color matrix pair: Forward maps (R,G,B) in
// [0,1] to (Y, Cb, Cr) with Cb/Cr in [-0.5,0.5]; Inverse is its algebraic
// inverse, computed once at construction via gonum/mat so an arbitrary
// Kr/Kb pair (not just the three standard ones) can be plugged in without
// hand-deriving the inverse coefficients.
type Matrix struct {
	Forward [3][3]float64
	Inverse [3][3]float64
}

// NewMatrix builds the standard ITU-R luma/chroma matrix for the given
// Kr/Kb luma coefficients (Kg is derived as 1 - Kr - Kb), following the
// general form used by BT.601/709/2020:
//
//	Y  =  Kr*R + Kg*G + Kb*B
//	Cb = (B-Y) / (2*(1-Kb))
//	Cr = (R-Y) / (2*(1-Kr))
func NewMatrix(kr, kb float64) Matrix {
	kg := 1 - kr - kb
	fwd := mat.NewDense(3, 3, []float64{
		kr, kg, kb,
		-kr / (2 * (1 - kb)), -kg / (2 * (1 - kb)), (1 - kb) / (2 * (1 - kb)),
		(1 - kr) / (2 * (1 - kr)), -kg / (2 * (1 - kr)), -kb / (2 * (1 - kr)),
	})
	var inv mat.Dense
	if err := inv.Inverse(fwd); err != nil {
		panic("yuv: singular color matrix: " + err.Error())
	}

	var m Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Forward[r][c] = fwd.At(r, c)
			m.Inverse[r][c] = inv.At(r, c)
		}
	}
	return m
}

// Standard color matrices. BT.601 is the default when a source doesn't
// declare one, for compatibility with the long tail of untagged JPEGs.
var (
	BT601  = NewMatrix(0.299, 0.114)
	BT709  = NewMatrix(0.2126, 0.0722)
	BT2020 = NewMatrix(0.2627, 0.0593)
)

// RGBToYCC maps a linear-light-independent (gamma-companded, as the
// matrix is always applied in companded space per convention) RGB triple
// in [0,1] to (Y, Cb, Cr) with Cb/Cr in [-0.5, 0.5].
func (m Matrix) RGBToYCC(r, g, b float64) (y, cb, cr float64) {
	f := m.Forward
	y = f[0][0]*r + f[0][1]*g + f[0][2]*b
	cb = f[1][0]*r + f[1][1]*g + f[1][2]*b
	cr = f[2][0]*r + f[2][1]*g + f[2][2]*b
	return
}

// YCCToRGB is RGBToYCC's inverse.
func (m Matrix) YCCToRGB(y, cb, cr float64) (r, g, b float64) {
	inv := m.Inverse
	r = inv[0][0]*y + inv[0][1]*cb + inv[0][2]*cr
	g = inv[1][0]*y + inv[1][1]*cb + inv[1][2]*cr
	b = inv[2][0]*y + inv[2][1]*cb + inv[2][2]*cr
	return
}
