package pixfmt

import "fmt"

// Area is a non-negative pixel rectangle, always interpreted relative to
// the dimensions of the PixelSource that owns it.
type Area struct {
	X, Y, W, H int
}

// Contains reports whether a is fully inside the [0,w)x[0,h) bounds.
func (a Area) Contains(w, h int) bool {
	return a.X >= 0 && a.Y >= 0 && a.W >= 0 && a.H >= 0 &&
		a.X+a.W <= w && a.Y+a.H <= h
}

// Validate checks a against source dimensions and a destination buffer,
// returning a descriptive error instead of panicking; CopyPixels rejects
// out-of-bounds areas explicitly rather than clamping.
func (a Area) Validate(srcW, srcH int, bpp, stride, bufLen int) error {
	if !a.Contains(srcW, srcH) {
		return fmt.Errorf("pixfmt: area %+v not contained in %dx%d source", a, srcW, srcH)
	}
	lineBytes := DivCeil(a.W*bpp, 8)
	if stride < lineBytes {
		return fmt.Errorf("pixfmt: stride %d smaller than line bytes %d", stride, lineBytes)
	}
	need := (a.H-1)*stride + lineBytes
	if a.H == 0 {
		need = 0
	}
	if bufLen < need {
		return fmt.Errorf("pixfmt: buffer of %d bytes too small for %d required", bufLen, need)
	}
	return nil
}

// Intersect returns the overlap of a and b. If they do not overlap the
// result has W==0 and/or H==0.
func (a Area) Intersect(b Area) Area {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.X+a.W, b.X+b.W), min(a.Y+a.H, b.Y+b.H)
	if x1 <= x0 || y1 <= y0 {
		return Area{}
	}
	return Area{x0, y0, x1 - x0, y1 - y0}
}

// Empty reports whether the area covers zero pixels.
func (a Area) Empty() bool { return a.W <= 0 || a.H <= 0 }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
