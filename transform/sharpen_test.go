package transform

import (
	"testing"

	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/resample"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestSharpenZeroAmountIsPassthrough(t *testing.T) {
	src := gradientFloatSource(6, 6)
	sh, err := NewSharpen(src, 1.0, 0, 0.01)
	if err != nil {
		t.Fatalf("NewSharpen: %v", err)
	}
	out := make([]byte, 6*6*4)
	if err := sh.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 6, H: 6}, 6*4, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	got := convert.AsFloat32(out)
	want := convert.AsFloat32(src.Pix())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v (zero amount must pass through)", i, got[i], want[i])
		}
	}
}

// TestSharpenMatchesWholePlaneReference drives the streaming row-ring
// path against the resident whole-plane implementation on a grey plane;
// both clamp-replicate at the edges, so the outputs must agree exactly.
func TestSharpenMatchesWholePlaneReference(t *testing.T) {
	const w, h = 9, 7
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDGrey32Float), w, h)
	f := convert.AsFloat32(src.Pix())
	for i := range f {
		f[i] = float32((i*37)%101) / 101
	}

	const sigma, amount, threshold = 1.0, 0.8, 0.01
	want := append([]float32(nil), f...)
	resample.UnsharpMask(want, w, h, sigma, amount, threshold)

	sh, err := NewSharpen(src, sigma, amount, threshold)
	if err != nil {
		t.Fatalf("NewSharpen: %v", err)
	}
	out := make([]byte, w*h*4)
	if err := sh.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: w, H: h}, w*4, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	got := convert.AsFloat32(out)
	for i := range want {
		diff := got[i] - want[i]
		if diff < -1e-6 || diff > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSharpenPreservesConstantBgrPlane(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr96Float), 5, 5)
	f := convert.AsFloat32(src.Pix())
	for i := range f {
		f[i] = 0.5
	}
	sh, err := NewSharpen(src, 1.5, 1.0, 0.001)
	if err != nil {
		t.Fatalf("NewSharpen: %v", err)
	}
	out := make([]byte, 5*5*3*4)
	if err := sh.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 5, H: 5}, 5*3*4, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	for i, v := range convert.AsFloat32(out) {
		if v < 0.49 || v > 0.51 {
			t.Errorf("sample %d = %v, want ~0.5 on a flat plane", i, v)
		}
	}
}
