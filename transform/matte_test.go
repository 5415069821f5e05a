package transform

import (
	"testing"

	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestMatteCompandedBlend(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgra32), 3, 1)
	copy(src.Pix(), []byte{
		10, 20, 30, 255, // opaque: passes through
		0, 0, 0, 0, // transparent: becomes matte color
		200, 100, 50, 128, // translucent: blends
	})
	m, err := NewMatte(src, 255, 255, 255, false, false)
	if err != nil {
		t.Fatalf("NewMatte: %v", err)
	}
	if m.Format().ID != pixfmt.IDBgra32 {
		t.Fatalf("format = %v, want Bgra32 (DropAlpha false)", m.Format().ID)
	}
	out := make([]byte, 3*4)
	if err := m.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 3, H: 1}, 12, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	if out[0] != 10 || out[1] != 20 || out[2] != 30 || out[3] != 255 {
		t.Errorf("opaque pixel = %v, want [10 20 30 255]", out[0:4])
	}
	if out[4] != 255 || out[5] != 255 || out[6] != 255 || out[7] != 255 {
		t.Errorf("transparent pixel = %v, want matte color [255 255 255 255]", out[4:8])
	}
	// Translucent blend: out = round(src*a/255 + bg*(255-a)/255).
	wantB := byte((uint32(200)*128 + uint32(255)*127 + 127) / 255)
	wantG := byte((uint32(100)*128 + uint32(255)*127 + 127) / 255)
	wantR := byte((uint32(50)*128 + uint32(255)*127 + 127) / 255)
	if out[8] != wantB || out[9] != wantG || out[10] != wantR || out[11] != 255 {
		t.Errorf("blended pixel = %v, want [%d %d %d 255]", out[8:12], wantB, wantG, wantR)
	}
}

func TestMatteDropAlphaNarrowsToBgr24(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgra32), 1, 1)
	copy(src.Pix(), []byte{10, 20, 30, 255})
	m, err := NewMatte(src, 0, 0, 0, false, true)
	if err != nil {
		t.Fatalf("NewMatte: %v", err)
	}
	if m.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24", m.Format().ID)
	}
	out := make([]byte, 3)
	if err := m.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 1, H: 1}, 3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	if out[0] != 10 || out[1] != 20 || out[2] != 30 {
		t.Errorf("pixel = %v, want [10 20 30]", out)
	}
}

func TestMatteLinearBlendAgreesApproximatelyWithCompanded(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgra32), 1, 1)
	copy(src.Pix(), []byte{200, 100, 50, 128})
	companded, err := NewMatte(src, 255, 255, 255, false, false)
	if err != nil {
		t.Fatalf("NewMatte: %v", err)
	}
	linear, err := NewMatte(src, 255, 255, 255, true, false)
	if err != nil {
		t.Fatalf("NewMatte: %v", err)
	}
	cOut := make([]byte, 4)
	lOut := make([]byte, 4)
	if err := companded.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 1, H: 1}, 4, cOut); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	if err := linear.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 1, H: 1}, 4, lOut); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	for i := 0; i < 3; i++ {
		diff := int(cOut[i]) - int(lOut[i])
		if diff < -40 || diff > 40 {
			t.Errorf("channel %d: companded=%d linear=%d, too far apart for the same blend", i, cOut[i], lOut[i])
		}
	}
}

func TestNewMatteRejectsNonBgra32Source(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 1, 1)
	if _, err := NewMatte(src, 0, 0, 0, false, false); err == nil {
		t.Fatal("expected error for non-Bgra32 source")
	}
}
