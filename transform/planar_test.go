package transform

import (
	"testing"

	"github.com/Nness/PhotoSauce/internal/yuv"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestSplitMergeRoundTripAt444(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 2, 2)
	copy(src.Pix(), []byte{
		10, 20, 30, 200, 150, 100,
		0, 0, 0, 255, 255, 255,
	})

	s, err := NewSplit(src, yuv.BT601, false)
	if err != nil {
		t.Fatalf("NewSplit: %v", err)
	}
	planar, err := s.Planar()
	if err != nil {
		t.Fatalf("Planar: %v", err)
	}
	if planar.Subsampling != pixel.Subsample444 {
		t.Fatalf("split subsampling = %v, want 4:4:4", planar.Subsampling)
	}

	m := NewMerge(planar, yuv.BT601, false)
	if m.Width() != 2 || m.Height() != 2 {
		t.Fatalf("merge dims = (%d,%d), want (2,2)", m.Width(), m.Height())
	}
	out := make([]byte, 2*2*3)
	if err := m.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 2}, 2*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}

	want := src.Pix()
	for i := range want {
		diff := int(out[i]) - int(want[i])
		if diff < -2 || diff > 2 {
			t.Errorf("byte %d = %d, want ~%d (round trip through YCbCr)", i, out[i], want[i])
		}
	}
}

func TestNewSplitRejectsNonBgr24Source(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDGrey8), 1, 1)
	if _, err := NewSplit(src, yuv.BT601, false); err == nil {
		t.Fatal("expected error for non-Bgr24 source")
	}
}
