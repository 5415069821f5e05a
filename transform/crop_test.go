package transform

import (
	"testing"

	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestCropReadsShiftedRectangle(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDGrey8), 4, 4)
	for i := range src.Pix() {
		src.Pix()[i] = byte(i)
	}
	c, err := NewCrop(src, pixfmt.Area{X: 1, Y: 1, W: 2, H: 2})
	if err != nil {
		t.Fatalf("NewCrop: %v", err)
	}
	if c.Width() != 2 || c.Height() != 2 {
		t.Fatalf("dims = (%d,%d), want (2,2)", c.Width(), c.Height())
	}
	out := make([]byte, 4)
	if err := c.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 2}, 2, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	want := []byte{src.Pix()[1*4+1], src.Pix()[1*4+2], src.Pix()[2*4+1], src.Pix()[2*4+2]}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestNewCropRejectsOutOfBounds(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDGrey8), 4, 4)
	if _, err := NewCrop(src, pixfmt.Area{X: 2, Y: 2, W: 4, H: 4}); err == nil {
		t.Fatal("expected error for crop exceeding upstream bounds")
	}
}

// TestCropThenOrientRotate90 exercises a crop of the storage image
// followed by a 90-degree CW rotation of the cropped block.
func TestCropThenOrientRotate90(t *testing.T) {
	// A 4x2 Grey8 image, row-major, values 0..7.
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDGrey8), 4, 2)
	for i := range src.Pix() {
		src.Pix()[i] = byte(i)
	}
	// Crop to the right half: columns 2-3, both rows -> 2x2 block
	// {2,3,6,7}.
	c, err := NewCrop(src, pixfmt.Area{X: 2, Y: 0, W: 2, H: 2})
	if err != nil {
		t.Fatalf("NewCrop: %v", err)
	}
	o, err := NewOrientation(c, pixfmt.OrientationRotate90CW)
	if err != nil {
		t.Fatalf("NewOrientation: %v", err)
	}
	if o.Width() != 2 || o.Height() != 2 {
		t.Fatalf("rotated dims = (%d,%d), want (2,2)", o.Width(), o.Height())
	}
	out := make([]byte, 4)
	if err := o.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 2}, 2, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	// Cropped storage is [[2,3],[6,7]]; rotating 90 CW maps storage (x,y)
	// to presentation (h-1-y, x), i.e. presentation[r][c] = storage[rows-1-c][r].
	want := []byte{6, 2, 7, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, out[i], want[i])
		}
	}
}
