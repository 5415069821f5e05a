package transform

import (
	"testing"

	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestPaletteIsGreyscaleAndHasAlpha(t *testing.T) {
	grey := &Palette{Count: 2, Entries: [256][4]byte{
		{10, 10, 10, 255},
		{200, 200, 200, 255},
	}}
	if !grey.IsGreyscale() {
		t.Error("grey palette: IsGreyscale() = false, want true")
	}
	if grey.HasAlpha() {
		t.Error("grey palette: HasAlpha() = true, want false")
	}

	color := &Palette{Count: 2, Entries: [256][4]byte{
		{10, 20, 30, 255},
		{200, 200, 200, 255},
	}}
	if color.IsGreyscale() {
		t.Error("color palette: IsGreyscale() = true, want false")
	}

	translucent := &Palette{Count: 1, Entries: [256][4]byte{
		{10, 10, 10, 128},
	}}
	if translucent.IsGreyscale() {
		t.Error("translucent grey entry: IsGreyscale() = true, want false (alpha != 255)")
	}
	if !translucent.HasAlpha() {
		t.Error("translucent palette: HasAlpha() = false, want true")
	}
}

func TestPaletteToDirectPicksGrey8ForGreyscalePalette(t *testing.T) {
	pal := &Palette{Count: 2, Entries: [256][4]byte{
		{10, 10, 10, 255},
		{200, 200, 200, 255},
	}}
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDIndexed8), 2, 1)
	copy(src.Pix(), []byte{0, 1})

	d, err := NewPaletteToDirect(src, pal)
	if err != nil {
		t.Fatalf("NewPaletteToDirect: %v", err)
	}
	if d.Format().ID != pixfmt.IDGrey8 {
		t.Fatalf("format = %v, want Grey8", d.Format().ID)
	}
	out := make([]byte, 2)
	if err := d.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 1}, 2, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	if out[0] != 10 || out[1] != 200 {
		t.Errorf("out = %v, want [10 200]", out)
	}
}

func TestPaletteToDirectPicksBgra32ForAlphaPalette(t *testing.T) {
	pal := &Palette{Count: 2, Entries: [256][4]byte{
		{10, 20, 30, 128},
		{40, 50, 60, 255},
	}}
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDIndexed8), 2, 1)
	copy(src.Pix(), []byte{0, 1})

	d, err := NewPaletteToDirect(src, pal)
	if err != nil {
		t.Fatalf("NewPaletteToDirect: %v", err)
	}
	if d.Format().ID != pixfmt.IDBgra32 {
		t.Fatalf("format = %v, want Bgra32", d.Format().ID)
	}
	out := make([]byte, 8)
	if err := d.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 1}, 8, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	want := []byte{10, 20, 30, 128, 40, 50, 60, 255}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestPaletteToDirectPicksBgr24ForOpaqueColorPalette(t *testing.T) {
	pal := &Palette{Count: 1, Entries: [256][4]byte{
		{10, 20, 30, 255},
	}}
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDIndexed8), 1, 1)
	copy(src.Pix(), []byte{0})

	d, err := NewPaletteToDirect(src, pal)
	if err != nil {
		t.Fatalf("NewPaletteToDirect: %v", err)
	}
	if d.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24", d.Format().ID)
	}
	out := make([]byte, 3)
	if err := d.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 1, H: 1}, 3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	if out[0] != 10 || out[1] != 20 || out[2] != 30 {
		t.Errorf("out = %v, want [10 20 30]", out)
	}
}

func TestNewPaletteToDirectRejectsNonIndexedSource(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 1, 1)
	if _, err := NewPaletteToDirect(src, &Palette{}); err == nil {
		t.Fatal("expected error for non-Indexed8 source")
	}
}
