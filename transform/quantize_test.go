package transform

import (
	"testing"

	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestOctreeIsExactWhenColorsFitBudget(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 2, 2)
	copy(src.Pix(), []byte{
		10, 20, 30, 10, 20, 30,
		40, 50, 60, 10, 20, 30,
	})
	tree, err := BuildOctreeFromSource(src, 256)
	if err != nil {
		t.Fatalf("BuildOctreeFromSource: %v", err)
	}
	if !tree.IsExact() {
		t.Error("2 distinct colors under a 256 budget: IsExact() = false, want true")
	}
	pal, exact := tree.BuildPalette()
	if !exact {
		t.Error("BuildPalette exact flag = false, want true")
	}
	if pal.Count != 2 {
		t.Errorf("palette count = %d, want 2", pal.Count)
	}
}

func TestOctreeNotExactWhenColorsExceedBudget(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 4, 1)
	copy(src.Pix(), []byte{
		0, 0, 0,
		50, 50, 50,
		100, 100, 100,
		150, 150, 150,
	})
	tree, err := BuildOctreeFromSource(src, 2)
	if err != nil {
		t.Fatalf("BuildOctreeFromSource: %v", err)
	}
	if tree.IsExact() {
		t.Error("4 distinct colors under a 2-color budget: IsExact() = true, want false")
	}
	pal, exact := tree.BuildPalette()
	if exact {
		t.Error("BuildPalette exact flag = true, want false")
	}
	if pal.Count > 2 {
		t.Errorf("palette count = %d, want <= 2", pal.Count)
	}
}

func TestQuantizeRoundTripsExactPaletteWithoutDither(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 2, 1)
	copy(src.Pix(), []byte{10, 20, 30, 40, 50, 60})

	tree, err := BuildOctreeFromSource(src, 256)
	if err != nil {
		t.Fatalf("BuildOctreeFromSource: %v", err)
	}
	pal, exact := tree.BuildPalette()
	if !exact {
		t.Fatal("expected exact palette for 2 distinct colors under budget 256")
	}
	q, err := NewQuantize(src, tree, pal, exact, nil)
	if err != nil {
		t.Fatalf("NewQuantize: %v", err)
	}
	out := make([]byte, 2)
	if err := q.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 1}, 2, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	for i, idx := range out {
		e := pal.Entries[idx] // BGRA, same channel order as the Bgr24 source
		want := src.Pix()[i*3 : i*3+3]
		if e[0] != want[0] || e[1] != want[1] || e[2] != want[2] {
			t.Errorf("pixel %d resolves to %v, want [%d %d %d]", i, e, want[0], want[1], want[2])
		}
	}
}

func TestQuantizeIgnoresDitherOnExactPalette(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 1, 1)
	copy(src.Pix(), []byte{10, 20, 30})

	tree, err := BuildOctreeFromSource(src, 256)
	if err != nil {
		t.Fatalf("BuildOctreeFromSource: %v", err)
	}
	pal, exact := tree.BuildPalette()
	if !exact {
		t.Fatal("expected exact palette")
	}
	q, err := NewQuantize(src, tree, pal, exact, NewDither(1))
	if err != nil {
		t.Fatalf("NewQuantize: %v", err)
	}
	out := make([]byte, 1)
	if err := q.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 1, H: 1}, 1, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	e := pal.Entries[out[0]]
	if e[0] != 10 || e[1] != 20 || e[2] != 30 {
		t.Errorf("dithering was applied despite an exact palette: resolved to %v", e)
	}
}

func TestNewQuantizeRejectsUnsupportedSource(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDGrey8), 1, 1)
	tree := NewOctree(256)
	if _, err := NewQuantize(src, tree, &Palette{}, true, nil); err == nil {
		t.Fatal("expected error for non-Bgr24/Bgra32 source")
	}
}
