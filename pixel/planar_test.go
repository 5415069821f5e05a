package pixel

import (
	"testing"

	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestChromaDims420RoundsUp(t *testing.T) {
	cw, ch := Subsample420.ChromaDims(7, 5)
	if cw != 4 || ch != 3 {
		t.Fatalf("ChromaDims(7,5) = (%d,%d), want (4,3)", cw, ch)
	}
}

func TestChromaDims444IsIdentity(t *testing.T) {
	cw, ch := Subsample444.ChromaDims(9, 6)
	if cw != 9 || ch != 6 {
		t.Fatalf("ChromaDims(9,6) under 4:4:4 = (%d,%d), want (9,6)", cw, ch)
	}
}

func TestNewPlanarRejectsMismatchedChromaDims(t *testing.T) {
	y := newMemSource(pixfmt.IDGrey8, 8, 8)
	cb := newMemSource(pixfmt.IDGrey8, 8, 8) // wrong: should be 4x4 under 4:2:0
	cr := newMemSource(pixfmt.IDGrey8, 4, 4)

	if _, err := NewPlanar(y, cb, cr, Subsample420, SitingCentered); err == nil {
		t.Fatal("expected error for mismatched Cb dimensions")
	}
}

func TestNewPlanarAccepts420(t *testing.T) {
	y := newMemSource(pixfmt.IDGrey8, 8, 8)
	cb := newMemSource(pixfmt.IDGrey8, 4, 4)
	cr := newMemSource(pixfmt.IDGrey8, 4, 4)

	p, err := NewPlanar(y, cb, cr, Subsample420, SitingCentered)
	if err != nil {
		t.Fatalf("NewPlanar: %v", err)
	}
	if p.Width() != 8 || p.Height() != 8 {
		t.Fatalf("Width/Height = (%d,%d), want (8,8)", p.Width(), p.Height())
	}
}

func TestPlanarCloseDisposesAllPlanes(t *testing.T) {
	y := newMemSource(pixfmt.IDGrey8, 4, 4)
	cb := newMemSource(pixfmt.IDGrey8, 2, 2)
	cr := newMemSource(pixfmt.IDGrey8, 2, 2)
	p, err := NewPlanar(y, cb, cr, Subsample420, SitingCentered)
	if err != nil {
		t.Fatalf("NewPlanar: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !y.closed || !cb.closed || !cr.closed {
		t.Fatal("Close did not dispose every plane")
	}
}
