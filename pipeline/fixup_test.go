package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Nness/PhotoSauce/pixfmt"
)

func TestFixupContain(t *testing.T) {
	s := NewSettings(WithSize(50, 50, ResizeContain))
	got := Fixup(s, 200, 100)
	want := FixupResult{
		InnerW: 50, InnerH: 25,
		OuterW: 50, OuterH: 50,
		InnerRect:        pixfmt.Area{X: 0, Y: 12, W: 50, H: 25},
		SourceCrop:       pixfmt.Area{X: 0, Y: 0, W: 200, H: 100},
		HybridScaleRatio: 4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fixup() contain mismatch (-want +got):\n%s", diff)
	}
}

func TestFixupContainPadsNarrowAxis(t *testing.T) {
	s := NewSettings(WithSize(50, 50, ResizeContain), WithHybridMode(HybridOff))
	got := Fixup(s, 400, 100)
	want := FixupResult{
		InnerW: 50, InnerH: 13,
		OuterW: 50, OuterH: 50,
		InnerRect:        pixfmt.Area{X: 0, Y: 18, W: 50, H: 13},
		SourceCrop:       pixfmt.Area{X: 0, Y: 0, W: 400, H: 100},
		HybridScaleRatio: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fixup() mismatch (-want +got):\n%s", diff)
	}
}

func TestFixupStretchOuterPadding(t *testing.T) {
	s := NewSettings(WithSize(80, 80, ResizeStretch), WithHybridMode(HybridOff))
	got := Fixup(s, 40, 40)
	want := FixupResult{
		InnerW: 80, InnerH: 80,
		OuterW: 80, OuterH: 80,
		InnerRect:        pixfmt.Area{X: 0, Y: 0, W: 80, H: 80},
		SourceCrop:       pixfmt.Area{X: 0, Y: 0, W: 40, H: 40},
		HybridScaleRatio: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fixup() stretch mismatch (-want +got):\n%s", diff)
	}
}

func TestFixupPointSamplerDisablesHybrid(t *testing.T) {
	s := NewSettings(WithSize(10, 10, ResizeContain), WithKernel(NearestNeighbor))
	got := Fixup(s, 400, 400)
	if got.HybridScaleRatio != 1 {
		t.Errorf("HybridScaleRatio = %d, want 1 with a point-sampling kernel", got.HybridScaleRatio)
	}
}
