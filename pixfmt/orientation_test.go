package pixfmt

import "testing"

func TestOrientationRoundTrip(t *testing.T) {
	storageW, storageH := 17, 11
	areas := []Area{
		{0, 0, 17, 11},
		{0, 0, 1, 1},
		{3, 2, 5, 4},
		{16, 10, 1, 1},
		{0, 0, 17, 1},
		{0, 0, 1, 11},
	}
	for o := Orientation(1); o <= 8; o++ {
		for _, a := range areas {
			got := DeOrient(ReOrient(a, o, storageW, storageH), o, storageW, storageH)
			if got != a {
				t.Errorf("orientation %d: DeOrient(ReOrient(%+v)) = %+v, want %+v", o, a, got, a)
			}
		}
	}
}

func TestPresentationDims(t *testing.T) {
	cases := []struct {
		o          Orientation
		wantW, wantH int
	}{
		{OrientationNormal, 17, 11},
		{OrientationFlipH, 17, 11},
		{OrientationRotate180, 17, 11},
		{OrientationFlipV, 17, 11},
		{OrientationTranspose, 11, 17},
		{OrientationRotate90CW, 11, 17},
		{OrientationTransverse, 11, 17},
		{OrientationRotate270CW, 11, 17},
	}
	for _, c := range cases {
		w, h := c.o.PresentationDims(17, 11)
		if w != c.wantW || h != c.wantH {
			t.Errorf("orientation %d: PresentationDims = (%d,%d), want (%d,%d)", c.o, w, h, c.wantW, c.wantH)
		}
	}
}

func TestAreaValidate(t *testing.T) {
	a := Area{0, 0, 4, 4}
	if err := a.Validate(4, 4, 24, 12, 48); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Validate(4, 4, 24, 11, 48); err == nil {
		t.Fatalf("expected stride-too-small error")
	}
	if err := a.Validate(4, 4, 24, 12, 10); err == nil {
		t.Fatalf("expected buffer-too-small error")
	}
	outOfBounds := Area{2, 2, 4, 4}
	if err := outOfBounds.Validate(4, 4, 24, 12, 48); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}
