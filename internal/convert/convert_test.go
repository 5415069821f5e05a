package convert

import "testing"

func TestClip8b(t *testing.T) {
	cases := []struct {
		v    int
		want uint8
	}{
		{-5, 0}, {0, 0}, {128, 128}, {255, 255}, {300, 255},
	}
	for _, c := range cases {
		if got := Clip8b(c.v); got != c.want {
			t.Errorf("Clip8b(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestWidenNarrowF32RoundTrip(t *testing.T) {
	src := []byte{0, 1, 127, 200, 255}
	wide := make([]float32, len(src))
	WidenF32(src, wide, len(src), false)
	back := make([]byte, len(src))
	NarrowF32(wide, back, len(src))
	for i := range src {
		if back[i] != src[i] {
			t.Errorf("round trip[%d] = %d, want %d", i, back[i], src[i])
		}
	}
}

func TestWidenNarrowQ15RoundTrip(t *testing.T) {
	src := []byte{0, 1, 127, 200, 255}
	wide := make([]uint16, len(src))
	WidenQ15(src, wide, len(src), false)
	back := make([]byte, len(src))
	NarrowQ15(wide, back, len(src))
	for i := range src {
		diff := int(back[i]) - int(src[i])
		if diff < -1 || diff > 1 {
			t.Errorf("round trip[%d] = %d, want ~%d", i, back[i], src[i])
		}
	}
}

func TestWidenNarrowQ15RoundTripExactForAllBytes(t *testing.T) {
	var src [256]byte
	for v := range src {
		src[v] = byte(v)
	}
	wide := make([]uint16, 256)
	WidenQ15(src[:], wide, 256, false)
	back := make([]byte, 256)
	NarrowQ15(wide, back, 256)
	for v := range src {
		if back[v] != src[v] {
			t.Errorf("full-range round trip[%d] = %d, want %d (exact identity)", v, back[v], src[v])
		}
	}
}

func TestWidenVideoRangeClampsStudioRange(t *testing.T) {
	if v := WidenTableF32(true)[0]; v != 0 {
		t.Errorf("video-range black (0, below footroom) = %v, want 0", v)
	}
	if v := WidenTableF32(true)[255]; v != 1 {
		t.Errorf("video-range white (255, above headroom) = %v, want 1", v)
	}
	if v := WidenTableF32(true)[16]; v != 0 {
		t.Errorf("video-range footroom boundary (16) = %v, want 0", v)
	}
}

func TestPremultiplyUnpremultiplyRoundTrip(t *testing.T) {
	row := []byte{200, 100, 50, 128}
	orig := append([]byte(nil), row...)
	Premultiply8Row(row, 1, 4, 3)
	Unpremultiply8Row(row, 1, 4, 3)
	for i, v := range row {
		diff := int(v) - int(orig[i])
		if diff < -2 || diff > 2 {
			t.Errorf("premultiply round trip[%d] = %d, want ~%d", i, v, orig[i])
		}
	}
}

func TestPremultiplyOpaqueIsNoop(t *testing.T) {
	row := []byte{10, 20, 30, 255}
	want := append([]byte(nil), row...)
	Premultiply8Row(row, 1, 4, 3)
	for i := range row {
		if row[i] != want[i] {
			t.Errorf("opaque premultiply changed byte %d: %d != %d", i, row[i], want[i])
		}
	}
}

func TestSwapRB4RoundTrip(t *testing.T) {
	row := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	orig := append([]byte(nil), row...)
	SwapRB4(row, 2)
	SwapRB4(row, 2)
	for i := range row {
		if row[i] != orig[i] {
			t.Errorf("SwapRB4 double-application not identity at %d", i)
		}
	}
}

func TestExtractInjectAlphaRoundTrip(t *testing.T) {
	src := []byte{1, 2, 3, 90, 4, 5, 6, 180}
	alpha := make([]byte, 2)
	ExtractAlpha8(src, 4, 3, alpha, 2)
	if alpha[0] != 90 || alpha[1] != 180 {
		t.Fatalf("ExtractAlpha8 = %v, want [90 180]", alpha)
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	for i := 3; i < len(dst); i += 4 {
		dst[i] = 0
	}
	InjectAlpha8(alpha, dst, 4, 3, 2)
	if dst[3] != 90 || dst[7] != 180 {
		t.Fatalf("InjectAlpha8 did not restore alpha: %v", dst)
	}
}

func TestGammaRoundTripApprox(t *testing.T) {
	g := NewInterpolatingSRGB()
	src := []byte{0, 16, 64, 128, 200, 255}
	lin := make([]float32, len(src))
	g.ConvertFloat(src, lin, len(src))
	back := make([]byte, len(src))
	g.ConvertByte(lin, back, len(src))
	for i := range src {
		diff := int(back[i]) - int(src[i])
		if diff < -2 || diff > 2 {
			t.Errorf("gamma round trip[%d] = %d, want ~%d", i, back[i], src[i])
		}
	}
}

func TestGammaMonotonic(t *testing.T) {
	g := NewInterpolatingSRGB()
	prev := float32(-1)
	for v := 0; v < 256; v++ {
		if g.toLinear[v] < prev {
			t.Fatalf("toLinear not monotonic at %d", v)
		}
		prev = g.toLinear[v]
	}
}
