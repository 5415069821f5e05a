package yuv

import "testing"

func TestMatrixInverseRoundTrip(t *testing.T) {
	for _, m := range []Matrix{BT601, BT709, BT2020} {
		r, g, b := 0.2, 0.6, 0.9
		y, cb, cr := m.RGBToYCC(r, g, b)
		r2, g2, b2 := m.YCCToRGB(y, cb, cr)
		if absF(r2-r) > 1e-9 || absF(g2-g) > 1e-9 || absF(b2-b) > 1e-9 {
			t.Fatalf("round trip mismatch: got (%v,%v,%v), want (%v,%v,%v)", r2, g2, b2, r, g, b)
		}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestGreyRoundTripsThroughYCC(t *testing.T) {
	src := []byte{0, 64, 128, 200, 255, 0, 64, 128, 200, 255, 0, 64, 128, 200, 255}
	n := len(src) / 3
	y := make([]uint8, n)
	cb := make([]uint8, n)
	cr := make([]uint8, n)
	RGBRowToYCC(src, y, cb, cr, n, BT601, false)

	dst := make([]byte, len(src))
	YCCRowToRGB(y, cb, cr, dst, n, BT601, false)
	for i := range src {
		diff := int(dst[i]) - int(src[i])
		if diff < -2 || diff > 2 {
			t.Errorf("byte %d: got %d, want ~%d", i, dst[i], src[i])
		}
	}
}

func TestBT601FullRangePureRed(t *testing.T) {
	// (Y=76, Cb=85, Cr=255) is the full-range BT.601 encoding of pure
	// red; decoding it must land on (B,G,R) = (0,0,255) within a step.
	y := []uint8{76}
	cb := []uint8{85}
	cr := []uint8{255}
	bgr := make([]byte, 3)
	YCCRowToBGR(y, cb, cr, bgr, 1, BT601, false)
	if bgr[0] > 1 || bgr[1] > 1 || bgr[2] < 254 {
		t.Fatalf("BGR = %v, want ~[0 0 255]", bgr)
	}
}

func TestYCCRowToBGRReversesChannelOrder(t *testing.T) {
	y := []uint8{128}
	cb := []uint8{128}
	cr := []uint8{128}
	rgb := make([]byte, 3)
	bgr := make([]byte, 3)
	YCCRowToRGB(y, cb, cr, rgb, 1, BT601, false)
	YCCRowToBGR(y, cb, cr, bgr, 1, BT601, false)
	if rgb[0] != bgr[2] || rgb[2] != bgr[0] || rgb[1] != bgr[1] {
		t.Fatalf("YCCRowToBGR channel order mismatch: rgb=%v bgr=%v", rgb, bgr)
	}
}

func TestUpsampleChromaPairProducesFullResolution(t *testing.T) {
	topU := []uint8{100, 150, 200}
	topV := []uint8{10, 20, 30}
	botU := []uint8{110, 160, 210}
	botV := []uint8{15, 25, 35}
	width := 6

	outTopU := make([]uint8, width)
	outTopV := make([]uint8, width)
	outBotU := make([]uint8, width)
	outBotV := make([]uint8, width)

	UpsampleChromaPair(topU, topV, botU, botV, outTopU, outTopV, outBotU, outBotV, width)

	for i, v := range outTopU {
		if v == 0 && i != 0 {
			t.Errorf("outTopU[%d] suspiciously zero", i)
		}
	}
}
