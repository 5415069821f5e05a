package resample

import (
	"math"
	"testing"
)

func TestBuildWeightsSumToOne(t *testing.T) {
	for _, k := range []Kernel{NearestNeighbor, Linear, CatmullRom, Lanczos3, Spline36} {
		table := BuildWeights(100, 37, k)
		for i, aw := range table {
			var sum float64
			for _, w := range aw.Weights {
				sum += float64(w)
			}
			if math.Abs(sum-1) > 1e-4 {
				t.Errorf("kernel %T dst[%d]: weight sum = %v, want 1", k, i, sum)
			}
		}
	}
}

func TestBuildWeightsUpscaleSumToOne(t *testing.T) {
	table := BuildWeights(10, 30, Lanczos3)
	for i, aw := range table {
		var sum float64
		for _, w := range aw.Weights {
			sum += float64(w)
		}
		if math.Abs(sum-1) > 1e-4 {
			t.Errorf("dst[%d]: weight sum = %v, want 1", i, sum)
		}
	}
}

func TestNearestNeighborIdentityOnSameSize(t *testing.T) {
	table := BuildWeights(8, 8, NearestNeighbor)
	for i, aw := range table {
		if len(aw.Weights) != 1 || aw.Left != i {
			t.Fatalf("identity resize dst[%d]: Left=%d Weights=%v", i, aw.Left, aw.Weights)
		}
	}
}

func TestResampleConstantImagePreservesValue(t *testing.T) {
	const srcW, srcH, channels = 16, 16, 1
	src := make([][]float32, srcH)
	for y := range src {
		row := make([]float32, srcW*channels)
		for x := range row {
			row[x] = 0.5
		}
		src[y] = row
	}
	s := NewSeparable2D(srcW, srcH, 6, 5, channels, Lanczos3)
	dst := make([][]float32, s.DstH)
	for y := range dst {
		dst[y] = make([]float32, s.DstW*channels)
	}
	s.Resample(src, dst)
	for y, row := range dst {
		for x, v := range row {
			if math.Abs(float64(v)-0.5) > 1e-3 {
				t.Errorf("dst[%d][%d] = %v, want ~0.5 (constant-preservation)", y, x, v)
			}
		}
	}
}

func TestBoxPrescalerShrinkConstantRow(t *testing.T) {
	src := make([]byte, 100)
	for i := range src {
		src[i] = 128
	}
	r := NewBoxPrescaler(100, 25, 1, 1)
	for r.NeedsSrcRow() {
		r.ImportRow(src)
	}
	dst := make([]byte, 25)
	if !r.ExportRow(dst) {
		t.Fatal("ExportRow returned false after enough rows imported")
	}
	for i, v := range dst {
		if v < 126 || v > 130 {
			t.Errorf("dst[%d] = %d, want ~128", i, v)
		}
	}
}

func TestShouldPrescaleThreshold(t *testing.T) {
	if !ShouldPrescale(200, 100) {
		t.Error("2x downscale should trigger prescale")
	}
	if ShouldPrescale(150, 100) {
		t.Error("1.5x downscale should not trigger prescale")
	}
}
