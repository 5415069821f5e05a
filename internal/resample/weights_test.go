package resample

import "testing"

func TestBuildWeightsQ15SumsToExactlyUQ15One(t *testing.T) {
	for _, k := range []Kernel{NearestNeighbor, Linear, CatmullRom, Lanczos3, Spline36} {
		for _, dims := range [][2]int{{100, 37}, {10, 30}, {8, 8}, {37, 9}} {
			table := BuildWeightsQ15(dims[0], dims[1], k)
			for i, aw := range table {
				var sum int32
				for _, w := range aw.Weights {
					sum += w
				}
				if sum != UQ15One {
					t.Errorf("kernel %T %dx%d dst[%d]: weight sum = %d, want %d", k, dims[0], dims[1], i, sum, UQ15One)
				}
			}
		}
	}
}
