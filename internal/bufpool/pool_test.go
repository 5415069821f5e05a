package bufpool

import "testing"

func TestGetPutExactSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"256B", 256},
		{"1K", 1024},
		{"4K", 4096},
		{"16K", 16384},
		{"64K", 65536},
		{"256K", 262144},
		{"1M", 1048576},
		{"500B", 500},
		{"3000B", 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Get(tt.size)
			if len(b) != tt.size {
				t.Errorf("Get(%d): len = %d, want %d", tt.size, len(b), tt.size)
			}
			Put(b)
		})
	}
}

func TestRentLocalReleasesOnDefer(t *testing.T) {
	func() {
		l := RentLocal(1024)
		defer l.Release()
		if len(l.Buf) != 1024 {
			t.Fatalf("len = %d, want 1024", len(l.Buf))
		}
	}()
}

func TestReleaseIsIdempotent(t *testing.T) {
	l := RentLocal(256)
	l.Release()
	l.Release() // must not panic or double-free into the pool
}

func TestRentAlignedAlignment(t *testing.T) {
	l := RentAligned(4096)
	defer l.Release()
	if len(l.Buf) != 4096 {
		t.Fatalf("len = %d, want 4096", len(l.Buf))
	}
	if off := alignOffset(l.Buf, AlignVector); off != 0 {
		t.Fatalf("Buf starts %d bytes short of a %d-byte boundary", off, AlignVector)
	}
}
