package convert

import "unsafe"

// AsFloat32 reinterprets a byte buffer as a float32 slice without copying,
// for the pipeline's wide float working formats, whose CopyPixels buffers
// are plain []byte but whose row kernels operate on
// float32 samples. Callers must only pass buffers whose length is a
// multiple of 4 and whose backing array is suitably aligned, which every
// buffer obtained through internal/bufpool's RentAligned satisfies.
func AsFloat32(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// AsUint16 reinterprets a byte buffer as a uint16 slice without copying,
// used by the FixedQ15 working formats.
func AsUint16(b []byte) []uint16 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b[0])), len(b)/2)
}
