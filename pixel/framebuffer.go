package pixel

import "github.com/Nness/PhotoSauce/pixfmt"

// FrameBuffer is the pipeline's one mutable pixel storage type. It backs
// the animation screen buffer (animctx) and the planes that
// transform.Split fills: a plain byte buffer addressable by row,
// exposed through the ordinary Source contract so downstream transforms
// never need to know whether their upstream is a decoder or a buffer the
// pipeline itself owns.
type FrameBuffer struct {
	format        pixfmt.Format
	width, height int
	stride        int
	buf           []byte
}

// NewFrameBuffer allocates a zero-filled buffer of the given format and
// dimensions, with a tightly packed row stride.
func NewFrameBuffer(format pixfmt.Format, w, h int) *FrameBuffer {
	stride := format.LineBytes(w)
	return &FrameBuffer{
		format: format,
		width:  w, height: h,
		stride: stride,
		buf:    make([]byte, stride*h),
	}
}

func (f *FrameBuffer) Format() pixfmt.Format { return f.format }
func (f *FrameBuffer) Width() int            { return f.width }
func (f *FrameBuffer) Height() int           { return f.height }
func (f *FrameBuffer) Stride() int           { return f.stride }

// Row returns the backing bytes for row y, for direct writes by a
// compositor that owns this buffer.
func (f *FrameBuffer) Row(y int) []byte {
	return f.buf[y*f.stride : y*f.stride+f.stride]
}

// Pix exposes the whole backing buffer, for callers (animctx's canvas
// compositor) that address pixels directly rather than row by row.
func (f *FrameBuffer) Pix() []byte { return f.buf }

// Clear zeroes the entire buffer.
func (f *FrameBuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// Fill sets every row to a repeating pattern of rowPattern (one pixel's
// worth of bytes), painting the whole buffer one solid color.
func (f *FrameBuffer) Fill(rowPattern []byte) {
	if len(rowPattern) == 0 {
		return
	}
	for y := 0; y < f.height; y++ {
		row := f.Row(y)
		for off := 0; off < len(row); off += len(rowPattern) {
			n := copy(row[off:], rowPattern)
			if n < len(rowPattern) {
				break
			}
		}
	}
}

// CopyPixels implements Source by copying directly out of the live
// buffer; a caller pulling from a FrameBuffer always sees its current
// contents, which is what makes it safe to use as an animation screen
// buffer mutated between frames.
func (f *FrameBuffer) CopyPixels(area pixfmt.Area, stride int, dst []byte) error {
	if err := ValidateCopy(f, area, stride, dst); err != nil {
		return err
	}
	lineBytes := f.format.LineBytes(area.W)
	byteX := f.format.LineBytes(area.X)
	for row := 0; row < area.H; row++ {
		src := f.Row(area.Y + row)[byteX : byteX+lineBytes]
		copy(dst[row*stride:row*stride+lineBytes], src)
	}
	return nil
}
