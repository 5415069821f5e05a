package transform

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Orientation realizes one of the 8 Exif orientations by combining
// per-line pixel reversal, vertical flip, and (for the 4 orientations
// that swap width/height) transpose. The non-transposing
// orientations stream row by row with no buffering; the transposing ones
// decode the whole upstream image into a buffer once, since producing an
// output row in that case reads one byte from every upstream row.
type Orientation struct {
	pixel.Chained
	o             pixfmt.Orientation
	width, height int
	bpp           int

	// buffered holds the full upstream image once decoded, only used for
	// transposing orientations.
	buffered  []byte
	bufStride int
}

// NewOrientation builds an Orientation transform realizing o over prev.
func NewOrientation(prev pixel.Source, o pixfmt.Orientation) (*Orientation, error) {
	if !o.Valid() {
		return nil, errs.New(errs.InvalidArgument, "orientation: invalid Exif orientation value")
	}
	w, h := o.PresentationDims(prev.Width(), prev.Height())
	return &Orientation{
		Chained: pixel.NewChained(prev, false),
		o:       o,
		width:   w, height: h,
		bpp: prev.Format().BytesPerPixel(),
	}, nil
}

func (t *Orientation) Width() int  { return t.width }
func (t *Orientation) Height() int { return t.height }

func (t *Orientation) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(t, area, stride, buf); err != nil {
		return err
	}
	if t.o.RequiresTranspose() {
		return t.copyTransposed(area, stride, buf)
	}
	return t.copyStreamed(area, stride, buf)
}

// copyStreamed handles the 4 non-transposing orientations (Normal,
// FlipH, Rotate180, FlipV) without buffering: each output row maps to
// exactly one upstream row, optionally read in reverse column order.
func (t *Orientation) copyStreamed(area pixfmt.Area, stride int, buf []byte) error {
	prevW := t.Prev.Width()
	lineBytes := t.Format().LineBytes(area.W)

	flipV := t.o == pixfmt.OrientationRotate180 || t.o == pixfmt.OrientationFlipV
	flipH := t.o == pixfmt.OrientationRotate180 || t.o == pixfmt.OrientationFlipH

	fullRow := make([]byte, t.Format().LineBytes(prevW))
	for row := 0; row < area.H; row++ {
		srcY := area.Y + row
		if flipV {
			srcY = t.Prev.Height() - 1 - srcY
		}
		if err := t.Prev.CopyPixels(pixfmt.Area{X: 0, Y: srcY, W: prevW, H: 1}, len(fullRow), fullRow); err != nil {
			return errs.Wrap(errs.InvalidArgument, err, "orientation: upstream row pull")
		}
		if flipH {
			reverseRow(fullRow, t.bpp, prevW)
		}
		startX := area.X
		copy(buf[row*stride:row*stride+lineBytes], fullRow[startX*t.bpp:startX*t.bpp+area.W*t.bpp])
	}
	return nil
}

// copyTransposed handles the 4 transposing orientations by first decoding
// the whole upstream image, then reading out arbitrary (x,y) pixels
// through the orientation's point mapping (expressed via pixfmt.ReOrient
// applied to single-pixel areas, the same algebra that round-trips with
// DeOrient).
func (t *Orientation) copyTransposed(area pixfmt.Area, stride int, buf []byte) error {
	if err := t.ensureBuffered(); err != nil {
		return err
	}
	lineBytes := t.Format().LineBytes(area.W)
	prevW := t.Prev.Width()

	for row := 0; row < area.H; row++ {
		dst := buf[row*stride : row*stride+lineBytes]
		y := area.Y + row
		for x := 0; x < area.W; x++ {
			storage := pixfmt.ReOrient(pixfmt.Area{X: area.X + x, Y: y, W: 1, H: 1}, t.o, prevW, t.Prev.Height())
			so := storage.Y*t.bufStride + storage.X*t.bpp
			do := x * t.bpp
			copy(dst[do:do+t.bpp], t.buffered[so:so+t.bpp])
		}
	}
	return nil
}

func (t *Orientation) ensureBuffered() error {
	if t.buffered != nil {
		return nil
	}
	prevW, prevH := t.Prev.Width(), t.Prev.Height()
	t.bufStride = t.Format().LineBytes(prevW)
	t.buffered = make([]byte, t.bufStride*prevH)
	if err := t.Prev.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: prevW, H: prevH}, t.bufStride, t.buffered); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "orientation: buffering upstream for transpose")
	}
	return nil
}

// reverseRow reverses the pixel order of a row in place (byte-swapping
// whole pixels of bpp bytes each, not individual bytes).
func reverseRow(row []byte, bpp, pixels int) {
	for i, j := 0, pixels-1; i < j; i, j = i+1, j-1 {
		o1, o2 := i*bpp, j*bpp
		for k := 0; k < bpp; k++ {
			row[o1+k], row[o2+k] = row[o2+k], row[o1+k]
		}
	}
}
