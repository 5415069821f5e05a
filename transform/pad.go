package transform

import (
	"github.com/Nness/PhotoSauce/internal/bufpool"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Pad extends its upstream's content to a larger outer canvas, placing the
// upstream image at (InnerX, InnerY) and filling everything outside that
// inner rectangle with a solid color. It supports 1-, 3-
// and 4-byte-per-pixel formats; Fill must hold exactly one pixel's worth
// of bytes in the upstream's format.
type Pad struct {
	pixel.Chained
	outerW, outerH int
	innerX, innerY int
	fill           []byte
}

// NewPad builds a Pad transform. outerW/outerH is the padded canvas size;
// innerX/innerY places prev's upper-left corner within it; fill is one
// pixel's worth of bytes in prev's format, used outside the inner
// rectangle.
func NewPad(prev pixel.Source, outerW, outerH, innerX, innerY int, fill []byte) (*Pad, error) {
	bpp := prev.Format().BytesPerPixel()
	if len(fill) != bpp {
		return nil, errs.New(errs.InvalidArgument, "pad: fill color length does not match pixel size")
	}
	if outerW < prev.Width()+innerX || outerH < prev.Height()+innerY || innerX < 0 || innerY < 0 {
		return nil, errs.New(errs.InvalidArgument, "pad: inner rectangle does not fit within outer canvas")
	}
	return &Pad{
		Chained: pixel.NewChained(prev, false),
		outerW:  outerW, outerH: outerH,
		innerX: innerX, innerY: innerY,
		fill: fill,
	}, nil
}

func (p *Pad) Width() int  { return p.outerW }
func (p *Pad) Height() int { return p.outerH }

func (p *Pad) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(p, area, stride, buf); err != nil {
		return err
	}

	bpp := p.Format().BytesPerPixel()
	lineBytes := p.Format().LineBytes(area.W)
	innerW, innerH := p.Prev.Width(), p.Prev.Height()

	var scratch *bufpool.Lease
	if lineBytes > 0 {
		scratch = bufpool.RentLocal(p.Prev.Format().LineBytes(innerW))
		defer scratch.Release()
	}

	for row := 0; row < area.H; row++ {
		dst := buf[row*stride : row*stride+lineBytes]
		fillRow(dst, p.fill, area.W)

		srcY := area.Y + row - p.innerY
		if srcY < 0 || srcY >= innerH {
			continue
		}

		// Column range, in output coordinates, that overlaps the inner
		// rectangle.
		ix0 := max(area.X, p.innerX)
		ix1 := min(area.X+area.W, p.innerX+innerW)
		if ix1 <= ix0 {
			continue
		}

		srcRow := scratch.Buf[:p.Prev.Format().LineBytes(innerW)]
		if err := p.Prev.CopyPixels(pixfmt.Area{X: 0, Y: srcY, W: innerW, H: 1}, len(srcRow), srcRow); err != nil {
			return errs.Wrap(errs.InvalidArgument, err, "pad: upstream row pull")
		}

		dstByteOff := (ix0 - area.X) * bpp
		srcByteOff := (ix0 - p.innerX) * bpp
		n := (ix1 - ix0) * bpp
		copy(dst[dstByteOff:dstByteOff+n], srcRow[srcByteOff:srcByteOff+n])
	}
	return nil
}

// fillRow tiles pattern (one pixel) across the first n pixels of dst.
func fillRow(dst []byte, pattern []byte, n int) {
	bpp := len(pattern)
	if bpp == 0 {
		return
	}
	for i := 0; i < n; i++ {
		copy(dst[i*bpp:(i+1)*bpp], pattern)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
