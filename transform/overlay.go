package transform

import (
	"github.com/Nness/PhotoSauce/internal/bufpool"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// OverlayBlend selects how Overlay combines a foreground pixel with the
// background beneath it.
type OverlayBlend int

const (
	// OverlaySource overwrites the background entirely, ignoring alpha.
	OverlaySource OverlayBlend = iota
	// OverlayOver alpha-composites the foreground over the background
	// (source-over), assuming both are straight-alpha Bgra32.
	OverlayOver
)

// Overlay merges a foreground Source over a background Source
// at (OffsetX, OffsetY). Both sources must be Bgra32;
// the background is this transform's upstream (Prev).
type Overlay struct {
	pixel.Chained
	Foreground       pixel.Source
	OffsetX, OffsetY int
	Blend            OverlayBlend
}

// NewOverlay builds an Overlay transform. background and foreground must
// both be Bgra32.
func NewOverlay(background, foreground pixel.Source, offsetX, offsetY int, blend OverlayBlend) (*Overlay, error) {
	if background.Format().ID != pixfmt.IDBgra32 || foreground.Format().ID != pixfmt.IDBgra32 {
		return nil, errs.New(errs.Unsupported, "overlay: both sources must be Bgra32")
	}
	return &Overlay{
		Chained:    pixel.NewChained(background, false),
		Foreground: foreground,
		OffsetX:    offsetX, OffsetY: offsetY,
		Blend: blend,
	}, nil
}

func (o *Overlay) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(o, area, stride, buf); err != nil {
		return err
	}

	lineBytes := o.Format().LineBytes(area.W)
	if err := o.pullUpstreamPixels(area, stride, buf); err != nil {
		return err
	}

	fgW, fgH := o.Foreground.Width(), o.Foreground.Height()
	fgLine := o.Foreground.Format().LineBytes(fgW)
	scratch := bufpool.RentLocal(fgLine)
	defer scratch.Release()

	for row := 0; row < area.H; row++ {
		srcY := area.Y + row - o.OffsetY
		if srcY < 0 || srcY >= fgH {
			continue
		}
		ix0 := max(area.X, o.OffsetX)
		ix1 := min(area.X+area.W, o.OffsetX+fgW)
		if ix1 <= ix0 {
			continue
		}

		fgRow := scratch.Buf[:fgLine]
		if err := o.Foreground.CopyPixels(pixfmt.Area{X: 0, Y: srcY, W: fgW, H: 1}, fgLine, fgRow); err != nil {
			return errs.Wrap(errs.InvalidArgument, err, "overlay: foreground row pull")
		}

		dst := buf[row*stride : row*stride+lineBytes]
		for x := ix0; x < ix1; x++ {
			do := (x - area.X) * 4
			so := (x - o.OffsetX) * 4
			fb, fg, fr, fa := fgRow[so], fgRow[so+1], fgRow[so+2], fgRow[so+3]
			if o.Blend == OverlaySource || fa == 255 {
				dst[do+0], dst[do+1], dst[do+2], dst[do+3] = fb, fg, fr, fa
				continue
			}
			if fa == 0 {
				continue
			}
			db, dg, dr, da := dst[do+0], dst[do+1], dst[do+2], dst[do+3]
			dst[do+0], dst[do+1], dst[do+2], dst[do+3] = overBGRA(fb, fg, fr, fa, db, dg, dr, da)
		}
	}
	return nil
}

func (o *Overlay) pullUpstreamPixels(area pixfmt.Area, stride int, buf []byte) error {
	return o.Prev.CopyPixels(area, stride, buf)
}

// overBGRA composes straight-alpha src-over-dst for one BGRA pixel,
// matching animctx's canvas compositor arithmetic.
func overBGRA(sb, sg, sr, sa, db, dg, dr, da byte) (b, g, r, a byte) {
	sA := uint32(sa)
	dA := uint32(da)
	dstFactor := (dA * (256 - sA)) >> 8
	blendA := sA + dstFactor
	if blendA == 0 {
		return 0, 0, 0, 0
	}
	scale := (uint32(1) << 24) / blendA
	blend := func(sc, dc byte) byte {
		v := (uint32(sc)*sA + uint32(dc)*dstFactor) * scale >> 24
		if v > 255 {
			v = 255
		}
		return byte(v)
	}
	return blend(sb, db), blend(sg, dg), blend(sr, dr), byte(blendA)
}
