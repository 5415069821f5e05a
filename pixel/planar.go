package pixel

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// ChromaSubsampling names the luma:chroma sampling ratio of a Planar
// source, following the usual JPEG/YUV shorthand.
type ChromaSubsampling int

const (
	Subsample444 ChromaSubsampling = iota
	Subsample440
	Subsample422
	Subsample420
)

// ChromaDims returns the chroma plane dimensions implied by a lumaW x
// lumaH luma plane under s, rounding up on odd dimensions.
func (s ChromaSubsampling) ChromaDims(lumaW, lumaH int) (cw, ch int) {
	switch s {
	case Subsample444:
		return lumaW, lumaH
	case Subsample440:
		return lumaW, pixfmt.DivCeil(lumaH, 2)
	case Subsample422:
		return pixfmt.DivCeil(lumaW, 2), lumaH
	case Subsample420:
		return pixfmt.DivCeil(lumaW, 2), pixfmt.DivCeil(lumaH, 2)
	default:
		return lumaW, lumaH
	}
}

// ChromaSiting is the sub-sample offset of a chroma sample center relative
// to the luma grid it was derived from, expressed in luma-plane pixel
// units. Cosited chroma (MPEG-2 style) has X=0; the common JPEG/MPEG-1
// centered siting has X=0.5. OffsetY is the same measure on the vertical
// axis.
type ChromaSiting struct {
	OffsetX, OffsetY float64
}

var (
	SitingCosited  = ChromaSiting{OffsetX: 0, OffsetY: 0}
	SitingCentered = ChromaSiting{OffsetX: 0.5, OffsetY: 0.5}
)

// Planar bundles a luma and two chroma Sources that together represent one
// YCbCr image. It is not itself a Source (consumers that need an
// interleaved view go through transform.Merge), but it carries the
// geometry needed to align chroma samples back onto the luma
// grid: the nominal subsampling mode, the siting convention, and a crop
// offset recording how far the luma origin has already been shifted from
// the original decode-time origin (so chroma siting compensation stays
// correct after an upstream crop).
type Planar struct {
	Y, Cb, Cr Source

	Subsampling ChromaSubsampling
	Siting      ChromaSiting

	// CropOffsetX/Y record the luma-plane offset, in luma pixels, between
	// this Planar's current Y origin and the decode-time origin. A crop
	// transform updates these when it trims the luma plane so later chroma
	// alignment accounts for the shift (an odd-pixel luma crop shifts
	// chroma siting by half a chroma sample).
	CropOffsetX, CropOffsetY float64
}

// NewPlanar validates that Cb and Cr share dimensions consistent with
// Subsampling applied to Y's dimensions. The planes' pixel formats are not
// checked.
func NewPlanar(y, cb, cr Source, sub ChromaSubsampling, siting ChromaSiting) (*Planar, error) {
	wantCW, wantCH := sub.ChromaDims(y.Width(), y.Height())
	if cb.Width() != wantCW || cb.Height() != wantCH {
		return nil, errs.New(errs.InvalidArgument, "planar: Cb dimensions do not match subsampling mode")
	}
	if cr.Width() != wantCW || cr.Height() != wantCH {
		return nil, errs.New(errs.InvalidArgument, "planar: Cr dimensions do not match subsampling mode")
	}
	return &Planar{Y: y, Cb: cb, Cr: cr, Subsampling: sub, Siting: siting}, nil
}

// Width and Height report the luma plane's dimensions, which is also the
// presentation size of the reconstructed image.
func (p *Planar) Width() int  { return p.Y.Width() }
func (p *Planar) Height() int { return p.Y.Height() }

// Close disposes all three planes, continuing past the first error so a
// leak in one plane's upstream doesn't hide another's.
func (p *Planar) Close() error {
	var first error
	for _, s := range []Source{p.Y, p.Cb, p.Cr} {
		if cl, ok := s.(Closer); ok {
			if err := cl.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
