package transform

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Palette is an Indexed8 source's color table: up to 256 BGRA entries.
type Palette struct {
	Entries [256][4]byte // B, G, R, A per entry
	Count   int
}

// IsGreyscale reports whether every used palette entry is a grey (R=G=B)
// opaque color, the condition under which PaletteToDirect normalizes to
// Grey8 instead of Bgr24/Bgra32.
func (p *Palette) IsGreyscale() bool {
	for i := 0; i < p.Count; i++ {
		e := p.Entries[i]
		if e[0] != e[1] || e[1] != e[2] || e[3] != 255 {
			return false
		}
	}
	return true
}

// HasAlpha reports whether any used palette entry is translucent.
func (p *Palette) HasAlpha() bool {
	for i := 0; i < p.Count; i++ {
		if p.Entries[i][3] != 255 {
			return true
		}
	}
	return false
}

// PaletteToDirect converts an Indexed8 source to a direct pixel format,
// resolving each index through pal: Grey8 when the palette
// is entirely greyscale, Bgra32 when any entry has alpha, otherwise
// Bgr24.
type PaletteToDirect struct {
	pixel.Chained
	pal    *Palette
	format pixfmt.Format
}

// NewPaletteToDirect builds the transform, picking the narrowest output
// format the palette's contents allow.
func NewPaletteToDirect(prev pixel.Source, pal *Palette) (*PaletteToDirect, error) {
	if prev.Format().ID != pixfmt.IDIndexed8 {
		return nil, errs.New(errs.Unsupported, "palette: source must be Indexed8")
	}
	var f pixfmt.Format
	switch {
	case pal.IsGreyscale():
		f = pixfmt.Lookup(pixfmt.IDGrey8)
	case pal.HasAlpha():
		f = pixfmt.Lookup(pixfmt.IDBgra32)
	default:
		f = pixfmt.Lookup(pixfmt.IDBgr24)
	}
	return &PaletteToDirect{Chained: pixel.NewChained(prev, false), pal: pal, format: f}, nil
}

func (d *PaletteToDirect) Format() pixfmt.Format { return d.format }

func (d *PaletteToDirect) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(d, area, stride, buf); err != nil {
		return err
	}
	idx := make([]byte, area.W)
	bpp := d.format.BytesPerPixel()
	lineBytes := d.format.LineBytes(area.W)

	for row := 0; row < area.H; row++ {
		if err := d.pullUpstreamPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, area.W, idx); err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+lineBytes]
		for x := 0; x < area.W; x++ {
			e := d.pal.Entries[idx[x]]
			do := x * bpp
			switch d.format.ID {
			case pixfmt.IDGrey8:
				dst[do] = e[0]
			case pixfmt.IDBgr24:
				dst[do+0], dst[do+1], dst[do+2] = e[0], e[1], e[2]
			case pixfmt.IDBgra32:
				dst[do+0], dst[do+1], dst[do+2], dst[do+3] = e[0], e[1], e[2], e[3]
			}
		}
	}
	return nil
}

func (d *PaletteToDirect) pullUpstreamPixels(area pixfmt.Area, stride int, buf []byte) error {
	return d.Prev.CopyPixels(area, stride, buf)
}
