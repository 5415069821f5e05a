// Package transform implements the composition transforms the pipeline
// builder assembles into a chain: crop, pad, overlay, matte, orientation
// realization, palette-to-direct conversion, and octree quantization.
// Every transform embeds pixel.Chained and implements pixel.Source, so it
// composes into the same linear pull chain as every other stage.
package transform

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Crop remaps output coordinates (x,y) to (x+OffsetX, y+OffsetY) in its
// upstream, presenting a smaller source without copying any pixels until
// pulled. For planar sources, use CropPlanar instead so each plane crops
// independently and the offset snaps to the chroma subsampling grid.
type Crop struct {
	pixel.Chained
	OffsetX, OffsetY int
	width, height    int
}

// NewCrop builds a Crop transform over prev, restricted to the rectangle
// area (in prev's coordinate space). area must be contained in prev's
// bounds.
func NewCrop(prev pixel.Source, area pixfmt.Area) (*Crop, error) {
	if !area.Contains(prev.Width(), prev.Height()) {
		return nil, errs.New(errs.InvalidArgument, "crop: area not contained in upstream source")
	}
	return &Crop{
		Chained: pixel.NewChained(prev, false),
		OffsetX: area.X, OffsetY: area.Y,
		width: area.W, height: area.H,
	}, nil
}

func (c *Crop) Width() int  { return c.width }
func (c *Crop) Height() int { return c.height }

func (c *Crop) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(c, area, stride, buf); err != nil {
		return err
	}
	return c.pullUpstreamPixels(area, stride, buf)
}

func (c *Crop) pullUpstreamPixels(area pixfmt.Area, stride int, buf []byte) error {
	shifted := pixfmt.Area{X: area.X + c.OffsetX, Y: area.Y + c.OffsetY, W: area.W, H: area.H}
	return c.Prev.CopyPixels(shifted, stride, buf)
}

// snapDown rounds v down to the nearest multiple of grid.
func snapDown(v, grid int) int {
	if grid <= 1 {
		return v
	}
	return (v / grid) * grid
}

// CropPlanar crops a Planar source, snapping the luma crop rectangle down
// to the chroma subsampling grid so each plane's crop is an integer
// number of chroma samples, and records the residual half-pixel shift in
// CropOffsetX/Y for later chroma-siting compensation.
func CropPlanar(p *pixel.Planar, area pixfmt.Area) (*pixel.Planar, error) {
	subX, subY := subsampleRatios(p.Subsampling)

	snappedX := snapDown(area.X, subX)
	snappedY := snapDown(area.Y, subY)
	snappedArea := pixfmt.Area{X: snappedX, Y: snappedY, W: area.X + area.W - snappedX, H: area.Y + area.H - snappedY}

	y, err := NewCrop(p.Y, snappedArea)
	if err != nil {
		return nil, err
	}

	cw, ch := p.Subsampling.ChromaDims(snappedArea.W, snappedArea.H)
	chromaArea := pixfmt.Area{
		X: snappedX / subX, Y: snappedY / subY,
		W: cw, H: ch,
	}
	cb, err := NewCrop(p.Cb, chromaArea)
	if err != nil {
		return nil, err
	}
	cr, err := NewCrop(p.Cr, chromaArea)
	if err != nil {
		return nil, err
	}

	out := &pixel.Planar{
		Y: y, Cb: cb, Cr: cr,
		Subsampling: p.Subsampling,
		Siting:      p.Siting,
		CropOffsetX: p.CropOffsetX + float64(area.X-snappedX),
		CropOffsetY: p.CropOffsetY + float64(area.Y-snappedY),
	}
	return out, nil
}

func subsampleRatios(s pixel.ChromaSubsampling) (x, y int) {
	switch s {
	case pixel.Subsample444:
		return 1, 1
	case pixel.Subsample440:
		return 1, 2
	case pixel.Subsample422:
		return 2, 1
	case pixel.Subsample420:
		return 2, 2
	default:
		return 1, 1
	}
}
