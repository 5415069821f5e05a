package animctx

import (
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// canvasSource adapts a live Canvas to the pixel.Source contract so the
// pipeline builder can pull the screen buffer through the same interface
// it uses for every other transform. Reads are always against the
// canvas's current contents; the canvas is expected to mutate only
// between frames.
type canvasSource struct {
	c *Canvas
}

// Source returns a pixel.Source view of the canvas's current state,
// straight-alpha Bgra32.
func (c *Canvas) Source() pixel.Source { return canvasSource{c: c} }

func (s canvasSource) Format() pixfmt.Format { return pixfmt.Lookup(pixfmt.IDBgra32) }
func (s canvasSource) Width() int            { return s.c.Width }
func (s canvasSource) Height() int           { return s.c.Height }

func (s canvasSource) CopyPixels(area pixfmt.Area, stride int, dst []byte) error {
	if err := pixel.ValidateCopy(s, area, stride, dst); err != nil {
		return err
	}
	srcStride := s.c.Width * 4
	lineBytes := area.W * 4
	for row := 0; row < area.H; row++ {
		srcOff := (area.Y+row)*srcStride + area.X*4
		copy(dst[row*stride:row*stride+lineBytes], s.c.Pix[srcOff:srcOff+lineBytes])
	}
	return nil
}
