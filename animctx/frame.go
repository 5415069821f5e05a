// Package animctx replays an animated source's frame sequence onto a
// persistent screen buffer, modeling the four-state disposal
// model GIF/APNG containers need (None, Preserve, RestoreBackground,
// RestorePrevious) over this pipeline's own pixel.Source abstraction.
package animctx

// DisposeMethod controls how a frame's canvas region is treated once the
// next frame is about to be composited.
type DisposeMethod int

const (
	// DisposeNone leaves the canvas exactly as this frame rendered it; the
	// next frame composites on top of it.
	DisposeNone DisposeMethod = iota
	// DisposePreserve is like DisposeNone but signals the source
	// explicitly opted out of disposal (distinguished from DisposeNone,
	// which is the disposal-unspecified default, so a re-encoder can
	// round-trip the distinction).
	DisposePreserve
	// DisposeRestoreBackground fills the frame's own region with
	// transparent black before the next frame is composited.
	DisposeRestoreBackground
	// DisposeRestorePrevious restores the region to whatever the canvas
	// held immediately before this frame was composited.
	DisposeRestorePrevious
)

// BlendMethod controls how a frame's pixels are combined with whatever is
// already on the canvas in its region.
type BlendMethod int

const (
	// BlendAlpha alpha-composites (source-over) the frame onto the canvas.
	BlendAlpha BlendMethod = iota
	// BlendNone overwrites the canvas region with the frame's pixels.
	BlendNone
)

// Frame is one decoded animation frame and its placement/timing
// metadata. Pixels is fully decoded up front; this package does not own
// any lazy bitstream decoding.
type Frame struct {
	// Pixels is the decoded frame image, in straight-alpha Bgra32 (the
	// format Canvas composites in).
	Pixels []byte
	Width, Height int
	// Stride is Pixels' row stride in bytes; may exceed Width*4.
	Stride int

	// OffsetX/OffsetY place the frame on the canvas.
	OffsetX, OffsetY int

	// DurationMillis is the frame's display duration.
	DurationMillis int

	Dispose DisposeMethod
	Blend   BlendMethod
}

// Bounds returns (x0, y0, x1, y1) for the frame's placement on the canvas.
func (f *Frame) Bounds() (x0, y0, x1, y1 int) {
	return f.OffsetX, f.OffsetY, f.OffsetX + f.Width, f.OffsetY + f.Height
}
