package animctx

// Source is a decode-on-demand frame producer; it's the minimal interface
// animctx needs from an upstream animated decoder, kept narrow so it
// doesn't couple to any particular container package.
type Source interface {
	FrameCount() int
	DecodeFrame(index int) (*Frame, error)
}

// Context replays frames from a Source onto a persistent Canvas,
// supporting random-access seeks: reaching an arbitrary output frame
// means decoding and compositing every frame in between from the last
// known-good canvas state, since disposal is only reversible by replay,
// not by storing a single prior canvas.
type Context struct {
	src    Source
	Canvas *Canvas

	// composedUpTo is the index of the last frame successfully composited
	// onto Canvas (-1 before the first frame).
	composedUpTo int
	// pendingFrame is the last composited frame, whose disposal has not
	// yet been applied: a frame's disposal operates on the canvas only
	// when the NEXT frame is about to composite, so the canvas keeps
	// showing the frame itself until then.
	pendingFrame *Frame
	// pendingSnapshot is the canvas state captured just before
	// pendingFrame was composited, needed if its disposal is
	// DisposeRestorePrevious.
	pendingSnapshot []byte
}

// NewContext builds a replay context over src with a canvas sized w x h
// (the animation's logical screen size, which may exceed any single
// frame's dimensions).
func NewContext(src Source, w, h int) *Context {
	return &Context{src: src, Canvas: NewCanvas(w, h), composedUpTo: -1}
}

// Seek ensures the canvas shows frame index as a viewer would see it:
// every prior frame composited and disposed, frame index composited, its
// own disposal still pending. It replays from scratch if index is behind
// the context's current position (disposal isn't invertible in general,
// so "rewinding" means restarting).
func (c *Context) Seek(index int) error {
	if index < c.composedUpTo {
		c.Canvas.Clear()
		c.composedUpTo = -1
		c.pendingFrame = nil
		c.pendingSnapshot = nil
	}
	for c.composedUpTo < index {
		next := c.composedUpTo + 1
		f, err := c.src.DecodeFrame(next)
		if err != nil {
			return err
		}
		if c.pendingFrame != nil {
			c.Canvas.ApplyDispose(c.pendingFrame, c.pendingSnapshot)
		}
		snapshot := c.Canvas.Snapshot()
		c.Canvas.Composite(f)
		c.pendingFrame = f
		c.pendingSnapshot = snapshot
		c.composedUpTo = next
	}
	return nil
}

// CurrentFrame returns the index of the last frame composited, or -1 if
// none has been.
func (c *Context) CurrentFrame() int { return c.composedUpTo }
