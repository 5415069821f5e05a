package pipeline

import (
	"github.com/Nness/PhotoSauce/animctx"
	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/profiler"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Context is the per-image, per-call mutable pipeline state: the
// resolved settings, the Exif orientation decided
// for this run, the container/frame it was built from, the current head
// of the transform chain, whatever metadata the container exposed, the
// source/destination color profiles (opaque blobs; profile parsing
// happens in the codec adapters), an optional animation replay context, and the
// list of resources to dispose in reverse order once the pipeline is
// done with this image.
//
// A Context is created once per image and is not reentrant: at most one
// CopyPixels traversal may be in flight at a time.
type Context struct {
	Settings    *Settings
	Orientation pixfmt.Orientation

	Container imgsrc.ImageContainer
	Frame     imgsrc.ImageFrame

	// Source is the current head of the transform chain; the builder
	// reassigns this as it appends each step.
	Source pixel.Source

	Metadata imgsrc.MetadataSource

	SourceProfile []byte
	DestProfile   []byte

	// Animation is non-nil only when Container declares more than one
	// frame.
	Animation *animctx.Context

	Registry *profiler.Registry

	disposables []pixel.Closer
}

// NewContext builds a Context for one frame of container, with frame's
// root pixel source as the initial chain head. Orientation defaults to
// OrientationNormal; finalizeSettings (called by the orchestrator) resolves it
// against settings.OrientationMode and the frame's own Exif tag.
func NewContext(settings *Settings, container imgsrc.ImageContainer, frame imgsrc.ImageFrame) *Context {
	return &Context{
		Settings:    settings,
		Orientation: pixfmt.OrientationNormal,
		Container:   container,
		Frame:       frame,
		Source:      frame.PixelSource(),
		Metadata:    frame.MetadataSource(),
		Registry:    profiler.NewRegistry(),
	}
}

// Register records src as owned by this context so Dispose releases it,
// independent of whatever the builder's chain-of-Chained ownership
// already covers. Used for secondary sources (a Planar's three planes
// before Merge runs, an animation screen buffer) that aren't reachable
// by walking Source.(Closer) alone.
func (c *Context) Register(src pixel.Closer) {
	if src != nil {
		c.disposables = append(c.disposables, src)
	}
}

// Dispose releases every registered resource in reverse-registration
// order, then the chain head itself if it is a Closer, continuing past
// the first error so one leak doesn't mask another.
func (c *Context) Dispose() error {
	var first error
	for i := len(c.disposables) - 1; i >= 0; i-- {
		if err := c.disposables[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	c.disposables = nil
	if cl, ok := c.Source.(pixel.Closer); ok {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
