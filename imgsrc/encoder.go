package imgsrc

import (
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// FrameMetadata carries the per-frame metadata an encoder may choose to
// embed: an already-resolved color profile (opaque bytes, never parsed
// here) and Exif orientation/bytes.
type FrameMetadata struct {
	IccProfile []byte
	Exif       []byte
	// Orientation is the Exif orientation the encoder should tag the
	// output with, typically OrientationNormal once the builder has
	// already baked any rotation into the pixels.
	Orientation pixfmt.Orientation
}

// Encoder is the write-side adapter a container format implements.
// WriteFrame pulls CopyPixels itself from source over
// area; the pipeline never buffers whole frames for the encoder's
// benefit.
type Encoder interface {
	SupportsPixelFormat(id pixfmt.ID) bool
	GetClosestPixelFormat(id pixfmt.ID) pixfmt.ID
	WriteFrame(source pixel.Source, meta FrameMetadata, area pixfmt.Area) error
	Commit() error
}

// AnimationMetadata is the container-level animation header an animated
// encoder writes before its first frame.
type AnimationMetadata struct {
	ScreenWidth, ScreenHeight int
	LoopCount                 int
	BackgroundColor           [4]byte // BGRA
}

// YccEncoder is an optional capability an Encoder implements when its
// native wire format is planar YCbCr (JPEG, most WebP): writing the
// three planes directly spares the codec a round trip back through
// interleaved BGR it would just re-split internally anyway. PrefersYcc
// lets the encoder opt out per-call (e.g. a lossless WebP frame might
// still want interleaved ARGB) without the caller needing its own
// format-sniffing logic.
type YccEncoder interface {
	Encoder
	PrefersYcc() bool
	WriteFrameYcc(y, cb, cr pixel.Source, sub pixel.ChromaSubsampling, siting pixel.ChromaSiting, meta FrameMetadata, area pixfmt.Area) error
}

// AnimatedEncoder extends Encoder with the animation container header
// and per-frame placement/timing the still-image Encoder contract has
// no room for.
type AnimatedEncoder interface {
	Encoder
	WriteAnimationMetadata(meta AnimationMetadata) error
	WriteAnimationFrame(source pixel.Source, meta FrameMetadata, area pixfmt.Area, placement FramePlacement) error
}

// FramePlacement is one animation frame's canvas offset, duration, and
// disposal/blend mode, the write-side mirror of AnimationFrame.
type FramePlacement struct {
	OffsetX, OffsetY int
	DurationMillis   int
	HasAlpha         bool
	Blend            BlendMode
	Disposal         DisposalMode
}

// BlendMode mirrors animctx.BlendMethod without importing animctx here
// (imgsrc describes the external wire contract; animctx is an internal
// replay mechanism layered on top of it in the builder).
type BlendMode int

const (
	BlendAlpha BlendMode = iota
	BlendNone
)

// DisposalMode mirrors animctx.DisposeMethod, see BlendMode's comment.
type DisposalMode int

const (
	DisposeNone DisposalMode = iota
	DisposePreserve
	DisposeRestoreBackground
	DisposeRestorePrevious
)
