// Package imgsrc defines the external decoder/encoder contracts the
// pipeline orchestrator drives: opaque codec adapters for
// concrete formats (PNG/JPEG/JPEG XL/HEIF/WebP/GIF) are out of this
// repo's scope, but the interfaces they must satisfy to plug into
// pipeline.ProcessImage are not.
package imgsrc

import "github.com/Nness/PhotoSauce/pixel"

// ImageContainer is a decoded (or lazily-decoding) source file: one or
// more frames plus the container-level metadata needed to drive the
// builder.
type ImageContainer interface {
	MimeType() string
	FrameCount() int
	GetFrame(i int) (ImageFrame, error)
}

// ImageFrame exposes one frame's root pixel source plus whatever
// metadata the container could recover for it.
type ImageFrame interface {
	PixelSource() pixel.Source
	// MetadataSource returns the frame's metadata accessor, or nil if
	// the container carries none.
	MetadataSource() MetadataSource
	// Orientation returns the frame's Exif orientation tag, or
	// (OrientationNormal, false) if the container has no Exif block.
	Orientation() (orientation int, ok bool)
}

// MetadataSource bundles a frame's optional color-profile and Exif
// accessors; a container that has neither returns a MetadataSource
// whose methods all report ok=false.
type MetadataSource interface {
	IccProfileSource() (IccProfileSource, bool)
	ExifSource() (ExifSource, bool)
}

// IccProfileSource exposes an embedded ICC color profile's raw bytes
// without the engine parsing them; the profile is an opaque blob the
// destination adapter re-embeds.
type IccProfileSource interface {
	ProfileLength() int
	CopyProfile(buf []byte) error
}

// ExifSource exposes an embedded Exif block's raw bytes.
type ExifSource interface {
	ExifLength() int
	CopyExif(buf []byte) error
}

// IYccImageFrame is an optional capability: containers that decode
// planar YCbCr natively (JPEG, most WebP) can expose the three planes
// directly instead of forcing the engine to re-derive them from an
// already-merged interleaved frame.
type IYccImageFrame interface {
	YccSource() (y, cb, cr pixel.Source, sub pixel.ChromaSubsampling, siting pixel.ChromaSiting, ok bool)
}

// ICroppedDecoder is an optional capability: a decoder that can apply a
// crop during decode (saving the cost of decoding discarded rows) is
// asked to do so before the builder's own Crop transform runs, so crop
// becomes a no-op in the chain when it was already applied source-side.
type ICroppedDecoder interface {
	SetDecodeCrop(area DecodeArea) error
}

// DecodeArea mirrors pixfmt.Area's shape without importing pixfmt here,
// since the decoder-crop request is expressed in a frame's native
// storage coordinates before any PixelSource exists to validate against.
type DecodeArea struct {
	X, Y, W, H int
}

// IScaledDecoder is an optional capability: a decoder able to produce a
// pre-downscaled frame (JPEG DCT scaling, WebP's own scaled decode) is
// asked for the builder's step 1 "native scale" before the hybrid
// pre-scaler and high-quality resample run on whatever it could manage,
// cutting the amount of data the rest of the chain ever sees.
type IScaledDecoder interface {
	// SetDecodeScale requests decoding at approximately 1/ratio scale
	// (ratio >= 1); it returns the actual (w, h) the decoder will
	// produce, which may differ from the exact request.
	SetDecodeScale(ratio int) (w, h int, err error)
}

// AnimationContainer is an optional capability an ImageContainer
// implements when it declares a multi-frame animation:
// the orchestrator consults it to size
// the replay screen buffer and to decide whether one is needed at all
// (a container whose frames are all full-canvas DisposeNone/BlendNone
// doesn't need compositing, so RequiresScreenBuffer lets it opt out).
type AnimationContainer interface {
	ScreenWidth() int
	ScreenHeight() int
	LoopCount() int
	// BackgroundColor is BGRA.
	BackgroundColor() [4]byte
	RequiresScreenBuffer() bool
}

// AnimationFrame is an optional capability an ImageFrame implements
// alongside AnimationContainer, exposing per-frame placement, timing,
// and disposal metadata.
type AnimationFrame interface {
	OffsetLeft() int
	OffsetTop() int
	DurationMillis() int
	HasAlpha() bool
	Blend() BlendMode
	Disposal() DisposalMode
}

// FrameRange selects the subset of an animation's frames the
// orchestrator emits. Frames before Start that a
// disposal-Preserve frame in between depends on are still decoded and
// composited onto the screen buffer; they are simply not emitted.
type FrameRange struct {
	Start, End int // [Start, End), End <= 0 means "through the last frame"
}

// Resolve clamps r against frameCount, defaulting a zero-value
// FrameRange to the whole animation.
func (r FrameRange) Resolve(frameCount int) FrameRange {
	if r.End <= 0 || r.End > frameCount {
		r.End = frameCount
	}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}
