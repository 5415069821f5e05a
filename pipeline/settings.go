// Package pipeline assembles the ordered chain of transform.* nodes a
// finalized Settings calls for, resolves a source's
// dimensions against a requested target size (Fixup), and drives
// the whole decode -> transform -> encode sequence (ProcessImage).
package pipeline

import (
	"log/slog"

	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/resample"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/transform"
)

// Kernel is the interpolation kernel interface, aliased here so callers
// outside this module can name kernels without reaching into internal
// packages.
type Kernel = resample.Kernel

// The resample kernels, re-exported for the same reason.
var (
	NearestNeighbor   Kernel = resample.NearestNeighbor
	Bilinear          Kernel = resample.Linear
	CatmullRom        Kernel = resample.CatmullRom
	MitchellNetravali Kernel = resample.MitchellNetravali
	Lanczos2          Kernel = resample.Lanczos2
	Lanczos3          Kernel = resample.Lanczos3
	Spline36          Kernel = resample.Spline36
)

// ResizeMode controls how a source's aspect ratio is reconciled with a
// requested target size.
type ResizeMode int

const (
	// ResizeContain scales to fit entirely within the target box,
	// leaving the requested canvas if padding is also configured.
	ResizeContain ResizeMode = iota
	// ResizeCover scales to fill the target box, cropping whichever
	// axis overflows it.
	ResizeCover
	// ResizeStretch scales both axes independently to the target size,
	// ignoring the source aspect ratio.
	ResizeStretch
	// ResizeCrop takes a caller-specified crop rectangle verbatim and
	// scales it to the target size.
	ResizeCrop
)

// HybridMode selects whether the box-filter pre-scaler runs ahead
// of the high-quality resample kernel on a large downscale.
type HybridMode int

const (
	// HybridOff never runs the box pre-scaler; the requested kernel
	// alone handles the whole reduction.
	HybridOff HybridMode = iota
	// HybridFavorSpeed runs the pre-scaler whenever the ratio clears
	// the 2x threshold.
	HybridFavorSpeed
	// HybridTurbo is an alias of HybridFavorSpeed kept for callers
	// porting settings from the original API's naming.
	HybridTurbo = HybridFavorSpeed
)

// OrientationMode controls whether a frame's Exif orientation is baked
// into the output pixels.
type OrientationMode int

const (
	// OrientationNormalize rotates/flips the pixels to match the Exif
	// tag and resets the output tag to "normal" (the common case).
	OrientationNormalize OrientationMode = iota
	// OrientationPreserve leaves the pixels in storage order and
	// carries the original Exif tag through to the encoder unchanged
	// for a still image; animation frames are written with
	// OrientationNormal.
	OrientationPreserve
	// OrientationIgnore leaves the pixels in storage order and drops
	// the orientation tag entirely, matching viewers with no Exif support.
	OrientationIgnore
)

// BlendMode selects whether resample/sharpen/matte math happens in
// linear light or in the source's native (usually companded) encoding.
type BlendMode int

const (
	BlendCompanded BlendMode = iota
	BlendLinear
)

// ColorProfileMode controls destination color-profile handling when the
// encoder can't or won't embed one.
type ColorProfileMode int

const (
	// ColorProfilePreserve carries the source profile through untouched
	// (an opaque blob; see imgsrc.IccProfileSource).
	ColorProfilePreserve ColorProfileMode = iota
	// ColorProfileConvertToSrgb converts pixel data to sRGB primaries
	// via the configured ColorTransform and emits no embedded profile,
	// the fallback for encoders that don't embed profiles.
	ColorProfileConvertToSrgb
)

// SharpenSettings parameterizes the unsharp-mask stage. Amount
// <= 0 disables sharpening.
type SharpenSettings struct {
	Sigma     float64
	Amount    float32
	Threshold float32
}

// MatteSettings parameterizes the alpha-flatten stage. Enabled
// must be true for the builder to insert a Matte node at all; an
// animated pipeline typically leaves this false so alpha survives into
// the encoder's frame compositing.
type MatteSettings struct {
	Enabled   bool
	B, G, R   byte
	DropAlpha bool
}

// OverlaySettings composites a caller-supplied foreground (a watermark
// or logo, typically) over the builder's output ahead of padding to the
// outer canvas. Foreground must be
// a pixel.Source; it's pulled lazily a row at a time like any other
// chain link.
type OverlaySettings struct {
	Foreground       pixel.Source
	OffsetX, OffsetY int
	Blend            transform.OverlayBlend
}

// Settings is the fully user-facing configuration surface, built with
// functional options rather than a flag/config-file parser;
// config surfacing is out of this library's scope.
type Settings struct {
	Width, Height int
	ResizeMode    ResizeMode
	Crop          *CropSpec

	HybridMode HybridMode
	Kernel     Kernel

	OrientationMode OrientationMode
	BlendMode       BlendMode

	Sharpen SharpenSettings
	Matte   MatteSettings
	Overlay *OverlaySettings

	ColorProfileMode ColorProfileMode
	ColorTransform   transform.ColorTransformProvider

	MaxPaletteColors int
	Dither           bool

	// FrameRange selects which frames of an animated container
	// ProcessImage emits; the zero value means the whole animation.
	FrameRange imgsrc.FrameRange
	// AnimationFrameDuration overrides a re-encoded animation's
	// per-frame display duration (milliseconds) when the source
	// container's own frame doesn't expose imgsrc.AnimationFrame timing.
	AnimationFrameDuration int

	// PreferQ15 selects the fixed-point Q15 working formats over the
	// float ones, which tolerate the absence of vector floats with
	// acceptable accuracy. This repo has no
	// architecture-specific SIMD dispatch, so float is the default;
	// PreferQ15 is for callers targeting a platform where Q15's lower
	// memory bandwidth matters more than float's simpler math.
	PreferQ15 bool

	Logger *slog.Logger
}

// CropSpec is a caller-specified crop rectangle in the source's
// presentation (post-orientation) coordinate space.
type CropSpec struct {
	X, Y, W, H int
}

// Option mutates a Settings being built by NewSettings.
type Option func(*Settings)

// NewSettings builds a Settings with the pipeline's defaults (Lanczos3
// resampling, companded blending, Exif-normalizing orientation, no
// sharpening/matte/quantize), applying opts in order.
func NewSettings(opts ...Option) *Settings {
	s := &Settings{
		ResizeMode:      ResizeContain,
		HybridMode:      HybridFavorSpeed,
		Kernel:          resample.Lanczos3,
		OrientationMode: OrientationNormalize,
		BlendMode:       BlendCompanded,
		Logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSize sets the target dimensions and resize mode.
func WithSize(w, h int, mode ResizeMode) Option {
	return func(s *Settings) { s.Width, s.Height = w, h; s.ResizeMode = mode }
}

// WithCrop requests an explicit pre-crop rectangle (presentation coords).
func WithCrop(x, y, w, h int) Option {
	return func(s *Settings) { s.Crop = &CropSpec{X: x, Y: y, W: w, H: h} }
}

// WithHybridMode overrides the box-prescaler policy.
func WithHybridMode(m HybridMode) Option {
	return func(s *Settings) { s.HybridMode = m }
}

// WithKernel overrides the high-quality resample kernel.
func WithKernel(k Kernel) Option {
	return func(s *Settings) { s.Kernel = k }
}

// WithOrientationMode overrides Exif orientation handling.
func WithOrientationMode(m OrientationMode) Option {
	return func(s *Settings) { s.OrientationMode = m }
}

// WithBlendMode overrides companded-vs-linear working math.
func WithBlendMode(m BlendMode) Option {
	return func(s *Settings) { s.BlendMode = m }
}

// WithSharpen enables unsharp-mask sharpening.
func WithSharpen(sigma float64, amount, threshold float32) Option {
	return func(s *Settings) { s.Sharpen = SharpenSettings{Sigma: sigma, Amount: amount, Threshold: threshold} }
}

// WithMatte enables alpha flattening onto a solid BGR color.
func WithMatte(b, g, r byte, dropAlpha bool) Option {
	return func(s *Settings) {
		s.Matte = MatteSettings{Enabled: true, B: b, G: g, R: r, DropAlpha: dropAlpha}
	}
}

// WithOverlay composites foreground over the pipeline's output at
// (offsetX, offsetY), ahead of any outer-canvas padding.
func WithOverlay(foreground pixel.Source, offsetX, offsetY int, blend transform.OverlayBlend) Option {
	return func(s *Settings) {
		s.Overlay = &OverlaySettings{Foreground: foreground, OffsetX: offsetX, OffsetY: offsetY, Blend: blend}
	}
}

// WithColorProfileMode overrides destination color-profile handling.
func WithColorProfileMode(m ColorProfileMode) Option {
	return func(s *Settings) { s.ColorProfileMode = m }
}

// WithColorTransform installs a color-space conversion provider, run
// after resample when non-nil.
func WithColorTransform(p transform.ColorTransformProvider) Option {
	return func(s *Settings) { s.ColorTransform = p }
}

// WithPalette requests indexed-color quantization with up to maxColors
// palette entries.
func WithPalette(maxColors int, dither bool) Option {
	return func(s *Settings) { s.MaxPaletteColors = maxColors; s.Dither = dither }
}

// WithLogger overrides the pipeline's structured logger (default:
// slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithQ15Working selects the fixed-point Q15 working formats instead of
// the default float ones.
func WithQ15Working(preferQ15 bool) Option {
	return func(s *Settings) { s.PreferQ15 = preferQ15 }
}

// WithFrameRange restricts ProcessImage to frames [start, end) of an
// animated container; end <= 0 means through the last frame.
func WithFrameRange(start, end int) Option {
	return func(s *Settings) { s.FrameRange = imgsrc.FrameRange{Start: start, End: end} }
}

// WithAnimationFrameDuration sets the fallback per-frame duration (ms)
// used when re-encoding an animation whose source frames carry no
// AnimationFrame timing of their own.
func WithAnimationFrameDuration(ms int) Option {
	return func(s *Settings) { s.AnimationFrameDuration = ms }
}
