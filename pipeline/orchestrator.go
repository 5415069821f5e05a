package pipeline

import (
	"log/slog"

	"github.com/Nness/PhotoSauce/animctx"
	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/internal/profiler"
	"github.com/Nness/PhotoSauce/internal/yuv"
	"github.com/Nness/PhotoSauce/pixfmt"
	"github.com/Nness/PhotoSauce/transform"
)

// ProcessImage drives the end-to-end decode -> transform -> encode
// sequence: obtain the container's first
// frame, finalize settings against it, run the builder, and hand the
// resulting chain to enc. For an animated container it replays every
// frame in range through its own builder pass and the encoder's
// animation frame API instead of the single still-image call.
//
// The caller owns container and enc; ProcessImage only disposes the
// per-frame pipeline resources it itself registers.
func ProcessImage(container imgsrc.ImageContainer, settings *Settings, enc imgsrc.Encoder) error {
	if container.FrameCount() == 0 {
		return errs.New(errs.InvalidArgument, "processImage: container has no frames")
	}
	log := settings.Logger
	if log == nil {
		log = slog.Default()
	}

	if ac, ok := container.(imgsrc.AnimationContainer); ok && container.FrameCount() > 1 {
		aenc, ok := enc.(imgsrc.AnimatedEncoder)
		if !ok {
			return errs.New(errs.Unsupported, "processImage: container is animated but encoder does not support animation")
		}
		return processAnimation(container, ac, settings, aenc, log)
	}

	frame, err := container.GetFrame(0)
	if err != nil {
		return errs.Wrap(errs.Codec, err, "processImage: decode frame 0")
	}
	ctx := NewContext(settings, container, frame)
	defer ctx.Dispose()

	if err := finalizeSettings(ctx, frame); err != nil {
		return err
	}
	requestDecodeCrop(ctx, frame)

	if err := Build(ctx, enc); err != nil {
		return err
	}

	area := pixfmt.Area{X: 0, Y: 0, W: ctx.Source.Width(), H: ctx.Source.Height()}
	meta := imgsrc.FrameMetadata{IccProfile: ctx.DestProfile, Orientation: pixfmt.OrientationNormal}
	if settings.OrientationMode == OrientationPreserve {
		if tag, ok := frame.Orientation(); ok && pixfmt.Orientation(tag).Valid() {
			meta.Orientation = pixfmt.Orientation(tag)
		}
	}
	if err := writeFrame(ctx, enc, meta, area); err != nil {
		return errs.Wrap(errs.Codec, err, "processImage: write frame")
	}
	profiler.LogReport(log, ctx.Registry)
	if err := enc.Commit(); err != nil {
		return errs.Wrap(errs.Codec, err, "processImage: commit")
	}
	return nil
}

// finalizeSettings resolves ctx.Orientation against the frame's Exif tag
// and settings.OrientationMode. The destination color profile fallback
// (convert to sRGB when the encoder doesn't embed profiles) is the
// caller's call via Settings.ColorProfileMode; this only handles the
// orientation half.
func finalizeSettings(ctx *Context, frame imgsrc.ImageFrame) error {
	if ctx.Settings.OrientationMode != OrientationNormalize {
		ctx.Orientation = pixfmt.OrientationNormal
		return nil
	}
	if tag, ok := frame.Orientation(); ok && pixfmt.Orientation(tag).Valid() {
		ctx.Orientation = pixfmt.Orientation(tag)
	}
	return nil
}

// requestDecodeCrop offers a decoder capable of crop-during-decode
// (imgsrc.ICroppedDecoder) the chance to apply settings.Crop itself,
// mapped from presentation coordinates back to the frame's native
// storage coordinates via ReOrient so a decoder that only understands
// storage-order rows still gets the right rectangle. When the decoder
// accepts, ctx.Source is refreshed from the frame and settings.Crop is
// cleared so the builder's own Crop step becomes a no-op
// instead of cropping an already-cropped frame a second time.
func requestDecodeCrop(ctx *Context, frame imgsrc.ImageFrame) {
	if ctx.Settings.Crop == nil {
		return
	}
	cd, ok := ctx.Container.(imgsrc.ICroppedDecoder)
	if !ok {
		return
	}
	c := *ctx.Settings.Crop
	storage := pixfmt.ReOrient(
		pixfmt.Area{X: c.X, Y: c.Y, W: c.W, H: c.H},
		ctx.Orientation,
		ctx.Source.Width(), ctx.Source.Height(),
	)
	if err := cd.SetDecodeCrop(imgsrc.DecodeArea{X: storage.X, Y: storage.Y, W: storage.W, H: storage.H}); err != nil {
		return
	}
	ctx.Source = frame.PixelSource()
	ctx.Settings.Crop = nil
}

// writeFrame hands ctx.Source to enc, routing through a YccEncoder's
// native planar entry point when the encoder asks for it instead of
// always flattening to interleaved Bgr24 first: a codec whose own wire
// format is planar YCbCr, e.g. JPEG or WebP, shouldn't have to re-split
// a BGR frame the builder only merged to satisfy encoders that need
// interleaved input.
func writeFrame(ctx *Context, enc imgsrc.Encoder, meta imgsrc.FrameMetadata, area pixfmt.Area) error {
	ye, ok := enc.(imgsrc.YccEncoder)
	if !ok || !ye.PrefersYcc() || ctx.Source.Format().ID != pixfmt.IDBgr24 {
		return enc.WriteFrame(ctx.Source, meta, area)
	}
	split, err := transform.NewSplit(ctx.Source, yuv.BT601, false)
	if err != nil {
		return enc.WriteFrame(ctx.Source, meta, area)
	}
	planar, err := split.Planar()
	if err != nil {
		return errs.Wrap(errs.Codec, err, "writeFrame: split to planar")
	}
	return ye.WriteFrameYcc(planar.Y, planar.Cb, planar.Cr, planar.Subsampling, planar.Siting, meta, area)
}

// processAnimation replays container's frames through animctx onto a
// screen buffer sized by ac, running the builder over the composited
// canvas for every frame in settings' FrameRange and handing each result
// to aenc's animation frame API.
func processAnimation(container imgsrc.ImageContainer, ac imgsrc.AnimationContainer, settings *Settings, aenc imgsrc.AnimatedEncoder, log *slog.Logger) error {
	bg := ac.BackgroundColor()
	if err := aenc.WriteAnimationMetadata(imgsrc.AnimationMetadata{
		ScreenWidth:     ac.ScreenWidth(),
		ScreenHeight:    ac.ScreenHeight(),
		LoopCount:       ac.LoopCount(),
		BackgroundColor: bg,
	}); err != nil {
		return errs.Wrap(errs.Codec, err, "processAnimation: write animation metadata")
	}

	rng := settings.FrameRange.Resolve(container.FrameCount())

	// A container whose frames are each already a complete, independent
	// canvas (no inter-frame disposal/blend dependency) doesn't need the
	// replay screen buffer at all; per-frame processing can run directly
	// off each frame's own pixel source, which is both cheaper and keeps
	// the frame's own placement/blend/disposal metadata intact for the
	// encoder instead of flattening every frame to a full-canvas
	// overwrite.
	if !ac.RequiresScreenBuffer() {
		for i := rng.Start; i < rng.End; i++ {
			if err := processAnimationFrameDirect(container, settings, aenc, i, log); err != nil {
				return err
			}
		}
		if err := aenc.Commit(); err != nil {
			return errs.Wrap(errs.Codec, err, "processAnimation: commit")
		}
		return nil
	}

	replay := animctx.NewContext(newContainerAnimSource(container), ac.ScreenWidth(), ac.ScreenHeight())

	for i := rng.Start; i < rng.End; i++ {
		if err := replay.Seek(i); err != nil {
			return errs.Wrapf(errs.Codec, err, "processAnimation: seek to frame %d", i)
		}

		frame, err := container.GetFrame(i)
		if err != nil {
			return errs.Wrapf(errs.Codec, err, "processAnimation: decode frame %d", i)
		}

		ctx := NewContext(settings, container, frame)
		ctx.Animation = replay
		ctx.Source = replay.Canvas.Source()

		if err := finalizeSettings(ctx, frame); err != nil {
			ctx.Dispose()
			return err
		}
		if err := Build(ctx, aenc); err != nil {
			ctx.Dispose()
			return errs.Wrapf(errs.Codec, err, "processAnimation: build frame %d", i)
		}

		area := pixfmt.Area{X: 0, Y: 0, W: ctx.Source.Width(), H: ctx.Source.Height()}
		// Each emitted frame is the full composited canvas (replay.Seek
		// already applied every prior frame's disposal/blend), so the
		// encoder is told to place it at the origin, overwrite rather
		// than blend, and not dispose it further; the next iteration's
		// Seek is what reproduces the next frame's starting state.
		placement := imgsrc.FramePlacement{
			DurationMillis: frameDuration(settings, frame, i),
			HasAlpha:       true,
			Blend:          imgsrc.BlendNone,
			Disposal:       imgsrc.DisposeNone,
		}
		meta := imgsrc.FrameMetadata{IccProfile: ctx.DestProfile, Orientation: pixfmt.OrientationNormal}
		if err := aenc.WriteAnimationFrame(ctx.Source, meta, area, placement); err != nil {
			ctx.Dispose()
			return errs.Wrapf(errs.Codec, err, "processAnimation: write frame %d", i)
		}
		profiler.LogReport(log, ctx.Registry)
		if err := ctx.Dispose(); err != nil {
			log.Warn("processAnimation: dispose frame resources", "frame", i, "err", err)
		}
	}

	if err := aenc.Commit(); err != nil {
		return errs.Wrap(errs.Codec, err, "processAnimation: commit")
	}
	return nil
}

// processAnimationFrameDirect builds and emits one animation frame
// without screen-buffer replay, for containers that declare
// RequiresScreenBuffer()==false.
func processAnimationFrameDirect(container imgsrc.ImageContainer, settings *Settings, aenc imgsrc.AnimatedEncoder, i int, log *slog.Logger) error {
	frame, err := container.GetFrame(i)
	if err != nil {
		return errs.Wrapf(errs.Codec, err, "processAnimation: decode frame %d", i)
	}
	ctx := NewContext(settings, container, frame)
	defer func() {
		if err := ctx.Dispose(); err != nil {
			log.Warn("processAnimation: dispose frame resources", "frame", i, "err", err)
		}
	}()

	if err := finalizeSettings(ctx, frame); err != nil {
		return err
	}
	if err := Build(ctx, aenc); err != nil {
		return errs.Wrapf(errs.Codec, err, "processAnimation: build frame %d", i)
	}

	area := pixfmt.Area{X: 0, Y: 0, W: ctx.Source.Width(), H: ctx.Source.Height()}
	placement := imgsrc.FramePlacement{DurationMillis: frameDuration(settings, frame, i)}
	if af, ok := frame.(imgsrc.AnimationFrame); ok {
		placement.OffsetX = af.OffsetLeft()
		placement.OffsetY = af.OffsetTop()
		placement.HasAlpha = af.HasAlpha()
		placement.Blend = af.Blend()
		placement.Disposal = af.Disposal()
	}
	meta := imgsrc.FrameMetadata{IccProfile: ctx.DestProfile, Orientation: pixfmt.OrientationNormal}
	if err := aenc.WriteAnimationFrame(ctx.Source, meta, area, placement); err != nil {
		return errs.Wrapf(errs.Codec, err, "processAnimation: write frame %d", i)
	}
	profiler.LogReport(log, ctx.Registry)
	return nil
}

// frameDuration prefers the source container's own per-frame timing
// when it exposes imgsrc.AnimationFrame, falling back to
// Settings.AnimationFrameDuration (or a 100ms default) for a caller
// re-timing a re-encoded animation.
func frameDuration(s *Settings, frame imgsrc.ImageFrame, frameIndex int) int {
	if af, ok := frame.(imgsrc.AnimationFrame); ok {
		if d := af.DurationMillis(); d > 0 {
			return d
		}
	}
	if s.AnimationFrameDuration > 0 {
		return s.AnimationFrameDuration
	}
	return 100
}
