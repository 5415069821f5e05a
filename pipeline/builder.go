package pipeline

import (
	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/internal/yuv"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
	"github.com/Nness/PhotoSauce/transform"
)

// paletteProvider is an optional capability a decoder's Indexed8 root
// source may implement so Build can resolve its color table without
// imgsrc needing to know about transform.Palette (avoiding an import
// cycle: transform doesn't depend on imgsrc, so the capability is
// declared here instead, where both packages are already in scope).
type paletteProvider interface {
	Palette() *transform.Palette
}

// Build assembles the transform chain for ctx's current Source in the
// pipeline's canonical step order, wrapping every appended
// transform in a pixel.Profiled node sharing ctx.Registry. enc, if
// non-nil, lets the builder consult the encoder and
// coerce the final format to whatever the encoder actually supports;
// pass nil to build a chain purely off Settings (e.g. to inspect the
// pipeline's output format before an encoder is chosen).
//
// Planar YCbCr sources are merged to Bgr24 as part of the format
// normalization step rather than carried as a separate planar code path
// through every later step: Bgr24 is already one of
// normalize's four valid targets, and merging early lets the later steps
// run through a single interleaved implementation instead of duplicating
// resample/sharpen/matte for a planar variant that the pre-encode merge
// step would collapse anyway. Orientation and crop still run per-plane
// beforehand, which is the only place the distinction matters.
func Build(ctx *Context, enc imgsrc.Encoder) error {
	s := ctx.Settings

	// Step 1: native scale.
	if err := nativeScale(ctx); err != nil {
		return err
	}

	// Step 2: animation frame buffering is handled by the orchestrator
	// before Build runs (it seeks ctx.Animation and sets ctx.Source to
	// the composited frame), so this step is a no-op here.

	// Step 3: color-profile read.
	readColorProfile(ctx)

	planar, err := buildPlanar(ctx)
	if err != nil {
		return err
	}

	// Step 4: orientation.
	if err := applyOrientation(ctx, &planar); err != nil {
		return err
	}

	// Step 5: crop, snapped to the chroma grid when planar.
	srcW, srcH := currentDims(ctx, planar)
	fx := Fixup(s, srcW, srcH)
	if err := applyCrop(ctx, &planar, fx.SourceCrop); err != nil {
		return err
	}

	// Some known-buggy CMYK decoders report inverted colors when the
	// frame was decoded at a different width than the crop it was asked
	// for. Gated behind an explicit capability flag on the container,
	// never inferred from the pixel data itself.
	applyCmykInvertWorkaround(ctx, planar, srcW, fx.SourceCrop.W)

	// Step 6: normalize to {Grey8, Bgr24, Bgra32, Pbgra32}, merging any
	// planar source to Bgr24 in the process.
	if err := normalize(ctx, planar); err != nil {
		return err
	}

	// Step 7: hybrid pre-scaler, while the chain is still 8-bit.
	if fx.HybridScaleRatio > 1 {
		hp, err := transform.NewHybridPrescale(ctx.Source, fx.HybridScaleRatio)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: hybrid prescale")
		}
		ctx.Source = wrap(ctx, hp, "hybrid_prescale")
	}

	// Step 8: convert to the internal working format.
	gamma, workingTarget, err := chooseWorkingFormat(ctx)
	if err != nil {
		return err
	}
	tw, err := transform.NewToWorking(ctx.Source, workingTarget, gamma)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: convert to working format")
	}
	ctx.Source = wrap(ctx, tw, "to_working")

	// Step 9: high-quality resample.
	if fx.InnerW != ctx.Source.Width() || fx.InnerH != ctx.Source.Height() {
		rs, err := transform.NewResize(ctx.Source, fx.InnerW, fx.InnerH, s.Kernel)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: resample")
		}
		ctx.Source = wrap(ctx, rs, "resample")
	}

	// Step 10: color-space transform.
	if s.ColorTransform != nil && ctx.Source.Format().IsLinear() {
		ct, err := transform.NewColorTransform(ctx.Source, s.ColorTransform)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: color transform")
		}
		ctx.Source = wrap(ctx, ct, "color_transform")
	}

	// Step 11: sharpen (unsharp mask).
	if s.Sharpen.Amount > 0 {
		sh, err := transform.NewSharpen(ctx.Source, s.Sharpen.Sigma, s.Sharpen.Amount, s.Sharpen.Threshold)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: sharpen")
		}
		ctx.Source = wrap(ctx, sh, "sharpen")
	}

	// Narrow back to an 8-bit normalized format: the remaining steps
	// (matte, pad) composite against a solid byte color and this
	// repo's concrete Matte/Pad transforms operate on 8-bit pixels, so
	// the float-domain work (resample/color-transform/sharpen) all runs
	// before this narrowing. Nothing float-domain happens between here
	// and the eventual external-format conversion, so narrowing early
	// has no observable effect.
	fw, err := transform.NewFromWorking(ctx.Source, normalizedTargetFor(ctx, workingTarget), gamma)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: convert from working format")
	}
	ctx.Source = wrap(ctx, fw, "from_working")

	// Step 12: matte.
	if s.Matte.Enabled {
		if ctx.Source.Format().ID == pixfmt.IDPbgra32 {
			// Matte expects straight alpha; fold through Normalize.
			n, err := transform.NewNormalize(ctx.Source, pixfmt.IDBgra32)
			if err != nil {
				return errs.Wrap(errs.Unsupported, err, "builder: un-premultiply before matte")
			}
			ctx.Source = wrap(ctx, n, "un-premultiply")
		}
		if ctx.Source.Format().ID == pixfmt.IDBgra32 {
			m, err := transform.NewMatte(ctx.Source, s.Matte.B, s.Matte.G, s.Matte.R, s.Matte.Enabled && s.BlendMode == BlendLinear, s.Matte.DropAlpha)
			if err != nil {
				return errs.Wrap(errs.Unsupported, err, "builder: matte")
			}
			ctx.Source = wrap(ctx, m, "matte")
		}
	}

	// Overlay a caller-supplied foreground (watermark/logo) over the
	// content before padding, so offsets stay in content coordinates
	// rather than the padded canvas's.
	if s.Overlay != nil {
		bg := ctx.Source
		if bg.Format().ID != pixfmt.IDBgra32 {
			n, err := transform.NewNormalize(bg, pixfmt.IDBgra32)
			if err != nil {
				return errs.Wrap(errs.Unsupported, err, "builder: normalize before overlay")
			}
			bg = wrap(ctx, n, "normalize")
		}
		ov, err := transform.NewOverlay(bg, s.Overlay.Foreground, s.Overlay.OffsetX, s.Overlay.OffsetY, s.Overlay.Blend)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: overlay")
		}
		ctx.Source = wrap(ctx, ov, "overlay")
	}

	// Step 13: pad to the outer canvas.
	if fx.OuterW > ctx.Source.Width() || fx.OuterH > ctx.Source.Height() {
		fill := padFillColor(ctx.Source.Format(), s.Matte)
		p, err := transform.NewPad(ctx.Source, fx.OuterW, fx.OuterH, fx.InnerRect.X, fx.InnerRect.Y, fill)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: pad")
		}
		ctx.Source = wrap(ctx, p, "pad")
	}

	// Step 14: planar->interleaved merge already happened at step 6.

	// Step 15/16: consult the encoder, converting to its closest
	// supported format (direct normalize, or quantize for Indexed8).
	if enc != nil {
		if err := coerceForEncoder(ctx, enc); err != nil {
			return err
		}
	} else if s.MaxPaletteColors > 0 {
		if err := quantize(ctx, s.MaxPaletteColors, s.Dither); err != nil {
			return err
		}
	}

	return nil
}

func wrap(ctx *Context, src pixel.Source, name string) pixel.Source {
	return pixel.WrapProfiled(src, ctx.Registry, name)
}

func nativeScale(ctx *Context) error {
	if ctx.Animation != nil {
		// The replay canvas is already the Source for an animated
		// pipeline; native decoder scaling would discard the composited
		// canvas in favor of the sub-frame's own pixel source.
		return nil
	}
	sd, ok := ctx.Frame.(imgsrc.IScaledDecoder)
	if !ok {
		return nil
	}
	s := ctx.Settings
	if s.Width <= 0 && s.Height <= 0 {
		return nil
	}
	fx := Fixup(s, ctx.Source.Width(), ctx.Source.Height())
	if fx.HybridScaleRatio <= 1 {
		return nil
	}
	if _, _, err := sd.SetDecodeScale(fx.HybridScaleRatio); err != nil {
		return nil // decoder declined; proceed at full resolution
	}
	ctx.Source = ctx.Frame.PixelSource()
	return nil
}

func readColorProfile(ctx *Context) {
	if ctx.Metadata == nil {
		return
	}
	if ip, ok := ctx.Metadata.IccProfileSource(); ok {
		buf := make([]byte, ip.ProfileLength())
		if err := ip.CopyProfile(buf); err == nil {
			ctx.SourceProfile = buf
		}
	}
	if ctx.Settings.ColorProfileMode == ColorProfilePreserve {
		ctx.DestProfile = ctx.SourceProfile
	}
}

func buildPlanar(ctx *Context) (*pixel.Planar, error) {
	if ctx.Animation != nil {
		// An animated pipeline's Source is already the replay canvas's
		// interleaved Bgra32 view (set by the orchestrator before Build
		// runs); the per-frame planar YCbCr planes ctx.Frame might
		// expose belong to the individual sub-frame the canvas already
		// composited, not to the canvas itself.
		return nil, nil
	}
	yf, ok := ctx.Frame.(imgsrc.IYccImageFrame)
	if !ok {
		return nil, nil
	}
	y, cb, cr, sub, siting, ok := yf.YccSource()
	if !ok {
		return nil, nil
	}
	p, err := pixel.NewPlanar(y, cb, cr, sub, siting)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, err, "builder: planar source")
	}
	return p, nil
}

func currentDims(ctx *Context, planar *pixel.Planar) (int, int) {
	if planar != nil {
		return planar.Width(), planar.Height()
	}
	return ctx.Source.Width(), ctx.Source.Height()
}

func applyOrientation(ctx *Context, planar **pixel.Planar) error {
	if ctx.Settings.OrientationMode != OrientationNormalize || ctx.Orientation == pixfmt.OrientationNormal {
		return nil
	}
	if *planar != nil {
		p := *planar
		oy, err := transform.NewOrientation(p.Y, ctx.Orientation)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: orient luma plane")
		}
		ocb, err := transform.NewOrientation(p.Cb, ctx.Orientation)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: orient Cb plane")
		}
		ocr, err := transform.NewOrientation(p.Cr, ctx.Orientation)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: orient Cr plane")
		}
		*planar = &pixel.Planar{Y: oy, Cb: ocb, Cr: ocr, Subsampling: p.Subsampling, Siting: p.Siting}
		return nil
	}
	o, err := transform.NewOrientation(ctx.Source, ctx.Orientation)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: orientation")
	}
	ctx.Source = wrap(ctx, o, "orientation")
	return nil
}

func applyCrop(ctx *Context, planar **pixel.Planar, area pixfmt.Area) error {
	if *planar != nil {
		p := *planar
		if area.W == p.Width() && area.H == p.Height() && area.X == 0 && area.Y == 0 {
			return nil
		}
		np, err := transform.CropPlanar(p, area)
		if err != nil {
			return errs.Wrap(errs.InvalidArgument, err, "builder: crop planar")
		}
		*planar = np
		return nil
	}
	if area.W == ctx.Source.Width() && area.H == ctx.Source.Height() && area.X == 0 && area.Y == 0 {
		return nil
	}
	c, err := transform.NewCrop(ctx.Source, area)
	if err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "builder: crop")
	}
	ctx.Source = wrap(ctx, c, "crop")
	return nil
}

// applyCmykInvertWorkaround inserts an Invert node ahead of a CMYK source
// when ctx.Container declares the KnownBuggyCMYKDecoder capability and the
// decode width differs from the requested crop width: the
// specific decoder bug this works around only manifests under that
// mismatch, so the probe guards against inverting correctly-decoded CMYK
// from a well-behaved adapter that merely happens to set the same flag.
func applyCmykInvertWorkaround(ctx *Context, planar *pixel.Planar, decodeW, cropW int) {
	if planar != nil || ctx.Source.Format().ID != pixfmt.IDCmyk32 {
		return
	}
	cp, ok := ctx.Container.(imgsrc.CapabilitiesProvider)
	if !ok || !cp.Capabilities().KnownBuggyCMYKDecoder {
		return
	}
	if decodeW == cropW {
		return
	}
	ctx.Source = wrap(ctx, transform.NewInvert(ctx.Source), "cmyk_invert_workaround")
}

func normalize(ctx *Context, planar *pixel.Planar) error {
	if planar != nil {
		m := transform.NewMerge(planar, yuv.BT601, planar.Y.Format().Range == pixfmt.Video)
		ctx.Source = wrap(ctx, m, "merge")
		return nil
	}

	if pp, ok := ctx.Source.(paletteProvider); ok {
		pd, err := transform.NewPaletteToDirect(ctx.Source, pp.Palette())
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: palette to direct")
		}
		ctx.Source = wrap(ctx, pd, "palette_to_direct")
	}

	target := normalizeTargetFor(ctx.Source.Format())
	if ctx.Source.Format().ID == target {
		return nil
	}
	n, err := transform.NewNormalize(ctx.Source, target)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: normalize")
	}
	ctx.Source = wrap(ctx, n, "normalize")
	return nil
}

// normalizeTargetFor picks one of {Grey8, Bgr24, Bgra32, Pbgra32} for a
// direct (already-merged, non-indexed) source format.
func normalizeTargetFor(f pixfmt.Format) pixfmt.ID {
	switch f.Color {
	case pixfmt.ColorGrey, pixfmt.ColorY:
		return pixfmt.IDGrey8
	}
	switch f.Alpha {
	case pixfmt.AlphaPremultiplied:
		return pixfmt.IDPbgra32
	case pixfmt.AlphaStraight:
		return pixfmt.IDBgra32
	default:
		return pixfmt.IDBgr24
	}
}

// chooseWorkingFormat picks the wide working-format ID to widen ctx.Source
// into, and builds the gamma table when linear blending or the Q15
// working formats are requested.
func chooseWorkingFormat(ctx *Context) (*convert.Interpolating, pixfmt.ID, error) {
	linear := ctx.Settings.BlendMode == BlendLinear
	q15 := ctx.Settings.PreferQ15
	var gamma *convert.Interpolating
	if linear || q15 {
		// The FixedQ15 working formats are all linear-light, so the Q15
		// path needs the gamma tables regardless of BlendMode.
		gamma = convert.NewInterpolatingSRGB()
	}

	switch ctx.Source.Format().ID {
	case pixfmt.IDGrey8:
		if q15 {
			return gamma, pixfmt.IDGrey16UQ15Linear, nil
		}
		if linear {
			return gamma, pixfmt.IDGrey32FloatLinear, nil
		}
		return gamma, pixfmt.IDGrey32Float, nil
	case pixfmt.IDBgr24:
		if q15 {
			return gamma, pixfmt.IDBgr48UQ15Linear, nil
		}
		if linear {
			return gamma, pixfmt.IDBgr96FloatLinear, nil
		}
		return gamma, pixfmt.IDBgr96Float, nil
	case pixfmt.IDBgra32, pixfmt.IDPbgra32:
		// Straight alpha (Bgra32) is premultiplied into the same wide
		// representation as Pbgra32 during the widen step (transform.ToWorking),
		// rather than into an alpha-less Bgrx working format: resampling a
		// straight-alpha source without premultiplying first would bleed
		// background color into the edges of transparent regions.
		if q15 {
			return gamma, pixfmt.IDPbgra64UQ15Linear, nil
		}
		if linear {
			return gamma, pixfmt.IDPbgra128FloatLinear, nil
		}
		return gamma, pixfmt.IDPbgra128Float, nil
	default:
		return nil, 0, errs.New(errs.Unsupported, "builder: no working format for normalized source")
	}
}

// normalizedTargetFor maps a working-format ID back to its 8-bit pairing,
// for the FromWorking step.
func normalizedTargetFor(ctx *Context, workingID pixfmt.ID) pixfmt.ID {
	switch workingID {
	case pixfmt.IDGrey32Float, pixfmt.IDGrey32FloatLinear, pixfmt.IDGrey16UQ15Linear:
		return pixfmt.IDGrey8
	case pixfmt.IDBgr96Float, pixfmt.IDBgr96FloatLinear, pixfmt.IDBgr48UQ15Linear:
		return pixfmt.IDBgr24
	case pixfmt.IDPbgra128Float, pixfmt.IDPbgra128FloatLinear, pixfmt.IDPbgra64UQ15Linear:
		return pixfmt.IDPbgra32
	default:
		return pixfmt.IDBgr24
	}
}

func padFillColor(f pixfmt.Format, matte MatteSettings) []byte {
	bpp := f.BytesPerPixel()
	fill := make([]byte, bpp)
	switch bpp {
	case 1:
		fill[0] = matte.B
	case 3:
		fill[0], fill[1], fill[2] = matte.B, matte.G, matte.R
	case 4:
		fill[0], fill[1], fill[2], fill[3] = matte.B, matte.G, matte.R, 255
	}
	return fill
}

func quantize(ctx *Context, maxColors int, dither bool) error {
	if ctx.Source.Format().ID != pixfmt.IDBgr24 && ctx.Source.Format().ID != pixfmt.IDBgra32 {
		n, err := transform.NewNormalize(ctx.Source, pixfmt.IDBgr24)
		if err != nil {
			return errs.Wrap(errs.Unsupported, err, "builder: normalize before quantize")
		}
		ctx.Source = wrap(ctx, n, "normalize")
	}
	tree, err := transform.BuildOctreeFromSource(ctx.Source, maxColors)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: build octree")
	}
	pal, isExact := tree.BuildPalette()
	var d *transform.Dither
	if dither {
		d = transform.NewDither(1.0)
	}
	q, err := transform.NewQuantize(ctx.Source, tree, pal, isExact, d)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: quantize")
	}
	ctx.Source = wrap(ctx, q, "quantize")
	return nil
}

// coerceForEncoder asks enc whether it accepts the chain's current
// output format, converting to its closest supported one otherwise via
// the GetClosestPixelFormat probe.
func coerceForEncoder(ctx *Context, enc imgsrc.Encoder) error {
	current := ctx.Source.Format().ID
	if enc.SupportsPixelFormat(current) {
		if ctx.Settings.MaxPaletteColors > 0 && current != pixfmt.IDIndexed8 {
			return quantize(ctx, ctx.Settings.MaxPaletteColors, ctx.Settings.Dither)
		}
		return nil
	}
	closest := enc.GetClosestPixelFormat(current)
	if closest == current {
		return nil
	}
	if closest == pixfmt.IDIndexed8 {
		return quantize(ctx, maxColorsOrDefault(ctx.Settings.MaxPaletteColors), ctx.Settings.Dither)
	}
	n, err := transform.NewNormalize(ctx.Source, closest)
	if err != nil {
		return errs.Wrap(errs.Unsupported, err, "builder: coerce to encoder format")
	}
	ctx.Source = wrap(ctx, n, "normalize")
	return nil
}

func maxColorsOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return 256
}
