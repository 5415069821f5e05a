package pipeline

import (
	"github.com/Nness/PhotoSauce/animctx"
	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixfmt"
	"github.com/Nness/PhotoSauce/transform"
)

// containerAnimSource adapts an imgsrc.ImageContainer into the narrow
// animctx.Source contract, decoding each frame's root
// pixel source to straight-alpha Bgra32 and attaching the placement
// metadata an AnimationFrame-capable frame advertises.
type containerAnimSource struct {
	container imgsrc.ImageContainer
}

func newContainerAnimSource(c imgsrc.ImageContainer) animctx.Source {
	return &containerAnimSource{container: c}
}

func (s *containerAnimSource) FrameCount() int { return s.container.FrameCount() }

func (s *containerAnimSource) DecodeFrame(index int) (*animctx.Frame, error) {
	f, err := s.container.GetFrame(index)
	if err != nil {
		return nil, errs.Wrap(errs.Codec, err, "animation: decode frame")
	}
	src := f.PixelSource()

	if src.Format().ID != pixfmt.IDBgra32 {
		n, err := transform.NewNormalize(src, pixfmt.IDBgra32)
		if err != nil {
			return nil, errs.Wrap(errs.Unsupported, err, "animation: normalize frame to Bgra32")
		}
		src = n
	}

	w, h := src.Width(), src.Height()
	stride := w * 4
	buf := make([]byte, stride*h)
	if h > 0 {
		if err := src.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: w, H: h}, stride, buf); err != nil {
			return nil, errs.Wrap(errs.Codec, err, "animation: copy frame pixels")
		}
	}

	frame := &animctx.Frame{
		Pixels: buf,
		Width:  w,
		Height: h,
		Stride: stride,
	}
	if af, ok := f.(imgsrc.AnimationFrame); ok {
		frame.OffsetX = af.OffsetLeft()
		frame.OffsetY = af.OffsetTop()
		frame.DurationMillis = af.DurationMillis()
		frame.Dispose = toAnimDispose(af.Disposal())
		frame.Blend = toAnimBlend(af.Blend())
	}
	return frame, nil
}

func toAnimDispose(d imgsrc.DisposalMode) animctx.DisposeMethod {
	switch d {
	case imgsrc.DisposePreserve:
		return animctx.DisposePreserve
	case imgsrc.DisposeRestoreBackground:
		return animctx.DisposeRestoreBackground
	case imgsrc.DisposeRestorePrevious:
		return animctx.DisposeRestorePrevious
	default:
		return animctx.DisposeNone
	}
}

func toAnimBlend(b imgsrc.BlendMode) animctx.BlendMethod {
	if b == imgsrc.BlendNone {
		return animctx.BlendNone
	}
	return animctx.BlendAlpha
}
