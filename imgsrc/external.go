package imgsrc

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// IPixelSource is the external-facing pixel producer contract: a
// caller supplying its own decoded pixels (rather than going
// through an ImageContainer) only needs to satisfy this, not the
// internal pixel.Source interface directly. FormatID keeps the
// caller's surface decoupled from this repo's pixfmt.ID enum ordering.
type IPixelSource interface {
	FormatID() pixfmt.ID
	Width() int
	Height() int
	CopyPixels(area pixfmt.Area, stride int, buf []byte) error
}

// externalAdapter wraps a caller-supplied IPixelSource as an internal
// pixel.Source, the one point where the engine trusts external code:
// FormatID is validated against the registry once at construction so a
// bad ID fails fast instead of surfacing as a confusing downstream
// format mismatch.
type externalAdapter struct {
	src IPixelSource
	fmt pixfmt.Format
}

// WrapExternal builds a pixel.Source around a caller-supplied
// IPixelSource.
func WrapExternal(src IPixelSource) (pixel.Source, error) {
	f := pixfmt.Lookup(src.FormatID())
	if f.Name == "" {
		return nil, errs.New(errs.InvalidArgument, "imgsrc: external source reports an unregistered format id")
	}
	return &externalAdapter{src: src, fmt: f}, nil
}

func (a *externalAdapter) Format() pixfmt.Format { return a.fmt }
func (a *externalAdapter) Width() int            { return a.src.Width() }
func (a *externalAdapter) Height() int           { return a.src.Height() }

func (a *externalAdapter) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(a, area, stride, buf); err != nil {
		return err
	}
	return a.src.CopyPixels(area, stride, buf)
}

// Capabilities records decoder-adapter quirks the builder needs to know
// about up front, outside the per-frame ImageFrame/IYccImageFrame
// interfaces. A specific JPEG CMYK decoder bug (inverted colors when
// width != crop width) is exhibited by only
// a small number of known-buggy decoders, so the workaround
// (transform.NewInvert inserted into the chain) stays gated behind an
// explicit opt-in flag rather than a heuristic the builder applies to
// every CMYK frame.
type Capabilities struct {
	// KnownBuggyCMYKDecoder opts this container into the CMYK
	// inverted-color workaround. Never inferred; a decoder adapter
	// sets this only if it wraps one of the specific libraries the
	// workaround targets.
	KnownBuggyCMYKDecoder bool
}

// CapabilitiesProvider is an optional capability an ImageContainer can
// implement to advertise its Capabilities up front, outside the
// per-frame interfaces. A container that doesn't implement this is
// treated as having the zero Capabilities (no known quirks).
type CapabilitiesProvider interface {
	Capabilities() Capabilities
}
