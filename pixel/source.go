// Package pixel defines the pull-model pixel producer contract the whole
// pipeline is built on: Source is the consumer-facing interface, Chained
// composes a linear chain of transforms over a single upstream, and
// Planar bundles a YCbCr triple of Sources.
package pixel

import (
	"io"

	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Source is the pull-model pixel producer contract. A consumer specifies
// the rectangle it wants (in this source's own coordinate space) and the
// destination buffer/stride; CopyPixels writes exactly
// DivCeil(area.W*bpp,8) bytes per row, area.H rows, starting at buf[0] with
// the given row stride.
//
// A Source is logically immutable once constructed. It is not required to
// be safe for concurrent use; the pipeline never pulls from one source
// from more than one goroutine at a time.
type Source interface {
	Format() pixfmt.Format
	Width() int
	Height() int
	CopyPixels(area pixfmt.Area, stride int, buf []byte) error
}

// Closer is implemented by sources that hold resources (an owned upstream,
// a pooled buffer lease) that must be released when the source is no
// longer needed. The pipeline disposes registered sources in reverse
// registration order.
type Closer interface {
	Close() error
}

// ValidateCopy checks a CopyPixels call's arguments against src's
// dimensions and format before a transform does any work, returning a
// Kind-classified error rather than letting an out-of-bounds read/write
// happen.
func ValidateCopy(src Source, area pixfmt.Area, stride int, buf []byte) error {
	bpp := src.Format().BitsPerPixel
	if err := area.Validate(src.Width(), src.Height(), bpp, stride, len(buf)); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "copy_pixels")
	}
	return nil
}

// Chained is the embeddable base for a single-upstream transform node. It
// holds exclusive ownership of Prev (Close disposes it) and implements a
// Passthrough/ReInit substitution mechanism: when Prev is itself a
// passthrough node, a later call to ReInit propagates the request down the
// chain; otherwise it replaces Prev in place if the replacement has the
// same format and dimensions.
type Chained struct {
	Prev        Source
	Passthrough bool

	format        pixfmt.Format
	width, height int
}

// NewChained wraps prev, snapshotting its format/dimensions at
// construction time (a ChainedPixelSource's own advertised format/dims
// don't change across a later ReInit; only the producer behind them does).
func NewChained(prev Source, passthrough bool) Chained {
	return Chained{
		Prev:        prev,
		Passthrough: passthrough,
		format:      prev.Format(),
		width:       prev.Width(),
		height:      prev.Height(),
	}
}

func (c *Chained) Format() pixfmt.Format { return c.format }
func (c *Chained) Width() int            { return c.width }
func (c *Chained) Height() int           { return c.height }

// Close disposes Prev if it owns closable resources.
func (c *Chained) Close() error {
	if cl, ok := c.Prev.(Closer); ok {
		return cl.Close()
	}
	return nil
}

func compatible(a, b Source) bool {
	return a.Format().ID == b.Format().ID && a.Width() == b.Width() && a.Height() == b.Height()
}

// ReInit substitutes newSrc for the producer behind c's upstream. If
// c.Prev is itself a passthrough Chained node, the request is propagated
// to it, so the replacement lands below the whole passthrough run.
// Otherwise, if newSrc has the same format and dimensions as c.Prev, it
// replaces c.Prev directly. It is an error to call ReInit when neither
// condition holds.
func (c *Chained) ReInit(newSrc Source) error {
	if pc, ok := c.Prev.(interface{ ReInit(Source) error }); ok && isPassthrough(c.Prev) {
		return pc.ReInit(newSrc)
	}
	if compatible(c.Prev, newSrc) {
		c.Prev = newSrc
		return nil
	}
	return errs.New(errs.InvalidArgument, "ReInit: incompatible replacement source and no passthrough upstream to propagate to")
}

func isPassthrough(s Source) bool {
	type passthroughAdvertiser interface{ IsPassthrough() bool }
	if pa, ok := s.(passthroughAdvertiser); ok {
		return pa.IsPassthrough()
	}
	return false
}

// IsPassthrough reports c.Passthrough, satisfying passthroughAdvertiser.
func (c *Chained) IsPassthrough() bool { return c.Passthrough }

// CloseAll closes every Closer in srcs, continuing even if one returns an
// error, and returns the first error encountered (if any). srcs is walked
// from the last element to the first; nil entries are skipped.
func CloseAll(srcs []io.Closer) error {
	var first error
	for i := len(srcs) - 1; i >= 0; i-- {
		if srcs[i] == nil {
			continue
		}
		if err := srcs[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
