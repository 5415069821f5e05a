package transform

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/internal/yuv"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Merge converts a Planar YCbCr triple to interleaved Bgr24,
// upsampling subsampled chroma planes to the luma grid before
// applying the color matrix row by row. Chroma upsampling uses the
// diamond 4-tap kernel (internal/yuv) for 4:2:0, a cheap horizontal
// point-sample for 4:2:2 (only the horizontal axis is subsampled, so
// there is no diagonal to interpolate across), and direct row reuse for
// 4:4:0 (only the vertical axis is subsampled).
type Merge struct {
	p      *pixel.Planar
	matrix yuv.Matrix
	video  bool
}

// NewMerge builds a Merge transform over a Planar source.
func NewMerge(p *pixel.Planar, matrix yuv.Matrix, video bool) *Merge {
	return &Merge{p: p, matrix: matrix, video: video}
}

func (m *Merge) Format() pixfmt.Format { return pixfmt.Lookup(pixfmt.IDBgr24) }
func (m *Merge) Width() int            { return m.p.Width() }
func (m *Merge) Height() int           { return m.p.Height() }
func (m *Merge) Close() error          { return m.p.Close() }

func (m *Merge) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(m, area, stride, buf); err != nil {
		return err
	}
	lumaW := m.p.Y.Width()
	lumaRow := make([]byte, lumaW)
	lineBytes := m.Format().LineBytes(area.W)

	for row := 0; row < area.H; row++ {
		y := area.Y + row
		if err := m.p.Y.CopyPixels(pixfmt.Area{X: 0, Y: y, W: lumaW, H: 1}, lumaW, lumaRow); err != nil {
			return errs.Wrap(errs.InvalidArgument, err, "merge: luma row pull")
		}
		cb, cr, err := m.chromaRowAtLuma(y)
		if err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+lineBytes]
		full := make([]byte, lumaW*3)
		yuv.YCCRowToBGR(lumaRow, cb, cr, full, lumaW, m.matrix, m.video)
		copy(dst, full[area.X*3:area.X*3+area.W*3])
	}
	return nil
}

// chromaRowAtLuma returns full-luma-width Cb/Cr rows aligned to luma row
// y, upsampled according to the planar source's subsampling mode.
func (m *Merge) chromaRowAtLuma(y int) ([]byte, []byte, error) {
	lumaW := m.p.Y.Width()
	switch m.p.Subsampling {
	case pixel.Subsample444:
		cb := make([]byte, lumaW)
		cr := make([]byte, lumaW)
		if err := m.p.Cb.CopyPixels(pixfmt.Area{X: 0, Y: y, W: lumaW, H: 1}, lumaW, cb); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cb row pull")
		}
		if err := m.p.Cr.CopyPixels(pixfmt.Area{X: 0, Y: y, W: lumaW, H: 1}, lumaW, cr); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cr row pull")
		}
		return cb, cr, nil

	case pixel.Subsample422:
		cw, _ := m.p.Subsampling.ChromaDims(lumaW, m.p.Y.Height())
		cbHalf := make([]byte, cw)
		crHalf := make([]byte, cw)
		if err := m.p.Cb.CopyPixels(pixfmt.Area{X: 0, Y: y, W: cw, H: 1}, cw, cbHalf); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cb row pull")
		}
		if err := m.p.Cr.CopyPixels(pixfmt.Area{X: 0, Y: y, W: cw, H: 1}, cw, crHalf); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cr row pull")
		}
		cb := make([]byte, lumaW)
		cr := make([]byte, lumaW)
		yuv.PointSampleChromaRow(cbHalf, crHalf, cb, cr, lumaW)
		return cb, cr, nil

	case pixel.Subsample440:
		cw, ch := m.p.Subsampling.ChromaDims(lumaW, m.p.Y.Height())
		cy := y / 2
		if cy >= ch {
			cy = ch - 1
		}
		cb := make([]byte, cw)
		cr := make([]byte, cw)
		if err := m.p.Cb.CopyPixels(pixfmt.Area{X: 0, Y: cy, W: cw, H: 1}, cw, cb); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cb row pull")
		}
		if err := m.p.Cr.CopyPixels(pixfmt.Area{X: 0, Y: cy, W: cw, H: 1}, cw, cr); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cr row pull")
		}
		return cb, cr, nil

	default: // Subsample420
		cw, ch := m.p.Subsampling.ChromaDims(lumaW, m.p.Y.Height())
		pair := y / 2
		pairNext := pair + 1
		if pairNext >= ch {
			pairNext = ch - 1
		}
		topU, topV := make([]byte, cw), make([]byte, cw)
		botU, botV := make([]byte, cw), make([]byte, cw)
		if err := m.p.Cb.CopyPixels(pixfmt.Area{X: 0, Y: pair, W: cw, H: 1}, cw, topU); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cb row pull")
		}
		if err := m.p.Cr.CopyPixels(pixfmt.Area{X: 0, Y: pair, W: cw, H: 1}, cw, topV); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cr row pull")
		}
		if err := m.p.Cb.CopyPixels(pixfmt.Area{X: 0, Y: pairNext, W: cw, H: 1}, cw, botU); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cb row pull")
		}
		if err := m.p.Cr.CopyPixels(pixfmt.Area{X: 0, Y: pairNext, W: cw, H: 1}, cw, botV); err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, err, "merge: cr row pull")
		}

		outTopU, outTopV := make([]byte, lumaW), make([]byte, lumaW)
		outBotU, outBotV := make([]byte, lumaW), make([]byte, lumaW)
		yuv.UpsampleChromaPair(topU, topV, botU, botV, outTopU, outTopV, outBotU, outBotV, lumaW)
		if y%2 == 0 {
			return outTopU, outTopV, nil
		}
		return outBotU, outBotV, nil
	}
}

// Split converts an interleaved Bgr24 source to a Planar YCbCr triple at
// 4:4:4 (no subsampling); a subsequent Crop/resample stage performs any
// chroma downsampling the pipeline's settings ask for, since it already
// owns the separable-filter machinery needed to do that correctly.
type Split struct {
	src    pixel.Source
	matrix yuv.Matrix
	video  bool
}

// NewSplit builds a Split transform over a Bgr24 source.
func NewSplit(src pixel.Source, matrix yuv.Matrix, video bool) (*Split, error) {
	if src.Format().ID != pixfmt.IDBgr24 {
		return nil, errs.New(errs.Unsupported, "split: source must be Bgr24")
	}
	return &Split{src: src, matrix: matrix, video: video}, nil
}

// Planar materializes Y/Cb/Cr row sources backed by whole-plane buffers
// decoded from src on first use (a 4:4:4 split has no reduced-memory
// streaming form worth the complexity, since the planes are the same size
// as the source).
func (s *Split) Planar() (*pixel.Planar, error) {
	w, h := s.src.Width(), s.src.Height()
	y := make([]byte, w*h)
	cb := make([]byte, w*h)
	cr := make([]byte, w*h)

	srcRow := make([]byte, s.src.Format().LineBytes(w))
	for row := 0; row < h; row++ {
		if err := s.src.CopyPixels(pixfmt.Area{X: 0, Y: row, W: w, H: 1}, len(srcRow), srcRow); err != nil {
			return nil, errs.Wrap(errs.InvalidArgument, err, "split: source row pull")
		}
		yuv.BGRRowToYCC(srcRow, y[row*w:row*w+w], cb[row*w:row*w+w], cr[row*w:row*w+w], w, s.matrix, s.video)
	}

	yID := pixfmt.IDY8
	cbID := pixfmt.IDCb8
	crID := pixfmt.IDCr8
	if s.video {
		yID, cbID, crID = pixfmt.IDY8Video, pixfmt.IDCb8Video, pixfmt.IDCr8Video
	}
	ySrc := pixel.NewFrameBuffer(pixfmt.Lookup(yID), w, h)
	copy(ySrc.Pix(), y)
	cbSrc := pixel.NewFrameBuffer(pixfmt.Lookup(cbID), w, h)
	copy(cbSrc.Pix(), cb)
	crSrc := pixel.NewFrameBuffer(pixfmt.Lookup(crID), w, h)
	copy(crSrc.Pix(), cr)

	return pixel.NewPlanar(ySrc, cbSrc, crSrc, pixel.Subsample444, pixel.SitingCosited)
}
