package transform

import (
	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// ToWorking widens one of the pipeline's normalized 8-bit formats (Grey8,
// Bgr24, Bgra32, Pbgra32) to one of its wide working formats ahead of
// resample/sharpen, optionally linearizing gamma in
// the same pass under the gamma-aware working-format selection: a kernel
// that runs in linear light needs the widen and the degamma folded into one
// row pass rather than two, or banding shows up in the output on large
// upscales of highly compressed sources.
type ToWorking struct {
	pixel.Chained
	target pixfmt.ID
	gamma  *convert.Interpolating // nil unless target is a *Linear format
	video  bool
}

// NewToWorking builds a ToWorking transform. gamma is required when target
// is one of the *Linear working formats and ignored otherwise.
func NewToWorking(prev pixel.Source, target pixfmt.ID, gamma *convert.Interpolating) (*ToWorking, error) {
	srcID := prev.Format().ID
	if _, _, err := workingPairing(srcID, target); err != nil {
		return nil, err
	}
	tf := pixfmt.Lookup(target)
	if tf.IsLinear() && gamma == nil {
		return nil, errs.New(errs.InvalidArgument, "to_working: linear target requires a gamma table")
	}
	return &ToWorking{
		Chained: pixel.NewChained(prev, false),
		target:  target,
		gamma:   gamma,
		video:   prev.Format().Range == pixfmt.Video,
	}, nil
}

func (t *ToWorking) Format() pixfmt.Format { return pixfmt.Lookup(t.target) }

// workingPairing validates that srcID (an 8-bit normalized format) and
// targetID (a wide working format) agree on channel layout, returning the
// pixel count multiplier (channels actually produced per pixel in the
// source row) and a lane count (channels stored per pixel in the wide
// buffer, which may pad to 4 for vector alignment).
func workingPairing(srcID, targetID pixfmt.ID) (srcChannels, laneChannels int, err error) {
	switch srcID {
	case pixfmt.IDGrey8:
		switch targetID {
		case pixfmt.IDGrey32Float, pixfmt.IDGrey32FloatLinear, pixfmt.IDGrey16UQ15Linear:
			return 1, 1, nil
		}
	case pixfmt.IDY8, pixfmt.IDY8Video:
		switch targetID {
		case pixfmt.IDY32Float, pixfmt.IDY32FloatLinear, pixfmt.IDY16UQ15Linear:
			return 1, 1, nil
		}
	case pixfmt.IDBgr24:
		switch targetID {
		case pixfmt.IDBgr96Float, pixfmt.IDBgr96FloatLinear, pixfmt.IDBgr48UQ15Linear:
			return 3, 3, nil
		}
	case pixfmt.IDBgra32:
		switch targetID {
		case pixfmt.IDPbgra128Float, pixfmt.IDPbgra128FloatLinear, pixfmt.IDPbgra64UQ15Linear:
			return 4, 4, nil
		}
	case pixfmt.IDPbgra32:
		switch targetID {
		case pixfmt.IDPbgra128Float, pixfmt.IDPbgra128FloatLinear, pixfmt.IDPbgra64UQ15Linear:
			return 4, 4, nil
		}
	}
	return 0, 0, errs.New(errs.Unsupported, "to_working: no widening path from source format to target working format")
}

func (t *ToWorking) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(t, area, stride, buf); err != nil {
		return err
	}
	srcFmt := t.Prev.Format()
	srcLineBytes := srcFmt.LineBytes(area.W)
	src := make([]byte, srcLineBytes)
	_, lanes, _ := workingPairing(srcFmt.ID, t.target)
	tf := t.Format()
	floatMode := tf.IsFloat()
	lineBytes := tf.LineBytes(area.W)

	for row := 0; row < area.H; row++ {
		if err := t.Prev.CopyPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, srcLineBytes, src); err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+lineBytes]
		if floatMode {
			out := convert.AsFloat32(dst)
			t.widenRowFloat(srcFmt.ID, src, out, area.W, lanes)
		} else {
			out := convert.AsUint16(dst)
			t.widenRowQ15(srcFmt.ID, src, out, area.W, lanes)
		}
	}
	return nil
}

func (t *ToWorking) widenRowFloat(srcID pixfmt.ID, src []byte, dst []float32, pixels, lanes int) {
	linear := t.Format().IsLinear()
	switch {
	case lanes == 1:
		if linear {
			t.gamma.ConvertFloat(src, dst, pixels)
		} else {
			convert.WidenF32(src, dst, pixels, t.video)
		}
	case lanes == 3:
		if linear {
			for i := 0; i < pixels; i++ {
				dst[i*3+0] = t.gamma.ToLinearSample(src[i*3+0])
				dst[i*3+1] = t.gamma.ToLinearSample(src[i*3+1])
				dst[i*3+2] = t.gamma.ToLinearSample(src[i*3+2])
			}
		} else {
			convert.WidenF32(src, dst, pixels*3, t.video)
		}
	case srcID == pixfmt.IDBgra32: // straight alpha premultiplied into Pbgra128Float(Linear) during widen
		full := convert.WidenTableF32(false)
		if linear {
			for i := 0; i < pixels; i++ {
				so, do := i*4, i*4
				af := full[src[so+3]]
				dst[do+0] = t.gamma.ToLinearSample(src[so+0]) * af
				dst[do+1] = t.gamma.ToLinearSample(src[so+1]) * af
				dst[do+2] = t.gamma.ToLinearSample(src[so+2]) * af
				dst[do+3] = af
			}
		} else {
			tab := convert.WidenTableF32(t.video)
			for i := 0; i < pixels; i++ {
				so, do := i*4, i*4
				af := full[src[so+3]]
				dst[do+0] = tab[src[so+0]] * af
				dst[do+1] = tab[src[so+1]] * af
				dst[do+2] = tab[src[so+2]] * af
				dst[do+3] = af
			}
		}
	default: // Pbgra32 -> Pbgra128Float(Linear), already premultiplied, alpha carried through straight
		if linear {
			for i := 0; i < pixels; i++ {
				so, do := i*4, i*4
				dst[do+0] = t.gamma.ToLinearSample(src[so+0])
				dst[do+1] = t.gamma.ToLinearSample(src[so+1])
				dst[do+2] = t.gamma.ToLinearSample(src[so+2])
				dst[do+3] = float32(src[so+3]) / 255
			}
		} else {
			convert.WidenF32_3A(src, dst, pixels, t.video)
		}
	}
}

// widenRowQ15 handles the FixedQ15 working targets, which are all
// linear: every color sample goes through the gamma LUT on its way up to
// UQ15 (alpha stays a plain range widen, never gamma-encoded).
func (t *ToWorking) widenRowQ15(srcID pixfmt.ID, src []byte, dst []uint16, pixels, lanes int) {
	full := convert.WidenTableQ15(false)
	switch {
	case lanes == 1:
		t.gamma.ConvertQ15(src, dst, pixels)
	case lanes == 3:
		t.gamma.ConvertQ15(src, dst, pixels*3)
	case srcID == pixfmt.IDBgra32: // straight alpha premultiplied into Pbgra64UQ15Linear during widen
		for i := 0; i < pixels; i++ {
			so, do := i*4, i*4
			af := uint32(full[src[so+3]])
			dst[do+0] = uint16((uint32(t.gamma.ToLinearSampleQ15(src[so+0]))*af + 0x4000) >> 15)
			dst[do+1] = uint16((uint32(t.gamma.ToLinearSampleQ15(src[so+1]))*af + 0x4000) >> 15)
			dst[do+2] = uint16((uint32(t.gamma.ToLinearSampleQ15(src[so+2]))*af + 0x4000) >> 15)
			dst[do+3] = full[src[so+3]]
		}
	default: // Pbgra32 -> Pbgra64UQ15Linear, already premultiplied
		for i := 0; i < pixels; i++ {
			so, do := i*4, i*4
			dst[do+0] = t.gamma.ToLinearSampleQ15(src[so+0])
			dst[do+1] = t.gamma.ToLinearSampleQ15(src[so+1])
			dst[do+2] = t.gamma.ToLinearSampleQ15(src[so+2])
			dst[do+3] = full[src[so+3]]
		}
	}
}

// FromWorking narrows a wide working-format source back to one of the
// pipeline's normalized 8-bit formats for external output, recompanding
// gamma in the same pass when the source is linear.
type FromWorking struct {
	pixel.Chained
	target pixfmt.ID
	gamma  *convert.Interpolating
}

// NewFromWorking builds a FromWorking transform. gamma is required when
// prev's format is one of the *Linear working formats.
func NewFromWorking(prev pixel.Source, target pixfmt.ID, gamma *convert.Interpolating) (*FromWorking, error) {
	if _, _, err := workingPairing(target, prev.Format().ID); err != nil {
		return nil, err
	}
	if prev.Format().IsLinear() && gamma == nil {
		return nil, errs.New(errs.InvalidArgument, "from_working: linear source requires a gamma table")
	}
	return &FromWorking{Chained: pixel.NewChained(prev, false), target: target, gamma: gamma}, nil
}

func (f *FromWorking) Format() pixfmt.Format { return pixfmt.Lookup(f.target) }

func (f *FromWorking) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(f, area, stride, buf); err != nil {
		return err
	}
	srcFmt := f.Prev.Format()
	srcLineBytes := srcFmt.LineBytes(area.W)
	src := make([]byte, srcLineBytes)
	_, lanes, _ := workingPairing(f.target, srcFmt.ID)
	lineBytes := f.Format().LineBytes(area.W)

	for row := 0; row < area.H; row++ {
		if err := f.Prev.CopyPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, srcLineBytes, src); err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+lineBytes]
		if srcFmt.IsFloat() {
			in := convert.AsFloat32(src)
			f.narrowRowFloat(in, dst, area.W, lanes)
		} else {
			in := convert.AsUint16(src)
			f.narrowRowQ15(in, dst, area.W, lanes)
		}
	}
	return nil
}

func (f *FromWorking) narrowRowFloat(src []float32, dst []byte, pixels, lanes int) {
	linear := f.Prev.Format().IsLinear()
	switch {
	case lanes == 1:
		if linear {
			f.gamma.ConvertByte(src, dst, pixels)
		} else {
			convert.NarrowF32(src, dst, pixels)
		}
	case lanes == 3:
		if linear {
			for i := 0; i < pixels; i++ {
				dst[i*3+0] = f.gamma.ToCompandedSample(src[i*3+0])
				dst[i*3+1] = f.gamma.ToCompandedSample(src[i*3+1])
				dst[i*3+2] = f.gamma.ToCompandedSample(src[i*3+2])
			}
		} else {
			convert.NarrowF32(src, dst, pixels*3)
		}
	case f.target == pixfmt.IDBgra32: // un-premultiply: Pbgra128Float(Linear) -> Bgra32, straight alpha
		// An alpha below half an 8-bit step rounds to 0; emit a zero quad
		// instead of dividing by a vanishing alpha and amplifying noise.
		const minAlpha = 0.5 / 255
		if linear {
			for i := 0; i < pixels; i++ {
				so, do := i*4, i*4
				a := src[so+3]
				if a < minAlpha {
					dst[do+0], dst[do+1], dst[do+2], dst[do+3] = 0, 0, 0, 0
					continue
				}
				dst[do+3] = convert.Clip8b(int(a*255 + 0.5))
				dst[do+0] = f.gamma.ToCompandedSample(src[so+0] / a)
				dst[do+1] = f.gamma.ToCompandedSample(src[so+1] / a)
				dst[do+2] = f.gamma.ToCompandedSample(src[so+2] / a)
			}
		} else {
			for i := 0; i < pixels; i++ {
				so, do := i*4, i*4
				a := src[so+3]
				if a < minAlpha {
					dst[do+0], dst[do+1], dst[do+2], dst[do+3] = 0, 0, 0, 0
					continue
				}
				dst[do+3] = convert.Clip8b(int(a*255 + 0.5))
				dst[do+0] = convert.Clip8b(int(convert.ClipFloat01(src[so+0]/a)*255 + 0.5))
				dst[do+1] = convert.Clip8b(int(convert.ClipFloat01(src[so+1]/a)*255 + 0.5))
				dst[do+2] = convert.Clip8b(int(convert.ClipFloat01(src[so+2]/a)*255 + 0.5))
			}
		}
	default: // Pbgra128Float(Linear) -> Pbgra32
		if linear {
			for i := 0; i < pixels; i++ {
				so, do := i*4, i*4
				dst[do+0] = f.gamma.ToCompandedSample(src[so+0])
				dst[do+1] = f.gamma.ToCompandedSample(src[so+1])
				dst[do+2] = f.gamma.ToCompandedSample(src[so+2])
				dst[do+3] = convert.Clip8b(int(src[so+3]*255 + 0.5))
			}
		} else {
			convert.NarrowF32_3A(src, dst, pixels)
		}
	}
}

// narrowRowQ15 is widenRowQ15's inverse: recompand every linear color
// sample through the gamma LUT, narrow alpha as a plain range narrow.
func (f *FromWorking) narrowRowQ15(src []uint16, dst []byte, pixels, lanes int) {
	switch {
	case lanes == 1:
		f.gamma.ConvertByteQ15(src, dst, pixels)
	case lanes == 3:
		f.gamma.ConvertByteQ15(src, dst, pixels*3)
	case f.target == pixfmt.IDBgra32: // un-premultiply: Pbgra64UQ15Linear -> Bgra32, straight alpha
		// An alpha below half an 8-bit step (64 in UQ15) rounds to 0;
		// emit a zero quad instead of dividing by a vanishing alpha.
		const minAlphaQ15 = 64
		for i := 0; i < pixels; i++ {
			so, do := i*4, i*4
			a := uint32(src[so+3])
			if a < minAlphaQ15 {
				dst[do+0], dst[do+1], dst[do+2], dst[do+3] = 0, 0, 0, 0
				continue
			}
			dst[do+3] = convert.Clip8b(int((a*255 + 0x4000) >> 15))
			c0 := uint32(src[so+0]) * 0x8000 / a
			c1 := uint32(src[so+1]) * 0x8000 / a
			c2 := uint32(src[so+2]) * 0x8000 / a
			dst[do+0] = f.gamma.ToCompandedSampleQ15(convert.ClipQ15(int32(c0)))
			dst[do+1] = f.gamma.ToCompandedSampleQ15(convert.ClipQ15(int32(c1)))
			dst[do+2] = f.gamma.ToCompandedSampleQ15(convert.ClipQ15(int32(c2)))
		}
	default: // Pbgra64UQ15Linear -> Pbgra32
		for i := 0; i < pixels; i++ {
			so, do := i*4, i*4
			dst[do+0] = f.gamma.ToCompandedSampleQ15(src[so+0])
			dst[do+1] = f.gamma.ToCompandedSampleQ15(src[so+1])
			dst[do+2] = f.gamma.ToCompandedSampleQ15(src[so+2])
			dst[do+3] = convert.Clip8b(int((uint32(src[so+3])*255 + 0x4000) >> 15))
		}
	}
}
