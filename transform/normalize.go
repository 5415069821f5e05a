package transform

import (
	"github.com/Nness/PhotoSauce/internal/convert"
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Normalize converts any of the pipeline's direct 8-bit interleaved
// formats to one of the four the builder standardizes on before resample
// (Grey8, Bgr24, Bgra32, Pbgra32). Indexed8 sources must go through PaletteToDirect
// first; Normalize itself only handles direct formats.
type Normalize struct {
	pixel.Chained
	target pixfmt.ID
}

// NewNormalize builds a Normalize transform converting prev to target,
// one of IDGrey8, IDBgr24, IDBgra32, IDPbgra32.
func NewNormalize(prev pixel.Source, target pixfmt.ID) (*Normalize, error) {
	switch target {
	case pixfmt.IDGrey8, pixfmt.IDBgr24, pixfmt.IDBgra32, pixfmt.IDPbgra32:
	default:
		return nil, errs.New(errs.InvalidArgument, "normalize: target must be Grey8, Bgr24, Bgra32, or Pbgra32")
	}
	return &Normalize{Chained: pixel.NewChained(prev, false), target: target}, nil
}

func (n *Normalize) Format() pixfmt.Format { return pixfmt.Lookup(n.target) }

func (n *Normalize) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(n, area, stride, buf); err != nil {
		return err
	}
	srcFmt := n.Prev.Format()
	srcLineBytes := srcFmt.LineBytes(area.W)
	src := make([]byte, srcLineBytes)
	outLineBytes := n.Format().LineBytes(area.W)

	for row := 0; row < area.H; row++ {
		if err := n.pullUpstreamPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, srcLineBytes, src); err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+outLineBytes]
		if err := normalizeRow(srcFmt.ID, n.target, src, dst, area.W); err != nil {
			return err
		}
	}
	return nil
}

func (n *Normalize) pullUpstreamPixels(area pixfmt.Area, stride int, buf []byte) error {
	return n.Prev.CopyPixels(area, stride, buf)
}

func normalizeRow(srcID, dstID pixfmt.ID, src, dst []byte, pixels int) error {
	if srcID == dstID {
		copy(dst, src)
		return nil
	}

	// Route every conversion through a common intermediate: Bgra32
	// straight alpha. Widen to it, then narrow to the requested target.
	var inter []byte
	switch srcID {
	case pixfmt.IDGrey8:
		inter = make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			v := src[i]
			inter[i*4+0], inter[i*4+1], inter[i*4+2], inter[i*4+3] = v, v, v, 255
		}
	case pixfmt.IDY8, pixfmt.IDY8Video:
		// Full-range luma is grey; video-range luma expands its studio
		// excursion to full range first.
		video := srcID == pixfmt.IDY8Video
		inter = make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			v := src[i]
			if video {
				v = convert.Clip8b((int(v) - 16) * 255 / 219)
			}
			inter[i*4+0], inter[i*4+1], inter[i*4+2], inter[i*4+3] = v, v, v, 255
		}
	case pixfmt.IDBgr24:
		inter = make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			inter[i*4+0] = src[i*3+0]
			inter[i*4+1] = src[i*3+1]
			inter[i*4+2] = src[i*3+2]
			inter[i*4+3] = 255
		}
	case pixfmt.IDRgb24:
		inter = make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			inter[i*4+0] = src[i*3+2]
			inter[i*4+1] = src[i*3+1]
			inter[i*4+2] = src[i*3+0]
			inter[i*4+3] = 255
		}
	case pixfmt.IDBgra32:
		inter = append([]byte(nil), src[:pixels*4]...)
	case pixfmt.IDRgba32:
		inter = make([]byte, pixels*4)
		copy(inter, src[:pixels*4])
		convert.SwapRB4(inter, pixels)
	case pixfmt.IDBgrx32:
		inter = make([]byte, pixels*4)
		copy(inter, src[:pixels*4])
		for i := 0; i < pixels; i++ {
			inter[i*4+3] = 255
		}
	case pixfmt.IDPbgra32:
		inter = append([]byte(nil), src[:pixels*4]...)
		convert.Unpremultiply8Row(inter, pixels, 4, 3)
	case pixfmt.IDCmyk32:
		inter = make([]byte, pixels*4)
		naiveCMYKToBGRA(src, inter, pixels)
	default:
		return errs.New(errs.Unsupported, "normalize: unsupported source format")
	}

	switch dstID {
	case pixfmt.IDGrey8:
		convert.GreyFromColor3(interToBgr3(inter, pixels), dst, pixels, true)
	case pixfmt.IDBgr24:
		convert.ExtractColor4To3(inter, dst, pixels)
	case pixfmt.IDBgra32:
		copy(dst, inter)
	case pixfmt.IDPbgra32:
		copy(dst, inter)
		convert.Premultiply8Row(dst, pixels, 4, 3)
	default:
		return errs.New(errs.Unsupported, "normalize: unsupported target format")
	}
	return nil
}

func interToBgr3(inter []byte, pixels int) []byte {
	out := make([]byte, pixels*3)
	convert.ExtractColor4To3(inter, out, pixels)
	return out
}

// naiveCMYKToBGRA applies the uncalibrated (profile-less) CMYK->RGB
// formula: v = 255 - min(255, c+k). This is the fallback used when no
// ICC color-transform provider is wired in; only a calibrated transform
// needs the external provider.
func naiveCMYKToBGRA(src, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		c, m, y, k := int(src[i*4+0]), int(src[i*4+1]), int(src[i*4+2]), int(src[i*4+3])
		dst[i*4+0] = convert.Clip8b(255 - min(255, y+k)) // B
		dst[i*4+1] = convert.Clip8b(255 - min(255, m+k)) // G
		dst[i*4+2] = convert.Clip8b(255 - min(255, c+k)) // R
		dst[i*4+3] = 255
	}
}
