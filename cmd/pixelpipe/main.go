// Command pixelpipe is a minimal end-to-end demonstration of the
// pixel-transform pipeline: it wraps the standard
// library's image/png and image/jpeg codecs as the opaque
// decoder/encoder adapters, and drives pipeline.ProcessImage between
// them.
//
// It is intentionally thin: a demonstration harness, not a product CLI.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/profiler"
	"github.com/Nness/PhotoSauce/pipeline"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

func main() {
	var (
		width, height int
		mode          string
		quality       int
		profileLog    string
	)
	flag.IntVar(&width, "w", 0, "target width (0 = derive from height)")
	flag.IntVar(&height, "h", 0, "target height (0 = derive from width)")
	flag.StringVar(&mode, "mode", "contain", "resize mode: contain, cover, stretch")
	flag.IntVar(&quality, "quality", 90, "JPEG output quality (1-100), ignored for PNG output")
	flag.StringVar(&profileLog, "profile-log", "", "write per-source profiler timings to this size-rotated log file")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: pixelpipe [flags] <input> <output>")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Arg(1), width, height, mode, quality, profileLog); err != nil {
		slog.Error("pixelpipe: failed", "err", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, width, height int, mode string, quality int, profileLog string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}

	container := newStdContainer(img)

	resizeMode := pipeline.ResizeContain
	switch strings.ToLower(mode) {
	case "cover":
		resizeMode = pipeline.ResizeCover
	case "stretch":
		resizeMode = pipeline.ResizeStretch
	}

	opts := []pipeline.Option{
		pipeline.WithKernel(pipeline.Lanczos3),
		pipeline.WithLogger(profiler.DiscardLogger()),
	}
	if profileLog != "" {
		opts = append(opts, pipeline.WithLogger(profiler.NewRotatingSink(profileLog, 10, 3, 28)))
	}
	if width > 0 || height > 0 {
		opts = append(opts, pipeline.WithSize(width, height, resizeMode))
	}
	settings := pipeline.NewSettings(opts...)

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := newStdEncoder(out, codecFor(outPath), quality)
	return pipeline.ProcessImage(container, settings, enc)
}

func codecFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	default:
		return "png"
	}
}

// stdContainer adapts a decoded image.Image into a single-frame
// imgsrc.ImageContainer, standing in for a real codec's container
// adapter.
type stdContainer struct {
	frame stdFrame
}

func newStdContainer(img image.Image) *stdContainer {
	return &stdContainer{frame: stdFrame{src: newImageSource(img)}}
}

func (c *stdContainer) MimeType() string  { return "application/octet-stream" }
func (c *stdContainer) FrameCount() int   { return 1 }
func (c *stdContainer) GetFrame(i int) (imgsrc.ImageFrame, error) {
	if i != 0 {
		return nil, fmt.Errorf("pixelpipe: frame %d out of range", i)
	}
	return c.frame, nil
}

type stdFrame struct {
	src pixel.Source
}

func (f stdFrame) PixelSource() pixel.Source             { return f.src }
func (f stdFrame) MetadataSource() imgsrc.MetadataSource { return nil }
func (f stdFrame) Orientation() (int, bool)              { return int(pixfmt.OrientationNormal), false }

// imageSource adapts a decoded image.Image to imgsrc.IPixelSource as
// interleaved Rgba32 (straight alpha); the pipeline's own Normalize
// transform handles the Rgba32->Bgra32 channel
// swap on its way into the chain, so this adapter doesn't need to.
// imgsrc.WrapExternal turns it into the pixel.Source the builder
// actually consumes, the same entry point any real caller-supplied
// decoder would go through.
type imageSource struct {
	img  image.Image
	w, h int
}

func newImageSource(img image.Image) pixel.Source {
	b := img.Bounds()
	src, err := imgsrc.WrapExternal(&imageSource{img: img, w: b.Dx(), h: b.Dy()})
	if err != nil {
		// IDRgba32 is always registered, so WrapExternal can't fail here.
		panic(err)
	}
	return src
}

func (s *imageSource) FormatID() pixfmt.ID { return pixfmt.IDRgba32 }
func (s *imageSource) Width() int          { return s.w }
func (s *imageSource) Height() int         { return s.h }

func (s *imageSource) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	b := s.img.Bounds()
	for row := 0; row < area.H; row++ {
		dst := buf[row*stride : row*stride+area.W*4]
		y := b.Min.Y + area.Y + row
		for col := 0; col < area.W; col++ {
			x := b.Min.X + area.X + col
			c := color.NRGBAModel.Convert(s.img.At(x, y)).(color.NRGBA)
			dst[col*4+0] = c.R
			dst[col*4+1] = c.G
			dst[col*4+2] = c.B
			dst[col*4+3] = c.A
		}
	}
	return nil
}

// stdEncoder adapts image/png and image/jpeg as an imgsrc.Encoder. It
// only claims to support Bgra32/Bgr24 so the builder's encoder probe
// always has to coerce through
// exactly one of those, matching how little format flexibility these
// stdlib codecs actually offer.
type stdEncoder struct {
	w       *os.File
	codec   string
	quality int
}

func newStdEncoder(w *os.File, codec string, quality int) *stdEncoder {
	return &stdEncoder{w: w, codec: codec, quality: quality}
}

func (e *stdEncoder) SupportsPixelFormat(id pixfmt.ID) bool {
	if e.codec == "jpeg" {
		return id == pixfmt.IDBgr24
	}
	return id == pixfmt.IDBgra32
}

func (e *stdEncoder) GetClosestPixelFormat(id pixfmt.ID) pixfmt.ID {
	if e.codec == "jpeg" {
		return pixfmt.IDBgr24
	}
	return pixfmt.IDBgra32
}

func (e *stdEncoder) WriteFrame(source pixel.Source, meta imgsrc.FrameMetadata, area pixfmt.Area) error {
	img := image.NewNRGBA(image.Rect(0, 0, area.W, area.H))
	fmtID := source.Format().ID
	bpp := source.Format().BytesPerPixel()
	stride := area.W * bpp
	buf := make([]byte, stride*area.H)
	if err := source.CopyPixels(area, stride, buf); err != nil {
		return err
	}
	for row := 0; row < area.H; row++ {
		for col := 0; col < area.W; col++ {
			off := row*stride + col*bpp
			var r, g, b, a byte
			switch fmtID {
			case pixfmt.IDBgr24:
				b, g, r, a = buf[off+0], buf[off+1], buf[off+2], 255
			case pixfmt.IDBgra32:
				b, g, r, a = buf[off+0], buf[off+1], buf[off+2], buf[off+3]
			default:
				return fmt.Errorf("pixelpipe: encoder received unexpected format %v", fmtID)
			}
			img.SetNRGBA(col, row, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	switch e.codec {
	case "jpeg":
		return jpeg.Encode(e.w, img, &jpeg.Options{Quality: e.quality})
	default:
		return png.Encode(e.w, img)
	}
}

func (e *stdEncoder) Commit() error { return nil }
