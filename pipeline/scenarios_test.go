package pipeline

import (
	"testing"

	"github.com/Nness/PhotoSauce/imgsrc"
	"github.com/Nness/PhotoSauce/internal/yuv"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
	"github.com/Nness/PhotoSauce/transform"
)

// fakeFrame is a minimal imgsrc.ImageFrame over an in-memory pixel.Source,
// with no optional decoder capabilities (IScaledDecoder, ICroppedDecoder)
// implemented.
type fakeFrame struct {
	src         pixel.Source
	orientation int
	hasOrient   bool
}

func (f *fakeFrame) PixelSource() pixel.Source           { return f.src }
func (f *fakeFrame) MetadataSource() imgsrc.MetadataSource { return nil }
func (f *fakeFrame) Orientation() (int, bool)            { return f.orientation, f.hasOrient }

type fakeContainer struct {
	frame imgsrc.ImageFrame
}

func (c *fakeContainer) MimeType() string { return "image/test" }
func (c *fakeContainer) FrameCount() int  { return 1 }
func (c *fakeContainer) GetFrame(i int) (imgsrc.ImageFrame, error) { return c.frame, nil }

// yccFrame additionally exposes native planar YCbCr, exercising the
// planar->BGR merge path in normalize().
type yccFrame struct {
	fakeFrame
	y, cb, cr pixel.Source
	sub       pixel.ChromaSubsampling
	siting    pixel.ChromaSiting
}

func (f *yccFrame) YccSource() (y, cb, cr pixel.Source, sub pixel.ChromaSubsampling, siting pixel.ChromaSiting, ok bool) {
	return f.y, f.cb, f.cr, f.sub, f.siting, true
}

// indexedSource adds the builder's paletteProvider capability to a plain
// Indexed8 FrameBuffer.
type indexedSource struct {
	*pixel.FrameBuffer
	pal *transform.Palette
}

func (s *indexedSource) Palette() *transform.Palette { return s.pal }

func newCtx(settings *Settings, src pixel.Source) *Context {
	frame := &fakeFrame{src: src}
	container := &fakeContainer{frame: frame}
	return NewContext(settings, container, frame)
}

func TestBuildResizeSolidColorPreservesColor(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 8, 8)
	src.Fill([]byte{40, 80, 160})

	s := NewSettings(WithSize(4, 4, ResizeStretch))
	ctx := newCtx(s, src)
	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Width() != 4 || ctx.Source.Height() != 4 {
		t.Fatalf("dims = (%d,%d), want (4,4)", ctx.Source.Width(), ctx.Source.Height())
	}
	if ctx.Source.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24", ctx.Source.Format().ID)
	}
	out := make([]byte, 4*4*3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 4, H: 4}, 4*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	for i := 0; i < len(out); i += 3 {
		for c := 0; c < 3; c++ {
			want := []byte{40, 80, 160}[c]
			diff := int(out[i+c]) - int(want)
			if diff < -2 || diff > 2 {
				t.Errorf("pixel %d channel %d = %d, want ~%d (a constant image resized should stay constant)", i/3, c, out[i+c], want)
			}
		}
	}
}

func TestBuildAlphaFlattenMattesTranslucentSource(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgra32), 2, 2)
	copy(src.Pix(), []byte{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	})

	s := NewSettings(WithMatte(255, 255, 255, true))
	ctx := newCtx(s, src)
	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24 (DropAlpha matte)", ctx.Source.Format().ID)
	}
	out := make([]byte, 2*2*3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 2}, 2*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	for i, v := range out {
		if v != 255 {
			t.Errorf("byte %d = %d, want 255 (fully transparent pixel matted to white)", i, v)
		}
	}
}

func TestBuildPlanarSourceMergesToBgr(t *testing.T) {
	// A flat mid-grey 4:4:4 YCbCr plane triple, chosen so the exact color
	// matrix doesn't matter: Cb=Cr=128 (neutral chroma) decodes to a grey
	// of Y's value regardless of which matrix is used.
	y := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDY8), 2, 2)
	y.Fill([]byte{150})
	cb := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDCb8), 2, 2)
	cb.Fill([]byte{128})
	cr := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDCr8), 2, 2)
	cr.Fill([]byte{128})

	dummy := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 2, 2)
	frame := &yccFrame{
		fakeFrame: fakeFrame{src: dummy},
		y:         y, cb: cb, cr: cr,
		sub: pixel.Subsample444, siting: pixel.SitingCosited,
	}
	container := &fakeContainer{frame: frame}
	ctx := NewContext(NewSettings(), container, frame)

	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24", ctx.Source.Format().ID)
	}
	if ctx.Source.Width() != 2 || ctx.Source.Height() != 2 {
		t.Fatalf("dims = (%d,%d), want (2,2)", ctx.Source.Width(), ctx.Source.Height())
	}
	out := make([]byte, 2*2*3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 2}, 2*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	for i, v := range out {
		diff := int(v) - 150
		if diff < -2 || diff > 2 {
			t.Errorf("byte %d = %d, want ~150 (neutral chroma)", i, v)
		}
	}
	_ = yuv.BT601 // the merge's matrix choice is irrelevant for neutral chroma
}

func TestBuildIndexedPaletteResolvesToDirectColor(t *testing.T) {
	pal := &transform.Palette{Count: 2, Entries: [256][4]byte{
		{10, 20, 30, 255},
		{200, 210, 220, 255},
	}}
	fb := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDIndexed8), 2, 1)
	copy(fb.Pix(), []byte{0, 1})
	src := &indexedSource{FrameBuffer: fb, pal: pal}

	ctx := newCtx(NewSettings(), src)
	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24 (opaque color palette)", ctx.Source.Format().ID)
	}
	out := make([]byte, 2*3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 1}, 2*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	want := []byte{10, 20, 30, 200, 210, 220}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestBuildPadsToRequestedCanvas(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 2, 2)
	src.Fill([]byte{10, 20, 30})

	s := NewSettings(WithSize(4, 2, ResizeContain), WithMatte(1, 2, 3, false))
	ctx := newCtx(s, src)
	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Width() != 4 || ctx.Source.Height() != 2 {
		t.Fatalf("dims = (%d,%d), want (4,2)", ctx.Source.Width(), ctx.Source.Height())
	}
	bpp := ctx.Source.Format().BytesPerPixel()
	out := make([]byte, 4*2*bpp)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 4, H: 2}, 4*bpp, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	// The 2x2 content is centered in a 4x2 canvas: columns 0 and 3 are
	// padding, columns 1-2 are content.
	borderOff := 0 * bpp
	if out[borderOff] != 1 || out[borderOff+1] != 2 || out[borderOff+2] != 3 {
		t.Errorf("left padding = %v, want matte fill [1 2 3 ...]", out[borderOff:borderOff+bpp])
	}
	contentOff := 1 * bpp
	for c := 0; c < 3; c++ {
		diff := int(out[contentOff+c]) - []int{10, 20, 30}[c]
		if diff < -2 || diff > 2 {
			t.Errorf("content column channel %d = %d, want ~%d", c, out[contentOff+c], []int{10, 20, 30}[c])
		}
	}
}

// TestBuildLinearAlphaFlattenLiteral pins the exact bytes of a two-pixel
// linear-light flatten onto white: each saturated channel survives at
// 255, and each zero channel lands on the companded value of the white
// background's linear contribution, compand(1 - 128/255) = 187.
func TestBuildLinearAlphaFlattenLiteral(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgra32), 2, 1)
	copy(src.Pix(), []byte{
		255, 0, 0, 128,
		0, 255, 0, 128,
	})

	s := NewSettings(WithMatte(255, 255, 255, true), WithBlendMode(BlendLinear))
	ctx := newCtx(s, src)
	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Format().ID != pixfmt.IDBgr24 {
		t.Fatalf("format = %v, want Bgr24", ctx.Source.Format().ID)
	}
	out := make([]byte, 2*3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 1}, 2*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	want := []byte{255, 187, 187, 187, 255, 187}
	for i := range want {
		diff := int(out[i]) - int(want[i])
		if diff < -1 || diff > 1 {
			t.Errorf("byte %d = %d, want %d +-1", i, out[i], want[i])
		}
	}
}

// TestBuildPlanarPureRedLiteral pins the BT.601 full-range decode of
// (Y=76, Cb=85, Cr=255) through the whole builder: pure red.
func TestBuildPlanarPureRedLiteral(t *testing.T) {
	y := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDY8), 1, 1)
	y.Pix()[0] = 76
	cb := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDCb8), 1, 1)
	cb.Pix()[0] = 85
	cr := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDCr8), 1, 1)
	cr.Pix()[0] = 255

	dummy := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 1, 1)
	frame := &yccFrame{
		fakeFrame: fakeFrame{src: dummy},
		y:         y, cb: cb, cr: cr,
		sub: pixel.Subsample444, siting: pixel.SitingCosited,
	}
	container := &fakeContainer{frame: frame}
	ctx := NewContext(NewSettings(), container, frame)

	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := make([]byte, 3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 1, H: 1}, 3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	if out[0] > 1 || out[1] > 1 || out[2] < 254 {
		t.Fatalf("BGR = %v, want ~[0 0 255] (pure red)", out)
	}
}

// TestBuildCropThenRotate90Literal pins the byte layout of a
// presentation-space crop on a rotated frame: a 4x2 source with rows
// [A B C D] / [E F G H], rotated 90 degrees clockwise and cropped to its
// middle 2x2, must come out as [F B] / [G C].
func TestBuildCropThenRotate90Literal(t *testing.T) {
	src := pixel.NewFrameBuffer(pixfmt.Lookup(pixfmt.IDBgr24), 4, 2)
	copy(src.Pix(), []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, // A B C D
		13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // E F G H
	})

	s := NewSettings(WithCrop(0, 1, 2, 2))
	ctx := newCtx(s, src)
	ctx.Orientation = pixfmt.OrientationRotate90CW
	if err := Build(ctx, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Source.Width() != 2 || ctx.Source.Height() != 2 {
		t.Fatalf("dims = (%d,%d), want (2,2)", ctx.Source.Width(), ctx.Source.Height())
	}
	out := make([]byte, 2*2*3)
	if err := ctx.Source.CopyPixels(pixfmt.Area{X: 0, Y: 0, W: 2, H: 2}, 2*3, out); err != nil {
		t.Fatalf("CopyPixels: %v", err)
	}
	want := []byte{
		16, 17, 18, 4, 5, 6, // F B
		19, 20, 21, 7, 8, 9, // G C
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, out[i], want[i])
		}
	}
}
