package transform

import (
	"github.com/Nness/PhotoSauce/internal/errs"
	"github.com/Nness/PhotoSauce/pixel"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// octNode is one node of the octree color quantizer, branching on
// successively less significant bits of each of the 8-bit R/G/B channels
// (depth 0 = most significant bit, depth 7 = least).
type octNode struct {
	leaf                      bool
	pixelCount                int
	redSum, greenSum, blueSum int64
	paletteIndex              int
	children                  [8]*octNode
}

const octreeDepth = 8

// Octree builds and holds an up-to-256-entry palette by averaging colors
// within octree leaves. It is a standard octree color quantizer: colors
// are inserted leaf-first to full depth, then leaves are merged bottom-up
// (reducible nodes, tracked per level) until the leaf count is within
// budget.
type Octree struct {
	root       *octNode
	maxColors  int
	leafCount  int
	reducible  [octreeDepth][]*octNode
	colorCount map[[3]byte]struct{}
}

// NewOctree builds an empty quantizer targeting at most maxColors
// palette entries (capped to 256).
func NewOctree(maxColors int) *Octree {
	if maxColors > 256 {
		maxColors = 256
	}
	if maxColors < 1 {
		maxColors = 1
	}
	return &Octree{
		root:       &octNode{},
		maxColors:  maxColors,
		colorCount: make(map[[3]byte]struct{}),
	}
}

func octIndex(r, g, b byte, level int) int {
	shift := 7 - level
	ri := (r >> shift) & 1
	gi := (g >> shift) & 1
	bi := (b >> shift) & 1
	return int(ri)<<2 | int(gi)<<1 | int(bi)
}

// AddColor inserts one pixel's color into the tree, growing leaves as
// needed and reducing whenever the leaf count exceeds the budget.
func (t *Octree) AddColor(r, g, b byte) {
	t.colorCount[[3]byte{r, g, b}] = struct{}{}
	node := t.root
	for level := 0; level < octreeDepth; level++ {
		if node.leaf {
			break
		}
		idx := octIndex(r, g, b, level)
		child := node.children[idx]
		if child == nil {
			child = &octNode{}
			node.children[idx] = child
			if level < octreeDepth-1 {
				t.reducible[level] = append(t.reducible[level], child)
			} else {
				child.leaf = true
				t.leafCount++
			}
		}
		node = child
	}
	node.pixelCount++
	node.redSum += int64(r)
	node.greenSum += int64(g)
	node.blueSum += int64(b)

	for t.leafCount > t.maxColors {
		t.reduceOnce()
	}
}

// reduceOnce merges all children of the deepest level that still has
// reducible nodes into their parents, the standard octree merge step.
func (t *Octree) reduceOnce() {
	level := octreeDepth - 2
	for level >= 0 && len(t.reducible[level]) == 0 {
		level--
	}
	if level < 0 {
		return
	}
	nodes := t.reducible[level]
	node := nodes[len(nodes)-1]
	t.reducible[level] = nodes[:len(nodes)-1]

	for i, c := range node.children {
		if c == nil {
			continue
		}
		node.pixelCount += c.pixelCount
		node.redSum += c.redSum
		node.greenSum += c.greenSum
		node.blueSum += c.blueSum
		if c.leaf {
			t.leafCount--
		}
		node.children[i] = nil
	}
	node.leaf = true
	t.leafCount++
}

// IsExact reports whether the image's total distinct color count fits
// within the target palette size without any averaging loss.
func (t *Octree) IsExact() bool {
	return len(t.colorCount) <= t.maxColors
}

// BuildPalette walks the (possibly reduced) tree's leaves, assigning each
// one a palette index and its averaged color, and returns the resulting
// Palette alongside IsExact.
func (t *Octree) BuildPalette() (*Palette, bool) {
	pal := &Palette{}
	var walk func(n *octNode)
	walk = func(n *octNode) {
		if n.leaf {
			if pal.Count >= 256 {
				return
			}
			n.paletteIndex = pal.Count
			var r, g, b byte
			if n.pixelCount > 0 {
				r = byte(n.redSum / int64(n.pixelCount))
				g = byte(n.greenSum / int64(n.pixelCount))
				b = byte(n.blueSum / int64(n.pixelCount))
			}
			pal.Entries[pal.Count] = [4]byte{b, g, r, 255}
			pal.Count++
			return
		}
		for _, c := range n.children {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(t.root)
	return pal, t.IsExact()
}

// Lookup walks the tree to the leaf a color would have inserted into and
// returns that leaf's assigned palette index. BuildPalette must have been
// called first.
func (t *Octree) Lookup(r, g, b byte) byte {
	node := t.root
	for level := 0; level < octreeDepth; level++ {
		if node.leaf {
			return byte(node.paletteIndex)
		}
		idx := octIndex(r, g, b, level)
		child := node.children[idx]
		if child == nil {
			return byte(node.paletteIndex)
		}
		node = child
	}
	return byte(node.paletteIndex)
}

// BuildOctreeFromSource scans every pixel of a Bgr24 or Bgra32 src
// (alpha, if present, is ignored) into a fresh Octree sized for
// maxColors, buffering one row at a time.
func BuildOctreeFromSource(src pixel.Source, maxColors int) (*Octree, error) {
	fmtID := src.Format().ID
	if fmtID != pixfmt.IDBgr24 && fmtID != pixfmt.IDBgra32 {
		return nil, errs.New(errs.Unsupported, "quantize: source must be Bgr24 or Bgra32")
	}
	bpp := src.Format().BytesPerPixel()
	w, h := src.Width(), src.Height()
	row := make([]byte, src.Format().LineBytes(w))
	t := NewOctree(maxColors)
	for y := 0; y < h; y++ {
		if err := src.CopyPixels(pixfmt.Area{X: 0, Y: y, W: w, H: 1}, len(row), row); err != nil {
			return nil, errs.Wrap(errs.InvalidArgument, err, "quantize: scanning source")
		}
		for x := 0; x < w; x++ {
			off := x * bpp
			t.AddColor(row[off+2], row[off+1], row[off+0]) // r, g, b from b,g,r storage
		}
	}
	return t, nil
}

// Quantize converts a Bgr24/Bgra32 source to Indexed8 against a
// previously built Octree, applying ordered dithering to each channel
// before the tree lookup unless the palette already represents every
// source color exactly (dithering an exact palette only adds noise).
type Quantize struct {
	pixel.Chained
	tree    *Octree
	dither  *Dither
	isExact bool
	Pal     *Palette
}

// NewQuantize builds the transform. pal/isExact should come from the same
// tree's BuildPalette call. dither may be nil to disable dithering
// unconditionally.
func NewQuantize(prev pixel.Source, tree *Octree, pal *Palette, isExact bool, dither *Dither) (*Quantize, error) {
	fmtID := prev.Format().ID
	if fmtID != pixfmt.IDBgr24 && fmtID != pixfmt.IDBgra32 {
		return nil, errs.New(errs.Unsupported, "quantize: source must be Bgr24 or Bgra32")
	}
	return &Quantize{
		Chained: pixel.NewChained(prev, false),
		tree:    tree, dither: dither, isExact: isExact, Pal: pal,
	}, nil
}

func (q *Quantize) Format() pixfmt.Format { return pixfmt.Lookup(pixfmt.IDIndexed8) }

func (q *Quantize) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if err := pixel.ValidateCopy(q, area, stride, buf); err != nil {
		return err
	}
	srcBpp := q.Prev.Format().BytesPerPixel()
	srcRow := make([]byte, q.Prev.Format().LineBytes(area.W))
	useDither := q.dither != nil && !q.isExact

	for row := 0; row < area.H; row++ {
		if err := q.pullUpstreamPixels(pixfmt.Area{X: area.X, Y: area.Y + row, W: area.W, H: 1}, len(srcRow), srcRow); err != nil {
			return err
		}
		dst := buf[row*stride : row*stride+area.W]
		for x := 0; x < area.W; x++ {
			off := x * srcBpp
			b, g, r := srcRow[off+0], srcRow[off+1], srcRow[off+2]
			if useDither {
				b = ditherChannel(b, q.dither)
				g = ditherChannel(g, q.dither)
				r = ditherChannel(r, q.dither)
			}
			dst[x] = q.tree.Lookup(r, g, b)
		}
	}
	return nil
}

func (q *Quantize) pullUpstreamPixels(area pixfmt.Area, stride int, buf []byte) error {
	return q.Prev.CopyPixels(area, stride, buf)
}

func ditherChannel(v byte, d *Dither) byte {
	delta := d.Bits(8) - 128
	nv := int(v) + delta/4
	if nv < 0 {
		return 0
	}
	if nv > 255 {
		return 255
	}
	return byte(nv)
}
