package pipeline

import (
	"math"

	"github.com/Nness/PhotoSauce/internal/resample"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// FixupResult is the resolved geometry for one pipeline run:
// the size the source content is resampled to (InnerSize), the size the
// final canvas is padded to (OuterSize), where the inner content sits
// within that canvas (InnerRect), and how much of a large downscale the
// box pre-scaler should absorb before the high-quality kernel runs
// (HybridScaleRatio).
type FixupResult struct {
	InnerW, InnerH int
	OuterW, OuterH int
	InnerRect      pixfmt.Area
	// SourceCrop is the rectangle, in the source's presentation
	// coordinates, that feeds the resize stage: either the caller's
	// explicit Crop or a Cover-mode center-crop the Fixup computed to
	// match the target aspect ratio.
	SourceCrop pixfmt.Area
	// HybridScaleRatio is the power-of-two ratio the box pre-scaler
	// reduces by, or 1 if the pre-scaler should not run.
	HybridScaleRatio int
}

// Fixup resolves settings against a source of dimensions (srcW, srcH).
func Fixup(s *Settings, srcW, srcH int) FixupResult {
	crop := pixfmt.Area{X: 0, Y: 0, W: srcW, H: srcH}
	if s.Crop != nil {
		crop = pixfmt.Area{X: s.Crop.X, Y: s.Crop.Y, W: s.Crop.W, H: s.Crop.H}
	}

	// An unspecified target takes the crop's own dimensions, so a
	// crop-only request emits exactly the cropped rectangle rather than
	// padding it back out to the source canvas.
	targetW, targetH := s.Width, s.Height
	if targetW <= 0 && targetH <= 0 {
		targetW, targetH = crop.W, crop.H
	} else if targetW <= 0 {
		targetW = int(math.Round(float64(crop.W) * float64(targetH) / float64(crop.H)))
	} else if targetH <= 0 {
		targetH = int(math.Round(float64(crop.H) * float64(targetW) / float64(crop.W)))
	}

	var innerW, innerH int
	switch s.ResizeMode {
	case ResizeStretch:
		innerW, innerH = targetW, targetH
	case ResizeCrop:
		innerW, innerH = targetW, targetH
	case ResizeCover:
		crop = coverCrop(crop, targetW, targetH)
		innerW, innerH = targetW, targetH
	default: // ResizeContain
		innerW, innerH = containSize(crop.W, crop.H, targetW, targetH)
	}

	outerW, outerH := targetW, targetH
	if outerW < innerW {
		outerW = innerW
	}
	if outerH < innerH {
		outerH = innerH
	}

	innerX := (outerW - innerW) / 2
	innerY := (outerH - innerH) / 2

	ratio := 1
	if (s.HybridMode == HybridFavorSpeed) && !isPointSampler(s.Kernel) {
		ratio = hybridRatio(crop.W, innerW, crop.H, innerH)
	}

	return FixupResult{
		InnerW: innerW, InnerH: innerH,
		OuterW: outerW, OuterH: outerH,
		InnerRect:        pixfmt.Area{X: innerX, Y: innerY, W: innerW, H: innerH},
		SourceCrop:       crop,
		HybridScaleRatio: ratio,
	}
}

// containSize scales (srcW, srcH) to fit entirely within (boxW, boxH)
// preserving aspect ratio.
func containSize(srcW, srcH, boxW, boxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return boxW, boxH
	}
	srcRatio := float64(srcW) / float64(srcH)
	boxRatio := float64(boxW) / float64(boxH)
	if srcRatio > boxRatio {
		return boxW, int(math.Round(float64(boxW) / srcRatio))
	}
	return int(math.Round(float64(boxH) * srcRatio)), boxH
}

// coverCrop computes a center crop of crop whose aspect ratio matches
// targetW:targetH, trimming whichever axis overflows.
func coverCrop(crop pixfmt.Area, targetW, targetH int) pixfmt.Area {
	if crop.W <= 0 || crop.H <= 0 || targetW <= 0 || targetH <= 0 {
		return crop
	}
	cropRatio := float64(crop.W) / float64(crop.H)
	targetRatio := float64(targetW) / float64(targetH)
	if cropRatio > targetRatio {
		w := int(math.Round(float64(crop.H) * targetRatio))
		return pixfmt.Area{X: crop.X + (crop.W-w)/2, Y: crop.Y, W: w, H: crop.H}
	}
	h := int(math.Round(float64(crop.W) / targetRatio))
	return pixfmt.Area{X: crop.X, Y: crop.Y + (crop.H-h)/2, W: crop.W, H: h}
}

// hybridRatio computes max(1, 2^floor(log2(min(W/TW, H/TH)))): the
// largest power-of-two reduction that still leaves the high-quality
// kernel a residual downscale of at least 1x on both axes.
func hybridRatio(srcW, dstW, srcH, dstH int) int {
	if dstW <= 0 || dstH <= 0 {
		return 1
	}
	ratioW := float64(srcW) / float64(dstW)
	ratioH := float64(srcH) / float64(dstH)
	minRatio := math.Min(ratioW, ratioH)
	if minRatio < 2 {
		return 1
	}
	pow := math.Floor(math.Log2(minRatio))
	return int(math.Max(1, math.Pow(2, pow)))
}

func isPointSampler(k resample.Kernel) bool {
	return k != nil && k.Support() <= 0.5
}
