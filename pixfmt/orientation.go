package pixfmt

// Orientation is an Exif orientation tag value (1-8). It is the caller's
// job to resolve "no orientation metadata" to OrientationNormal before
// using these helpers.
type Orientation int

const (
	OrientationNormal      Orientation = 1
	OrientationFlipH       Orientation = 2
	OrientationRotate180   Orientation = 3
	OrientationFlipV       Orientation = 4
	OrientationTranspose   Orientation = 5 // flip across the main diagonal
	OrientationRotate90CW  Orientation = 6
	OrientationTransverse  Orientation = 7 // flip across the anti-diagonal
	OrientationRotate270CW Orientation = 8

	// aliases matching common naming for 90-degree rotations.
	OrientationRotate90CCW  = OrientationRotate270CW
	OrientationRotate270CCW = OrientationRotate90CW
)

// RequiresTranspose reports whether o swaps the width/height axes, i.e.
// whether storage dimensions (w,h) present as (h,w).
func (o Orientation) RequiresTranspose() bool {
	switch o {
	case OrientationTranspose, OrientationRotate90CW, OrientationTransverse, OrientationRotate270CW:
		return true
	default:
		return false
	}
}

// Valid reports whether o is one of the 8 defined Exif values.
func (o Orientation) Valid() bool { return o >= 1 && o <= 8 }

// PresentationDims returns the (width, height) an image of native storage
// dimensions (storageW, storageH) presents as once o is applied.
func (o Orientation) PresentationDims(storageW, storageH int) (int, int) {
	if o.RequiresTranspose() {
		return storageH, storageW
	}
	return storageW, storageH
}

// DeOrient maps an area expressed in storage (as-decoded) coordinates to
// the equivalent area in presentation (as-displayed) coordinates, given the
// native storage dimensions (storageW, storageH).
func DeOrient(a Area, o Orientation, storageW, storageH int) Area {
	w, h := storageW, storageH
	switch o {
	case OrientationNormal:
		return a
	case OrientationFlipH:
		return Area{w - (a.X + a.W), a.Y, a.W, a.H}
	case OrientationRotate180:
		return Area{w - (a.X + a.W), h - (a.Y + a.H), a.W, a.H}
	case OrientationFlipV:
		return Area{a.X, h - (a.Y + a.H), a.W, a.H}
	case OrientationTranspose:
		return Area{a.Y, a.X, a.H, a.W}
	case OrientationRotate90CW:
		return Area{h - (a.Y + a.H), a.X, a.H, a.W}
	case OrientationTransverse:
		return Area{h - (a.Y + a.H), w - (a.X + a.W), a.H, a.W}
	case OrientationRotate270CW:
		return Area{a.Y, w - (a.X + a.W), a.H, a.W}
	default:
		return a
	}
}

// ReOrient maps an area expressed in presentation coordinates back to
// storage coordinates, given the native storage dimensions. It is the
// exact inverse of DeOrient for the same orientation and storage dims:
// DeOrient(ReOrient(a, o, sw, sh), o, sw, sh) == a.
func ReOrient(a Area, o Orientation, storageW, storageH int) Area {
	w, h := storageW, storageH
	switch o {
	case OrientationNormal:
		return a
	case OrientationFlipH:
		return Area{w - (a.X + a.W), a.Y, a.W, a.H}
	case OrientationRotate180:
		return Area{w - (a.X + a.W), h - (a.Y + a.H), a.W, a.H}
	case OrientationFlipV:
		return Area{a.X, h - (a.Y + a.H), a.W, a.H}
	case OrientationTranspose:
		return Area{a.Y, a.X, a.H, a.W}
	case OrientationRotate90CW:
		return Area{a.Y, h - a.W - a.X, a.H, a.W}
	case OrientationTransverse:
		H, W := a.W, a.H
		Y := h - a.W - a.X
		X := w - a.H - a.Y
		return Area{X, Y, W, H}
	case OrientationRotate270CW:
		return Area{w - a.H - a.Y, a.X, a.H, a.W}
	default:
		return a
	}
}
