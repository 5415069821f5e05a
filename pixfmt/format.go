// Package pixfmt defines the stable set of pixel formats the pipeline
// understands, along with the area/orientation arithmetic every transform
// in package transform builds on.
package pixfmt

import "fmt"

// Numeric is the in-memory numeric representation of a channel value.
type Numeric int

const (
	UnsignedInt Numeric = iota
	FixedQ15
	Float
)

// Alpha describes how (and whether) a format carries an alpha channel.
type Alpha int

const (
	AlphaNone Alpha = iota
	AlphaStraight
	AlphaPremultiplied
)

// Color names the channel layout/semantics of a format.
type Color int

const (
	ColorBgr Color = iota
	ColorGrey
	ColorY
	ColorCb
	ColorCr
	ColorCmyk
	ColorIndexed
)

// Encoding distinguishes gamma-companded values from linear-light ones.
type Encoding int

const (
	Unspecified Encoding = iota
	Companded
	Linear
)

// Range is the nominal value range a format's samples occupy.
type Range int

const (
	Full Range = iota
	Video
)

// ID is a stable, interned identifier for a registered Format.
type ID int

// Format is a value-type descriptor for a pixel format. Formats are
// interned in the package registry and compared by ID.
type Format struct {
	ID            ID
	Name          string
	Channels      int
	BitsPerPixel  int
	Numeric       Numeric
	Alpha         Alpha
	Color         Color
	Encoding      Encoding
	Range         Range
}

// BytesPerPixel returns ceil(BitsPerPixel/8), the packed byte stride of one
// pixel for interleaved formats.
func (f Format) BytesPerPixel() int {
	return (f.BitsPerPixel + 7) / 8
}

// LineBytes returns the number of bytes a row of w pixels of this format
// occupies: DivCeil(w*bpp, 8).
func (f Format) LineBytes(w int) int {
	return DivCeil(w*f.BitsPerPixel, 8)
}

// DivCeil computes ceil(a/b) for non-negative integers.
func DivCeil(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// IsFloat reports whether the format's numeric representation is 32-bit float.
func (f Format) IsFloat() bool { return f.Numeric == Float }

// IsLinear reports whether the format's samples are linear-light.
func (f Format) IsLinear() bool { return f.Encoding == Linear }

func (f Format) String() string { return f.Name }

// Registered format identifiers.
const (
	IDGrey8 ID = iota
	IDY8
	IDY8Video
	IDCb8
	IDCr8
	IDCb8Video
	IDCr8Video
	IDBgr24
	IDBgra32
	IDPbgra32
	IDBgrx32
	IDRgb24
	IDRgba32
	IDCmyk32
	IDIndexed8
	IDGrey32Float
	IDGrey32FloatLinear
	IDGrey16UQ15Linear
	IDY32Float
	IDY32FloatLinear
	IDY16UQ15Linear
	IDCb32Float
	IDCr32Float
	IDBgr96Float
	IDBgr96FloatLinear
	IDBgrx128Float
	IDBgrx128FloatLinear
	IDPbgra128Float
	IDPbgra128FloatLinear
	IDBgr48UQ15Linear
	IDPbgra64UQ15Linear
	idCount
)

var registry = [idCount]Format{
	IDGrey8:     {IDGrey8, "Grey8", 1, 8, UnsignedInt, AlphaNone, ColorGrey, Companded, Full},
	IDY8:        {IDY8, "Y8", 1, 8, UnsignedInt, AlphaNone, ColorY, Companded, Full},
	IDY8Video:   {IDY8Video, "Y8Video", 1, 8, UnsignedInt, AlphaNone, ColorY, Companded, Video},
	IDCb8:       {IDCb8, "Cb8", 1, 8, UnsignedInt, AlphaNone, ColorCb, Companded, Full},
	IDCr8:       {IDCr8, "Cr8", 1, 8, UnsignedInt, AlphaNone, ColorCr, Companded, Full},
	IDCb8Video:  {IDCb8Video, "Cb8Video", 1, 8, UnsignedInt, AlphaNone, ColorCb, Companded, Video},
	IDCr8Video:  {IDCr8Video, "Cr8Video", 1, 8, UnsignedInt, AlphaNone, ColorCr, Companded, Video},
	IDBgr24:     {IDBgr24, "Bgr24", 3, 24, UnsignedInt, AlphaNone, ColorBgr, Companded, Full},
	IDBgra32:    {IDBgra32, "Bgra32", 4, 32, UnsignedInt, AlphaStraight, ColorBgr, Companded, Full},
	IDPbgra32:   {IDPbgra32, "Pbgra32", 4, 32, UnsignedInt, AlphaPremultiplied, ColorBgr, Companded, Full},
	IDBgrx32:    {IDBgrx32, "Bgrx32", 4, 32, UnsignedInt, AlphaNone, ColorBgr, Companded, Full},
	IDRgb24:     {IDRgb24, "Rgb24", 3, 24, UnsignedInt, AlphaNone, ColorBgr, Companded, Full},
	IDRgba32:    {IDRgba32, "Rgba32", 4, 32, UnsignedInt, AlphaStraight, ColorBgr, Companded, Full},
	IDCmyk32:    {IDCmyk32, "Cmyk32", 4, 32, UnsignedInt, AlphaNone, ColorCmyk, Companded, Full},
	IDIndexed8:  {IDIndexed8, "Indexed8", 1, 8, UnsignedInt, AlphaNone, ColorIndexed, Unspecified, Full},

	IDGrey32Float:       {IDGrey32Float, "Grey32Float", 1, 32, Float, AlphaNone, ColorGrey, Companded, Full},
	IDGrey32FloatLinear: {IDGrey32FloatLinear, "Grey32FloatLinear", 1, 32, Float, AlphaNone, ColorGrey, Linear, Full},
	IDGrey16UQ15Linear:  {IDGrey16UQ15Linear, "Grey16UQ15Linear", 1, 16, FixedQ15, AlphaNone, ColorGrey, Linear, Full},
	IDY32Float:          {IDY32Float, "Y32Float", 1, 32, Float, AlphaNone, ColorY, Companded, Full},
	IDY32FloatLinear:    {IDY32FloatLinear, "Y32FloatLinear", 1, 32, Float, AlphaNone, ColorY, Linear, Full},
	IDY16UQ15Linear:     {IDY16UQ15Linear, "Y16UQ15Linear", 1, 16, FixedQ15, AlphaNone, ColorY, Linear, Full},
	IDCb32Float:         {IDCb32Float, "Cb32Float", 1, 32, Float, AlphaNone, ColorCb, Companded, Full},
	IDCr32Float:         {IDCr32Float, "Cr32Float", 1, 32, Float, AlphaNone, ColorCr, Companded, Full},
	IDBgr96Float:        {IDBgr96Float, "Bgr96Float", 3, 96, Float, AlphaNone, ColorBgr, Companded, Full},
	IDBgr96FloatLinear:  {IDBgr96FloatLinear, "Bgr96FloatLinear", 3, 96, Float, AlphaNone, ColorBgr, Linear, Full},
	IDBgrx128Float:        {IDBgrx128Float, "Bgrx128Float", 4, 128, Float, AlphaNone, ColorBgr, Companded, Full},
	IDBgrx128FloatLinear:  {IDBgrx128FloatLinear, "Bgrx128FloatLinear", 4, 128, Float, AlphaNone, ColorBgr, Linear, Full},
	IDPbgra128Float:       {IDPbgra128Float, "Pbgra128Float", 4, 128, Float, AlphaPremultiplied, ColorBgr, Companded, Full},
	IDPbgra128FloatLinear: {IDPbgra128FloatLinear, "Pbgra128FloatLinear", 4, 128, Float, AlphaPremultiplied, ColorBgr, Linear, Full},
	IDBgr48UQ15Linear:   {IDBgr48UQ15Linear, "Bgr48UQ15Linear", 3, 48, FixedQ15, AlphaNone, ColorBgr, Linear, Full},
	IDPbgra64UQ15Linear: {IDPbgra64UQ15Linear, "Pbgra64UQ15Linear", 4, 64, FixedQ15, AlphaPremultiplied, ColorBgr, Linear, Full},
}

func init() {
	for id, f := range registry {
		if f.Name == "" {
			continue
		}
		if f.Color != ColorIndexed && f.Channels*bitsPerChannel(f) != f.BitsPerPixel {
			panic(fmt.Sprintf("pixfmt: format %s violates channels*bits_per_channel=bits_per_pixel invariant", f.Name))
		}
		if id != int(f.ID) {
			panic(fmt.Sprintf("pixfmt: format %s registered at wrong index", f.Name))
		}
	}
}

func bitsPerChannel(f Format) int {
	if f.Channels == 0 {
		return 0
	}
	return f.BitsPerPixel / f.Channels
}

// Lookup returns the registered Format for id.
func Lookup(id ID) Format {
	if id < 0 || int(id) >= len(registry) {
		return Format{}
	}
	return registry[id]
}

// ByName finds a registered format by its stable name, for adapters that
// only know a string identifier (e.g. from a container/codec library).
func ByName(name string) (Format, bool) {
	for _, f := range registry {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}
