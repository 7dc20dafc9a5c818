package imgmodel

import (
	"fmt"
	"image"
	"image/color"
)

// Image is the tagged union described by the spec's data model: every
// decoded raster is one of the concrete variants below. Each variant also
// implements the standard library's image.Image interface (ColorModel,
// Bounds, At) — the same convention followed by every codec in the corpus
// this package was grounded on (bmp, tiff, webp readers all hand back an
// image.Image) — so that callers, and Vexel's own PNG/GIF frame
// compositors, can use golang.org/x/image/draw directly instead of a
// second hand-rolled blit routine.
type Image interface {
	image.Image
	Width() int
	Height() int
}

func sampleLen(w, h, samplesPerPixel, sampleBytes int) int {
	return w * h * samplesPerPixel * sampleBytes
}

// L8 is an 8-bit grayscale image, one sample per pixel.
type L8 struct {
	W, H int
	Pix  []uint8 // len == W*H
}

func NewL8(w, h int) *L8 { return &L8{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 1, 1))} }
func (im *L8) Width() int           { return im.W }
func (im *L8) Height() int          { return im.H }
func (im *L8) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *L8) ColorModel() color.Model { return color.GrayModel }
func (im *L8) At(x, y int) color.Color {
	return color.Gray{Y: im.Pix[y*im.W+x]}
}
func (im *L8) SetL(x, y int, v uint8) { im.Pix[y*im.W+x] = v }

// L16 is a 16-bit grayscale image, big-endian samples.
type L16 struct {
	W, H int
	Pix  []uint8 // len == W*H*2, big-endian uint16 per pixel
}

func NewL16(w, h int) *L16 { return &L16{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 1, 2))} }
func (im *L16) Width() int           { return im.W }
func (im *L16) Height() int          { return im.H }
func (im *L16) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *L16) ColorModel() color.Model { return color.Gray16Model }
func (im *L16) At(x, y int) color.Color {
	i := 2 * (y*im.W + x)
	return color.Gray16{Y: uint16(im.Pix[i])<<8 | uint16(im.Pix[i+1])}
}
func (im *L16) SetL(x, y int, v uint16) {
	i := 2 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1] = uint8(v>>8), uint8(v)
}

// LA8 is gray+alpha, 8 bits per sample.
type LA8 struct {
	W, H int
	Pix  []uint8 // len == W*H*2
}

func NewLA8(w, h int) *LA8 { return &LA8{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 2, 1))} }
func (im *LA8) Width() int           { return im.W }
func (im *LA8) Height() int          { return im.H }
func (im *LA8) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *LA8) ColorModel() color.Model { return color.NRGBAModel }
func (im *LA8) At(x, y int) color.Color {
	i := 2 * (y*im.W + x)
	return color.NRGBA{R: im.Pix[i], G: im.Pix[i], B: im.Pix[i], A: im.Pix[i+1]}
}
func (im *LA8) SetLA(x, y int, l, a uint8) {
	i := 2 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1] = l, a
}

// LA16 is gray+alpha, 16 bits per sample, big-endian.
type LA16 struct {
	W, H int
	Pix  []uint8 // len == W*H*4
}

func NewLA16(w, h int) *LA16 { return &LA16{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 2, 2))} }
func (im *LA16) Width() int           { return im.W }
func (im *LA16) Height() int          { return im.H }
func (im *LA16) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *LA16) ColorModel() color.Model { return color.NRGBA64Model }
func (im *LA16) At(x, y int) color.Color {
	i := 4 * (y*im.W + x)
	y16 := uint16(im.Pix[i])<<8 | uint16(im.Pix[i+1])
	a16 := uint16(im.Pix[i+2])<<8 | uint16(im.Pix[i+3])
	return color.NRGBA64{R: y16, G: y16, B: y16, A: a16}
}
func (im *LA16) SetLA(x, y int, l, a uint16) {
	i := 4 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1] = uint8(l>>8), uint8(l)
	im.Pix[i+2], im.Pix[i+3] = uint8(a>>8), uint8(a)
}

// RGB8 is 8 bits per channel, no alpha.
type RGB8 struct {
	W, H int
	Pix  []uint8 // len == W*H*3
}

func NewRGB8(w, h int) *RGB8 { return &RGB8{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 3, 1))} }
func (im *RGB8) Width() int           { return im.W }
func (im *RGB8) Height() int          { return im.H }
func (im *RGB8) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *RGB8) ColorModel() color.Model { return color.NRGBAModel }
func (im *RGB8) At(x, y int) color.Color {
	i := 3 * (y*im.W + x)
	return color.NRGBA{R: im.Pix[i], G: im.Pix[i+1], B: im.Pix[i+2], A: 0xff}
}
func (im *RGB8) SetRGB(x, y int, r, g, b uint8) {
	i := 3 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1], im.Pix[i+2] = r, g, b
}

// RGB16 is 16 bits per channel, no alpha, big-endian.
type RGB16 struct {
	W, H int
	Pix  []uint8 // len == W*H*6
}

func NewRGB16(w, h int) *RGB16 { return &RGB16{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 3, 2))} }
func (im *RGB16) Width() int           { return im.W }
func (im *RGB16) Height() int          { return im.H }
func (im *RGB16) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *RGB16) ColorModel() color.Model { return color.NRGBA64Model }
func (im *RGB16) At(x, y int) color.Color {
	i := 6 * (y*im.W + x)
	r := uint16(im.Pix[i])<<8 | uint16(im.Pix[i+1])
	g := uint16(im.Pix[i+2])<<8 | uint16(im.Pix[i+3])
	b := uint16(im.Pix[i+4])<<8 | uint16(im.Pix[i+5])
	return color.NRGBA64{R: r, G: g, B: b, A: 0xffff}
}
func (im *RGB16) SetRGB(x, y int, r, g, b uint16) {
	i := 6 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1] = uint8(r>>8), uint8(r)
	im.Pix[i+2], im.Pix[i+3] = uint8(g>>8), uint8(g)
	im.Pix[i+4], im.Pix[i+5] = uint8(b>>8), uint8(b)
}

// RGBA8 is 8 bits per channel, straight (non-premultiplied) alpha. It also
// implements draw.Image (via Set) so it can serve as the destination
// canvas for PNG/GIF frame composition through golang.org/x/image/draw.
type RGBA8 struct {
	W, H int
	Pix  []uint8 // len == W*H*4
}

func NewRGBA8(w, h int) *RGBA8 { return &RGBA8{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 4, 1))} }
func (im *RGBA8) Width() int           { return im.W }
func (im *RGBA8) Height() int          { return im.H }
func (im *RGBA8) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *RGBA8) ColorModel() color.Model { return color.NRGBAModel }
func (im *RGBA8) At(x, y int) color.Color {
	i := 4 * (y*im.W + x)
	return color.NRGBA{R: im.Pix[i], G: im.Pix[i+1], B: im.Pix[i+2], A: im.Pix[i+3]}
}
func (im *RGBA8) Set(x, y int, c color.Color) {
	i := 4 * (y*im.W + x)
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	im.Pix[i], im.Pix[i+1], im.Pix[i+2], im.Pix[i+3] = n.R, n.G, n.B, n.A
}
func (im *RGBA8) SetRGBA(x, y int, r, g, b, a uint8) {
	i := 4 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1], im.Pix[i+2], im.Pix[i+3] = r, g, b, a
}

// RGBA16 is 16 bits per channel, straight alpha, big-endian.
type RGBA16 struct {
	W, H int
	Pix  []uint8 // len == W*H*8
}

func NewRGBA16(w, h int) *RGBA16 { return &RGBA16{W: w, H: h, Pix: make([]uint8, sampleLen(w, h, 4, 2))} }
func (im *RGBA16) Width() int           { return im.W }
func (im *RGBA16) Height() int          { return im.H }
func (im *RGBA16) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *RGBA16) ColorModel() color.Model { return color.NRGBA64Model }
func (im *RGBA16) At(x, y int) color.Color {
	i := 8 * (y*im.W + x)
	r := uint16(im.Pix[i])<<8 | uint16(im.Pix[i+1])
	g := uint16(im.Pix[i+2])<<8 | uint16(im.Pix[i+3])
	b := uint16(im.Pix[i+4])<<8 | uint16(im.Pix[i+5])
	a := uint16(im.Pix[i+6])<<8 | uint16(im.Pix[i+7])
	return color.NRGBA64{R: r, G: g, B: b, A: a}
}
func (im *RGBA16) Set(x, y int, c color.Color) {
	i := 8 * (y*im.W + x)
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	im.Pix[i], im.Pix[i+1] = uint8(n.R>>8), uint8(n.R)
	im.Pix[i+2], im.Pix[i+3] = uint8(n.G>>8), uint8(n.G)
	im.Pix[i+4], im.Pix[i+5] = uint8(n.B>>8), uint8(n.B)
	im.Pix[i+6], im.Pix[i+7] = uint8(n.A>>8), uint8(n.A)
}
func (im *RGBA16) SetRGBA(x, y int, r, g, b, a uint16) {
	i := 8 * (y*im.W + x)
	im.Pix[i], im.Pix[i+1] = uint8(r>>8), uint8(r)
	im.Pix[i+2], im.Pix[i+3] = uint8(g>>8), uint8(g)
	im.Pix[i+4], im.Pix[i+5] = uint8(b>>8), uint8(b)
	im.Pix[i+6], im.Pix[i+7] = uint8(a>>8), uint8(a)
}

// Indexed8 is a palette-indexed image: one 8-bit index per pixel into a
// palette of up to 256 RGBA8 entries. Every index is clamped below
// len(Palette) during decode — out-of-range indices never survive into a
// returned Indexed8 (spec §3 invariant).
type Indexed8 struct {
	W, H    int
	Pix     []uint8 // len == W*H, each value < len(Palette)
	Palette color.Palette
}

func NewIndexed8(w, h int, palette color.Palette) *Indexed8 {
	return &Indexed8{W: w, H: h, Pix: make([]uint8, w*h), Palette: palette}
}
func (im *Indexed8) Width() int           { return im.W }
func (im *Indexed8) Height() int          { return im.H }
func (im *Indexed8) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *Indexed8) ColorModel() color.Model { return im.Palette }
func (im *Indexed8) At(x, y int) color.Color {
	idx := im.Pix[y*im.W+x]
	if int(idx) >= len(im.Palette) {
		if len(im.Palette) == 0 {
			return color.NRGBA{}
		}
		idx = uint8(len(im.Palette) - 1)
	}
	return im.Palette[idx]
}
func (im *Indexed8) SetIndex(x, y int, idx uint8) { im.Pix[y*im.W+x] = idx }

// Clamp forces every index below len(Palette), recording how many pixels
// were out of range. Decoders call this once after filling Pix so the
// invariant in spec §3 ("every sample < palette length") always holds.
func (im *Indexed8) Clamp() (clamped int) {
	if len(im.Palette) == 0 {
		return 0
	}
	max := uint8(len(im.Palette) - 1)
	for i, v := range im.Pix {
		if int(v) >= len(im.Palette) {
			im.Pix[i] = max
			clamped++
		}
	}
	return clamped
}

// DisposalMethod is the canvas action applied between animation frames.
type DisposalMethod int

const (
	DisposeNone DisposalMethod = iota
	DisposeBackground
	DisposePrevious
)

// BlendMethod controls how a frame's pixels combine with the canvas.
type BlendMethod int

const (
	BlendSource BlendMethod = iota
	BlendOver
)

// AnimFrame is one frame of an Animation: its decoded image (already
// composed onto the canvas at full animation size), how long to display it,
// and the disposal/blend that applied when it was drawn.
type AnimFrame struct {
	Image    Image
	DelayMs  int
	Disposal DisposalMethod
	Blend    BlendMethod
}

// Animation is an ordered sequence of frames sharing one canvas size.
type Animation struct {
	W, H      int
	Frames    []AnimFrame
	LoopCount int // 0 means infinite, matching GIF/APNG convention
}

func (im *Animation) Width() int           { return im.W }
func (im *Animation) Height() int          { return im.H }
func (im *Animation) Bounds() image.Rectangle { return image.Rect(0, 0, im.W, im.H) }
func (im *Animation) ColorModel() color.Model {
	if len(im.Frames) > 0 {
		return im.Frames[0].Image.ColorModel()
	}
	return color.NRGBAModel
}
func (im *Animation) At(x, y int) color.Color {
	if len(im.Frames) == 0 {
		return color.NRGBA{}
	}
	return im.Frames[0].Image.At(x, y)
}

// ImageInfo merges format-specific metadata gathered before and during
// decode (spec §3's "Info Aggregator", §4.10).
type ImageInfo struct {
	Width, Height int
	BitDepth      int
	ColorType     string
	Format        Format
	FrameCount    int
	LoopCount     int

	GammaPresent bool
	Gamma        float64
	Chromaticity *Chromaticity

	DensityX, DensityY int
	DensityUnit        string

	Orientation *Orientation

	// Notes is the append-only recovery log described in spec §7/§8: every
	// substitution, clamp or resync the decoder performed, in the order it
	// occurred. Callers inspect it to detect degraded decodes.
	Notes []string
}

// AddNote appends one entry to the recovery log (spec §7). Every format
// package calls this instead of touching Notes directly, so the message
// format stays consistent across decoders.
func (info *ImageInfo) AddNote(format string, args ...interface{}) {
	info.Notes = append(info.Notes, fmt.Sprintf(format, args...))
}

// Chromaticity holds PNG cHRM white point and primaries, each as (x, y) in
// the CIE 1931 chromaticity diagram.
type Chromaticity struct {
	WhiteX, WhiteY float64
	RedX, RedY     float64
	GreenX, GreenY float64
	BlueX, BlueY   float64
}

// Orientation records the EXIF/JFIF-declared display orientation, when
// present, following the teacher's Orientation/VisualSide/VisualEffect
// model (jpeg.go), generalized onto ImageInfo instead of being JPEG-only.
type Orientation struct {
	AppSource int
	Row0      VisualSide
	Col0      VisualSide
}

type VisualSide int

const (
	Top VisualSide = iota
	Bottom
	Left
	Right
)
