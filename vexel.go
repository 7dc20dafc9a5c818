// Package vexel decodes JPEG, PNG/APNG, GIF, BMP, NetPBM, and TIFF images
// with a best-effort recovery policy: a malformed bitstream yields clamped
// or substituted pixels and a recovery note rather than a hard failure,
// unless no pixel at all can be produced.
package vexel

import (
	"os"

	"github.com/vexeldecode/vexel/bmp"
	"github.com/vexeldecode/vexel/gif"
	"github.com/vexeldecode/vexel/imgmodel"
	"github.com/vexeldecode/vexel/jpeg"
	"github.com/vexeldecode/vexel/netpbm"
	"github.com/vexeldecode/vexel/png"
	"github.com/vexeldecode/vexel/tiff"
)

// Re-exported shared types so callers never need to import imgmodel
// directly — vexel.Image, vexel.ImageInfo and friends are the public
// surface; imgmodel is the internal-shared package that lets every format
// package depend on the data model without an import cycle back to vexel.
type (
	Image        = imgmodel.Image
	ImageInfo    = imgmodel.ImageInfo
	Format       = imgmodel.Format
	Kind         = imgmodel.Kind
	Error        = imgmodel.Error
	Control      = imgmodel.Control
	Chromaticity = imgmodel.Chromaticity
	Orientation  = imgmodel.Orientation
	VisualSide   = imgmodel.VisualSide
	Animation    = imgmodel.Animation
	AnimFrame    = imgmodel.AnimFrame

	L8       = imgmodel.L8
	L16      = imgmodel.L16
	LA8      = imgmodel.LA8
	LA16     = imgmodel.LA16
	RGB8     = imgmodel.RGB8
	RGB16    = imgmodel.RGB16
	RGBA8    = imgmodel.RGBA8
	RGBA16   = imgmodel.RGBA16
	Indexed8 = imgmodel.Indexed8
)

const (
	Unknown = imgmodel.Unknown
	JPEG    = imgmodel.JPEG
	PNG     = imgmodel.PNG
	GIF     = imgmodel.GIF
	BMP     = imgmodel.BMP
	NetPBM  = imgmodel.NetPBM
	TIFF    = imgmodel.TIFF
)

const (
	UnsupportedFormat  = imgmodel.UnsupportedFormat
	UnsupportedFeature = imgmodel.UnsupportedFeature
	DimensionsTooLarge = imgmodel.DimensionsTooLarge
	UnexpectedEOF      = imgmodel.UnexpectedEOF
	StructuralError    = imgmodel.StructuralError
	IoError            = imgmodel.IoError
)

const (
	DisposeNone       = imgmodel.DisposeNone
	DisposeBackground = imgmodel.DisposeBackground
	DisposePrevious   = imgmodel.DisposePrevious
	BlendSource       = imgmodel.BlendSource
	BlendOver         = imgmodel.BlendOver
)

// decoderFor dispatches a probed Format to its package's DecodeFunc. This is
// the single place that knows about every format package, keeping the leaf
// packages mutually independent (jpeg, png, gif, bmp, netpbm, tiff each
// depend only on imgmodel, never on each other or on vexel).
func decoderFor(f Format) imgmodel.DecodeFunc {
	switch f {
	case JPEG:
		return jpeg.Decode
	case PNG:
		return png.Decode
	case GIF:
		return gif.Decode
	case BMP:
		return bmp.Decode
	case NetPBM:
		return netpbm.Decode
	case TIFF:
		return tiff.Decode
	}
	return nil
}

// Decoder holds a decode in progress, or its result. It is not safe for
// concurrent use: spec §5 requires exclusive ownership of decoder state
// within one call, with no shared state across decodes.
type Decoder struct {
	data   []byte
	format Format
	ctl    Control

	decoded bool
	image   Image
	info    *ImageInfo
	err     error
}

// FromBytes never fails on I/O: it classifies buffer's format immediately
// and defers any parse failure to Decode.
func FromBytes(buffer []byte) *Decoder {
	d := &Decoder{data: buffer}
	d.format = imgmodel.Probe(buffer)
	return d
}

// Open reads path fully into memory and classifies it. I/O failures are
// reported eagerly through the returned error, the one case where Vexel
// raises an IoError.
func Open(path string) (*Decoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: IoError, Detail: path, Cause: err}
	}
	return FromBytes(data), nil
}

// SetControl overrides the default (silent) decode tracing/warning policy.
func (d *Decoder) SetControl(ctl Control) { d.ctl = ctl }

// Format returns the format classification made at construction time.
func (d *Decoder) Format() Format { return d.format }

// Decode performs the full decode, caching the result. It may record
// recovery notes yet still succeed — only the hard-failure Kinds in
// errors.go are returned as an error, per spec §7.
func (d *Decoder) Decode() (Image, error) {
	if d.decoded {
		return d.image, d.err
	}
	d.decoded = true

	fn := decoderFor(d.format)
	if fn == nil {
		d.err = &Error{Kind: UnsupportedFormat, Format: d.format}
		d.info = &ImageInfo{Format: d.format}
		return nil, d.err
	}

	img, info, err := fn(d.data, &d.ctl)
	d.image, d.info, d.err = img, info, err
	return img, err
}

// Info returns the metadata gathered so far: complete after a successful or
// partial Decode, and whatever was parsed before a hard failure otherwise.
func (d *Decoder) Info() *ImageInfo {
	if d.info == nil {
		return &ImageInfo{Format: d.format}
	}
	return d.info
}
