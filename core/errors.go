// Package core holds the types shared by every format codec and the
// root raster package that dispatches to them: the ImageError taxonomy,
// the Format tag, and the uniform Decoder contract (spec §6). It is a
// separate package, importing only fmt and the leaf package pixel, so
// that png/jpeg/gif/vp8 can depend on it without creating an import
// cycle back to the root package, which in turn depends on all four
// codecs.
package core

import "fmt"

// ErrorKind enumerates the surface error taxonomy from spec §6.
type ErrorKind int

const (
	FormatError ErrorKind = iota
	DimensionError
	UnsupportedError
	UnsupportedColorError
	NotEnoughData
	IoError
	ImageEnd
)

func (k ErrorKind) String() string {
	switch k {
	case FormatError:
		return "FormatError"
	case DimensionError:
		return "DimensionError"
	case UnsupportedError:
		return "UnsupportedError"
	case UnsupportedColorError:
		return "UnsupportedColor"
	case NotEnoughData:
		return "NotEnoughData"
	case IoError:
		return "IoError"
	case ImageEnd:
		return "ImageEnd"
	default:
		return "UnknownError"
	}
}

// ImageError is the error type every codec in this module returns.
type ImageError struct {
	Kind ErrorKind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *ImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ImageError) Unwrap() error { return e.Err }

// New builds an ImageError with no wrapped cause.
func New(kind ErrorKind, msg string) *ImageError {
	return &ImageError{Kind: kind, Msg: msg}
}

// Wrap builds an ImageError wrapping an underlying error.
func Wrap(kind ErrorKind, msg string, err error) *ImageError {
	return &ImageError{Kind: kind, Msg: msg, Err: err}
}
