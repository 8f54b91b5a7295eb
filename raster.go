// Package raster is the facade tying together every format codec in
// this module (spec §6): Open infers a container format from a file
// extension, Load decodes a reader of a known format into the shared
// DynamicImage container, and Save dispatches an encode to whichever
// format supports writing.
package raster

import (
	"io"
	"os"
	"strings"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/gif"
	"github.com/deepteams/raster/jpeg"
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/png"
	"github.com/deepteams/raster/ppm"
	"github.com/deepteams/raster/rimage"
	"github.com/deepteams/raster/vp8"
)

// Format and the ImageError taxonomy are re-exported from core so
// callers need only import this package.
type (
	Format     = core.Format
	ImageError = core.ImageError
	ErrorKind  = core.ErrorKind
)

const (
	PNG  = core.PNG
	JPEG = core.JPEG
	GIF  = core.GIF
	WEBP = core.WEBP
	PPM  = core.PPM
)

// Open infers a format from path's lowercased extension and decodes
// it, per spec §6: "jpg|jpeg→JPEG, png→PNG, gif→GIF, webp→WEBP;
// otherwise UnsupportedError".
func Open(path string) (*rimage.DynamicImage, error) {
	format, err := formatFromExt(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, core.Wrap(core.IoError, "opening "+path, err)
	}
	defer f.Close()
	return Load(f, format)
}

func formatFromExt(path string) (Format, error) {
	ext := strings.ToLower(path)
	if i := strings.LastIndexByte(ext, '.'); i >= 0 {
		ext = ext[i+1:]
	}
	switch ext {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "webp":
		return WEBP, nil
	default:
		return 0, core.New(core.UnsupportedError, "unrecognized file extension: "+ext)
	}
}

// Load constructs the decoder matching format, reads the image, and
// marshals the result into a DynamicImage.
func Load(r io.Reader, format Format) (*rimage.DynamicImage, error) {
	var dec core.Decoder
	var err error

	switch format {
	case PNG:
		dec, err = png.NewDecoder(r)
	case JPEG:
		dec, err = jpeg.NewDecoder(r)
	case GIF:
		dec, err = gif.NewDecoder(r)
	case WEBP:
		dec, err = vp8.NewDecoder(r)
	case PPM:
		return ppm.Decode(r)
	default:
		return nil, core.New(core.UnsupportedError, "unrecognized format: "+format.String())
	}
	if err != nil {
		return nil, err
	}

	width, height := dec.Dimensions()
	raw, err := dec.ReadImage()
	if err != nil {
		return nil, err
	}
	return marshal(raw, width, height, dec.ColorType())
}

func marshal(raw []byte, width, height int, ct pixel.ColorType) (*rimage.DynamicImage, error) {
	dyn, err := rimage.FromBytes(raw, width, height, ct)
	if err != nil {
		return nil, core.Wrap(core.UnsupportedColorError, "marshaling decoded pixels", err)
	}
	return dyn, nil
}

// Save dispatches to the encoder matching format. GIF and WEBP have no
// encoder (spec §6): the original source never writes either.
func Save(w io.Writer, dyn *rimage.DynamicImage, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, dyn)
	case PPM:
		return ppm.Encode(w, dyn)
	case JPEG:
		return jpeg.Encode(w, dyn, jpeg.DefaultQuality)
	case GIF, WEBP:
		return core.New(core.UnsupportedError, format.String()+" encoding is not supported")
	default:
		return core.New(core.UnsupportedError, "unrecognized format: "+format.String())
	}
}

// SaveFile infers the destination format from path's extension and
// calls Save, the mirror of Open for the write side.
func SaveFile(path string, dyn *rimage.DynamicImage) error {
	format, err := formatFromExt(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return core.Wrap(core.IoError, "creating "+path, err)
	}
	defer f.Close()
	return Save(f, dyn, format)
}
