// Command rasterconv decodes an image and writes it back out under one
// or more sibling extensions, optionally applying a single pixel
// operation first.
//
// Usage:
//
//	rasterconv [-op invert|grayscale|crop] <input> <ext> [ext...]
//
// Use "-crop x,y,w,h" with "-op crop" to set the crop rectangle.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deepteams/raster"
	"github.com/deepteams/raster/ops"
	"github.com/deepteams/raster/rimage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rasterconv: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rasterconv", flag.ContinueOnError)
	op := fs.String("op", "", "pixel operation to apply: invert, grayscale, crop")
	cropRect := fs.String("crop", "", "x,y,w,h for -op crop")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: rasterconv [-op invert|grayscale|crop] <input> <ext> [ext...]")
	}
	inputPath := fs.Arg(0)
	exts := fs.Args()[1:]

	dyn, err := raster.Open(inputPath)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	dyn, err = applyOp(dyn, *op, *cropRect)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if *op != "" {
		base += "." + *op
	}
	for _, ext := range exts {
		outPath := base + "." + strings.TrimPrefix(ext, ".")
		if err := raster.SaveFile(outPath, dyn); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	return nil
}

func applyOp(dyn *rimage.DynamicImage, op, cropRect string) (*rimage.DynamicImage, error) {
	switch op {
	case "":
		return dyn, nil
	case "invert":
		ops.Invert(dyn)
		return dyn, nil
	case "grayscale":
		return ops.Grayscale(dyn), nil
	case "crop":
		x, y, w, h, err := parseCropRect(cropRect)
		if err != nil {
			return nil, err
		}
		sub, err := rimage.NewSubImage(dyn, x, y, w, h)
		if err != nil {
			return nil, err
		}
		return sub.ToImage(), nil
	default:
		return nil, fmt.Errorf("unknown -op %q: want invert, grayscale, or crop", op)
	}
}

func parseCropRect(s string) (x, y, w, h int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("-crop wants x,y,w,h")
	}
	vals := make([]int, 4)
	for i, p := range parts {
		vals[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("-crop: %w", err)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
