package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

var (
	// ErrAllocation means the output buffer could not grow. No partial output is returned.
	ErrAllocation = errors.New("encode buffer allocation failed")
	// ErrRegionOutOfBounds means the requested region is not inside the raster.
	ErrRegionOutOfBounds = errors.New("region out of bounds")
	// ErrEmptyRegion means the requested region has no pixels.
	ErrEmptyRegion = errors.New("empty region")
)

// BytesPerPixel of an image.RGBA raster.
const BytesPerPixel = 4

// ParseCompression maps a configuration value onto a png compression level.
func ParseCompression(value string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "fast", "speed":
		return png.BestSpeed, nil
	case "best", "size":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("unknown png compression %q", value)
	}
}

// Encoder turns a region of a raster into a PNG byte stream.
type Encoder struct {
	Compression png.CompressionLevel
}

// Encode crops region out of src and returns it as an 8-bit RGB PNG.
// The region is validated against src before any row is read.
func (e Encoder) Encode(src *image.RGBA, region Region) ([]byte, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrEmptyRegion, region.Width, region.Height)
	}
	if !region.Rect().In(src.Bounds()) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrRegionOutOfBounds, region.Rect(), src.Bounds())
	}

	cropped := CropImage(src, region)

	buf, err := encodePNG(cropped, e.Compression)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Encode is a shortcut for Encoder{}.Encode with default compression.
func Encode(src *image.RGBA, region Region) ([]byte, error) {
	return Encoder{Compression: png.DefaultCompression}.Encode(src, region)
}

// CropImage copies region rows out of img into an owned, opaque raster with
// origin (0,0). The caller must have validated region against img.
func CropImage(img *image.RGBA, region Region) *image.RGBA {
	cropped := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))

	off := img.PixOffset(region.X, region.Y)
	bytesPerRow := region.Width * BytesPerPixel
	for y := 0; y < region.Height; y++ {
		srcStart := off + y*img.Stride
		dstStart := y * cropped.Stride
		row := cropped.Pix[dstStart : dstStart+bytesPerRow]
		copy(row, img.Pix[srcStart:srcStart+bytesPerRow])
		// PNG writer emits RGB without alpha only for fully opaque images
		for i := 3; i < len(row); i += BytesPerPixel {
			row[i] = 0xff
		}
	}
	return cropped
}

// encodePNG streams the PNG into a growable buffer. bytes.Buffer panics with
// bytes.ErrTooLarge when it cannot grow; that is reported as ErrAllocation.
func encodePNG(img image.Image, level png.CompressionLevel) (out []byte, err error) {
	var buf bytes.Buffer
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, bytes.ErrTooLarge) {
				out, err = nil, fmt.Errorf("%w: %v", ErrAllocation, e)
				return
			}
			panic(r)
		}
	}()

	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
