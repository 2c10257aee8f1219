package screenshot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	if !bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}) {
		t.Fatal("output is not a PNG stream")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func TestEncodeRoundTrip(t *testing.T) {
	src := gradient(64, 48)
	region := Region{X: 5, Y: 7, Width: 20, Height: 11}

	data, err := Encode(src, region)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img := decode(t, data)

	if b := img.Bounds(); b.Dx() != region.Width || b.Dy() != region.Height {
		t.Fatalf("decoded size %dx%d, want %dx%d", b.Dx(), b.Dy(), region.Width, region.Height)
	}
	for y := 0; y < region.Height; y++ {
		for x := 0; x < region.Width; x++ {
			want := src.RGBAAt(region.X+x, region.Y+y)
			got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestEncodeWritesRGBWithoutAlpha(t *testing.T) {
	src := solid(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	data, err := Encode(src, RegionOf(src))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// IHDR payload: width(4) height(4) depth(1) colour type(1) ... interlace(1)
	ihdr := data[16:29]
	if depth := ihdr[8]; depth != 8 {
		t.Errorf("bit depth = %d, want 8", depth)
	}
	if ct := ihdr[9]; ct != 2 {
		t.Errorf("colour type = %d, want 2 (truecolour)", ct)
	}
	if il := ihdr[12]; il != 0 {
		t.Errorf("interlace = %d, want 0", il)
	}
}

func TestEncodeForcesOpaque(t *testing.T) {
	src := solid(3, 3, color.RGBA{R: 10, G: 20, B: 30, A: 0})
	data, err := Encode(src, RegionOf(src))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := color.RGBAModel.Convert(decode(t, data).At(1, 1)).(color.RGBA)
	if got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("got %v", got)
	}
}

func TestEncodeRejectsBadRegions(t *testing.T) {
	src := solid(10, 10, color.RGBA{A: 255})
	tests := []struct {
		name   string
		region Region
		want   error
	}{
		{"zero width", Region{X: 0, Y: 0, Width: 0, Height: 5}, ErrEmptyRegion},
		{"negative height", Region{X: 0, Y: 0, Width: 5, Height: -1}, ErrEmptyRegion},
		{"past right edge", Region{X: 8, Y: 0, Width: 5, Height: 5}, ErrRegionOutOfBounds},
		{"past bottom edge", Region{X: 0, Y: 9, Width: 1, Height: 2}, ErrRegionOutOfBounds},
		{"negative origin", Region{X: -1, Y: 0, Width: 2, Height: 2}, ErrRegionOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(src, tt.region)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if data != nil {
				t.Fatal("no output expected on error")
			}
		})
	}
}

func TestEncodeCompressionLevels(t *testing.T) {
	src := gradient(32, 32)
	for _, name := range []string{"default", "none", "fast", "best"} {
		level, err := ParseCompression(name)
		if err != nil {
			t.Fatalf("ParseCompression(%q): %v", name, err)
		}
		data, err := Encoder{Compression: level}.Encode(src, RegionOf(src))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if b := decode(t, data).Bounds(); b.Dx() != 32 || b.Dy() != 32 {
			t.Fatalf("%s: decoded %v", name, b)
		}
	}
	if _, err := ParseCompression("ultra"); err == nil {
		t.Fatal("expected error for unknown compression")
	}
}

func TestCropImageCopies(t *testing.T) {
	src := gradient(16, 16)
	out := CropImage(src, Region{X: 2, Y: 3, Width: 4, Height: 5})
	out.Pix[0] = 99
	if src.RGBAAt(2, 3).R == 99 {
		t.Fatal("crop aliases the source raster")
	}
	if out.Bounds() != image.Rect(0, 0, 4, 5) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
}
