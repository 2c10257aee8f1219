package screenshot

import "image"

// DefaultDarkness is the divisor applied to each channel of the selection backdrop.
const DefaultDarkness = 1.6

// Darken returns a new raster whose R, G and B channels are floor(c / factor).
// Alpha is copied unchanged. The source is never modified.
func Darken(src *image.RGBA, factor float64) *image.RGBA {
	if factor <= 0 {
		factor = DefaultDarkness
	}

	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(float64(i) / factor)
	}

	b := src.Bounds()
	out := image.NewRGBA(b)
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+rowBytes]
		d := out.Pix[y*out.Stride : y*out.Stride+rowBytes]
		for i := 0; i < rowBytes; i += 4 {
			d[i] = lut[s[i]]
			d[i+1] = lut[s[i+1]]
			d[i+2] = lut[s[i+2]]
			d[i+3] = s[i+3]
		}
	}
	return out
}
