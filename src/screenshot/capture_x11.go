package screenshot

import (
	"context"
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Capturer reads the root window of an X display with a single GetImage request.
type X11Capturer struct {
	Display string
}

func (c *X11Capturer) Capture(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := xgb.NewConnDisplay(c.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	width, height := screen.WidthInPixels, screen.HeightInPixels

	reply, err := xproto.GetImage(
		conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(screen.Root),
		0, 0,
		width, height,
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: GetImage: %v", ErrCaptureFailed, err)
	}

	format, ok := pixmapFormat(setup, reply.Depth)
	if !ok {
		return nil, fmt.Errorf("%w: no pixmap format for depth %d", ErrCaptureFailed, reply.Depth)
	}

	layout := zpixmapLayout{
		Width:        int(width),
		Height:       int(height),
		BitsPerPixel: int(format.BitsPerPixel),
		ScanlinePad:  int(format.ScanlinePad),
		LSBFirst:     setup.ImageByteOrder == xproto.ImageOrderLSBFirst,
	}
	return layout.decode(reply.Data)
}

func pixmapFormat(setup *xproto.SetupInfo, depth byte) (xproto.Format, bool) {
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			return f, true
		}
	}
	return xproto.Format{}, false
}

// zpixmapLayout describes the byte layout of a ZPixmap reply.
type zpixmapLayout struct {
	Width        int
	Height       int
	BitsPerPixel int
	ScanlinePad  int
	LSBFirst     bool
}

func (l zpixmapLayout) stride() int {
	bits := l.Width * l.BitsPerPixel
	pad := l.ScanlinePad
	if pad <= 0 {
		pad = 32
	}
	bits = (bits + pad - 1) / pad * pad
	return bits / 8
}

// decode converts 24/32 bpp truecolor pixel data into an opaque RGBA raster.
func (l zpixmapLayout) decode(data []byte) (*image.RGBA, error) {
	if l.BitsPerPixel != 24 && l.BitsPerPixel != 32 {
		return nil, fmt.Errorf("%w: unsupported %d bits per pixel", ErrCaptureFailed, l.BitsPerPixel)
	}
	stride := l.stride()
	if len(data) < stride*l.Height {
		return nil, fmt.Errorf("%w: short image data (%d < %d)", ErrCaptureFailed, len(data), stride*l.Height)
	}

	bpp := l.BitsPerPixel / 8
	img := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	for y := 0; y < l.Height; y++ {
		src := data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < l.Width; x++ {
			p := src[x*bpp : x*bpp+bpp]
			d := dst[x*4 : x*4+4]
			if l.LSBFirst {
				d[0], d[1], d[2] = p[2], p[1], p[0]
			} else {
				// MSB first: 32 bpp is X,R,G,B; 24 bpp is R,G,B
				off := bpp - 3
				d[0], d[1], d[2] = p[off], p[off+1], p[off+2]
			}
			d[3] = 0xff
		}
	}
	return img, nil
}
