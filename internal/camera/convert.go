package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// V4L2 fourcc codes the camera package can decode.
const (
	formatMJPEG uint32 = 'M' | 'J'<<8 | 'P'<<16 | 'G'<<24
	formatYUYV  uint32 = 'Y' | 'U'<<8 | 'Y'<<16 | 'V'<<24
)

// decodeFrame converts a raw V4L2 buffer to RGBA.
func decodeFrame(format uint32, raw []byte, width, height int) (*image.RGBA, error) {
	switch format {
	case formatMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode MJPEG frame: %w", err)
		}
		return toRGBA(img), nil
	case formatYUYV:
		ycc, err := yuyvToYCbCr(raw, width, height)
		if err != nil {
			return nil, err
		}
		return toRGBA(ycc), nil
	default:
		return nil, fmt.Errorf("unsupported pixel format %s", fourcc(format))
	}
}

// yuyvToYCbCr unpacks packed 4:2:2 YUYV (Y0 U Y1 V per pixel pair) into planes.
func yuyvToYCbCr(raw []byte, width, height int) (*image.YCbCr, error) {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return nil, fmt.Errorf("invalid YUYV frame size %dx%d", width, height)
	}
	if len(raw) < width*height*2 {
		return nil, fmt.Errorf("short YUYV frame: %d bytes, want %d", len(raw), width*height*2)
	}

	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio422)
	for y := 0; y < height; y++ {
		row := raw[y*width*2 : (y+1)*width*2]
		for x := 0; x < width; x += 2 {
			p := row[x*2 : x*2+4]
			img.Y[y*img.YStride+x] = p[0]
			img.Y[y*img.YStride+x+1] = p[2]
			ci := y*img.CStride + x/2
			img.Cb[ci] = p[1]
			img.Cr[ci] = p[3]
		}
	}
	return img, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func fourcc(f uint32) string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}
