package camera

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/blackjack/webcam"
)

func TestYUYVToRGBA(t *testing.T) {
	// 2x2 frame: top row black/white, bottom row a saturated pair sharing chroma
	raw := []byte{
		16, 128, 235, 128,
		81, 90, 145, 240,
	}

	img, err := decodeFrame(formatYUYV, raw, 2, 2)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	tests := []struct {
		x, y     int
		yy, u, v uint8
	}{
		{0, 0, 16, 128, 128},
		{1, 0, 235, 128, 128},
		{0, 1, 81, 90, 240},
		{1, 1, 145, 90, 240},
	}
	for _, tc := range tests {
		r, g, b := color.YCbCrToRGB(tc.yy, tc.u, tc.v)
		want := color.RGBA{R: r, G: g, B: b, A: 0xff}
		if got := img.RGBAAt(tc.x, tc.y); got != want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tc.x, tc.y, got, want)
		}
	}
}

func TestYUYVInvalid(t *testing.T) {
	tests := []struct {
		name          string
		raw           []byte
		width, height int
		wantErr       string
	}{
		{"short buffer", make([]byte, 7), 2, 2, "short YUYV frame"},
		{"odd width", make([]byte, 6), 3, 1, "invalid YUYV frame size"},
		{"zero height", nil, 2, 0, "invalid YUYV frame size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := yuyvToYCbCr(tc.raw, tc.width, tc.height)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeMJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := decodeFrame(formatMJPEG, buf.Bytes(), 16, 8)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := decodeFrame(formatMJPEG, buf.Bytes()[:20], 16, 8); err == nil {
		t.Error("expected error for truncated MJPEG frame")
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := decodeFrame('G'|'R'<<8|'E'<<16|'Y'<<24, []byte{0}, 1, 1)
	if err == nil || !strings.Contains(err.Error(), "GREY") {
		t.Errorf("expected unsupported GREY error, got %v", err)
	}
}

func TestPickFormat(t *testing.T) {
	tests := []struct {
		name      string
		supported map[webcam.PixelFormat]string
		want      uint32
		wantErr   bool
	}{
		{"prefers MJPEG", map[webcam.PixelFormat]string{
			webcam.PixelFormat(formatYUYV):  "YUYV 4:2:2",
			webcam.PixelFormat(formatMJPEG): "Motion-JPEG",
		}, formatMJPEG, false},
		{"falls back to YUYV", map[webcam.PixelFormat]string{
			webcam.PixelFormat(formatYUYV): "YUYV 4:2:2",
		}, formatYUYV, false},
		{"nothing usable", map[webcam.PixelFormat]string{
			webcam.PixelFormat(0x59455247): "Greyscale",
		}, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pickFormat(tc.supported)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", fourcc(got), fourcc(tc.want))
			}
		})
	}
}

func TestTimeoutSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want uint32
	}{
		{0, 5},
		{-time.Second, 5},
		{500 * time.Millisecond, 1},
		{3 * time.Second, 3},
		{2500 * time.Millisecond, 3},
	}
	for _, tc := range tests {
		if got := timeoutSeconds(tc.in); got != tc.want {
			t.Errorf("timeoutSeconds(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
