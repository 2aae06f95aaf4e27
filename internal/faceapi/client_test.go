package faceapi

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, status int, resp any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/embed/face" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			data, _ := io.ReadAll(file)
			if len(data) < 3 || data[0] != 0xFF || data[1] != 0xD8 {
				t.Errorf("uploaded data is not a JPEG")
			}
			if ct := header.Header.Get("Content-Type"); ct != "image/jpeg" {
				t.Errorf("part Content-Type = %q, want image/jpeg", ct)
			}
		}
		w.WriteHeader(status)
		switch v := resp.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		default:
			_ = json.NewEncoder(w).Encode(v)
		}
	}))
}

func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

func TestDetect(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, faceResponse{
		FacesCount: 2,
		Model:      "buffalo_l",
		Faces: []faceDetection{
			{FaceIndex: 0, Dim: 3, Embedding: []float32{0.5, -0.25, 1}, BBox: []float64{1.2, 2.7, 10.1, 12}, DetScore: 0.98},
			{FaceIndex: 1, Dim: 3, Embedding: []float32{0, 0, 0}, BBox: []float64{20, 5, 30, 15}, DetScore: 0.7},
		},
	})
	defer srv.Close()

	faces, err := NewClient(srv.URL + "/").Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(faces))
	}

	want := image.Rect(1, 2, 11, 12)
	if faces[0].Box != want {
		t.Errorf("box = %v, want %v", faces[0].Box, want)
	}
	if faces[0].Encoding.Dim() != 3 || faces[0].Encoding[1] != -0.25 {
		t.Errorf("unexpected encoding %v", faces[0].Encoding)
	}
	if faces[0].Score != 0.98 {
		t.Errorf("score = %v, want 0.98", faces[0].Score)
	}
}

func TestDetectNoFaces(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, faceResponse{FacesCount: 0, Faces: nil})
	defer srv.Close()

	faces, err := NewClient(srv.URL).Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("expected no faces, got %d", len(faces))
	}
}

func TestDetectErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		resp    any
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "model not loaded", "status 500"},
		{"bad json", http.StatusOK, "{not json", "failed to parse response"},
		{
			"empty embedding", http.StatusOK,
			faceResponse{FacesCount: 1, Faces: []faceDetection{{BBox: []float64{0, 0, 1, 1}}}},
			"empty embedding",
		},
		{
			"short bbox", http.StatusOK,
			faceResponse{FacesCount: 1, Faces: []faceDetection{{Embedding: []float32{1}, BBox: []float64{0, 0}}}},
			"bbox has 2 values",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.resp)
			defer srv.Close()

			_, err := NewClient(srv.URL).Detect(context.Background(), testFrame())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestDetectCancelled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, faceResponse{})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL).Detect(ctx, testFrame()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
