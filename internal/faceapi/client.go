// Package faceapi is a client for the face detection and embedding service.
// The service receives a JPEG and answers with one entry per detected face.
package faceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/facecodec"
)

const (
	defaultServiceURL = "http://localhost:8000"
	defaultTimeout    = 30 * time.Second
	jpegQuality       = 90
)

// Client talks to the face service
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new face service client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultServiceURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// faceDetection is a single detected face as returned by the service
type faceDetection struct {
	FaceIndex int       `json:"face_index"`
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
	BBox      []float64 `json:"bbox"` // [x1, y1, x2, y2]
	DetScore  float64   `json:"det_score"`
}

// faceResponse is the body of /embed/face
type faceResponse struct {
	FacesCount int             `json:"faces_count"`
	Faces      []faceDetection `json:"faces"`
	Model      string          `json:"model"`
}

// Face is one detected face with its location in the frame and its encoding.
type Face struct {
	Box      image.Rectangle
	Encoding facecodec.Encoding
	Score    float64
}

// Detect encodes the frame as JPEG and sends it to the service.
func (c *Client) Detect(ctx context.Context, frame image.Image) ([]Face, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return c.DetectFaces(ctx, buf.Bytes())
}

// DetectFaces detects faces in a JPEG image and returns their encodings.
func (c *Client) DetectFaces(ctx context.Context, jpegData []byte) ([]Face, error) {
	body, err := c.postImage(ctx, "/embed/face", jpegData)
	if err != nil {
		return nil, err
	}

	var faceResp faceResponse
	if err := json.Unmarshal(body, &faceResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	faces := make([]Face, 0, len(faceResp.Faces))
	for _, d := range faceResp.Faces {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("face %d: empty embedding returned", d.FaceIndex)
		}
		if len(d.BBox) != 4 {
			return nil, fmt.Errorf("face %d: bbox has %d values, want 4", d.FaceIndex, len(d.BBox))
		}
		faces = append(faces, Face{
			Box:      bboxRect(d.BBox),
			Encoding: facecodec.FromFloat32(d.Embedding),
			Score:    d.DetScore,
		})
	}
	return faces, nil
}

// postImage posts the JPEG as multipart field "file" and returns the response body.
func (c *Client) postImage(ctx context.Context, endpoint string, jpegData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="frame.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(jpegData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// bboxRect converts [x1, y1, x2, y2] to a rectangle, rounding outward.
func bboxRect(b []float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(b[0])), int(math.Floor(b[1])),
		int(math.Ceil(b[2])), int(math.Ceil(b[3])),
	)
}
