package attendance

import (
	"context"
	"image"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/faceapi"
)

func mockRecord(userID int64, name, date, clock string) database.AttendanceRecord {
	return database.AttendanceRecord{UserID: userID, Name: name, Date: date, Time: clock}
}

func strPtr(s string) *string {
	return &s
}

type fakeCamera struct {
	frames chan image.Image
}

func (c *fakeCamera) Frames() <-chan image.Image { return c.frames }
func (c *fakeCamera) Err() error                 { return nil }
func (c *fakeCamera) Close() error               { return nil }

type fakeDetector struct {
	faces []faceapi.Face
}

func (d *fakeDetector) Detect(ctx context.Context, frame image.Image) ([]faceapi.Face, error) {
	return d.faces, nil
}
