package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/rs/zerolog"
)

// ErrEmptyName is returned for a name that is blank after cleaning.
var ErrEmptyName = errors.New("name must not be empty")

// Sampler captures the encoding of exactly one face.
type Sampler interface {
	Register(ctx context.Context) (facecodec.Encoding, error)
}

// ValidateName cleans a person's name and rejects empty ones. Call it before
// opening the camera.
func ValidateName(name string) (string, error) {
	clean := facematch.CleanName(name)
	if clean == "" {
		return "", ErrEmptyName
	}
	return clean, nil
}

// Register captures one face and stores it under name, replacing any earlier
// encoding for the same name. Nothing is written unless a face was accepted.
func Register(ctx context.Context, name string, sampler Sampler, store database.UserWriter, codec facecodec.Codec, log zerolog.Logger) (int64, error) {
	clean, err := ValidateName(name)
	if err != nil {
		return 0, err
	}

	enc, err := sampler.Register(ctx)
	if err != nil {
		return 0, err
	}

	text, err := codec.Encode(enc)
	if err != nil {
		return 0, fmt.Errorf("encode face of %s: %w", clean, err)
	}

	id, err := store.UpsertUserEncoding(ctx, clean, text)
	if err != nil {
		return 0, fmt.Errorf("save face of %s: %w", clean, err)
	}

	log.Info().Int64("user_id", id).Str("name", clean).Msg("face registered")
	return id, nil
}
