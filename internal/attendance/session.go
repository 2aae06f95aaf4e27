package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/faceapi"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/rs/zerolog"
)

// LoadRoster decodes every stored encoding. Users whose encoding is NULL or
// undecodable are skipped; repair removes them.
func LoadRoster(ctx context.Context, users database.UserReader, codec facecodec.Codec, log zerolog.Logger) (facematch.Roster, error) {
	all, err := users.LoadAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	roster := make(facematch.Roster, 0, len(all))
	for _, u := range all {
		enc, err := codec.DecodeNullable(u.RawEncoding)
		if err != nil {
			log.Debug().Err(err).Int64("user_id", u.ID).Str("name", u.Name).Msg("skipping user")
			continue
		}
		roster = append(roster, facematch.Candidate{UserID: u.ID, Name: u.Name, Encoding: enc})
	}
	if len(roster) == 0 {
		return nil, facematch.ErrEmptyRoster
	}
	return roster, nil
}

// Session is one attendance run: a fixed roster, a matcher and a recorder
// with its own cooldown state.
type Session struct {
	ID       string
	roster   facematch.Roster
	matcher  *facematch.Matcher
	recorder *Recorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewSession creates a session with a fresh id. The logger passed to the
// recorder and used for match logs carries that id.
func NewSession(store database.AttendanceWriter, ledger *Ledger, roster facematch.Roster, matcher *facematch.Matcher, cooldown time.Duration, log zerolog.Logger) *Session {
	id := uuid.NewString()
	log = log.With().Str("session", id).Logger()
	return &Session{
		ID:       id,
		roster:   roster,
		matcher:  matcher,
		recorder: NewRecorder(store, ledger, cooldown, log),
		now:      time.Now,
		log:      log,
	}
}

// HandleFace identifies one detected face and records it. It satisfies
// capture.FaceHandler.
func (s *Session) HandleFace(ctx context.Context, face faceapi.Face) (capture.Label, error) {
	match := s.matcher.Identify(face.Encoding, s.roster)
	if !match.Known() {
		return capture.Label{Text: facematch.UnknownName}, nil
	}
	s.log.Debug().Str("name", match.Name).Float64("distance", match.Distance).Msg("face matched")

	if _, err := s.recorder.OnRecognized(ctx, match, s.now()); err != nil {
		return capture.Label{}, err
	}
	return capture.Label{Text: match.Name, Known: true}, nil
}
