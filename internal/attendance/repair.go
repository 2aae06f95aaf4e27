package attendance

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/rs/zerolog"
)

// RepairSummary counts the outcome of a repair pass.
type RepairSummary struct {
	Checked int
	Removed []string
	Failed  []string
}

// Repair deletes every user whose stored encoding cannot be decoded. A failed
// delete is logged and the pass continues. progress, when set, is called
// once per checked user.
func Repair(ctx context.Context, store database.UserWriter, codec facecodec.Codec, log zerolog.Logger, progress func()) (RepairSummary, error) {
	var summary RepairSummary

	users, err := store.LoadAllUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("load users: %w", err)
	}

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++
		if progress != nil {
			progress()
		}

		_, decodeErr := codec.DecodeNullable(u.RawEncoding)
		if decodeErr == nil {
			continue
		}
		log.Debug().Err(decodeErr).Int64("user_id", u.ID).Msg("undecodable encoding")

		if err := store.DeleteUser(ctx, u.ID); err != nil {
			log.Error().Err(err).Int64("user_id", u.ID).Str("name", u.Name).Msg("failed to remove corrupt user")
			summary.Failed = append(summary.Failed, u.Name)
			continue
		}
		log.Info().Int64("user_id", u.ID).Str("name", u.Name).Msg("removed user with corrupt encoding")
		summary.Removed = append(summary.Removed, u.Name)
	}

	return summary, nil
}
