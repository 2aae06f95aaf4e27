package cmd

import (
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// parseDateRange validates optional YYYY-MM-DD bounds. Empty means unbounded.
func parseDateRange(from, to string) (string, string, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(database.DateLayout, d); err != nil {
			return "", "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	if from != "" && to != "" && from > to {
		return "", "", fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return from, to, nil
}
