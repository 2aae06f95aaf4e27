// Package facematch identifies a captured face against the roster of
// registered encodings.
package facematch

import (
	"errors"
	"math"

	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"gonum.org/v1/gonum/floats"
)

// UnknownName is reported when no roster entry is close enough.
const UnknownName = "Unknown"

// DefaultTolerance is the historical acceptance distance. It is loose for
// normalized embeddings; deployments should tune MATCH_TOLERANCE.
const DefaultTolerance = 0.9

// ErrEmptyRoster is returned when there is nothing to match against.
var ErrEmptyRoster = errors.New("no valid face encodings registered")

// Candidate is one registered person.
type Candidate struct {
	UserID   int64
	Name     string
	Encoding facecodec.Encoding
}

// Roster is the in-memory set of candidates for one attendance run.
type Roster []Candidate

// Match is the outcome of Identify. UserID is 0 and Name is UnknownName when
// nothing matched.
type Match struct {
	UserID   int64
	Name     string
	Distance float64
}

// Known reports whether the match resolved to a registered person.
func (m Match) Known() bool {
	return m.Name != UnknownName
}

// Matcher performs nearest-neighbour search under a fixed tolerance.
type Matcher struct {
	tolerance float64
}

// NewMatcher creates a matcher. Non-positive tolerance selects the default.
func NewMatcher(tolerance float64) *Matcher {
	if tolerance <= 0 || math.IsNaN(tolerance) {
		tolerance = DefaultTolerance
	}
	return &Matcher{tolerance: tolerance}
}

// Tolerance returns the acceptance distance in use.
func (m *Matcher) Tolerance() float64 {
	return m.tolerance
}

// Distance is the Euclidean distance between two encodings, or +Inf when the
// dimensions differ.
func Distance(a, b facecodec.Encoding) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// Identify returns the closest roster entry whose distance is strictly below
// the tolerance. Ties keep the earlier entry.
func (m *Matcher) Identify(query facecodec.Encoding, roster Roster) Match {
	best := Match{Name: UnknownName, Distance: math.Inf(1)}
	found := false

	for _, c := range roster {
		d := Distance(query, c.Encoding)
		if d >= m.tolerance {
			continue
		}
		if !found || d < best.Distance {
			best = Match{UserID: c.UserID, Name: c.Name, Distance: d}
			found = true
		}
	}

	return best
}
