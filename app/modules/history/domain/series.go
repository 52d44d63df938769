package historydomain

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Role selects a series colour.
type Role string

const (
	RoleYou   Role = "you"
	RoleBot   Role = "bot"
	RoleOther Role = "other"
)

func roleOf(u portalapi.UserMeta) Role {
	switch {
	case u.IsYou:
		return RoleYou
	case u.IsBot:
		return RoleBot
	default:
		return RoleOther
	}
}

// Series is one user's reconstructed score, aligned to TimeSeries.Timestamps.
// Samples before the user's first delta are NaN.
type Series struct {
	UserID portalapi.ID
	Label  string
	Role   Role
	Color  drawing.Color
	Values []float64
}

// TimeSeries is a dense, evenly stepped score history.
type TimeSeries struct {
	Step       float64 // seconds
	Timestamps []float64
	Series     []Series
}

// Empty reports whether there is nothing to plot.
func (ts TimeSeries) Empty() bool {
	return len(ts.Timestamps) == 0
}

// ErrTooManySamples is returned when the rebuilt axis would exceed the
// sample limit, usually because one delta sits off the common time grid.
var ErrTooManySamples = errors.New("score history has too many samples")

// BuildSeries reconstructs per-user score series from sparse deltas. The
// sampling step is the GCD of the distinct delta timestamps and the axis runs
// from one step before the earliest delta to the latest. A user's series is
// the initial score from the sample before their first delta, plus every
// delta up to and including each sample. Deltas for users missing from users
// are skipped. An axis longer than maxSamples fails with ErrTooManySamples
// before anything is allocated; maxSamples <= 0 disables the limit.
func BuildSeries(users map[portalapi.ID]portalapi.UserMeta, deltas []portalapi.ScoreDelta, initialScore float64, maxSamples int) (TimeSeries, error) {
	ids := make([]portalapi.ID, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIDs)

	var known []portalapi.ScoreDelta
	for _, d := range deltas {
		if _, ok := users[d.UserID]; ok {
			known = append(known, d)
		}
	}

	step, start, n := axis(known)
	if maxSamples > 0 && n > float64(maxSamples) {
		return TimeSeries{}, fmt.Errorf("%w: %.0f samples at a %gs step, limit %d", ErrTooManySamples, n, step, maxSamples)
	}

	ts := TimeSeries{Step: step}
	if n > 0 {
		ts.Timestamps = make([]float64, int(n))
		for i := range ts.Timestamps {
			ts.Timestamps[i] = start + float64(i)*step
		}
	}

	index := make(map[portalapi.ID]int, len(ids))
	first := make([]int, len(ids))
	for i, id := range ids {
		u := users[id]
		index[id] = i
		first[i] = len(ts.Timestamps)
		// Values holds per-sample delta sums until the prefix pass below.
		ts.Series = append(ts.Series, Series{UserID: id, Label: u.DisplayName, Role: roleOf(u), Values: make([]float64, len(ts.Timestamps))})
	}

	for _, d := range known {
		u := index[d.UserID]
		values := ts.Series[u].Values
		i := int(math.Round((d.Time - start) / step))
		if i < 1 || i >= len(values) {
			continue
		}
		values[i] += d.Delta
		first[u] = min(first[u], i-1)
	}

	for u := range ts.Series {
		values := ts.Series[u].Values
		sum := initialScore
		for j := range values {
			if j < first[u] {
				values[j] = math.NaN()
				continue
			}
			sum += values[j]
			values[j] = sum
		}
	}
	return ts, nil
}

// axis returns the sampling step, the first timestamp and the sample count
// covering deltas. The count is a float so a pathological span cannot
// overflow before it is checked. No deltas gives a zero count.
func axis(deltas []portalapi.ScoreDelta) (step, start, n float64) {
	if len(deltas) == 0 {
		return 0, 0, 0
	}

	seen := make(map[int64]struct{}, len(deltas))
	var g int64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range deltas {
		t := int64(math.Round(d.Time))
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			g = gcd(g, t)
		}
		lo, hi = math.Min(lo, d.Time), math.Max(hi, d.Time)
	}
	if g == 0 {
		g = 1
	}

	step = float64(g)
	start = lo - step
	return step, start, math.Round((hi-start)/step) + 1
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// compareIDs orders numeric ids numerically and everything else lexically.
func compareIDs(a, b portalapi.ID) int {
	ai, aerr := strconv.ParseInt(string(a), 10, 64)
	bi, berr := strconv.ParseInt(string(b), 10, 64)
	if aerr == nil && berr == nil {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a, b)
}

// Since drops samples before t, keeping series aligned.
func (ts TimeSeries) Since(t float64) TimeSeries {
	cut, _ := slices.BinarySearch(ts.Timestamps, t)
	out := TimeSeries{Step: ts.Step, Timestamps: ts.Timestamps[cut:]}
	for _, s := range ts.Series {
		s.Values = s.Values[cut:]
		out.Series = append(out.Series, s)
	}
	return out
}

// Paint assigns each series the palette colour for its role.
func (ts TimeSeries) Paint(p themedomain.Palette) TimeSeries {
	out := ts
	out.Series = make([]Series, len(ts.Series))
	for i, s := range ts.Series {
		switch s.Role {
		case RoleYou:
			s.Color = p.You
		case RoleBot:
			s.Color = p.Bot
		default:
			s.Color = p.Other
		}
		out.Series[i] = s
	}
	return out
}
