package historydomain

import (
	"math"
	"strconv"
	"testing"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func oneUser() map[portalapi.ID]portalapi.UserMeta {
	return map[portalapi.ID]portalapi.UserMeta{"1": {DisplayName: "ada", IsYou: true}}
}

func mustBuild(t *testing.T, users map[portalapi.ID]portalapi.UserMeta, deltas []portalapi.ScoreDelta, initial float64) TimeSeries {
	t.Helper()
	ts, err := BuildSeries(users, deltas, initial, 0)
	require.NoError(t, err)
	return ts
}

func TestBuildSeries(t *testing.T) {
	tests := []struct {
		name           string
		users          map[portalapi.ID]portalapi.UserMeta
		deltas         []portalapi.ScoreDelta
		initial        float64
		wantStep       float64
		wantTimestamps []float64
		wantValues     map[portalapi.ID][]float64
	}{
		{
			name:           "two deltas one step apart",
			users:          oneUser(),
			deltas:         []portalapi.ScoreDelta{{UserID: "1", Time: 0, Delta: 5}, {UserID: "1", Time: 10, Delta: 3}},
			wantStep:       10,
			wantTimestamps: []float64{-10, 0, 10},
			wantValues:     map[portalapi.ID][]float64{"1": {0, 5, 8}},
		},
		{
			name:           "no deltas gives an empty axis",
			users:          oneUser(),
			wantTimestamps: nil,
			wantValues:     map[portalapi.ID][]float64{"1": {}},
		},
		{
			name:           "single timestamp is its own step",
			users:          oneUser(),
			deltas:         []portalapi.ScoreDelta{{UserID: "1", Time: 3600, Delta: 7}},
			initial:        1000,
			wantStep:       3600,
			wantTimestamps: []float64{0, 3600},
			wantValues:     map[portalapi.ID][]float64{"1": {1000, 1007}},
		},
		{
			name:           "zero timestamp clamps the step to one second",
			users:          oneUser(),
			deltas:         []portalapi.ScoreDelta{{UserID: "1", Time: 0, Delta: 2}},
			wantStep:       1,
			wantTimestamps: []float64{-1, 0},
			wantValues:     map[portalapi.ID][]float64{"1": {0, 2}},
		},
		{
			name: "gaps carry forward and late starters are NaN before their baseline",
			users: map[portalapi.ID]portalapi.UserMeta{
				"1": {DisplayName: "ada"},
				"2": {DisplayName: "bob", IsBot: true},
			},
			deltas: []portalapi.ScoreDelta{
				{UserID: "1", Time: 3600, Delta: 10},
				{UserID: "2", Time: 10800, Delta: -4},
				{UserID: "1", Time: 14400, Delta: 1},
			},
			initial:        100,
			wantStep:       3600,
			wantTimestamps: []float64{0, 3600, 7200, 10800, 14400},
			wantValues: map[portalapi.ID][]float64{
				"1": {100, 110, 110, 110, 111},
				"2": {nan, nan, 100, 96, 96},
			},
		},
		{
			name:  "out of order deltas accumulate the same way",
			users: oneUser(),
			deltas: []portalapi.ScoreDelta{
				{UserID: "1", Time: 10, Delta: 3},
				{UserID: "1", Time: 0, Delta: 5},
			},
			wantStep:       10,
			wantTimestamps: []float64{-10, 0, 10},
			wantValues:     map[portalapi.ID][]float64{"1": {0, 5, 8}},
		},
		{
			name:  "deltas for unknown users are skipped",
			users: oneUser(),
			deltas: []portalapi.ScoreDelta{
				{UserID: "1", Time: 20, Delta: 1},
				{UserID: "99", Time: 5, Delta: 50},
			},
			wantStep:       20,
			wantTimestamps: []float64{0, 20},
			wantValues:     map[portalapi.ID][]float64{"1": {0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := mustBuild(t, tt.users, tt.deltas, tt.initial)

			assert.Equal(t, tt.wantStep, ts.Step)
			if diff := cmp.Diff(tt.wantTimestamps, ts.Timestamps, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("timestamps mismatch (-want +got):\n%s", diff)
			}
			require.Len(t, ts.Series, len(tt.wantValues))
			for _, s := range ts.Series {
				want, ok := tt.wantValues[s.UserID]
				require.True(t, ok, "unexpected series %q", s.UserID)
				if diff := cmp.Diff(want, s.Values, cmpopts.EquateNaNs(), cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("series %s mismatch (-want +got):\n%s", s.UserID, diff)
				}
			}
		})
	}
}

func TestBuildSeries_NeverProducesNaNBounds(t *testing.T) {
	ts := mustBuild(t, nil, nil, 0)

	assert.True(t, ts.Empty())
	assert.Zero(t, ts.Step)
	assert.Empty(t, ts.Series)
}

func TestBuildSeries_OrdersAndLabelsSeries(t *testing.T) {
	users := map[portalapi.ID]portalapi.UserMeta{
		"10": {DisplayName: "ten"},
		"2":  {DisplayName: "two", IsYou: true},
		"1":  {DisplayName: "one", IsBot: true},
	}
	ts := mustBuild(t, users, []portalapi.ScoreDelta{{UserID: "1", Time: 60, Delta: 1}}, 0)

	var got []string
	for _, s := range ts.Series {
		got = append(got, s.Label+":"+string(s.Role))
	}
	assert.Equal(t, []string{"one:bot", "two:you", "ten:other"}, got)
}

func TestBuildSeries_RefusesOversizedAxis(t *testing.T) {
	users := make(map[portalapi.ID]portalapi.UserMeta)
	var deltas []portalapi.ScoreDelta
	for u := range 50 {
		id := portalapi.ID(strconv.Itoa(u))
		users[id] = portalapi.UserMeta{DisplayName: string(id)}
		for h := 1; h <= 30*24; h++ {
			deltas = append(deltas, portalapi.ScoreDelta{UserID: id, Time: float64(h * 3600), Delta: 1})
		}
	}
	// One bucket a second off the hourly grid drops the step to 1s.
	deltas = append(deltas, portalapi.ScoreDelta{UserID: "0", Time: 3601, Delta: 1})

	ts, err := BuildSeries(users, deltas, 0, 20000)

	require.ErrorIs(t, err, ErrTooManySamples)
	assert.True(t, ts.Empty())
	assert.Nil(t, ts.Series, "nothing allocated")
}

func TestBuildSeries_LimitAdmitsExactFit(t *testing.T) {
	deltas := []portalapi.ScoreDelta{{UserID: "1", Time: 10, Delta: 1}, {UserID: "1", Time: 30, Delta: 1}}

	ts, err := BuildSeries(oneUser(), deltas, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 20, 30}, ts.Timestamps)

	_, err = BuildSeries(oneUser(), deltas, 0, 3)
	assert.ErrorIs(t, err, ErrTooManySamples)
}

func TestBuildSeries_LargeHistoryMatchesRunningTotal(t *testing.T) {
	users := map[portalapi.ID]portalapi.UserMeta{"1": {}, "2": {}}
	var deltas []portalapi.ScoreDelta
	// Out of order on purpose; user 2 starts later.
	for h := 2000; h >= 1; h-- {
		deltas = append(deltas, portalapi.ScoreDelta{UserID: "1", Time: float64(h * 60), Delta: 1})
		if h > 1000 {
			deltas = append(deltas, portalapi.ScoreDelta{UserID: "2", Time: float64(h * 60), Delta: -1})
		}
	}

	ts := mustBuild(t, users, deltas, 100)

	require.Len(t, ts.Timestamps, 2001)
	one, two := ts.Series[0].Values, ts.Series[1].Values
	for i := range ts.Timestamps {
		assert.Equal(t, float64(100+i), one[i])
		switch {
		case i < 1000:
			assert.True(t, math.IsNaN(two[i]), "sample %d precedes user 2", i)
		default:
			assert.Equal(t, float64(100-(i-1000)), two[i])
		}
	}
}

func TestSince(t *testing.T) {
	ts := mustBuild(t, oneUser(), []portalapi.ScoreDelta{
		{UserID: "1", Time: 100, Delta: 1},
		{UserID: "1", Time: 200, Delta: 1},
		{UserID: "1", Time: 300, Delta: 1},
	}, 0)

	clipped := ts.Since(200)

	assert.Equal(t, []float64{200, 300}, clipped.Timestamps)
	assert.Equal(t, []float64{2, 3}, clipped.Series[0].Values)
	assert.Len(t, ts.Timestamps, 4, "the original is untouched")
}

func TestPaint(t *testing.T) {
	users := map[portalapi.ID]portalapi.UserMeta{
		"1": {IsYou: true},
		"2": {IsBot: true},
		"3": {},
	}
	palette := themedomain.PaletteFor(themedomain.Dark)

	painted := mustBuild(t, users, nil, 0).Paint(palette)

	require.Len(t, painted.Series, 3)
	assert.Equal(t, palette.You, painted.Series[0].Color)
	assert.Equal(t, palette.Bot, painted.Series[1].Color)
	assert.Equal(t, palette.Other, painted.Series[2].Color)
}

func TestGCD(t *testing.T) {
	assert.Equal(t, int64(10), gcd(0, 10))
	assert.Equal(t, int64(3600), gcd(7200, 10800))
	assert.Equal(t, int64(5), gcd(-15, 10))
}
