package leaderboarddomain

import (
	"strconv"
)

// Entry is one row of the ranking, in backend order.
type Entry struct {
	DisplayName string
	Score       float64
	// ScoreLabel is the score as the backend formatted it. Ties are decided
	// on the label, since that is what the reader compares.
	ScoreLabel string
	IsYou      bool
	IsBot      bool
	Wins       int
	Losses     int
	Draws      int
}

// Label returns the displayed score.
func (e Entry) Label() string {
	if e.ScoreLabel != "" {
		return e.ScoreLabel
	}
	return strconv.FormatFloat(e.Score, 'f', -1, 64)
}

// Role classifies an entry for colouring.
type Role string

const (
	RoleYou   Role = "you"
	RoleBot   Role = "bot"
	RoleOther Role = "other"
)

func (e Entry) Role() Role {
	switch {
	case e.IsYou:
		return RoleYou
	case e.IsBot:
		return RoleBot
	default:
		return RoleOther
	}
}

// Position is a displayed rank. Tied positions render with an "=" prefix.
type Position struct {
	Rank int
	Tied bool
}

func (p Position) String() string {
	if p.Tied {
		return "=" + strconv.Itoa(p.Rank)
	}
	return strconv.Itoa(p.Rank)
}

// Positions computes dense tie-aware ranks. The first entry is rank 1; an
// entry with the same score as its predecessor shares its rank, otherwise the
// rank advances by one. Every member of an equal-score run is marked tied.
func Positions(ranking []Entry) []Position {
	out := make([]Position, len(ranking))
	for i := range ranking {
		switch {
		case i == 0:
			out[i].Rank = 1
		case sameScore(ranking[i], ranking[i-1]):
			out[i].Rank = out[i-1].Rank
			out[i].Tied = true
			out[i-1].Tied = true
		default:
			out[i].Rank = out[i-1].Rank + 1
		}
	}
	return out
}

func sameScore(a, b Entry) bool {
	return a.Label() == b.Label()
}
