package portalapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ID is a backend identifier. The backend emits integers; the client treats
// them as opaque strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as JSON numbers so the backend's integer
// fields validate.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Score is a leaderboard score as the backend sends it: a number or a
// preformatted string such as "1.2K".
type Score struct {
	Value float64
	Text  string
}

func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		s.Text = text
		s.Value = math.NaN()
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			s.Value = v
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid score %s: %w", b, err)
	}
	s.Value = v
	s.Text = strconv.FormatFloat(v, 'f', -1, 64)
	return nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if math.IsNaN(s.Value) {
		return json.Marshal(s.Text)
	}
	return json.Marshal(s.Value)
}

// LeaderboardEntry is one ranked row. Both the nested {user: {display_name}}
// shape and the flattened {name, boarder_style} shape are accepted.
type LeaderboardEntry struct {
	DisplayName string
	Score       Score
	IsYou       bool
	IsBot       bool
	Wins        int
	Losses      int
	Draws       int
}

type wireEntry struct {
	User *struct {
		DisplayName string `json:"display_name"`
	} `json:"user"`
	Name        string `json:"name"`
	Score       Score  `json:"score"`
	IsYou       bool   `json:"is_you"`
	IsBot       bool   `json:"is_bot"`
	BorderStyle string `json:"boarder_style"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	Outcomes    *struct {
		Wins   int `json:"wins"`
		Losses int `json:"losses"`
		Draws  int `json:"draws"`
	} `json:"outcomes"`
}

func (e *LeaderboardEntry) UnmarshalJSON(b []byte) error {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = LeaderboardEntry{
		DisplayName: w.Name,
		Score:       w.Score,
		IsYou:       w.IsYou || w.BorderStyle == "leaderboard-user-submission",
		IsBot:       w.IsBot || w.BorderStyle == "leaderboard-bot-submission",
		Wins:        w.Wins,
		Losses:      w.Losses,
		Draws:       w.Draws,
	}
	if w.User != nil && w.User.DisplayName != "" {
		e.DisplayName = w.User.DisplayName
	}
	if w.Outcomes != nil {
		e.Wins, e.Losses, e.Draws = w.Outcomes.Wins, w.Outcomes.Losses, w.Outcomes.Draws
	}
	return nil
}

// UserMeta describes a user appearing in the score history.
type UserMeta struct {
	DisplayName string `json:"display_name"`
	IsYou       bool   `json:"is_you"`
	IsBot       bool   `json:"is_bot"`
}

// ScoreDelta is a change in a user's score within one time bucket.
type ScoreDelta struct {
	UserID ID      `json:"user_id"`
	Time   float64 `json:"time"` // unix seconds
	Delta  float64 `json:"delta"`
}

// LeaderboardGraph is the payload of get_leaderboard_over_time.
type LeaderboardGraph struct {
	Users        map[ID]UserMeta `json:"users"`
	Deltas       []ScoreDelta    `json:"deltas"`
	InitialScore float64         `json:"initial_score"`
}

// Submission is one of the signed-in user's submissions.
type Submission struct {
	Index           int      `json:"index"`
	ID              ID       `json:"submission_id"`
	Date            string   `json:"submission_date"`
	Active          bool     `json:"active"`
	Healthy         bool     `json:"healthy"`
	Tested          bool     `json:"tested"`
	Selected        bool     `json:"selected"`
	CrashReason     string   `json:"crash_reason,omitempty"`
	CrashReasonLong string   `json:"crash_reason_long,omitempty"`
	Prints          []string `json:"prints,omitempty"`
}

// Bot is a house bot registered by an admin.
type Bot struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// SubmissionSummary holds match outcome counts for one submission.
type SubmissionSummary struct {
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Draws         int `json:"draws"`
	WinsHealthy   int `json:"wins_healthy"`
	LossesHealthy int `json:"losses_healthy"`
	DrawsHealthy  int `json:"draws_healthy"`
}

// Account is the get_user payload. User holds the backend's private view of
// the signed-in user and is nil without a session.
type Account struct {
	User   map[string]any `json:"user"`
	Expiry int64          `json:"expiry"` // unix seconds, -1 without a session
}

// SignedIn reports whether the session belongs to a user.
func (a Account) SignedIn() bool {
	return a.User != nil
}

// ExpiresAt returns the session expiry, or the zero time without one.
func (a Account) ExpiresAt() time.Time {
	if !a.SignedIn() || a.Expiry <= 0 {
		return time.Time{}
	}
	return time.Unix(a.Expiry, 0)
}
