package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	EndpointLoginGoogle         = "/api/login_google"
	EndpointAddSubmission       = "/api/add_submission"
	EndpointAddBot              = "/api/add_bot"
	EndpointSetSubmissionActive = "/api/set_submission_active"
	EndpointRemoveBot           = "/api/remove_bot"
	EndpointGetLeaderboard      = "/api/get_leaderboard"
	EndpointLeaderboardOverTime = "/api/get_leaderboard_over_time"
	EndpointSubmissionSummary   = "/api/get_submission_summary_graph"
	EndpointSetNameVisible      = "/api/set_name_visible"
	EndpointDeleteSubmission    = "/api/delete_submission"
	EndpointGetSubmissions      = "/api/get_submissions"
	EndpointGetBots             = "/api/get_bots"
	EndpointIsSubmissionTesting = "/api/is_submission_testing"
	EndpointGetUser             = "/api/get_user"
	EndpointRemoveUser          = "/api/remove_user"
	EndpointServiceStatus       = "/api/service_status"
)

// LoginGoogle exchanges an identity token for a backend session. Only the
// token is sent.
func (c *Client) LoginGoogle(ctx context.Context, idToken string) (Result, error) {
	return c.post(ctx, EndpointLoginGoogle, map[string]string{"idtoken": idToken})
}

func (c *Client) AddSubmission(ctx context.Context, repoURL string) (Result, error) {
	return c.post(ctx, EndpointAddSubmission, map[string]string{"url": repoURL})
}

func (c *Client) AddBot(ctx context.Context, repoURL, name string) (Result, error) {
	return c.post(ctx, EndpointAddBot, map[string]string{"url": repoURL, "name": name})
}

func (c *Client) SetSubmissionActive(ctx context.Context, id ID, enabled bool) (Result, error) {
	return c.post(ctx, EndpointSetSubmissionActive, struct {
		SubmissionID ID   `json:"submission_id"`
		Enabled      bool `json:"enabled"`
	}{id, enabled})
}

func (c *Client) RemoveBot(ctx context.Context, id ID) (Result, error) {
	return c.post(ctx, EndpointRemoveBot, struct {
		ID ID `json:"id"`
	}{id})
}

func (c *Client) SetNameVisible(ctx context.Context, visible bool) (Result, error) {
	return c.post(ctx, EndpointSetNameVisible, map[string]bool{"visible": visible})
}

func (c *Client) DeleteSubmission(ctx context.Context, id ID) (Result, error) {
	return c.post(ctx, EndpointDeleteSubmission, submissionRequest{id})
}

// RemoveUser deletes the signed-in user's account and everything they
// submitted.
func (c *Client) RemoveUser(ctx context.Context) (Result, error) {
	return c.post(ctx, EndpointRemoveUser, struct{}{})
}

type submissionRequest struct {
	SubmissionID ID `json:"submission_id"`
}

// GetLeaderboard fetches the ranking in backend order. A bare array,
// {entries: [...]}, {data: [...]} and {data: {entries: [...]}} are accepted.
func (c *Client) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var body any
	if c.leaderboardMethod == http.MethodPost {
		body = struct{}{}
	}
	res, err := c.query(ctx, c.leaderboardMethod, EndpointGetLeaderboard, body)
	if err != nil {
		return nil, err
	}
	entries, err := decodeEntries(res.Data)
	if err != nil {
		return nil, &MalformedResponseError{Endpoint: EndpointGetLeaderboard, Body: string(res.Data), Err: err}
	}
	return entries, nil
}

func decodeEntries(data json.RawMessage) ([]LeaderboardEntry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty leaderboard body")
	}
	var entries []LeaderboardEntry
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
	case '{':
		var wrapped struct {
			Entries *[]LeaderboardEntry `json:"entries"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Entries == nil {
			return nil, fmt.Errorf("leaderboard object has no entries")
		}
		entries = *wrapped.Entries
	default:
		return nil, fmt.Errorf("leaderboard body is neither an array nor an object")
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	return entries, nil
}

// GetLeaderboardOverTime fetches the bucketed score deltas for the history
// chart.
func (c *Client) GetLeaderboardOverTime(ctx context.Context) (LeaderboardGraph, error) {
	var graph LeaderboardGraph
	res, err := c.query(ctx, http.MethodPost, EndpointLeaderboardOverTime, struct{}{})
	if err != nil {
		return graph, err
	}
	if err := res.Decode(&graph); err != nil {
		return graph, &MalformedResponseError{Endpoint: EndpointLeaderboardOverTime, Body: string(res.Data), Err: err}
	}
	return graph, nil
}

func (c *Client) GetSubmissionSummary(ctx context.Context, id ID) (SubmissionSummary, error) {
	var summary SubmissionSummary
	res, err := c.query(ctx, http.MethodPost, EndpointSubmissionSummary, submissionRequest{id})
	if err != nil {
		return summary, err
	}
	if err := res.Decode(&summary); err != nil {
		return summary, &MalformedResponseError{Endpoint: EndpointSubmissionSummary, Body: string(res.Data), Err: err}
	}
	return summary, nil
}

func (c *Client) GetSubmissions(ctx context.Context) ([]Submission, error) {
	var payload struct {
		Submissions []Submission `json:"submissions"`
	}
	res, err := c.query(ctx, http.MethodPost, EndpointGetSubmissions, struct{}{})
	if err != nil {
		return nil, err
	}
	if err := res.Decode(&payload); err != nil {
		return nil, &MalformedResponseError{Endpoint: EndpointGetSubmissions, Body: string(res.Data), Err: err}
	}
	return payload.Submissions, nil
}

func (c *Client) GetBots(ctx context.Context) ([]Bot, error) {
	var payload struct {
		Bots []Bot `json:"bots"`
	}
	res, err := c.query(ctx, http.MethodPost, EndpointGetBots, struct{}{})
	if err != nil {
		return nil, err
	}
	if err := res.Decode(&payload); err != nil {
		return nil, &MalformedResponseError{Endpoint: EndpointGetBots, Body: string(res.Data), Err: err}
	}
	return payload.Bots, nil
}

// IsSubmissionTesting reports whether the backend is still running the
// submission's validation matches.
func (c *Client) IsSubmissionTesting(ctx context.Context, id ID) (bool, error) {
	var payload struct {
		IsTesting bool `json:"is_testing"`
	}
	res, err := c.query(ctx, http.MethodPost, EndpointIsSubmissionTesting, submissionRequest{id})
	if err != nil {
		return false, err
	}
	if err := res.Decode(&payload); err != nil {
		return false, &MalformedResponseError{Endpoint: EndpointIsSubmissionTesting, Body: string(res.Data), Err: err}
	}
	return payload.IsTesting, nil
}

// GetUser reports who the session belongs to. A missing or expired session
// is not an error: it comes back as an Account that is not signed in.
func (c *Client) GetUser(ctx context.Context) (Account, error) {
	var account Account
	res, err := c.query(ctx, http.MethodPost, EndpointGetUser, struct{}{})
	if err != nil {
		return account, err
	}
	if err := res.Decode(&account); err != nil {
		return account, &MalformedResponseError{Endpoint: EndpointGetUser, Body: string(res.Data), Err: err}
	}
	return account, nil
}

// ServiceStatus reports the health of each backend service by name. Only
// admins may call it.
func (c *Client) ServiceStatus(ctx context.Context) (map[string]bool, error) {
	var services map[string]bool
	res, err := c.query(ctx, http.MethodPost, EndpointServiceStatus, struct{}{})
	if err != nil {
		return nil, err
	}
	if err := res.Decode(&services); err != nil {
		return nil, &MalformedResponseError{Endpoint: EndpointServiceStatus, Body: string(res.Data), Err: err}
	}
	return services, nil
}
