// Package client is the HTTP client for the crossword API. It
// implements the session's CompletionReporter so a solving session can
// report finish times straight through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/minicross/minicross/internal/puzzle"
	"github.com/minicross/minicross/internal/session"
)

// Client talks to a crossword server.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// Auth is what a successful code verification returns.
type Auth struct {
	Token      string `json:"token"`
	FriendCode string `json:"friendCode"`
}

// Friend is one row of the caller's friend list.
type Friend struct {
	Email      string `json:"email"`
	FriendCode string `json:"friendCode"`
}

// LeaderboardEntry is one ranked completion for a date.
type LeaderboardEntry struct {
	Email  string `json:"email"`
	TimeMs int64  `json:"timeMs"`
	Self   bool   `json:"self"`
}

// New creates a client for the server at base, e.g.
// "http://localhost:8080".
func New(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs a bearer token for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the installed bearer token, if any.
func (c *Client) Token() string { return c.token }

// RequestCode asks the server to send a login code to an email.
func (c *Client) RequestCode(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/api/auth/request_code",
		map[string]string{"email": email}, nil)
}

// VerifyCode trades a login code for a bearer token and installs it.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (Auth, error) {
	var auth Auth
	err := c.call(ctx, http.MethodPost, "/api/auth/verify_code",
		map[string]string{"email": email, "code": code}, &auth)
	if err != nil {
		return Auth{}, err
	}
	c.token = auth.Token
	return auth, nil
}

// Today fetches the puzzle of the day.
func (c *Client) Today(ctx context.Context) (puzzle.Document, error) {
	var doc puzzle.Document
	err := c.call(ctx, http.MethodGet, "/api/puzzles/today", nil, &doc)
	return doc, err
}

// PuzzleByDate fetches the puzzle for an ISO date.
func (c *Client) PuzzleByDate(ctx context.Context, date string) (puzzle.Document, error) {
	var doc puzzle.Document
	err := c.call(ctx, http.MethodGet, "/api/puzzles/today?date="+date, nil, &doc)
	return doc, err
}

// Submit reports a completion time. The server derives today itself;
// the date argument only satisfies the reporter contract. A repeat
// submission comes back AlreadyRecorded, which callers treat as
// success.
func (c *Client) Submit(ctx context.Context, date string, elapsed time.Duration) (session.Status, error) {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.call(ctx, http.MethodPost, "/api/completions",
		map[string]int64{"timeMs": elapsed.Milliseconds()}, &resp)
	if err != nil {
		return session.SubmitFailed, err
	}
	if resp.Status == "already_recorded" {
		return session.AlreadyRecorded, nil
	}
	return session.Recorded, nil
}

// Friends lists the caller's friends.
func (c *Client) Friends(ctx context.Context) ([]Friend, error) {
	var out []Friend
	err := c.call(ctx, http.MethodGet, "/api/friends", nil, &out)
	return out, err
}

// AddFriend links the caller with the owner of a friend code.
func (c *Client) AddFriend(ctx context.Context, friendCode string) (Friend, error) {
	var out Friend
	err := c.call(ctx, http.MethodPost, "/api/friends",
		map[string]string{"friendCode": friendCode}, &out)
	return out, err
}

// Leaderboard fetches the ranked completions for a date ("" = today).
func (c *Client) Leaderboard(ctx context.Context, date string) ([]LeaderboardEntry, error) {
	path := "/api/leaderboard"
	if date != "" {
		path += "?date=" + date
	}
	var resp struct {
		Entries []LeaderboardEntry `json:"entries"`
	}
	err := c.call(ctx, http.MethodGet, path, nil, &resp)
	return resp.Entries, err
}

// call runs one JSON round trip. Non-2xx responses become errors
// carrying the server's error message.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(payload).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
