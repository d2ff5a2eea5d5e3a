// Package gitclient talks to the internal git daemon's HTTP API. Tree and
// commit data is fetched live per request and never persisted.
package gitclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// ErrNotFound indicates the repository, ref or path does not exist on the daemon.
var ErrNotFound = errors.New("git resource not found")

// Config contains connection settings for the git daemon.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a thin HTTP client over the daemon's JSON API.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// TreeEntry is one row of a directory listing at a ref.
type TreeEntry struct {
	Path string
	Name string
	Type string
	Size int64
}

// Commit describes one commit of a branch history.
type Commit struct {
	SHA       string
	Message   string
	Author    string
	Timestamp string
}

// RepoStats carries the daemon-side counters for a repository.
type RepoStats struct {
	Commits  int64
	Branches int64
}

// New constructs a git daemon client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("git daemon base url must be provided")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		http.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:   http,
		logger: logger.With().Str("component", "gitclient").Logger(),
	}, nil
}

// Tree lists the entries of a directory at the given ref.
func (c *Client) Tree(ctx context.Context, owner, repo, ref, path string) ([]TreeEntry, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ref", ref).
		SetQueryParam("path", path).
		Get(fmt.Sprintf("/repos/%s/%s/tree", owner, repo))
	if err != nil {
		return nil, fmt.Errorf("git tree request failed: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	entries := []TreeEntry{}
	for _, raw := range gjson.GetBytes(resp.Body(), "entries").Array() {
		entries = append(entries, TreeEntry{
			Path: raw.Get("path").String(),
			Name: raw.Get("name").String(),
			Type: raw.Get("type").String(),
			Size: raw.Get("size").Int(),
		})
	}
	return entries, nil
}

// Commits pages the commit history of a ref. The second return value is the
// total number of commits on the ref.
func (c *Client) Commits(ctx context.Context, owner, repo, ref string, limit, offset int) ([]Commit, int64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ref", ref).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetQueryParam("offset", fmt.Sprintf("%d", offset)).
		Get(fmt.Sprintf("/repos/%s/%s/commits", owner, repo))
	if err != nil {
		return nil, 0, fmt.Errorf("git commits request failed: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, 0, err
	}

	body := resp.Body()
	commits := []Commit{}
	for _, raw := range gjson.GetBytes(body, "items").Array() {
		commits = append(commits, Commit{
			SHA:       raw.Get("sha").String(),
			Message:   raw.Get("message").String(),
			Author:    raw.Get("author").String(),
			Timestamp: raw.Get("timestamp").String(),
		})
	}
	return commits, gjson.GetBytes(body, "total").Int(), nil
}

// Stats fetches commit and branch counters for a repository.
func (c *Client) Stats(ctx context.Context, owner, repo string) (RepoStats, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/repos/%s/%s/stats", owner, repo))
	if err != nil {
		return RepoStats{}, fmt.Errorf("git stats request failed: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return RepoStats{}, err
	}

	body := resp.Body()
	return RepoStats{
		Commits:  gjson.GetBytes(body, "commits").Int(),
		Branches: gjson.GetBytes(body, "branches").Int(),
	}, nil
}

func (c *Client) checkStatus(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == 404:
		return ErrNotFound
	case resp.IsError():
		message := gjson.GetBytes(resp.Body(), "error").String()
		if message == "" {
			message = resp.Status()
		}
		c.logger.Warn().Int("status", resp.StatusCode()).Str("error", message).Msg("git daemon returned an error")
		return fmt.Errorf("git daemon error: %s", message)
	}
	return nil
}
