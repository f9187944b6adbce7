// Package github lists a user's public repositories through the GitHub
// REST API. Each call is a single attempt bounded by the client timeout.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/metrics"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

const (
	userAgent    = "devconnect"
	maxBodyBytes = 2 << 20
)

var (
	// ErrNoProfile is returned when GitHub answers with anything but 200.
	ErrNoProfile = errors.New("no github profile found")
	// ErrUpstream is returned for transport failures or unreadable replies.
	ErrUpstream = errors.New("github request failed")
)

// Config holds the credentials and limits for the client. Token wins over
// ClientID/ClientSecret when both are set; with neither, calls are
// anonymous and subject to GitHub's lower rate limit.
type Config struct {
	BaseURL      string
	Token        string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client talks to the GitHub API.
type Client struct {
	base         string
	http         *http.Client
	clientID     string
	clientSecret string
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var hc *http.Client
	if cfg.Token != "" {
		hc = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout

	c := &Client{base: base, http: hc}
	if cfg.Token == "" {
		c.clientID = cfg.ClientID
		c.clientSecret = cfg.ClientSecret
	}
	return c
}

// Repos returns the raw JSON array of username's five oldest-created public
// repositories, exactly as GitHub sent it.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.base, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.clientID != "" && c.clientSecret != "" {
		req.SetBasicAuth(c.clientID, c.clientSecret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GitHubRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		metrics.GitHubRequestsTotal.WithLabelValues("not_found").Inc()
		return nil, ErrNoProfile
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		metrics.GitHubRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: unreadable response", ErrUpstream)
	}
	metrics.GitHubRequestsTotal.WithLabelValues("ok").Inc()
	return json.RawMessage(body), nil
}
