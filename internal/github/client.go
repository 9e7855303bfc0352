// Package github is a read-only client for the public GitHub REST API,
// limited to user profiles and starred repositories.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v33/github"
	"github.com/rs/zerolog"

	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/logging"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com/"

// Client fetches profiles and starred repositories.
type Client struct {
	api        *gh.Client
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	logger     *zerolog.Logger
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new client. With no options it talks to
// DefaultBaseURL with the transport's default timeout.
func NewClient(opts ...Option) *Client {
	base, _ := url.Parse(DefaultBaseURL)
	client := &Client{
		httpClient: &http.Client{},
		baseURL:    base,
		userAgent:  "gitfav",
	}

	for _, opt := range opts {
		opt(client)
	}

	client.api = gh.NewClient(client.httpClient)
	client.api.BaseURL = client.baseURL
	client.api.UserAgent = client.userAgent
	return client
}

// WithBaseURL points the client at another API root. URLs without an
// http(s) scheme and host are ignored; config.Validate rejects them first.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return
		}
		c.baseURL = u
	}
}

// WithTimeout sets the request timeout. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithUserAgent sets the User-Agent header GitHub requires.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = &logger
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchUserProfile looks up a user by login.
func (c *Client) FetchUserProfile(ctx context.Context, login string) (core.BookmarkedUser, error) {
	ctx = c.withLogger(ctx)
	endpoint := c.endpoint("users/" + url.PathEscape(login))
	start := time.Now()

	user, resp, err := c.api.Users.Get(ctx, url.PathEscape(login))
	c.logRequest(ctx, endpoint, resp, err, start)
	if err != nil {
		return core.BookmarkedUser{}, networkError(endpoint, resp, err)
	}

	return core.BookmarkedUser{
		Login:     user.GetLogin(),
		Name:      user.GetName(),
		Bio:       user.GetBio(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// FetchStarredRepositories returns one page of the repositories login has
// starred. Page 1 is requested without a page parameter. An empty slice
// means there are no more pages.
func (c *Client) FetchStarredRepositories(ctx context.Context, login string, page int) ([]core.StarredRepository, error) {
	ctx = c.withLogger(ctx)
	path := "users/" + url.PathEscape(login) + "/starred"
	endpoint := c.endpoint(path)

	opts := &gh.ActivityListStarredOptions{}
	if page > 1 {
		opts.Page = page
		endpoint += fmt.Sprintf("?page=%d", page)
	}
	start := time.Now()

	starred, resp, err := c.api.Activity.ListStarred(ctx, url.PathEscape(login), opts)
	c.logRequest(ctx, endpoint, resp, err, start)
	if err != nil {
		return nil, networkError(endpoint, resp, err)
	}

	repos := make([]core.StarredRepository, 0, len(starred))
	for _, s := range starred {
		if repo := s.GetRepository(); repo != nil {
			repos = append(repos, toRepository(repo))
		}
	}
	return repos, nil
}

func toRepository(repo *gh.Repository) core.StarredRepository {
	owner := repo.GetOwner()
	return core.StarredRepository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		HTMLURL:     repo.GetHTMLURL(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		Stars:       repo.GetStargazersCount(),
		Language:    repo.GetLanguage(),
		Owner: core.Owner{
			Login:     owner.GetLogin(),
			AvatarURL: owner.GetAvatarURL(),
		},
	}
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// networkError maps a go-github failure onto core.NetworkError. API errors
// keep their status code; a 2xx response that failed to decode does not.
func networkError(endpoint string, resp *gh.Response, err error) error {
	status := 0

	var apiErr *gh.ErrorResponse
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	switch {
	case errors.As(err, &apiErr) && apiErr.Response != nil:
		status = apiErr.Response.StatusCode
	case errors.As(err, &rateErr) && rateErr.Response != nil:
		status = rateErr.Response.StatusCode
	case errors.As(err, &abuseErr) && abuseErr.Response != nil:
		status = abuseErr.Response.StatusCode
	case resp != nil && resp.Response != nil:
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			status = resp.StatusCode
		} else {
			err = fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return core.NewNetworkError(http.MethodGet, endpoint, status, err)
}

func (c *Client) logRequest(ctx context.Context, endpoint string, resp *gh.Response, err error, start time.Time) {
	event := logging.FromContext(ctx).Debug().
		Str("url", endpoint).
		Dur("elapsed", time.Since(start))
	if resp != nil && resp.Response != nil {
		event = event.Int("status", resp.StatusCode)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("github request")
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.logger != nil && !logging.HasLogger(ctx) {
		ctx = logging.WithLogger(ctx, *c.logger)
	}
	return logging.WithRequestID(ctx)
}
