package osu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultAPIBaseURL  = "https://osu.ppy.sh/api/v2"
	DefaultOAuthURL    = "https://osu.ppy.sh/oauth/token"
	defaultHTTPTimeout = 10 * time.Second
)

// ErrScoreNotFound means the user has no score on the beatmap
var ErrScoreNotFound = errors.New("score not found")

// Config holds the osu! API credentials and endpoints
type Config struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	OAuthURL     string
}

// Enabled reports whether credentials are configured
func (c Config) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

// BeatmapUserScore is the best score of a user on a beatmap
type BeatmapUserScore struct {
	Position int `json:"position"`
	Score    struct {
		ID       int64    `json:"id"`
		Accuracy float64  `json:"accuracy"`
		PP       *float64 `json:"pp"`
	} `json:"score"`
}

// Client talks to the osu! v2 API with a client credentials token that is
// refreshed once it expires
type Client struct {
	http     *resty.Client
	config   Config
	now      func() time.Time
	mu       sync.Mutex
	token    string
	expireAt time.Time
}

// NewClient creates an API client, filling in the default endpoints
func NewClient(config Config) *Client {
	if config.APIBaseURL == "" {
		config.APIBaseURL = DefaultAPIBaseURL
	}
	if config.OAuthURL == "" {
		config.OAuthURL = DefaultOAuthURL
	}

	client := resty.New()
	client.SetBaseURL(config.APIBaseURL)
	client.SetTimeout(defaultHTTPTimeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		http:   client,
		config: config,
		now:    time.Now,
	}
}

// accessToken returns the cached token or requests a new one
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && now.Before(c.expireAt) {
		return c.token, nil
	}

	var token tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.config.ClientID,
			"client_secret": c.config.ClientSecret,
			"grant_type":    "client_credentials",
			"scope":         "public",
		}).
		SetResult(&token).
		Post(c.config.OAuthURL)
	if err != nil {
		return "", fmt.Errorf("failed to request osu! token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("osu! token request failed: %s", resp.Status())
	}

	c.token = token.AccessToken
	c.expireAt = now.Add(time.Duration(token.ExpiresIn) * time.Second)

	log.WithField("expiresIn", token.ExpiresIn).Debug("Obtained osu! access token")
	return c.token, nil
}

// UserBeatmapScore fetches the user's best score on a beatmap
func (c *Client) UserBeatmapScore(ctx context.Context, beatmapID, userID int64) (*BeatmapUserScore, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var score BeatmapUserScore
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParams(map[string]string{
			"beatmap": strconv.FormatInt(beatmapID, 10),
			"user":    strconv.FormatInt(userID, 10),
		}).
		SetQueryParam("mode", "osu").
		SetResult(&score).
		Get("/beatmaps/{beatmap}/scores/users/{user}")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch beatmap score: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, ErrScoreNotFound
	case resp.StatusCode() == http.StatusUnauthorized:
		c.invalidateToken()
		return nil, fmt.Errorf("osu! rejected the access token: %s", resp.Status())
	case resp.IsError():
		return nil, fmt.Errorf("osu! score request failed: %s", resp.Status())
	}

	return &score, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}
