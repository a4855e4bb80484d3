// Package lrclib is a small client for the LRCLIB lyrics API, used by
// the pull command to fetch LRC content for local audio libraries.
package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://lrclib.net/api"

	requestTimeout = 15 * time.Second
	userAgent      = "lrcvis/1.0"
)

// Lyrics is one LRCLIB record.
type Lyrics struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Empty reports whether the record carries no usable content.
func (l *Lyrics) Empty() bool {
	return l.PlainLyrics == "" && l.SyncedLyrics == "" && !l.Instrumental
}

// Body returns the preferred lyrics text, or empty when none exists.
func (l *Lyrics) Body(preferSynced bool) string {
	if preferSynced {
		if l.SyncedLyrics != "" {
			return l.SyncedLyrics
		}
		return l.PlainLyrics
	}
	if l.PlainLyrics != "" {
		return l.PlainLyrics
	}
	return l.SyncedLyrics
}

type Client struct {
	baseURL string
	http    *http.Client
	retries int
	backoff time.Duration
}

// NewClient builds a client against baseURL (DefaultBaseURL when empty).
// Network failures are retried up to retries times with linear backoff.
func NewClient(baseURL string, retries int, backoff time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retries < 1 {
		retries = 1
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 2 * time.Second,
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		retries: retries,
		backoff: backoff,
	}
}

// Search queries /api/search. An empty result slice is not an error.
func (c *Client) Search(ctx context.Context, artist, title string, duration int64) ([]Lyrics, error) {
	query := url.Values{}
	query.Set("artist_name", artist)
	query.Set("track_name", title)
	if duration > 0 {
		query.Set("duration", strconv.FormatInt(duration, 10))
	}

	body, err := c.get(ctx, "/search?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var results []Lyrics
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode lrclib json: %w", err)
	}

	return results, nil
}

// Get queries /api/get for an exact match. A 404 is returned as an
// error wrapping the status.
func (c *Client) Get(ctx context.Context, artist, title, album string, duration int64) (*Lyrics, error) {
	query := url.Values{}
	query.Set("artist_name", artist)
	query.Set("track_name", title)
	if album != "" {
		query.Set("album_name", album)
	}
	if duration > 0 {
		query.Set("duration", strconv.FormatInt(duration, 10))
	}

	body, err := c.get(ctx, "/get?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var result Lyrics
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode lrclib json: %w", err)
	}

	return &result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.doRequest(ctx, c.baseURL+path)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// the record genuinely does not exist; retrying will not help
		if statusErr, ok := err.(*statusError); ok && statusErr.code == http.StatusNotFound {
			return nil, err
		}
	}

	return nil, lastErr
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("lrclib returned status %d: %s", e.code, e.body)
}

func (c *Client) doRequest(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{code: resp.StatusCode, body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lrclib response: %w", err)
	}

	return body, nil
}
