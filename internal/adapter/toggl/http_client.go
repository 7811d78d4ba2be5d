package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"toggl-track/internal/track"
)

const (
	defaultBaseURL   = "https://api.track.toggl.com"
	defaultUserAgent = "toggl-track-go/1.0"

	// DefaultCooldown is the minimum spacing kept between requests.
	DefaultCooldown = time.Second
)

// Credentials authenticate every request. Either an API token or a
// username/password pair must be set; the token wins when both are.
type Credentials struct {
	APIToken string
	Username string
	Password string
}

func (c Credentials) basicAuth() (string, error) {
	var pair string
	switch {
	case c.APIToken != "":
		pair = fmt.Sprintf("%s:%s", c.APIToken, "api_token")
	case c.Username != "" && c.Password != "":
		pair = fmt.Sprintf("%s:%s", c.Username, c.Password)
	default:
		return "", errors.New("toggl: insufficient credentials for authentication")
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(pair)), nil
}

// Client implements ports.Transport against the Toggl Track API v9. All
// requests share one execution slot, so they run strictly one at a time
// with at least the configured cooldown between them.
type Client struct {
	baseURL    string
	authHeader string
	userAgent  string
	http       *http.Client
	pace       *pacer
	log        *slog.Logger
}

func NewClient(baseURL string, creds Credentials, cooldown time.Duration, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	auth, err := creds.basicAuth()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		authHeader: auth,
		userAgent:  defaultUserAgent,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		pace: newPacer(cooldown),
		log:  log,
	}, nil
}

// request holds the execution slot for the duration of the HTTP exchange and
// maps non-2xx statuses onto the track error taxonomy.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if err := c.pace.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.pace.release()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/api/v9/" + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("toggl: marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("sending request", slog.String("method", method), slog.String("url", u.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(data), nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.log.Debug("request failed", slog.String("url", u.String()), slog.Int("status", resp.StatusCode))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", track.ErrUnauthorized, resp.StatusCode)
	case http.StatusPaymentRequired:
		return nil, fmt.Errorf("%w (status %d)", track.ErrPaymentRequired, resp.StatusCode)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", track.ErrNotFound, method, path)
	default:
		return nil, &track.APIError{Status: resp.StatusCode, Body: string(raw)}
	}
}

func (c *Client) Me(ctx context.Context, withRelatedData bool) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("with_related_data", strconv.FormatBool(withRelatedData))
	return c.request(ctx, http.MethodGet, "me", q, nil)
}

func (c *Client) MyWorkspaces(ctx context.Context, since int64) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "me/workspaces", sinceQuery(since), nil)
}

func (c *Client) MyProjects(ctx context.Context, since int64) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "me/projects", sinceQuery(since), nil)
}

func (c *Client) MyTags(ctx context.Context, since int64) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "me/tags", sinceQuery(since), nil)
}

func (c *Client) CurrentEntry(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "me/time_entries/current", nil, nil)
}

// CreateEntry posts a new time entry. The workspace id and a created_with
// marker are stamped onto the payload as the v9 API requires.
func (c *Client) CreateEntry(ctx context.Context, workspaceID int64, body map[string]any) (json.RawMessage, error) {
	payload := make(map[string]any, len(body)+2)
	for k, v := range body {
		payload[k] = v
	}
	payload["workspace_id"] = workspaceID
	if _, ok := payload["created_with"]; !ok {
		payload["created_with"] = c.userAgent
	}
	path := fmt.Sprintf("workspaces/%d/time_entries", workspaceID)
	return c.request(ctx, http.MethodPost, path, nil, payload)
}

func (c *Client) StopEntry(ctx context.Context, workspaceID, entryID int64) (json.RawMessage, error) {
	path := fmt.Sprintf("workspaces/%d/time_entries/%d/stop", workspaceID, entryID)
	return c.request(ctx, http.MethodPatch, path, nil, nil)
}

func sinceQuery(since int64) url.Values {
	if since == 0 {
		return nil
	}
	q := url.Values{}
	q.Set("since", strconv.FormatInt(since, 10))
	return q
}
