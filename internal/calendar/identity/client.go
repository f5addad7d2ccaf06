package identity

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
)

// ErrRejected is returned when the users service answers with a non-2xx status.
var ErrRejected = errors.New("users service rejected token")

// User is the part of the users service's current-user document the
// calendar needs.
type User struct {
	UserID   string
	SchoolID string
	TeamID   string
}

// Client talks to the users service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a users service client. A zero timeout means 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckToken exchanges a session token for the caller's storage credential.
// An empty string with a nil error means the service answered without one.
func (c *Client) CheckToken(ctx context.Context, userToken string) (string, error) {
	var body map[string]interface{}
	if err := c.get(ctx, "/check_token", userToken, &body); err != nil {
		return "", err
	}
	return firstString(body, "firebase_token", "firebaseToken"), nil
}

// CurrentUser resolves a session token to the user and their tenant.
// Top-level schoolId/teamId win over the nested school.school_id and
// team.team_id the user document stores.
func (c *Client) CurrentUser(ctx context.Context, userToken string) (*User, error) {
	var body map[string]interface{}
	if err := c.get(ctx, "/users/current", userToken, &body); err != nil {
		return nil, err
	}

	u := &User{
		UserID:   firstString(body, "userId", "user_id", "uid"),
		SchoolID: firstString(body, "schoolId", "school_id"),
		TeamID:   firstString(body, "teamId", "team_id"),
	}
	if school, ok := body["school"].(map[string]interface{}); ok && u.SchoolID == "" {
		u.SchoolID = firstString(school, "school_id", "schoolId", "id")
	}
	if team, ok := body["team"].(map[string]interface{}); ok && u.TeamID == "" {
		u.TeamID = firstString(team, "team_id", "teamId", "id")
	}
	return u, nil
}

func (c *Client) get(ctx context.Context, path, userToken string, out interface{}) error {
	q := url.Values{}
	q.Set("user_token", userToken)
	q.Set("userToken", userToken)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call users service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrRejected, path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s returned invalid JSON", ErrRejected, path)
	}
	return nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
