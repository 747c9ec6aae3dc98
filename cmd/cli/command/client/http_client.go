package client

// http_client.go = handles HTTP calls from the talehub CLI to the API server.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"talehub/cmd/cli/dto"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (c *HTTPClient) get(path string, query url.Values, out any) error {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FeedOptions are the optional filters of the story feed.
type FeedOptions struct {
	Page     int
	Limit    int
	Category string
	Sort     string
}

func pagingQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *HTTPClient) ListStories(opts FeedOptions) (*dto.StoryList, error) {
	q := pagingQuery(opts.Page, opts.Limit)
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	var out dto.StoryList
	if err := c.get("/stories", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchStories(query string, page, limit int) (*dto.StoryList, error) {
	q := pagingQuery(page, limit)
	q.Set("q", query)
	var out dto.StoryList
	if err := c.get("/stories/search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) MustWatch(limit int) (*dto.MustWatchList, error) {
	var out dto.MustWatchList
	if err := c.get("/stories/must-watch", pagingQuery(0, limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Notifications(page, limit int) (*dto.NotificationList, error) {
	var out dto.NotificationList
	if err := c.get("/notifications", pagingQuery(page, limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UnreadCount() (int64, error) {
	var out dto.UnreadCount
	if err := c.get("/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
