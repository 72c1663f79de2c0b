package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://stats.nba.com/stats"

var ua = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client talks to the stats.nba.com JSON endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// resultSet is the table shape every stats endpoint returns.
type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

type statsResp struct {
	ResultSets []resultSet `json:"resultSets"`
}

// col returns the index of header name, or -1.
func (rs resultSet) col(name string) int {
	for i, h := range rs.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func (c *Client) getResultSet(ctx context.Context, endpoint string, q url.Values) (resultSet, error) {
	u := fmt.Sprintf("%s/%s?%s", c.BaseURL, endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return resultSet{}, err
	}
	// stats.nba.com drops requests that don't look like they came from nba.com
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("User-Agent", ua)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return resultSet{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resultSet{}, fmt.Errorf("%s: status %d body=%q", endpoint, resp.StatusCode, string(b))
	}

	var body statsResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return resultSet{}, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if len(body.ResultSets) == 0 {
		return resultSet{}, fmt.Errorf("%s: no result sets", endpoint)
	}
	c.Logger.Debug("nba: fetched", "endpoint", endpoint, "rows", len(body.ResultSets[0].RowSet))
	return body.ResultSets[0], nil
}

// ---- cell helpers ----

func cell(row []interface{}, i int) interface{} {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func cellString(row []interface{}, i int) string {
	switch v := cell(row, i).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func cellFloat(row []interface{}, i int) float64 {
	switch v := cell(row, i).(type) {
	case float64:
		return v
	case string:
		if strings.Contains(v, ":") {
			return parseMinutes(v)
		}
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// parseMinutes turns "33:15" into 33.25.
func parseMinutes(s string) float64 {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	mins, _ := strconv.Atoi(parts[0])
	secs := 0
	if len(parts) > 1 {
		secs, _ = strconv.Atoi(parts[1])
	}
	return float64(mins) + float64(secs)/60.0
}
