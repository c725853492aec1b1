package prometheus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// QueryURL is the server base URL, e.g. http://prometheus:9090.
	QueryURL string
	Username string
	Password string
}

type Client struct {
	httpClient *http.Client
	config     Config
}

func NewClient(cfg Config) *Client {
	cfg.QueryURL = strings.TrimRight(cfg.QueryURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		config:     cfg,
	}
}

type Sample struct {
	Metric    map[string]string
	Timestamp time.Time
	Value     float64
}

type promResponse struct {
	Status string   `json:"status"`
	Error  string   `json:"error,omitempty"`
	Data   promData `json:"data"`
}

type promData struct {
	ResultType string       `json:"resultType"`
	Result     []promResult `json:"result"`
}

type promResult struct {
	Metric map[string]string `json:"metric"`
	Value  []any             `json:"value"`
}

// Query evaluates an instant vector query.
func (c *Client) Query(ctx context.Context, query string) ([]Sample, error) {
	params := url.Values{"query": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.QueryURL+"/api/v1/query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying prometheus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prometheus returned status %d", resp.StatusCode)
	}

	var promResp promResponse
	if err := json.NewDecoder(resp.Body).Decode(&promResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if promResp.Status != "success" {
		return nil, fmt.Errorf("prometheus query failed: status=%s error=%s", promResp.Status, promResp.Error)
	}
	if promResp.Data.ResultType != "vector" {
		return nil, fmt.Errorf("unexpected result type %q", promResp.Data.ResultType)
	}

	samples := make([]Sample, 0, len(promResp.Data.Result))
	for _, result := range promResp.Data.Result {
		if len(result.Value) != 2 {
			continue
		}

		ts, ok := result.Value[0].(float64)
		if !ok {
			continue
		}

		valStr, ok := result.Value[1].(string)
		if !ok {
			continue
		}

		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}

		samples = append(samples, Sample{
			Metric:    result.Metric,
			Timestamp: time.Unix(int64(ts), 0),
			Value:     val,
		})
	}

	return samples, nil
}

// Scalar evaluates query and sums the resulting vector. An empty vector is 0.
func (c *Client) Scalar(ctx context.Context, query string) (float64, error) {
	samples, err := c.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, s := range samples {
		total += s.Value
	}
	return total, nil
}
