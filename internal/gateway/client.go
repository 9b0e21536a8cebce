package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ytget/game-system/internal/model"
	"github.com/ytget/game-system/internal/telemetry"
)

// Defaults
const (
	DefaultTimeout      = 30 * time.Second
	DateLayout          = "2006-01-02"
	MaxResponseBodySize = 4 << 20
	ContentTypeJSON     = "application/json"
)

// Options configures a Client
type Options struct {
	PredictURL   string
	RecommendURL string
	WakeURLs     []string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Metrics      *telemetry.Metrics
}

// Client talks to the prediction services
type Client struct {
	predictURL   string
	recommendURL string
	wakeURLs     []string
	http         *http.Client
	metrics      *telemetry.Metrics
}

var _ Caller = (*Client)(nil)

// New creates a gateway client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	wake := make([]string, len(opts.WakeURLs))
	copy(wake, opts.WakeURLs)

	return &Client{
		predictURL:   opts.PredictURL,
		recommendURL: opts.RecommendURL,
		wakeURLs:     wake,
		http:         httpClient,
		metrics:      opts.Metrics,
	}
}

// WakeURLs returns the configured services to wake
func (c *Client) WakeURLs() []string {
	out := make([]string, len(c.wakeURLs))
	copy(out, c.wakeURLs)
	return out
}

// WakeAll GETs every URL concurrently, waits for all of them and reports one
// outcome per URL in input order. A failing URL does not fail the call.
func (c *Client) WakeAll(ctx context.Context, urls []string) (model.WakeReport, error) {
	if len(urls) == 0 {
		return model.WakeReport{}, ErrNoURLs
	}

	outcomes := make([]model.WakeOutcome, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			outcomes[i] = c.wakeOne(ctx, u)
		}(i, u)
	}
	wg.Wait()

	report := model.WakeReport{Outcomes: outcomes}
	slog.Info("wake finished", "services", len(urls), "failed", len(report.Failed()))
	return report, nil
}

func (c *Client) wakeOne(ctx context.Context, url string) (outcome model.WakeOutcome) {
	outcome.URL = url
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = &RemoteCallError{Op: OpWake, URL: url, Err: fmt.Errorf("panic: %v", r)}
		}
		outcome.Duration = time.Since(start)
		c.metrics.ObserveCall(OpWake, outcome.Err, outcome.Duration)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		outcome.Err = &RemoteCallError{Op: OpWake, URL: url, Err: err}
		return outcome
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome.Err = &RemoteCallError{Op: OpWake, URL: url, Err: err}
		slog.Warn("wake failed", "url", url, "error", err)
		return outcome
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseBodySize))

	outcome.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome.Err = &RemoteCallError{Op: OpWake, URL: url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
		slog.Warn("wake failed", "url", url, "status", resp.StatusCode)
		return outcome
	}

	slog.Debug("service awake", "url", url, "status", resp.StatusCode)
	return outcome
}

// PredictPlayerCount posts {"date": "YYYY-MM-DD"} to Model 1
func (c *Client) PredictPlayerCount(ctx context.Context, date time.Time) (model.PredictionResponse, error) {
	payload := model.PredictionRequest{Date: date.Format(DateLayout)}

	var body struct {
		PlayerCount *float64 `json:"player_count"`
	}
	if err := c.postJSON(ctx, OpPredict, c.predictURL, payload, &body); err != nil {
		return model.PredictionResponse{}, err
	}
	if body.PlayerCount == nil {
		return model.PredictionResponse{}, &RemoteCallError{
			Op:  OpPredict,
			URL: c.predictURL,
			Err: fmt.Errorf("%w: missing player_count", ErrMalformedResponse),
		}
	}

	return model.PredictionResponse{PlayerCount: *body.PlayerCount}, nil
}

// Recommend posts the game_id to hours mapping to Model 2
func (c *Client) Recommend(ctx context.Context, selections model.RecommendationRequest) (model.RecommendationResponse, error) {
	if selections == nil {
		selections = model.RecommendationRequest{}
	}

	var body struct {
		Recommendations *[]model.Recommendation `json:"recommendations"`
	}
	if err := c.postJSON(ctx, OpRecommend, c.recommendURL, selections, &body); err != nil {
		return model.RecommendationResponse{}, err
	}
	if body.Recommendations == nil {
		return model.RecommendationResponse{}, &RemoteCallError{
			Op:  OpRecommend,
			URL: c.recommendURL,
			Err: fmt.Errorf("%w: missing recommendations", ErrMalformedResponse),
		}
	}

	return model.RecommendationResponse{Recommendations: *body.Recommendations}, nil
}

// postJSON sends payload and decodes a 2xx JSON answer into out
func (c *Client) postJSON(ctx context.Context, op, url string, payload, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveCall(op, err, time.Since(start))
	}()

	data, err := json.Marshal(payload)
	if err != nil {
		return &RemoteCallError{Op: op, URL: url, Err: fmt.Errorf("encode request: %w", err)}
	}
	slog.Debug("remote call", "op", op, "url", url, "payload", string(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &RemoteCallError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept", ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("remote call failed", "op", op, "url", url, "error", err)
		return &RemoteCallError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodySize))
	if err != nil {
		return &RemoteCallError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("remote call failed", "op", op, "url", url, "status", resp.StatusCode)
		return &RemoteCallError{
			Op:         op,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, http.StatusText(resp.StatusCode)),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &RemoteCallError{
			Op:         op,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}

	slog.Debug("remote call succeeded", "op", op, "url", url, "duration", time.Since(start))
	return nil
}
