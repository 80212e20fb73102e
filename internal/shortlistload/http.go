package shortlistload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/barcarate/internal/domain/types"
	"github.com/okian/barcarate/pkg/logger"
)

// HTTPClient wraps http.Client with a base URL and a timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request and decodes a 200 response into out.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

// Post sends body as JSON and decodes a 2xx response into out.
func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitAll posts every submission with at most cfg.Workers in flight.
func submitAll(ctx context.Context, cfg *Config, client *HTTPClient, subs []Submission, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting candidates", logger.Int("count", len(subs)), logger.Int("workers", cfg.Workers))

	var accepted, duplicate, rejected atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range subs {
		g.Go(func() error {
			switch submitOne(gctx, client, &subs[i]) {
			case outcomeAccepted:
				accepted.Add(1)
			case outcomeDuplicate:
				duplicate.Add(1)
			default:
				rejected.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "submission rejected",
						logger.String("name", subs[i].Name),
						logger.String("error", subs[i].Error))
				}
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats.Submitted = len(subs)
	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Rejected = int(rejected.Load())

	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected))
	return nil
}

// submitOne posts one submission and returns its outcome.
func submitOne(ctx context.Context, client *HTTPClient, sub *Submission) string {
	var ack AckResponse
	code, err := client.Post(ctx, "/candidates", map[string]string{
		"submission_id": sub.SubmissionID,
		"name":          sub.Name,
	}, &ack)
	switch {
	case err != nil:
		sub.Status = outcomeRejected
		sub.Error = err.Error()
		return outcomeRejected
	case code == http.StatusOK || ack.Duplicate:
		sub.Status = types.StatusQueued
		return outcomeDuplicate
	default:
		sub.Status = types.StatusQueued
		return outcomeAccepted
	}
}

// waitForProcessing polls every queued submission until none is queued or
// cfg.Wait elapses.
func waitForProcessing(ctx context.Context, cfg *Config, client *HTTPClient, subs []Submission, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "waiting for submissions to be processed", logger.Duration("maxWait", cfg.Wait))

	ctx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		pending, err := pollStatuses(ctx, cfg, client, subs)
		if err != nil && ctx.Err() == nil {
			return err
		}
		if pending == 0 || ctx.Err() != nil {
			break
		}
		if cfg.Verbose {
			log.Info(ctx, "still processing", logger.Int("pending", pending))
		}
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	stats.Done, stats.Failed, stats.Pending = 0, 0, 0
	for _, s := range subs {
		switch s.Status {
		case types.StatusDone:
			stats.Done++
		case types.StatusFailed:
			stats.Failed++
		case types.StatusQueued:
			stats.Pending++
		}
	}
	log.Info(ctx, "processing finished",
		logger.Int("done", stats.Done),
		logger.Int("failed", stats.Failed),
		logger.Int("pending", stats.Pending))
	return nil
}

// pollStatuses refreshes queued submissions and returns how many remain queued.
func pollStatuses(ctx context.Context, cfg *Config, client *HTTPClient, subs []Submission) (int, error) {
	var pending atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range subs {
		if subs[i].Status != types.StatusQueued {
			continue
		}
		g.Go(func() error {
			var st types.SubmissionStatus
			if _, err := client.Get(gctx, "/candidates/"+url.PathEscape(subs[i].SubmissionID), &st); err != nil {
				return fmt.Errorf("status of %s: %w", subs[i].SubmissionID, err)
			}
			subs[i].Status = st.Status
			subs[i].FinalRating = st.FinalRating
			subs[i].Error = st.Error
			if st.Status == types.StatusQueued {
				pending.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	return int(pending.Load()), err
}
