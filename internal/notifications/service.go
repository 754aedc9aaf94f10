package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
)

const userAgent = "mediaforge/0.1.0"

const defaultRequestTimeout = 10 * time.Second

// Service sends batch notifications.
type Service interface {
	NotifyBatchCompleted(ctx context.Context, result jobs.BatchResult, elapsed time.Duration) error
}

// NewService builds an ntfy-backed service, or a no-op one when
// notifications.ntfy_topic is empty.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		onlyFailures: cfg.Notifications.OnlyFailures,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	onlyFailures bool
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, result jobs.BatchResult, elapsed time.Duration) error {
	status := result.Status()
	if n.onlyFailures && status == jobs.StatusComplete {
		return nil
	}
	return n.send(ctx, batchPayload(result, elapsed))
}

func batchPayload(result jobs.BatchResult, elapsed time.Duration) payload {
	elapsed = elapsed.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	label := strings.TrimSpace(result.Label)
	if label == "" {
		label = "custom"
	}

	data := payload{tags: []string{"mediaforge", "batch", label}}
	switch result.Status() {
	case jobs.StatusComplete:
		data.title = "mediaforge - Batch Complete"
		data.message = fmt.Sprintf("%s: %d items processed in %s", label, result.ProcessedCount, elapsed)
	case jobs.StatusFailed:
		data.title = "mediaforge - Batch Failed"
		data.message = fmt.Sprintf("%s: all %d items failed in %s", label, result.ProcessedCount, elapsed)
		data.priority = "high"
	default:
		data.title = "mediaforge - Batch Complete (with errors)"
		data.message = fmt.Sprintf("%s: %d succeeded, %d failed in %s", label, result.Succeeded(), result.Failed(), elapsed)
	}
	if first := firstFailure(result); first != "" {
		data.message += "\n" + first
	}
	data.message += "\nBatch: " + result.ID
	return data
}

func firstFailure(result jobs.BatchResult) string {
	for _, item := range result.Items {
		if item.Result.Success {
			continue
		}
		msg := "unknown error"
		if item.Result.Error != nil && strings.TrimSpace(item.Result.Error.Message) != "" {
			msg = strings.TrimSpace(item.Result.Error.Message)
		}
		return fmt.Sprintf("First failure: %s: %s", item.InputPath, msg)
	}
	return ""
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchCompleted(context.Context, jobs.BatchResult, time.Duration) error {
	return nil
}
