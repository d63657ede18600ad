// Package imagegen 提供图像生成提供商适配器
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/config"
	apperrors "z-logo-ai-api/pkg/errors"
	"z-logo-ai-api/pkg/logger"
	"z-logo-ai-api/pkg/metrics"
)

const (
	generatePath = "/v1/flux-kontext-pro"

	statusReady            = "Ready"
	statusPending          = "Pending"
	statusContentModerated = "Content Moderated"
	statusRequestModerated = "Request Moderated"
	statusError            = "Error"
	statusTaskNotFound     = "Task not found"
)

// Client 异步图像生成 API 客户端：提交任务后轮询至终态。
// 提交失败按配置做有界退避重试，轮询超限视为提供商失败。
type Client struct {
	httpClient *http.Client
	cfg        config.ImageGenConfig
}

// NewClient 创建图像生成客户端
func NewClient(cfg config.ImageGenConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
	}
}

// submitRequest 任务提交请求体
type submitRequest struct {
	Prompt       string  `json:"prompt"`
	InputImage   string  `json:"input_image,omitempty"`
	AspectRatio  string  `json:"aspect_ratio,omitempty"`
	OutputFormat string  `json:"output_format,omitempty"`
	Steps        int     `json:"steps,omitempty"`
	Guidance     float64 `json:"guidance,omitempty"`
	// Strength 仅编辑调用使用
	Strength float64 `json:"strength,omitempty"`
}

// submitResponse 任务提交响应
type submitResponse struct {
	ID         string `json:"id"`
	PollingURL string `json:"polling_url"`
}

// pollResponse 任务状态响应
type pollResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result struct {
		Sample string `json:"sample"`
	} `json:"result"`
	Details json.RawMessage `json:"details,omitempty"`
}

// GenerateImage 提交一次文生图任务并等待结果
func (c *Client) GenerateImage(ctx context.Context, params workflow.GenerateParams) (*workflow.ProviderResult, error) {
	return c.run(ctx, "generate", submitRequest{
		Prompt:       params.Prompt,
		AspectRatio:  params.AspectRatio,
		OutputFormat: params.OutputFormat,
		Steps:        params.Steps,
		Guidance:     params.Guidance,
	})
}

// EditImage 提交一次图生图编辑任务并等待结果
func (c *Client) EditImage(ctx context.Context, inputImageData string, params workflow.EditParams) (*workflow.ProviderResult, error) {
	if inputImageData == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "input image data is required for edit")
	}
	return c.run(ctx, "edit", submitRequest{
		Prompt:       params.Prompt,
		InputImage:   inputImageData,
		AspectRatio:  params.AspectRatio,
		OutputFormat: params.OutputFormat,
		Strength:     params.Strength,
	})
}

// run 完整一次调用：带退避重试的提交 + 轮询至终态
func (c *Client) run(ctx context.Context, operation string, req submitRequest) (*workflow.ProviderResult, error) {
	start := time.Now()

	result, err := c.runOnce(ctx, req)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ProviderCallTotal.WithLabelValues(operation, status).Inc()
	metrics.ProviderCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) runOnce(ctx context.Context, req submitRequest) (*workflow.ProviderResult, error) {
	submitted, err := c.submitWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.poll(ctx, submitted)
}

// submitWithRetry 提交任务，失败按 base * 2^attempt 退避重试
func (c *Client) submitWithRetry(ctx context.Context, req submitRequest) (*submitResponse, error) {
	maxRetries := c.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoffBase := c.cfg.RetryBackoffBase
	if backoffBase <= 0 {
		backoffBase = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffBase * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			logger.Warn(ctx, "retrying image task submission", "attempt", attempt, "backoff", backoff.String())
		}

		resp, err := c.submit(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, apperrors.Wrap(lastErr, apperrors.CodeProviderError, "image task submission failed")
}

// submit 提交一次任务
func (c *Client) submit(ctx context.Context, req submitRequest) (*submitResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("provider returned empty task id")
	}
	return &result, nil
}

// poll 轮询任务状态直到终态或超出轮询上限
func (c *Client) poll(ctx context.Context, submitted *submitResponse) (*workflow.ProviderResult, error) {
	interval := c.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	maxAttempts := c.cfg.MaxPollAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	pollURL := submitted.PollingURL
	if pollURL == "" {
		pollURL = fmt.Sprintf("%s/v1/get_result?id=%s", c.cfg.BaseURL, submitted.ID)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		status, err := c.checkStatus(ctx, pollURL)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeProviderError, "image task status check failed")
		}

		switch status.Status {
		case statusReady:
			if status.Result.Sample == "" {
				return nil, apperrors.New(apperrors.CodeProviderError, "provider returned ready task without sample")
			}
			return &workflow.ProviderResult{
				ImageURL:  status.Result.Sample,
				RequestID: submitted.ID,
			}, nil
		case statusPending:
			continue
		case statusContentModerated, statusRequestModerated:
			return nil, apperrors.New(apperrors.CodeProviderError, "image task rejected by provider moderation").WithDetail(status.Status)
		case statusError, statusTaskNotFound:
			return nil, apperrors.New(apperrors.CodeProviderError, "image task failed").WithDetail(string(status.Details))
		default:
			continue
		}
	}
	return nil, apperrors.New(apperrors.CodeProviderError, "image task polling exceeded max attempts").WithDetail(submitted.ID)
}

// checkStatus 查询一次任务状态
func (c *Client) checkStatus(ctx context.Context, pollURL string) (*pollResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &result, nil
}
