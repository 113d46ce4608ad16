package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/nexus/domain"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel    = "gemini-2.5-flash"
)

// Prompt is the fixed instruction sent ahead of the task digest.
const Prompt = `Analyze the following project tasks and provide a concise executive summary (max 150 words).
Identify bottlenecks, risk areas based on priority/due dates, and overall progress.
Format the response as raw text, no markdown.

Tasks:
`

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// Client calls the generateContent endpoint once per request. There is no retry.
type Client struct {
	cfg    Config
	client *fasthttp.Client
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:         "nexus",
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Summarize returns domain.ErrUnconfigured without a key and wraps every transport or API
// failure in domain.ErrUpstreamFailure.
func (c *Client) Summarize(ctx context.Context, tasks []domain.TaskDigest) (string, error) {
	if !c.Configured() {
		return "", domain.ErrUnconfigured
	}
	if tasks == nil {
		tasks = []domain.TaskDigest{}
	}

	digest, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task digest: %w", err)
	}
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt + string(digest)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url())
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	req.SetBody(body)

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return "", domain.WrapError(domain.ErrCodeUnavailable, domain.ErrUpstreamFailure.Message, err)
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return "", domain.WrapError(domain.ErrCodeUnavailable, domain.ErrUpstreamFailure.Message, err)
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		var apiErr apiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			err = fmt.Errorf("gemini API error (%d): %s", status, apiErr.Error.Message)
		} else {
			err = fmt.Errorf("gemini API error (%d): %s", status, string(resp.Body()))
		}
		return "", domain.WrapError(domain.ErrCodeUnavailable, domain.ErrUpstreamFailure.Message, err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", domain.WrapError(domain.ErrCodeUnavailable, domain.ErrUpstreamFailure.Message,
			fmt.Errorf("failed to decode response: %w", err))
	}
	return parsed.text(), nil
}

func (c *Client) url() string {
	return fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model)
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// IsUnconfigured reports whether err came from a missing API key.
func IsUnconfigured(err error) bool {
	return errors.Is(err, domain.ErrUnconfigured)
}
