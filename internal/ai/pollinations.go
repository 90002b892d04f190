package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"amiquin/pkg/retrylimit"
)

type PollinationsProvider struct {
	client  *http.Client
	limiter *retrylimit.AdaptiveLimiter
}

func NewPollinationsProvider() *PollinationsProvider {
	return &PollinationsProvider{
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
		// 2 rps nominal, backs off to 1 on 429/5xx, recovers up to 5.
		limiter: retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5),
	}
}

type httpStatusError struct {
	code int
	body string
}

func (e *httpStatusError) Error() string   { return fmt.Sprintf("pollinations http %d: %s", e.code, e.body) }
func (e *httpStatusError) StatusCode() int { return e.code }

func (p *PollinationsProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	var reply string
	err := retrylimit.WithRetryMax(ctx, func() error {
		r, err := p.generateOnce(ctx, messages)
		if err != nil {
			return err
		}
		reply = r
		return nil
	}, p.limiter, 3)
	return reply, err
}

func (p *PollinationsProvider) generateOnce(ctx context.Context, messages []Message) (string, error) {
	payload := map[string]interface{}{
		"model":       "openai",
		"messages":    messages,
		"temperature": 1,
		"private":     true,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		"https://text.pollinations.ai/openai",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httpStatusError{code: resp.StatusCode, body: truncate(body)}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return "", fmt.Errorf("pollinations returned html")
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("pollinations empty choices")
	}

	reply := CleanReply(parsed.Choices[0].Message.Content)
	if isGarbageResponse(reply) {
		return "", fmt.Errorf("pollinations returned garbage")
	}

	return reply, nil
}
