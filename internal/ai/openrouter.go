package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrMissingAPIKey = errors.New("openrouter: api key is required")

// OpenRouterProvider talks to any OpenAI-compatible /chat/completions endpoint.
type OpenRouterProvider struct {
	BaseURL     string
	APIKey      string
	Model       string
	SiteURL     string
	AppName     string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
}

type OpenRouterOptions struct {
	BaseURL     string
	APIKey      string
	Model       string
	SiteURL     string
	AppName     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type openRouterMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterChatReq struct {
	Model       string          `json:"model"`
	Messages    []openRouterMsg `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream"`
}

type openRouterChatResp struct {
	Choices []struct {
		Message *openRouterMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenRouterProvider(opts OpenRouterOptions) *OpenRouterProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://openrouter.ai/api/v1"
	}
	if opts.Model == "" {
		opts.Model = "openai/gpt-3.5-turbo"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &OpenRouterProvider{
		BaseURL:     opts.BaseURL,
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		SiteURL:     opts.SiteURL,
		AppName:     opts.AppName,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Client:      &http.Client{Timeout: opts.Timeout},
	}
}

func (p *OpenRouterProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.Client == nil {
		return "", errors.New("openrouter: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", ErrMissingAPIKey
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return "", errors.New("openrouter: model is required")
	}

	reqBody := openRouterChatReq{
		Model:       model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Messages:    make([]openRouterMsg, 0, len(messages)),
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, openRouterMsg{Role: m.Role, Content: m.Content})
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	if p.SiteURL != "" {
		req.Header.Set("HTTP-Referer", p.SiteURL)
	}
	if p.AppName != "" {
		req.Header.Set("X-Title", p.AppName)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			return "", fmt.Errorf("openrouter: status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("openrouter: status %d: %s", resp.StatusCode, msg)
	}

	var decoded openRouterChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("openrouter: decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", fmt.Errorf("openrouter: %s", decoded.Error.Message)
	}
	// a missing choice or message is an empty answer, not a failure
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message == nil {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}
