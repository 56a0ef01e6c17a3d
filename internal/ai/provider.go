package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/fitcoach-backend/internal/config"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
)

// ErrAllProvidersFailed возвращается, когда ни один провайдер из цепочки
// не дал ответа.
var ErrAllProvidersFailed = errors.New("all ai providers failed")

// Message сообщение диалога с ролью.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest запрос на генерацию текста.
type CompletionRequest struct {
	Messages    []Message // Сообщения диалога
	Temperature float64   // Температура сэмплирования
	MaxTokens   int       // Ограничение длины ответа
	JSONMode    bool      // Требовать строго JSON-ответ
}

// Completer описывает мост к LLM. Реализация перебирает провайдеров
// по приоритету до первого успешного ответа.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Client клиент OpenAI-совместимых chat-completions API с цепочкой
// взаимозаменяемых провайдеров.
type Client struct {
	providers  []config.AIProvider
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient создаёт клиент с перечнем провайдеров в порядке приоритета.
func NewClient(providers []config.AIProvider, log *slog.Logger) *Client {
	return &Client{
		providers:  providers,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete перебирает провайдеров по приоритету и возвращает текст ответа
// первого успевшего. Ошибка провайдера логируется с кодом статуса и
// усечённым телом, после чего вызывается следующий в цепочке.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	const op = "ai.Complete"

	for _, provider := range c.providers {
		text, err := c.completeWith(ctx, provider, req)
		if err != nil {
			c.log.Warn("ai provider failed, trying next",
				slog.String("provider", provider.Name), sl.Err(err))
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("%s: %w", op, ErrAllProvidersFailed)
}

func (c *Client) completeWith(ctx context.Context, provider config.AIProvider, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = provider.MaxTokens
	}

	body := chatRequest{
		Model:       provider.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(provider.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+provider.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
