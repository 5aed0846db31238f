// pkg/ai/gigachat_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type gigaChat struct {
	endpoint string
	key      string
	model    string
}

func NewGigaChat(endpoint, key, model string) Client {
	return &gigaChat{endpoint: endpoint, key: key, model: model}
}

func (c *gigaChat) Complete(ctx context.Context, r Request) (string, error) {
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt(r)},
			{"role": "user", "content": userPrompt(r)},
		},
		"temperature": 0.2,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", strings.TrimRight(c.endpoint, "/")+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	httpc := &http.Client{Timeout: 25 * time.Second}

	resp, err := httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: status %s", resp.Status)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ai: decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("ai: no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("ai: empty answer")
	}
	return content, nil
}

func systemPrompt(r Request) string {
	var sb strings.Builder
	sb.WriteString("Ты — бот-консультант по образовательным проектам VK Education. ")
	if r.External {
		sb.WriteString("Вопрос выходит за рамки проектов VK Education: отвечай по общим знаниям, кратко и честно. ")
	} else {
		sb.WriteString("Используй только предоставленный контекст, чтобы ответить на вопрос. ")
		sb.WriteString("Если информации недостаточно, честно скажи об этом. ")
	}
	if r.Binary {
		sb.WriteString("Вопрос закрытый (да/нет): дай короткий, но обоснованный ответ. ")
	}
	if r.List {
		sb.WriteString("Вопрос просит перечисление: оформи ответ списком. ")
	}
	return strings.TrimSpace(sb.String())
}

func userPrompt(r Request) string {
	if r.Context == "" {
		return "Вопрос: " + r.Question
	}
	return fmt.Sprintf("Контекст:\n%s\n\nВопрос: %s", r.Context, r.Question)
}
