// Package mail — тонкий клиент почтового провайдера (Resend-совместимый API).
// С точки зрения вызывающего это fire-and-forget: отправили, получили
// opaque message id, дальше за доставку отвечает провайдер.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Client отправляет письма через HTTP API провайдера.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

// NewClient создаёт почтовый клиент.
//
// Параметры:
//   - baseURL: адрес API (https://api.resend.com)
//   - apiKey: ключ провайдера
//   - from: адрес отправителя для всех писем
func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		from:       from,
	}
}

// sendRequest — тело запроса POST /emails.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// sendResponse — ответ провайдера: opaque id письма.
type sendResponse struct {
	ID string `json:"id"`
}

// Send отправляет письмо и возвращает message id провайдера.
// Повторов нет — при ошибке вызывающий сам решает, что делать
// (обычно просто логирует).
func (c *Client) Send(ctx context.Context, to, subject, html string) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации письма: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// Ключ идемпотентности: при сетевом повторе провайдер не отправит письмо дважды
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("почтовый провайдер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("почтовый провайдер вернул %d: %s", resp.StatusCode, string(body))
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("ошибка разбора ответа провайдера: %w", err)
	}

	log.WithFields(log.Fields{
		"to":         to,
		"message_id": result.ID,
	}).Debug("Письмо принято провайдером")

	return result.ID, nil
}
