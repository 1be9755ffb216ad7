// Package clients содержит типизированные HTTP-клиенты downstream-сервисов.
// Все клиенты работают одинаково: ограниченный таймаут, запрос с контекстом,
// разбор статуса ответа, sentinel-ошибки для отсутствующих ресурсов.
// Ретраев нет: провал запроса — провал шага саги.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// defaultTimeout ограничивает обычные вызовы downstream-сервисов.
	defaultTimeout = 10 * time.Second
	// paymentTimeout выше обычного: банковский перевод в шлюзе медленный.
	paymentTimeout = 35 * time.Second
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// doJSON выполняет запрос с JSON-телом (или без) и декодирует ответ в out,
// если статус совпал с wantStatus. Неизвестные поля ответа игнорируются.
func doJSON(ctx context.Context, client *http.Client, method, rawURL string, body interface{}, out interface{}, wantStatus int) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return 0, err
	}

	if resp.StatusCode == wantStatus && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func joinPath(baseURL string, parts ...string) (string, error) {
	return url.JoinPath(baseURL, parts...)
}
