package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ExpoClient struct {
	url  string
	http *http.Client
}

func NewExpoClient(url string) *ExpoClient {
	return &ExpoClient{url: url, http: &http.Client{Timeout: 10 * time.Second}}
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Send posts a single message to the Expo push API.
func (e *ExpoClient) Send(ctx context.Context, to, title, body string, data map[string]string) error {
	b, _ := json.Marshal(expoMessage{To: to, Sound: "default", Title: title, Body: body, Data: data})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(msg) > 0 {
			return fmt.Errorf("expo push failed: status=%d body=%s", resp.StatusCode, msg)
		}
		return fmt.Errorf("expo push failed: status=%d", resp.StatusCode)
	}
	return nil
}
