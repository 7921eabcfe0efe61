// Package push delivers notifications through the FCM legacy HTTP API.
package push

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

	"dispatch/internal/core/ports"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// fcmPayload is the legacy FCM downstream message format.
type fcmPayload struct {
	To               string            `json:"to"`
	Notification     fcmNotification   `json:"notification"`
	Data             map[string]string `json:"data,omitempty"`
	Priority         string            `json:"priority"`
	ContentAvailable bool              `json:"content_available"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
	Badge string `json:"badge"`
}

// fcmResponse is the subset of the legacy response the adapter inspects.
// A 200 response can still carry a per-message error (e.g. NotRegistered).
type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// FCMSender implements PushSender using the FCM legacy HTTP API. It makes
// exactly one attempt per message; retry policy belongs to callers, and the
// notification log permits none.
type FCMSender struct {
	session   *http.Client
	endpoint  string
	serverKey string
}

// NewFCMSender creates a sender for the given server key. endpoint may be
// empty to use the production FCM endpoint.
func NewFCMSender(serverKey, endpoint string, timeout time.Duration) (*FCMSender, error) {
	if serverKey == "" {
		return nil, errors.New("FCM server key is empty")
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &FCMSender{
		session:   &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		serverKey: serverKey,
	}, nil
}

// Send delivers one message and returns the provider message id.
func (s *FCMSender) Send(ctx context.Context, msg ports.PushMessage) (string, error) {
	if msg.Token == "" {
		return "", errors.New("push message token is empty")
	}

	priority := "normal"
	if msg.HighPriority {
		priority = "high"
	}

	payload := fcmPayload{
		To: msg.Token,
		Notification: fcmNotification{
			Title: msg.Title,
			Body:  msg.Body,
			Sound: "default",
			Badge: "1",
		},
		Data:             msg.Data,
		Priority:         priority,
		ContentAvailable: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal FCM payload: %w", err)
	}

	req, err := s.newRequest(ctx, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	resp, err := s.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read FCM response: %w", err)
	}

	var parsed fcmResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode FCM response: %w", err)
	}

	if parsed.Failure > 0 || parsed.Success == 0 {
		reason := "unknown"
		if len(parsed.Results) > 0 && parsed.Results[0].Error != "" {
			reason = parsed.Results[0].Error
		}
		return "", fmt.Errorf("FCM rejected message: %s", reason)
	}

	if len(parsed.Results) > 0 && parsed.Results[0].MessageID != "" {
		return parsed.Results[0].MessageID, nil
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FCMSender) newRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "key="+s.serverKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (s *FCMSender) do(req *http.Request) (*http.Response, error) {
	resp, err := s.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
