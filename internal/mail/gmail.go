package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

// GmailSender delivers messages through the Gmail API. The token is loaded
// from the store on every send so a token written by `authorize` while the
// bot runs is picked up.
type GmailSender struct {
	oauth    *oauth2.Config
	store    *TokenStore
	endpoint string
}

func NewGmailSender(oauth *oauth2.Config, store *TokenStore) *GmailSender {
	return &GmailSender{
		oauth:    oauth,
		store:    store,
		endpoint: gmailSendURL,
	}
}

type gmailMessage struct {
	ID       string `json:"id,omitempty"`
	ThreadID string `json:"threadId,omitempty"`
	Raw      string `json:"raw,omitempty"`
}

func (s *GmailSender) Send(ctx context.Context, msg []byte) (string, error) {
	ts, err := s.store.TokenSource(ctx, s.oauth)
	if err != nil {
		return "", err
	}
	client := oauth2.NewClient(ctx, ts)

	jsonData, err := json.Marshal(gmailMessage{Raw: EncodeRaw(msg)})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gmail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gmail API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var sent gmailMessage
	if err := json.Unmarshal(bodyBytes, &sent); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if sent.ID == "" {
		return "", fmt.Errorf("gmail API returned no message id")
	}
	return sent.ID, nil
}
