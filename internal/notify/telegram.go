package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TelegramNotifier sends messages through the Telegram Bot API. User IDs
// double as chat IDs, which holds for private bot chats.
type TelegramNotifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewTelegramNotifier creates a notifier for the given bot token.
func NewTelegramNotifier(token string, httpClient *http.Client) *TelegramNotifier {
	return newTelegramNotifier("https://api.telegram.org/bot"+token, httpClient)
}

func newTelegramNotifier(baseURL string, httpClient *http.Client) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Send delivers a text message to the user's chat.
func (n *TelegramNotifier) Send(ctx context.Context, userID int64, text string) error {
	body := struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}{ChatID: userID, Text: text}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/sendMessage", strings.NewReader(string(jsonBody)))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sending message: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("sending message: telegram reported failure")
	}

	return nil
}
