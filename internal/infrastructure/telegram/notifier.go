package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"RecordsScanner/internal/ports"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// maxMessageLen is the Bot API limit for one sendMessage text.
const maxMessageLen = 4096

// Notifier sends arrest alerts to a Telegram chat via bot API.
type Notifier struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		baseURL:  DefaultBaseURL,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithBaseURL points the notifier at another Bot API host.
func (n *Notifier) WithBaseURL(base string) *Notifier {
	if base != "" {
		n.baseURL = strings.TrimRight(base, "/")
	}
	return n
}

// Configured reports whether both token and chat id are set.
func (n *Notifier) Configured() bool {
	return n.botToken != "" && n.chatID != ""
}

// PublishAlert posts a Markdown message to Telegram, split into several
// messages when it exceeds the Bot API length limit.
func (n *Notifier) PublishAlert(ctx context.Context, message string) error {
	if !n.Configured() || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	for idx, part := range splitMessage(message, maxMessageLen) {
		if err := n.send(ctx, part); err != nil {
			return fmt.Errorf("part %d: %w", idx+1, err)
		}
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s%s", resp.Status, describeFailure(resp.Body))
	}

	return nil
}

// describeFailure extracts the Bot API "description" field, if any.
func describeFailure(body io.Reader) string {
	var payload struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&payload); err != nil || payload.Description == "" {
		return ""
	}
	return ": " + payload.Description
}

// splitMessage cuts text into chunks of at most limit bytes, preferring
// blank-line boundaries so one alert is not split across messages. An
// alert longer than limit is cut at a line end or rune boundary.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, block := range strings.Split(text, "\n\n") {
		for len(block) > limit {
			flush()
			cut := cutPoint(block, limit)
			parts = append(parts, strings.TrimRight(block[:cut], "\n"))
			block = strings.TrimLeft(block[cut:], "\n")
		}
		if current.Len() > 0 && current.Len()+2+len(block) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(block)
	}
	flush()
	return parts
}

// cutPoint picks where to cut an oversized block: just after the last
// newline within limit, otherwise the last rune boundary within limit.
func cutPoint(block string, limit int) int {
	if nl := strings.LastIndexByte(block[:limit], '\n'); nl > 0 {
		return nl + 1
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(block[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}
