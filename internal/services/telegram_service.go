package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/topupadmin/internal/models"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Notifier posts operator-facing alerts.
type Notifier interface {
	NotifyBulkOverride(ctx context.Context, n BulkNotification) error
	NotifyManualRetry(ctx context.Context, n RetryNotification) error
	NotifyFinalAttempt(ctx context.Context, row QueueRow) error
}

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
	apiBase     string
	httpClient  *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		apiBase:     defaultTelegramAPI,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithAPIBase points the service at a different Bot API host. Empty keeps the default.
func (s *TelegramService) WithAPIBase(base string) *TelegramService {
	if base != "" {
		s.apiBase = base
	}
	return s
}

// Enabled reports whether both the bot token and admin chat are configured.
func (s *TelegramService) Enabled() bool {
	return s != nil && s.botToken != "" && s.adminChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		log.Ctx(ctx).Debug().Msg("telegram bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(s.apiBase, "/"), s.botToken)

	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if s.adminChatID == "" {
		log.Ctx(ctx).Debug().Msg("telegram admin chat not configured")
		return nil
	}
	return s.SendMessage(ctx, s.adminChatID, text)
}

// BulkNotification describes a completed bulk override.
type BulkNotification struct {
	Actor   string
	Status  models.TransactionStatus
	IDs     []string
	Updated int
}

// RetryNotification describes a manual delivery retry.
type RetryNotification struct {
	Actor         string
	TransactionID string
}

// NotifyBulkOverride tells the admin chat that a set of transactions was overridden.
func (s *TelegramService) NotifyBulkOverride(ctx context.Context, n BulkNotification) error {
	ids := n.IDs
	more := ""
	if len(ids) > 10 {
		more = fmt.Sprintf("\n… and %d more", len(ids)-10)
		ids = ids[:10]
	}

	message := fmt.Sprintf(`<b>Bulk status override</b>
<b>Operator:</b> %s
<b>Status:</b> %s
<b>Updated:</b> %d of %d
<b>Transactions:</b> %s%s`,
		html.EscapeString(n.Actor),
		html.EscapeString(string(n.Status)),
		n.Updated,
		len(n.IDs),
		html.EscapeString(strings.Join(ids, ", ")),
		more,
	)

	return s.SendToAdmin(ctx, message)
}

// NotifyManualRetry tells the admin chat that an operator re-triggered a delivery.
func (s *TelegramService) NotifyManualRetry(ctx context.Context, n RetryNotification) error {
	message := fmt.Sprintf(`<b>Manual delivery retry</b>
<b>Operator:</b> %s
<b>Transaction:</b> %s`,
		html.EscapeString(n.Actor),
		html.EscapeString(n.TransactionID),
	)

	return s.SendToAdmin(ctx, message)
}

// NotifyFinalAttempt warns that a pending top-up is about to use its last try.
func (s *TelegramService) NotifyFinalAttempt(ctx context.Context, row QueueRow) error {
	nextRun := "now"
	if row.NextRunAt != nil {
		nextRun = row.NextRunAt.UTC().Format(time.RFC3339)
	}

	lastError := row.LastError
	if lastError == "" {
		lastError = "-"
	}

	message := fmt.Sprintf(`<b>Top-up on final attempt</b>
<b>Job:</b> %s
<b>Order:</b> %s / item %s
<b>Attempt:</b> %s
<b>Next run:</b> %s
<b>Last error:</b> %s`,
		html.EscapeString(row.JobID),
		html.EscapeString(row.OrderID),
		html.EscapeString(row.OrderItemID),
		row.Attempt,
		nextRun,
		html.EscapeString(lastError),
	)

	return s.SendToAdmin(ctx, message)
}
