package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// NotificationLevel represents the severity level of a notification
type NotificationLevel string

const (
	LevelInfo     NotificationLevel = "info"
	LevelWarning  NotificationLevel = "warning"
	LevelError    NotificationLevel = "error"
	LevelCritical NotificationLevel = "critical"
)

// Notifier is an interface for sending notifications with context support
type Notifier interface {
	SendNotification(notification Notification) error
	SendNotificationWithContext(ctx context.Context, notification Notification) error
	IsHealthy(ctx context.Context) bool
}

// Config holds configuration for the notification client
type Config struct {
	URL            string
	Timeout        time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	MaxPayloadSize int64
}

// DefaultConfig returns a default configuration for the notification client
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		Timeout:        10 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Second,
		MaxPayloadSize: 1024 * 1024, // 1MB
	}
}

// Notification is the payload delivered to the alert webhook. The register
// raises them for fault tickets and other asset lifecycle events; delivery
// (mail, chat, pager) is the receiving service's concern.
type Notification struct {
	Level           NotificationLevel `json:"level"`
	AssetIdentifier string            `json:"assetIdentifier,omitempty"`
	TicketID        int64             `json:"ticketId,omitempty"`
	Message         string            `json:"message"`
	Timestamp       time.Time         `json:"timestamp,omitempty"`
	Source          string            `json:"source,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the notification is valid
func (n *Notification) Validate() error {
	if n.Level == "" {
		return fmt.Errorf("notification level is required")
	}
	if n.Message == "" {
		return fmt.Errorf("notification message is required")
	}
	if len(n.Message) > 1000 {
		return fmt.Errorf("notification message too long (max 1000 characters)")
	}

	switch n.Level {
	case LevelInfo, LevelWarning, LevelError, LevelCritical:
		return nil
	}
	return fmt.Errorf("invalid notification level: %s", n.Level)
}

// notificationClient is the concrete implementation of the Notifier interface
type notificationClient struct {
	config Config
	client *http.Client
	logger *log.Logger
}

// NewNotifier creates a new Notifier with default configuration
func NewNotifier(url string) Notifier {
	return NewNotifierWithConfig(DefaultConfig(url))
}

// NewNotifierWithConfig creates a new Notifier with custom configuration
func NewNotifierWithConfig(config Config) Notifier {
	return &notificationClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.Default(),
	}
}

// SetLogger sets a custom logger for the notification client
func (c *notificationClient) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SendNotification sends a notification using a background context
func (c *notificationClient) SendNotification(notification Notification) error {
	return c.SendNotificationWithContext(context.Background(), notification)
}

// SendNotificationWithContext posts the notification to the configured
// webhook, retrying transient failures with a fixed delay.
func (c *notificationClient) SendNotificationWithContext(ctx context.Context, notification Notification) error {
	if err := notification.Validate(); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}

	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}
	if notification.Source == "" {
		notification.Source = "asset-inventory-api"
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if int64(len(payload)) > c.config.MaxPayloadSize {
		return fmt.Errorf("notification payload too large: %d bytes", len(payload))
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
			c.logger.Printf("Retrying notification delivery (attempt %d/%d)", attempt, c.config.RetryAttempts)
		}

		lastErr = c.post(ctx, payload)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			break
		}
	}

	return fmt.Errorf("failed to deliver notification after %d attempts: %w", c.config.RetryAttempts+1, lastErr)
}

func (c *notificationClient) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("notification service returned status %d", resp.StatusCode)
}

// isRetryable treats network errors and server-side statuses as transient.
func isRetryable(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "request failed") {
		return true
	}
	for _, status := range []string{"500", "502", "503", "504", "429"} {
		if strings.Contains(msg, "returned status "+status) {
			return true
		}
	}
	return false
}

// IsHealthy checks whether the notification endpoint responds at all.
func (c *notificationClient) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.config.URL, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

// noopNotifier is used when no webhook is configured.
type noopNotifier struct{}

// NewNoopNotifier returns a Notifier that accepts and discards everything.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) SendNotification(Notification) error { return nil }
func (noopNotifier) SendNotificationWithContext(context.Context, Notification) error {
	return nil
}
func (noopNotifier) IsHealthy(context.Context) bool { return true }
