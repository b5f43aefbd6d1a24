package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNotification_Validate(t *testing.T) {
	tests := []struct {
		name          string
		notification  Notification
		expectError   bool
		errorContains string
	}{
		{
			name: "valid notification",
			notification: Notification{
				Level:           LevelWarning,
				AssetIdentifier: "ACT-0007",
				Message:         "Test message",
			},
			expectError: false,
		},
		{
			name: "missing level",
			notification: Notification{
				AssetIdentifier: "ACT-0007",
				Message:         "Test message",
			},
			expectError:   true,
			errorContains: "level is required",
		},
		{
			name: "missing message",
			notification: Notification{
				Level:           LevelWarning,
				AssetIdentifier: "ACT-0007",
			},
			expectError:   true,
			errorContains: "message is required",
		},
		{
			name: "message too long",
			notification: Notification{
				Level:   LevelWarning,
				Message: strings.Repeat("a", 1001),
			},
			expectError:   true,
			errorContains: "message too long",
		},
		{
			name: "invalid level",
			notification: Notification{
				Level:   "invalid",
				Message: "Test message",
			},
			expectError:   true,
			errorContains: "invalid notification level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.notification.Validate()
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %v", tt.errorContains, err)
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}

func TestNotificationClient_SendNotification_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var notification Notification
		if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		if notification.Level != LevelWarning {
			t.Errorf("Expected level warning, got %s", notification.Level)
		}
		if notification.AssetIdentifier != "ACT-0007" {
			t.Errorf("Expected asset ACT-0007, got %s", notification.AssetIdentifier)
		}
		if notification.Source != "asset-inventory-api" {
			t.Errorf("Expected source 'asset-inventory-api', got %s", notification.Source)
		}
		if notification.Timestamp.IsZero() {
			t.Error("Expected timestamp to be filled in")
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewNotifier(server.URL)
	err := client.SendNotification(Notification{
		Level:           LevelWarning,
		AssetIdentifier: "ACT-0007",
		TicketID:        1,
		Message:         "Nuevo reporte de falla en ACT-0007",
	})
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestNotificationClient_SendNotification_ValidationError(t *testing.T) {
	client := NewNotifier("http://localhost:1")

	err := client.SendNotification(Notification{Level: LevelWarning})
	if err == nil {
		t.Error("Expected validation error but got none")
	}
	if !strings.Contains(err.Error(), "invalid notification") {
		t.Errorf("Expected validation error, got: %v", err)
	}
}

func TestNotificationClient_Retry_ServerError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewNotifierWithConfig(Config{
		URL:            server.URL,
		Timeout:        time.Second,
		RetryAttempts:  3,
		RetryDelay:     10 * time.Millisecond,
		MaxPayloadSize: 1024 * 1024,
	})

	err := client.SendNotification(Notification{Level: LevelWarning, Message: "Test message"})
	if err != nil {
		t.Errorf("Expected retries to succeed, got: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestNotificationClient_NoRetryOnClientError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewNotifierWithConfig(Config{
		URL:            server.URL,
		Timeout:        time.Second,
		RetryAttempts:  3,
		RetryDelay:     10 * time.Millisecond,
		MaxPayloadSize: 1024 * 1024,
	})

	err := client.SendNotification(Notification{Level: LevelWarning, Message: "Test message"})
	if err == nil {
		t.Error("Expected error for client-side status but got none")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Expected a single attempt, got %d", got)
	}
}

func TestNotificationClient_SendNotificationWithContext_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewNotifier(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.SendNotificationWithContext(ctx, Notification{Level: LevelWarning, Message: "Test message"})
	if err == nil {
		t.Error("Expected timeout error but got none")
	}
}

func TestNotificationClient_PayloadSizeLimit(t *testing.T) {
	client := NewNotifierWithConfig(Config{
		URL:            "http://localhost:1",
		Timeout:        time.Second,
		RetryAttempts:  0,
		RetryDelay:     time.Millisecond,
		MaxPayloadSize: 64,
	})

	err := client.SendNotification(Notification{
		Level:   LevelWarning,
		Message: strings.Repeat("a", 500),
	})
	if err == nil {
		t.Error("Expected payload size error but got none")
	}
	if !strings.Contains(err.Error(), "payload too large") {
		t.Errorf("Expected payload size error, got: %v", err)
	}
}

func TestNotificationClient_IsHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewNotifier(server.URL)
	if !client.IsHealthy(context.Background()) {
		t.Error("Expected healthy endpoint")
	}

	server.Close()
	if client.IsHealthy(context.Background()) {
		t.Error("Expected unhealthy after server shutdown")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("http://example.com/hook")
	if cfg.URL != "http://example.com/hook" {
		t.Errorf("Unexpected URL: %s", cfg.URL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.Timeout)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("Unexpected retry attempts: %d", cfg.RetryAttempts)
	}
}

func TestNoopNotifier(t *testing.T) {
	notifier := NewNoopNotifier()
	if err := notifier.SendNotification(Notification{}); err != nil {
		t.Errorf("Expected noop to accept everything, got: %v", err)
	}
	if !notifier.IsHealthy(context.Background()) {
		t.Error("Expected noop notifier to report healthy")
	}
}
