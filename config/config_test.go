package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/club?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"SERVER_PORT", "BACKUP_INTERVAL", "BACKUP_RETENTION", "PAYMENT_PROVIDER", "APP_NAME", "CORS_ALLOWED_ORIGINS", "TELEGRAM_CHAT_ID", "R2_ACCOUNT_ID"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.BackupInterval != 24*time.Hour {
		t.Errorf("BackupInterval = %s, want 24h", cfg.BackupInterval)
	}
	if cfg.BackupRetention != 10 {
		t.Errorf("BackupRetention = %d, want 10", cfg.BackupRetention)
	}
	if cfg.PaymentProvider != "stub" {
		t.Errorf("PaymentProvider = %q, want stub", cfg.PaymentProvider)
	}
	if cfg.AppName != "club" {
		t.Errorf("AppName = %q, want club", cfg.AppName)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.BackupsEnabled() {
		t.Error("backups should be disabled without R2 settings")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"missing jwt", map[string]string{"JWT_SECRET_KEY": ""}},
		{"bad port", map[string]string{"SERVER_PORT": "abc"}},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
		{"bad interval", map[string]string{"BACKUP_INTERVAL": "daily"}},
		{"zero retention", map[string]string{"BACKUP_RETENTION": "0"}},
		{"bad chat id", map[string]string{"TELEGRAM_CHAT_ID": "chat"}},
		{"unknown provider", map[string]string{"PAYMENT_PROVIDER": "mollie"}},
		{"paypal without receiver", map[string]string{"PAYMENT_PROVIDER": "paypal", "PAYPAL_RECEIVER_EMAIL": ""}},
		{"bad sandbox flag", map[string]string{"PAYPAL_SANDBOX": "maybe"}},
		{"stripe without key", map[string]string{"PAYMENT_PROVIDER": "stripe", "STRIPE_SECRET_KEY": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadParsesLists(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.TelegramChatID != -100123 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}
}

func TestLoadPayPal(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYMENT_PROVIDER", "PayPal")
	t.Setenv("PAYPAL_RECEIVER_EMAIL", " Club@Example.org ")
	t.Setenv("PAYPAL_SANDBOX", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PaymentProvider != "paypal" || cfg.PayPalReceiverEmail != "club@example.org" || !cfg.PayPalSandbox {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadPrintful(t *testing.T) {
	setRequired(t)
	t.Setenv("PRINTFUL_API_KEY", "pf-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PrintfulAPIKey != "pf-key" || cfg.PrintfulStoreID != "badarts" {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("PRINTFUL_STORE_ID", "42")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PrintfulStoreID != "42" {
		t.Errorf("store id = %q", cfg.PrintfulStoreID)
	}
}
