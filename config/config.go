package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the application needs. It is built once in main
// and handed to the constructors that need it.
type Config struct {
	DatabaseURL        string
	JWTSecretKey       string
	ServerPort         int
	CORSAllowedOrigins []string
	InitialUsersConfig string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	AppName         string
	BackupInterval  time.Duration
	BackupRetention int

	TelegramBotToken string
	TelegramChatID   int64

	GoogleServiceAccountJSON  string
	GoogleSheetsSpreadsheetID string

	PaymentProvider      string
	PaymentWebhookSecret string
	StripeSecretKey      string
	PayPalReceiverEmail  string
	PayPalSandbox        bool
	PaymentReturnURL     string
	BasePublicURL        string

	PrintfulAPIKey  string
	PrintfulStoreID string
}

// BackupsEnabled reports whether the object storage for backups is configured.
func (c *Config) BackupsEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// Load reads the configuration from the environment, loading .env first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	interval, err := time.ParseDuration(getEnv("BACKUP_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_INTERVAL environment variable: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("BACKUP_INTERVAL must be positive, got %s", interval)
	}

	retention, err := strconv.Atoi(getEnv("BACKUP_RETENTION", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_RETENTION environment variable: %w", err)
	}
	if retention < 1 {
		return nil, fmt.Errorf("BACKUP_RETENTION must be at least 1, got %d", retention)
	}

	var chatID int64
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID environment variable: %w", err)
		}
	}

	provider := strings.ToLower(getEnv("PAYMENT_PROVIDER", "stub"))
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	paypalReceiver := strings.ToLower(strings.TrimSpace(os.Getenv("PAYPAL_RECEIVER_EMAIL")))
	switch provider {
	case "stub":
	case "stripe":
		if stripeKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENT_PROVIDER=stripe")
		}
	case "paypal":
		if paypalReceiver == "" {
			return nil, fmt.Errorf("PAYPAL_RECEIVER_EMAIL is required when PAYMENT_PROVIDER=paypal")
		}
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", provider)
	}

	sandbox, err := strconv.ParseBool(getEnv("PAYPAL_SANDBOX", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYPAL_SANDBOX environment variable: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InitialUsersConfig: os.Getenv("INITIAL_USERS_CONFIG"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),

		AppName:         getEnv("APP_NAME", "club"),
		BackupInterval:  interval,
		BackupRetention: retention,

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   chatID,

		GoogleServiceAccountJSON:  os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		GoogleSheetsSpreadsheetID: os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),

		PaymentProvider:      provider,
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", "change-me"),
		StripeSecretKey:      stripeKey,
		PayPalReceiverEmail:  paypalReceiver,
		PayPalSandbox:        sandbox,
		PaymentReturnURL:     os.Getenv("PAYMENT_RETURN_URL"),
		BasePublicURL:        os.Getenv("BASE_PUBLIC_URL"),

		PrintfulAPIKey:  os.Getenv("PRINTFUL_API_KEY"),
		PrintfulStoreID: getEnv("PRINTFUL_STORE_ID", "badarts"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
