package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Stripe   StripeConfig
	Blob     BlobConfig
	Email    EmailConfig
	Cron     CronConfig
	Reminder ReminderConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	// BaseURL is the public origin used to build Stripe redirect URLs.
	// Checkout creation fails with BASE_URL_MISSING when empty.
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	// ReceiptRetryDelay is the single delayed re-fetch for charges whose
	// receipt URL is not yet populated.
	ReceiptRetryDelay time.Duration
}

type BlobConfig struct {
	Endpoint string
	Token    string
	// Prefix is prepended to every uploaded object path.
	Prefix string
}

type EmailConfig struct {
	APIKey string
	From   string
}

type CronConfig struct {
	// Secret guards the reminder and invoice endpoints via x-cron-secret.
	// Empty secret leaves them open, matching the hosted cron setup.
	Secret string
}

type ReminderConfig struct {
	WindowHours int
	BatchLimit  int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("STRIPE_CURRENCY", "usd")
	viper.SetDefault("STRIPE_RECEIPT_RETRY_DELAY", "5s")
	viper.SetDefault("BLOB_PREFIX", "rent-and-go")
	viper.SetDefault("REMINDER_WINDOW_HOURS", 48)
	viper.SetDefault("REMINDER_BATCH_LIMIT", 2000)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
			BaseURL: viper.GetString("BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Stripe: StripeConfig{
			SecretKey:         viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret:     viper.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:          viper.GetString("STRIPE_CURRENCY"),
			ReceiptRetryDelay: viper.GetDuration("STRIPE_RECEIPT_RETRY_DELAY"),
		},
		Blob: BlobConfig{
			Endpoint: viper.GetString("BLOB_ENDPOINT"),
			Token:    viper.GetString("BLOB_READ_WRITE_TOKEN"),
			Prefix:   viper.GetString("BLOB_PREFIX"),
		},
		Email: EmailConfig{
			APIKey: viper.GetString("RESEND_API_KEY"),
			From:   viper.GetString("EMAIL_FROM"),
		},
		Cron: CronConfig{
			Secret: viper.GetString("CRON_SECRET"),
		},
		Reminder: ReminderConfig{
			WindowHours: viper.GetInt("REMINDER_WINDOW_HOURS"),
			BatchLimit:  viper.GetInt("REMINDER_BATCH_LIMIT"),
		},
	}

	return config, nil
}
