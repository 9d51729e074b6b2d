package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Gemini extraction.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Google Maps (distance/geocoding) and Calendar.
	GoogleAPIKey          string `mapstructure:"GOOGLE_API_KEY"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	CrewCalendarIDs       string `mapstructure:"CREW_CALENDAR_IDS"` // comma-separated "name=calendarId" pairs
	CalendarTimeoutMS     int    `mapstructure:"CALENDAR_TIMEOUT_MS"`

	// Twilio voice/SMS.
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioSMSFrom    string `mapstructure:"TWILIO_SMS_FROM"`
	TransferNumber   string `mapstructure:"TRANSFER_NUMBER"`
	WebhookBaseURL   string `mapstructure:"WEBHOOK_BASE_URL"`
	BookingLinkURL   string `mapstructure:"BOOKING_LINK_URL"`

	// SMTP email.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Stripe payment links.
	StripeKey            string `mapstructure:"STRIPE_KEY"`
	StripeDepositPriceID string `mapstructure:"STRIPE_DEPOSIT_PRICE_ID"`

	// Call-flow tuning.
	SessionTTLMinutes  int `mapstructure:"SESSION_TTL_MINUTES"`
	StageRetryBudget   int `mapstructure:"STAGE_RETRY_BUDGET"`
	ExtractRetryBudget int `mapstructure:"EXTRACT_RETRY_BUDGET"`
}

var AppConfig Config

// LoadConfig initializes viper to load config values from env, file, or defaults.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "movecall")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CALENDAR_TIMEOUT_MS", 4000)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("STAGE_RETRY_BUDGET", 2)
	viper.SetDefault("EXTRACT_RETRY_BUDGET", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
