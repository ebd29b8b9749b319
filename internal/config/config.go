package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Timezone string `mapstructure:"TIMEZONE"`

	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath   string        `mapstructure:"DATABASE_PATH"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogFile   string `mapstructure:"LOG_FILE"`

	OAuthClientID     string   `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string   `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL  string   `mapstructure:"OAUTH_REDIRECT_URL"`
	OAuthAuthURL      string   `mapstructure:"OAUTH_AUTH_URL"`
	OAuthTokenURL     string   `mapstructure:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL  string   `mapstructure:"OAUTH_USERINFO_URL"`
	OAuthScopes       []string `mapstructure:"OAUTH_SCOPES"`
	AdminEmails       []string `mapstructure:"ADMIN_EMAILS"`
	JWTSecret         string   `mapstructure:"JWT_SECRET"`
	FrontendURL       string   `mapstructure:"FRONTEND_URL"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	TelegramBotToken              string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID                int64  `mapstructure:"TELEGRAM_CHAT_ID"`
	SMTPHost                      string `mapstructure:"SMTP_HOST"`
	SMTPPort                      int    `mapstructure:"SMTP_PORT"`
	SMTPUser                      string `mapstructure:"SMTP_USER"`
	SMTPPassword                  string `mapstructure:"SMTP_PASSWORD"`
	MailFrom                      string `mapstructure:"MAIL_FROM"`
	AMQPURL                       string `mapstructure:"AMQP_URL"`
	AMQPExchange                  string `mapstructure:"AMQP_EXCHANGE"`

	BankID            string `mapstructure:"BANK_ID"`
	BankAccount       string `mapstructure:"BANK_ACCOUNT"`
	BankAccountName   string `mapstructure:"BANK_ACCOUNT_NAME"`
	QRTemplate        string `mapstructure:"QR_TEMPLATE"`
	PaymentMemoSuffix string `mapstructure:"PAYMENT_MEMO_SUFFIX"`

	PaymentWindow      time.Duration `mapstructure:"PAYMENT_WINDOW"`
	NotifyPollInterval time.Duration `mapstructure:"NOTIFY_POLL_INTERVAL"`
	ImminentDays       int           `mapstructure:"IMMINENT_DAYS"`

	EnableCORS bool `mapstructure:"ENABLE_CORS"`
}

func LoadConfig() *Config {
	// a missing .env is normal outside development
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file loaded")
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("TIMEZONE", "Asia/Ho_Chi_Minh")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_PATH", "villa.db")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/callback")
	viper.SetDefault("OAUTH_SCOPES", []string{"openid", "email", "profile"})
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:3000")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("AMQP_EXCHANGE", "bookings")
	viper.SetDefault("QR_TEMPLATE", "compact2")
	viper.SetDefault("PAYMENT_MEMO_SUFFIX", "COC")
	viper.SetDefault("PAYMENT_WINDOW", "15m")
	viper.SetDefault("NOTIFY_POLL_INTERVAL", "1m")
	viper.SetDefault("IMMINENT_DAYS", 1)

	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL", "LOG_FILE",
		"OAUTH_CLIENT_ID", "OAUTH_CLIENT_SECRET", "OAUTH_AUTH_URL", "OAUTH_TOKEN_URL", "OAUTH_USERINFO_URL",
		"ADMIN_EMAILS", "JWT_SECRET",
		"DISCORD_BOT_TOKEN", "DISCORD_NOTIFICATIONS_CHANNEL_ID",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD", "MAIL_FROM",
		"AMQP_URL",
		"BANK_ID", "BANK_ACCOUNT", "BANK_ACCOUNT_NAME",
		"ENABLE_CORS",
	} {
		viper.BindEnv(key)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logrus.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// Location falls back to UTC when TIMEZONE is not a known zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown timezone %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}
