package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func New() (*Config, error) {
	var Config Config
	if os.Getenv("GO_ENV") == "local" {
		_ = godotenv.Load(".env")
	}

	if err := env.Parse(&Config); err != nil {
		logrus.Fatalf("Error initializing: %s", err.Error())
		os.Exit(1)
	}
	return &Config, nil
}

type Config struct {
	APP
	DB
	Kafka
	Ledger
	Terminal
}

type APP struct {
	PORT     string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type DB struct {
	HOST     string `env:"DB_HOST"`
	USER     string `env:"DB_USER"`
	PASSWORD string `env:"DB_PASSWORD"`
	NAME     string `env:"DB_NAME"`
	PORT     string `env:"DB_PORT"`
	SSLMODE  string `env:"DB_SSLMODE"`
}

type Kafka struct {
	Enabled              bool          `env:"KAFKA_ENABLED" envDefault:"true"`
	Brokers              string        `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	AuditorConsumerGroup string        `env:"KAFKA_AUDITOR_GROUP_ID" envDefault:"topup-auditor"`
	SubscriberTopics     string        `env:"KAFKA_SUBSCRIBER_TOPICS" envDefault:"topups.booked"`
	PublishTopics        string        `env:"KAFKA_PUBLISH_TOPICS" envDefault:"topups.booked,topups.dlq"`
	RetryMaxAttempts     int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay       time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay        time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"10s"`
	RetryJitter          bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

// Ledger configures the reference ledger service.
type Ledger struct {
	Store             string          `env:"LEDGER_STORE" envDefault:"postgres"`
	Currency          string          `env:"LEDGER_CURRENCY" envDefault:"EUR"`
	MinTopUp          decimal.Decimal `env:"LEDGER_MIN_TOP_UP" envDefault:"1.00"`
	MaxAccountBalance decimal.Decimal `env:"LEDGER_MAX_ACCOUNT_BALANCE" envDefault:"150.00"`
	CheckValidity     time.Duration   `env:"LEDGER_CHECK_VALIDITY" envDefault:"5m"`
	TokenSecret       string          `env:"LEDGER_TOKEN_SECRET" envDefault:"change-me"`
}

// Terminal configures the terminal side: where the ledger lives, who we are
// and how hard the protocol client tries before giving up.
type Terminal struct {
	LedgerURL          string        `env:"TERMINAL_LEDGER_URL" envDefault:"http://localhost:8080"`
	Token              string        `env:"TERMINAL_TOKEN"`
	TerminalID         string        `env:"TERMINAL_ID"`
	OperatorID         string        `env:"TERMINAL_OPERATOR_ID"`
	Currency           string        `env:"TERMINAL_CURRENCY" envDefault:"EUR"`
	RequestTimeout     time.Duration `env:"TERMINAL_REQUEST_TIMEOUT" envDefault:"10s"`
	CheckMaxAttempts   int           `env:"TERMINAL_CHECK_MAX_ATTEMPTS" envDefault:"3"`
	BookMaxAttempts    int           `env:"TERMINAL_BOOK_MAX_ATTEMPTS" envDefault:"3"`
	BookReplayAttempts int           `env:"TERMINAL_BOOK_REPLAY_ATTEMPTS" envDefault:"1"`
	RetryBaseDelay     time.Duration `env:"TERMINAL_RETRY_BASE_DELAY" envDefault:"200ms"`
	RetryMaxDelay      time.Duration `env:"TERMINAL_RETRY_MAX_DELAY" envDefault:"2s"`
	RetryJitter        bool          `env:"TERMINAL_RETRY_JITTER" envDefault:"true"`
	JournalPath        string        `env:"TERMINAL_JOURNAL_PATH" envDefault:"terminal.db"`
	TagDevice          string        `env:"TERMINAL_TAG_DEVICE"`
	DuplicateWindow    time.Duration `env:"TERMINAL_DUPLICATE_WINDOW" envDefault:"2s"`
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}

// CheckRetryConfig is the budget for the non-mutating check call.
func (t Terminal) CheckRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: t.CheckMaxAttempts,
		BaseDelay:   t.RetryBaseDelay,
		MaxDelay:    t.RetryMaxDelay,
		Jitter:      t.RetryJitter,
	}
}

// BookRetryConfig is the budget for book failures that are known to be
// pre-commit. Ambiguous failures are governed by BookReplayAttempts.
func (t Terminal) BookRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: t.BookMaxAttempts,
		BaseDelay:   t.RetryBaseDelay,
		MaxDelay:    t.RetryMaxDelay,
		Jitter:      t.RetryJitter,
	}
}
