package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"guesthouse/internal/domain"
)

const (
	defaultDepositRate     = "0.3"
	defaultReservedDays    = "3"
	defaultSchedulerTZ     = "Asia/Taipei"
	defaultGatewayEnv      = "test"
	defaultCheckoutURL     = "https://payment-stage.gateway.example/Cashier/AioCheckOut/V5"
	defaultProdCheckoutURL = "https://payment.gateway.example/Cashier/AioCheckOut/V5"
)

// GatewayCredentials is one credential set; test and production sets are
// both loaded and selected explicitly by GatewayEnv, never by comparing
// ambient environment strings at verification time.
type GatewayCredentials struct {
	MerchantID  string
	HashKey     string
	HashIV      string
	CheckoutURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	AppEnv      string
	DatabaseDSN string
	ListenAddr  string
	AdminToken  string

	DepositRate    float64
	DepositEnabled bool
	ReservedDays   int
	BankInfo       string

	TransferEnabled bool
	CardEnabled     bool

	// Friday/Saturday nights count as holidays unless a calendar override
	// says otherwise.
	HolidayWeekdays []time.Weekday

	SchedulerLocation *time.Location
	SweepHour         int
	DefaultSendHour   int

	GatewayEnv  string
	GatewayTest GatewayCredentials
	GatewayProd GatewayCredentials
	ReturnURL   string
	ClientBack  string

	SMTPPrimary  SMTPConfig
	SMTPFallback SMTPConfig
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env file")
	}

	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseDSN = strings.TrimSpace(getEnv("DATABASE_URL", "guesthouse.db"))
	cfg.ListenAddr = strings.TrimSpace(getEnv("LISTEN_ADDR", ":8080"))
	cfg.AdminToken = strings.TrimSpace(os.Getenv("ADMIN_TOKEN"))

	var err error
	cfg.DepositRate, err = parseFloatEnv("DEPOSIT_RATE", defaultDepositRate)
	if err != nil {
		return nil, err
	}
	cfg.DepositEnabled = parseBoolEnv("DEPOSIT_ENABLED", "true")

	cfg.ReservedDays, err = parseIntEnv("RESERVED_DAYS", defaultReservedDays)
	if err != nil {
		return nil, err
	}

	cfg.BankInfo = getEnv("BANK_TRANSFER_INFO", "")
	cfg.TransferEnabled = parseBoolEnv("PAYMENT_TRANSFER_ENABLED", "true")
	cfg.CardEnabled = parseBoolEnv("PAYMENT_CARD_ENABLED", "true")

	cfg.HolidayWeekdays, err = parseWeekdaysEnv("HOLIDAY_WEEKDAYS", "friday,saturday")
	if err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(getEnv("SCHEDULER_TZ", defaultSchedulerTZ))
	cfg.SchedulerLocation, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TZ value %q: %w", tz, err)
	}

	cfg.SweepHour, err = parseIntEnv("SCHEDULER_SWEEP_HOUR", "1")
	if err != nil {
		return nil, err
	}
	cfg.DefaultSendHour, err = parseIntEnv("SCHEDULER_DEFAULT_SEND_HOUR", "10")
	if err != nil {
		return nil, err
	}

	cfg.GatewayEnv = strings.ToLower(strings.TrimSpace(getEnv("GATEWAY_ENV", defaultGatewayEnv)))
	cfg.GatewayTest = GatewayCredentials{
		MerchantID:  getEnv("GATEWAY_TEST_MERCHANT_ID", "2000132"),
		HashKey:     getEnv("GATEWAY_TEST_HASH_KEY", "5294y06JbISpM5x9"),
		HashIV:      getEnv("GATEWAY_TEST_HASH_IV", "v77hoKGq4kWxNNIS"),
		CheckoutURL: getEnv("GATEWAY_TEST_CHECKOUT_URL", defaultCheckoutURL),
	}
	cfg.GatewayProd = GatewayCredentials{
		MerchantID:  os.Getenv("GATEWAY_MERCHANT_ID"),
		HashKey:     os.Getenv("GATEWAY_HASH_KEY"),
		HashIV:      os.Getenv("GATEWAY_HASH_IV"),
		CheckoutURL: getEnv("GATEWAY_CHECKOUT_URL", defaultProdCheckoutURL),
	}
	cfg.ReturnURL = getEnv("GATEWAY_RETURN_URL", "")
	cfg.ClientBack = getEnv("GATEWAY_CLIENT_BACK_URL", "")

	cfg.SMTPPrimary, err = loadSMTP("SMTP")
	if err != nil {
		return nil, err
	}
	cfg.SMTPFallback, err = loadSMTP("SMTP_FALLBACK")
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Gateway returns the credential set selected by GATEWAY_ENV.
func (c *Config) Gateway() GatewayCredentials {
	if c.GatewayEnv == "production" {
		return c.GatewayProd
	}
	return c.GatewayTest
}

func (c *Config) MethodEnabled(m domain.PaymentMethod) bool {
	switch m {
	case domain.MethodTransfer:
		return c.TransferEnabled
	case domain.MethodCard:
		return c.CardEnabled
	}
	return false
}

func validateConfig(cfg *Config) error {
	if cfg.DepositRate <= 0 || cfg.DepositRate > 1 {
		return fmt.Errorf("DEPOSIT_RATE must be in (0, 1]")
	}
	if cfg.ReservedDays <= 0 {
		return fmt.Errorf("RESERVED_DAYS must be > 0")
	}
	if cfg.SweepHour < 0 || cfg.SweepHour > 23 {
		return fmt.Errorf("SCHEDULER_SWEEP_HOUR must be in [0, 23]")
	}
	if cfg.DefaultSendHour < 0 || cfg.DefaultSendHour > 23 {
		return fmt.Errorf("SCHEDULER_DEFAULT_SEND_HOUR must be in [0, 23]")
	}
	if cfg.GatewayEnv != "test" && cfg.GatewayEnv != "production" {
		return fmt.Errorf("GATEWAY_ENV must be one of: test, production")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.AdminToken == "" {
			return fmt.Errorf("in prod/release ADMIN_TOKEN must be set")
		}
		if cfg.GatewayEnv == "production" {
			g := cfg.GatewayProd
			if g.MerchantID == "" || g.HashKey == "" || g.HashIV == "" {
				return fmt.Errorf("in prod/release production gateway credentials must be set")
			}
		}
	}
	return nil
}

func loadSMTP(prefix string) (SMTPConfig, error) {
	port, err := parseIntEnv(prefix+"_PORT", "587")
	if err != nil {
		return SMTPConfig{}, err
	}
	return SMTPConfig{
		Host:     strings.TrimSpace(os.Getenv(prefix + "_HOST")),
		Port:     port,
		Username: os.Getenv(prefix + "_USERNAME"),
		Password: os.Getenv(prefix + "_PASSWORD"),
		From:     strings.TrimSpace(getEnv(prefix+"_FROM", os.Getenv(prefix+"_USERNAME"))),
	}, nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseWeekdaysEnv(name, fallback string) ([]time.Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	byName := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	var out []time.Weekday
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, ok := byName[part]
		if !ok {
			return nil, fmt.Errorf("invalid %s entry %q", name, part)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
