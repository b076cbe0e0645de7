package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type APIConfig struct {
	URL     string
	Timeout time.Duration
}

type PaymentConfig struct {
	PublicKey string
}

type SupportConfig struct {
	WhatsApp string
	Email    string
}

type SessionConfig struct {
	Backend    string
	SQLitePath string
	KeyPrefix  string
	Redis      RedisConfig
}

type CatalogConfig struct {
	RefreshSchedule string
}

type BrowserConfig struct {
	Open bool
}

type StubConfig struct {
	HTTP            HTTPConfig
	DatabasePath    string
	JWTSecret       string
	TokenTTL        time.Duration
	CheckoutBaseURL string
	AllowOrigins    []string
	AdminEmails     []string
	PurgeSchedule   string
}

type AppConfig struct {
	Environment string
	API         APIConfig
	Pricing     Pricing
	Payment     PaymentConfig
	Support     SupportConfig
	Session     SessionConfig
	Catalog     CatalogConfig
	Browser     BrowserConfig
	Stub        StubConfig
}

// envAliases maps config keys to the environment names the hosted frontend
// understands. The first non-empty variable wins.
var envAliases = map[string][]string{
	"api.url":                {"VEXA_API_URL", "API_URL", "VITE_API_URL"},
	"pricing.singleworkflow": {"VEXA_PRICING_SINGLEWORKFLOW", "SINGLE_WORKFLOW_PRICE"},
	"pricing.allaccess":      {"VEXA_PRICING_ALLACCESS", "ALL_ACCESS_PRICE"},
	"payment.publickey":      {"VEXA_PAYMENT_PUBLICKEY", "PAYSTACK_PUBLIC_KEY", "VITE_PAYSTACK_PUBLIC_KEY"},
	"support.whatsapp":       {"VEXA_SUPPORT_WHATSAPP", "WHATSAPP_NUMBER", "VITE_WHATSAPP_NUMBER"},
	"stub.jwtsecret":         {"VEXA_STUB_JWTSECRET", "SECRET_KEY"},
}

// Load reads config.yaml (optional), a .env file (optional) and the process
// environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	v.SetEnvPrefix("VEXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			StringToDecimalHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return errors.New("config: api.url is required")
	}
	if !c.Pricing.SingleWorkflow.IsPositive() || !c.Pricing.AllAccess.IsPositive() {
		return errors.New("config: prices must be positive")
	}
	switch c.Session.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("pricing.singleworkflow", "149")
	v.SetDefault("pricing.allaccess", "799")
	v.SetDefault("pricing.currency", "GHS")

	v.SetDefault("support.whatsapp", "+233544954643")
	v.SetDefault("support.email", "johnevansokyere@gmail.com")

	v.SetDefault("session.backend", "sqlite")
	v.SetDefault("session.sqlitepath", "./storefront_session.db")
	v.SetDefault("session.keyprefix", "vexa:")
	v.SetDefault("session.redis.addr", "127.0.0.1:6379")
	v.SetDefault("session.redis.password", "")
	v.SetDefault("session.redis.db", 0)

	v.SetDefault("catalog.refreshschedule", "@every 5m")
	v.SetDefault("browser.open", false)

	v.SetDefault("stub.http.host", "127.0.0.1")
	v.SetDefault("stub.http.port", 8000)
	v.SetDefault("stub.http.readtimeout", "10s")
	v.SetDefault("stub.http.writetimeout", "15s")
	v.SetDefault("stub.http.idletimeout", "60s")
	v.SetDefault("stub.databasepath", ":memory:")
	v.SetDefault("stub.jwtsecret", "sandbox-secret-change-me")
	v.SetDefault("stub.tokenttl", "168h") // 7 days
	v.SetDefault("stub.checkoutbaseurl", "https://checkout.paystack.com")
	v.SetDefault("stub.purgeschedule", "@hourly")
	v.SetDefault("stub.alloworigins", []string{})
	v.SetDefault("stub.adminemails", []string{})
}
