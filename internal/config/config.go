package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/featureflag"
)

// DefaultCatalogFile is read when CATALOG_FILE is unset.
const DefaultCatalogFile = "config/catalog.yaml"

type RateLimit struct {
	MaxRequests int
	Window      time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string `json:"-"`
	From     string
}

type RedisConfig struct {
	Address  string
	Password string `json:"-"`
	DB       int
}

type SiteConfig struct {
	Name           string
	URL            string
	Phone          string
	ResponseWindow string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseDriver string
	DatabaseURL    string `json:"-"`

	Mail       MailConfig
	AdminEmail string
	Site       SiteConfig

	LeadRateLimit       RateLimit
	ContactRateLimit    RateLimit
	NewsletterRateLimit RateLimit

	RetentionWindow        time.Duration
	RetentionSweepInterval time.Duration

	Redis       RedisConfig
	RabbitMQURL string `json:"-"`
	CRMAPIURL   string
	CRMAPIToken string `json:"-"`
	SentryDSN   string `json:"-"`

	CORSAllowedOrigins []string

	CatalogFile  string
	Affiliates   []entity.AffiliateConfig
	FeatureFlags []featureflag.Flag
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Catalog is the YAML document holding affiliates and feature flags.
type Catalog struct {
	Affiliates   []entity.AffiliateConfig `yaml:"affiliates"`
	FeatureFlags []featureflag.Flag       `yaml:"feature_flags"`
}

// Load reads .env when present, then the environment and the catalog file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	defaultLimit := RateLimit{
		MaxRequests: getEnvAsInt("RATE_LIMIT_MAX", 10),
		Window:      getEnvAsMillis("RATE_LIMIT_WINDOW_MS", 15*time.Minute),
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", ""),
			Port:     getEnvAsInt("MAIL_PORT", 587),
			User:     getEnv("MAIL_USER", ""),
			Password: getEnv("MAIL_PASS", ""),
			From:     getEnv("MAIL_FROM", "JetLeads <noreply@jetleads.example>"),
		},
		AdminEmail: getEnv("ADMIN_EMAIL", ""),
		Site: SiteConfig{
			Name:           getEnv("SITE_NAME", "JetLeads"),
			URL:            getEnv("SITE_URL", "https://jetleads.example"),
			Phone:          getEnv("SITE_PHONE", "+1 800 555 0100"),
			ResponseWindow: getEnv("SITE_RESPONSE_WINDOW", "2-4 hours"),
		},
		LeadRateLimit:          endpointLimit("LEAD", defaultLimit),
		ContactRateLimit:       endpointLimit("CONTACT", defaultLimit),
		NewsletterRateLimit:    endpointLimit("NEWSLETTER", defaultLimit),
		RetentionWindow:        time.Duration(getEnvAsInt("DATA_RETENTION_DAYS", 730)) * 24 * time.Hour,
		RetentionSweepInterval: getEnvAsDuration("RETENTION_SWEEP_INTERVAL", time.Hour),
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		CRMAPIURL:          getEnv("CRM_API_URL", ""),
		CRMAPIToken:        getEnv("CRM_API_TOKEN", ""),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CatalogFile:        getEnv("CATALOG_FILE", DefaultCatalogFile),
	}

	catalog, err := LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	cfg.Affiliates = applyAffiliateOverrides(catalog.Affiliates)
	cfg.FeatureFlags = catalog.FeatureFlags

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logConfig(cfg)
	return cfg, nil
}

// LoadCatalog returns the built-in affiliates when path does not exist.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", path).Warn("catalog file not found, using built-in affiliates")
		return &Catalog{Affiliates: DefaultAffiliates()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(c.Affiliates) == 0 {
		c.Affiliates = DefaultAffiliates()
	}
	return &c, nil
}

func DefaultAffiliates() []entity.AffiliateConfig {
	return []entity.AffiliateConfig{
		{ID: "affiliate-1", Name: "Affiliate Partner 1", NotificationEmail: "affiliate1@jetleads.example", ReferralCode: "JL-AFF-001", CommissionRate: 0.10},
		{ID: "affiliate-2", Name: "Affiliate Partner 2", NotificationEmail: "affiliate2@jetleads.example", ReferralCode: "JL-AFF-002", CommissionRate: 0.10},
		{ID: "affiliate-3", Name: "Affiliate Partner 3", NotificationEmail: "affiliate3@jetleads.example", ReferralCode: "JL-AFF-003", CommissionRate: 0.10},
	}
}

func (c *Config) Validate() error {
	if c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := entity.NewAffiliateDirectory(c.Affiliates); err != nil {
		return fmt.Errorf("invalid affiliate configuration: %w", err)
	}
	for _, l := range []RateLimit{c.LeadRateLimit, c.ContactRateLimit, c.NewsletterRateLimit} {
		if l.MaxRequests <= 0 || l.Window <= 0 {
			return fmt.Errorf("rate limits must be positive")
		}
	}
	if c.IsProduction() && c.Mail.Host == "" {
		return fmt.Errorf("MAIL_HOST is required in production")
	}
	return nil
}

func endpointLimit(name string, fallback RateLimit) RateLimit {
	return RateLimit{
		MaxRequests: getEnvAsInt("RATE_LIMIT_"+name+"_MAX", fallback.MaxRequests),
		Window:      getEnvAsMillis("RATE_LIMIT_"+name+"_WINDOW_MS", fallback.Window),
	}
}

// applyAffiliateOverrides lets AFFILIATE_<ID>_EMAIL and
// AFFILIATE_<ID>_REFERRAL_CODE replace catalog values.
func applyAffiliateOverrides(in []entity.AffiliateConfig) []entity.AffiliateConfig {
	out := make([]entity.AffiliateConfig, len(in))
	for i, a := range in {
		key := "AFFILIATE_" + envKey(a.ID)
		a.NotificationEmail = getEnv(key+"_EMAIL", a.NotificationEmail)
		a.ReferralCode = getEnv(key+"_REFERRAL_CODE", a.ReferralCode)
		out[i] = a
	}
	return out
}

func envKey(id string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(id))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsMillis(key string, defaultValue time.Duration) time.Duration {
	ms := getEnvAsInt(key, -1)
	if ms < 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func logConfig(c *Config) {
	logrus.WithFields(logrus.Fields{
		"environment":     c.Environment,
		"port":            c.Port,
		"database_driver": c.DatabaseDriver,
		"affiliates":      len(c.Affiliates),
		"feature_flags":   len(c.FeatureFlags),
		"redis":           c.Redis.Address != "",
		"rabbitmq":        c.RabbitMQURL != "",
		"crm":             c.CRMAPIURL != "",
		"retention_days":  int(c.RetentionWindow.Hours() / 24),
	}).Info("configuration loaded")
}
