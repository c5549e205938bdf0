package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

// Config is read from the environment, e.g. DB_HOST or CACHE_REDIS_ADDR.
type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Invoicer"`
	}

	DB struct {
		Host        string `envconfig:"DB_HOST" default:"localhost"`
		Port        int    `envconfig:"DB_PORT" default:"5432"`
		User        string `envconfig:"DB_USER" default:"postgres"`
		Password    string `envconfig:"DB_PASSWORD" default:""`
		Name        string `envconfig:"DB_NAME" default:"invoicer"`
		SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	}

	Storage struct {
		// Backend is postgres or memory.
		Backend string `envconfig:"STORAGE_BACKEND" default:"postgres"`
	}

	Server struct {
		Port        int           `envconfig:"SERVER_PORT" default:"8080"`
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"168h"`
		Issuer   string        `envconfig:"AUTH_ISSUER" default:"invoicer"`
	}

	Report struct {
		Timeout    time.Duration   `envconfig:"REPORT_TIMEOUT" default:"10s"`
		TaxRate    decimal.Decimal `envconfig:"REPORT_TAX_RATE" default:"0.20"`
		References References      `envconfig:"REPORT_REFERENCES" default:"lower:323.00,upper:440.00"`
	}

	Cache struct {
		// Backend is none, memory or redis.
		Backend   string        `envconfig:"CACHE_BACKEND" default:"memory"`
		TTL       time.Duration `envconfig:"CACHE_TTL" default:"5m"`
		Size      int           `envconfig:"CACHE_SIZE" default:"128"`
		RedisAddr string        `envconfig:"CACHE_REDIS_ADDR" default:"localhost:6379"`
		RedisDB   int           `envconfig:"CACHE_REDIS_DB" default:"0"`
		Prefix    string        `envconfig:"CACHE_PREFIX" default:"invoicer:report:"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:""`
	}

	Log logging.Config
}

// References decodes "name:weekly,name:weekly", e.g. "lower:323.00,upper:440.00".
type References []report.Reference

func (r *References) Decode(value string) error {
	var out References

	for pair := range strings.SplitSeq(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, weekly, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("reference %q: want name:weekly", pair)
		}

		amount, err := money.ParseNonNegative(weekly)
		if err != nil {
			return fmt.Errorf("reference %q: %w", pair, err)
		}

		out = append(out, report.Reference{Name: strings.TrimSpace(name), Weekly: amount})
	}

	*r = out

	return nil
}

func (c *Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=" + c.DB.SSLMode,
	}

	return u.String()
}

// ReportConfig is the composer configuration carried by the Report section.
func (c *Config) ReportConfig() report.Config {
	return report.Config{
		References:      c.Report.References,
		TaxWithheldRate: c.Report.TaxRate,
		Timeout:         c.Report.Timeout,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
