package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECO_APP_ENV" required:"true"`
	Port         string `envconfig:"ECO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ECO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ECO_DB_DSN"`
	Driver string `envconfig:"ECO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ECO_DB_HOST"`
	Port     int    `envconfig:"ECO_DB_PORT" default:"5432"`
	User     string `envconfig:"ECO_DB_USER"`
	Password string `envconfig:"ECO_DB_PASSWORD"`
	Name     string `envconfig:"ECO_DB_NAME"`
	SSLMode  string `envconfig:"ECO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECO_REDIS_URL"`
	Address      string        `envconfig:"ECO_REDIS_ADDR"`
	Password     string        `envconfig:"ECO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ECO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ECO_JWT_ISSUER" default:"eco"`
	ExpirationMinutes int    `envconfig:"ECO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECO_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig carries the checkout pricing knobs. Shipping is free at or
// above the threshold, tax is a single flat rate, and exactly one coupon code
// is recognized.
type PricingConfig struct {
	ShippingFlatFee       float64 `envconfig:"ECO_PRICING_SHIPPING_FLAT_FEE" default:"50"`
	FreeShippingThreshold float64 `envconfig:"ECO_PRICING_FREE_SHIPPING_THRESHOLD" default:"500"`
	TaxRate               float64 `envconfig:"ECO_PRICING_TAX_RATE" default:"0.18"`
	CouponCode            string  `envconfig:"ECO_PRICING_COUPON_CODE" default:"WELCOME10"`
	CouponPercent         float64 `envconfig:"ECO_PRICING_COUPON_PERCENT" default:"0.10"`
	DeliveryDays          int     `envconfig:"ECO_PRICING_DELIVERY_DAYS" default:"7"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ECO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, val := range map[string]string{
		"ECO_DB_HOST": db.Host,
		"ECO_DB_USER": db.User,
		"ECO_DB_NAME": db.Name,
	} {
		if val == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either ECO_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
