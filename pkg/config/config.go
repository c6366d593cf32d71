package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	POS          POSConfig
	GCS          GCSConfig
	OpenAI       OpenAIConfig
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
	Env          string `envconfig:"SRISAWAT_APP_ENV" required:"true"`
	Port         string `envconfig:"SRISAWAT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SRISAWAT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SRISAWAT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SRISAWAT_DB_DSN"`
	Driver string `envconfig:"SRISAWAT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SRISAWAT_DB_HOST"`
	Port     int    `envconfig:"SRISAWAT_DB_PORT" default:"5432"`
	User     string `envconfig:"SRISAWAT_DB_USER"`
	Password string `envconfig:"SRISAWAT_DB_PASSWORD"`
	Name     string `envconfig:"SRISAWAT_DB_NAME"`
	SSLMode  string `envconfig:"SRISAWAT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SRISAWAT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SRISAWAT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SRISAWAT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SRISAWAT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SRISAWAT_REDIS_URL"`
	Address      string        `envconfig:"SRISAWAT_REDIS_ADDR"`
	Password     string        `envconfig:"SRISAWAT_REDIS_PASSWORD"`
	DB           int           `envconfig:"SRISAWAT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SRISAWAT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SRISAWAT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SRISAWAT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SRISAWAT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SRISAWAT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SRISAWAT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SRISAWAT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SRISAWAT_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SRISAWAT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SRISAWAT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SRISAWAT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SRISAWAT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SRISAWAT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SRISAWAT_ARGON_KEY_LEN" default:"32"`
}

// POSConfig carries store-wide tills defaults. Values stored in the
// store_settings row take precedence; these are the bootstrap fallbacks.
type POSConfig struct {
	DefaultMarkupPercent  int           `envconfig:"SRISAWAT_POS_DEFAULT_MARKUP_PERCENT" default:"20"`
	LowStockThreshold     int           `envconfig:"SRISAWAT_POS_LOW_STOCK_THRESHOLD" default:"5"`
	CatalogCacheTTL       time.Duration `envconfig:"SRISAWAT_POS_CATALOG_CACHE_TTL" default:"5m"`
	ReceiptFooter         string        `envconfig:"SRISAWAT_POS_RECEIPT_FOOTER" default:""`
	ConsolidationMinCount int           `envconfig:"SRISAWAT_POS_CONSOLIDATION_MIN_COUNT" default:"2"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"SRISAWAT_GCS_BUCKET_NAME"`
	CredentialsJSON string        `envconfig:"SRISAWAT_GCS_CREDENTIALS_JSON"`
	UploadURLExpiry time.Duration `envconfig:"SRISAWAT_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"SRISAWAT_OPENAI_API_KEY"`
	Model  string `envconfig:"SRISAWAT_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SRISAWAT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
