package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定。起動時に1回だけ作って各コンストラクタへ渡す。
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret  string        // JWT署名シークレット
	SessionTTL time.Duration // セッションCookie / JWT の有効期限

	IDCipherSecret string // 不透明トークンの鍵の元
	IDCipherSalt   string

	LoginMaxAttempts   int
	LoginLockWindow    time.Duration
	LoginRatePerMinute int // IPごとの /user/login 上限

	PriceTolerance  decimal.Decimal
	ReverifyOnOrder bool

	PaymentProvider string // stripe / mock
	StripeSecretKey string

	CookieSecure bool
	LogLevel     string

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSとQRコードで使う）
}

func (c Config) IsProd() bool { return c.GoEnv == "prod" || c.GoEnv == "production" }

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "restaurant"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		IDCipherSecret: os.Getenv("ID_CIPHER_SECRET"),
		IDCipherSalt:   getenv("ID_CIPHER_SALT", "salt"),

		PaymentProvider: strings.ToLower(os.Getenv("PAYMENT_PROVIDER")),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		LogLevel: getenv("LOG_LEVEL", "info"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),
	}

	var err error
	if cfg.PostgresPort, err = atoiOr("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationOr("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LoginMaxAttempts, err = atoiOr("LOGIN_MAX_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}
	if cfg.LoginLockWindow, err = durationOr("LOGIN_LOCK_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.LoginRatePerMinute, err = atoiOr("LOGIN_RATE_PER_MINUTE", 20); err != nil {
		return Config{}, err
	}
	if cfg.ReverifyOnOrder, err = boolOr("REVERIFY_ON_ORDER", false); err != nil {
		return Config{}, err
	}
	if cfg.PriceTolerance, err = decimalOr("PRICE_TOLERANCE", decimal.RequireFromString("0.01")); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.IDCipherSecret == "" {
		return Config{}, fmt.Errorf("ID_CIPHER_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	if cfg.CookieSecure, err = boolOr("COOKIE_SECURE", cfg.IsProd()); err != nil {
		return Config{}, err
	}

	//決済プロバイダ（本番はstripeのみ）
	if cfg.PaymentProvider == "" {
		cfg.PaymentProvider = "mock"
		if cfg.IsProd() {
			cfg.PaymentProvider = "stripe"
		}
	}
	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENT_PROVIDER=stripe")
		}
	case "mock":
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("PAYMENT_PROVIDER=mock is not allowed in prod")
		}
	default:
		return Config{}, fmt.Errorf("PAYMENT_PROVIDER must be stripe or mock")
	}

	if cfg.LoginMaxAttempts < 1 {
		return Config{}, fmt.Errorf("LOGIN_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.PriceTolerance.IsNegative() {
		return Config{}, fmt.Errorf("PRICE_TOLERANCE must be >= 0")
	}

	return cfg, nil
}

// DATABASE_URL が無ければ POSTGRES_* から組み立てる
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false: %w", key, err)
	}
	return b, nil
}

func decimalOr(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal: %w", key, err)
	}
	return d, nil
}
