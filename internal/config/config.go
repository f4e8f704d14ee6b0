package config

import (
	"fmt"
	"os"
	"strconv"
)

// 決済ゲートウェイの種別
const (
	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5433）

	JWTSecret string // JWT署名シークレット

	GoEnv     string // dev/prod
	APIDomain string // APIドメイン（cookieやCORSなどで使う）
	FEURL     string // フロントURL（CORS・決済リダイレクト先で使う）

	// 決済まわり
	PaymentProvider string // stripe / razorpay
	Currency        string // inr など（ISO小文字）

	StripeSecretKey     string
	StripeWebhookSecret string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	// trueなら代引き運用（店舗が未決済注文を手動confirmできる）
	PayOnDelivery bool

	// ゲートウェイ呼び出しのタイムアウト（秒）
	GatewayTimeoutSec int
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:     os.Getenv("GO_ENV"),
		APIDomain: os.Getenv("API_DOMAIN"),
		FEURL:     os.Getenv("FE_URL"),

		PaymentProvider: os.Getenv("PAYMENT_PROVIDER"),
		Currency:        getenvDefault("CURRENCY", "inr"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		PayOnDelivery: os.Getenv("PAY_ON_DELIVERY") == "true",

		GatewayTimeoutSec: 10,
	}

	if v := os.Getenv("GATEWAY_TIMEOUT_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("GATEWAY_TIMEOUT_SEC must be number: %w", err)
		}
		cfg.GatewayTimeoutSec = sec
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	//ゲートウェイごとの必須チェック
	switch cfg.PaymentProvider {
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
		}
		if cfg.StripeWebhookSecret == "" {
			return Config{}, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
		}
	case ProviderRazorpay:
		if cfg.RazorpayKeyID == "" {
			return Config{}, fmt.Errorf("RAZORPAY_KEY_ID is required")
		}
		if cfg.RazorpayKeySecret == "" {
			return Config{}, fmt.Errorf("RAZORPAY_KEY_SECRET is required")
		}
	default:
		return Config{}, fmt.Errorf("PAYMENT_PROVIDER must be %s or %s", ProviderStripe, ProviderRazorpay)
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenvDefault(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
