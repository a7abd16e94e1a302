// Package config は環境変数と .env ファイルから設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config はcatalogfrontの実行時設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string `envconfig:"PORT" default:"8080"`
	// CatalogAPIURL はリモートカタログAPIのベースURL。
	CatalogAPIURL string `envconfig:"CATALOG_API_URL" default:"http://localhost:5000"`
	// SessionSecret はセッションCookieの署名鍵。
	SessionSecret string `envconfig:"SESSION_SECRET" default:"dev-secret-key"`
	// SessionDBPath はセッションストアのSQLite DSN。
	SessionDBPath string `envconfig:"SESSION_DB_PATH" default:":memory:"`
	// SessionTTL はセッションの有効期間。
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	// RequestTimeout は画面操作からのAPI呼び出しのタイムアウト。
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"8s"`
	// SeedTimeout は初期データ投入の1件あたりのタイムアウト。
	SeedTimeout time.Duration `envconfig:"SEED_TIMEOUT" default:"5s"`
	// SeedOnStart が真の場合、起動時に初期データを投入する。
	SeedOnStart bool `envconfig:"SEED_ON_START" default:"true"`
	// LogLevel はログレベル（debug, info, warn, error）。
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFormat はログ形式（text, json）。
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load は .env ファイル（存在する場合）と環境変数から設定を読み込む。
// .env が存在しないことはエラーとしない。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".envファイルの読み込みに失敗: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("環境変数の解析に失敗: %w", err)
	}
	if cfg.CatalogAPIURL == "" {
		return nil, errors.New("CATALOG_API_URLが空です")
	}
	return &cfg, nil
}
