// カタログ管理画面のエントリポイント。
// ログイン、利用者登録、商品の作成・閲覧・更新・削除をリモートのカタログAPIへ中継し、
// 起動時に参照データを投入する。
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nao1215/catalogfront/internal/frontend"
	"github.com/nao1215/catalogfront/internal/seed"
	"github.com/nao1215/catalogfront/pkg/catalogapi"
	"github.com/nao1215/catalogfront/pkg/config"
	"github.com/nao1215/catalogfront/pkg/httpclient"
	"github.com/nao1215/catalogfront/pkg/metrics"
	"github.com/nao1215/catalogfront/pkg/session"
)

// janitorInterval は期限切れセッションを削除する間隔。
const janitorInterval = 10 * time.Minute

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("設定の読み込みに失敗: %v", err)
	}
	setupLogger(logger, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := session.Open(ctx, cfg.SessionDBPath, cfg.SessionTTL, logger)
	if err != nil {
		logger.Fatalf("セッションストアの初期化に失敗: %v", err)
	}
	defer store.Close()
	go store.RunJanitor(ctx, janitorInterval, logger)

	m := metrics.New()

	if cfg.SeedOnStart {
		seeder := seed.NewSeeder(
			catalogapi.New(httpclient.New(cfg.CatalogAPIURL, cfg.SeedTimeout), m),
			cfg.SeedTimeout,
			logger.WithField("component", "seed"),
			m,
		)
		go seeder.Run(ctx)
	}

	server, err := frontend.NewServer(frontend.Options{
		Port:          cfg.Port,
		API:           catalogapi.New(httpclient.New(cfg.CatalogAPIURL, cfg.RequestTimeout), m),
		Sessions:      store,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		Logger:        logger,
		Metrics:       m,
	})
	if err != nil {
		logger.Fatalf("サーバーの初期化に失敗: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"catalog_api": cfg.CatalogAPIURL,
	}).Info("catalogfrontを起動します")
	if err := server.Run(ctx); err != nil {
		logger.Errorf("catalogfrontの実行に失敗: %v", err)
		return
	}
	logger.Info("catalogfrontを停止しました")
}

// setupLogger はログレベルと出力形式を設定する。
func setupLogger(logger *logrus.Logger, level, format string) {
	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("不正なログレベル %q のため info を使用します: %v", level, err)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}
