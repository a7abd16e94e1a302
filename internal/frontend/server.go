package frontend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
	"github.com/nao1215/catalogfront/pkg/httpclient"
	"github.com/nao1215/catalogfront/pkg/metrics"
	"github.com/nao1215/catalogfront/pkg/middleware"
)

// shutdownTimeout は停止時に処理中のリクエストを待つ上限。
const shutdownTimeout = 10 * time.Second

// SessionStore はセッションごとのトークンの保存先。
type SessionStore interface {
	middleware.CredentialLoader
	SetToken(ctx context.Context, sessionID, token string) error
}

// Options はServerの依存と設定。
type Options struct {
	// Port はリッスンポート。
	Port string
	// API はカタログAPIクライアント。
	API *catalogapi.Client
	// Sessions はセッションストア。
	Sessions SessionStore
	// SessionSecret はセッションCookieの署名鍵。
	SessionSecret string
	// SessionTTL はセッションCookieの有効期間。
	SessionTTL time.Duration
	// Logger はロガー。
	Logger logrus.FieldLogger
	// Metrics はメトリクス。nilの場合は /metrics を公開しない。
	Metrics *metrics.Registry
}

// Server はカタログ管理画面のHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// api はカタログAPIクライアント。
	api *catalogapi.Client
	// sessions はトークンの保存先。
	sessions SessionStore
	// sessionSecret はセッションCookieの署名鍵。
	sessionSecret string
	// sessionTTL はセッションCookieの有効期間。
	sessionTTL time.Duration
	// logger はロガー。
	logger logrus.FieldLogger
	// metrics はメトリクス。
	metrics *metrics.Registry
}

// NewServer は新しいサーバーを生成する。
func NewServer(opts Options) (*Server, error) {
	if opts.API == nil || opts.Sessions == nil {
		return nil, errors.New("カタログAPIクライアントとセッションストアは必須です")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.RequestLogger(opts.Logger))

	s := &Server{
		router:        router,
		port:          opts.Port,
		api:           opts.API,
		sessions:      opts.Sessions,
		sessionSecret: opts.SessionSecret,
		sessionTTL:    opts.SessionTTL,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
	s.setupRoutes()

	return s, nil
}

// Handler はルーティング済みのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxが終了したら処理中のリクエストを待って停止する。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}

// setupRoutes はルーティングを設定する。
func (s *Server) setupRoutes() {
	// ヘルスチェックとメトリクスはセッションを発行しない
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "catalogfront"})
	})
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	ui := s.router.Group("/")
	ui.Use(middleware.Sessions(s.sessionSecret, s.sessionTTL, s.sessions, s.logger))
	{
		// 認証
		ui.GET("/", s.handleIndex())
		ui.POST("/do_login", s.handleLogin())
		ui.GET("/register", s.handleRegisterForm())
		ui.POST("/register", s.handleRegister())
		ui.GET("/register-success", s.handleRegisterSuccess())

		// 管理画面
		ui.GET("/productos_ui", s.handleProductsUI())
		ui.GET("/productos/view", s.handleViewByQuery())

		// 商品（ログイン必須）
		products := ui.Group("/", s.requireCredential())
		{
			products.GET("/productos", s.handleListProducts())
			products.GET("/productos-list-msg", s.handleListProducts())
			products.GET("/productos/new", s.handleNewProductForm())
			products.POST("/productos/new", s.handleCreateProduct())
		}

		// IDの検証はログイン確認より先に行う
		byID := ui.Group("/productos/:id", s.requireProductID(), s.requireCredential())
		{
			byID.GET("", s.handleViewProduct())
			byID.GET("/msg", s.handleViewProduct())
			byID.GET("/edit", s.handleEditProductForm())
			byID.POST("/edit", s.handleUpdateProduct())
			byID.POST("/delete", s.handleDeleteProduct())
		}
	}
}

// requireCredential はトークンが無いセッションをログイン画面へリダイレクトする。
// リモート呼び出しより前に評価される。
func (s *Server) requireCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.GetCredential(c) == "" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireProductID はパスの商品IDが0以上の整数でなければ404を返す。
func (s *Server) requireProductID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseProductID(c.Param("id"))
		if !ok {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Set(contextKeyProductID, id)
		c.Next()
	}
}

// upstreamContext はカタログAPI呼び出し用のコンテキストを返す。
func (s *Server) upstreamContext(c *gin.Context) context.Context {
	return httpclient.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
}

// renderManagement は管理画面をメッセージ付きで表示する。
func (s *Server) renderManagement(c *gin.Context, status int, message string) {
	c.HTML(status, pageProductsUI, gin.H{
		"TokenPresent": tokenPresent(middleware.GetCredential(c)),
		"Message":      message,
	})
}

const contextKeyProductID = "product_id"

func parseProductID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func tokenPresent(token string) string {
	if token != "" {
		return "sí"
	}
	return "no"
}

// rejectedStatus はリモートの拒否を利用者に返すステータスコードにする。
func rejectedStatus(remote int) int {
	return max(http.StatusBadRequest, remote)
}
