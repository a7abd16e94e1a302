package frontend

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
	"github.com/nao1215/catalogfront/pkg/credential"
	"github.com/nao1215/catalogfront/pkg/metrics"
	"github.com/nao1215/catalogfront/pkg/middleware"
)

// 利用者に表示するメッセージ。
const (
	msgLoginNetworkError    = "Error de red al iniciar sesión. Intenta más tarde."
	msgRegisterNetworkError = "Error de red al intentar registrarse. Intenta de nuevo más tarde."
	msgRegisterFallback     = "Error en el registro."
)

// handleIndex はログイン画面を表示するハンドラを返す。
func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, pageLogin, gin.H{"Message": ""})
	}
}

// handleLogin はログインを中継し、得たトークンをセッションに保存するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := catalogapi.Credentials{
			Username: c.PostForm("username"),
			Password: c.PostForm("password"),
		}
		log := s.logger.WithField("username", creds.Username)

		resp, err := s.api.Login(s.upstreamContext(c), creds)
		if err != nil {
			log.WithError(err).Error("ログイン要求の送信に失敗しました")
			s.countLogin(metrics.OutcomeNetworkError)
			c.HTML(http.StatusBadGateway, pageLogin, gin.H{"Message": msgLoginNetworkError})
			return
		}

		if resp.OK() {
			if token, ok := credential.Extract(resp.Body); ok {
				if err := s.sessions.SetToken(c.Request.Context(), middleware.GetSessionID(c), token); err != nil {
					log.WithError(err).Error("トークンの保存に失敗しました")
					c.HTML(http.StatusInternalServerError, pageLogin, gin.H{"Message": "Error interno al guardar la sesión."})
					return
				}
				middleware.SetCredential(c, token)
				s.countLogin(metrics.OutcomeOK)
				log.Debug("ログインに成功しました")
				c.Redirect(http.StatusFound, "/productos_ui")
				return
			}
			log.Warn("ログイン応答からトークンを取り出せませんでした")
		}

		s.countLogin(metrics.OutcomeRejected)
		log.WithField("status", resp.StatusCode).Debug("ログインが拒否されました")
		msg := fmt.Sprintf("Autenticación fallida (%d). %s", resp.StatusCode, resp.Detail())
		c.HTML(rejectedStatus(resp.StatusCode), pageLogin, gin.H{"Message": msg})
	}
}

// handleRegisterForm は登録画面を表示するハンドラを返す。
func (s *Server) handleRegisterForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, pageRegister, gin.H{"Message": ""})
	}
}

// handleRegister は利用者登録を中継するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		reg := catalogapi.Registration{
			FullName: c.PostForm("full_name"),
			Username: c.PostForm("username"),
			Password: c.PostForm("password"),
			Email:    c.PostForm("email"),
		}

		resp, err := s.api.Register(s.upstreamContext(c), reg)
		if err != nil {
			s.logger.WithError(err).Error("登録要求の送信に失敗しました")
			c.HTML(http.StatusBadGateway, pageRegister, gin.H{"Message": msgRegisterNetworkError})
			return
		}

		if resp.OK() {
			c.Redirect(http.StatusFound, "/register-success?"+url.Values{"username": {reg.Username}}.Encode())
			return
		}

		detail := resp.Detail()
		if detail == "" {
			detail = strings.TrimSpace(resp.Text())
		}
		if detail == "" {
			detail = msgRegisterFallback
		}
		s.logger.WithFields(logrus.Fields{
			"username": reg.Username,
			"status":   resp.StatusCode,
		}).Debug("登録が拒否されました")
		msg := fmt.Sprintf("Registro fallido (%d). %s", resp.StatusCode, detail)
		c.HTML(rejectedStatus(resp.StatusCode), pageRegister, gin.H{"Message": msg})
	}
}

// handleRegisterSuccess は登録完了メッセージ付きのログイン画面を表示するハンドラを返す。
func (s *Server) handleRegisterSuccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		msg := fmt.Sprintf("✓ Usuario '%s' registrado exitosamente. Puedes iniciar sesión ahora.", c.Query("username"))
		c.HTML(http.StatusOK, pageLogin, gin.H{"Message": msg})
	}
}

func (s *Server) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.Logins.WithLabelValues(outcome).Inc()
	}
}
