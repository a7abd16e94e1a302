package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// SessionCookieName はセッションIDを運ぶCookie名。
const SessionCookieName = "catalogfront_session"

// sessionIssuer はセッションCookieのJWTに設定する発行者。
const sessionIssuer = "catalogfront"

const (
	contextKeySessionID  = "session_id"
	contextKeyCredential = "credential"
)

// SessionClaims はセッションCookieのクレーム。
type SessionClaims struct {
	jwt.RegisteredClaims
	// SessionID はサーバー側セッションストアのキー。
	SessionID string `json:"sid"`
}

// CredentialLoader はセッションIDに紐づくトークンを読み出す。
type CredentialLoader interface {
	// NewID は新しいセッションIDを発行する。
	NewID() string
	// Token はセッションのトークンを返す。無い場合は空文字列。
	Token(ctx context.Context, sessionID string) (string, error)
}

// SignSession はセッションIDをHS256で署名したCookie値を生成する。
func SignSession(secret, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("セッションCookieの署名に失敗: %w", err)
	}
	return signed, nil
}

// ParseSession は署名付きCookie値を検証してセッションIDを返す。
func ParseSession(secret, value string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("セッションCookieが無効です: %w", err)
	}
	if claims.SessionID == "" {
		return "", errors.New("セッションIDが含まれていません")
	}
	return claims.SessionID, nil
}

// Sessions はブラウザごとのセッションを確立するGinミドルウェアを返す。
// 有効なCookieが無ければ新しいセッションIDを発行してCookieを設定し、
// セッションに保存済みのトークンをコンテキストに読み込む。
func Sessions(secret string, ttl time.Duration, store CredentialLoader, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if value, err := c.Cookie(SessionCookieName); err == nil {
			if id, err := ParseSession(secret, value); err == nil {
				sessionID = id
			} else {
				logger.WithError(err).Debug("セッションCookieを破棄します")
			}
		}

		if sessionID == "" {
			sessionID = store.NewID()
			value, err := SignSession(secret, sessionID, ttl)
			if err != nil {
				logger.WithError(err).Error("セッションCookieの発行に失敗しました")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, value, int(ttl.Seconds()), "/", "", false, true)
		}

		token, err := store.Token(c.Request.Context(), sessionID)
		if err != nil {
			// 読み出しに失敗した場合は未ログインとして扱う
			logger.WithError(err).Warn("セッションの読み込みに失敗しました")
			token = ""
		}

		c.Set(contextKeySessionID, sessionID)
		c.Set(contextKeyCredential, token)
		c.Next()
	}
}

// GetSessionID はGinコンテキストからセッションIDを取得する。
// Sessionsミドルウェアが事前に適用されている必要がある。
func GetSessionID(c *gin.Context) string {
	return c.GetString(contextKeySessionID)
}

// GetCredential はGinコンテキストから現在のセッションのトークンを取得する。
func GetCredential(c *gin.Context) string {
	return c.GetString(contextKeyCredential)
}

// SetCredential は同じリクエスト内で以降の処理から見えるトークンを更新する。
func SetCredential(c *gin.Context, token string) {
	c.Set(contextKeyCredential, token)
}
