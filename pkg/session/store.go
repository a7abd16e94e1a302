// Package session はブラウザごとのセッションと、それに紐づくBearerトークンを保持する。
//
// セッションIDは署名付きCookieでブラウザに渡し、トークン本体はサーバー側の
// SQLiteに保存する。複数の利用者が同じログインを共有しないようにするため。
package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nao1215/catalogfront/pkg/migration"
)

//go:embed migrations
var migrationsFS embed.FS

// MemoryDSN はプロセス内だけで完結するセッションストアのDSN。
const MemoryDSN = ":memory:"

// Store はSQLiteに保存されたセッションストア。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
	// ttl はセッションの有効期間。
	ttl time.Duration
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time
}

// Open はセッションストアを開き、スキーマを適用する。
func Open(ctx context.Context, dsn string, ttl time.Duration, logger logrus.FieldLogger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// インメモリDBは接続ごとに別のDBになるため、接続を1本に固定する
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if _, err := migration.Run(ctx, db, migrationsFS, "migrations", logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// TTL はセッションの有効期間を返す。
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// NewID は新しいセッションIDを発行する。行はトークン保存時に作成される。
func (s *Store) NewID() string {
	return uuid.New().String()
}

// Token はセッションに保存されたトークンを返す。
// セッションが存在しない、または期限切れの場合は空文字列を返す。
func (s *Store) Token(ctx context.Context, sessionID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM sessions WHERE id = ? AND expires_at > ?`,
		sessionID, s.now().Unix(),
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("セッションの取得に失敗: %w", err)
	}
	return token, nil
}

// SetToken はセッションのトークンを保存する。既存のトークンは置き換えられ、有効期限は延長される。
func (s *Store) SetToken(ctx context.Context, sessionID, token string) error {
	if sessionID == "" {
		return errors.New("セッションIDが空です")
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at`,
		sessionID, token, now.Unix(), now.Unix(), now.Add(s.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("セッションの保存に失敗: %w", err)
	}
	return nil
}

// DeleteExpired は期限切れのセッションを削除し、削除件数を返す。
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
	}
	return res.RowsAffected()
}

// RunJanitor はctxがキャンセルされるまで、interval毎に期限切れセッションを削除する。
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, logger logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				logger.WithError(err).Warn("期限切れセッションの削除に失敗しました")
				continue
			}
			if n > 0 {
				logger.WithField("deleted", n).Debug("期限切れセッションを削除しました")
			}
		}
	}
}
