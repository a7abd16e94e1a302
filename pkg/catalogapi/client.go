// Package catalogapi はリモートのカタログAPIの各エンドポイントを型付きで呼び出す。
package catalogapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nao1215/catalogfront/pkg/httpclient"
	"github.com/nao1215/catalogfront/pkg/metrics"
)

// カタログAPIのエンドポイント。
const (
	PathLogin      = "/login"
	PathRegister   = "/registry"
	PathProducts   = "/productos"
	PathCategories = "/categorias"
	PathDiscounts  = "/descuentos"
	PathTaxes      = "/impuestos"
	PathSuppliers  = "/proveedores"
)

// ErrMalformedBody はリモートが成功を返したがボディがJSONとして解釈できないことを表す。
var ErrMalformedBody = errors.New("レスポンスボディを解釈できません")

// RemoteError はリモートが2xx以外を返したことを表す。
type RemoteError struct {
	// StatusCode はリモートのHTTPステータスコード。
	StatusCode int
	// Detail はボディから取り出した説明文。
	Detail string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("カタログAPIがエラーを返しました: status=%d, detail=%s", e.StatusCode, e.Detail)
}

// Client はカタログAPIのクライアント。
type Client struct {
	// http はカタログAPIへのHTTPクライアント。
	http *httpclient.Client
	// metrics は呼び出し結果の記録先。nilの場合は記録しない。
	metrics *metrics.Registry
}

// New は新しいカタログAPIクライアントを生成する。
func New(hc *httpclient.Client, m *metrics.Registry) *Client {
	return &Client{http: hc, metrics: m}
}

// Login はユーザー名とパスワードでログインする。
// トークンの取り出しは呼び出し側で行うため、応答をそのまま返す。
func (c *Client) Login(ctx context.Context, creds Credentials) (*httpclient.Response, error) {
	return c.call(ctx, "login", http.MethodPost, PathLogin, creds)
}

// Register は利用者を登録する。
func (c *Client) Register(ctx context.Context, reg Registration) (*httpclient.Response, error) {
	return c.call(ctx, "register", http.MethodPost, PathRegister, reg)
}

// ListProducts は商品一覧を取得する。
// 2xx以外は*RemoteError、ボディが配列として解釈できなければErrMalformedBodyを返す。
func (c *Client) ListProducts(ctx context.Context, token string) ([]Product, error) {
	resp, err := c.call(httpclient.WithBearer(ctx, token), "list_products", http.MethodGet, PathProducts, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Detail: resp.Detail()}
	}

	var products []Product
	if err := resp.DecodeJSON(&products); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return products, nil
}

// GetProduct はIDを指定して商品を取得する。
func (c *Client) GetProduct(ctx context.Context, token string, id int) (Product, error) {
	resp, err := c.call(httpclient.WithBearer(ctx, token), "get_product", http.MethodGet, productPath(id), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Detail: resp.Detail()}
	}

	var product Product
	if err := resp.DecodeJSON(&product); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return product, nil
}

// CreateProduct は商品を作成する。
func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*httpclient.Response, error) {
	return c.call(httpclient.WithBearer(ctx, token), "create_product", http.MethodPost, PathProducts, in)
}

// UpdateProduct は商品を更新する。
func (c *Client) UpdateProduct(ctx context.Context, token string, id int, in ProductInput) (*httpclient.Response, error) {
	return c.call(httpclient.WithBearer(ctx, token), "update_product", http.MethodPut, productPath(id), in)
}

// DeleteProduct は商品を削除する。
func (c *Client) DeleteProduct(ctx context.Context, token string, id int) (*httpclient.Response, error) {
	return c.call(httpclient.WithBearer(ctx, token), "delete_product", http.MethodDelete, productPath(id), nil)
}

// PostRecord は参照データ1件を指定エンドポイントに登録する。初期データ投入で使用する。
func (c *Client) PostRecord(ctx context.Context, path string, record any) (*httpclient.Response, error) {
	return c.call(ctx, "seed"+path, http.MethodPost, path, record)
}

// call はHTTP呼び出しを行い、結果をメトリクスに記録する。
func (c *Client) call(ctx context.Context, operation, method, path string, body any) (*httpclient.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(ctx, method, path, body)

	if c.metrics != nil {
		outcome := metrics.OutcomeOK
		switch {
		case err != nil:
			outcome = metrics.OutcomeNetworkError
		case !resp.OK():
			outcome = metrics.OutcomeRejected
		}
		c.metrics.ObserveUpstream(operation, outcome, time.Since(start))
	}

	if err != nil {
		return nil, fmt.Errorf("%s %sの呼び出しに失敗: %w", method, path, err)
	}
	return resp, nil
}

func productPath(id int) string {
	return PathProducts + "/" + strconv.Itoa(id)
}
