package frontend

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
	"github.com/nao1215/catalogfront/pkg/middleware"
)

// handleProductsUI は管理画面を表示するハンドラを返す。
func (s *Server) handleProductsUI() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderManagement(c, http.StatusOK, "")
	}
}

// handleListProducts は商品一覧を表示するハンドラを返す。
// msgクエリがあれば一覧の上に表示する。取得に失敗した場合は空の一覧を表示する。
func (s *Server) handleListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.api.ListProducts(s.upstreamContext(c), middleware.GetCredential(c))
		if err != nil {
			s.logUpstreamFailure(err, "商品一覧の取得に失敗しました")
		}
		c.HTML(http.StatusOK, pageProductsList, gin.H{
			"Products": products,
			"Message":  c.Query("msg"),
		})
	}
}

// handleNewProductForm は空の商品作成フォームを表示するハンドラを返す。
func (s *Server) handleNewProductForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, pageProductForm, gin.H{
			"Title":   "Crear producto",
			"Action":  "/productos/new",
			"Product": catalogapi.Product{},
		})
	}
}

// handleCreateProduct は商品作成を中継するハンドラを返す。
func (s *Server) handleCreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := parseProductForm(c)
		if err != nil {
			s.renderManagement(c, http.StatusBadRequest, "❌ "+err.Error())
			return
		}

		resp, err := s.api.CreateProduct(s.upstreamContext(c), middleware.GetCredential(c), in)
		if err != nil {
			s.logger.WithError(err).Error("商品の作成に失敗しました")
			s.renderManagement(c, http.StatusBadGateway, "❌ Error de red al crear producto")
			return
		}
		if !resp.OK() {
			s.renderManagement(c, rejectedStatus(resp.StatusCode),
				fmt.Sprintf("❌ Error creando producto: %d %s", resp.StatusCode, resp.Text()))
			return
		}

		msg := fmt.Sprintf("✓ Producto '%s' creado exitosamente.", in.Name)
		c.Redirect(http.StatusFound, "/productos-list-msg?"+url.Values{"msg": {msg}}.Encode())
	}
}

// handleViewProduct は商品詳細を表示するハンドラを返す。
// 取得に失敗した場合は商品なしとして表示する。
func (s *Server) handleViewProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetInt(contextKeyProductID)
		product, err := s.api.GetProduct(s.upstreamContext(c), middleware.GetCredential(c), id)
		if err != nil {
			s.logUpstreamFailure(err, "商品の取得に失敗しました")
		}
		c.HTML(http.StatusOK, pageProductView, gin.H{
			"Product":   product,
			"ProductID": id,
			"Message":   c.Query("msg"),
		})
	}
}

// handleEditProductForm は既存の値を入れた商品編集フォームを表示するハンドラを返す。
func (s *Server) handleEditProductForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetInt(contextKeyProductID)
		product, err := s.api.GetProduct(s.upstreamContext(c), middleware.GetCredential(c), id)
		if err != nil {
			s.logUpstreamFailure(err, "編集対象の商品の取得に失敗しました")
			product = catalogapi.Product{}
		}
		c.HTML(http.StatusOK, pageProductForm, gin.H{
			"Title":   fmt.Sprintf("Editar producto %d", id),
			"Action":  fmt.Sprintf("/productos/%d/edit", id),
			"Product": product,
		})
	}
}

// handleUpdateProduct は商品更新を中継するハンドラを返す。
func (s *Server) handleUpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetInt(contextKeyProductID)
		in, err := parseProductForm(c)
		if err != nil {
			s.renderManagement(c, http.StatusBadRequest, "❌ "+err.Error())
			return
		}

		resp, err := s.api.UpdateProduct(s.upstreamContext(c), middleware.GetCredential(c), id, in)
		if err != nil {
			s.logger.WithError(err).WithField("product_id", id).Error("商品の更新に失敗しました")
			s.renderManagement(c, http.StatusBadGateway, "❌ Error de red al actualizar producto")
			return
		}
		if !resp.OK() {
			s.renderManagement(c, rejectedStatus(resp.StatusCode),
				fmt.Sprintf("❌ Error actualizando producto: %d %s", resp.StatusCode, resp.Text()))
			return
		}

		msg := fmt.Sprintf("✓ Producto '%s' actualizado exitosamente.", in.Name)
		c.Redirect(http.StatusFound, fmt.Sprintf("/productos/%d/msg?%s", id, url.Values{"msg": {msg}}.Encode()))
	}
}

// handleDeleteProduct は商品削除を中継するハンドラを返す。
func (s *Server) handleDeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetInt(contextKeyProductID)
		resp, err := s.api.DeleteProduct(s.upstreamContext(c), middleware.GetCredential(c), id)
		if err != nil {
			s.logger.WithError(err).WithField("product_id", id).Error("商品の削除に失敗しました")
			s.renderManagement(c, http.StatusBadGateway, "❌ Error de red al eliminar producto")
			return
		}
		if !resp.OK() {
			msg := strings.TrimSpace(fmt.Sprintf("❌ Error eliminando producto #%d: %d %s", id, resp.StatusCode, resp.Detail()))
			s.renderManagement(c, rejectedStatus(resp.StatusCode), msg)
			return
		}

		msg := fmt.Sprintf("✓ Producto #%d eliminado exitosamente.", id)
		c.Redirect(http.StatusFound, "/productos-list-msg?"+url.Values{"msg": {msg}}.Encode())
	}
}

// handleViewByQuery は ?id= で指定された商品の詳細へリダイレクトするハンドラを返す。
// ログインを必要としない。
func (s *Server) handleViewByQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("id")
		if raw == "" {
			c.Redirect(http.StatusFound, "/productos_ui")
			return
		}
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			s.renderManagement(c, http.StatusOK, "ID inválido")
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("/productos/%d", id))
	}
}

// logUpstreamFailure は表示を縮退させる取得失敗を種類ごとに記録する。
func (s *Server) logUpstreamFailure(err error, msg string) {
	var remoteErr *catalogapi.RemoteError
	entry := s.logger.WithError(err)
	switch {
	case errors.As(err, &remoteErr):
		entry.WithFields(logrus.Fields{"kind": "rejected", "status": remoteErr.StatusCode}).Warn(msg)
	case errors.Is(err, catalogapi.ErrMalformedBody):
		entry.WithField("kind", "malformed").Warn(msg)
	default:
		entry.WithField("kind", "network").Error(msg)
	}
}
