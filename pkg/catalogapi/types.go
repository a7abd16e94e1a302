package catalogapi

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Credentials はログイン要求のボディ。
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration は利用者登録要求のボディ。
type Registration struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Product はカタログAPIが返す商品。項目はリモート側が所有するため汎用のJSONオブジェクトとして扱う。
type Product map[string]any

// ProductInput は商品の作成・更新要求のボディ。
type ProductInput struct {
	// Name は商品名。
	Name string
	// Price は価格。JSONでは数値として送信する。
	Price decimal.Decimal
	// Stock は在庫数。
	Stock int
	// CategoryID はカテゴリID。
	CategoryID int
	// DiscountID は割引ID。
	DiscountID int
	// TaxID は税ID。
	TaxID int
	// SupplierID は仕入先ID。
	SupplierID int
}

// productWire はカタログAPIのフィールド名に対応するワイヤ形式。
type productWire struct {
	Name       string      `json:"nombre_producto"`
	Price      json.Number `json:"precio"`
	Stock      int         `json:"stock"`
	CategoryID int         `json:"id_categoria"`
	DiscountID int         `json:"id_descuento"`
	TaxID      int         `json:"id_iva"`
	SupplierID int         `json:"id_proveedor"`
}

// MarshalJSON は価格を文字列ではなくJSON数値として出力する。
func (p ProductInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(productWire{
		Name:       p.Name,
		Price:      json.Number(p.Price.String()),
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		DiscountID: p.DiscountID,
		TaxID:      p.TaxID,
		SupplierID: p.SupplierID,
	})
}

// Category は初期データのカテゴリ。
type Category struct {
	Name string `json:"nombre_categoria"`
}

// Rate は初期データの割引・税。
type Rate struct {
	Name       string
	Percentage decimal.Decimal
}

// MarshalJSON は割合をJSON数値として出力する。
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string      `json:"nombre"`
		Percentage json.Number `json:"porcentaje"`
	}{
		Name:       r.Name,
		Percentage: json.Number(r.Percentage.StringFixed(1)),
	})
}

// Supplier は初期データの仕入先。
type Supplier struct {
	Name    string `json:"nombre"`
	Phone   string `json:"telefono"`
	Email   string `json:"email"`
	Address string `json:"direccion"`
}
