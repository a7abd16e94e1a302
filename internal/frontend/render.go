package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// 画面テンプレート名。
const (
	pageLogin        = "login.gohtml"
	pageRegister     = "register.gohtml"
	pageProductsUI   = "products_ui.gohtml"
	pageProductsList = "products_list.gohtml"
	pageProductForm  = "product_form.gohtml"
	pageProductView  = "product_view.gohtml"
)

// loadTemplates は埋め込みテンプレートを読み込む。
func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"field":     field,
		"price":     price,
		"productID": productID,
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの読み込みに失敗: %w", err)
	}
	return tmpl, nil
}

// field は商品の項目を表示用の文字列にする。存在しない項目は空文字を返す。
func field(p catalogapi.Product, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// price は価格を小数点以下2桁で表示する。数値として解釈できなければそのまま返す。
func price(p catalogapi.Product) string {
	raw := field(p, "precio")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return d.StringFixed(2)
}

// productID は一覧からリンクを張るための商品IDを返す。
func productID(p catalogapi.Product) string {
	for _, key := range []string{"id_producto", "id"} {
		if id := field(p, key); id != "" {
			return id
		}
	}
	return ""
}
