package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
)

// 商品フォームの項目名。
const (
	formName       = "nombre_producto"
	formPrice      = "precio"
	formStock      = "stock"
	formCategoryID = "id_categoria"
	formDiscountID = "id_descuento"
	formTaxID      = "id_iva"
	formSupplierID = "id_proveedor"
)

// FieldError は数値項目に数値として解釈できない値が入力されたことを表す。
type FieldError struct {
	// Field は項目名。
	Field string
	// Value は入力値。
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Valor inválido para %s: %q", e.Field, e.Value)
}

// parseProductForm はフォーム入力を商品の作成・更新要求に変換する。
// 空欄または未入力の数値項目は0とし、前後の空白は無視する。
func parseProductForm(c *gin.Context) (catalogapi.ProductInput, error) {
	in := catalogapi.ProductInput{Name: c.PostForm(formName)}

	rawPrice := strings.TrimSpace(c.PostForm(formPrice))
	if rawPrice != "" {
		p, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return catalogapi.ProductInput{}, &FieldError{Field: formPrice, Value: rawPrice}
		}
		in.Price = p
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{formStock, &in.Stock},
		{formCategoryID, &in.CategoryID},
		{formDiscountID, &in.DiscountID},
		{formTaxID, &in.TaxID},
		{formSupplierID, &in.SupplierID},
	}
	for _, f := range ints {
		n, err := parseInt(c.PostForm(f.name))
		if err != nil {
			return catalogapi.ProductInput{}, &FieldError{Field: f.name, Value: c.PostForm(f.name)}
		}
		*f.dst = n
	}
	return in, nil
}

func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
