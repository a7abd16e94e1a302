package seed

import (
	"github.com/shopspring/decimal"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
)

// 投入するレコードの種類。メトリクスとログのラベルに使う。
const (
	KindCategory = "categoria"
	KindDiscount = "descuento"
	KindTax      = "impuesto"
	KindSupplier = "proveedor"
)

// Record は初期データ1件。
type Record struct {
	// Kind はレコードの種類。
	Kind string
	// Name はログ出力用の表示名。
	Name string
	// Path は投入先のカタログAPIのパス。
	Path string
	// Body はJSONとして送信する値。
	Body any
}

// DefaultRecords は起動時に投入する参照データを投入順に返す。
// カテゴリ、割引、税、仕入先の順に各5件。
func DefaultRecords() []Record {
	var records []Record

	for _, name := range []string{"Electrónica", "Ropa", "Alimentos", "Libros", "Hogar"} {
		records = append(records, Record{
			Kind: KindCategory,
			Name: name,
			Path: catalogapi.PathCategories,
			Body: catalogapi.Category{Name: name},
		})
	}

	for _, r := range []catalogapi.Rate{
		{Name: "Sin Descuento", Percentage: decimal.NewFromInt(0)},
		{Name: "Descuento 5%", Percentage: decimal.NewFromInt(5)},
		{Name: "Descuento 10%", Percentage: decimal.NewFromInt(10)},
		{Name: "Descuento 15%", Percentage: decimal.NewFromInt(15)},
		{Name: "Descuento 20%", Percentage: decimal.NewFromInt(20)},
	} {
		records = append(records, Record{Kind: KindDiscount, Name: r.Name, Path: catalogapi.PathDiscounts, Body: r})
	}

	for _, r := range []catalogapi.Rate{
		{Name: "IVA 0%", Percentage: decimal.NewFromInt(0)},
		{Name: "IVA 5%", Percentage: decimal.NewFromInt(5)},
		{Name: "IVA 16%", Percentage: decimal.NewFromInt(16)},
		{Name: "IVA 19%", Percentage: decimal.NewFromInt(19)},
		{Name: "IVA 21%", Percentage: decimal.NewFromInt(21)},
	} {
		records = append(records, Record{Kind: KindTax, Name: r.Name, Path: catalogapi.PathTaxes, Body: r})
	}

	for _, s := range []catalogapi.Supplier{
		{Name: "Proveedor A", Phone: "123456789", Email: "proveedorA@mail.com", Address: "Calle 123"},
		{Name: "Proveedor B", Phone: "987654321", Email: "proveedorB@mail.com", Address: "Calle 456"},
		{Name: "Proveedor C", Phone: "555666777", Email: "proveedorC@mail.com", Address: "Calle 789"},
		{Name: "Proveedor D", Phone: "111222333", Email: "proveedorD@mail.com", Address: "Calle 101"},
		{Name: "Proveedor E", Phone: "444555666", Email: "proveedorE@mail.com", Address: "Calle 202"},
	} {
		records = append(records, Record{Kind: KindSupplier, Name: s.Name, Path: catalogapi.PathSuppliers, Body: s})
	}

	return records
}
