package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices, weights and costs go out as JSON numbers, as the mobile client expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the catalog (table produk)
type Product struct {
	ID     int64           `db:"id" json:"id"`
	Name   string          `db:"nama_produk" json:"nama_produk"`
	Price  decimal.Decimal `db:"harga" json:"harga"`
	Weight decimal.Decimal `db:"berat" json:"berat"`
	Stock  int             `db:"stok" json:"stok"`
}

// Order represents a placed order (table pesanan).
// ShippingCost is a copy of the matching Shipment's Cost, not a reference to it.
type Order struct {
	ID           int64           `db:"id" json:"id"`
	BuyerName    string          `db:"nama_pembeli" json:"nama_pembeli"`
	ProductID    int64           `db:"id_produk" json:"id_produk"`
	Quantity     int             `db:"jumlah" json:"jumlah"`
	Origin       string          `db:"origin" json:"origin"`
	Destination  string          `db:"destination" json:"destination"`
	TotalWeight  decimal.Decimal `db:"weight" json:"weight"`
	Courier      string          `db:"courier" json:"courier"`
	ShippingCost decimal.Decimal `db:"shipping_cost" json:"shipping_cost"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Shipment represents a shipping record (table pengiriman)
type Shipment struct {
	ID          int64           `db:"id" json:"id"`
	Origin      string          `db:"origin" json:"origin"`
	Destination string          `db:"destination" json:"destination"`
	TotalWeight decimal.Decimal `db:"weight" json:"weight"`
	Courier     string          `db:"courier" json:"courier"`
	Cost        decimal.Decimal `db:"cost" json:"cost"`
}
