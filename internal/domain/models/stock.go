package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// StockStatus is the persisted availability flag of a stock record.
type StockStatus string

const (
	StatusAvailable   StockStatus = "disponivel"
	StatusUnavailable StockStatus = "indisponivel"
)

// Valid reports whether s is one of the known statuses.
func (s StockStatus) Valid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// StockRecord is one packaging unit or lot entry held at a location.
type StockRecord struct {
	ID              string          `json:"id"`
	Product         string          `json:"product"`
	Manufacturer    string          `json:"manufacturer"`
	Batch           string          `json:"batch"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	Packaging       string          `json:"packaging"`
	PackagingNumber int             `json:"packagingNumber"`
	MinimumStock    decimal.Decimal `json:"minimumStock"`
	Invoice         string          `json:"invoice"`
	ExpirationDate  *Date           `json:"expirationDate"`
	Location        string          `json:"location"`
	Status          StockStatus     `json:"status"`
}

// Label renders the record the way audit log details reference it.
func (r StockRecord) Label() string {
	return fmt.Sprintf("%s (Lote: %s)", r.Product, r.Batch)
}

// Available reports whether the record currently holds usable stock.
func (r StockRecord) Available() bool {
	return r.Status == StatusAvailable && r.Quantity.IsPositive()
}

// Settle clamps an exhausted record to zero and marks it unavailable.
func (r *StockRecord) Settle() {
	if !r.Quantity.IsPositive() {
		r.Quantity = decimal.Zero
		r.Status = StatusUnavailable
	}
}

// Clone returns a deep copy of the record.
func (r StockRecord) Clone() StockRecord {
	out := r
	if r.ExpirationDate != nil {
		d := *r.ExpirationDate
		out.ExpirationDate = &d
	}
	return out
}
