package models

import "time"

// ProductTotal is the archived per-product balance.
type ProductTotal struct {
	Product       string  `bson:"product" json:"product"`
	Unit          string  `bson:"unit" json:"unit"`
	TotalQuantity float64 `bson:"total_quantity" json:"totalQuantity"`
	MinimumStock  float64 `bson:"minimum_stock" json:"minimumStock"`
	LowStock      bool    `bson:"low_stock" json:"lowStock"`
}

// InventorySnapshot is the daily inventory summary archived in MongoDB.
type InventorySnapshot struct {
	Date             time.Time      `bson:"date" json:"date"`
	Records          int            `bson:"records" json:"records"`
	Locations        int            `bson:"locations" json:"locations"`
	Totals           []ProductTotal `bson:"totals" json:"totals"`
	LowStockProducts []string       `bson:"low_stock_products" json:"lowStockProducts"`
	ExpiringRecords  int            `bson:"expiring_records" json:"expiringRecords"`
	ExpiredRecords   int            `bson:"expired_records" json:"expiredRecords"`
	CreatedAt        time.Time      `bson:"created_at" json:"createdAt"`
}
