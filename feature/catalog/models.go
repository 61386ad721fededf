package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SKU is the manufacturer part number, the natural key of the catalog.
//
// It is deliberately a distinct type from StockNumber: the distributor's
// order code looks just like a SKU and the two collide often enough that a
// plain string would let one silently stand in for the other. Every lookup,
// join, and search objectID is keyed by SKU and nothing else.
type SKU string

// StockNumber is the distributor's own stock/order code. It is kept on the
// product for placing orders with the distributor and is never used as a
// catalog key.
type StockNumber string

// Closed category taxonomy. The classifier only ever assigns one of these.
const (
	CategoryHandguns    = "Handguns"
	CategoryRifles      = "Rifles"
	CategoryShotguns    = "Shotguns"
	CategoryAmmunition  = "Ammunition"
	CategoryOptics      = "Optics"
	CategoryAccessories = "Accessories"
	CategoryParts       = "Parts"
	CategoryMagazines   = "Magazines"
	CategoryUppersLower = "Uppers/Lowers"
	CategoryNFA         = "NFA Products"
)

// StringList stores a []string as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(s))
}

// Product represents one catalog entry in the 'products' table.
type Product struct {
	ID                     uint        `gorm:"column:id;primaryKey"`
	SKU                    SKU         `gorm:"column:sku;uniqueIndex;size:100"`
	DistributorStockNumber StockNumber `gorm:"column:distributor_stock_number;size:100"`
	UPC                    string      `gorm:"column:upc;size:20"`
	Name                   string      `gorm:"column:name;size:255"`
	Description            string      `gorm:"column:description"`
	Category               string      `gorm:"column:category;size:64"`
	Manufacturer           string      `gorm:"column:manufacturer;size:128"`

	// Tiered pricing. Gold <= Bronze is expected but not enforced here;
	// the pricing derivation owns that relationship.
	PriceBronze    float64 `gorm:"column:price_bronze"`
	PriceGold      float64 `gorm:"column:price_gold"`
	PricePlatinum  float64 `gorm:"column:price_platinum"`
	PriceMSRP      float64 `gorm:"column:price_msrp"`
	PriceMAP       float64 `gorm:"column:price_map"`
	PriceWholesale float64 `gorm:"column:price_wholesale"`

	StockQuantity int  `gorm:"column:stock_quantity"`
	InStock       bool `gorm:"column:in_stock"`
	RequiresFFL   bool `gorm:"column:requires_ffl"`

	// Attributes extracted from free-text descriptions. Empty means the
	// classifier had no match, not "unknown" guessed to a value.
	Caliber      string `gorm:"column:caliber;size:64"`
	BarrelLength string `gorm:"column:barrel_length;size:32"`
	Finish       string `gorm:"column:finish;size:64"`
	FrameSize    string `gorm:"column:frame_size;size:32"`
	ActionType   string `gorm:"column:action_type;size:32"`
	SightType    string `gorm:"column:sight_type;size:64"`
	ReceiverType string `gorm:"column:receiver_type;size:64"`

	Tags StringList `gorm:"column:tags;type:json"`

	Weight          float64 `gorm:"column:weight"`
	ImageRef        string  `gorm:"column:image_ref;size:255"`
	DropShipBlocked bool    `gorm:"column:drop_ship_blocked"`
	AllocationFlag  string  `gorm:"column:allocation_flag;size:16"`

	// IsActive is the soft-delete flag. Products absent from a feed run are
	// deactivated, never hard-deleted.
	IsActive bool `gorm:"column:is_active"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Product) TableName() string {
	return "products"
}

// ProductColumns lists the columns the sync pipeline writes. The verify
// command checks the live schema against this list.
var ProductColumns = []string{
	"id", "sku", "distributor_stock_number", "upc", "name", "description",
	"category", "manufacturer",
	"price_bronze", "price_gold", "price_platinum",
	"price_msrp", "price_map", "price_wholesale",
	"stock_quantity", "in_stock", "requires_ffl",
	"caliber", "barrel_length", "finish", "frame_size",
	"action_type", "sight_type", "receiver_type",
	"tags", "weight", "image_ref", "drop_ship_blocked", "allocation_flag",
	"is_active", "created_at", "updated_at",
}
