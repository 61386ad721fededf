package feed

import (
	"errors"
	"fmt"

	"catalog-sync/feature/catalog"
)

// AllocationFlag describes the distributor's availability marker for a product.
type AllocationFlag string

const (
	AllocationNormal    AllocationFlag = "normal"
	AllocationAllocated AllocationFlag = "allocated"
	AllocationCloseout  AllocationFlag = "closeout"
	AllocationDeleted   AllocationFlag = "deleted"
)

// Record is one parsed feed line. It is ephemeral: records exist only for
// the duration of a run and are never persisted as-is.
type Record struct {
	StockNumber            catalog.StockNumber
	UPC                    string
	Description            string
	DepartmentCode         string
	ManufacturerCode       string
	MSRP                   float64
	DealerPrice            float64
	MAPPrice               float64
	Weight                 float64
	QuantityOnHand         int
	Model                  string
	ManufacturerName       string
	ManufacturerPartNumber catalog.SKU
	FullDescription        string
	ImageRef               string
	DropShipBlocked        bool
	Allocation             AllocationFlag

	// Coercions lists the logical fields that failed numeric parsing and
	// fell back to zero. The run summary aggregates these; silent zeroes
	// are how bad feed data used to go unnoticed.
	Coercions []string
}

// Logical field names used by the offset map and coercion accounting.
const (
	FieldStockNumber            = "stock_number"
	FieldUPC                    = "upc"
	FieldDescription            = "description"
	FieldDepartmentCode         = "department_code"
	FieldManufacturerCode       = "manufacturer_code"
	FieldMSRP                   = "msrp"
	FieldDealerPrice            = "dealer_price"
	FieldWeight                 = "weight"
	FieldQuantityOnHand         = "quantity_on_hand"
	FieldModel                  = "model"
	FieldManufacturerName       = "manufacturer_name"
	FieldManufacturerPartNumber = "manufacturer_part_number"
	FieldAllocation             = "allocation"
	FieldFullDescription        = "full_description"
	FieldImageRef               = "image_ref"
	FieldDropShipBlocked        = "drop_ship_blocked"
	FieldMAPPrice               = "map_price"
)

// DefaultOffsets is the column layout of the current 77-field feed version.
// Column indexes are zero-based.
func DefaultOffsets() map[string]int {
	return map[string]int{
		FieldStockNumber:            0,
		FieldUPC:                    1,
		FieldDescription:            2,
		FieldDepartmentCode:         3,
		FieldManufacturerCode:       4,
		FieldMSRP:                   5,
		FieldDealerPrice:            6,
		FieldWeight:                 7,
		FieldQuantityOnHand:         8,
		FieldModel:                  9,
		FieldManufacturerName:       10,
		FieldManufacturerPartNumber: 11,
		FieldAllocation:             12,
		FieldFullDescription:        13,
		FieldImageRef:               14,
		FieldDropShipBlocked:        68,
		FieldMAPPrice:               70,
	}
}

// ErrBlankLine marks a line that is empty or pure whitespace. Blank lines
// are skipped without counting as parse errors.
var ErrBlankLine = errors.New("blank line")

// ParseError describes why a feed line was rejected. Rejections are
// per-line: the line is counted and skipped, the run continues.
type ParseError struct {
	Reason string
	Field  string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse error: %s (%s)", e.Reason, e.Field)
	}
	return "parse error: " + e.Reason
}

const (
	// ReasonTooFewFields rejects lines shorter than the configured minimum.
	ReasonTooFewFields = "too few fields"
	// ReasonMissingRequired rejects lines lacking a required field.
	ReasonMissingRequired = "missing required field"
)
