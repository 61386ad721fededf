package reconcile

import (
	"fmt"
	"strings"

	"catalog-sync/feature/feed"
)

// Platinum markup modes.
const (
	MarkupPercentage = "percentage"
	MarkupFlat       = "flat"
)

// PricingConfig holds the tier pricing derivation rules. Department
// discount rates come from configuration, never from code: the sales team
// tunes them per department without a deploy.
type PricingConfig struct {
	// BronzeMarkupPercent is applied to the dealer price when a product
	// has no usable MSRP.
	BronzeMarkupPercent float64 `mapstructure:"bronze_markup_percent" default:"10"`
	// GoldDiscountDefault is the Bronze discount (percent) for departments
	// without a specific rate. Required; a run must not start without it.
	GoldDiscountDefault float64 `mapstructure:"gold_discount_default" default:"5"`
	// GoldDiscounts maps department codes to discount percentages.
	GoldDiscounts map[string]float64 `mapstructure:"gold_discounts"`
	// PlatinumMarkupType is "percentage" or "flat".
	PlatinumMarkupType string `mapstructure:"platinum_markup_type" default:"percentage"`
	// PlatinumMarkupValue is the percent (or flat dollar amount) added to
	// the dealer price for the Platinum tier.
	PlatinumMarkupValue float64 `mapstructure:"platinum_markup_value" default:"2"`
}

// Validate reports configuration problems that must abort a run before any
// I/O happens. Partial work against a half-configured pricing table is
// worse than no work.
func (c PricingConfig) Validate() error {
	if c.GoldDiscountDefault <= 0 {
		return fmt.Errorf("pricing: gold_discount_default is required and must be positive")
	}
	switch c.PlatinumMarkupType {
	case MarkupPercentage, MarkupFlat:
	default:
		return fmt.Errorf("pricing: platinum_markup_type must be %q or %q, got %q",
			MarkupPercentage, MarkupFlat, c.PlatinumMarkupType)
	}
	return nil
}

// goldDiscount returns the discount percent for a department.
func (c PricingConfig) goldDiscount(department string) float64 {
	if rate, ok := c.GoldDiscounts[strings.TrimLeft(department, "0")]; ok {
		return rate
	}
	if rate, ok := c.GoldDiscounts[department]; ok {
		return rate
	}
	return c.GoldDiscountDefault
}

// Tiers is one product's derived tier pricing, at cent precision.
type Tiers struct {
	Bronze   float64
	Gold     float64
	Platinum float64
}

// DerivePricing computes tier pricing from a feed record:
//
//   - Bronze: MSRP when present and positive, else dealer price plus the
//     configured Bronze markup.
//   - Gold: MAP when present, positive, and distinct from MSRP, else Bronze
//     discounted at the department's rate.
//   - Platinum: dealer price plus the configured markup (flat or percent).
func DerivePricing(cfg PricingConfig, rec *feed.Record) Tiers {
	var t Tiers

	if rec.MSRP > 0 {
		t.Bronze = round2(rec.MSRP)
	} else {
		t.Bronze = round2(rec.DealerPrice * (1 + cfg.BronzeMarkupPercent/100))
	}

	// A MAP equal to MSRP carries no information: the distributor filled
	// the column with the retail price, so the discount rule applies.
	if rec.MAPPrice > 0 && !centsEqual(rec.MAPPrice, rec.MSRP) {
		t.Gold = round2(rec.MAPPrice)
	} else {
		t.Gold = round2(t.Bronze * (1 - cfg.goldDiscount(rec.DepartmentCode)/100))
	}

	if cfg.PlatinumMarkupType == MarkupFlat {
		t.Platinum = round2(rec.DealerPrice + cfg.PlatinumMarkupValue)
	} else {
		t.Platinum = round2(rec.DealerPrice * (1 + cfg.PlatinumMarkupValue/100))
	}

	return t
}
