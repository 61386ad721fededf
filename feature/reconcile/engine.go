package reconcile

import (
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/classify"
	"catalog-sync/feature/feed"

	"go.uber.org/zap"
)

// Engine turns parsed, classified feed records into a changeset against the
// stored catalog. It performs no I/O itself: the caller supplies the stored
// index and applies the resulting ops.
type Engine struct {
	pricing PricingConfig
	logger  *zap.Logger
}

// NewEngine constructs a reconciliation engine.
func NewEngine(pricing PricingConfig, logger *zap.Logger) *Engine {
	return &Engine{pricing: pricing, logger: logger}
}

// Reconcile decides an op for every incoming record against the stored
// index, keyed by manufacturer part number. Running the same feed twice
// against an up-to-date store yields only no-ops.
func (e *Engine) Reconcile(index map[catalog.SKU]*catalog.Product, incoming []Incoming) *Changeset {
	cs := &Changeset{}
	for i := range incoming {
		cs.Add(e.Decide(index[incoming[i].Record.ManufacturerPartNumber], &incoming[i]))
	}
	return cs
}

// Decide reconciles a single record against its stored counterpart, if any.
func (e *Engine) Decide(existing *catalog.Product, inc *Incoming) ChangeOp {
	rec := inc.Record

	if rec.ManufacturerPartNumber == "" {
		e.logger.Warn("record has no manufacturer part number, rejecting",
			zap.String("stock_number", string(rec.StockNumber)))
		return ChangeOp{
			Type:   OpRejected,
			Reason: "missing manufacturer part number",
		}
	}

	desired := e.project(inc)

	if existing == nil {
		return ChangeOp{Type: OpInsert, SKU: desired.SKU, Entity: desired}
	}

	d := diff(existing, desired)
	if len(d) == 0 {
		return ChangeOp{Type: OpNoOp, SKU: desired.SKU, Entity: desired}
	}
	return ChangeOp{
		Type:   OpUpdate,
		SKU:    desired.SKU,
		ID:     existing.ID,
		Entity: desired,
		Diff:   d,
	}
}

// project builds the desired end state of a product from its feed record
// and extracted attributes.
func (e *Engine) project(inc *Incoming) *catalog.Product {
	rec := inc.Record
	tiers := DerivePricing(e.pricing, rec)

	p := &catalog.Product{
		SKU:                    rec.ManufacturerPartNumber,
		DistributorStockNumber: rec.StockNumber,
		UPC:                    rec.UPC,
		Name:                   rec.Description,
		Description:            fullDescription(rec),
		Category:               category(rec, inc.Attrs),
		Manufacturer:           rec.ManufacturerName,

		PriceBronze:    tiers.Bronze,
		PriceGold:      tiers.Gold,
		PricePlatinum:  tiers.Platinum,
		PriceMSRP:      rec.MSRP,
		PriceMAP:       rec.MAPPrice,
		PriceWholesale: rec.DealerPrice,

		StockQuantity: rec.QuantityOnHand,
		InStock:       rec.QuantityOnHand > 0,
		RequiresFFL:   classify.RequiresFFL(rec.DepartmentCode, inc.Attrs),

		Caliber:    inc.Attrs.Value(classify.AttrCaliber),
		Finish:     inc.Attrs.Value(classify.AttrFinish),
		ActionType: inc.Attrs.Value(classify.AttrActionType),

		Weight:          rec.Weight,
		ImageRef:        rec.ImageRef,
		DropShipBlocked: rec.DropShipBlocked,
		AllocationFlag:  string(rec.Allocation),

		IsActive: true,
	}
	p.Tags = tags(p)
	return p
}

// category resolves the catalog category: the rule set wins over the
// department mapping, and a disqualified match downgrades a department
// handgun to Parts. An AR pistol or stripped receiver in the handgun
// department must never be listed as a handgun.
func category(rec *feed.Record, attrs classify.Result) string {
	cat := classify.DepartmentCategory(rec.DepartmentCode)
	m, ok := attrs[classify.AttrCategory]
	if !ok {
		return cat
	}
	if m.Disqualified {
		if cat == catalog.CategoryHandguns {
			return catalog.CategoryParts
		}
		return cat
	}
	if m.Value != "" {
		return m.Value
	}
	return cat
}

func fullDescription(rec *feed.Record) string {
	if rec.FullDescription != "" {
		return rec.FullDescription
	}
	return rec.Description
}

func tags(p *catalog.Product) catalog.StringList {
	var t catalog.StringList
	for _, v := range []string{p.Category, p.Caliber, p.ActionType, p.Finish} {
		if v != "" {
			t = append(t, v)
		}
	}
	return t
}

// diff compares stored and desired products column by column. Prices
// compare at cent precision so float representation noise does not produce
// phantom updates. Attribute columns without rule coverage (barrel length,
// frame size, sights, receiver) are left untouched; they may be curated by
// hand and the feed has nothing to say about them.
func diff(existing, desired *catalog.Product) catalog.FieldDiff {
	d := catalog.FieldDiff{}

	str := func(col, prev, next string) {
		if prev != next {
			d[col] = next
		}
	}
	price := func(col string, prev, next float64) {
		if !centsEqual(prev, next) {
			d[col] = next
		}
	}

	str("distributor_stock_number", string(existing.DistributorStockNumber), string(desired.DistributorStockNumber))
	str("upc", existing.UPC, desired.UPC)
	str("name", existing.Name, desired.Name)
	str("description", existing.Description, desired.Description)
	str("category", existing.Category, desired.Category)
	str("manufacturer", existing.Manufacturer, desired.Manufacturer)

	price("price_bronze", existing.PriceBronze, desired.PriceBronze)
	price("price_gold", existing.PriceGold, desired.PriceGold)
	price("price_platinum", existing.PricePlatinum, desired.PricePlatinum)
	price("price_msrp", existing.PriceMSRP, desired.PriceMSRP)
	price("price_map", existing.PriceMAP, desired.PriceMAP)
	price("price_wholesale", existing.PriceWholesale, desired.PriceWholesale)

	if existing.StockQuantity != desired.StockQuantity {
		d["stock_quantity"] = desired.StockQuantity
	}
	if existing.InStock != desired.InStock {
		d["in_stock"] = desired.InStock
	}
	if existing.RequiresFFL != desired.RequiresFFL {
		d["requires_ffl"] = desired.RequiresFFL
	}

	str("caliber", existing.Caliber, desired.Caliber)
	str("finish", existing.Finish, desired.Finish)
	str("action_type", existing.ActionType, desired.ActionType)

	if !tagsEqual(existing.Tags, desired.Tags) {
		d["tags"] = desired.Tags
	}

	price("weight", existing.Weight, desired.Weight)
	str("image_ref", existing.ImageRef, desired.ImageRef)
	if existing.DropShipBlocked != desired.DropShipBlocked {
		d["drop_ship_blocked"] = desired.DropShipBlocked
	}
	str("allocation_flag", existing.AllocationFlag, desired.AllocationFlag)

	if !existing.IsActive {
		d["is_active"] = true
	}

	return d
}

func tagsEqual(a, b catalog.StringList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
