package search

import (
	"catalog-sync/feature/catalog"
)

// Document is the search index projection of a product, keyed by
// manufacturer part number.
//
// Attribute facets use omitempty on purpose: an attribute the classifier
// could not derive must be absent from the document, not null or "". Faceted
// navigation treats null as a real value and would grow a garbage bucket.
type Document struct {
	ObjectID string `json:"objectID"`

	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	StockNumber  string `json:"stockNumber,omitempty"`
	UPC          string `json:"upc,omitempty"`
	Category     string `json:"category,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`

	PriceBronze   float64 `json:"priceBronze"`
	PriceGold     float64 `json:"priceGold"`
	PricePlatinum float64 `json:"pricePlatinum"`

	Caliber    string `json:"caliber,omitempty"`
	ActionType string `json:"actionType,omitempty"`
	Finish     string `json:"finish,omitempty"`

	InStock     bool     `json:"inStock"`
	RequiresFFL bool     `json:"requiresFFL"`
	Tags        []string `json:"tags,omitempty"`

	// CompleteFirearm ranks whole guns above parts and accessories that
	// mention the same model names.
	CompleteFirearm bool `json:"completeFirearm"`

	Active   bool   `json:"active"`
	ImageRef string `json:"imageRef,omitempty"`
}

var firearmCategories = map[string]struct{}{
	catalog.CategoryHandguns: {},
	catalog.CategoryRifles:   {},
	catalog.CategoryShotguns: {},
	catalog.CategoryNFA:      {},
}

// FromEntity projects a catalog product into its search document.
func FromEntity(p *catalog.Product) Document {
	_, firearm := firearmCategories[p.Category]
	return Document{
		ObjectID:        string(p.SKU),
		Name:            p.Name,
		Description:     p.Description,
		StockNumber:     string(p.DistributorStockNumber),
		UPC:             p.UPC,
		Category:        p.Category,
		Manufacturer:    p.Manufacturer,
		PriceBronze:     p.PriceBronze,
		PriceGold:       p.PriceGold,
		PricePlatinum:   p.PricePlatinum,
		Caliber:         p.Caliber,
		ActionType:      p.ActionType,
		Finish:          p.Finish,
		InStock:         p.InStock,
		RequiresFFL:     p.RequiresFFL,
		Tags:            p.Tags,
		CompleteFirearm: firearm,
		Active:          p.IsActive,
		ImageRef:        p.ImageRef,
	}
}
