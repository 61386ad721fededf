package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStore is the MySQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over an established database connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindBySKU returns the product with the given SKU, or nil if absent.
func (s *GormStore) FindBySKU(ctx context.Context, sku SKU) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("find", err)
	}
	return &p, nil
}

// LoadIndex bulk-loads every product keyed by SKU.
// Inactive products are included so a product returning to the feed is
// reactivated by update rather than duplicated by insert.
func (s *GormStore) LoadIndex(ctx context.Context) (map[SKU]*Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, wrapStoreErr("load index", err)
	}

	index := make(map[SKU]*Product, len(products))
	for i := range products {
		p := &products[i]
		if p.SKU == "" {
			continue
		}
		index[p.SKU] = p
	}
	return index, nil
}

// Insert persists a new product.
func (s *GormStore) Insert(ctx context.Context, p *Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return wrapStoreErr("insert", err)
	}
	return nil
}

// Update applies a partial field diff to the product with the given id.
func (s *GormStore) Update(ctx context.Context, id uint, diff FieldDiff) error {
	if len(diff) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any(diff)).Error
	if err != nil {
		return wrapStoreErr("update", err)
	}
	return nil
}

// deactivateChunkSize bounds the IN clause when flagging absent products.
const deactivateChunkSize = 500

// DeactivateAbsent flags every active product whose SKU is not in seen as
// inactive and returns the flagged SKUs.
func (s *GormStore) DeactivateAbsent(ctx context.Context, seen map[SKU]struct{}) ([]SKU, error) {
	var active []Product
	err := s.db.WithContext(ctx).
		Select("id", "sku").
		Where("is_active = ?", true).
		Find(&active).Error
	if err != nil {
		return nil, wrapStoreErr("deactivate: load active", err)
	}

	var absent []SKU
	for i := range active {
		if _, ok := seen[active[i].SKU]; !ok {
			absent = append(absent, active[i].SKU)
		}
	}
	if len(absent) == 0 {
		return nil, nil
	}

	var deactivated []SKU
	for start := 0; start < len(absent); start += deactivateChunkSize {
		end := start + deactivateChunkSize
		if end > len(absent) {
			end = len(absent)
		}
		chunk := absent[start:end]
		res := s.db.WithContext(ctx).
			Model(&Product{}).
			Where("sku IN ?", chunk).
			Update("is_active", false)
		if res.Error != nil {
			return deactivated, wrapStoreErr("deactivate", res.Error)
		}
		deactivated = append(deactivated, chunk...)
	}
	return deactivated, nil
}
