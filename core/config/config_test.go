package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "catalog", cfg.Database.Name)
	assert.Equal(t, ";", cfg.Feed.Delimiter)
	assert.Equal(t, 70, cfg.Feed.MinFields)
	assert.Equal(t, 10.0, cfg.Pricing.BronzeMarkupPercent)
	assert.Equal(t, 5.0, cfg.Pricing.GoldDiscountDefault)
	assert.Equal(t, "percentage", cfg.Pricing.PlatinumMarkupType)
	assert.Equal(t, 500, cfg.Search.BatchSize)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.False(t, cfg.Pipeline.DeactivateMissing)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PRICING_GOLD_DISCOUNT_DEFAULT", "7.5")
	t.Setenv("FEED_MIN_FIELDS", "15")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7.5, cfg.Pricing.GoldDiscountDefault)
	assert.Equal(t, 15, cfg.Feed.MinFields)
}

func TestLoadConfig_YAMLTables(t *testing.T) {
	dir := t.TempDir()
	yaml := `
pricing:
  gold_discounts:
    "18": 10
    "8": 7
feed:
  offsets:
    map_price: 75
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Pricing.GoldDiscounts["18"])
	assert.Equal(t, 7.0, cfg.Pricing.GoldDiscounts["8"])
	assert.Equal(t, 75, cfg.Feed.Offsets["map_price"])
}

func TestConfigValidate(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	// Search is enabled by default but unconfigured.
	assert.Error(t, cfg.Validate())

	cfg.Search.Enabled = false
	assert.NoError(t, cfg.Validate())

	cfg.Search.Enabled = true
	cfg.Search.AppID = "APP123"
	cfg.Search.APIKey = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Pricing.GoldDiscountDefault = 0
	assert.Error(t, cfg.Validate())
}
