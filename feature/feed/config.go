package feed

// Config holds configuration for the distributor feed input.
type Config struct {
	// Path is a local feed file. When set it takes precedence over Object.
	Path string `mapstructure:"path" default:""`
	// Object is the feed snapshot object name in the storage bucket.
	Object string `mapstructure:"object" default:"rsrinventory-new.txt"`
	// Delimiter separates fields within one feed line.
	Delimiter string `mapstructure:"delimiter" default:";"`
	// MinFields is the minimum field count for a line to be accepted.
	// The distributor format carries 70-77 fields depending on feed version.
	MinFields int `mapstructure:"min_fields" default:"70"`
	// Offsets overrides individual logical-field column indexes. Unset
	// fields fall back to DefaultOffsets. Feed format drift is a config
	// change, not a code change.
	Offsets map[string]int `mapstructure:"offsets"`
}
