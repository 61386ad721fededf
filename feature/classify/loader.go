package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for the classification rule sets.
type Config struct {
	// Path points at a YAML rule file. Empty means the built-in tables.
	Path string `mapstructure:"path" default:""`
}

// ruleFile is the on-disk shape of a rule set file.
type ruleFile struct {
	RuleSets []RuleSet `yaml:"rule_sets"`
}

// LoadRuleSets reads classification rule sets from a YAML file and compiles
// them. A loaded file replaces the built-in tables entirely, so operators
// can tune the vocabulary without a deploy.
func LoadRuleSets(path string) ([]RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}
	if len(file.RuleSets) == 0 {
		return nil, fmt.Errorf("rule file %s contains no rule sets", path)
	}

	if err := CompileAll(file.RuleSets); err != nil {
		return nil, err
	}
	return file.RuleSets, nil
}

// RuleSetsFromConfig returns the rule sets for a run: the YAML file when a
// path is configured, otherwise the built-in defaults.
func RuleSetsFromConfig(path string) ([]RuleSet, error) {
	if path == "" {
		return DefaultRuleSets(), nil
	}
	return LoadRuleSets(path)
}
