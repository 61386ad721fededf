package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRuleFile = `
rule_sets:
  - attribute: caliber
    rules:
      - id: cal-9mm
        pattern: '9\s?MM'
        value: 9mm
        priority: 10
  - attribute: category
    disqualifiers:
      - id: dq-receiver
        pattern: 'RECEIVER'
    rules:
      - id: cat-pistol
        pattern: 'PISTOL'
        value: Handguns
        priority: 10
    fallback:
      id: fb-handgun
      value: Handguns
      when_department: ["1"]
`

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRuleSets(t *testing.T) {
	sets, err := LoadRuleSets(writeRuleFile(t, sampleRuleFile))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, AttrCaliber, sets[0].Attribute)
	assert.Len(t, sets[0].Rules, 1)

	assert.Equal(t, AttrCategory, sets[1].Attribute)
	assert.Len(t, sets[1].Disqualifiers, 1)
	require.NotNil(t, sets[1].Fallback)
	assert.Equal(t, []string{"1"}, sets[1].Fallback.WhenDepartment)

	// Loaded patterns are compiled and usable immediately.
	assert.True(t, sets[0].Rules[0].matches("glock 9mm"))
}

func TestLoadRuleSets_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty file", "rule_sets: []"},
		{"Bad pattern", "rule_sets:\n  - attribute: caliber\n    rules:\n      - id: broken\n        pattern: '9(MM'\n        value: 9mm"},
		{"Missing rule id", "rule_sets:\n  - attribute: caliber\n    rules:\n      - pattern: '9MM'\n        value: 9mm"},
		{"Not YAML", "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRuleSets(writeRuleFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRuleSetsFromConfig(t *testing.T) {
	t.Run("Defaults when unconfigured", func(t *testing.T) {
		sets, err := RuleSetsFromConfig("")
		require.NoError(t, err)
		assert.NotEmpty(t, sets)
	})

	t.Run("File when configured", func(t *testing.T) {
		sets, err := RuleSetsFromConfig(writeRuleFile(t, sampleRuleFile))
		require.NoError(t, err)
		assert.Len(t, sets, 2)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := RuleSetsFromConfig("/nonexistent/rules.yaml")
		assert.Error(t, err)
	})
}

func TestDefaultRuleSets_Compile(t *testing.T) {
	// The built-in tables must always compile; this is the canary for
	// vocabulary edits.
	assert.NotPanics(t, func() {
		sets := DefaultRuleSets()
		assert.NotEmpty(t, sets)
	})
}
