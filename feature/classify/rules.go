package classify

import (
	"fmt"
	"regexp"
)

// Attribute names a classified product attribute.
type Attribute string

const (
	AttrCaliber    Attribute = "caliber"
	AttrActionType Attribute = "action_type"
	AttrFinish     Attribute = "finish"
	AttrCategory   Attribute = "category"
	AttrFFL        Attribute = "ffl"
)

// Rule is one pattern→value mapping. Rules are data: they are declared in
// rule set tables (or a YAML file) and never inlined next to the code that
// applies them, so every extraction job shares one tested vocabulary.
type Rule struct {
	// ID names the rule for auditability; every match records which rule won.
	ID string `yaml:"id"`
	// Pattern is a regular expression, applied case-insensitively.
	Pattern string `yaml:"pattern"`
	// Value is the derived attribute value when the pattern matches.
	Value string `yaml:"value"`
	// Priority breaks ties between matching rules: highest wins, and among
	// equal priorities the rule declared first wins.
	Priority int `yaml:"priority"`

	re *regexp.Regexp
}

// Fallback is an explicit, named default applied when no rule matches.
// Unmatched attributes are otherwise left unset; a fallback only exists
// where the domain documents one.
type Fallback struct {
	ID    string `yaml:"id"`
	Value string `yaml:"value"`
	// WhenDepartment restricts the fallback to records from the listed
	// feed departments. Empty means unconditional.
	WhenDepartment []string `yaml:"when_department"`
}

// RuleSet is the ordered rule list for a single attribute.
//
// Disqualifiers run before the positive rules and short-circuit: one
// disqualifier match forces the negative result regardless of what the
// positive rules would have said. This is how a rifle-platform pattern
// vetoes a handgun classification.
type RuleSet struct {
	Attribute Attribute `yaml:"attribute"`
	// DisqualifiedValue is the value recorded when a disqualifier fires.
	DisqualifiedValue string    `yaml:"disqualified_value"`
	Disqualifiers     []Rule    `yaml:"disqualifiers"`
	Rules             []Rule    `yaml:"rules"`
	Fallback          *Fallback `yaml:"fallback,omitempty"`
}

// Compile compiles every pattern in the set. Patterns are wrapped with (?i)
// so matching is case-insensitive throughout.
func (rs *RuleSet) Compile() error {
	for i := range rs.Disqualifiers {
		if err := rs.Disqualifiers[i].compile(); err != nil {
			return fmt.Errorf("rule set %s: %w", rs.Attribute, err)
		}
	}
	for i := range rs.Rules {
		if err := rs.Rules[i].compile(); err != nil {
			return fmt.Errorf("rule set %s: %w", rs.Attribute, err)
		}
	}
	return nil
}

func (r *Rule) compile() error {
	if r.ID == "" {
		return fmt.Errorf("rule with pattern %q has no id", r.Pattern)
	}
	re, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	r.re = re
	return nil
}

func (r *Rule) matches(text string) bool {
	return r.re != nil && r.re.MatchString(text)
}

// CompileAll compiles a slice of rule sets in place.
func CompileAll(sets []RuleSet) error {
	for i := range sets {
		if err := sets[i].Compile(); err != nil {
			return err
		}
	}
	return nil
}
