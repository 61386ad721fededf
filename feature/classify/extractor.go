package classify

import (
	"strings"

	"catalog-sync/feature/feed"
)

// Match records a derived attribute value along with the rule that
// produced it, so extraction decisions are auditable after the fact.
type Match struct {
	Value  string
	RuleID string
	// Disqualified is set when a disqualifier forced the negative result.
	Disqualified bool
	// Fallback is set when the value came from a named fallback rather
	// than a pattern match.
	Fallback bool
}

// Result maps each attribute to its winning match. Attributes with no match
// and no applicable fallback are simply absent.
type Result map[Attribute]Match

// Value returns the derived value for an attribute, or "" when unset.
func (r Result) Value(attr Attribute) string {
	return r[attr].Value
}

// Extract runs every rule set against the record's description text and
// returns the per-attribute results.
//
// Tie-break is deterministic: among matching positive rules the highest
// priority wins, and equal priorities resolve to the rule declared first.
// Disqualifiers are evaluated before any positive rule and short-circuit.
func Extract(rec *feed.Record, sets []RuleSet) Result {
	haystack := rec.Description
	if rec.FullDescription != "" {
		haystack += " " + rec.FullDescription
	}

	result := make(Result, len(sets))
	for i := range sets {
		if match, ok := apply(&sets[i], haystack, rec.DepartmentCode); ok {
			result[sets[i].Attribute] = match
		}
	}
	return result
}

func apply(rs *RuleSet, haystack, department string) (Match, bool) {
	for i := range rs.Disqualifiers {
		if rs.Disqualifiers[i].matches(haystack) {
			return Match{
				Value:        rs.DisqualifiedValue,
				RuleID:       rs.Disqualifiers[i].ID,
				Disqualified: true,
			}, true
		}
	}

	var best *Rule
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if !r.matches(haystack) {
			continue
		}
		// Strictly-greater keeps the first of equal-priority matches.
		if best == nil || r.Priority > best.Priority {
			best = r
		}
	}
	if best != nil {
		return Match{Value: best.Value, RuleID: best.ID}, true
	}

	if fb := rs.Fallback; fb != nil && fb.applies(department) {
		return Match{Value: fb.Value, RuleID: fb.ID, Fallback: true}, true
	}

	return Match{}, false
}

func (f *Fallback) applies(department string) bool {
	if len(f.WhenDepartment) == 0 {
		return true
	}
	for _, d := range f.WhenDepartment {
		if d == department {
			return true
		}
	}
	return false
}

// DepartmentCategory maps a feed department code to the base catalog
// category. The category rule set can override it (e.g. splitting long guns
// into rifles and shotguns), but unmapped departments land in Accessories.
func DepartmentCategory(code string) string {
	switch strings.TrimLeft(code, "0") {
	case "1", "2":
		return "Handguns"
	case "3", "4", "5":
		return "Rifles"
	case "6":
		return "NFA Products"
	case "8":
		return "Optics"
	case "10":
		return "Magazines"
	case "18":
		return "Ammunition"
	default:
		return "Accessories"
	}
}

// fflDepartments are the feed departments whose products are firearms and
// therefore always require an FFL transfer, independent of text rules.
var fflDepartments = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "4": {}, "5": {}, "6": {},
}

// RequiresFFL decides the FFL requirement for a record: firearm departments
// always require it; otherwise the FFL rule set result decides.
func RequiresFFL(department string, result Result) bool {
	if _, ok := fflDepartments[strings.TrimLeft(department, "0")]; ok {
		return true
	}
	return result.Value(AttrFFL) == "true"
}
