// Package classify derives structured product attributes from the noisy
// free-text names in the distributor feed.
//
// # Rules as data
//
// Every attribute (caliber, action type, finish, category, FFL requirement)
// has one ordered RuleSet. Rules live in tables, not inline in extraction
// code: the built-in tables in defaults.go carry the shared vocabulary, and
// a YAML file can replace them per deployment. Each match records the id of
// the winning rule so a classification can always be traced back.
//
// # Determinism
//
// Matching is deterministic by construction: disqualifiers first (one hit
// forces the negative result), then highest priority wins, then declaration
// order. A record classified twice always classifies the same way.
package classify
