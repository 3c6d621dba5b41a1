package risk

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogSize is the number of rules every evaluation returns.
const CatalogSize = 45

// defaultCatalog is parsed once at startup and never mutated.
var defaultCatalog = mustParseCatalog(catalogYAML, predicates)

type catalogFile struct {
	Rules []Rule `yaml:"rules"`
}

func mustParseCatalog(data []byte, preds map[int]Predicate) []Rule {
	rules, err := parseCatalog(data, preds)
	if err != nil {
		panic(fmt.Sprintf("risk: embedded catalog: %v", err))
	}
	return rules
}

// parseCatalog decodes rule text, marks rules that have a predicate and sorts into catalog order.
func parseCatalog(data []byte, preds map[int]Predicate) ([]Rule, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for i := range f.Rules {
		_, f.Rules[i].Quantified = preds[f.Rules[i].ID]
	}

	sort.SliceStable(f.Rules, func(i, j int) bool {
		oi, oj := f.Rules[i].Group.order(), f.Rules[j].Group.order()
		if oi != oj {
			return oi < oj
		}
		return f.Rules[i].ID < f.Rules[j].ID
	})

	if err := validateCatalog(f.Rules, preds); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

func validateCatalog(rules []Rule, preds map[int]Predicate) error {
	if len(rules) != CatalogSize {
		return fmt.Errorf("catalog has %d rules, want %d", len(rules), CatalogSize)
	}

	seen := make(map[int]bool, len(rules))
	perGroup := make(map[Group]int, len(Groups))
	for _, r := range rules {
		if r.ID < 1 || r.ID > CatalogSize {
			return fmt.Errorf("rule id %d out of range", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %d", r.ID)
		}
		seen[r.ID] = true
		if r.Group.order() < 0 {
			return fmt.Errorf("rule %d: unknown group %q", r.ID, r.Group)
		}
		if r.Name == "" || r.Condition == "" {
			return fmt.Errorf("rule %d: name and condition are required", r.ID)
		}
		perGroup[r.Group]++
	}

	for g, want := range groupSize {
		if perGroup[g] != want {
			return fmt.Errorf("group %s has %d rules, want %d", g, perGroup[g], want)
		}
	}

	for id := range preds {
		if !seen[id] {
			return fmt.Errorf("predicate bound to unknown rule %d", id)
		}
	}
	return nil
}

// Rules returns a copy of the catalog in catalog order.
func Rules() []Rule {
	out := make([]Rule, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// RuleByID looks up a catalog entry.
func RuleByID(id int) (Rule, bool) {
	for _, r := range defaultCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
