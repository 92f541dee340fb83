package rules

import (
	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/pysrc"
)

// Rule is a self-contained detector for one issue pattern within one
// category. Match must be pure: the same file content always yields
// the same findings, and a rule never emits findings outside its
// declared category. Rules do not return errors; a rule that cannot
// evaluate a file returns no findings for it.
type Rule interface {
	// Name returns the rule identifier (e.g. "dangerous-call").
	Name() string
	// Category returns the category every finding from this rule carries.
	Category() findings.Category
	// Match evaluates the rule against a single file.
	Match(f *pysrc.File) []findings.Raw
}

// Registry holds registered rules in registration order.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a new rule registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds rules to the registry.
func (r *Registry) Register(rr ...Rule) {
	r.rules = append(r.rules, rr...)
}

// Get returns the rule with the given name, or nil if not found.
func (r *Registry) Get(name string) Rule {
	for _, rule := range r.rules {
		if rule.Name() == name {
			return rule
		}
	}
	return nil
}

// All returns all registered rules.
func (r *Registry) All() []Rule {
	return r.rules
}

// ByCategory returns registered rules declaring the given category.
func (r *Registry) ByCategory(cat findings.Category) []Rule {
	var matched []Rule
	for _, rule := range r.rules {
		if rule.Category() == cat {
			matched = append(matched, rule)
		}
	}
	return matched
}
