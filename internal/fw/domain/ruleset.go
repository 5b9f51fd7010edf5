package domain

// RuleSet is an ordered, append-only collection of allow rules.
// The zero value is an empty set that blocks everything.
//
// A RuleSet does no locking; share it across goroutines only behind
// external synchronization (see services/firewall).
type RuleSet struct {
	rules []Rule
}

// NewRuleSet returns an empty RuleSet.
func NewRuleSet() *RuleSet { return &RuleSet{} }

// AddRule appends a rule. Only rules that bypassed NewRule are rejected.
func (s *RuleSet) AddRule(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	s.rules = append(s.rules, rule)
	return nil
}

// Add builds a rule from address and port and appends it.
func (s *RuleSet) Add(address string, port int) error {
	r, err := NewRule(address, port)
	if err != nil {
		return err
	}
	return s.AddRule(r)
}

// Decide returns Allow if any rule matches, otherwise Block.
func (s *RuleSet) Decide(address string, port int) Decision {
	if _, ok := s.Match(address, port); ok {
		return Allow
	}
	return Block
}

// Match returns the first rule, in insertion order, that matches.
func (s *RuleSet) Match(address string, port int) (Rule, bool) {
	for _, r := range s.rules {
		if r.Matches(address, port) {
			return r, true
		}
	}
	return Rule{}, false
}

// Len returns the number of rules.
func (s *RuleSet) Len() int { return len(s.rules) }

// Rules returns a copy of the rules in insertion order.
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}
