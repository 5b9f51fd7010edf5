package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

const (
	// MinPort is the lowest port a rule may allow.
	MinPort = 0
	// MaxPort is the highest port a rule may allow.
	MaxPort = 65535
)

// Rule permits exactly one (address, port) pair.
//
// Notes:
//   - Fields are unexported so a Rule cannot change after construction.
//   - Address is compared by exact string equality; "10.0.0.1" and
//     "010.000.000.001" are different rules. No subnets, no wildcards.
type Rule struct {
	address string
	port    uint16
	valid   bool
}

// NewRule constructs a Rule and validates its fields. Surrounding
// whitespace on the address is trimmed before it is stored.
func NewRule(address string, port int) (Rule, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Rule{}, fmt.Errorf("%w: address must not be empty", ErrInvalidRuleDefinition)
	}
	if net.ParseIP(address) == nil {
		return Rule{}, fmt.Errorf("%w: address %q is not an IP literal", ErrInvalidRuleDefinition, address)
	}
	if port < MinPort || port > MaxPort {
		return Rule{}, fmt.Errorf("%w: port %d out of range %d-%d", ErrInvalidRuleDefinition, port, MinPort, MaxPort)
	}
	return Rule{address: address, port: uint16(port), valid: true}, nil
}

// MustRule is like NewRule but panics on error. Intended for tests and
// static policy tables.
func MustRule(address string, port int) Rule {
	r, err := NewRule(address, port)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRule parses a "host:port" rule spec. IPv6 hosts must be bracketed.
func ParseRule(spec string) (Rule, error) {
	ep, err := ParseEndpoint(spec)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %v", ErrInvalidRuleDefinition, err)
	}
	return NewRule(ep.Address, ep.Port)
}

// ParseRules parses every spec and returns the rules in input order.
// All failures are reported together; the result is nil if any spec is bad.
func ParseRules(specs []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	var errs error
	for _, spec := range specs {
		r, err := ParseRule(spec)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rules = append(rules, r)
	}
	if errs != nil {
		return nil, errs
	}
	return rules, nil
}

// Validate reports whether the rule was built by NewRule. The zero Rule is invalid.
func (r Rule) Validate() error {
	if !r.valid {
		return fmt.Errorf("%w: rule was not built with NewRule", ErrInvalidRuleDefinition)
	}
	return nil
}

// Address returns the allowed address.
func (r Rule) Address() string { return r.address }

// Port returns the allowed port.
func (r Rule) Port() int { return int(r.port) }

// Endpoint returns the allowed pair as an Endpoint.
func (r Rule) Endpoint() Endpoint { return Endpoint{Address: r.address, Port: int(r.port)} }

// Matches returns true iff address and port both equal the rule's values.
func (r Rule) Matches(address string, port int) bool {
	return r.valid && address == r.address && port == int(r.port)
}

// String renders the rule as host:port.
func (r Rule) String() string {
	return net.JoinHostPort(r.address, strconv.Itoa(int(r.port)))
}
