package domain

// Decision is the binary outcome of evaluating an (address, port) pair.
type Decision string

const (
	// Allow means at least one rule matched.
	Allow Decision = "ALLOW"
	// Block means no rule matched.
	Block Decision = "BLOCK"
)

// String returns the literal decision value.
func (d Decision) String() string { return string(d) }

// IsAllowed is a convenience accessor.
func (d Decision) IsAllowed() bool { return d == Allow }
