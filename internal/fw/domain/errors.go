package domain

import "errors"

// ErrInvalidRuleDefinition is returned when a rule is built from an address
// that is not an IP literal or a port outside 0-65535. Callers should match
// it with errors.Is; the returned error carries the offending value.
var ErrInvalidRuleDefinition = errors.New("invalid rule definition")
