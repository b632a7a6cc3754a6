package population

import (
	"fmt"
	"strings"

	"github.com/roach88/lenspop/internal/simerr"
)

// Policy selects how DrawSource picks records.
type Policy int

const (
	// WithReplacement draws a uniformly random record; the catalog never
	// shrinks and never exhausts unless it started empty.
	WithReplacement Policy = iota

	// WithoutReplacement draws a uniformly random record and removes it.
	// The (N+1)th draw from an N-record catalog fails with an exhaustion error.
	WithoutReplacement

	// Sequential returns records in catalog order, exhausting after N draws.
	Sequential
)

var policyNames = map[Policy]string{
	WithReplacement:    "with-replacement",
	WithoutReplacement: "without-replacement",
	Sequential:         "sequential",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy resolves a policy name. The empty string selects WithReplacement.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WithReplacement, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, simerr.Configuration("policy", "unknown draw policy %q", s)
}
