// Package taxonomy normalizes free-text knowledge-domain strings against the
// canonical taxonomy at contribution-creation time. Scoring and the ledger
// only ever see canonical names.
package taxonomy

import (
	"strings"

	dErrors "kequity/pkg/domain-errors"
)

// canonicalDomains is the accepted taxonomy. Aliases fold common shorthand
// into canonical names.
var canonicalDomains = []string{
	"algorithms",
	"compilers",
	"databases",
	"distributed-systems",
	"formal-methods",
	"machine-learning",
	"networking",
	"operating-systems",
	"programming-languages",
	"security",
}

var aliases = map[string]string{
	"db":      "databases",
	"distsys": "distributed-systems",
	"infosec": "security",
	"ml":      "machine-learning",
	"os":      "operating-systems",
	"pl":      "programming-languages",
}

// Normalizer validates and canonicalizes domain strings.
type Normalizer struct {
	canonical map[string]struct{}
}

func New() *Normalizer {
	n := &Normalizer{canonical: make(map[string]struct{}, len(canonicalDomains))}
	for _, d := range canonicalDomains {
		n.canonical[d] = struct{}{}
	}
	return n
}

// Normalize folds case, whitespace, and aliases, then checks the canonical
// set. Unknown domains are a validation error.
func (n *Normalizer) Normalize(raw string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	domain = strings.Join(strings.Fields(domain), "-")
	if folded, ok := aliases[domain]; ok {
		domain = folded
	}
	if domain == "" {
		return "", dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	if _, ok := n.canonical[domain]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown domain: "+domain)
	}
	return domain, nil
}
