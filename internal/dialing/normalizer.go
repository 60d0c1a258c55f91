package dialing

import (
	"strings"

	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/domain"
)

// Normalizer canonicalizes raw destination strings into dialable identifiers.
// Bare digit strings are matched against a rule table of known domestic
// shapes; anything else is rejected rather than guessed at.
type Normalizer struct {
	rules []config.DialingRule
}

// NewNormalizer builds a normalizer from the configured rule table.
func NewNormalizer(rules []config.DialingRule) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize validates and canonicalizes raw. The second return value is false
// when the input does not match any accepted shape.
func (n *Normalizer) Normalize(raw string) (domain.Destination, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if rest, ok := strings.CutPrefix(s, "+"); ok {
		if rest == "" || !allDigits(rest) {
			return "", false
		}
		return domain.Destination(s), true
	}

	if !allDigits(s) {
		return "", false
	}

	for _, rule := range n.rules {
		if len(s) == rule.Length && strings.HasPrefix(s, rule.Prefix) {
			return domain.Destination("+" + s), true
		}
	}

	return "", false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
