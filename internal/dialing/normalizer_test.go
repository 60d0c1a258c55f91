package dialing

import (
	"testing"

	"github.com/acme/voice-dialer/internal/config"
)

func defaultRules() []config.DialingRule {
	return []config.DialingRule{
		{Length: 11, Prefix: "1"},
		{Length: 12, Prefix: "91"},
	}
}

func TestNormalizeAcceptsPrefixedNumbers(t *testing.T) {
	n := NewNormalizer(defaultRules())

	cases := []string{"+15550001111", "  +447911123456 ", "+919812345678"}
	for _, raw := range cases {
		dest, ok := n.Normalize(raw)
		if !ok {
			t.Fatalf("expected %q to be accepted", raw)
		}
		if dest[0] != '+' {
			t.Fatalf("expected marker prefix, got %q", dest)
		}
	}
}

func TestNormalizeNeverDoublePrefixes(t *testing.T) {
	n := NewNormalizer(defaultRules())

	dest, ok := n.Normalize("+15550001111")
	if !ok {
		t.Fatal("expected accept")
	}
	if dest != "+15550001111" {
		t.Fatalf("expected unchanged number, got %q", dest)
	}
}

func TestNormalizeAppliesRuleTable(t *testing.T) {
	n := NewNormalizer(defaultRules())

	cases := map[string]string{
		"15550001111":  "+15550001111",
		"919812345678": "+919812345678",
	}
	for raw, want := range cases {
		dest, ok := n.Normalize(raw)
		if !ok {
			t.Fatalf("expected %q to match a rule", raw)
		}
		if string(dest) != want {
			t.Fatalf("normalize(%q) = %q, want %q", raw, dest, want)
		}
	}
}

func TestNormalizeRejections(t *testing.T) {
	n := NewNormalizer(defaultRules())

	cases := []string{
		"",
		"   ",
		"+",
		"+1555abc1111",
		"555-000-1111",
		"15550001111x",
		"25550001111",   // 11 digits, wrong leading digit
		"551234567890",  // 12 digits, wrong leading sequence
		"5550001111",    // unrecognized length
	}
	for _, raw := range cases {
		if _, ok := n.Normalize(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}
