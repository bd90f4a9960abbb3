package morph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAffixesOf(t *testing.T) {
	tests := []struct {
		word string
		typ  AffixType
		want []string
	}{
		// Prefixes are capped at MaxAffixLength and must leave a three
		// character stem.
		{"hamburger", Prefix, []string{"", "h", "ha", "ham", "hamb", "hambu"}},
		{"hamburger", Suffix, []string{"", "urger", "rger", "ger", "er", "r"}},
		// Too short for even the null affix.
		{"ha", Prefix, nil},
		{"ha", Suffix, nil},
		// Exactly the minimum stem: only the null affix.
		{"ham", Prefix, []string{""}},
		{"ham", Suffix, []string{""}},
	}
	for _, tt := range tests {
		got := AffixesOf(tt.word, tt.typ)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("AffixesOf(%q, %v) mismatch (-want +got):\n%s", tt.word, tt.typ, diff)
		}
	}
}

func TestIsBadAffixPair(t *testing.T) {
	tests := []struct {
		affix1, affix2 string
		typ            AffixType
		want           bool
	}{
		// Suffixes share at the front.
		{"e", "ed", Suffix, true},
		{"ed", "ed", Suffix, true},
		{"s", "st", Suffix, true},
		{"ing", "ed", Suffix, false},
		{"ed", "ing", Suffix, false},
		// The null source affix is never bad.
		{"", "ed", Suffix, false},
		{"", "s", Suffix, false},
		// Prefixes share at the back.
		{"be", "de", Prefix, true},
		{"un", "in", Prefix, true},
		{"un", "re", Prefix, false},
	}
	for _, tt := range tests {
		a1 := NewAffix(tt.affix1, tt.typ)
		a2 := NewAffix(tt.affix2, tt.typ)
		if got := IsBadAffixPair(a1, a2, tt.typ); got != tt.want {
			t.Errorf("IsBadAffixPair(%q, %q, %v) = %v, want %v", tt.affix1, tt.affix2, tt.typ, got, tt.want)
		}
	}
}

func TestHasAffixText(t *testing.T) {
	ed := NewAffix("ed", Suffix)
	if !HasAffixText("walked", ed) {
		t.Errorf("walked should carry the suffix ed")
	}
	// The residual stem "fe" is below the minimum, so despite the ending the
	// word does not carry the affix.
	if HasAffixText("feed", ed) {
		t.Errorf("feed should not carry the suffix ed")
	}

	un := NewAffix("un", Prefix)
	if !HasAffixText("unfit", un) {
		t.Errorf("unfit should carry the prefix un")
	}
	if HasAffixText("unit", un) {
		t.Errorf("unit should not carry the prefix un")
	}
}

func TestAffixString(t *testing.T) {
	if got := NewAffix("", Suffix).String(); got != "$" {
		t.Errorf("null affix renders as %q, want $", got)
	}
	if got := NewAffix("ed", Suffix).String(); got != "ed" {
		t.Errorf("affix renders as %q, want ed", got)
	}
}
