package normalize

import (
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Title", "title"},
		{"spaces", "Date Digitized", "date_digitized"},
		{"parenthetical", "Town (Modern Official)", "town_modern_official"},
		{"hyphens and periods", "Doc-Type. Primary", "doc_type_primary"},
		{"mixed separators", "Call \t Number  -  Old", "call_number_old"},
		{"leading trailing junk", "  :Archive:  ", "archive"},
		{"punctuation only", "(!?)", ""},
		{"empty", "", ""},
		{"already normalized", "modern_spanish", "modern_spanish"},
		{"digits kept", "Page 2 of 10", "page_2_of_10"},
		{"accented letters dropped", "Año", "ao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.in); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []string{
		"Title", "Town (Modern Official)", "Date Digitized",
		"  weird -- label .. here  ", "", "(!?)", "a_b_c",
	}
	for _, in := range inputs {
		once := Key(in)
		twice := Key(once)
		if once != twice {
			t.Errorf("Key not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestKey_OutputAlphabet(t *testing.T) {
	inputs := []string{
		"Title: with colon", "überschrift", "x  y\tz", "--__--", "A.B-C D",
	}
	for _, in := range inputs {
		out := Key(in)
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
			if !ok {
				t.Errorf("Key(%q) = %q contains disallowed rune %q", in, out, r)
			}
		}
		if strings.HasPrefix(out, "_") || strings.HasSuffix(out, "_") {
			t.Errorf("Key(%q) = %q has edge underscore", in, out)
		}
		if strings.Contains(out, "__") {
			t.Errorf("Key(%q) = %q has doubled underscore", in, out)
		}
	}
}
