package names

import (
	"testing"

	"RecordsScanner/internal/domain"
)

func TestParseTwoTokenRoundTrip(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"Travis Nee", "  Leilani Kahale ", "A B"} {
		parsed := Parse(input)
		if parsed.First == "" || parsed.Last == "" {
			t.Fatalf("%q: expected first and last, got %+v", input, parsed)
		}
		if got := parsed.FullName(); got != parsed.Full {
			t.Fatalf("%q: round trip produced %q, want %q", input, got, parsed.Full)
		}
	}
}

func TestParseMiddleName(t *testing.T) {
	t.Parallel()

	parsed := Parse("Travis Hong-Ah Nee")
	if parsed.First != "Travis" || parsed.Middle != "Hong-Ah" || parsed.Last != "Nee" {
		t.Fatalf("unexpected parse: %+v", parsed)
	}

	parsed = Parse("Mary Ann Lee Kealoha")
	if parsed.Middle != "Ann Lee" {
		t.Fatalf("expected joined middle names, got %q", parsed.Middle)
	}
}

func TestParseSingleToken(t *testing.T) {
	t.Parallel()

	parsed := Parse("Kainoa")
	if parsed.OK() {
		t.Fatalf("single token should not parse: %+v", parsed)
	}
	if parsed.First != "" || parsed.Last != "" || parsed.Middle != "" {
		t.Fatalf("expected empty components, got %+v", parsed)
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()

	got := Variants("Travis Hong-Ah Nee")
	want := []string{"Travis Hong-Ah Nee", "Nee, Travis", "Travis Nee"}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("variant %d: got %q, want %q", i, got[i], want[i])
		}
	}

	if got := Variants("Travis Nee"); len(got) != 2 {
		t.Fatalf("expected duplicate variant to collapse, got %v", got)
	}
	if got := Variants("Kainoa"); len(got) != 1 || got[0] != "Kainoa" {
		t.Fatalf("single token should search as given, got %v", got)
	}
	if got := Variants("   "); got != nil {
		t.Fatalf("blank name should have no variants, got %v", got)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		record string
		query  string
		want   bool
	}{
		{"NEE, TRAVIS", "Travis Hong-Ah Nee", true},
		{"Travis K. Nee", "Travis Nee", true},
		{"Travis Smith", "Travis Nee", false},
		{"", "Travis Nee", false},
		// Known weakness: any token containing the surname passes.
		{"Neenah Travison", "Travis Nee", true},
	}

	for _, tc := range cases {
		if got := Matches(tc.record, tc.query); got != tc.want {
			t.Fatalf("Matches(%q, %q) = %v, want %v", tc.record, tc.query, got, tc.want)
		}
	}
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	if got := Confidence("NEE, TRAVIS", "Travis Nee"); got != domain.ConfidenceExact {
		t.Fatalf("expected exact, got %s", got)
	}
	if got := Confidence("Travis K Nee", "Travis Nee"); got != domain.ConfidencePartial {
		t.Fatalf("expected partial, got %s", got)
	}
	if got := Confidence("Keoni Akana", "Travis Nee"); got != domain.ConfidenceWeak {
		t.Fatalf("expected weak, got %s", got)
	}
}
