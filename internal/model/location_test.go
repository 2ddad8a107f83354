package model

import "testing"

func TestLocationRoundTrip(t *testing.T) {
	cases := []string{
		"45:0-54:1",
		"1:1-1:10",
		"200:4-250:1",
	}
	for _, s := range cases {
		loc, err := ParseLocation(s)
		if err != nil {
			t.Fatalf("ParseLocation(%q) error: %v", s, err)
		}
		if got := FormatLocation(loc); got != s {
			t.Errorf("FormatLocation(ParseLocation(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestLocationRejectsBackwardsRange(t *testing.T) {
	if _, err := ParseLocation("54:0-45:1"); err == nil {
		t.Fatal("expected error for endLine < startLine")
	}
}

func TestLocationRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "45-54:1", "45:0", "a:b-c:d"} {
		if _, err := ParseLocation(s); err == nil {
			t.Errorf("ParseLocation(%q): expected error", s)
		}
	}
}
