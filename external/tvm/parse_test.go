package tvm

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	parsed, clock, err := parseDateTime("12.11.2025 18:30")
	if err != nil {
		t.Fatalf("parse date with time: %v", err)
	}
	want := time.Date(2025, time.November, 12, 18, 30, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %s, got %s", want, parsed)
	}
	if clock != "18:30" {
		t.Fatalf("expected clock 18:30, got %q", clock)
	}
}

func TestParseDateTime_DateOnlyDefaultsToMidnight(t *testing.T) {
	t.Parallel()

	parsed, clock, err := parseDateTime("05.10.2025")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	want := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %s, got %s", want, parsed)
	}
	if clock != "" {
		t.Fatalf("expected empty clock, got %q", clock)
	}
}

func TestParseDateTime_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, _, err := parseDateTime("offen"); err == nil {
		t.Fatal("expected error for non-date label")
	}
	if _, _, err := parseDateTime("31.02.2025"); err == nil {
		t.Fatal("expected error for impossible calendar date")
	}
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	home, away, ok := parseScore("6:3")
	if !ok || home != 6 || away != 3 {
		t.Fatalf("expected 6:3, got %d:%d ok=%v", home, away, ok)
	}
	if _, _, ok := parseScore("-"); ok {
		t.Fatal("expected dash to be rejected")
	}
	if _, _, ok := parseScore(""); ok {
		t.Fatal("expected empty cell to be rejected")
	}
}

func TestParseCourtRange(t *testing.T) {
	t.Parallel()

	start, end, ok := parseCourtRange("3+4")
	if !ok || start != 3 || end != 4 {
		t.Fatalf("expected 3..4, got %d..%d ok=%v", start, end, ok)
	}

	start, end, ok = parseCourtRange("2")
	if !ok || start != 2 || end != 2 {
		t.Fatalf("expected 2..2, got %d..%d ok=%v", start, end, ok)
	}

	if _, _, ok := parseCourtRange("Halle A"); ok {
		t.Fatal("expected non-numeric court label to be rejected")
	}
}

func TestSplitTeamLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label      string
		wantClub   string
		wantSuffix string
	}{
		{"TC Rot-Weiss Köln II", "TC Rot-Weiss Köln", "II"},
		{"TG Leverkusen", "TG Leverkusen", ""},
		{"KölnerTHC Stadion RW 1", "KölnerTHC Stadion RW", "1"},
	}
	for _, tc := range cases {
		club, suffix := splitTeamLabel(tc.label)
		if club != tc.wantClub || suffix != tc.wantSuffix {
			t.Fatalf("label %q: expected (%q, %q), got (%q, %q)", tc.label, tc.wantClub, tc.wantSuffix, club, suffix)
		}
	}
}

func TestNormalizeRosterName(t *testing.T) {
	t.Parallel()

	if got := normalizeRosterName("Müller, Hans"); got != "Hans Müller" {
		t.Fatalf("expected Hans Müller, got %q", got)
	}
	if got := normalizeRosterName("Hans Müller"); got != "Hans Müller" {
		t.Fatalf("expected unchanged name, got %q", got)
	}
}
