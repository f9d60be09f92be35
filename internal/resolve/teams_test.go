package resolve

import (
	"testing"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/team"
)

func canonicalTeams() []team.Team {
	return []team.Team{
		{ID: "t-koeln-2", ClubName: "TC Rot-Weiss Köln", TeamName: "II", Category: "Herren 30"},
		{ID: "t-lev-1", ClubName: "TG Leverkusen", TeamName: "I", Category: "Herren 30"},
		{ID: "t-bonn-1", ClubName: "THC Bonn", TeamName: "I", Category: "Damen 40"},
	}
}

func TestTeamResolver_ExactVariantHit(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(canonicalTeams(), TeamResolverConfig{})

	// Arabic squad numeral resolves against the roman canonical label.
	match, ok := r.Resolve("TC Rot-Weiss Köln 2", "Herren 30")
	if !ok {
		t.Fatal("expected resolution")
	}
	if match.TeamID != "t-koeln-2" || match.Method != MethodExact {
		t.Fatalf("unexpected match: %+v", match)
	}

	// First squads are addressable without their numeral.
	match, ok = r.Resolve("TG Leverkusen", "Herren 30")
	if !ok || match.TeamID != "t-lev-1" || match.Method != MethodExact {
		t.Fatalf("unexpected match: %+v ok=%v", match, ok)
	}
}

func TestTeamResolver_ExactHitPrefersMatchingCategory(t *testing.T) {
	t.Parallel()

	// Both first squads collide on every variant key; only the category
	// distinguishes them.
	r := NewTeamResolver([]team.Team{
		{ID: "t-bonn-h30", ClubName: "TC Grün-Gold Bonn", TeamName: "I", Category: "Herren 30"},
		{ID: "t-bonn-h40", ClubName: "TC Grün-Gold Bonn", TeamName: "I", Category: "Herren 40"},
	}, TeamResolverConfig{})

	match, ok := r.Resolve("TC Grün-Gold Bonn", "Herren 40")
	if !ok || match.TeamID != "t-bonn-h40" || match.Method != MethodExact {
		t.Fatalf("unexpected match: %+v ok=%v", match, ok)
	}
	if match.CategoryMismatch {
		t.Fatal("expected no mismatch flag on a category-matching hit")
	}

	match, ok = r.Resolve("TC Grün-Gold Bonn I", "Herren 30")
	if !ok || match.TeamID != "t-bonn-h30" {
		t.Fatalf("unexpected match: %+v ok=%v", match, ok)
	}

	// Without a category the first registered team keeps winning.
	match, ok = r.Resolve("TC Grün-Gold Bonn", "")
	if !ok || match.TeamID != "t-bonn-h30" {
		t.Fatalf("unexpected match: %+v ok=%v", match, ok)
	}
}

func TestTeamResolver_ExactHitFlagsCategoryMismatch(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(canonicalTeams(), TeamResolverConfig{})

	// The label is unambiguous, so the exact hit stands, but the category
	// disagreement is surfaced for review.
	match, ok := r.Resolve("THC Bonn", "Herren 30")
	if !ok || match.TeamID != "t-bonn-1" || match.Method != MethodExact {
		t.Fatalf("unexpected match: %+v ok=%v", match, ok)
	}
	if !match.CategoryMismatch {
		t.Fatal("expected mismatch flag")
	}
}

func TestTeamResolver_OverrideWins(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(canonicalTeams(), TeamResolverConfig{
		Overrides: map[string]string{"RW Köln II": "t-koeln-2"},
	})

	match, ok := r.Resolve("RW Köln II", "")
	if !ok || match.TeamID != "t-koeln-2" || match.Method != MethodOverride {
		t.Fatalf("unexpected match: %+v ok=%v", match, ok)
	}
}

func TestTeamResolver_FuzzyAcceptsCloseLabel(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(canonicalTeams(), TeamResolverConfig{})

	// Typo keeps the label off the variant index but well above threshold
	// once the matching category adds its bonus.
	match, ok := r.Resolve("TC Rot-Weis Köln II", "Herren 30")
	if !ok {
		t.Fatal("expected fuzzy resolution")
	}
	if match.TeamID != "t-koeln-2" || match.Method != MethodFuzzy {
		t.Fatalf("unexpected match: %+v", match)
	}
	if match.CategoryMismatch {
		t.Fatal("expected no category mismatch flag")
	}
}

func TestTeamResolver_CategoryDisagreementRaisesBar(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(canonicalTeams(), TeamResolverConfig{})

	// Same typo, wrong category: the penalty plus the stricter threshold
	// must reject what the matching category accepted.
	if _, ok := r.Resolve("TC Rot-Weis Köln II", "Damen 40"); ok {
		t.Fatal("expected rejection under category disagreement")
	}
}

func TestTeamResolver_CategoryBonusMonotonic(t *testing.T) {
	t.Parallel()

	teams := canonicalTeams()
	neutral := NewTeamResolver(teams, TeamResolverConfig{})

	label := "TC Rot-Weis Köln II"
	withCategory, okWith := neutral.Resolve(label, "Herren 30")
	withoutCategory, okWithout := neutral.Resolve(label, "")

	if !okWith {
		t.Fatal("expected resolution with matching category")
	}
	if okWithout && withoutCategory.Score > withCategory.Score {
		t.Fatalf("category bonus decreased score: %v -> %v", withoutCategory.Score, withCategory.Score)
	}
}

func TestTeamResolver_UnknownLabel(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(canonicalTeams(), TeamResolverConfig{})
	if _, ok := r.Resolve("SV Neuling 1899", "Herren 30"); ok {
		t.Fatal("expected unknown label to stay unresolved")
	}
	if _, ok := r.Resolve("", "Herren 30"); ok {
		t.Fatal("expected empty label to stay unresolved")
	}
}
