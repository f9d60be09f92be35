package resolve

import (
	"testing"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/player"
)

func canonicalPlayers() []player.Player {
	return []player.Player{
		{ID: "p-mueller", Name: "Hans Müller", TVMID: "01234567"},
		{ID: "p-weber-a", Name: "Peter Weber"},
		{ID: "p-weber-b", Name: "Peter Weber", UserID: "user-42"},
		{ID: "p-koch", Name: "Jan Koch"},
	}
}

func TestPlayerResolver_FederationIDWins(t *testing.T) {
	t.Parallel()

	r := NewPlayerResolver(canonicalPlayers(), 0)

	// Leading zeros are insignificant, and the id beats a non-matching name.
	match, ok := r.Resolve("H. Mueller", "1234567")
	if !ok {
		t.Fatal("expected resolution by federation id")
	}
	if match.PlayerID != "p-mueller" || match.Method != MethodFederationID || match.Score != 100 {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestPlayerResolver_ExactNameAfterNormalization(t *testing.T) {
	t.Parallel()

	r := NewPlayerResolver(canonicalPlayers(), 0)

	match, ok := r.Resolve("Müller, Hans", "")
	if !ok {
		t.Fatal("expected resolution by exact name")
	}
	if match.PlayerID != "p-mueller" || match.Method != MethodNameExact {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestPlayerResolver_FuzzyFloor(t *testing.T) {
	t.Parallel()

	r := NewPlayerResolver(canonicalPlayers(), 0)

	match, ok := r.Resolve("Jan Kochh", "")
	if !ok {
		t.Fatal("expected fuzzy resolution")
	}
	if match.PlayerID != "p-koch" || match.Method != MethodNameFuzzy {
		t.Fatalf("unexpected match: %+v", match)
	}
	if match.Score < DefaultPlayerFloor || match.Score >= 100 {
		t.Fatalf("unexpected fuzzy score %d", match.Score)
	}

	if _, ok := r.Resolve("Völlig Anders", ""); ok {
		t.Fatal("expected unrelated name to stay unresolved")
	}
}

func TestPlayerResolver_TieBreakPrefersUserAttached(t *testing.T) {
	t.Parallel()

	r := NewPlayerResolver(canonicalPlayers(), 0)

	// Both Webers score identically on the misspelled name; the record with
	// an attached user account must win.
	match, ok := r.Resolve("Peter Webber", "")
	if !ok {
		t.Fatal("expected fuzzy resolution")
	}
	if match.Method != MethodNameFuzzy {
		t.Fatalf("expected fuzzy method, got %+v", match)
	}
	if match.PlayerID != "p-weber-b" {
		t.Fatalf("expected user-attached record to win the tie, got %+v", match)
	}
}

func TestPlayerResolver_ExactTierPrefersUserAttached(t *testing.T) {
	t.Parallel()

	r := NewPlayerResolver(canonicalPlayers(), 0)

	// Two canonical players carry the same name; the exact hit must land on
	// the one with an attached user account, not the first in id order.
	match, ok := r.Resolve("Peter Weber", "")
	if !ok {
		t.Fatal("expected resolution by exact name")
	}
	if match.Method != MethodNameExact {
		t.Fatalf("expected exact method, got %+v", match)
	}
	if match.PlayerID != "p-weber-b" {
		t.Fatalf("expected user-attached record, got %+v", match)
	}
}

func TestPlayerResolver_FuzzyAttachmentOutranksScore(t *testing.T) {
	t.Parallel()

	r := NewPlayerResolver([]player.Player{
		{ID: "p-close", Name: "Andrea Schneiderman"},
		{ID: "p-user", Name: "Andrea Schneider", UserID: "user-7"},
	}, 0)

	// The unattached record is textually closer, but both clear the floor
	// and the attached one must still win.
	match, ok := r.Resolve("Andrea Schneiderma", "")
	if !ok {
		t.Fatal("expected fuzzy resolution")
	}
	if match.Method != MethodNameFuzzy {
		t.Fatalf("expected fuzzy method, got %+v", match)
	}
	if match.PlayerID != "p-user" {
		t.Fatalf("expected user-attached record, got %+v", match)
	}
}
