package resolve

import (
	"sort"
	"strings"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/player"
)

const (
	MethodFederationID = "federation_id"
	MethodNameExact    = "name_exact"
	MethodNameFuzzy    = "name_fuzzy"

	// DefaultPlayerFloor is the minimum fuzzy score (0..100) to accept a
	// candidate; below it the player counts as unknown.
	DefaultPlayerFloor = 70
)

// PlayerMatch is one accepted player resolution. Score is 0..100; the two
// exact tiers always score 100.
type PlayerMatch struct {
	PlayerID string
	Score    int
	Method   string
}

type playerCandidate struct {
	id           string
	federationID string
	names        []string
	userAttached bool
}

// PlayerResolver resolves scraped player names against the canonical roster.
// Resolution order: federation id, exact normalized name, bigram similarity.
// At every tier a player attached to an app user outranks an unattached one,
// because that record carries profile data the import must not fork; the
// similarity score only orders candidates within the same attachment class.
type PlayerResolver struct {
	floor        int
	byFederation map[string]string
	candidates   []playerCandidate
}

func NewPlayerResolver(players []player.Player, floor int) *PlayerResolver {
	if floor <= 0 {
		floor = DefaultPlayerFloor
	}

	byFederation := make(map[string]string, len(players))
	candidates := make([]playerCandidate, 0, len(players))
	for _, item := range players {
		if item.ID == "" {
			continue
		}
		candidate := playerCandidate{
			id:           item.ID,
			federationID: normalizeFederationID(item.TVMID),
			userAttached: strings.TrimSpace(item.UserID) != "",
		}
		for _, variant := range nameOrderVariants(item.Name) {
			if variant != "" {
				candidate.names = append(candidate.names, variant)
			}
		}
		if len(candidate.names) == 0 && candidate.federationID == "" {
			continue
		}
		candidates = append(candidates, candidate)

		if candidate.federationID != "" {
			if _, exists := byFederation[candidate.federationID]; !exists {
				byFederation[candidate.federationID] = item.ID
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].id < candidates[j].id })

	return &PlayerResolver{
		floor:        floor,
		byFederation: byFederation,
		candidates:   candidates,
	}
}

// Resolve maps one scraped player to a canonical record. tvmID may be empty;
// report pages carry names only, roster pages carry both.
func (r *PlayerResolver) Resolve(name, tvmID string) (PlayerMatch, bool) {
	if id := normalizeFederationID(tvmID); id != "" {
		if playerID, ok := r.byFederation[id]; ok {
			return PlayerMatch{PlayerID: playerID, Score: 100, Method: MethodFederationID}, true
		}
	}

	variants := nameOrderVariants(name)

	exact := PlayerMatch{}
	exactAttached := false
	exactFound := false
	for _, candidate := range r.candidates {
		if !matchesExact(candidate.names, variants) {
			continue
		}
		if !exactFound || (candidate.userAttached && !exactAttached) {
			exact = PlayerMatch{PlayerID: candidate.id, Score: 100, Method: MethodNameExact}
			exactAttached = candidate.userAttached
			exactFound = true
		}
	}
	if exactFound {
		return exact, true
	}

	best := PlayerMatch{}
	bestAttached := false
	found := false
	for _, candidate := range r.candidates {
		score := bestSimilarity(candidate.names, variants)
		if score < r.floor {
			continue
		}
		better := !found ||
			(candidate.userAttached && !bestAttached) ||
			(candidate.userAttached == bestAttached && score > best.Score)
		if better {
			best = PlayerMatch{PlayerID: candidate.id, Score: score, Method: MethodNameFuzzy}
			bestAttached = candidate.userAttached
			found = true
		}
	}

	return best, found
}

func matchesExact(names, variants []string) bool {
	for _, name := range names {
		for _, variant := range variants {
			if variant != "" && name == variant {
				return true
			}
		}
	}
	return false
}

func bestSimilarity(names, variants []string) int {
	best := 0.0
	for _, name := range names {
		for _, variant := range variants {
			if variant == "" {
				continue
			}
			if score := DiceCoefficient(name, variant); score > best {
				best = score
			}
		}
	}
	return int(best * 100)
}
