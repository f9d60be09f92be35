package resolve

import (
	"sort"
	"strings"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/team"
)

const (
	MethodOverride = "override"
	MethodExact    = "exact"
	MethodFuzzy    = "fuzzy"
)

// Default fuzzy parameters. A candidate from the wrong age category has to
// clear a higher bar than one from the right category, and the category
// signal shifts the score itself in both directions.
const (
	DefaultTeamThreshold       = 0.90
	DefaultTeamStrictThreshold = 0.95
	DefaultCategoryBonus       = 0.20
	DefaultCategoryPenalty     = 0.30
)

// TeamMatch is one accepted resolution.
type TeamMatch struct {
	TeamID string
	Score  float64
	Method string
	// CategoryMismatch flags an accepted match whose canonical category
	// disagrees with the scraped one; callers log these for review.
	CategoryMismatch bool
}

type TeamResolverConfig struct {
	Threshold       float64
	StrictThreshold float64
	CategoryBonus   float64
	CategoryPenalty float64
	// Overrides maps scraped labels to canonical team ids and wins over
	// every other rule. Keys are normalized on construction.
	Overrides map[string]string
}

type teamCandidate struct {
	id         string
	normalized string
	category   string
}

// variantTarget is one team registered under a variant key. Distinct teams
// can share a key, e.g. a club's Herren 30 and Herren 40 first squads.
type variantTarget struct {
	id       string
	category string
}

// TeamResolver resolves scraped team labels against the canonical team set.
// It is immutable after construction and safe for concurrent use.
type TeamResolver struct {
	cfg        TeamResolverConfig
	overrides  map[string]string
	variants   map[string][]variantTarget
	candidates []teamCandidate
}

func NewTeamResolver(teams []team.Team, cfg TeamResolverConfig) *TeamResolver {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultTeamThreshold
	}
	if cfg.StrictThreshold <= 0 {
		cfg.StrictThreshold = DefaultTeamStrictThreshold
	}
	if cfg.CategoryBonus <= 0 {
		cfg.CategoryBonus = DefaultCategoryBonus
	}
	if cfg.CategoryPenalty <= 0 {
		cfg.CategoryPenalty = DefaultCategoryPenalty
	}

	overrides := make(map[string]string, len(cfg.Overrides))
	for label, id := range cfg.Overrides {
		if key := Normalize(label); key != "" && strings.TrimSpace(id) != "" {
			overrides[key] = strings.TrimSpace(id)
		}
	}

	variants := make(map[string][]variantTarget, len(teams)*2)
	candidates := make([]teamCandidate, 0, len(teams))
	for _, item := range teams {
		label := item.Label()
		normalized := Normalize(label)
		if item.ID == "" || normalized == "" {
			continue
		}
		category := Normalize(item.Category)
		candidates = append(candidates, teamCandidate{
			id:         item.ID,
			normalized: normalized,
			category:   category,
		})
		for _, variant := range teamVariants(label) {
			// Registration order is kept so colliding labels without a
			// category signal stay deterministic.
			if hasVariantID(variants[variant], item.ID) {
				continue
			}
			variants[variant] = append(variants[variant], variantTarget{
				id:       item.ID,
				category: category,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].id < candidates[j].id })

	return &TeamResolver{
		cfg:        cfg,
		overrides:  overrides,
		variants:   variants,
		candidates: candidates,
	}
}

// Resolve maps one scraped team label to a canonical team id. Overrides win
// first, then exact variant hits, then the fuzzy scan. When the group's
// category is known, an exact hit whose canonical category matches it beats
// earlier-registered teams under the same key. The boolean is false when no
// candidate clears its threshold.
func (r *TeamResolver) Resolve(label, category string) (TeamMatch, bool) {
	normalized := Normalize(label)
	if normalized == "" {
		return TeamMatch{}, false
	}

	if id, ok := r.overrides[normalized]; ok {
		return TeamMatch{TeamID: id, Score: 1, Method: MethodOverride}, true
	}

	wantCategory := Normalize(category)
	for _, variant := range teamVariants(label) {
		targets := r.variants[variant]
		if len(targets) == 0 {
			continue
		}
		chosen := targets[0]
		if wantCategory != "" {
			for _, target := range targets {
				if target.category == wantCategory {
					chosen = target
					break
				}
			}
		}
		mismatch := wantCategory != "" && chosen.category != "" && chosen.category != wantCategory
		return TeamMatch{TeamID: chosen.id, Score: 1, Method: MethodExact, CategoryMismatch: mismatch}, true
	}

	return r.resolveFuzzy(normalized, wantCategory)
}

func hasVariantID(targets []variantTarget, id string) bool {
	for _, target := range targets {
		if target.id == id {
			return true
		}
	}
	return false
}

func (r *TeamResolver) resolveFuzzy(normalized, category string) (TeamMatch, bool) {
	best := TeamMatch{}
	bestRaw := 0.0
	found := false

	for _, candidate := range r.candidates {
		raw := DiceCoefficient(normalized, candidate.normalized)
		if raw <= 0 {
			continue
		}

		score := raw
		mismatch := false
		switch {
		case category != "" && candidate.category != "" && category == candidate.category:
			score += r.cfg.CategoryBonus
		case category != "" && candidate.category != "" && category != candidate.category:
			score -= r.cfg.CategoryPenalty
			mismatch = true
		}
		if score > 1 {
			score = 1
		}

		threshold := r.cfg.Threshold
		if mismatch {
			threshold = r.cfg.StrictThreshold
		}
		if score < threshold {
			continue
		}

		// Ties break on the raw similarity so the category signal cannot
		// pull a textually worse candidate ahead of an equal-scored one.
		if !found || score > best.Score || (score == best.Score && raw > bestRaw) {
			best = TeamMatch{
				TeamID:           candidate.id,
				Score:            score,
				Method:           MethodFuzzy,
				CategoryMismatch: mismatch,
			}
			bestRaw = raw
			found = true
		}
	}

	return best, found
}
