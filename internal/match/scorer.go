package match

import (
	"sort"
	"strings"

	"gamesense/internal/igdb"
)

// Base-match tier bonuses. Tiers are mutually exclusive: they are evaluated
// in order and only the first matching tier fires.
const (
	tierExact           = 100
	tierCaseInsensitive = 90
	tierNormalized      = 80
	tierPrefix          = 50
	tierContains        = 30
)

// Category adjustments, applied independently of the base tier.
const (
	bonusMainGame = 20
	penaltyAddOn  = -50
)

// tierRule pairs a predicate with its bonus. Predicates receive the search
// title and candidate name in raw and normalized form.
type tierRule struct {
	applies func(raw, rawName, norm, normName string) bool
	bonus   float64
}

// tiers is the ordered base-match rule table. First match wins.
var tiers = []tierRule{
	{func(raw, rawName, _, _ string) bool { return raw == rawName }, tierExact},
	{func(raw, rawName, _, _ string) bool { return strings.EqualFold(raw, rawName) }, tierCaseInsensitive},
	{func(_, _, norm, normName string) bool { return norm == normName }, tierNormalized},
	{func(_, _, norm, normName string) bool { return norm != "" && strings.HasPrefix(normName, norm) }, tierPrefix},
	{func(_, _, norm, normName string) bool { return norm != "" && strings.Contains(normName, norm) }, tierContains},
}

// Score rates a single candidate against the searched title. The base tier
// and the category adjustment are additive; a score at or below zero means
// the candidate is not an acceptable match on its own.
func Score(title string, g igdb.Game) float64 {
	norm := Normalize(title)
	normName := Normalize(g.Name)

	var score float64
	for _, t := range tiers {
		if t.applies(title, g.Name, norm, normName) {
			score = t.bonus
			break
		}
	}

	switch g.Category {
	case igdb.CategoryMainGame:
		score += bonusMainGame
	case igdb.CategoryDLC, igdb.CategoryExpansion, igdb.CategoryStandaloneExpansion:
		score += penaltyAddOn
	}

	return score
}

// Rank scores every candidate and returns the best one, or nil when no
// candidate clears zero. The sort is stable, so ties keep the order the
// catalog returned them in.
func Rank(title string, candidates []igdb.Game) *igdb.Game {
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]struct {
		game  igdb.Game
		score float64
	}, len(candidates))
	for i, g := range candidates {
		scored[i].game = g
		scored[i].score = Score(title, g)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if scored[0].score <= 0 {
		return nil
	}
	best := scored[0].game
	return &best
}
