package grading

import (
	"math"
	"sort"

	"github.com/shulehub/matokeo-api/internal/models"
)

// Grade is a resolved letter grade with its point value.
type Grade struct {
	Grade  string
	Points float64
}

// NeutralGrade is returned when a value of zero, or an empty rule table,
// leaves nothing to resolve against.
var NeutralGrade = Grade{Grade: "-", Points: 0}

// Resolver answers grade lookups for one grading system. Rules are loaded
// once and searched in memory; callers build one Resolver per system instead
// of querying per value. Placeholder rules never match a lookup: they exist
// for callers to tag absent or exempt students directly.
type Resolver struct {
	rules    []models.GradingRule
	fallback *models.GradingRule
}

// NewResolver builds a resolver from a grading system's rule set. The rule
// order supplied by the caller does not matter; rules are kept sorted by
// score descending internally.
func NewResolver(rules []models.GradingRule) *Resolver {
	sorted := make([]models.GradingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MaxScore != sorted[j].MaxScore {
			return sorted[i].MaxScore > sorted[j].MaxScore
		}
		return sorted[i].Points > sorted[j].Points
	})

	r := &Resolver{rules: sorted}

	// The fallback is the lowest-scoring rule that is not a placeholder
	// sentinel such as "absent" or "exempt".
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].Placeholder {
			rule := sorted[i]
			r.fallback = &rule
			break
		}
	}

	return r
}

// ResolveScore maps a composite score to a grade using closed-interval
// matching. When overlapping rules both contain the value, the rule whose
// interval midpoint lies closest to it wins.
func (r *Resolver) ResolveScore(value float64) Grade {
	var best *models.GradingRule
	bestDistance := math.MaxFloat64

	for i := range r.rules {
		rule := &r.rules[i]
		if rule.Placeholder {
			continue
		}
		if value < rule.MinScore || value > rule.MaxScore {
			continue
		}
		midpoint := (rule.MinScore + rule.MaxScore) / 2
		distance := math.Abs(midpoint - value)
		if distance < bestDistance {
			best = rule
			bestDistance = distance
		}
	}

	if best != nil {
		return Grade{Grade: best.Grade, Points: best.Points}
	}

	return r.resolveFallback(value)
}

// ResolvePoints maps a points total to a grade by exact match on the rule's
// point value, preferring the highest-scoring rule when several share it.
// Fractional inputs (mean points) are matched against their nearest whole
// point value.
func (r *Resolver) ResolvePoints(value float64) Grade {
	rounded := math.Round(value)

	for i := range r.rules {
		rule := &r.rules[i]
		if rule.Placeholder {
			continue
		}
		if rule.Points == rounded {
			return Grade{Grade: rule.Grade, Points: rule.Points}
		}
	}

	return r.resolveFallback(value)
}

// resolveFallback implements the no-match policy: positive values degrade to
// the lowest non-placeholder rule, everything else to the neutral grade. The
// result depends only on the rule table, so repeated calls agree.
func (r *Resolver) resolveFallback(value float64) Grade {
	if value > 0 && r.fallback != nil {
		return Grade{Grade: r.fallback.Grade, Points: r.fallback.Points}
	}

	return NeutralGrade
}
