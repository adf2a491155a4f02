package policies

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// SelectPolicy picks the single applicable policy from candidates for the
// given refund type, days-before-event and evaluation instant, or nil when
// none applies. It is a pure function of its inputs: resolution depends only
// on the catalog snapshot and the passed asOf instant.
//
// Selection order among matches:
//  1. lowest priority value (lower number = higher precedence)
//  2. narrowest day range (unbounded counts as maximally wide)
//  3. most recent effective_from
//  4. lowest id (stable, never random)
func SelectPolicy(candidates []RefundPolicy, refundType RefundType, daysBeforeEvent int, asOf time.Time) *RefundPolicy {
	matches := make([]RefundPolicy, 0, len(candidates))
	for _, p := range candidates {
		if p.RefundType != refundType || !p.IsResolvable() {
			continue
		}
		if !p.IsEffectiveAt(asOf) || !p.MatchesDays(daysBeforeEvent) {
			continue
		}
		matches = append(matches, p)
	}

	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if aw, bw := a.DayRangeWidth(), b.DayRangeWidth(); aw != bw {
			return aw < bw
		}
		if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
			return a.EffectiveFrom.After(b.EffectiveFrom)
		}
		return a.ID.String() < b.ID.String()
	})

	winner := matches[0]
	return &winner
}

// Resolver answers "which policy applies" questions against the catalog.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the applicable policy for the refund type at the given
// days-before-event and instant, or nil when no policy applies. The caller
// decides the no-policy fallback.
func (r *Resolver) Resolve(ctx context.Context, refundType RefundType, daysBeforeEvent int, asOf time.Time) (*RefundPolicy, error) {
	candidates, err := r.repo.ListResolvable(ctx, refundType)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate policies: %w", err)
	}
	return SelectPolicy(candidates, refundType, daysBeforeEvent, asOf), nil
}
