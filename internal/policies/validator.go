package policies

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// rangesOverlap reports whether the inclusive day ranges [aMin, aMax] and
// [bMin, bMax] intersect. A nil max means unbounded.
func rangesOverlap(aMin int, aMax *int, bMin int, bMax *int) bool {
	if aMax != nil && *aMax < bMin {
		return false
	}
	if bMax != nil && *bMax < aMin {
		return false
	}
	return true
}

// OverlapReport lists the enabled policies whose day range intersects a
// candidate's, split by whether they share the candidate's priority.
type OverlapReport struct {
	SamePriority  []RefundPolicy
	OtherPriority []RefundPolicy
}

// HasConflict reports whether the candidate must be rejected. Same-priority
// overlaps are conflicts; cross-priority overlaps model deliberate exceptions
// (a narrow high-priority policy nested inside a broad default) and are
// resolved by the resolver's priority ordering instead.
func (r *OverlapReport) HasConflict() bool {
	return len(r.SamePriority) > 0
}

// BuildOverlapReport classifies every policy in existing whose range
// intersects the candidate's, skipping the candidate itself when updating.
// Pure over its inputs, so it is directly testable.
func BuildOverlapReport(candidate *RefundPolicy, existing []RefundPolicy, excludeID *uuid.UUID) OverlapReport {
	var report OverlapReport
	for _, p := range existing {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.RefundType != candidate.RefundType || !p.IsResolvable() {
			continue
		}
		if !rangesOverlap(candidate.MinDaysBeforeEvent, candidate.MaxDaysBeforeEvent, p.MinDaysBeforeEvent, p.MaxDaysBeforeEvent) {
			continue
		}
		if p.Priority == candidate.Priority {
			report.SamePriority = append(report.SamePriority, p)
		} else {
			report.OtherPriority = append(report.OtherPriority, p)
		}
	}
	return report
}

// OverlapValidator checks candidate policies against the catalog at authoring
// time.
type OverlapValidator struct {
	repo Repository
}

func NewOverlapValidator(repo Repository) *OverlapValidator {
	return &OverlapValidator{repo: repo}
}

// Check loads the enabled policies of the candidate's type and returns the
// overlap report. ErrPolicyOverlap is returned when a same-priority overlap
// exists; the report is returned either way so callers can surface the
// conflicting policies.
func (v *OverlapValidator) Check(ctx context.Context, candidate *RefundPolicy, excludeID *uuid.UUID) (OverlapReport, error) {
	existing, err := v.repo.ListResolvable(ctx, candidate.RefundType)
	if err != nil {
		return OverlapReport{}, fmt.Errorf("failed to load policies for overlap check: %w", err)
	}

	report := BuildOverlapReport(candidate, existing, excludeID)
	if report.HasConflict() {
		return report, ErrPolicyOverlap
	}
	return report, nil
}
