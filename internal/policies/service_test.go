package policies

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type fakePolicyRepo struct {
	policies map[uuid.UUID]*RefundPolicy
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: make(map[uuid.UUID]*RefundPolicy)}
}

func (f *fakePolicyRepo) Create(ctx context.Context, policy *RefundPolicy) error {
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	stored := *policy
	f.policies[policy.ID] = &stored
	return nil
}

func (f *fakePolicyRepo) Update(ctx context.Context, policy *RefundPolicy) error {
	if _, ok := f.policies[policy.ID]; !ok {
		return ErrPolicyNotFound
	}
	stored := *policy
	f.policies[policy.ID] = &stored
	return nil
}

func (f *fakePolicyRepo) GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error) {
	stored, ok := f.policies[id]
	if !ok || stored.IsDeleted {
		return nil, ErrPolicyNotFound
	}
	copied := *stored
	return &copied, nil
}

func (f *fakePolicyRepo) List(ctx context.Context, query PolicyListQuery) ([]RefundPolicy, int64, error) {
	var out []RefundPolicy
	for _, p := range f.policies {
		if p.IsDeleted {
			continue
		}
		if query.RefundType != "" && string(p.RefundType) != query.RefundType {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePolicyRepo) ListResolvable(ctx context.Context, refundType RefundType) ([]RefundPolicy, error) {
	var out []RefundPolicy
	for _, p := range f.policies {
		if p.RefundType == refundType && p.IsResolvable() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePolicyRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	stored, ok := f.policies[id]
	if !ok || stored.IsDeleted {
		return ErrPolicyNotFound
	}
	stored.IsEnabled = false
	return nil
}

func (f *fakePolicyRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	stored, ok := f.policies[id]
	if !ok || stored.IsDeleted {
		return ErrPolicyNotFound
	}
	stored.IsDeleted = true
	stored.IsEnabled = false
	return nil
}

func (f *fakePolicyRepo) NextFreePriority(ctx context.Context, refundType RefundType) (int, error) {
	used := make(map[int]bool)
	for _, p := range f.policies {
		if p.RefundType == refundType && p.IsResolvable() {
			used[p.Priority] = true
		}
	}
	for p := PriorityMin; p <= PriorityMax; p++ {
		if !used[p] {
			return p, nil
		}
	}
	return 0, ErrNoFreePriority
}

// ============================================================================
// Helpers
// ============================================================================

func policyRequest(minDays int, maxDays *int, priority int) PolicyRequest {
	return PolicyRequest{
		RefundType:         string(RefundTypeUserCancellation),
		MinDaysBeforeEvent: minDays,
		MaxDaysBeforeEvent: maxDays,
		RefundPercentage:   "50",
		ProcessingFee:      "50000",
		Priority:           priority,
		EffectiveFrom:      "2025-01-01T00:00:00Z",
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestCreatePolicy_PersistsValidPolicy(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	created, err := svc.CreatePolicy(context.Background(), policyRequest(7, nil, 1))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsEnabled)
	assert.Len(t, repo.policies, 1)
}

func TestCreatePolicy_SamePriorityOverlapRejected(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	ten := 10
	_, err := svc.CreatePolicy(context.Background(), policyRequest(0, &ten, 5))
	require.NoError(t, err)

	// [5, 15] intersects [0, 10] at the same priority.
	fifteen := 15
	_, err = svc.CreatePolicy(context.Background(), policyRequest(5, &fifteen, 5))
	assert.ErrorIs(t, err, ErrPolicyOverlap)
	assert.Len(t, repo.policies, 1)
}

func TestCreatePolicy_CrossPriorityOverlapAllowed(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	_, err := svc.CreatePolicy(context.Background(), policyRequest(0, nil, 10))
	require.NoError(t, err)

	three := 3
	_, err = svc.CreatePolicy(context.Background(), policyRequest(0, &three, 1))
	require.NoError(t, err)
	assert.Len(t, repo.policies, 2)
}

func TestCreatePolicy_InvalidFieldsNothingPersisted(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	req := policyRequest(0, nil, 1)
	req.RefundPercentage = "150"

	_, err := svc.CreatePolicy(context.Background(), req)
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, repo.policies)
}

func TestUpdatePolicy_ExcludesSelfFromOverlapCheck(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	ten := 10
	created, err := svc.CreatePolicy(context.Background(), policyRequest(0, &ten, 5))
	require.NoError(t, err)

	// Widening its own range must not conflict with itself.
	twelve := 12
	updated, err := svc.UpdatePolicy(context.Background(), created.ID, policyRequest(0, &twelve, 5))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 12, *updated.MaxDaysBeforeEvent)
}

func TestDeletePolicy_SoftDeletesAndHides(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	created, err := svc.CreatePolicy(context.Background(), policyRequest(0, nil, 1))
	require.NoError(t, err)

	require.NoError(t, svc.DeletePolicy(context.Background(), created.ID))

	_, err = svc.GetPolicy(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrPolicyNotFound)

	// The row still exists, only marked.
	assert.Len(t, repo.policies, 1)
	assert.True(t, repo.policies[created.ID].IsDeleted)
}

func TestDeactivatePolicy_RemovesFromResolution(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	created, err := svc.CreatePolicy(context.Background(), policyRequest(0, nil, 1))
	require.NoError(t, err)

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	resolved, err := svc.ResolvePolicy(context.Background(), RefundTypeUserCancellation, 5, asOf)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, created.ID, resolved.ID)

	require.NoError(t, svc.DeactivatePolicy(context.Background(), created.ID))

	resolved, err = svc.ResolvePolicy(context.Background(), RefundTypeUserCancellation, 5, asOf)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestNextFreePriority_SkipsTakenSlots(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nil, 0)

	six := 6
	_, err := svc.CreatePolicy(context.Background(), policyRequest(0, &six, 1))
	require.NoError(t, err)
	_, err = svc.CreatePolicy(context.Background(), policyRequest(7, nil, 2))
	require.NoError(t, err)

	next, err := svc.NextFreePriority(context.Background(), RefundTypeUserCancellation)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	// Other types have their own priority space.
	next, err = svc.NextFreePriority(context.Background(), RefundTypeCompanyCancellation)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}
