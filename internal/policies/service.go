package policies

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourly/pkg/cache"

	"github.com/google/uuid"
)

const resolvableCacheKeyPrefix = "tourly:policies:resolvable:"

// Service interface defines the contract for refund policy business logic
type Service interface {
	CreatePolicy(ctx context.Context, req PolicyRequest) (*RefundPolicy, error)
	UpdatePolicy(ctx context.Context, id uuid.UUID, req PolicyRequest) (*RefundPolicy, error)
	DeactivatePolicy(ctx context.Context, id uuid.UUID) error
	DeletePolicy(ctx context.Context, id uuid.UUID) error
	GetPolicy(ctx context.Context, id uuid.UUID) (*RefundPolicy, error)
	ListPolicies(ctx context.Context, query PolicyListQuery) ([]RefundPolicy, int64, error)
	NextFreePriority(ctx context.Context, refundType RefundType) (int, error)

	// ResolvePolicy returns the single applicable policy for the given refund
	// type, days-before-event and evaluation instant, or nil when none
	// applies.
	ResolvePolicy(ctx context.Context, refundType RefundType, daysBeforeEvent int, asOf time.Time) (*RefundPolicy, error)
}

// service implements the Service interface
type service struct {
	repo      Repository
	validator *OverlapValidator
	cache     cache.Service
	cacheTTL  time.Duration
}

// NewService creates a new policy service instance. cacheService may be nil;
// resolution then always reads through to the repository.
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:      repo,
		validator: NewOverlapValidator(repo),
		cache:     cacheService,
		cacheTTL:  cacheTTL,
	}
}

func (s *service) CreatePolicy(ctx context.Context, req PolicyRequest) (*RefundPolicy, error) {
	policy, err := req.toPolicy()
	if err != nil {
		return nil, err
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.validator.Check(ctx, policy, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, err
	}

	s.invalidateResolvableCache(ctx)
	return policy, nil
}

func (s *service) UpdatePolicy(ctx context.Context, id uuid.UUID, req PolicyRequest) (*RefundPolicy, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := req.toPolicy()
	if err != nil {
		return nil, err
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.validator.Check(ctx, updated, &id); err != nil {
		return nil, err
	}

	// Mutating a policy never rewrites history: already-resolved requests
	// keep their snapshotted amounts; only future resolutions see this.
	existing.RefundType = updated.RefundType
	existing.MinDaysBeforeEvent = updated.MinDaysBeforeEvent
	existing.MaxDaysBeforeEvent = updated.MaxDaysBeforeEvent
	existing.RefundPercentage = updated.RefundPercentage
	existing.ProcessingFee = updated.ProcessingFee
	existing.ProcessingFeePercentage = updated.ProcessingFeePercentage
	existing.Priority = updated.Priority
	existing.IsEnabled = updated.IsEnabled
	existing.EffectiveFrom = updated.EffectiveFrom
	existing.EffectiveTo = updated.EffectiveTo
	existing.Description = updated.Description
	existing.InternalNotes = updated.InternalNotes
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidateResolvableCache(ctx)
	return existing, nil
}

func (s *service) DeactivatePolicy(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidateResolvableCache(ctx)
	return nil
}

func (s *service) DeletePolicy(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateResolvableCache(ctx)
	return nil
}

func (s *service) GetPolicy(ctx context.Context, id uuid.UUID) (*RefundPolicy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListPolicies(ctx context.Context, query PolicyListQuery) ([]RefundPolicy, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *service) NextFreePriority(ctx context.Context, refundType RefundType) (int, error) {
	return s.repo.NextFreePriority(ctx, refundType)
}

func (s *service) ResolvePolicy(ctx context.Context, refundType RefundType, daysBeforeEvent int, asOf time.Time) (*RefundPolicy, error) {
	candidates, err := s.loadResolvable(ctx, refundType)
	if err != nil {
		return nil, err
	}
	return SelectPolicy(candidates, refundType, daysBeforeEvent, asOf), nil
}

// loadResolvable reads the per-type candidate list through the cache. The
// catalog is rarely written and frequently read, so cache-aside with write
// invalidation keeps resolution off the database for the common path.
func (s *service) loadResolvable(ctx context.Context, refundType RefundType) ([]RefundPolicy, error) {
	if s.cache == nil {
		return s.repo.ListResolvable(ctx, refundType)
	}

	var candidates []RefundPolicy
	key := resolvableCacheKeyPrefix + refundType.String()
	err := s.cache.GetOrSet(ctx, key, s.cacheTTL, func() (interface{}, error) {
		return s.repo.ListResolvable(ctx, refundType)
	}, &candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load resolvable policies: %w", err)
	}
	return candidates, nil
}

func (s *service) invalidateResolvableCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Writes are the only path that can change future resolutions; drop every
	// per-type list rather than tracking which types a write touched.
	if err := s.cache.DeletePattern(ctx, resolvableCacheKeyPrefix+"*"); err != nil {
		log.Printf("Warning: failed to invalidate policy cache: %v", err)
	}
}
