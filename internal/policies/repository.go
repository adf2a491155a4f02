package policies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PolicyListQuery carries filters for admin policy listings
type PolicyListQuery struct {
	RefundType string
	Enabled    *bool
	AsOf       *time.Time
	Page       int
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, policy *RefundPolicy) error
	Update(ctx context.Context, policy *RefundPolicy) error
	GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error)
	List(ctx context.Context, query PolicyListQuery) ([]RefundPolicy, int64, error)

	// ListResolvable returns the enabled, non-deleted policies of one refund
	// type. Effective-window and day-range filtering happen in SelectPolicy so
	// that resolution stays a pure function of the explicit asOf instant.
	ListResolvable(ctx context.Context, refundType RefundType) ([]RefundPolicy, error)

	// Deactivate turns off a policy without deleting it.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// SoftDelete marks a policy deleted. Policies are never removed physically.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// NextFreePriority returns the lowest priority value in [PriorityMin,
	// PriorityMax] not taken by an enabled policy of the refund type.
	NextFreePriority(ctx context.Context, refundType RefundType) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, policy *RefundPolicy) error {
	if err := r.db.WithContext(ctx).Create(policy).Error; err != nil {
		return fmt.Errorf("failed to create refund policy: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, policy *RefundPolicy) error {
	if err := r.db.WithContext(ctx).Save(policy).Error; err != nil {
		return fmt.Errorf("failed to update refund policy: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error) {
	var policy RefundPolicy
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get refund policy: %w", err)
	}
	return &policy, nil
}

func (r *repository) List(ctx context.Context, query PolicyListQuery) ([]RefundPolicy, int64, error) {
	var items []RefundPolicy
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&RefundPolicy{}).
		Where("is_deleted = false")

	if query.RefundType != "" {
		baseQuery = baseQuery.Where("refund_type = ?", query.RefundType)
	}
	if query.Enabled != nil {
		baseQuery = baseQuery.Where("is_enabled = ?", *query.Enabled)
	}
	if query.AsOf != nil {
		baseQuery = baseQuery.
			Where("effective_from <= ?", *query.AsOf).
			Where("(effective_to IS NULL OR effective_to > ?)", *query.AsOf)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count refund policies: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("refund_type, priority, min_days_before_event").
		Offset(offset).
		Limit(query.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list refund policies: %w", err)
	}

	return items, totalCount, nil
}

func (r *repository) ListResolvable(ctx context.Context, refundType RefundType) ([]RefundPolicy, error) {
	var items []RefundPolicy
	err := r.db.WithContext(ctx).
		Where("refund_type = ? AND is_enabled = true AND is_deleted = false", refundType).
		Order("priority, min_days_before_event").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resolvable policies: %w", err)
	}
	return items, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&RefundPolicy{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{
			"is_enabled": false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate refund policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&RefundPolicy{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"is_enabled": false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete refund policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

func (r *repository) NextFreePriority(ctx context.Context, refundType RefundType) (int, error) {
	var taken []int
	err := r.db.WithContext(ctx).
		Model(&RefundPolicy{}).
		Where("refund_type = ? AND is_enabled = true AND is_deleted = false", refundType).
		Order("priority").
		Pluck("priority", &taken).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load taken priorities: %w", err)
	}

	used := make(map[int]bool, len(taken))
	for _, p := range taken {
		used[p] = true
	}
	for p := PriorityMin; p <= PriorityMax; p++ {
		if !used[p] {
			return p, nil
		}
	}
	return 0, ErrNoFreePriority
}
