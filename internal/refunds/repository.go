package refunds

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestListQuery filters the admin listing. Zero values mean "no filter".
type RequestListQuery struct {
	Status     Status
	CustomerID uuid.UUID
	AdminID    uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, req *RefundRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*RefundRequest, error)
	List(ctx context.Context, query RequestListQuery) ([]RefundRequest, int64, error)
	// UpdateStatusCAS applies updates only if the row is still in the given
	// status, returning the number of rows changed. Zero rows means the
	// request is gone or another writer moved it first.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from Status, updates map[string]interface{}) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, req *RefundRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRequestExists
		}
		return err
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	var req RefundRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *gormRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*RefundRequest, error) {
	var req RefundRequest
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *gormRepository) List(ctx context.Context, query RequestListQuery) ([]RefundRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&RefundRequest{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.CustomerID != uuid.Nil {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.AdminID != uuid.Nil {
		db = db.Where("processed_by_admin_id = ?", query.AdminID)
	}
	if query.From != nil {
		db = db.Where("requested_at >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("requested_at < ?", *query.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var requests []RefundRequest
	err := db.Order("requested_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *gormRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from Status, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
